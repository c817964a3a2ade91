package markers

import (
	"fmt"

	"go-fieldwatch/types"
)

const Placeholder = "Click on a marker to see details."

var iconURLs = map[types.Category]string{
	types.Fire:        "https://cdn-icons-png.flaticon.com/512/1828/1828884.png",
	types.Rescued:     "https://cdn-icons-png.flaticon.com/512/3523/3523063.png",
	types.Firefighter: "https://cdn-icons-png.flaticon.com/512/4974/4974664.png",
}

const selectedIconURL = "https://cdn-icons-png.flaticon.com/512/684/684908.png"

var (
	normalSize   = types.IconSize{Width: 30, Height: 30}
	selectedSize = types.IconSize{Width: 50, Height: 50}
)

// Icon builds the icon descriptor for m. Highlighted markers are larger and use
// the selection glyph.
func Icon(m types.Marker, highlighted bool) types.MarkerIcon {
	icon := types.MarkerIcon{
		ID:         m.ID,
		Category:   m.Category,
		Tooltip:    string(m.Category),
		Popup:      fmt.Sprintf("%s (%s)", m.Label, m.Category),
		Position:   m.Coordinates,
		IconURL:    iconURLs[m.Category],
		IconSize:   normalSize,
		IconAnchor: types.IconSize{Width: normalSize.Width / 2, Height: normalSize.Height / 2},
	}
	if highlighted {
		icon.Highlighted = true
		icon.IconURL = selectedIconURL
		icon.IconSize = selectedSize
		icon.IconAnchor = types.IconSize{Width: selectedSize.Width / 2, Height: selectedSize.Height / 2}
	}
	return icon
}

// View derives the icon list and detail panel from the current selection.
func (r *Registry) View() types.MarkerView {
	selected, ok := r.Selected()

	view := types.MarkerView{Markers: make([]types.MarkerIcon, 0, len(r.markers))}
	for _, m := range r.markers {
		view.Markers = append(view.Markers, Icon(m, ok && m.ID == selected.ID))
	}

	if ok {
		view.Detail = types.MarkerDetail{Selected: true, Label: selected.Label, Role: selected.Category}
	} else {
		view.Detail = types.MarkerDetail{Placeholder: Placeholder}
	}
	return view
}
