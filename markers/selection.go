package markers

import "go-fieldwatch/types"

// Reduce picks the first marker, in registration order, whose click counter is
// exactly 1. It returns false when no counter qualifies.
func Reduce(markers []types.Marker, clicks []types.ClickCount) (string, bool) {
	counts := make(map[string]int, len(clicks))
	for _, c := range clicks {
		if _, seen := counts[c.ID]; !seen {
			counts[c.ID] = c.Count
		}
	}
	for _, m := range markers {
		if counts[m.ID] == 1 {
			return m.ID, true
		}
	}
	return "", false
}

// ApplyClicks runs Reduce against the registry and updates the selection.
// The selection is left untouched when the batch has no counter equal to 1.
func (r *Registry) ApplyClicks(clicks []types.ClickCount) (types.Marker, bool) {
	if id, ok := Reduce(r.markers, clicks); ok {
		r.Select(id)
	}
	return r.Selected()
}
