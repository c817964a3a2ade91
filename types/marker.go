package types

type Category string

const (
	Fire        Category = "Fire"
	Rescued     Category = "Rescued"
	Firefighter Category = "Firefighter"
)

// Categories lists every marker category in a stable order.
var Categories = []Category{Fire, Rescued, Firefighter}

type Coordinates struct {
	Lat float64 `json:"lat" firestore:"lat"`
	Lon float64 `json:"lon" firestore:"lon"`
}

// Marker is a fixed map entity. It never changes after the registry creates it.
type Marker struct {
	ID          string      `json:"id"`
	Category    Category    `json:"category"`
	Label       string      `json:"label"`
	Coordinates Coordinates `json:"coordinates"`
}

// ClickCount is one entry of the click batch sent by the presentation layer.
type ClickCount struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

type IconSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// MarkerIcon is the derived icon descriptor for one marker.
type MarkerIcon struct {
	ID          string      `json:"id"`
	Category    Category    `json:"category"`
	Tooltip     string      `json:"tooltip"`
	Popup       string      `json:"popup"`
	Position    Coordinates `json:"position"`
	IconURL     string      `json:"iconUrl"`
	IconSize    IconSize    `json:"iconSize"`
	IconAnchor  IconSize    `json:"iconAnchor"`
	Highlighted bool        `json:"highlighted"`
}

// MarkerDetail is the detail panel. Placeholder is set when nothing is selected.
type MarkerDetail struct {
	Selected    bool     `json:"selected"`
	Label       string   `json:"label,omitempty"`
	Role        Category `json:"role,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
}

type MarkerView struct {
	Markers []MarkerIcon `json:"markers"`
	Detail  MarkerDetail `json:"detail"`
}
