package domain

// OverlayHandle identifies a marker or polyline drawn on a map.
type OverlayHandle string

// PathStyle describes how a route polyline is drawn.
type PathStyle struct {
	Color  string  `json:"color"`
	Weight float64 `json:"weight,omitempty"`
}

// MapCommand is a single instruction for the browser map widget.
type MapCommand struct {
	Op          string        `json:"op"`
	Handle      OverlayHandle `json:"handle,omitempty"`
	Center      *GeoPoint     `json:"center,omitempty"`
	Zoom        int           `json:"zoom,omitempty"`
	URLTemplate string        `json:"url_template,omitempty"`
	Attribution string        `json:"attribution,omitempty"`
	Points      []GeoPoint    `json:"points,omitempty"`
	Style       *PathStyle    `json:"style,omitempty"`
	Popup       string        `json:"popup,omitempty"`
	OpenPopup   bool          `json:"open_popup,omitempty"`
	Bounds      *Bounds       `json:"bounds,omitempty"`
}

// Map command operations.
const (
	OpInitialize = "initialize"
	OpTileLayer  = "tile_layer"
	OpPolyline   = "polyline"
	OpMarker     = "marker"
	OpRemove     = "remove"
	OpFitBounds  = "fit_bounds"
)
