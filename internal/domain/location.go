package domain

// Represents a branch office or a client site taking part in a route request.
// IDs are unique within a single request. A Location is never modified once
// the request has been accepted.
type Location struct {
	ID   string  `json:"id" validate:"required"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat" validate:"latitude"`
	Lon  float64 `json:"lon" validate:"longitude"`
}

func (l Location) Coordinates() Coordinates {
	return Coordinates{Lat: l.Lat, Lon: l.Lon}
}
