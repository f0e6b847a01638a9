package dto

type LocationRequest struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Lat  *float64 `json:"lat"`
	Lon  *float64 `json:"lon"`
}

type RouteRequest struct {
	Origin  LocationRequest   `json:"origin"`
	Clients []LocationRequest `json:"clients"`
	// Credential overrides the server's maps API key for this request.
	Credential string `json:"credential"`
}

type RouteStepResponse struct {
	Step                   int     `json:"step"`
	ID                     string  `json:"id"`
	Name                   string  `json:"name"`
	Lat                    float64 `json:"lat"`
	Lon                    float64 `json:"lon"`
	DistanceFromPreviousKm float64 `json:"distance_from_previous_km"`
	Type                   string  `json:"type"`
}

type RouteResponse struct {
	OptimizedRoute    []RouteStepResponse `json:"optimized_route"`
	TotalDistanceKm   float64             `json:"total_distance_km"`
	ClientCount       int                 `json:"client_count"`
	EstimatedFuelCost int64               `json:"estimated_fuel_cost"`
	DataSource        string              `json:"data_source"`
	// Polyline holds [lat, lon] pairs.
	Polyline [][2]float64 `json:"polyline"`
}
