package domain

// StepKind classifies a RouteStep.
type StepKind string

const (
	StepOrigin StepKind = "origin"
	StepClient StepKind = "client"
	StepReturn StepKind = "return"
)

// DataSource tells whether a route was built from provider distances or the
// geometric approximation.
type DataSource string

const (
	DataSourcePrimary  DataSource = "primary"
	DataSourceFallback DataSource = "fallback"
)

const (
	ReturnStepID   = "BRANCH_RETURN"
	ReturnStepName = "Return to Branch"
)

// Represents a single stop in a route.
// Steps are numbered from 1 and DistanceFromPreviousKm is rounded to 2 decimals.
type RouteStep struct {
	Step                   int
	ID                     string
	Name                   string
	Lat                    float64
	Lon                    float64
	DistanceFromPreviousKm float64
	Kind                   StepKind
}

func (s RouteStep) Coordinates() Coordinates {
	return Coordinates{Lat: s.Lat, Lon: s.Lon}
}

// Represents the planned visiting order for a single vehicle.
// A RouteResult starts at the branch office, visits every client once and
// returns to the branch. It is immutable planning data and contains no side effects.
type RouteResult struct {
	Steps           []RouteStep
	TotalDistanceKm float64
	ClientCount     int
	EstimatedCost   int64
	DataSource      DataSource
	// Path is the display outline for the route, nil when not requested.
	Path []Coordinates
}

// OrderedCoordinates returns the coordinates of every step in route order.
func (r *RouteResult) OrderedCoordinates() []Coordinates {
	out := make([]Coordinates, 0, len(r.Steps))
	for _, s := range r.Steps {
		out = append(out, s.Coordinates())
	}
	return out
}
