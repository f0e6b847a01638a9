package domain

// DistanceMatrix maps origin id -> destination id -> distance in kilometers.
//
// A complete matrix over N locations holds N rows of N columns each and a zero
// diagonal. Entries are directional when they come from a driving-distance
// provider; fallback entries are symmetric.
type DistanceMatrix map[string]map[string]float64

func NewDistanceMatrix(ids []string) DistanceMatrix {
	m := make(DistanceMatrix, len(ids))
	for _, id := range ids {
		m[id] = make(map[string]float64, len(ids))
	}
	return m
}

// Lookup returns the distance from one id to another and whether it is present.
func (m DistanceMatrix) Lookup(from, to string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	row, ok := m[from]
	if !ok {
		return 0, false
	}
	km, ok := row[to]
	return km, ok
}

func (m DistanceMatrix) Set(from, to string, km float64) {
	row, ok := m[from]
	if !ok {
		row = make(map[string]float64)
		m[from] = row
	}
	row[to] = km
}

// Size returns the number of origin rows.
func (m DistanceMatrix) Size() int { return len(m) }
