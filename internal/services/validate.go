package services

import (
	"errors"
	"fmt"
	"math"

	"branch-route-service/internal/domain"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateRouteInput checks the caller contract: every location needs an id
// and finite in-range coordinates, and ids are unique across the request.
func validateRouteInput(origin domain.Location, clients []domain.Location) error {
	var problems []string

	check := func(label string, loc domain.Location) {
		if math.IsNaN(loc.Lat) || math.IsInf(loc.Lat, 0) || math.IsNaN(loc.Lon) || math.IsInf(loc.Lon, 0) {
			problems = append(problems, fmt.Sprintf("%s: coordinates must be finite", label))
			return
		}
		err := validate.Struct(loc)
		if err == nil {
			return
		}
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			problems = append(problems, fmt.Sprintf("%s: %v", label, err))
			return
		}
		for _, fe := range verrs {
			problems = append(problems, fmt.Sprintf("%s: %s failed %q", label, fe.Field(), fe.Tag()))
		}
	}

	check("origin", origin)
	seen := map[string]string{origin.ID: "origin"}
	for i, c := range clients {
		label := fmt.Sprintf("clients[%d]", i)
		check(label, c)

		if c.ID == "" {
			continue
		}
		if prev, ok := seen[c.ID]; ok {
			problems = append(problems, fmt.Sprintf("%s: duplicate id %q (also %s)", label, c.ID, prev))
			continue
		}
		seen[c.ID] = label
	}

	if len(problems) > 0 {
		return &domain.ValidationError{Problems: problems}
	}
	return nil
}
