// Package convert provides functions to convert GORM models to core models
package convert

import (
	"github.com/OCAP2/location-marker/internal/model"
	"github.com/OCAP2/location-marker/pkg/core"
)

// LocationToCore converts a GORM Location row to a core.Location.
// A NULL or empty desc column maps to no description.
func LocationToCore(l model.Location) core.Location {
	loc := core.Location{
		Name: l.Name,
		Pos:  core.Position{X: l.X, Y: l.Y, Z: l.Z},
		Dim:  l.Dim,
	}
	if l.Desc.Valid {
		desc := l.Desc.String
		loc.Desc = &desc
	}
	return loc
}

// LocationsToCore converts rows in the order given.
func LocationsToCore(rows []model.Location) []core.Location {
	out := make([]core.Location, len(rows))
	for i, r := range rows {
		out[i] = LocationToCore(r)
	}
	return out
}
