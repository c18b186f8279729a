// Package convert provides functions to convert between GORM models and core models
package convert

import (
	"database/sql"

	"github.com/OCAP2/location-marker/internal/model"
	"github.com/OCAP2/location-marker/pkg/core"
)

// CoreToLocation converts a core.Location to a GORM Location row at the given
// ordinal. The row ID is left for the database to assign.
func CoreToLocation(ordinal int, loc core.Location) model.Location {
	row := model.Location{
		Ordinal: ordinal,
		Name:    loc.Name,
		X:       loc.Pos.X,
		Y:       loc.Pos.Y,
		Z:       loc.Pos.Z,
		Dim:     loc.Dim,
	}
	if loc.Desc != nil {
		row.Desc = sql.NullString{String: *loc.Desc, Valid: true}
	}
	return row
}

// CoreToLocations converts a full ordered set, assigning ordinals from 0.
func CoreToLocations(locs []core.Location) []model.Location {
	out := make([]model.Location, len(locs))
	for i, l := range locs {
		out[i] = CoreToLocation(i, l)
	}
	return out
}
