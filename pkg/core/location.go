package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Dimension identifiers accepted by the command layer.
const (
	DimNether    = -1
	DimOverworld = 0
	DimEnd       = 1
)

// Position is a point in a dimension's coordinate space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// IsFinite reports whether every coordinate is a finite number.
func (p Position) IsFinite() bool {
	for _, v := range [...]float64{p.X, p.Y, p.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// MarshalJSON writes every axis as a decimal literal, keeping ".0" on
// integral values.
func (p Position) MarshalJSON() ([]byte, error) {
	if !p.IsFinite() {
		return nil, fmt.Errorf("position %v is not finite", [...]float64{p.X, p.Y, p.Z})
	}
	b := make([]byte, 0, 64)
	b = append(b, `{"x":`...)
	b = appendCoordinate(b, p.X)
	b = append(b, `,"y":`...)
	b = appendCoordinate(b, p.Y)
	b = append(b, `,"z":`...)
	b = appendCoordinate(b, p.Z)
	return append(b, '}'), nil
}

func appendCoordinate(b []byte, f float64) []byte {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return append(b, s...)
}

// Location is a named marker. Name is the primary key.
// Desc is nil when the marker has no description.
type Location struct {
	Name string   `json:"name"`
	Pos  Position `json:"pos"`
	Dim  int      `json:"dim"`
	Desc *string  `json:"desc"`
}

// Description returns the description text, or "" when absent.
func (l Location) Description() string {
	if l.Desc == nil {
		return ""
	}
	return *l.Desc
}

// Equal compares two locations by value, including the description text.
func (l Location) Equal(o Location) bool {
	if l.Name != o.Name || l.Pos != o.Pos || l.Dim != o.Dim {
		return false
	}
	if (l.Desc == nil) != (o.Desc == nil) {
		return false
	}
	return l.Desc == nil || *l.Desc == *o.Desc
}

// Clone returns a copy that shares no memory with l.
func (l Location) Clone() Location {
	if l.Desc != nil {
		desc := *l.Desc
		l.Desc = &desc
	}
	return l
}

// ValidDimension reports whether dim is one of the known dimension ids.
func ValidDimension(dim int) bool {
	return dim >= DimNether && dim <= DimEnd
}

// DimensionName returns the display name of a dimension id.
func DimensionName(dim int) string {
	switch dim {
	case DimNether:
		return "the Nether"
	case DimOverworld:
		return "the Overworld"
	case DimEnd:
		return "the End"
	default:
		return fmt.Sprintf("dimension %d", dim)
	}
}

// DimensionID returns the namespaced id used by teleport commands.
func DimensionID(dim int) string {
	switch dim {
	case DimNether:
		return "minecraft:the_nether"
	case DimOverworld:
		return "minecraft:overworld"
	case DimEnd:
		return "minecraft:the_end"
	default:
		return fmt.Sprintf("%d", dim)
	}
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
