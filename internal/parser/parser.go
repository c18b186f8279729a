package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/OCAP2/location-marker/pkg/core"
)

// parseIntFromFloat parses a string that may be an integer ("1") or float ("1.0") into int64.
func parseIntFromFloat(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(f, 0) || math.IsNaN(f) || f != float64(int64(f)) {
		return 0, fmt.Errorf("parseIntFromFloat: %q is not a valid int64", s)
	}
	return int64(f), nil
}

// ParseCoordinate parses a single finite axis value typed by a user.
func ParseCoordinate(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid coordinate %q", s)
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("coordinate %q is not finite", s)
	}
	return f, nil
}

// ParsePosition parses three coordinate arguments in x, y, z order.
func ParsePosition(x, y, z string) (core.Position, error) {
	var pos core.Position
	var err error
	if pos.X, err = ParseCoordinate(x); err != nil {
		return pos, err
	}
	if pos.Y, err = ParseCoordinate(y); err != nil {
		return pos, err
	}
	if pos.Z, err = ParseCoordinate(z); err != nil {
		return pos, err
	}
	return pos, nil
}

// ParseDimension parses a dimension id typed by a user and checks it is one
// of the known dimensions.
func ParseDimension(s string) (int, error) {
	v, err := parseIntFromFloat(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid dimension %q", s)
	}
	if v < math.MinInt32 || v > math.MaxInt32 || !core.ValidDimension(int(v)) {
		return 0, fmt.Errorf("dimension %d out of range [%d, %d]", v, core.DimNether, core.DimEnd)
	}
	return int(v), nil
}
