package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/OCAP2/location-marker/pkg/core"
)

// ParseLocations decodes a persisted location document: a JSON array of
// location objects. Unknown fields are ignored. Any structural or schema
// violation yields a *ParseError carrying the raw input.
func ParseLocations(raw []byte) ([]core.Location, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, newParseError(raw, -1, "", "document is empty", nil)
	}
	if trimmed[0] != '[' {
		return nil, newParseError(raw, -1, "", "document is not a JSON array", nil)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, newParseError(raw, -1, "", "malformed JSON", err)
	}

	locations := make([]core.Location, 0, len(records))
	for i, rec := range records {
		loc, err := parseRecord(rec)
		if err != nil {
			err.Index = i
			err.Raw = raw
			return nil, err
		}
		locations = append(locations, loc)
	}
	return locations, nil
}

func parseRecord(rec json.RawMessage) (core.Location, *ParseError) {
	var loc core.Location

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(rec, &fields); err != nil || fields == nil {
		return loc, &ParseError{Reason: "record is not an object", Err: err}
	}

	// name
	nameRaw, ok := fields["name"]
	if !ok {
		return loc, &ParseError{Field: "name", Reason: "missing"}
	}
	if err := json.Unmarshal(nameRaw, &loc.Name); err != nil || isNull(nameRaw) {
		return loc, &ParseError{Field: "name", Reason: "not a string", Err: err}
	}
	if strings.TrimSpace(loc.Name) == "" {
		return loc, &ParseError{Field: "name", Reason: "empty"}
	}

	// pos
	posRaw, ok := fields["pos"]
	if !ok {
		return loc, &ParseError{Field: "pos", Reason: "missing"}
	}
	pos, perr := parsePosition(posRaw)
	if perr != nil {
		return loc, perr
	}
	loc.Pos = pos

	// dim
	dimRaw, ok := fields["dim"]
	if !ok {
		return loc, &ParseError{Field: "dim", Reason: "missing"}
	}
	dim, err := parseInteger(dimRaw)
	if err != nil {
		return loc, &ParseError{Field: "dim", Reason: "not an integer", Err: err}
	}
	loc.Dim = dim

	// desc is optional, null and absent are equivalent
	if descRaw, ok := fields["desc"]; ok && !isNull(descRaw) {
		var desc string
		if err := json.Unmarshal(descRaw, &desc); err != nil {
			return loc, &ParseError{Field: "desc", Reason: "not a string", Err: err}
		}
		loc.Desc = &desc
	}

	return loc, nil
}

func parsePosition(raw json.RawMessage) (core.Position, *ParseError) {
	var pos core.Position

	var axes map[string]json.RawMessage
	if err := json.Unmarshal(raw, &axes); err != nil || axes == nil {
		return pos, &ParseError{Field: "pos", Reason: "not an object", Err: err}
	}

	targets := []struct {
		key string
		dst *float64
	}{
		{"x", &pos.X},
		{"y", &pos.Y},
		{"z", &pos.Z},
	}
	for _, t := range targets {
		v, ok := axes[t.key]
		if !ok {
			return pos, &ParseError{Field: "pos." + t.key, Reason: "missing"}
		}
		if isNull(v) {
			return pos, &ParseError{Field: "pos." + t.key, Reason: "not a number"}
		}
		if err := json.Unmarshal(v, t.dst); err != nil {
			return pos, &ParseError{Field: "pos." + t.key, Reason: "not a number", Err: err}
		}
	}
	return pos, nil
}

func parseInteger(raw json.RawMessage) (int, error) {
	if isNull(raw) {
		return 0, fmt.Errorf("null value")
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, err
	}
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte{'"'}) {
		return 0, fmt.Errorf("%s is a string", string(raw))
	}
	v, err := parseIntFromFloat(n.String())
	if err != nil {
		return 0, err
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("%d overflows", v)
	}
	return int(v), nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// ValidateLocation applies the same schema rules as ParseLocations to a
// decoded location. index is reported in the returned error.
func ValidateLocation(index int, loc core.Location) error {
	switch {
	case strings.TrimSpace(loc.Name) == "":
		return &ParseError{Index: index, Field: "name", Reason: "empty"}
	case !loc.Pos.IsFinite():
		return &ParseError{Index: index, Field: "pos", Reason: "not a finite number"}
	}
	return nil
}
