// Package util provides small text helpers shared by the command layer and CLI.
package util

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/OCAP2/location-marker/pkg/core"
)

// TrimQuotes removes leading and trailing double quotes from a string.
func TrimQuotes(s string) string {
	return strings.Trim(s, `"`)
}

// QuoteArg returns s ready to be typed back as one command argument:
// unchanged when it is a single plain word, otherwise double quoted with
// embedded quotes and backslashes escaped.
func QuoteArg(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\"'\\") {
		return s
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}

// FormatCoordinate renders an axis value with the shortest exact decimal form.
func FormatCoordinate(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatPosition renders a position as "[x, y, z]".
func FormatPosition(p core.Position) string {
	return fmt.Sprintf("[%s, %s, %s]",
		FormatCoordinate(p.X), FormatCoordinate(p.Y), FormatCoordinate(p.Z))
}

// Contains reports whether str is present in slice.
func Contains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
