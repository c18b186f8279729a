package handlers

import (
	"fmt"
	"strings"

	"github.com/OCAP2/location-marker/internal/util"
	"github.com/OCAP2/location-marker/pkg/core"
)

// RenderLocation formats a marker as "<name> @ <dimension> [x, y, z]".
func (s *Service) RenderLocation(loc core.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s @ %s %s", loc.Name, core.DimensionName(loc.Dim), util.FormatPosition(loc.Pos))
	if desc := loc.Description(); desc != "" {
		b.WriteString(" - ")
		b.WriteString(desc)
	}
	if s.deps.Display.TeleportHintOnCoordinate {
		fmt.Fprintf(&b, " (/execute in %s run tp %s %s %s)",
			core.DimensionID(loc.Dim),
			util.FormatCoordinate(loc.Pos.X),
			util.FormatCoordinate(loc.Pos.Y),
			util.FormatCoordinate(loc.Pos.Z))
	}
	return b.String()
}

func (s *Service) renderItem(loc core.Location) string {
	return "- " + s.RenderLocation(loc)
}

// Page is one window of a listing.
type Page struct {
	Number  int
	Items   []core.Location
	HasPrev bool
	HasNext bool
}

// Paginate returns page number (1-based) of locs with perPage items per page.
// A page past the end is empty with no neighbours.
func Paginate(locs []core.Location, number, perPage int) Page {
	p := Page{Number: number}
	count := len(locs)
	if perPage < 1 || number < 1 || number > (count+perPage-1)/perPage {
		return p
	}

	left := (number - 1) * perPage
	right := min(left+perPage, count)
	p.Items = locs[left:right]
	p.HasPrev = left > 0
	p.HasNext = right < count
	return p
}

// footer renders the page navigation line. navCmd is the command that
// shows another page when followed by a page number.
func (p Page) footer(navCmd string) string {
	prev, next := "  ", "  "
	if p.HasPrev {
		prev = "<-"
	}
	if p.HasNext {
		next = "->"
	}
	line := fmt.Sprintf("%s page %d %s", prev, p.Number, next)

	var hints []string
	if p.HasPrev {
		hints = append(hints, fmt.Sprintf("previous: %s %d", navCmd, p.Number-1))
	}
	if p.HasNext {
		hints = append(hints, fmt.Sprintf("next: %s %d", navCmd, p.Number+1))
	}
	if len(hints) > 0 {
		line += " (" + strings.Join(hints, ", ") + ")"
	}
	return line
}

// matches reports whether keyword occurs in the name or description.
func matches(loc core.Location, keyword string) bool {
	return strings.Contains(loc.Name, keyword) ||
		(loc.Desc != nil && strings.Contains(*loc.Desc, keyword))
}

func helpText(perPage int) []string {
	return []string{
		"--------- Location Marker ---------",
		"Server side location marker manager",
		Prefix + " - show this help message",
		Prefix + " list [<page>] - list all markers",
		Prefix + " search <keyword> [<page>] - search markers by name or description",
		Prefix + " add <name> <x> <y> <z> <dim> [<desc>] - add a marker",
		Prefix + " add <name> here [<desc>] - add a marker at your position and dimension",
		Prefix + " del <name> - delete a marker, the name must match exactly",
		Prefix + " <keyword> [<page>] - same as " + Prefix + " search",
		fmt.Sprintf("When <page> is given, markers are listed %d per page", perPage),
		`<keyword> and <name> are a single word or a "quoted string"`,
		fmt.Sprintf("<dim> is %d (the Nether), %d (the Overworld) or %d (the End)", core.DimNether, core.DimOverworld, core.DimEnd),
	}
}
