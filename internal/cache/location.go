package cache

import (
	"slices"

	"github.com/OCAP2/location-marker/pkg/core"
)

// LocationIndex keeps locations in insertion order alongside a name index over
// the same entries. It is not safe for concurrent use; the owner serialises
// access.
type LocationIndex struct {
	ordered []core.Location
	byName  map[string]core.Location
}

// NewLocationIndex creates an empty LocationIndex
func NewLocationIndex() *LocationIndex {
	return &LocationIndex{
		byName: make(map[string]core.Location),
	}
}

// Get retrieves a location by exact name
func (c *LocationIndex) Get(name string) (core.Location, bool) {
	loc, ok := c.byName[name]
	if !ok {
		return core.Location{}, false
	}
	return loc.Clone(), true
}

func (c *LocationIndex) Contains(name string) bool {
	_, ok := c.byName[name]
	return ok
}

func (c *LocationIndex) Len() int {
	return len(c.ordered)
}

// Append adds loc at the end unless its name is already taken.
func (c *LocationIndex) Append(loc core.Location) bool {
	if c.Contains(loc.Name) {
		return false
	}
	loc = loc.Clone()
	c.ordered = append(c.ordered, loc)
	c.byName[loc.Name] = loc
	return true
}

// Insert places loc at position i, clamped to the sequence bounds. Used to
// restore an entry removed by Remove.
func (c *LocationIndex) Insert(i int, loc core.Location) bool {
	if c.Contains(loc.Name) {
		return false
	}
	i = max(0, min(i, len(c.ordered)))
	loc = loc.Clone()
	c.ordered = slices.Insert(c.ordered, i, loc)
	c.byName[loc.Name] = loc
	return true
}

// Remove deletes the named location and reports the position it occupied.
func (c *LocationIndex) Remove(name string) (core.Location, int, bool) {
	loc, ok := c.byName[name]
	if !ok {
		return core.Location{}, -1, false
	}
	i := slices.IndexFunc(c.ordered, func(l core.Location) bool { return l.Name == name })
	c.ordered = slices.Delete(c.ordered, i, i+1)
	delete(c.byName, name)
	return loc, i, true
}

// Snapshot returns a deep copy of the ordered sequence.
func (c *LocationIndex) Snapshot() []core.Location {
	out := make([]core.Location, len(c.ordered))
	for i, loc := range c.ordered {
		out[i] = loc.Clone()
	}
	return out
}

// Reset clears all locations from the index
func (c *LocationIndex) Reset() {
	c.ordered = nil
	c.byName = make(map[string]core.Location)
}
