// Package catalog describes the races and classes a character can be built
// from, and the lookups the character creation steps perform against them.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/talegrid/internal/state"
)

// ErrNotFound is returned when a race or class name is not in the catalog.
var ErrNotFound = errors.New("not found")

// Stats are the attribute bonuses a race or class grants.
type Stats struct {
	Strength     int `json:"strength"`
	Agility      int `json:"agility"`
	Mentality    int `json:"mentality"`
	Luck         int `json:"luck"`
	Intelligence int `json:"intelligence"`
	BaseHP       int `json:"base_hp"`
}

// Add returns the elementwise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Strength:     s.Strength + o.Strength,
		Agility:      s.Agility + o.Agility,
		Mentality:    s.Mentality + o.Mentality,
		Luck:         s.Luck + o.Luck,
		Intelligence: s.Intelligence + o.Intelligence,
		BaseHP:       s.BaseHP + o.BaseHP,
	}
}

// Status converts the stats into a fresh character status at full health.
func (s Stats) Status() state.Status {
	return state.Status{
		Strength:     s.Strength,
		Agility:      s.Agility,
		Mentality:    s.Mentality,
		Luck:         s.Luck,
		Intelligence: s.Intelligence,
		BaseHP:       s.BaseHP,
		CurrentHP:    s.BaseHP,
	}
}

// Entry is the listing form of a race or class.
type Entry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Location is where a race starts its adventure.
type Location struct {
	Type string
	Name string
}

// Items is the starting equipment of a class.
type Items struct {
	Attack  string
	Defense string
}

// Catalog is the lookup store behind character creation. Implementations
// must be safe for concurrent use by many sessions.
type Catalog interface {
	ListRaces(ctx context.Context) ([]Entry, error)
	ListClasses(ctx context.Context) ([]Entry, error)
	RaceStats(ctx context.Context, race string) (Stats, error)
	ClassStats(ctx context.Context, class string) (Stats, error)
	TotalStats(ctx context.Context, race, class string) (Stats, error)
	StartingLocation(ctx context.Context, race string) (Location, error)
	StartingItems(ctx context.Context, class string) (Items, error)
}

// RaceRecord is a full race row used for seeding.
type RaceRecord struct {
	Entry
	Stats    Stats
	Location Location
}

// ClassRecord is a full class row used for seeding.
type ClassRecord struct {
	Entry
	Stats Stats
	Items Items
}

// Seed is the initial content of a catalog.
type Seed struct {
	Races   []RaceRecord
	Classes []ClassRecord
}

// Total sums the race and class bonuses looked up in c.
func Total(ctx context.Context, c Catalog, race, class string) (Stats, error) {
	r, err := c.RaceStats(ctx, race)
	if err != nil {
		return Stats{}, err
	}
	k, err := c.ClassStats(ctx, class)
	if err != nil {
		return Stats{}, err
	}
	return r.Add(k), nil
}

// Find returns the entry whose name matches name case-insensitively.
func Find(entries []Entry, name string) (Entry, bool) {
	name = strings.TrimSpace(name)
	for _, e := range entries {
		if strings.EqualFold(e.Name, name) {
			return e, true
		}
	}
	return Entry{}, false
}

// Names lists the entry names in order.
func Names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func notFound(kind, name string) error {
	return fmt.Errorf("%s %q: %w", kind, name, ErrNotFound)
}
