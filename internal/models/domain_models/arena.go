package domain_models

import (
	"strings"

	"github.com/google/uuid"
)

// PlaceArena owns every Place in a destination context. Regions hold IDs
// into the arena instead of embedded structs, so a place migrating between
// regions during validation is a pointer move, never a copy that can alias.
// Iteration order is insertion order for deterministic output.
type PlaceArena struct {
	places map[uuid.UUID]*Place
	byName map[string]uuid.UUID
	order  []uuid.UUID
}

func NewPlaceArena() *PlaceArena {
	return &PlaceArena{
		places: make(map[uuid.UUID]*Place),
		byName: make(map[string]uuid.UUID),
	}
}

// Add registers a place, assigning an ID if it has none. Names are unique
// post-dedup; a second place with the same name replaces the name index but
// both records stay addressable by ID.
func (a *PlaceArena) Add(p *Place) uuid.UUID {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if _, exists := a.places[p.ID]; !exists {
		a.order = append(a.order, p.ID)
	}
	a.places[p.ID] = p
	a.byName[nameKey(p.Name)] = p.ID
	return p.ID
}

func (a *PlaceArena) Get(id uuid.UUID) *Place {
	return a.places[id]
}

// ByName looks a place up by case-insensitive trimmed name.
func (a *PlaceArena) ByName(name string) *Place {
	if id, ok := a.byName[nameKey(name)]; ok {
		return a.places[id]
	}
	return nil
}

// All returns every place in insertion order.
func (a *PlaceArena) All() []*Place {
	out := make([]*Place, 0, len(a.order))
	for _, id := range a.order {
		if p, ok := a.places[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (a *PlaceArena) Len() int {
	return len(a.places)
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
