// Package repository holds the in-memory competitor table used during replay.
package repository

import (
	"fmt"

	"github.com/okian/skillrank/internal/domain/model"
	"github.com/okian/skillrank/internal/domain/rating"
)

// Roster is an arena-backed competitor table. Competitors live in a slice in
// insertion order and are addressed by index; ids resolve to indices through
// a lookup map. A Roster is not safe for concurrent use: it is owned by one
// replay at a time.
type Roster struct {
	competitors []model.Competitor
	index       map[string]int
}

// NewRoster seeds one competitor per player with the given prior.
func NewRoster(players []model.Player, prior rating.Rating) (*Roster, error) {
	r := &Roster{
		competitors: make([]model.Competitor, 0, len(players)),
		index:       make(map[string]int, len(players)),
	}
	for _, p := range players {
		if p.ID == "" {
			return nil, fmt.Errorf("%w: empty id for %q", ErrInvalidIdentity, p.Name)
		}
		if _, ok := r.index[p.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCompetitor, p.ID)
		}
		r.index[p.ID] = len(r.competitors)
		r.competitors = append(r.competitors, model.NewCompetitor(p, prior))
	}
	return r, nil
}

// Len returns the number of competitors.
func (r *Roster) Len() int { return len(r.competitors) }

// Index resolves an id to its slot.
func (r *Roster) Index(id string) (int, bool) {
	i, ok := r.index[id]
	return i, ok
}

// Has reports whether id is on the roster.
func (r *Roster) Has(id string) bool {
	_, ok := r.index[id]
	return ok
}

// At returns a copy of the competitor in slot i.
func (r *Roster) At(i int) model.Competitor { return r.competitors[i] }

// Set overwrites the competitor in slot i. The identity in slot i must not
// change.
func (r *Roster) Set(i int, c model.Competitor) { r.competitors[i] = c }

// Get returns a copy of the competitor with the given id.
func (r *Roster) Get(id string) (model.Competitor, error) {
	i, ok := r.index[id]
	if !ok {
		return model.Competitor{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r.competitors[i], nil
}

// Competitors returns a copy of all competitors in insertion order.
func (r *Roster) Competitors() []model.Competitor {
	out := make([]model.Competitor, len(r.competitors))
	copy(out, r.competitors)
	return out
}
