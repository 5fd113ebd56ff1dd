// Package model contains domain models passed between layers.
package model

import "github.com/okian/skillrank/internal/domain/rating"

// Player is a roster record supplied by the data gateway.
type Player struct {
	ID   string // stable unique identity
	Name string // display name, e.g. a gamer tag
}

// Competitor is a player together with its mutable replay state.
type Competitor struct {
	ID     string
	Name   string
	Wins   uint32
	Losses uint32
	Rating rating.Rating
}

// NewCompetitor seeds a competitor with the prior belief and zero tallies.
func NewCompetitor(p Player, prior rating.Rating) Competitor {
	return Competitor{ID: p.ID, Name: p.Name, Rating: prior}
}

// Match is one historical result between two competitors.
type Match struct {
	FirstID  string
	SecondID string
	Outcome  rating.Outcome
}

// OutcomeFromScores derives the outcome from the sign of the score
// differential, first minus second.
func OutcomeFromScores(first, second int) rating.Outcome {
	switch d := first - second; {
	case d > 0:
		return rating.FirstWins
	case d < 0:
		return rating.SecondWins
	default:
		return rating.Draw
	}
}

// Tally credits the win and the loss for a decided match. Draws count as
// neither.
func Tally(first, second *Competitor, outcome rating.Outcome) {
	switch outcome {
	case rating.FirstWins:
		first.Wins++
		second.Losses++
	case rating.SecondWins:
		first.Losses++
		second.Wins++
	}
}

// FilterMatches keeps, in order, the matches whose two identities are known
// and distinct. It returns the kept matches and how many were dropped.
func FilterMatches(matches []Match, known func(id string) bool) ([]Match, int) {
	kept := make([]Match, 0, len(matches))
	for _, m := range matches {
		if m.FirstID == m.SecondID || !known(m.FirstID) || !known(m.SecondID) {
			continue
		}
		kept = append(kept, m)
	}
	return kept, len(matches) - len(kept)
}
