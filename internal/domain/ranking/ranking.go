// Package ranking turns replayed competitors into an ordered leaderboard.
package ranking

import (
	"sort"

	"github.com/okian/skillrank/internal/domain/model"
	"github.com/okian/skillrank/internal/domain/rating"
	"github.com/okian/skillrank/internal/domain/types"
)

// Build orders competitors by rank score, highest first, and numbers the rows
// from 1. Competitors with equal rank scores keep their relative input order,
// so ties fall back to roster insertion order. Places are never shared.
//
// The input slice is not modified.
func Build(competitors []model.Competitor, cfg rating.Config) []types.Entry {
	type scored struct {
		c     *model.Competitor
		score float64
	}

	order := make([]scored, len(competitors))
	for i := range competitors {
		order[i] = scored{c: &competitors[i], score: rating.RankScore(competitors[i].Rating, cfg)}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].score > order[j].score
	})

	rows := make([]types.Entry, len(order))
	for i, s := range order {
		rows[i] = types.Entry{
			Place:  i + 1,
			Name:   s.c.Name,
			Rating: s.score,
			Wins:   s.c.Wins,
			Losses: s.c.Losses,
			ID:     s.c.ID,
		}
	}
	return rows
}
