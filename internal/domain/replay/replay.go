// Package replay applies a chronological match history to a roster, one match
// at a time.
//
// Each match depends on the ratings left behind by every earlier match that
// shares a competitor, so the replay is strictly sequential.
package replay

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/skillrank/internal/adapters/repository"
	"github.com/okian/skillrank/internal/domain/model"
	"github.com/okian/skillrank/internal/domain/rating"
	"github.com/okian/skillrank/pkg/logger"
	"github.com/okian/skillrank/pkg/metrics"
)

const defaultProgressEvery = 100_000

// Progress is the payload of a progress notification.
type Progress struct {
	Index int // zero-based index of the match about to be applied
	Total int
}

// Stats summarizes a finished replay.
type Stats struct {
	Total    int
	Applied  int
	Skipped  int
	Draws    int
	Duration time.Duration
}

// Engine replays matches through the rating model.
type Engine struct {
	cfg           rating.Config
	progressEvery int
	logger        logger.Logger
	onProgress    func(Progress)
}

// New constructs an Engine with the default rating model.
func New(opts ...Option) *Engine {
	e := &Engine{
		cfg:           rating.DefaultConfig(),
		progressEvery: defaultProgressEvery,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = logger.Named("replay")
	}

	return e
}

// Replay applies matches to roster in order. For every match both slots are
// read, updated together and written back. Matches whose competitors do not
// resolve, or that pair a competitor with itself, are skipped.
//
// The only error is ErrDegenerateRating; the roster must then be discarded.
func (e *Engine) Replay(ctx context.Context, roster *repository.Roster, matches []model.Match) (Stats, error) {
	start := time.Now()
	stats := Stats{Total: len(matches)}

	for i, m := range matches {
		if i%e.progressEvery == 0 {
			e.notify(ctx, i, len(matches))
		}

		fi, okFirst := roster.Index(m.FirstID)
		si, okSecond := roster.Index(m.SecondID)
		if !okFirst || !okSecond || fi == si || !m.Outcome.Valid() {
			stats.Skipped++
			metrics.RecordMatchSkipped()
			e.logger.Debug(ctx, "skipping unresolvable match",
				logger.Int("match", i),
				logger.String("first", m.FirstID),
				logger.String("second", m.SecondID),
				logger.String("outcome", m.Outcome.String()),
			)
			continue
		}

		first, second := roster.At(fi), roster.At(si)
		first.Rating, second.Rating = rating.Update(first.Rating, second.Rating, m.Outcome, e.cfg)
		if !first.Rating.Valid() || !second.Rating.Valid() {
			return stats, fmt.Errorf("%w: match %d (%s vs %s): %+v, %+v",
				ErrDegenerateRating, i, m.FirstID, m.SecondID, first.Rating, second.Rating)
		}
		model.Tally(&first, &second, m.Outcome)
		roster.Set(fi, first)
		roster.Set(si, second)

		stats.Applied++
		metrics.RecordMatchReplayed()
		if m.Outcome == rating.Draw {
			stats.Draws++
			metrics.RecordDraw()
		}
	}

	stats.Duration = time.Since(start)
	metrics.RecordReplayDuration(stats.Duration.Seconds())
	e.logger.Info(ctx, "replay finished",
		logger.Int("matches", stats.Total),
		logger.Int("applied", stats.Applied),
		logger.Int("skipped", stats.Skipped),
		logger.Int("draws", stats.Draws),
		logger.Duration("duration", stats.Duration),
	)

	return stats, nil
}

func (e *Engine) notify(ctx context.Context, index, total int) {
	e.logger.Info(ctx, "replay progress", logger.Int("match", index), logger.Int("total", total))
	metrics.UpdateReplayProgress(index)
	if e.onProgress != nil {
		e.onProgress(Progress{Index: index, Total: total})
	}
}
