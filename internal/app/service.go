// Package service wires the rating pipeline: load the roster and match
// history, replay it, rank the result and hand the leaderboard to the sinks.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/skillrank/internal/adapters/repository"
	"github.com/okian/skillrank/internal/domain/model"
	"github.com/okian/skillrank/internal/domain/ranking"
	"github.com/okian/skillrank/internal/domain/rating"
	"github.com/okian/skillrank/internal/domain/replay"
	"github.com/okian/skillrank/internal/domain/types"
	"github.com/okian/skillrank/pkg/logger"
	"github.com/okian/skillrank/pkg/metrics"
)

// Gateway supplies the roster and the chronological match history.
// Matches with an absent participant are dropped by the gateway and reported
// through the returned count.
type Gateway interface {
	Players(ctx context.Context) ([]model.Player, error)
	Matches(ctx context.Context) ([]model.Match, int, error)
}

// Sink consumes the finished leaderboard.
type Sink interface {
	Name() string
	Write(ctx context.Context, rows []types.Entry) error
}

// Result describes a completed run.
type Result struct {
	RunID       string
	Competitors int
	Loaded      int // matches returned by the gateway
	Dropped     int // matches removed before replay
	Replay      replay.Stats
	Rows        []types.Entry
}

// Prediction is the outcome of the diagnostic pairing query.
type Prediction struct {
	First     model.Competitor
	Second    model.Competitor
	ExpectedA float64 // chance the first competitor performs at least as well
	ExpectedB float64
	Quality   float64 // relative draw likelihood, 1 is a perfectly even pairing
}

// Service runs the pipeline.
type Service struct {
	gateway       Gateway
	sinks         []Sink
	ratingCfg     rating.Config
	progressEvery int
	onProgress    func(replay.Progress)
	runID         string
	logger        logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithGateway sets the data source.
func WithGateway(g Gateway) Option {
	return func(s *Service) {
		s.gateway = g
	}
}

// WithSinks appends leaderboard sinks. They are written in order.
func WithSinks(sinks ...Sink) Option {
	return func(s *Service) {
		for _, sink := range sinks {
			if sink != nil {
				s.sinks = append(s.sinks, sink)
			}
		}
	}
}

// WithRatingConfig sets the rating model parameters.
func WithRatingConfig(cfg rating.Config) Option {
	return func(s *Service) {
		s.ratingCfg = cfg
	}
}

// WithProgressEvery sets the replay progress interval.
func WithProgressEvery(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.progressEvery = n
		}
	}
}

// WithProgressFunc registers a replay progress callback.
func WithProgressFunc(fn func(replay.Progress)) Option {
	return func(s *Service) {
		s.onProgress = fn
	}
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return func(s *Service) {
		if id != "" {
			s.runID = id
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with the default rating model.
func New(opts ...Option) *Service {
	s := &Service{
		ratingCfg:     rating.DefaultConfig(),
		progressEvery: 100_000,
		runID:         uuid.NewString(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger = s.logger.With(logger.String("run_id", s.runID))

	return s
}

// RunID returns the identifier attached to this service's logs and reports.
func (s *Service) RunID() string { return s.runID }

// Run executes the whole pipeline and writes the leaderboard to every sink.
// The first sink failure aborts the run.
func (s *Service) Run(ctx context.Context) (Result, error) {
	roster, res, err := s.Replay(ctx)
	if err != nil {
		return res, err
	}

	res.Rows = ranking.Build(roster.Competitors(), s.ratingCfg)
	metrics.UpdateLeaderboardRows(len(res.Rows))

	for _, sink := range s.sinks {
		start := time.Now()
		if err := sink.Write(ctx, res.Rows); err != nil {
			metrics.RecordReportWriteError(sink.Name())
			return res, fmt.Errorf("write %s report: %w", sink.Name(), err)
		}
		elapsed := time.Since(start)
		metrics.RecordReportWrite(sink.Name(), elapsed.Seconds())
		s.logger.Info(ctx, "leaderboard written",
			logger.String("sink", sink.Name()),
			logger.Int("rows", len(res.Rows)),
			logger.Duration("elapsed", elapsed),
		)
	}

	return res, nil
}

// Replay loads the data, drops unresolvable matches and replays the rest.
// The returned roster holds the final ratings.
func (s *Service) Replay(ctx context.Context) (*repository.Roster, Result, error) {
	res := Result{RunID: s.runID}
	if s.gateway == nil {
		return nil, res, ErrNoGateway
	}

	players, err := s.gateway.Players(ctx)
	if err != nil {
		return nil, res, fmt.Errorf("load players: %w", err)
	}
	roster, err := repository.NewRoster(players, s.ratingCfg.Prior())
	if err != nil {
		return nil, res, fmt.Errorf("build roster: %w", err)
	}
	res.Competitors = roster.Len()
	metrics.UpdateCompetitors(res.Competitors)
	s.logger.Info(ctx, "players loaded", logger.Int("count", res.Competitors))

	matches, absent, err := s.gateway.Matches(ctx)
	if err != nil {
		return nil, res, fmt.Errorf("load matches: %w", err)
	}
	matches, unknown := model.FilterMatches(matches, roster.Has)
	res.Loaded = len(matches) + unknown + absent
	res.Dropped = unknown + absent
	metrics.RecordMatchesDropped(res.Dropped)
	s.logger.Info(ctx, "matches loaded",
		logger.Int("count", len(matches)),
		logger.Int("dropped_absent", absent),
		logger.Int("dropped_unknown", unknown),
	)

	engine := replay.New(
		replay.WithConfig(s.ratingCfg),
		replay.WithProgressEvery(s.progressEvery),
		replay.WithProgressFunc(s.onProgress),
		replay.WithLogger(s.logger.Named("replay")),
	)
	res.Replay, err = engine.Replay(ctx, roster, matches)
	if err != nil {
		return nil, res, fmt.Errorf("replay: %w", err)
	}

	return roster, res, nil
}

// Predict replays the full history and compares two competitors.
func (s *Service) Predict(ctx context.Context, firstID, secondID string) (Prediction, error) {
	roster, _, err := s.Replay(ctx)
	if err != nil {
		return Prediction{}, err
	}

	first, err := roster.Get(firstID)
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: %s", ErrUnknownCompetitor, firstID)
	}
	second, err := roster.Get(secondID)
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: %s", ErrUnknownCompetitor, secondID)
	}

	p := Prediction{
		First:     first,
		Second:    second,
		ExpectedA: rating.ExpectedOutcome(first.Rating, second.Rating, s.ratingCfg),
		ExpectedB: rating.ExpectedOutcome(second.Rating, first.Rating, s.ratingCfg),
		Quality:   rating.MatchQuality(first.Rating, second.Rating, s.ratingCfg),
	}
	s.logger.Debug(ctx, "prediction",
		logger.String("first", firstID),
		logger.String("second", secondID),
		logger.Float64("expected_first", p.ExpectedA),
		logger.Float64("quality", p.Quality),
	)
	return p, nil
}
