// Package redisboard publishes the leaderboard to Redis so other services can
// read it without parsing the CSV report.
//
// Layout for a key K:
//
//	K        sorted set, member = competitor id, score = place (1 is best)
//	K:rows   hash, competitor id -> JSON-encoded row
//	K:run    hash with run_id, generated_at and rows
package redisboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/skillrank/internal/domain/types"
)

const defaultBatchSize = 10_000

// ErrPublish wraps every failure to replace the published leaderboard.
var ErrPublish = errors.New("redisboard: publish failed")

// Option applies a configuration option to the Sink.
type Option func(*Sink)

// WithRunID tags the published leaderboard with a run identifier.
func WithRunID(id string) Option {
	return func(s *Sink) {
		s.runID = id
	}
}

// WithBatchSize bounds the number of members sent per ZADD/HSET command.
func WithBatchSize(n int) Option {
	return func(s *Sink) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Sink) {
		if now != nil {
			s.now = now
		}
	}
}

// Sink replaces a Redis leaderboard in a single MULTI/EXEC transaction.
type Sink struct {
	client    redis.Cmdable
	key       string
	runID     string
	batchSize int
	now       func() time.Time
}

// New returns a sink that writes under key.
func New(client redis.Cmdable, key string, opts ...Option) *Sink {
	s := &Sink{
		client:    client,
		key:       key,
		batchSize: defaultBatchSize,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name identifies the sink in logs and metrics.
func (s *Sink) Name() string { return "redis" }

func (s *Sink) rowsKey() string { return s.key + ":rows" }
func (s *Sink) runKey() string  { return s.key + ":run" }

// Write replaces the published leaderboard with rows.
func (s *Sink) Write(ctx context.Context, rows []types.Entry) error {
	encoded := make([]string, len(rows))
	for i, r := range rows {
		b, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("%w: encode %s: %w", ErrPublish, r.ID, err)
		}
		encoded[i] = string(b)
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key, s.rowsKey(), s.runKey())

		for start := 0; start < len(rows); start += s.batchSize {
			end := min(start+s.batchSize, len(rows))

			members := make([]redis.Z, 0, end-start)
			fields := make([]interface{}, 0, 2*(end-start))
			for i := start; i < end; i++ {
				members = append(members, redis.Z{Score: float64(rows[i].Place), Member: rows[i].ID})
				fields = append(fields, rows[i].ID, encoded[i])
			}
			pipe.ZAdd(ctx, s.key, members...)
			pipe.HSet(ctx, s.rowsKey(), fields...)
		}

		pipe.HSet(ctx, s.runKey(),
			"run_id", s.runID,
			"generated_at", s.now().UTC().Format(time.RFC3339),
			"rows", len(rows),
		)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPublish, s.key, err)
	}
	return nil
}
