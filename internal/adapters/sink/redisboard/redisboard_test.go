package redisboard_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/skillrank/internal/adapters/sink/redisboard"
	"github.com/okian/skillrank/internal/domain/types"
)

func setupRedisClient(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skip("Redis not available:", err)
	}

	client.FlushDB(ctx)
	t.Cleanup(func() {
		client.FlushDB(ctx)
		_ = client.Close()
	})

	return client
}

func sampleRows() []types.Entry {
	return []types.Entry{
		{Place: 1, Name: "A", Rating: 12.5, Wins: 3, Losses: 0, ID: "a"},
		{Place: 2, Name: "C", Rating: 4, Wins: 1, Losses: 1, ID: "c"},
		{Place: 3, Name: "B", Rating: 4, Wins: 1, Losses: 1, ID: "b"},
	}
}

// published reads the leaderboard back in zset order.
func published(t *testing.T, client *redis.Client, key string) []types.Entry {
	t.Helper()
	ctx := context.Background()

	ids, err := client.ZRange(ctx, key, 0, -1).Result()
	require.NoError(t, err)
	if len(ids) == 0 {
		return nil
	}
	raw, err := client.HMGet(ctx, key+":rows", ids...).Result()
	require.NoError(t, err)

	rows := make([]types.Entry, len(raw))
	for i, v := range raw {
		str, ok := v.(string)
		require.True(t, ok, "missing row for %s", ids[i])
		require.NoError(t, json.Unmarshal([]byte(str), &rows[i]))
	}
	return rows
}

func TestSink_Write(t *testing.T) {
	client := setupRedisClient(t)
	ctx := context.Background()

	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	sink := redisboard.New(client, "test:leaderboard",
		redisboard.WithRunID("run-1"),
		redisboard.WithBatchSize(2),
		redisboard.WithClock(func() time.Time { return fixed }),
	)
	assert.Equal(t, "redis", sink.Name())

	require.NoError(t, sink.Write(ctx, sampleRows()))

	assert.Equal(t, sampleRows(), published(t, client, "test:leaderboard"))

	run, err := client.HGetAll(ctx, "test:leaderboard:run").Result()
	require.NoError(t, err)
	assert.Equal(t, "run-1", run["run_id"])
	assert.Equal(t, "2024-05-01T12:00:00Z", run["generated_at"])
	assert.Equal(t, "3", run["rows"])
}

func TestSink_WriteReplacesPreviousRun(t *testing.T) {
	client := setupRedisClient(t)
	ctx := context.Background()
	sink := redisboard.New(client, "test:leaderboard")

	require.NoError(t, sink.Write(ctx, sampleRows()))
	require.NoError(t, sink.Write(ctx, []types.Entry{{Place: 1, Name: "Z", ID: "z"}}))

	count, err := client.ZCard(ctx, "test:leaderboard").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	fields, err := client.HLen(ctx, "test:leaderboard:rows").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), fields)
}

func TestSink_WriteEmpty(t *testing.T) {
	client := setupRedisClient(t)
	ctx := context.Background()
	sink := redisboard.New(client, "test:leaderboard")

	require.NoError(t, sink.Write(ctx, sampleRows()))
	require.NoError(t, sink.Write(ctx, nil))

	assert.Empty(t, published(t, client, "test:leaderboard"))
	rows, err := client.HGet(ctx, "test:leaderboard:run", "rows").Result()
	require.NoError(t, err)
	assert.Equal(t, "0", rows)
}

func TestSink_WriteUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	err := redisboard.New(client, "test:leaderboard").Write(context.Background(), sampleRows())
	require.ErrorIs(t, err, redisboard.ErrPublish)
}
