package sqlstore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/skillrank/internal/adapters/sqlstore"
	"github.com/okian/skillrank/internal/domain/model"
	"github.com/okian/skillrank/internal/domain/rating"
)

const schema = `
CREATE TABLE players (player_id TEXT, tag TEXT);
CREATE TABLE sets (p1_id TEXT, p2_id TEXT, p1_score INTEGER, p2_score INTEGER);
`

func setupDatabase(t *testing.T, stmts ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "players.db")
	db, err := sqlx.Connect("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	db.MustExec(schema)
	for _, stmt := range stmts {
		db.MustExec(stmt)
	}
	return path
}

func openStore(t *testing.T, path string) *sqlstore.Store {
	t.Helper()

	store, err := sqlstore.Open(context.Background(), "sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_Players(t *testing.T) {
	path := setupDatabase(t,
		`INSERT INTO players (player_id, tag) VALUES ('222927', 'MkLeo'), ('4702', 'Dabuz'), ('1000', '')`,
	)
	store := openStore(t, path)

	players, err := store.Players(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []model.Player{
		{ID: "222927", Name: "MkLeo"},
		{ID: "4702", Name: "Dabuz"},
		{ID: "1000", Name: ""},
	}, players)
}

func TestStore_PlayersMissingID(t *testing.T) {
	path := setupDatabase(t,
		`INSERT INTO players (player_id, tag) VALUES ('1', 'ok'), (NULL, 'ghost')`,
	)
	store := openStore(t, path)

	players, err := store.Players(context.Background())
	require.ErrorIs(t, err, sqlstore.ErrMalformedRow)
	assert.Contains(t, err.Error(), "players row 2")
	assert.Nil(t, players)
}

func TestStore_PlayersMissingTag(t *testing.T) {
	path := setupDatabase(t, `INSERT INTO players (player_id, tag) VALUES ('1', NULL)`)
	store := openStore(t, path)

	_, err := store.Players(context.Background())
	require.ErrorIs(t, err, sqlstore.ErrMalformedRow)
}

func TestStore_Matches(t *testing.T) {
	path := setupDatabase(t,
		`INSERT INTO sets (p1_id, p2_id, p1_score, p2_score) VALUES
			('a', 'b', 3, 1),
			('b', 'c', 0, 2),
			('c', 'a', 2, 2),
			(NULL, 'a', 3, 0),
			('b', '', 1, 3),
			('a', 'UNKNOWN', 3, 0)`,
	)
	store := openStore(t, path)

	matches, absent, err := store.Matches(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, absent)
	assert.Equal(t, []model.Match{
		{FirstID: "a", SecondID: "b", Outcome: rating.FirstWins},
		{FirstID: "b", SecondID: "c", Outcome: rating.SecondWins},
		{FirstID: "c", SecondID: "a", Outcome: rating.Draw},
		{FirstID: "a", SecondID: "UNKNOWN", Outcome: rating.FirstWins},
	}, matches)
}

func TestStore_MatchesMissingScore(t *testing.T) {
	path := setupDatabase(t, `INSERT INTO sets (p1_id, p2_id, p1_score, p2_score) VALUES ('a', 'b', NULL, 1)`)
	store := openStore(t, path)

	matches, _, err := store.Matches(context.Background())
	require.ErrorIs(t, err, sqlstore.ErrMalformedRow)
	assert.Contains(t, err.Error(), "sets")
	assert.Nil(t, matches)
}

func TestStore_MissingTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	store := openStore(t, path)

	_, err := store.Players(context.Background())
	require.ErrorIs(t, err, sqlstore.ErrQuery)
	assert.Contains(t, err.Error(), "players")

	_, _, err = store.Matches(context.Background())
	require.ErrorIs(t, err, sqlstore.ErrQuery)
	assert.Contains(t, err.Error(), "sets")
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := sqlstore.Open(context.Background(), "nosuchdriver", "whatever", sqlstore.WithSetsOrder("id"))
	require.ErrorIs(t, err, sqlstore.ErrConnect)
}

func TestOpen_PostgresNeedsSetsOrder(t *testing.T) {
	_, err := sqlstore.Open(context.Background(), "pgx", "postgres://localhost:1/none")
	require.ErrorIs(t, err, sqlstore.ErrNoOrder)
	assert.Contains(t, err.Error(), "pgx")
}

func TestOpen_RejectsInvalidOrderColumn(t *testing.T) {
	path := setupDatabase(t)

	_, err := sqlstore.Open(context.Background(), "sqlite3", path, sqlstore.WithSetsOrder("rowid; DROP TABLE sets"))
	require.ErrorIs(t, err, sqlstore.ErrNoOrder)
}

func TestStore_MatchesFollowOrderColumn(t *testing.T) {
	path := setupDatabase(t,
		`ALTER TABLE sets ADD COLUMN played_at INTEGER`,
		`INSERT INTO sets (p1_id, p2_id, p1_score, p2_score, played_at) VALUES
			('c', 'a', 1, 0, 30),
			('a', 'b', 1, 0, 10),
			('b', 'c', 1, 0, 20)`,
	)
	store, err := sqlstore.Open(context.Background(), "sqlite3", path, sqlstore.WithSetsOrder("played_at"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	matches, _, err := store.Matches(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Match{
		{FirstID: "a", SecondID: "b", Outcome: rating.FirstWins},
		{FirstID: "b", SecondID: "c", Outcome: rating.FirstWins},
		{FirstID: "c", SecondID: "a", Outcome: rating.FirstWins},
	}, matches)
}

func TestStore_MatchesDefaultToRowidOrder(t *testing.T) {
	path := setupDatabase(t,
		`INSERT INTO sets (rowid, p1_id, p2_id, p1_score, p2_score) VALUES
			(3, 'c', 'a', 1, 0),
			(1, 'a', 'b', 1, 0),
			(2, 'b', 'c', 1, 0)`,
	)
	store := openStore(t, path)

	matches, _, err := store.Matches(context.Background())
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{matches[0].FirstID, matches[1].FirstID, matches[2].FirstID})
}
