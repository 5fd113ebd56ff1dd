// Package sqlstore loads the player roster and the match history from a
// relational database. It is the only component that talks to the store;
// everything it returns is fully decoded.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/jmoiron/sqlx"

	// Registers the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
	// Registers the "sqlite3" database/sql driver.
	_ "github.com/mattn/go-sqlite3"

	"github.com/okian/skillrank/internal/domain/model"
)

const (
	playersTable = "players"
	setsTable    = "sets"

	playersQuery = `SELECT player_id, tag FROM players`
	setsQuery    = `SELECT p1_id, p2_id, p1_score, p2_score FROM sets ORDER BY `

	// sqliteOrder is SQLite's implicit insertion-order key.
	sqliteOrder = "rowid"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type playerRow struct {
	ID  sql.NullString `db:"player_id"`
	Tag sql.NullString `db:"tag"`
}

type setRow struct {
	P1ID    sql.NullString `db:"p1_id"`
	P2ID    sql.NullString `db:"p2_id"`
	P1Score sql.NullInt64  `db:"p1_score"`
	P2Score sql.NullInt64  `db:"p2_score"`
}

// Store reads players and sets through sqlx.
type Store struct {
	db       *sqlx.DB
	setsSQL  string
	setsSort string
}

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithSetsOrder names the column that orders sets chronologically. SQLite
// defaults to rowid; other drivers have no implicit order and require it.
func WithSetsOrder(column string) Option {
	return func(s *Store) {
		if column != "" {
			s.setsSort = column
		}
	}
}

// Open connects to the database and verifies the connection.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (*Store, error) {
	s := &Store{}
	if driver == "sqlite3" {
		s.setsSort = sqliteOrder
	}
	for _, opt := range opts {
		opt(s)
	}
	switch {
	case s.setsSort == "":
		return nil, fmt.Errorf("%w: %s needs a sets order column", ErrNoOrder, driver)
	case !identifier.MatchString(s.setsSort):
		return nil, fmt.Errorf("%w: invalid sets order column %q", ErrNoOrder, s.setsSort)
	}
	s.setsSQL = setsQuery + s.setsSort

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConnect, driver, err)
	}
	s.db = db
	return s, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Players returns every player in storage order. A row without an id or a
// tag fails the whole load.
func (s *Store) Players(ctx context.Context) ([]model.Player, error) {
	rows, err := s.db.QueryxContext(ctx, playersQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrQuery, playersTable, err)
	}
	defer rows.Close()

	var players []model.Player
	for line := 1; rows.Next(); line++ {
		var r playerRow
		if err := rows.StructScan(&r); err != nil {
			return nil, fmt.Errorf("%w: %s row %d: %w", ErrMalformedRow, playersTable, line, err)
		}
		if !r.ID.Valid || r.ID.String == "" {
			return nil, fmt.Errorf("%w: %s row %d: missing player_id", ErrMalformedRow, playersTable, line)
		}
		if !r.Tag.Valid {
			return nil, fmt.Errorf("%w: %s row %d: missing tag for %s", ErrMalformedRow, playersTable, line, r.ID.String)
		}
		players = append(players, model.Player{ID: r.ID.String, Name: r.Tag.String})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrQuery, playersTable, err)
	}
	return players, nil
}

// Matches returns every set in chronological order along with the number of sets
// dropped because a participant id was absent. Scores must be present.
func (s *Store) Matches(ctx context.Context) ([]model.Match, int, error) {
	rows, err := s.db.QueryxContext(ctx, s.setsSQL)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %w", ErrQuery, setsTable, err)
	}
	defer rows.Close()

	var (
		matches []model.Match
		absent  int
	)
	for line := 1; rows.Next(); line++ {
		var r setRow
		if err := rows.StructScan(&r); err != nil {
			return nil, 0, fmt.Errorf("%w: %s row %d: %w", ErrMalformedRow, setsTable, line, err)
		}
		if !r.P1Score.Valid || !r.P2Score.Valid {
			return nil, 0, fmt.Errorf("%w: %s row %d: missing score", ErrMalformedRow, setsTable, line)
		}
		if !present(r.P1ID) || !present(r.P2ID) {
			absent++
			continue
		}
		matches = append(matches, model.Match{
			FirstID:  r.P1ID.String,
			SecondID: r.P2ID.String,
			Outcome:  model.OutcomeFromScores(int(r.P1Score.Int64), int(r.P2Score.Int64)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %w", ErrQuery, setsTable, err)
	}
	return matches, absent, nil
}

func present(id sql.NullString) bool {
	return id.Valid && id.String != ""
}
