package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps sessions in a single SQLite table so they survive a
// restart. Expired rows are removed by Sweep.
type SQLiteStore struct {
	db *sqlx.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	token      TEXT PRIMARY KEY,
	seed       INTEGER NOT NULL,
	created_at INTEGER NOT NULL,
	last_seen  INTEGER NOT NULL,
	state      TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS sessions_last_seen ON sessions (last_seen);
`

type sessionRow struct {
	Token     string `db:"token"`
	Seed      int64  `db:"seed"`
	CreatedAt int64  `db:"created_at"`
	LastSeen  int64  `db:"last_seen"`
	State     string `db:"state"`
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Put(ctx context.Context, rec Record) error {
	state, err := json.Marshal(rec.State)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	row := sessionRow{
		Token:     rec.Token,
		Seed:      int64(rec.Seed),
		CreatedAt: rec.CreatedAt.UnixNano(),
		LastSeen:  rec.LastSeen.UnixNano(),
		State:     string(state),
	}
	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO sessions (token, seed, created_at, last_seen, state)
		VALUES (:token, :seed, :created_at, :last_seen, :state)
		ON CONFLICT(token) DO UPDATE SET
			last_seen = excluded.last_seen,
			state     = excluded.state`, row)
	if err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, token string) (Record, error) {
	var row sessionRow
	err := s.db.GetContext(ctx, &row, `SELECT token, seed, created_at, last_seen, state FROM sessions WHERE token = ?`, token)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get session: %w", err)
	}
	rec := Record{
		Token:     row.Token,
		Seed:      uint64(row.Seed),
		CreatedAt: time.Unix(0, row.CreatedAt).UTC(),
		LastSeen:  time.Unix(0, row.LastSeen).UTC(),
	}
	if err := json.Unmarshal([]byte(row.State), &rec.State); err != nil {
		return Record{}, fmt.Errorf("decode session %s: %w", token, err)
	}
	return rec, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, token string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Sweep(ctx context.Context, cutoff time.Time) ([]string, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin sweep: %w", err)
	}
	defer tx.Rollback()

	var tokens []string
	if err := tx.SelectContext(ctx, &tokens, `SELECT token FROM sessions WHERE last_seen < ? ORDER BY token`, cutoff.UnixNano()); err != nil {
		return nil, fmt.Errorf("select expired: %w", err)
	}
	if len(tokens) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`DELETE FROM sessions WHERE token IN (?)`, tokens)
	if err != nil {
		return nil, fmt.Errorf("build sweep: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("delete expired: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit sweep: %w", err)
	}
	return tokens, nil
}
