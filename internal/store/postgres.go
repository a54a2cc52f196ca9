package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/lib/pq"
	"github.com/nguyentantai21042004/meeting-digest/internal/meeting"
)

type postgresStore struct {
	conn  *sql.DB
	table string
}

// ConnectPostgres opens dsn, creates the table if needed and returns a Store.
func ConnectPostgres(ctx context.Context, dsn, table string) (Store, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &postgresStore{conn: conn, table: pq.QuoteIdentifier(table)}
	if err := s.migrate(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *postgresStore) migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS ` + s.table + ` (
			id BIGSERIAL PRIMARY KEY,
			filename TEXT NOT NULL,
			transcript TEXT NOT NULL,
			summary TEXT NOT NULL,
			decisions JSONB NOT NULL,
			actions JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)
	`
	if _, err := s.conn.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	return nil
}

func (s *postgresStore) Insert(ctx context.Context, rec meeting.Record) (string, error) {
	decisions, actions, err := encodeLists(rec)
	if err != nil {
		return "", meeting.Wrap(meeting.ErrPersistence, err)
	}

	query := `
		INSERT INTO ` + s.table + ` (
			filename,
			transcript,
			summary,
			decisions,
			actions,
			created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	if err := s.conn.QueryRowContext(
		ctx,
		query,
		rec.Filename,
		rec.Transcript,
		rec.Summary,
		decisions,
		actions,
		rec.CreatedAt,
	).Scan(&id); err != nil {
		return "", meeting.Wrap(meeting.ErrPersistence, fmt.Errorf("insert meeting: %w", err))
	}

	return strconv.FormatInt(id, 10), nil
}

func (s *postgresStore) Get(ctx context.Context, id string) (meeting.Record, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return meeting.Record{}, meeting.Wrap(meeting.ErrNotFound, fmt.Errorf("meeting %s: %w", id, err))
	}

	query := `
		SELECT filename, transcript, summary, decisions, actions, created_at
		FROM ` + s.table + `
		WHERE id = $1
	`

	var (
		rec                meeting.Record
		decisions, actions []byte
	)
	err = s.conn.QueryRowContext(ctx, query, n).Scan(
		&rec.Filename,
		&rec.Transcript,
		&rec.Summary,
		&decisions,
		&actions,
		&rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return meeting.Record{}, meeting.Wrap(meeting.ErrNotFound, fmt.Errorf("meeting %s", id))
	}
	if err != nil {
		return meeting.Record{}, meeting.Wrap(meeting.ErrPersistence, fmt.Errorf("select meeting: %w", err))
	}

	if err := decodeLists(&rec, decisions, actions); err != nil {
		return meeting.Record{}, meeting.Wrap(meeting.ErrPersistence, err)
	}
	rec.ID = id
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec, nil
}

func (s *postgresStore) Close(ctx context.Context) error {
	return s.conn.Close()
}

func encodeLists(rec meeting.Record) ([]byte, []byte, error) {
	decisions := rec.Decisions
	if decisions == nil {
		decisions = []string{}
	}
	actions := rec.Actions
	if actions == nil {
		actions = []meeting.ActionItem{}
	}

	d, err := json.Marshal(decisions)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal decisions: %w", err)
	}
	a, err := json.Marshal(actions)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal actions: %w", err)
	}
	return d, a, nil
}

func decodeLists(rec *meeting.Record, decisions, actions []byte) error {
	rec.Decisions = []string{}
	rec.Actions = []meeting.ActionItem{}
	if err := json.Unmarshal(decisions, &rec.Decisions); err != nil {
		return fmt.Errorf("unmarshal decisions: %w", err)
	}
	if err := json.Unmarshal(actions, &rec.Actions); err != nil {
		return fmt.Errorf("unmarshal actions: %w", err)
	}
	return nil
}
