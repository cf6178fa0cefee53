// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite"

	"github.com/parley-ai/parley/pkg/errors"
	"github.com/parley-ai/parley/pkg/interview"
)

// Archive persists finalized transcripts in SQLite.
type Archive struct {
	db *sql.DB
}

// NewArchive wraps an existing database handle and ensures schema.
func NewArchive(db *sql.DB) (*Archive, error) {
	if db == nil {
		return nil, errors.New(errors.CodeInvalidInput, "db is nil", nil)
	}
	if err := ensureArchiveSchema(db); err != nil {
		return nil, errors.New(errors.CodeInternal, "failed to ensure archive schema", err)
	}
	return &Archive{db: db}, nil
}

// OpenArchive opens (creating if needed) a SQLite archive at path.
func OpenArchive(path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.New(errors.CodeInternal, "failed to open archive at "+path, err)
	}
	archive, err := NewArchive(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return archive, nil
}

func ensureArchiveSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS transcripts (
			session_id TEXT PRIMARY KEY,
			candidate TEXT NOT NULL,
			target_role TEXT NOT NULL,
			started_at TIMESTAMP NOT NULL,
			ended_at TIMESTAMP,
			average_score REAL NOT NULL,
			interactions INTEGER NOT NULL,
			transcript_json TEXT NOT NULL
		)
	`)
	return err
}

// Save stores the session transcript. Saving the same session again replaces
// the stored row, so re-exporting a finalized session is idempotent.
func (a *Archive) Save(ctx context.Context, s *interview.Session) error {
	transcript := FromSession(s)
	data, err := json.Marshal(transcript)
	if err != nil {
		return errors.New(errors.CodeInternal, "failed to encode transcript", err)
	}
	_, err = a.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO transcripts (
			session_id, candidate, target_role, started_at, ended_at, average_score, interactions, transcript_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		transcript.SessionID,
		transcript.Candidate,
		transcript.TargetRole,
		transcript.StartedAt.UTC(),
		nullableTime(transcript.EndedAt),
		transcript.AverageScore,
		len(transcript.Interactions),
		string(data),
	)
	if err != nil {
		return errors.New(errors.CodeInternal, "failed to save transcript", err)
	}
	return nil
}

// Get returns the stored transcript for a session id.
func (a *Archive) Get(ctx context.Context, sessionID string) (Transcript, error) {
	var data string
	err := a.db.QueryRowContext(ctx,
		`SELECT transcript_json FROM transcripts WHERE session_id = ?`, sessionID,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return Transcript{}, errors.New(errors.CodeSessionNotFound, "no transcript for session "+sessionID, nil)
	}
	if err != nil {
		return Transcript{}, errors.New(errors.CodeInternal, "failed to load transcript", err)
	}
	var t Transcript
	if err := json.Unmarshal([]byte(data), &t); err != nil {
		return Transcript{}, errors.New(errors.CodeInternal, "stored transcript is corrupt", err)
	}
	return t, nil
}

// Summary is one row of the archive listing.
type Summary struct {
	SessionID    string    `json:"session_id"`
	Candidate    string    `json:"candidate"`
	TargetRole   string    `json:"target_role"`
	StartedAt    time.Time `json:"started_at"`
	AverageScore float64   `json:"average_score"`
	Interactions int       `json:"interactions"`
}

// List returns archived sessions, newest first.
func (a *Archive) List(ctx context.Context, limit int) ([]Summary, error) {
	query := `
		SELECT session_id, candidate, target_role, started_at, average_score, interactions
		FROM transcripts ORDER BY started_at DESC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.New(errors.CodeInternal, "failed to list transcripts", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.SessionID, &s.Candidate, &s.TargetRole, &s.StartedAt, &s.AverageScore, &s.Interactions); err != nil {
			return nil, errors.New(errors.CodeInternal, "failed to scan transcript row", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// Close releases the underlying database handle.
func (a *Archive) Close() error {
	return a.db.Close()
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}
