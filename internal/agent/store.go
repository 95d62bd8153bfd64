package agent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const sessionSchemaSQL = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	url TEXT NOT NULL,
	resume_url TEXT NOT NULL,
	instructions TEXT NOT NULL DEFAULT '',
	browser_id TEXT NOT NULL DEFAULT '',
	live_url TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'pending',
	summary TEXT NOT NULL DEFAULT '',
	error TEXT NOT NULL DEFAULT '',
	prompt_tokens INTEGER NOT NULL DEFAULT 0,
	cached_prompt_tokens INTEGER NOT NULL DEFAULT 0,
	completion_tokens INTEGER NOT NULL DEFAULT 0,
	total_tokens INTEGER NOT NULL DEFAULT 0,
	total_cost REAL NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	started_at TEXT NOT NULL DEFAULT '',
	finished_at TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id);
CREATE INDEX IF NOT EXISTS idx_sessions_status ON sessions(status);
`

// SessionStore persists sessions in sqlite. Timestamps are stored as RFC3339
// strings, empty when unset.
type SessionStore struct {
	db *sqlx.DB
}

func NewSessionStore(db *sqlx.DB) (*SessionStore, error) {
	if _, err := db.Exec(sessionSchemaSQL); err != nil {
		return nil, fmt.Errorf("create sessions table: %w", err)
	}
	return &SessionStore{db: db}, nil
}

func (s *SessionStore) Create(ctx context.Context, session *Session) error {
	row := toSessionRow(session)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (
			id, user_id, url, resume_url, instructions, browser_id, live_url,
			status, summary, error,
			prompt_tokens, cached_prompt_tokens, completion_tokens, total_tokens, total_cost,
			created_at, updated_at, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ID, row.UserID, row.URL, row.ResumeURL, row.Instructions, row.BrowserID, row.LiveURL,
		row.Status, row.Summary, row.Error,
		row.PromptTokens, row.CachedPromptTokens, row.CompletionTokens, row.TotalTokens, row.TotalCost,
		row.CreatedAt, row.UpdatedAt, row.StartedAt, row.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *SessionStore) Update(ctx context.Context, session *Session) error {
	row := toSessionRow(session)
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO sessions (
			id, user_id, url, resume_url, instructions, browser_id, live_url,
			status, summary, error,
			prompt_tokens, cached_prompt_tokens, completion_tokens, total_tokens, total_cost,
			created_at, updated_at, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ID, row.UserID, row.URL, row.ResumeURL, row.Instructions, row.BrowserID, row.LiveURL,
		row.Status, row.Summary, row.Error,
		row.PromptTokens, row.CachedPromptTokens, row.CompletionTokens, row.TotalTokens, row.TotalCost,
		row.CreatedAt, row.UpdatedAt, row.StartedAt, row.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*Session, error) {
	var row sessionRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM sessions WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return fromSessionRow(&row)
}

// ListByUser returns the user's most recent sessions, newest first.
func (s *SessionStore) ListByUser(ctx context.Context, userID string, limit int) ([]*Session, error) {
	var rows []sessionRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM sessions WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	sessions := make([]*Session, 0, len(rows))
	for i := range rows {
		session, err := fromSessionRow(&rows[i])
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// MarkInterrupted fails every session left pending or running by a previous
// process. Called once on startup, before workers accept new jobs.
func (s *SessionStore) MarkInterrupted(ctx context.Context) (int64, error) {
	now := formatTime(time.Now())
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions
		 SET status = ?, error = ?, updated_at = ?, finished_at = ?
		 WHERE status IN (?, ?)`,
		StatusFailed, "interrupted by restart", now, now,
		StatusPending, StatusRunning,
	)
	if err != nil {
		return 0, fmt.Errorf("mark interrupted sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark interrupted sessions: %w", err)
	}
	return n, nil
}

type sessionRow struct {
	ID                 string  `db:"id"`
	UserID             string  `db:"user_id"`
	URL                string  `db:"url"`
	ResumeURL          string  `db:"resume_url"`
	Instructions       string  `db:"instructions"`
	BrowserID          string  `db:"browser_id"`
	LiveURL            string  `db:"live_url"`
	Status             string  `db:"status"`
	Summary            string  `db:"summary"`
	Error              string  `db:"error"`
	PromptTokens       int64   `db:"prompt_tokens"`
	CachedPromptTokens int64   `db:"cached_prompt_tokens"`
	CompletionTokens   int64   `db:"completion_tokens"`
	TotalTokens        int64   `db:"total_tokens"`
	TotalCost          float64 `db:"total_cost"`
	CreatedAt          string  `db:"created_at"`
	UpdatedAt          string  `db:"updated_at"`
	StartedAt          string  `db:"started_at"`
	FinishedAt         string  `db:"finished_at"`
}

func toSessionRow(s *Session) *sessionRow {
	return &sessionRow{
		ID:                 s.ID,
		UserID:             s.UserID,
		URL:                s.URL,
		ResumeURL:          s.ResumeURL,
		Instructions:       s.Instructions,
		BrowserID:          s.BrowserID,
		LiveURL:            s.LiveURL,
		Status:             string(s.Status),
		Summary:            s.Summary,
		Error:              s.Error,
		PromptTokens:       s.Usage.PromptTokens,
		CachedPromptTokens: s.Usage.CachedPromptTokens,
		CompletionTokens:   s.Usage.CompletionTokens,
		TotalTokens:        s.Usage.TotalTokens,
		TotalCost:          s.Usage.TotalCost,
		CreatedAt:          formatTime(s.CreatedAt),
		UpdatedAt:          formatTime(s.UpdatedAt),
		StartedAt:          formatTimePtr(s.StartedAt),
		FinishedAt:         formatTimePtr(s.FinishedAt),
	}
}

func fromSessionRow(row *sessionRow) (*Session, error) {
	createdAt, err := parseTime(row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse session created_at: %w", err)
	}
	updatedAt, err := parseTime(row.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse session updated_at: %w", err)
	}
	startedAt, err := parseTimePtr(row.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("parse session started_at: %w", err)
	}
	finishedAt, err := parseTimePtr(row.FinishedAt)
	if err != nil {
		return nil, fmt.Errorf("parse session finished_at: %w", err)
	}
	return &Session{
		ID:           row.ID,
		UserID:       row.UserID,
		URL:          row.URL,
		ResumeURL:    row.ResumeURL,
		Instructions: row.Instructions,
		BrowserID:    row.BrowserID,
		LiveURL:      row.LiveURL,
		Status:       Status(row.Status),
		Summary:      row.Summary,
		Error:        row.Error,
		Usage: Usage{
			PromptTokens:       row.PromptTokens,
			CachedPromptTokens: row.CachedPromptTokens,
			CompletionTokens:   row.CompletionTokens,
			TotalTokens:        row.TotalTokens,
			TotalCost:          row.TotalCost,
		},
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
	}, nil
}

// Fixed-width fractional seconds keep the stored strings lexicographically
// ordered, so ORDER BY on timestamp columns behaves.
const sessionTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(sessionTimeLayout)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func parseTimePtr(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseTime(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
