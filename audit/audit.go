// Package audit records who changed what. Entries go to a Postgres table and are
// appended after the change they describe has been stored.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/logging"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// Actions written by the API.
const (
	ActionProgressChanged  = "TEAM_PROGRESS_CHANGED"
	ActionCriteriaDeleted  = "CRITERIA_DELETED"
	ActionArenaAllocated   = "ARENA_ALLOCATED"
	ActionAttendanceMarked = "ATTENDANCE_MARKED"
	ActionAttendanceReset  = "ATTENDANCE_RESET"
	ActionGithubBatch      = "GITHUB_BATCH"
	ActionSettingsUpdated  = "SETTINGS_UPDATED"
)

type Entry struct {
	ID         string            `json:"id"`
	ActorID    int               `json:"actorId"`
	ActorRole  string            `json:"actorRole"`
	Action     string            `json:"action"`
	EntityType string            `json:"entityType"`
	EntityID   string            `json:"entityId"`
	OldValue   string            `json:"oldValue,omitempty"`
	NewValue   string            `json:"newValue,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
}

type Log interface {
	Append(ctx context.Context, entry *Entry) error
	List(ctx context.Context, limit int) ([]*Entry, error)
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS audit_log (
	id          UUID PRIMARY KEY,
	actor_id    INTEGER NOT NULL,
	actor_role  TEXT NOT NULL,
	action      TEXT NOT NULL,
	entity_type TEXT NOT NULL,
	entity_id   TEXT NOT NULL,
	old_value   TEXT,
	new_value   TEXT,
	details     JSONB,
	created_at  TIMESTAMPTZ NOT NULL
)`

type PostgresLog struct {
	db *sql.DB
}

// Open connects with lib/pq and makes sure the audit table exists.
func Open(ctx context.Context, dsn string) (*PostgresLog, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach audit database: %w", err)
	}
	l := NewPostgresLog(db)
	if err := l.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

func NewPostgresLog(db *sql.DB) *PostgresLog {
	return &PostgresLog{db: db}
}

func (l *PostgresLog) Migrate(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create audit_log: %w", err)
	}
	return nil
}

func (l *PostgresLog) Append(ctx context.Context, entry *Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal audit details: %w", err)
	}

	_, err = l.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, actor_id, actor_role, action, entity_type, entity_id, old_value, new_value, details, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		entry.ID, entry.ActorID, entry.ActorRole, entry.Action, entry.EntityType, entry.EntityID,
		entry.OldValue, entry.NewValue, string(details), entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

// List returns the newest entries first.
func (l *PostgresLog) List(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, actor_id, actor_role, action, entity_type, entity_id, old_value, new_value, details, created_at
		 FROM audit_log ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	entries := make([]*Entry, 0)
	for rows.Next() {
		var (
			e                  Entry
			oldValue, newValue sql.NullString
			details            []byte
		)
		if err := rows.Scan(&e.ID, &e.ActorID, &e.ActorRole, &e.Action, &e.EntityType, &e.EntityID,
			&oldValue, &newValue, &details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		e.OldValue = oldValue.String
		e.NewValue = newValue.String
		if len(details) > 0 {
			if err := json.Unmarshal(details, &e.Details); err != nil {
				return nil, fmt.Errorf("failed to decode audit details: %w", err)
			}
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (l *PostgresLog) Close() error {
	return l.db.Close()
}

// Record appends entry and only logs a failure; the change being audited has already happened.
func Record(ctx context.Context, log Log, entry *Entry) {
	if log == nil {
		return
	}
	if err := log.Append(ctx, entry); err != nil {
		logging.Log.Errorf("AUDIT: failed to record %s on %s %s: %v", entry.Action, entry.EntityType, entry.EntityID, err)
	}
}

// Nop discards entries; used when no audit database is configured.
type Nop struct{}

func (Nop) Append(context.Context, *Entry) error { return nil }

func (Nop) List(context.Context, int) ([]*Entry, error) { return []*Entry{}, nil }
