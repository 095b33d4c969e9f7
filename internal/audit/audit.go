// Package audit records administrative actions in admin_activity_log.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	ActionDeleteImage = "delete_image"
	TargetMenuImage   = "menu_image"
)

type Entry struct {
	ID          string         `json:"id"`
	AdminUserID string         `json:"admin_user_id"`
	ActionType  string         `json:"action_type"`
	TargetID    string         `json:"target_id"`
	TargetType  string         `json:"target_type"`
	Reason      string         `json:"reason,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

type Recorder interface {
	Record(ctx context.Context, e *Entry) error
}

// ---------- Postgres ----------

type PostgresRecorder struct {
	db *pgxpool.Pool
}

func NewPostgresRecorder(db *pgxpool.Pool) *PostgresRecorder {
	return &PostgresRecorder{db: db}
}

func (r *PostgresRecorder) Record(ctx context.Context, e *Entry) error {
	var meta []byte
	if e.Metadata != nil {
		var err error
		if meta, err = json.Marshal(e.Metadata); err != nil {
			return fmt.Errorf("marshal audit metadata: %w", err)
		}
	}

	var reason *string
	if e.Reason != "" {
		reason = &e.Reason
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO admin_activity_log (
			admin_user_id,
			action_type,
			target_id,
			target_type,
			reason,
			metadata
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`,
		e.AdminUserID,
		e.ActionType,
		e.TargetID,
		e.TargetType,
		reason,
		meta,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// ---------- In-memory ----------

type InMemoryRecorder struct {
	mu      sync.Mutex
	entries []Entry

	Err error
}

func NewInMemoryRecorder() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

func (r *InMemoryRecorder) Record(_ context.Context, e *Entry) error {
	if r.Err != nil {
		return r.Err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = uuid.NewString()
	e.CreatedAt = time.Now()
	r.entries = append(r.entries, *e)
	return nil
}

func (r *InMemoryRecorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}
