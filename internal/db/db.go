// Package db provides the optional PostgreSQL audit sink. Gateways only
// append to it; nothing in the request path reads it back.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// DB wraps the underlying *sql.DB and provides typed query methods.
type DB struct {
	conn *sql.DB
}

// New opens a PostgreSQL connection and verifies connectivity.
func New(databaseURL string) (*DB, error) {
	conn, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	if err := ApplyMigrations(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("db migrate: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the database connection pool.
func (d *DB) Close() error {
	return d.conn.Close()
}

// AuditEvent is one executed tool call. Request and response bodies are
// not stored, only their evidence hash.
type AuditEvent struct {
	EventID       string    `json:"event_id"`
	Gateway       string    `json:"gateway"`
	ExecutionID   string    `json:"execution_id"`
	ToolName      string    `json:"tool_name"`
	RequestedName string    `json:"requested_name"`
	Caller        string    `json:"caller,omitempty"`
	Status        string    `json:"status"`
	Source        string    `json:"source,omitempty"`
	ErrorCode     string    `json:"error_code,omitempty"`
	DurationMS    int64     `json:"duration_ms"`
	EvidenceHash  string    `json:"evidence_hash"`
	CreatedAt     time.Time `json:"created_at"`
}

// InsertAuditEvent appends an audit event.
func (d *DB) InsertAuditEvent(ctx context.Context, e *AuditEvent) error {
	_, err := d.conn.ExecContext(ctx,
		`INSERT INTO audit_events (event_id, gateway, execution_id, tool_name, requested_name, caller, status, source, error_code, duration_ms, evidence_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		e.EventID, e.Gateway, e.ExecutionID, e.ToolName, e.RequestedName, nullString(e.Caller),
		e.Status, nullString(e.Source), nullString(e.ErrorCode), e.DurationMS, e.EvidenceHash, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListAuditEvents returns recent events for a gateway, most recent first.
// An empty gateway lists every gateway.
func (d *DB) ListAuditEvents(ctx context.Context, gateway string, limit int) ([]*AuditEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.conn.QueryContext(ctx,
		`SELECT event_id, gateway, execution_id, tool_name, requested_name, COALESCE(caller, ''), status,
		        COALESCE(source, ''), COALESCE(error_code, ''), duration_ms, evidence_hash, created_at
		 FROM audit_events
		 WHERE ($1 = '' OR gateway = $1)
		 ORDER BY created_at DESC
		 LIMIT $2`, gateway, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []*AuditEvent
	for rows.Next() {
		e := &AuditEvent{}
		if err := rows.Scan(&e.EventID, &e.Gateway, &e.ExecutionID, &e.ToolName, &e.RequestedName, &e.Caller, &e.Status,
			&e.Source, &e.ErrorCode, &e.DurationMS, &e.EvidenceHash, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
