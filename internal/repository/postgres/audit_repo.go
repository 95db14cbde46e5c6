// internal/repository/postgres/audit_repo.go
package postgres

import (
	"context"
	"fmt"

	"skilltracker-console/internal/domain/audit"

	"github.com/jackc/pgx/v5/pgxpool"
)

const auditSchema = `
	CREATE TABLE IF NOT EXISTS console_audit_log (
		id          BIGSERIAL PRIMARY KEY,
		actor       TEXT NOT NULL,
		action      TEXT NOT NULL,
		target      TEXT NOT NULL,
		workspace   TEXT NOT NULL,
		occurred_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_console_audit_log_occurred_at ON console_audit_log (occurred_at DESC);
`

type AuditRepository struct {
	db *pgxpool.Pool
}

func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

// EnsureSchema creates the audit table when it does not exist yet
func (r *AuditRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, auditSchema); err != nil {
		return fmt.Errorf("failed to create audit schema: %w", err)
	}
	return nil
}

// Record inserts one audit entry
func (r *AuditRepository) Record(ctx context.Context, e *audit.Entry) error {
	query := `
		INSERT INTO console_audit_log (actor, action, target, workspace, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, e.Actor, e.Action, e.Target, e.Workspace, e.OccurredAt).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// Recent lists the latest entries, newest first
func (r *AuditRepository) Recent(ctx context.Context, limit int) ([]*audit.Entry, error) {
	query := `
		SELECT id, actor, action, target, workspace, occurred_at
		FROM console_audit_log
		ORDER BY occurred_at DESC, id DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*audit.Entry
	for rows.Next() {
		e := &audit.Entry{}
		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &e.Target, &e.Workspace, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
