package db

import (
	"context"
	"fmt"

	"nolsaf-admin/internal/admin-console/core/domain/model"
	"nolsaf-admin/internal/admin-console/core/ports"

	"github.com/jackc/pgx/v5"
)

const journalSchema = `
CREATE TABLE IF NOT EXISTS admin_action_journal (
	id         BIGSERIAL PRIMARY KEY,
	action     TEXT        NOT NULL,
	entity     TEXT        NOT NULL,
	entity_id  BIGINT      NOT NULL,
	reason     TEXT        NOT NULL DEFAULT '',
	outcome    TEXT        NOT NULL,
	detail     TEXT        NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type JournalRepo struct {
	db *DB
}

var _ ports.IActionJournal = (*JournalRepo)(nil)

// NewJournalRepo creates the journal table when it is missing.
func NewJournalRepo(ctx context.Context, db *DB) (*JournalRepo, error) {
	err := db.withConn(func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, journalSchema)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create journal table: %w", err)
	}
	return &JournalRepo{db: db}, nil
}

func (r *JournalRepo) Record(ctx context.Context, e model.JournalEntry) error {
	q := `INSERT INTO admin_action_journal (action, entity, entity_id, reason, outcome, detail, created_at)
	      VALUES ($1, $2, $3, $4, $5, $6, $7)`
	return r.db.withConn(func(conn *pgx.Conn) error {
		if _, err := conn.Exec(ctx, q, e.Action, e.Entity, e.EntityID, e.Reason, e.Outcome, e.Detail, e.At); err != nil {
			return fmt.Errorf("insert journal entry: %w", err)
		}
		return nil
	})
}

// Recent returns the latest entries, newest first.
func (r *JournalRepo) Recent(ctx context.Context, limit int) ([]model.JournalEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT action, entity, entity_id, reason, outcome, detail, created_at
	      FROM admin_action_journal
	      ORDER BY created_at DESC, id DESC
	      LIMIT $1`

	var out []model.JournalEntry
	err := r.db.withConn(func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, limit)
		if err != nil {
			return fmt.Errorf("query journal: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var e model.JournalEntry
			if err := rows.Scan(&e.Action, &e.Entity, &e.EntityID, &e.Reason, &e.Outcome, &e.Detail, &e.At); err != nil {
				return fmt.Errorf("scan journal entry: %w", err)
			}
			out = append(out, e)
		}
		return rows.Err()
	})
	return out, err
}
