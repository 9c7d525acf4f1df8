package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/specialistvlad/talegrid/internal/lore"
)

var _ lore.Library = (*Store)(nil)

// SeedLore upserts passages by kind and title and keeps the full-text index
// in step with the lore table.
func (s *Store) SeedLore(ctx context.Context, passages []lore.Passage) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin lore seed: %w", err)
	}
	now := time.Now().UTC().UnixMilli()

	for _, p := range passages {
		if strings.TrimSpace(p.Title) == "" {
			_ = tx.Rollback()
			return errors.New("lore title is required")
		}
		var id int64
		err := tx.QueryRowContext(ctx, `
INSERT INTO lore (kind, title, body, created_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(kind, title) DO UPDATE SET body = excluded.body
RETURNING id`,
			string(p.Kind), p.Title, p.Text, now,
		).Scan(&id)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("seed lore %q: %w", p.Title, err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM lore_fts WHERE rowid = ?", id); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("unindex lore %q: %w", p.Title, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO lore_fts (rowid, title, body) VALUES (?, ?, ?)", id, p.Title, p.Text,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("index lore %q: %w", p.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit lore seed: %w", err)
	}
	return nil
}

// Search ranks the passages of kind against query with FTS5 bm25.
func (s *Store) Search(ctx context.Context, kind lore.Kind, query string, k int) ([]lore.Passage, error) {
	if k <= 0 {
		k = lore.DefaultK
	}
	match := matchExpr(query)
	if match == "" {
		return nil, nil
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT l.kind, l.title, l.body
FROM lore_fts
JOIN lore l ON l.id = lore_fts.rowid
WHERE lore_fts MATCH ? AND l.kind = ?
ORDER BY bm25(lore_fts), l.id
LIMIT ?`, match, string(kind), k)
	if err != nil {
		return nil, fmt.Errorf("search lore: %w", err)
	}
	defer rows.Close()

	var out []lore.Passage
	for rows.Next() {
		var p lore.Passage
		var stored string
		if err := rows.Scan(&stored, &p.Title, &p.Text); err != nil {
			return nil, fmt.Errorf("scan lore: %w", err)
		}
		p.Kind = lore.Kind(stored)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lore: %w", err)
	}
	return out, nil
}

// matchExpr turns free text into an FTS5 query matching any of its terms.
// Terms are quoted so player input cannot inject query syntax.
func matchExpr(query string) string {
	terms := lore.Terms(query)
	for i, t := range terms {
		terms[i] = `"` + t + `"`
	}
	return strings.Join(terms, " OR ")
}
