package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/prestige/internal/ir"
)

// HistoryFilter narrows a ledger read. Zero-value fields are ignored.
type HistoryFilter struct {
	Name  string // declaration name
	Kind  string // interface | impl | fn | method
	RunID string
	Limit int // 0 means no limit
}

// ReadHistory returns ledger records matching the filter.
// Results are ordered deterministically: ORDER BY seq ASC, id ASC
// COLLATE BINARY. Returns an empty slice (not nil) when nothing
// matches.
func (s *Store) ReadHistory(ctx context.Context, filter HistoryFilter) ([]ir.RewriteRecord, error) {
	query := `
		SELECT id, run_id, seq, name, kind, input_id, output_id, transferable, shared_access, mode, directives, tool_version, ir_version
		FROM rewrites
	`
	var (
		conds []string
		args  []any
	)
	if filter.Name != "" {
		conds = append(conds, "name = ?")
		args = append(args, filter.Name)
	}
	if filter.Kind != "" {
		conds = append(conds, "kind = ?")
		args = append(args, filter.Kind)
	}
	if filter.RunID != "" {
		conds = append(conds, "run_id = ?")
		args = append(args, filter.RunID)
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY seq ASC, id COLLATE BINARY ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rewrites: %w", err)
	}
	defer rows.Close()

	records := []ir.RewriteRecord{}
	for rows.Next() {
		rec, err := scanRewrite(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rewrites: %w", err)
	}

	return records, nil
}

func scanRewrite(rows *sql.Rows) (ir.RewriteRecord, error) {
	var (
		rec          ir.RewriteRecord
		transferable int
		sharedAccess int
	)
	err := rows.Scan(
		&rec.ID,
		&rec.RunID,
		&rec.Seq,
		&rec.Name,
		&rec.Kind,
		&rec.InputID,
		&rec.OutputID,
		&transferable,
		&sharedAccess,
		&rec.Mode,
		&rec.Directives,
		&rec.ToolVersion,
		&rec.IRVersion,
	)
	if err != nil {
		return rec, fmt.Errorf("scan rewrite: %w", err)
	}
	rec.Transferable = transferable != 0
	rec.SharedAccess = sharedAccess != 0
	return rec, nil
}
