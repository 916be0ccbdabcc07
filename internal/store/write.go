package store

import (
	"context"
	"fmt"

	"github.com/roach88/prestige/internal/ir"
)

// WriteRewrite inserts a rewrite record into the ledger.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - re-recording the
// same rewrite (same input, bounds, mode, output) is silently ignored.
// Other constraint violations still return errors.
func (s *Store) WriteRewrite(ctx context.Context, rec ir.RewriteRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rewrites
		(id, run_id, seq, name, kind, input_id, output_id, transferable, shared_access, mode, directives, tool_version, ir_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.RunID,
		rec.Seq,
		rec.Name,
		rec.Kind,
		rec.InputID,
		rec.OutputID,
		boolToInt(rec.Transferable),
		boolToInt(rec.SharedAccess),
		rec.Mode,
		rec.Directives,
		rec.ToolVersion,
		rec.IRVersion,
	)
	if err != nil {
		return fmt.Errorf("write rewrite: %w", err)
	}

	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
