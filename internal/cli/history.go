package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/prestige/internal/ir"
	"github.com/roach88/prestige/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Name  string
	Kind  string
	RunID string
	Limit int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history <ledger-db>",
		Short: "Show recorded rewrites from a ledger",
		Long: `Show rewrite records from a ledger database in deterministic order.

Records are ordered by logical sequence number, never by wall-clock
time, so the same ledger always lists the same history.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "filter by declaration name")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "filter by declaration kind (interface|impl|fn|method)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "filter by run id")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of records (0 = all)")

	return cmd
}

func runHistory(opts *HistoryOptions, ledgerPath string, cmd *cobra.Command) error {
	formatter := NewFormatter(opts.RootOptions, cmd)

	if _, err := os.Stat(ledgerPath); os.IsNotExist(err) {
		formatter.Error(ErrCodeNotFound, fmt.Sprintf("ledger not found: %s", ledgerPath), nil)
		return NewExitError(ExitCommandError, "ledger not found")
	}

	st, err := store.Open(ledgerPath)
	if err != nil {
		formatter.Error(ErrCodeLedger, fmt.Sprintf("opening ledger: %v", err), nil)
		return NewExitError(ExitCommandError, "ledger open failed")
	}
	defer st.Close()

	records, err := st.ReadHistory(cmd.Context(), store.HistoryFilter{
		Name:  opts.Name,
		Kind:  opts.Kind,
		RunID: opts.RunID,
		Limit: opts.Limit,
	})
	if err != nil {
		formatter.Error(ErrCodeLedger, fmt.Sprintf("reading history: %v", err), nil)
		return NewExitError(ExitCommandError, "history read failed")
	}

	formatter.VerboseLog("Read %d record(s) from %s", len(records), ledgerPath)

	return outputHistory(formatter, records)
}

func outputHistory(formatter *OutputFormatter, records []ir.RewriteRecord) error {
	if formatter.Format == "json" {
		return formatter.Success(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(formatter.Writer, "No rewrites recorded")
		return nil
	}

	for _, rec := range records {
		fmt.Fprintf(formatter.Writer, "%4d  %-10s %-24s %s  %s\n",
			rec.Seq, rec.Kind, rec.Name, formatBounds(rec.Bounds()), rec.Mode)
		if formatter.Verbose {
			fmt.Fprintf(formatter.Writer, "      run=%s\n      in=%s\n      out=%s\n",
				rec.RunID, rec.InputID, rec.OutputID)
		}
	}
	return nil
}

// formatBounds prints a bound set the way directives spell it.
func formatBounds(b ir.Bounds) string {
	switch {
	case b.Transferable && b.SharedAccess:
		return "Transferable+SharedAccess"
	case b.Transferable:
		return "Transferable"
	case b.SharedAccess:
		return "SharedAccess"
	default:
		return "none"
	}
}
