package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/prestige/internal/compiler"
	"github.com/roach88/prestige/internal/ir"
	"github.com/roach88/prestige/internal/render"
	"github.com/roach88/prestige/internal/store"
)

// RewriteOptions holds flags for the rewrite command.
type RewriteOptions struct {
	*RootOptions
	Bounds string // caller-supplied directive list applied to every declaration
	Mode   string // concurrency mode (threads|local)
	Output string // output file path
	Ledger string // ledger database path (optional)
}

// RewriteResult holds one rewritten declaration.
type RewriteResult struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	InputID   string `json:"input_id"`
	OutputID  string `json:"output_id"`
	Rewritten string `json:"rewritten"`
}

// RewriteSummary is the success payload for the rewrite command.
type RewriteSummary struct {
	RunID        string          `json:"run_id"`
	Mode         string          `json:"mode"`
	Declarations []RewriteResult `json:"declarations"`
}

// NewRewriteCommand creates the rewrite command.
func NewRewriteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RewriteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "rewrite <decls-dir>",
		Short: "Rewrite deferred declarations to handle-yielding form",
		Long: `Rewrite CUE declaration files to their handle-yielding form.

Deferred methods lose their marker, return an opaque pending handle,
and pick up the capability bounds implied by their receiver shape
merged with any caller-supplied directives.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRewrite(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Bounds, "bounds", "", "capability directive list, e.g. \"?Transferable,SharedAccess\"")
	cmd.Flags().StringVar(&opts.Mode, "mode", ir.DefaultMode, "concurrency mode (threads|local)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().StringVar(&opts.Ledger, "ledger", "", "record rewrites to this ledger database")

	return cmd
}

func runRewrite(opts *RewriteOptions, declsDir string, cmd *cobra.Command) error {
	runID := uuid.Must(uuid.NewV7()).String()
	formatter := NewFormatter(opts.RootOptions, cmd)
	formatter.TraceID = runID

	if !ir.ValidModes[opts.Mode] {
		formatter.Error(ErrCodeMode, fmt.Sprintf("invalid mode %q: must be threads or local", opts.Mode), nil)
		return NewExitError(ExitCommandError, "invalid mode")
	}
	defaults := ir.DefaultBounds(opts.Mode)

	// Resolve the caller directive list once up front so a malformed
	// list fails before any declaration is touched.
	if _, err := compiler.ResolveBounds(opts.Bounds, defaults); err != nil {
		loadErr := convertCompileError(err, "bounds")
		formatter.Error(loadErr.Code, loadErr.Message, nil)
		return NewExitError(ExitFailure, "bad directive list")
	}

	loadResult, loadErrors := LoadDeclarations(declsDir, LoadModeCollectAll)
	if loadResult == nil && len(loadErrors) > 0 {
		return outputRewriteErrors(formatter, loadErrors, ExitCommandError)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, declsDir)

	if len(loadErrors) > 0 {
		return outputRewriteErrors(formatter, loadErrors, ExitFailure)
	}

	summary := &RewriteSummary{RunID: runID, Mode: opts.Mode}
	for _, decl := range loadResult.Declarations {
		formatter.VerboseLog("Rewriting %s %q", decl.Kind(), decl.DeclName())

		inputID, err := ir.DeclarationID(decl)
		if err != nil {
			formatter.Error(ErrCodeGeneric, fmt.Sprintf("hashing %s: %v", decl.DeclName(), err), nil)
			return NewExitError(ExitFailure, "rewrite failed")
		}

		rewritten, err := compiler.Transform(opts.Bounds, decl, defaults)
		if err != nil {
			loadErr := convertCompileError(err, decl.DeclName())
			formatter.Error(loadErr.Code, loadErr.Message, nil)
			return NewExitError(ExitFailure, "rewrite failed")
		}

		outputID, err := ir.DeclarationID(rewritten)
		if err != nil {
			formatter.Error(ErrCodeGeneric, fmt.Sprintf("hashing %s: %v", rewritten.DeclName(), err), nil)
			return NewExitError(ExitFailure, "rewrite failed")
		}

		summary.Declarations = append(summary.Declarations, RewriteResult{
			Name:      decl.DeclName(),
			Kind:      decl.Kind(),
			InputID:   inputID,
			OutputID:  outputID,
			Rewritten: render.Render(rewritten),
		})
	}

	if opts.Ledger != "" {
		if err := recordRewrites(cmd.Context(), opts, runID, defaults, summary.Declarations); err != nil {
			formatter.Error(ErrCodeLedger, err.Error(), nil)
			return NewExitError(ExitCommandError, "ledger write failed")
		}
		formatter.VerboseLog("Recorded %d rewrite(s) to %s", len(summary.Declarations), opts.Ledger)
	}

	if opts.Output != "" {
		if err := writeRendered(opts.Output, summary.Declarations); err != nil {
			formatter.Error(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
			return NewExitError(ExitCommandError, "write failed")
		}
	}

	return outputRewriteSuccess(formatter, summary, opts.Output)
}

// recordRewrites appends one ledger row per declaration under a shared run id.
func recordRewrites(ctx context.Context, opts *RewriteOptions, runID string, defaults ir.Bounds, results []RewriteResult) error {
	resolved, err := compiler.ResolveBounds(opts.Bounds, defaults)
	if err != nil {
		return err
	}

	st, err := store.Open(opts.Ledger)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer st.Close()

	for _, r := range results {
		rewriteID, err := ir.RewriteID(r.InputID, r.OutputID, resolved, opts.Mode)
		if err != nil {
			return fmt.Errorf("hashing rewrite %s: %w", r.Name, err)
		}
		rec := ir.RewriteRecord{
			ID:           rewriteID,
			RunID:        runID,
			Seq:          st.NextSeq(),
			Name:         r.Name,
			Kind:         r.Kind,
			InputID:      r.InputID,
			OutputID:     r.OutputID,
			Transferable: resolved.Transferable,
			SharedAccess: resolved.SharedAccess,
			Mode:         opts.Mode,
			Directives:   opts.Bounds,
			ToolVersion:  ir.ToolVersion,
			IRVersion:    ir.IRVersion,
		}
		if err := st.WriteRewrite(ctx, rec); err != nil {
			return fmt.Errorf("recording rewrite %s: %w", r.Name, err)
		}
	}
	return nil
}

// writeRendered writes the rendered declarations to a file, separated
// by blank lines, in the order they were compiled.
func writeRendered(path string, results []RewriteResult) error {
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(r.Rewritten)
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// outputRewriteSuccess outputs the rewritten declarations.
func outputRewriteSuccess(formatter *OutputFormatter, summary *RewriteSummary, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(summary)
	}

	// Human-readable text output. When writing to a file, print a
	// summary instead of repeating the rendered source.
	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "✓ Rewrote %d declaration(s) -> %s\n", len(summary.Declarations), outputFile)
		for _, r := range summary.Declarations {
			fmt.Fprintf(formatter.Writer, "  %s %s\n", r.Kind, r.Name)
		}
		return nil
	}

	for i, r := range summary.Declarations {
		if i > 0 {
			fmt.Fprintln(formatter.Writer)
		}
		fmt.Fprint(formatter.Writer, r.Rewritten)
	}
	return nil
}

// outputRewriteErrors outputs all errors and returns an ExitError.
func outputRewriteErrors(formatter *OutputFormatter, errs []error, code int) error {
	for _, err := range errs {
		if loadErr, ok := err.(*LoadError); ok {
			formatter.Error(loadErr.Code, loadErr.Message, nil)
			continue
		}
		formatter.Error(ErrCodeGeneric, err.Error(), nil)
	}
	return NewExitError(code, fmt.Sprintf("rewrite failed with %d error(s)", len(errs)))
}
