package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/prestige/internal/compiler"
	"github.com/roach88/prestige/internal/ir"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Bounds string
	Mode   string
}

// ValidationIssue describes one problem found during validation.
type ValidationIssue struct {
	Declaration string `json:"declaration,omitempty"`
	Code        string `json:"code"`
	Message     string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid        bool              `json:"valid"`
	Declarations int               `json:"declarations"`
	Issues       []ValidationIssue `json:"issues,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <decls-dir>",
		Short: "Validate declarations without emitting output",
		Long: `Validate CUE declaration files without emitting rewritten source.

Runs the full compile and rewrite pipeline in dry-run form, so it
catches malformed declarations and bad directive lists with the same
errors rewrite would report. Faster feedback during development.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Bounds, "bounds", "", "capability directive list to validate against")
	cmd.Flags().StringVar(&opts.Mode, "mode", ir.DefaultMode, "concurrency mode (threads|local)")

	return cmd
}

func runValidate(opts *ValidateOptions, declsDir string, cmd *cobra.Command) error {
	formatter := NewFormatter(opts.RootOptions, cmd)

	if !ir.ValidModes[opts.Mode] {
		formatter.Error(ErrCodeMode, fmt.Sprintf("invalid mode %q: must be threads or local", opts.Mode), nil)
		return NewExitError(ExitCommandError, "invalid mode")
	}
	defaults := ir.DefaultBounds(opts.Mode)

	loadResult, loadErrors := LoadDeclarations(declsDir, LoadModeCollectAll)

	// Handle load errors (directory not found, no files, etc.)
	if loadResult == nil && len(loadErrors) > 0 {
		if loadErr, ok := loadErrors[0].(*LoadError); ok {
			formatter.Error(loadErr.Code, loadErr.Message, nil)
			return NewExitError(ExitCommandError, loadErr.Message)
		}
		formatter.Error(ErrCodeGeneric, loadErrors[0].Error(), nil)
		return NewExitError(ExitCommandError, loadErrors[0].Error())
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, declsDir)

	result := &ValidationResult{Declarations: len(loadResult.Declarations)}
	for _, err := range loadErrors {
		result.Issues = append(result.Issues, issueFromError(err, ""))
	}

	// Dry-run the rewrite so directive problems surface here too.
	for _, decl := range loadResult.Declarations {
		formatter.VerboseLog("Checking %s %q", decl.Kind(), decl.DeclName())
		if _, err := compiler.Transform(opts.Bounds, decl, defaults); err != nil {
			result.Issues = append(result.Issues, issueFromError(convertCompileError(err, decl.DeclName()), decl.DeclName()))
		}
	}

	result.Valid = len(result.Issues) == 0
	return outputValidationResult(formatter, result)
}

func issueFromError(err error, declName string) ValidationIssue {
	if loadErr, ok := err.(*LoadError); ok {
		return ValidationIssue{Declaration: declName, Code: loadErr.Code, Message: loadErr.Message}
	}
	return ValidationIssue{Declaration: declName, Code: ErrCodeGeneric, Message: err.Error()}
}

func outputValidationResult(formatter *OutputFormatter, result *ValidationResult) error {
	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
		if !result.Valid {
			return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d issue(s)", len(result.Issues)))
		}
		return nil
	}

	if result.Valid {
		fmt.Fprintf(formatter.Writer, "✓ %d declaration(s) valid\n", result.Declarations)
		return nil
	}

	for _, issue := range result.Issues {
		if issue.Declaration != "" {
			fmt.Fprintf(formatter.Writer, "✗ [%s] %s: %s\n", issue.Code, issue.Declaration, issue.Message)
			continue
		}
		fmt.Fprintf(formatter.Writer, "✗ [%s] %s\n", issue.Code, issue.Message)
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d issue(s)", len(result.Issues)))
}
