package harness

import "github.com/roach88/prestige/internal/ir"

// MethodFact captures the observable outcome of rewriting one method.
type MethodFact struct {
	// Seq orders facts deterministically across the whole run.
	Seq int64 `json:"seq"`

	Declaration string `json:"declaration"`
	Kind        string `json:"kind"`
	Method      string `json:"method"`

	// Deferred is the marker state after rewriting. Rewritten methods
	// always report false; untouched non-deferred methods keep false too.
	Deferred bool `json:"deferred"`

	// Yields is the handle result type, empty when the method yields
	// no handle.
	Yields string `json:"yields,omitempty"`

	// Transferable reports whether the yielded handle transfers.
	Transferable bool `json:"transferable"`

	// SharedAccess reports whether the shared-access constraint was
	// appended to the method.
	SharedAccess bool `json:"shared_access"`

	MustObserve bool     `json:"must_observe"`
	Wrapped     bool     `json:"wrapped"`
	Suppress    []string `json:"suppress,omitempty"`
}

// RenderedDecl holds the rendered source of one rewritten declaration,
// together with the content-addressed identities of its input and
// output trees.
type RenderedDecl struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	InputID  string `json:"input_id"`
	OutputID string `json:"output_id"`
	Source   string `json:"source"`
}

// Failure captures a rewrite pipeline failure for expectation matching.
type Failure struct {
	// Type is "config" or "parse".
	Type string `json:"type"`

	// Message is the full error text.
	Message string `json:"message"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	Pass bool `json:"pass"`

	// Facts holds one entry per method across all declarations, in
	// declaration order.
	Facts []MethodFact `json:"facts"`

	// Rendered holds the rewritten source per declaration.
	Rendered []RenderedDecl `json:"rendered"`

	// Records holds the ledger rows the run produced, in seq order.
	Records []ir.RewriteRecord `json:"records,omitempty"`

	// Failure is set when the pipeline failed (and expected to).
	Failure *Failure `json:"failure,omitempty"`

	// Errors contains expectation mismatch messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for scenario execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Facts:  []MethodFact{},
		Errors: []string{},
	}
}

// AddError adds an expectation mismatch and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
