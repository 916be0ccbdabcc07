package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/prestige/internal/compiler"
	"github.com/roach88/prestige/internal/ir"
	"github.com/roach88/prestige/internal/render"
	"github.com/roach88/prestige/internal/store"
	"github.com/roach88/prestige/internal/testutil"
)

// Harness executes scenarios against the rewrite pipeline.
// It runs with a deterministic clock and a fixed run id so repeated
// executions of the same scenario are byte-identical.
type Harness struct {
	clock  *testutil.DeterministicClock
	runGen *testutil.FixedRunGenerator
	logger *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs against a fresh in-memory ledger for isolation.
//
// Execution flow:
//  1. Compile declaration files
//  2. Transform each declaration under the scenario's bounds and mode
//  3. Render output and record rewrites to the in-memory ledger
//  4. Evaluate expectations against the collected facts
//
// Pipeline failures (bad directives, malformed declarations) are
// captured in the result for expectation matching; only infrastructure
// problems (unreadable files, ledger errors) return a non-nil error.
func Run(scenario *Scenario) (*Result, error) {
	h := &Harness{
		clock:  testutil.NewDeterministicClock(),
		runGen: testutil.NewFixedRunGenerator(scenario.RunID),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}
	return h.run(scenario)
}

func (h *Harness) run(scenario *Scenario) (*Result, error) {
	result := NewResult()

	mode := scenario.Mode
	if mode == "" {
		mode = ir.DefaultMode
	}
	defaults := ir.DefaultBounds(mode)

	decls, failure, err := h.compileDecls(scenario.Decls)
	if err != nil {
		return nil, err
	}
	if failure == nil {
		failure = h.transform(scenario, decls, defaults, mode, result)
	}
	result.Failure = failure

	if failure == nil {
		if err := h.record(scenario, mode, defaults, result); err != nil {
			return nil, err
		}
	}

	evaluate(scenario, result)
	return result, nil
}

// compileDecls compiles every declaration file. A compile problem in
// the declarations themselves comes back as a Failure; anything else
// as an error.
func (h *Harness) compileDecls(paths []string) ([]ir.Declaration, *Failure, error) {
	ctx := cuecontext.New()

	var decls []ir.Declaration
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read declaration file: %w", err)
		}

		v := ctx.CompileBytes(data, cue.Filename(path))
		if err := v.Err(); err != nil {
			return nil, &Failure{Type: FailureParse, Message: err.Error()}, nil
		}

		h.logger.Debug("compiling declarations", "path", path)
		compiled, err := compiler.CompileDeclarations(v)
		if err != nil {
			failure := classifyFailure(err)
			if failure == nil {
				return nil, nil, err
			}
			return nil, failure, nil
		}
		decls = append(decls, compiled...)
	}
	return decls, nil, nil
}

// transform rewrites every declaration, collecting facts and rendered
// output into the result. Returns the failure if any rewrite fails.
func (h *Harness) transform(scenario *Scenario, decls []ir.Declaration, defaults ir.Bounds, mode string, result *Result) *Failure {
	for _, decl := range decls {
		h.logger.Debug("rewriting", "kind", decl.Kind(), "name", decl.DeclName())

		rewritten, err := compiler.Transform(scenario.Bounds, decl, defaults)
		if err != nil {
			if failure := classifyFailure(err); failure != nil {
				return failure
			}
			return &Failure{Type: FailureParse, Message: err.Error()}
		}

		for _, m := range methodsOf(rewritten) {
			result.Facts = append(result.Facts, factOf(rewritten, m, h.clock.Next()))
		}
		result.Rendered = append(result.Rendered, RenderedDecl{
			Name:     rewritten.DeclName(),
			Kind:     rewritten.Kind(),
			InputID:  ir.MustDeclarationID(decl),
			OutputID: ir.MustDeclarationID(rewritten),
			Source:   render.Render(rewritten),
		})
	}
	return nil
}

// record writes one ledger row per rewritten declaration to a fresh
// in-memory ledger and reads the history back into the result.
func (h *Harness) record(scenario *Scenario, mode string, defaults ir.Bounds, result *Result) error {
	resolved, err := compiler.ResolveBounds(scenario.Bounds, defaults)
	if err != nil {
		return err
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return fmt.Errorf("failed to create in-memory ledger: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	runID := h.runGen.Generate()

	for _, r := range result.Rendered {
		rewriteID, err := ir.RewriteID(r.InputID, r.OutputID, resolved, mode)
		if err != nil {
			return fmt.Errorf("failed to hash rewrite: %w", err)
		}
		// Rendered declarations and ledger rows share ordering, so the
		// fact list and the history line up.
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
			Mode:         mode,
			Directives:   scenario.Bounds,
			ToolVersion:  ir.ToolVersion,
			IRVersion:    ir.IRVersion,
		}
		if err := st.WriteRewrite(ctx, rec); err != nil {
			return fmt.Errorf("failed to record rewrite: %w", err)
		}
	}

	records, err := st.ReadHistory(ctx, store.HistoryFilter{RunID: runID})
	if err != nil {
		return fmt.Errorf("failed to read ledger history: %w", err)
	}
	result.Records = records
	return nil
}

// classifyFailure maps pipeline errors onto failure types.
// Returns nil for errors that are not rewrite failures.
func classifyFailure(err error) *Failure {
	var cfgErr *compiler.ConfigError
	if errors.As(err, &cfgErr) {
		return &Failure{Type: FailureConfig, Message: cfgErr.Error()}
	}
	var parseErr *compiler.ParseError
	if errors.As(err, &parseErr) {
		return &Failure{Type: FailureParse, Message: parseErr.Error()}
	}
	return nil
}

// methodsOf returns the methods of a declaration in source order.
func methodsOf(decl ir.Declaration) []ir.Method {
	switch d := decl.(type) {
	case *ir.Interface:
		return d.Methods
	case *ir.ImplBlock:
		return d.Methods
	case *ir.FreeFunction:
		return []ir.Method{d.Fn}
	case *ir.MethodEntry:
		return []ir.Method{d.Method}
	default:
		return nil
	}
}

// factOf extracts the observable facts from one rewritten method.
func factOf(decl ir.Declaration, m ir.Method, seq int64) MethodFact {
	fact := MethodFact{
		Seq:         seq,
		Declaration: decl.DeclName(),
		Kind:        decl.Kind(),
		Method:      m.Name,
		Deferred:    m.Deferred,
		MustObserve: m.MustObserve,
		Suppress:    m.SuppressLints,
	}
	if m.Handle != nil {
		fact.Yields = m.Handle.Yields
		fact.Transferable = m.Handle.Transferable
	}
	fact.SharedAccess = slices.Contains(m.Constraints, compiler.SelfSharedConstraint)
	fact.Wrapped = m.Body != nil && m.Body.Deferred
	return fact
}
