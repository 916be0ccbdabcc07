// Package compiler implements the PRESTIGE rewriting core.
//
// The core is four small, layered pieces:
//
//   - Configuration Resolver (directives.go): parses a comma-separated
//     directive list of [?]Transferable / [?]SharedAccess toggles into a
//     capability configuration, folding left to right with
//     last-write-wins, over defaults supplied by the concurrency mode.
//
//   - Receiver Analyzer (receiver.go): classifies a method's receiver
//     type expression into the closed ir.ReceiverShape set and derives
//     the capability requirements the shape implies. Total: every
//     expression classifies, unrecognized forms land in the
//     owned-consuming bucket.
//
//   - Signature Rewriter (signature.go): clears the deferred flag, wraps
//     the declared result in a Pending handle (unit substituted when no
//     result is declared), attaches the Transferable bound when the
//     merged configuration requires it, and appends a Self: SharedAccess
//     constraint when shared access is required. The merged configuration
//     is the OR of directive-resolved bounds and analyzer-inferred
//     requirements: inference can enable a capability the directives
//     disabled, never the reverse.
//
//   - Declaration Dispatcher (desugar.go): walks a declaration's direct
//     method list (one level, no recursion) and applies analyzer plus
//     rewriter to every deferred method. Interface and impl-block
//     methods that are not deferred pass through untouched. Free
//     functions and bare method entries additionally get a must-observe
//     marker and a lint-suppression set; bodies are wrapped to run as a
//     single deferred unit.
//
// The upstream parser is the CUE SDK; decl.go adapts cue.Value into the
// ir declaration tree, attempting the four structural interpretations in
// fixed priority order (interface, impl, fn, method) and stopping at the
// first match.
//
// Everything here is a pure function of its inputs: no I/O, no shared
// mutable state, and the input tree is never mutated. Either every
// deferred method in a declaration is rewritten and a complete new tree
// is returned, or an error is returned and nothing is emitted.
package compiler
