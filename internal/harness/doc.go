// Package harness provides a conformance testing framework for the
// rewrite pipeline.
//
// Scenarios are YAML files naming declaration sources, a caller
// directive list, and a concurrency mode, together with expected facts
// about the rewritten methods. Each scenario runs the full pipeline
// (compile, transform, render, ledger record) against a fresh
// in-memory ledger, so the same scenario always produces the same
// result.
//
// Golden files under testdata/golden hold the rendered output of a
// scenario's declarations and serve as the source of truth for
// expected rewriting behavior. Regenerate them with:
//
//	go test ./internal/harness -update
package harness
