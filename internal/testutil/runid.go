package testutil

// FixedRunGenerator returns the same run id every time.
//
// This enables deterministic ledger writes and golden snapshot comparison.
// The same scenario with the same FixedRunGenerator produces byte-identical
// rewrite histories.
//
// Thread-safety: FixedRunGenerator is stateless and safe for concurrent use.
type FixedRunGenerator struct {
	id string
}

// NewFixedRunGenerator creates a new fixed run id generator.
//
// The id is typically set in the scenario YAML:
//
//	run_id: "test-run-00000000-0000-0000-0000-000000000001"
//
// If id is empty, Generate() returns "test-run-default".
func NewFixedRunGenerator(id string) *FixedRunGenerator {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedRunGenerator{id: id}
}

// Generate returns the fixed run id.
func (g *FixedRunGenerator) Generate() string {
	return g.id
}
