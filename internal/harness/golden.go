package harness

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden executes a scenario and compares its rendered output
// against a golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Golden files hold the rendered source of every declaration the
// scenario rewrites, in declaration order, separated by blank lines.
// They serve as the source of truth for expected rewriting output.
//
// Returns error if scenario execution fails. Test failure (via goldie)
// occurs if the rendered output doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	AssertGolden(t, scenario.Name, result)
	return nil
}

// AssertGolden compares the given result's rendered output against a
// golden file. This is useful when you've already run a scenario and
// want to compare the result without re-running.
func AssertGolden(t *testing.T, scenarioName string, result *Result) {
	t.Helper()

	var b strings.Builder
	for i, r := range result.Rendered {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(r.Source)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, []byte(b.String()))
}
