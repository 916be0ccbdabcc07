package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadFixture loads a scenario from testdata/scenarios with paths
// resolved relative to testdata.
func loadFixture(t *testing.T, name string) *Scenario {
	t.Helper()
	scenario, err := LoadScenarioWithBasePath(
		filepath.Join("testdata", "scenarios", name+".yaml"),
		"testdata",
	)
	require.NoError(t, err)
	return scenario
}

// writeScenario writes scenario YAML to a temp file and returns its path.
func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenarioFixtures(t *testing.T) {
	for _, name := range []string{
		"relay-threads",
		"worker-local-override",
		"tick-local",
		"bad-directive",
		"unknown-shape",
	} {
		scenario := loadFixture(t, name)
		assert.Equal(t, name, scenario.Name)
		assert.NotEmpty(t, scenario.Description)
		assert.NotEmpty(t, scenario.Decls)
	}
}

func TestLoadScenarioResolvesDeclPaths(t *testing.T) {
	scenario := loadFixture(t, "relay-threads")
	require.Len(t, scenario.Decls, 1)
	assert.Equal(t, filepath.Join("testdata", "decls", "relay.cue"), scenario.Decls[0])
}

func TestLoadScenarioFileNotFound(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenarioRejectsUnknownFields(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: has a typo'd field
decls:
  - decls/relay.cue
expects:
  failure:
    type: config
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenarioValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing name",
			content: `
description: no name
decls: [decls/relay.cue]
expect:
  failure: {type: config}
`,
			wantErr: "name is required",
		},
		{
			name: "missing description",
			content: `
name: no-description
decls: [decls/relay.cue]
expect:
  failure: {type: config}
`,
			wantErr: "description is required",
		},
		{
			name: "empty decls",
			content: `
name: no-decls
description: decl list missing
expect:
  failure: {type: config}
`,
			wantErr: "decls list is required",
		},
		{
			name: "unknown mode",
			content: `
name: bad-mode
description: mode is not a known mode
decls: [decls/relay.cue]
mode: fibers
expect:
  failure: {type: config}
`,
			wantErr: "unknown mode",
		},
		{
			name: "empty expect",
			content: `
name: no-expect
description: expect block is empty
decls: [decls/relay.cue]
expect: {}
`,
			wantErr: "expect must specify",
		},
		{
			name: "unknown failure type",
			content: `
name: bad-failure
description: failure type is not config or parse
decls: [decls/relay.cue]
expect:
  failure: {type: panic}
`,
			wantErr: "unknown failure type",
		},
		{
			name: "method fact without method",
			content: `
name: bad-method
description: method fact missing method name
decls: [decls/relay.cue]
expect:
  methods:
    - declaration: Relay
`,
			wantErr: "method is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScenario(t, tt.content)
			_, err := LoadScenarioWithBasePath(path, "testdata")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenarioMissingDeclFile(t *testing.T) {
	path := writeScenario(t, `
name: missing-decl
description: references a declaration file that does not exist
decls:
  - decls/nonexistent.cue
expect:
  failure: {type: parse}
`)
	_, err := LoadScenarioWithBasePath(path, "testdata")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declaration file not found")
}
