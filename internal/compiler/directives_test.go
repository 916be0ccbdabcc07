package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/prestige/internal/ir"
)

func TestResolveBoundsEmptySelectsDefaults(t *testing.T) {
	threads := ir.DefaultBounds(ir.ModeThreads)
	local := ir.DefaultBounds(ir.ModeLocal)

	got, err := ResolveBounds("", threads)
	require.NoError(t, err)
	assert.Equal(t, ir.Bounds{Transferable: true, SharedAccess: true}, got)

	got, err = ResolveBounds("", local)
	require.NoError(t, err)
	assert.Equal(t, ir.Bounds{}, got)
}

func TestResolveBounds(t *testing.T) {
	tests := []struct {
		name     string
		list     string
		defaults ir.Bounds
		want     ir.Bounds
	}{
		{"enable one", "Transferable", ir.Bounds{}, ir.Bounds{Transferable: true}},
		{"enable both", "Transferable,SharedAccess", ir.Bounds{}, ir.Bounds{Transferable: true, SharedAccess: true}},
		{"disable one", "?SharedAccess", ir.Bounds{Transferable: true, SharedAccess: true}, ir.Bounds{Transferable: true}},
		{"disable both", "?Transferable,?SharedAccess", ir.Bounds{Transferable: true, SharedAccess: true}, ir.Bounds{}},
		{"whitespace tolerated", " Transferable , ?SharedAccess ", ir.Bounds{SharedAccess: true}, ir.Bounds{Transferable: true}},
		{"space after negation", "? SharedAccess", ir.Bounds{SharedAccess: true}, ir.Bounds{}},
		{"untouched capability keeps default", "Transferable", ir.Bounds{SharedAccess: true}, ir.Bounds{Transferable: true, SharedAccess: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveBounds(tt.list, tt.defaults)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveBoundsLastWriteWins(t *testing.T) {
	// [A, ?A] and [?A] yield identical configurations.
	folded, err := ResolveBounds("Transferable,?Transferable", ir.Bounds{})
	require.NoError(t, err)
	direct, err := ResolveBounds("?Transferable", ir.Bounds{})
	require.NoError(t, err)
	assert.Equal(t, direct, folded)

	// And the fold is idempotent.
	again, err := ResolveBounds("?Transferable,?Transferable", ir.Bounds{})
	require.NoError(t, err)
	assert.Equal(t, direct, again)

	// Later enable overrides earlier disable too.
	enabled, err := ResolveBounds("?SharedAccess,SharedAccess", ir.Bounds{})
	require.NoError(t, err)
	assert.Equal(t, ir.Bounds{SharedAccess: true}, enabled)
}

func TestResolveBoundsUnknownCapability(t *testing.T) {
	_, err := ResolveBounds("Teleport", ir.Bounds{})
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, msgUnknownCapability, cfgErr.Message)
	assert.Contains(t, err.Error(), "Teleport")

	// Case matters: capability names are exact.
	_, err = ResolveBounds("transferable", ir.Bounds{})
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, msgUnknownCapability, cfgErr.Message)
}

func TestResolveBoundsMalformed(t *testing.T) {
	malformed := []string{
		"   ",
		",",
		"Transferable,",
		",SharedAccess",
		"Transferable,,SharedAccess",
		"?",
		"??Transferable",
		"Send+Sync",
		"Transferable SharedAccess",
	}

	for _, list := range malformed {
		t.Run(list, func(t *testing.T) {
			_, err := ResolveBounds(list, ir.Bounds{})
			require.Error(t, err)

			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, msgMalformedList, cfgErr.Message)
		})
	}
}

func TestResolveBoundsPure(t *testing.T) {
	defaults := ir.Bounds{Transferable: true}
	_, err := ResolveBounds("?Transferable,SharedAccess", defaults)
	require.NoError(t, err)
	assert.Equal(t, ir.Bounds{Transferable: true}, defaults)
}
