package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/prestige/internal/ir"
)

func TestRewriteSignatureClearsDeferredFlag(t *testing.T) {
	m := ir.Method{Name: "fetch", Result: "Data", Deferred: true}
	out := RewriteSignature(m, ir.Bounds{})
	assert.False(t, out.Deferred)
}

func TestRewriteSignatureWrapsResult(t *testing.T) {
	m := ir.Method{Name: "fetch", Result: "Data", Deferred: true}

	out := RewriteSignature(m, ir.Bounds{Transferable: true})
	require.NotNil(t, out.Handle)
	assert.Equal(t, "Data", out.Handle.Yields)
	assert.True(t, out.Handle.Transferable)
	assert.Empty(t, out.Result)

	out = RewriteSignature(m, ir.Bounds{})
	require.NotNil(t, out.Handle)
	assert.False(t, out.Handle.Transferable)
}

func TestRewriteSignatureSubstitutesUnit(t *testing.T) {
	m := ir.Method{Name: "ping", Deferred: true}
	out := RewriteSignature(m, ir.Bounds{})
	require.NotNil(t, out.Handle)
	assert.Equal(t, UnitType, out.Handle.Yields)
}

func TestRewriteSignatureAppendsSharedConstraint(t *testing.T) {
	m := ir.Method{
		Name:        "fetch",
		Result:      "Data",
		Deferred:    true,
		Constraints: []string{"T: Display"},
	}

	out := RewriteSignature(m, ir.Bounds{SharedAccess: true})
	// Appended, never replaced: the existing constraint survives.
	assert.Equal(t, []string{"T: Display", SelfSharedConstraint}, out.Constraints)

	out = RewriteSignature(m, ir.Bounds{})
	assert.Equal(t, []string{"T: Display"}, out.Constraints)
}

func TestRewriteSignatureLeavesNameParamsGenericsUntouched(t *testing.T) {
	m := ir.Method{
		Name:     "fetch",
		Receiver: "&Self",
		Generics: []string{"T", "U"},
		Params:   twoParams(),
		Result:   "Data",
		Deferred: true,
	}

	out := RewriteSignature(m, ir.Bounds{Transferable: true, SharedAccess: true})
	assert.Equal(t, m.Name, out.Name)
	assert.Equal(t, m.Receiver, out.Receiver)
	assert.Equal(t, m.Generics, out.Generics)
	assert.Equal(t, m.Params, out.Params)
}

// twoParams builds a two-parameter list used across signature tests.
func twoParams() []ir.Param {
	return []ir.Param{
		{Name: "url", Type: "String"},
		{Name: "retries", Type: "Int"},
	}
}

func TestRewriteSignatureDoesNotMutateInput(t *testing.T) {
	m := ir.Method{
		Name:        "fetch",
		Result:      "Data",
		Deferred:    true,
		Constraints: []string{"T: Display"},
	}

	_ = RewriteSignature(m, ir.Bounds{Transferable: true, SharedAccess: true})

	assert.True(t, m.Deferred)
	assert.Equal(t, "Data", m.Result)
	assert.Nil(t, m.Handle)
	assert.Equal(t, []string{"T: Display"}, m.Constraints)
}
