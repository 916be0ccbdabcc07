package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundsOr(t *testing.T) {
	tests := []struct {
		name string
		a, b Bounds
		want Bounds
	}{
		{"both empty", Bounds{}, Bounds{}, Bounds{}},
		{"inference enables", Bounds{}, Bounds{Transferable: true}, Bounds{Transferable: true}},
		{"config enables", Bounds{SharedAccess: true}, Bounds{}, Bounds{SharedAccess: true}},
		{"union", Bounds{Transferable: true}, Bounds{SharedAccess: true}, Bounds{Transferable: true, SharedAccess: true}},
		{"never subtracts", Bounds{Transferable: true, SharedAccess: true}, Bounds{}, Bounds{Transferable: true, SharedAccess: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Or(tt.b))
		})
	}
}

func TestDefaultBounds(t *testing.T) {
	assert.Equal(t, Bounds{Transferable: true, SharedAccess: true}, DefaultBounds(ModeThreads))
	assert.Equal(t, Bounds{}, DefaultBounds(ModeLocal))
	// Unknown mode behaves like local: the conservative off default.
	assert.Equal(t, Bounds{}, DefaultBounds("bogus"))
}

func TestValidModes(t *testing.T) {
	assert.True(t, ValidModes[ModeThreads])
	assert.True(t, ValidModes[ModeLocal])
	assert.False(t, ValidModes[""])
	assert.True(t, ValidModes[DefaultMode], "build-time default must be a valid mode")
}

func TestMethodCloneDoesNotAlias(t *testing.T) {
	original := Method{
		Name:        "fetch",
		Receiver:    "&Self",
		Generics:    []string{"T"},
		Params:      []Param{{Name: "url", Type: "String"}},
		Result:      "Data",
		Constraints: []string{"T: Display"},
		Deferred:    true,
		Body:        &Block{Stmts: []string{"return cache.get(url)"}},
	}

	clone := original.Clone()
	clone.Params[0].Type = "Url"
	clone.Constraints[0] = "T: Debug"
	clone.Generics[0] = "U"
	clone.Body.Stmts[0] = "return nil"
	clone.Body.Deferred = true

	assert.Equal(t, "String", original.Params[0].Type)
	assert.Equal(t, "T: Display", original.Constraints[0])
	assert.Equal(t, "T", original.Generics[0])
	assert.Equal(t, "return cache.get(url)", original.Body.Stmts[0])
	assert.False(t, original.Body.Deferred)
}

func TestDeclarationCloneDoesNotAlias(t *testing.T) {
	decl := &Interface{
		Name:   "Fetcher",
		Bounds: "?Transferable",
		Methods: []Method{
			{Name: "fetch", Receiver: "&Self", Result: "Data", Deferred: true},
		},
	}

	clone := decl.Clone()
	iface, ok := clone.(*Interface)
	require.True(t, ok)
	iface.Methods[0].Result = "Other"
	iface.Name = "Changed"

	assert.Equal(t, "Fetcher", decl.Name)
	assert.Equal(t, "Data", decl.Methods[0].Result)
}

func TestDeclarationKindsAndNames(t *testing.T) {
	tests := []struct {
		decl     Declaration
		wantKind string
		wantName string
	}{
		{&Interface{Name: "Fetcher"}, KindInterface, "Fetcher"},
		{&ImplBlock{Type: "HttpClient", Trait: "Fetcher"}, KindImpl, "Fetcher for HttpClient"},
		{&ImplBlock{Type: "HttpClient"}, KindImpl, "HttpClient"},
		{&FreeFunction{Fn: Method{Name: "download"}}, KindFn, "download"},
		{&MethodEntry{Method: Method{Name: "poll"}}, KindMethod, "poll"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.wantKind, tt.decl.Kind())
		assert.Equal(t, tt.wantName, tt.decl.DeclName())
	}
}
