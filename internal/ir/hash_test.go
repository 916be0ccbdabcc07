package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInterface() *Interface {
	return &Interface{
		Name: "Fetcher",
		Methods: []Method{
			{
				Name:     "fetch",
				Receiver: "&Self",
				Params:   []Param{{Name: "url", Type: "String"}},
				Result:   "Data",
				Deferred: true,
			},
		},
	}
}

func TestDeclarationIDStable(t *testing.T) {
	first, err := DeclarationID(sampleInterface())
	require.NoError(t, err)
	second, err := DeclarationID(sampleInterface())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, 64) // hex-encoded SHA-256
}

func TestDeclarationIDSensitiveToContent(t *testing.T) {
	base := MustDeclarationID(sampleInterface())

	renamed := sampleInterface()
	renamed.Name = "Getter"
	assert.NotEqual(t, base, MustDeclarationID(renamed))

	retyped := sampleInterface()
	retyped.Methods[0].Result = "Bytes"
	assert.NotEqual(t, base, MustDeclarationID(retyped))

	undeferred := sampleInterface()
	undeferred.Methods[0].Deferred = false
	assert.NotEqual(t, base, MustDeclarationID(undeferred))
}

func TestDeclarationIDAllKinds(t *testing.T) {
	decls := []Declaration{
		sampleInterface(),
		&ImplBlock{Type: "HttpClient", Trait: "Fetcher", Methods: []Method{{Name: "fetch", Receiver: "&Self", Body: &Block{Stmts: []string{"return x"}}}}},
		&FreeFunction{Fn: Method{Name: "download", Result: "Data", Deferred: true}},
		&MethodEntry{Method: Method{Name: "poll", Receiver: "Shared<Self>", Deferred: true}},
	}

	seen := map[string]bool{}
	for _, d := range decls {
		id, err := DeclarationID(d)
		require.NoError(t, err)
		assert.False(t, seen[id], "distinct declarations must not collide")
		seen[id] = true
	}
}

func TestDeclarationIDDomainSeparation(t *testing.T) {
	// A free function and a bare method entry holding the same signature
	// differ only by shape tag; the canonical form must keep them apart.
	m := Method{Name: "poll", Result: "Status", Deferred: true}
	fnID := MustDeclarationID(&FreeFunction{Fn: m})
	entryID := MustDeclarationID(&MethodEntry{Method: m})
	assert.NotEqual(t, fnID, entryID)
}

func TestRewriteID(t *testing.T) {
	in := MustDeclarationID(sampleInterface())
	out := MustDeclarationID(&Interface{Name: "Fetcher"})

	id1, err := RewriteID(in, out, Bounds{Transferable: true}, ModeThreads)
	require.NoError(t, err)
	id2, err := RewriteID(in, out, Bounds{Transferable: true}, ModeThreads)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	// Different bounds or mode produce different run identities.
	id3, err := RewriteID(in, out, Bounds{SharedAccess: true}, ModeThreads)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id3)

	id4, err := RewriteID(in, out, Bounds{Transferable: true}, ModeLocal)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id4)
}
