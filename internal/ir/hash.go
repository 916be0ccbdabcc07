package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity. The version suffix
// enables future algorithm migration.
const (
	DomainDeclaration = "prestige/declaration/v1"
	DomainRewrite     = "prestige/rewrite/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// DeclarationID computes the content-addressed identity of a declaration
// tree. Identical trees always hash identically, before or after
// rewriting, regardless of how they were loaded.
func DeclarationID(d Declaration) (string, error) {
	canonical, err := MarshalCanonical(declCanonicalMap(d))
	if err != nil {
		return "", fmt.Errorf("DeclarationID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainDeclaration, canonical), nil
}

// RewriteID computes the identity of a single rewrite run: which input
// tree was rewritten, under which effective bounds and mode, into which
// output tree.
func RewriteID(inputID, outputID string, bounds Bounds, mode string) (string, error) {
	obj := map[string]any{
		"input":         inputID,
		"output":        outputID,
		"transferable":  bounds.Transferable,
		"shared_access": bounds.SharedAccess,
		"mode":          mode,
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("RewriteID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRewrite, canonical), nil
}

// MustDeclarationID is like DeclarationID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustDeclarationID(d Declaration) string {
	id, err := DeclarationID(d)
	if err != nil {
		panic(err)
	}
	return id
}

// declCanonicalMap lowers a declaration to the restricted value set
// MarshalCanonical accepts. Every field participates, including zero
// values, so the mapping is total and unambiguous.
func declCanonicalMap(d Declaration) map[string]any {
	out := map[string]any{"kind": d.Kind()}
	switch decl := d.(type) {
	case *Interface:
		out["name"] = decl.Name
		out["bounds"] = decl.Bounds
		out["methods"] = methodsCanonical(decl.Methods)
	case *ImplBlock:
		out["type"] = decl.Type
		out["trait"] = decl.Trait
		out["methods"] = methodsCanonical(decl.Methods)
	case *FreeFunction:
		out["fn"] = methodCanonicalMap(decl.Fn)
	case *MethodEntry:
		out["method"] = methodCanonicalMap(decl.Method)
	}
	return out
}

func methodsCanonical(methods []Method) []any {
	out := make([]any, len(methods))
	for i, m := range methods {
		out[i] = methodCanonicalMap(m)
	}
	return out
}

func methodCanonicalMap(m Method) map[string]any {
	params := make([]any, len(m.Params))
	for i, p := range m.Params {
		params[i] = map[string]any{"name": p.Name, "type": p.Type}
	}
	out := map[string]any{
		"name":           m.Name,
		"receiver":       m.Receiver,
		"generics":       stringsCanonical(m.Generics),
		"params":         params,
		"result":         m.Result,
		"constraints":    stringsCanonical(m.Constraints),
		"deferred":       m.Deferred,
		"bounds":         m.Bounds,
		"must_observe":   m.MustObserve,
		"suppress_lints": stringsCanonical(m.SuppressLints),
	}
	if m.Handle != nil {
		out["handle"] = map[string]any{
			"yields":       m.Handle.Yields,
			"transferable": m.Handle.Transferable,
		}
	}
	if m.Body != nil {
		out["body"] = map[string]any{
			"stmts":    stringsCanonical(m.Body.Stmts),
			"deferred": m.Body.Deferred,
		}
	}
	return out
}

func stringsCanonical(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
