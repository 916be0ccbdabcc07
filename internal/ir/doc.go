// Package ir defines the declaration tree that the PRESTIGE rewriter
// operates on.
//
// A declaration is one of four shapes: an interface, an implementation
// block, a free function, or a bare interface-method entry. Each shape
// carries zero or more method signatures, and a method signature marked
// deferred is the unit of rewriting: its declared result type is wrapped
// in an opaque Pending handle and capability bounds (Transferable,
// SharedAccess) are attached.
//
// SEALED INTERFACES:
//
// Declaration is a sealed interface using the marker method pattern.
// Only *Interface, *ImplBlock, *FreeFunction, and *MethodEntry implement
// it. This enables exhaustive type switches in the dispatcher and the
// renderer, and keeps the four-shape set closed.
//
// PURELY FUNCTIONAL REWRITING:
//
// Every Declaration and Method provides a deep Clone. The rewriter never
// mutates its input; it clones, transforms the clone, and returns it.
// Input and output trees never alias.
//
// CONTENT-ADDRESSED IDENTITY:
//
// DeclarationID and RewriteID in hash.go compute stable identities over
// canonical JSON (canonical.go) with SHA-256 domain separation. These
// identities back the rewrite ledger in internal/store and golden
// comparison in internal/harness.
package ir
