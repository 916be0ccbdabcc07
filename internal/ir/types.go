package ir

// Bounds is a capability configuration for a deferred computation.
// Transferable means the computation may be moved to, and driven by, a
// thread other than the one that created it. SharedAccess means the
// implementing type must tolerate concurrent reference while the
// computation runs.
type Bounds struct {
	Transferable bool `json:"transferable"`
	SharedAccess bool `json:"shared_access"`
}

// Or returns the union of two bound sets. Inferred requirements are
// merged into configured bounds this way: inference can enable a
// capability, never disable one.
func (b Bounds) Or(other Bounds) Bounds {
	return Bounds{
		Transferable: b.Transferable || other.Transferable,
		SharedAccess: b.SharedAccess || other.SharedAccess,
	}
}

// Concurrency modes. The mode supplies the default bound set when a
// declaration carries no directives: threads mode defaults both bounds
// on, local mode defaults both off.
const (
	ModeThreads = "threads"
	ModeLocal   = "local"
)

// ValidModes defines the allowed concurrency modes.
var ValidModes = map[string]bool{
	ModeThreads: true,
	ModeLocal:   true,
}

// DefaultMode is the build-time concurrency mode. Override at link time:
//
//	go build -ldflags "-X github.com/roach88/prestige/internal/ir.DefaultMode=threads"
//
// It is read once at startup and threaded explicitly into the rewriter;
// nothing reads it after initialization.
var DefaultMode = ModeLocal

// DefaultBounds returns the bound set a mode implies when no directives
// are given: uniformly true for threads, uniformly false for local.
func DefaultBounds(mode string) Bounds {
	on := mode == ModeThreads
	return Bounds{Transferable: on, SharedAccess: on}
}

// ReceiverShape classifies a method's receiver form. The set is closed
// and classification is total: every receiver expression maps to exactly
// one shape, with unrecognized forms falling into ShapeOwned.
type ReceiverShape string

const (
	// ShapeNone is a free function: no receiver at all.
	ShapeNone ReceiverShape = "none"

	// ShapeSharedOwned is a reference-counted shared pointer to the
	// implementing type (Shared<Self>). Independent owners may drive the
	// deferred computation from unrelated threads.
	ShapeSharedOwned ReceiverShape = "shared_owned"

	// ShapeBorrowed is an immutable borrow (&Self).
	ShapeBorrowed ReceiverShape = "borrowed"

	// ShapeBorrowedMut is a mutable borrow (&mut Self).
	ShapeBorrowedMut ReceiverShape = "borrowed_mut"

	// ShapeOwned consumes the receiver by value (Self). Also the
	// catch-all bucket for unrecognized receiver forms.
	ShapeOwned ReceiverShape = "owned_consuming"
)

// Param is a named, typed method parameter.
type Param struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// HandleType is the opaque deferred-computation handle a rewritten
// method returns: a value that produces Yields once resolved, optionally
// bounded by Transferable.
type HandleType struct {
	Yields       string `json:"yields"`
	Transferable bool   `json:"transferable"`
}

// Block is a method body. Deferred marks a body that has been wrapped to
// run as a single deferred unit instead of executing eagerly.
type Block struct {
	Stmts    []string `json:"stmts"`
	Deferred bool     `json:"deferred"`
}

// Clone returns a deep copy of the block.
func (b *Block) Clone() *Block {
	if b == nil {
		return nil
	}
	out := &Block{Deferred: b.Deferred}
	out.Stmts = append([]string(nil), b.Stmts...)
	return out
}

// Method is a single method signature, optionally with a body.
//
// Result is the declared result type expression; empty means the unit
// type. Receiver is the receiver type expression in source form ("",
// "Self", "&Self", "&mut Self", "Shared<Self>", ...); the raw form is
// kept so untouched methods render byte-identically.
//
// Bounds, when non-empty, is a per-method directive list. A bounded
// method inside an interface is dispatched as a bare method entry with
// its own configuration, independent of the interface-level default.
//
// Handle, MustObserve, SuppressLints, and Body.Deferred are rewrite
// outputs; they are zero on freshly compiled methods.
type Method struct {
	Name          string      `json:"name"`
	Receiver      string      `json:"receiver,omitempty"`
	Generics      []string    `json:"generics,omitempty"`
	Params        []Param     `json:"params,omitempty"`
	Result        string      `json:"result,omitempty"`
	Constraints   []string    `json:"constraints,omitempty"`
	Deferred      bool        `json:"deferred,omitempty"`
	Bounds        string      `json:"bounds,omitempty"`
	MustObserve   bool        `json:"must_observe,omitempty"`
	SuppressLints []string    `json:"suppress_lints,omitempty"`
	Handle        *HandleType `json:"handle,omitempty"`
	Body          *Block      `json:"body,omitempty"`
}

// Clone returns a deep copy of the method. Slices and the body never
// alias the original.
func (m Method) Clone() Method {
	out := m
	out.Generics = append([]string(nil), m.Generics...)
	out.Params = append([]Param(nil), m.Params...)
	out.Constraints = append([]string(nil), m.Constraints...)
	out.SuppressLints = append([]string(nil), m.SuppressLints...)
	if m.Handle != nil {
		h := *m.Handle
		out.Handle = &h
	}
	out.Body = m.Body.Clone()
	return out
}

// Declaration is the sealed union of the four accepted declaration
// shapes. Only types in this package implement it.
type Declaration interface {
	declaration() // Sealed - only the four shapes implement it

	// Kind returns the shape tag: "interface", "impl", "fn", or "method".
	Kind() string

	// DeclName returns the declaration's primary name for diagnostics
	// and the rewrite ledger.
	DeclName() string

	// Clone returns a deep copy that shares no state with the receiver.
	Clone() Declaration
}

// Shape tags returned by Declaration.Kind.
const (
	KindInterface = "interface"
	KindImpl      = "impl"
	KindFn        = "fn"
	KindMethod    = "method"
)

// Interface is a named interface declaration: a method list where some
// entries may carry default bodies.
type Interface struct {
	Name    string   `json:"name"`
	Bounds  string   `json:"bounds,omitempty"` // interface-level directive list
	Methods []Method `json:"methods"`
}

func (*Interface) declaration()       {}
func (d *Interface) Kind() string     { return KindInterface }
func (d *Interface) DeclName() string { return d.Name }

// Clone returns a deep copy of the interface.
func (d *Interface) Clone() Declaration {
	out := &Interface{Name: d.Name, Bounds: d.Bounds}
	out.Methods = cloneMethods(d.Methods)
	return out
}

// ImplBlock is an implementation block: methods with bodies implementing
// Trait (optional) for Type.
type ImplBlock struct {
	Type    string   `json:"type"`
	Trait   string   `json:"trait,omitempty"`
	Methods []Method `json:"methods"`
}

func (*ImplBlock) declaration()   {}
func (d *ImplBlock) Kind() string { return KindImpl }

func (d *ImplBlock) DeclName() string {
	if d.Trait != "" {
		return d.Trait + " for " + d.Type
	}
	return d.Type
}

// Clone returns a deep copy of the impl block.
func (d *ImplBlock) Clone() Declaration {
	out := &ImplBlock{Type: d.Type, Trait: d.Trait}
	out.Methods = cloneMethods(d.Methods)
	return out
}

// FreeFunction is a standalone function declaration.
type FreeFunction struct {
	Fn Method `json:"fn"`
}

func (*FreeFunction) declaration()       {}
func (d *FreeFunction) Kind() string     { return KindFn }
func (d *FreeFunction) DeclName() string { return d.Fn.Name }

// Clone returns a deep copy of the free function.
func (d *FreeFunction) Clone() Declaration {
	return &FreeFunction{Fn: d.Fn.Clone()}
}

// MethodEntry is a bare interface-method entry, used when a single
// method is configured independently of its enclosing interface.
type MethodEntry struct {
	Method Method `json:"method"`
}

func (*MethodEntry) declaration()       {}
func (d *MethodEntry) Kind() string     { return KindMethod }
func (d *MethodEntry) DeclName() string { return d.Method.Name }

// Clone returns a deep copy of the method entry.
func (d *MethodEntry) Clone() Declaration {
	return &MethodEntry{Method: d.Method.Clone()}
}

func cloneMethods(methods []Method) []Method {
	if methods == nil {
		return nil
	}
	out := make([]Method, len(methods))
	for i, m := range methods {
		out[i] = m.Clone()
	}
	return out
}
