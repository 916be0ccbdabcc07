// Package render serializes declaration trees to their textual form.
// It is the downstream emitter: the rewriting core hands it a finished
// tree and never formats text itself.
//
// Rendering is deterministic and purely structural: the same tree
// always produces the same bytes, and a method the rewriter left
// untouched renders byte-identically to its input form.
package render

import (
	"fmt"
	"strings"

	"github.com/roach88/prestige/internal/ir"
)

// HandleName is the opaque deferred-computation type constructor in the
// rendered surface syntax: Pending<R> produces R once resolved.
const HandleName = "Pending"

const indentUnit = "    "

// Render serializes a declaration to text. The output always ends with
// a single newline.
func Render(decl ir.Declaration) string {
	var b strings.Builder
	switch d := decl.(type) {
	case *ir.Interface:
		renderHeader(&b, d.Bounds)
		fmt.Fprintf(&b, "interface %s {\n", d.Name)
		renderMethods(&b, d.Methods)
		b.WriteString("}\n")
	case *ir.ImplBlock:
		if d.Trait != "" {
			fmt.Fprintf(&b, "impl %s for %s {\n", d.Trait, d.Type)
		} else {
			fmt.Fprintf(&b, "impl %s {\n", d.Type)
		}
		renderMethods(&b, d.Methods)
		b.WriteString("}\n")
	case *ir.FreeFunction:
		renderMethod(&b, d.Fn, 0, "fn ")
	case *ir.MethodEntry:
		renderMethod(&b, d.Method, 0, "")
	}
	return b.String()
}

// renderHeader emits a declaration-level directive list, when present.
func renderHeader(b *strings.Builder, bounds string) {
	if bounds != "" {
		fmt.Fprintf(b, "@bounds(%s)\n", bounds)
	}
}

func renderMethods(b *strings.Builder, methods []ir.Method) {
	for i, m := range methods {
		if i > 0 {
			b.WriteString("\n")
		}
		renderMethod(b, m, 1, "")
	}
}

// renderMethod emits one method: marker lines, the signature line, an
// optional where clause, and an optional body.
func renderMethod(b *strings.Builder, m ir.Method, depth int, keyword string) {
	indent := strings.Repeat(indentUnit, depth)

	if m.Deferred {
		b.WriteString(indent + "@deferred\n")
	}
	if m.MustObserve {
		b.WriteString(indent + "@must_observe\n")
	}
	if len(m.SuppressLints) > 0 {
		fmt.Fprintf(b, "%s@suppress(%s)\n", indent, strings.Join(m.SuppressLints, ", "))
	}
	if m.Bounds != "" {
		fmt.Fprintf(b, "%s@bounds(%s)\n", indent, m.Bounds)
	}

	b.WriteString(indent + keyword + m.Name)
	if len(m.Generics) > 0 {
		fmt.Fprintf(b, "<%s>", strings.Join(m.Generics, ", "))
	}
	fmt.Fprintf(b, "(%s)", renderParams(m))
	if result := renderResult(m); result != "" {
		b.WriteString(" -> " + result)
	}

	hasWhere := len(m.Constraints) > 0
	if hasWhere {
		fmt.Fprintf(b, "\n%swhere %s", indent+indentUnit, strings.Join(m.Constraints, ", "))
	}

	if m.Body == nil {
		b.WriteString("\n")
		return
	}

	// With a where clause the opening brace moves to its own line so
	// the clause stays visually attached to the signature.
	if hasWhere {
		b.WriteString("\n" + indent + "{\n")
	} else {
		b.WriteString(" {\n")
	}
	renderBody(b, m.Body, depth+1)
	b.WriteString(indent + "}\n")
}

func renderParams(m ir.Method) string {
	parts := make([]string, 0, len(m.Params)+1)
	if m.Receiver != "" {
		parts = append(parts, "self: "+m.Receiver)
	}
	for _, p := range m.Params {
		parts = append(parts, p.Name+": "+p.Type)
	}
	return strings.Join(parts, ", ")
}

// renderResult produces the result type expression: the Pending handle
// after rewriting, the declared result before, nothing for unit.
func renderResult(m ir.Method) string {
	if m.Handle != nil {
		out := fmt.Sprintf("%s<%s>", HandleName, m.Handle.Yields)
		if m.Handle.Transferable {
			out += " + Transferable"
		}
		return out
	}
	return m.Result
}

func renderBody(b *strings.Builder, body *ir.Block, depth int) {
	indent := strings.Repeat(indentUnit, depth)
	if body.Deferred {
		b.WriteString(indent + "pending {\n")
		for _, stmt := range body.Stmts {
			b.WriteString(indent + indentUnit + stmt + "\n")
		}
		b.WriteString(indent + "}\n")
		return
	}
	for _, stmt := range body.Stmts {
		b.WriteString(indent + stmt + "\n")
	}
}
