package compiler

import (
	"github.com/roach88/prestige/internal/ir"
)

// UnitType is substituted for the declared result when a deferred
// method declares none: the handle still has to yield something.
const UnitType = "()"

// SelfSharedConstraint is the self-referential constraint appended when
// the merged configuration requires shared access: the implementing
// type itself must support concurrent shared reference.
const SelfSharedConstraint = "Self: SharedAccess"

// RewriteSignature transforms a deferred method signature into its
// explicit form under the merged capability configuration (directive
// bounds OR-ed with receiver-inferred requirements).
//
// Effects, in order:
//   - clears the deferred-execution flag
//   - wraps the declared result type in a Pending handle, substituting
//     the unit type when no result is declared; the handle carries the
//     Transferable bound iff the merged configuration requires it
//   - appends (never replaces) the Self: SharedAccess constraint when
//     shared access is required
//
// Name, parameters, and the generic parameter list are left untouched.
// The input method is not mutated; a fresh copy is returned. Pure, no
// error conditions.
func RewriteSignature(m ir.Method, merged ir.Bounds) ir.Method {
	out := m.Clone()

	out.Deferred = false

	yields := out.Result
	if yields == "" {
		yields = UnitType
	}
	out.Handle = &ir.HandleType{
		Yields:       yields,
		Transferable: merged.Transferable,
	}
	out.Result = ""

	if merged.SharedAccess {
		out.Constraints = append(out.Constraints, SelfSharedConstraint)
	}

	return out
}
