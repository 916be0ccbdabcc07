package compiler

import (
	"strings"

	"github.com/roach88/prestige/internal/ir"
)

// Requirements are the capability needs inferred from a receiver shape.
type Requirements struct {
	NeedsTransferable bool
	NeedsShared       bool
}

// ClassifyReceiver maps a receiver type expression to its shape. The
// classification is total and first-match-wins:
//
//	Shared<Self>   shared-ownership pointer to exactly the implementing type
//	&Self          immutable borrow
//	&mut Self      mutable borrow
//	(absent)       free function, no receiver
//	anything else  owned-consuming bucket (includes Self by value,
//	               Shared<Other>, Box<Self>, and unrecognized forms)
//
// Whitespace inside the expression is insignificant.
func ClassifyReceiver(expr string) ir.ReceiverShape {
	s := strings.TrimSpace(expr)
	if s == "" {
		return ir.ShapeNone
	}

	if isSharedSelf(s) {
		return ir.ShapeSharedOwned
	}

	if rest, ok := strings.CutPrefix(s, "&"); ok {
		rest = strings.TrimSpace(rest)
		if inner, ok := strings.CutPrefix(rest, "mut "); ok {
			if strings.TrimSpace(inner) == "Self" {
				return ir.ShapeBorrowedMut
			}
			return ir.ShapeOwned
		}
		if rest == "Self" {
			return ir.ShapeBorrowed
		}
		// Borrow of something other than Self: unrecognized form.
		return ir.ShapeOwned
	}

	return ir.ShapeOwned
}

// isSharedSelf recognizes a shared-ownership pointer wrapping exactly
// the implementing type: Shared<Self>, with one type argument.
func isSharedSelf(s string) bool {
	rest, ok := strings.CutPrefix(s, "Shared")
	if !ok {
		return false
	}
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, "<") || !strings.HasSuffix(rest, ">") {
		return false
	}
	inner := strings.TrimSpace(rest[1 : len(rest)-1])
	if strings.Contains(inner, ",") {
		return false
	}
	return inner == "Self"
}

// InferRequirements derives the capability requirements a receiver
// shape implies. Pure, total, no error conditions.
//
// A shared-ownership receiver needs both capabilities: independent
// owners may drive the deferred computation from unrelated threads, so
// the computation must move and the type must tolerate concurrent
// reference. An immutable borrow needs shared access only. Everything
// else that has a receiver needs transferability, the conservative
// default. A free function needs neither.
func InferRequirements(shape ir.ReceiverShape) Requirements {
	switch shape {
	case ir.ShapeSharedOwned:
		return Requirements{NeedsTransferable: true, NeedsShared: true}
	case ir.ShapeBorrowed:
		return Requirements{NeedsShared: true}
	case ir.ShapeNone:
		return Requirements{}
	default:
		// Owned-consuming, mutable borrow, and the unrecognized bucket.
		return Requirements{NeedsTransferable: true}
	}
}

// AnalyzeReceiver combines classification and inference for a method's
// receiver expression.
func AnalyzeReceiver(expr string) (ir.ReceiverShape, Requirements) {
	shape := ClassifyReceiver(expr)
	return shape, InferRequirements(shape)
}

// bounds converts requirements into the Bounds form used for OR-merge
// with a directive-resolved configuration.
func (r Requirements) bounds() ir.Bounds {
	return ir.Bounds{Transferable: r.NeedsTransferable, SharedAccess: r.NeedsShared}
}
