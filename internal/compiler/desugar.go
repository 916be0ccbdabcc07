package compiler

import (
	"github.com/roach88/prestige/internal/ir"
)

// Lint-suppression sets attached to rewritten methods. The narrow set
// covers the noise a rewritten signature itself produces; the rich set
// adds the lints a wrapped body triggers.
var (
	lintsNarrow = []string{
		"type-complexity",
		"bound-repetition",
	}
	lintsRich = []string{
		"deferred-yields-deferred",
		"unit-binding",
		"no-effect-binding",
		"shadow-same",
		"type-complexity",
		"bound-repetition",
		"underscore-binding",
	}
)

// Transform is the engine entry point: resolve the directive list into
// a capability configuration, then desugar the declaration under it.
//
// A directive list carried on the declaration itself (an interface's
// bounds field) takes the place of the caller-supplied list for that
// declaration. defaults is the bound set implied by the concurrency
// mode, read once at startup.
//
// All-or-nothing: either every deferred method is rewritten and a
// complete new tree is returned, or an error is returned and no partial
// output is produced. The input tree is never mutated.
func Transform(directives string, decl ir.Declaration, defaults ir.Bounds) (ir.Declaration, error) {
	list := directives
	if iface, ok := decl.(*ir.Interface); ok && iface.Bounds != "" {
		list = iface.Bounds
	}

	cfg, err := ResolveBounds(list, defaults)
	if err != nil {
		return nil, err
	}

	return Desugar(decl, cfg, defaults)
}

// Desugar dispatches on the declaration shape and rewrites its deferred
// methods under cfg. defaults is needed for per-method directive lists,
// which resolve independently of the enclosing configuration.
func Desugar(decl ir.Declaration, cfg, defaults ir.Bounds) (ir.Declaration, error) {
	switch d := decl.(type) {
	case *ir.Interface:
		return desugarInterface(d, cfg, defaults)
	case *ir.ImplBlock:
		return desugarImpl(d, cfg, defaults)
	case *ir.FreeFunction:
		return desugarFn(d, cfg, defaults)
	case *ir.MethodEntry:
		out := d.Clone().(*ir.MethodEntry)
		if out.Method.Deferred {
			mcfg, err := resolveMethodCfg(out.Method, cfg, defaults)
			if err != nil {
				return nil, err
			}
			out.Method = desugarMethod(out.Method, mcfg)
		}
		return out, nil
	default:
		// Unreachable while Declaration stays sealed.
		return nil, &ParseError{Message: msgNoShapeMatched}
	}
}

// resolveMethodCfg returns the configuration one method rewrites under:
// its own directive list resolved from scratch over the mode defaults
// when present, the enclosing configuration otherwise. Every section
// that can carry a method-level bounds field routes through here, so a
// written list is resolved or rejected, never dropped.
func resolveMethodCfg(m ir.Method, cfg, defaults ir.Bounds) (ir.Bounds, error) {
	if m.Bounds == "" {
		return cfg, nil
	}
	return ResolveBounds(m.Bounds, defaults)
}

// desugarInterface walks the direct method list, one level deep. A
// method carrying its own directive list is rerouted through the bare
// method-entry path with a configuration resolved from scratch,
// independent of the interface-level default. All other deferred
// methods rewrite under the interface configuration; non-deferred
// methods pass through in their original form.
func desugarInterface(d *ir.Interface, cfg, defaults ir.Bounds) (*ir.Interface, error) {
	out := d.Clone().(*ir.Interface)
	for i := range out.Methods {
		m := out.Methods[i]
		if !m.Deferred {
			continue
		}
		methodCfg, err := resolveMethodCfg(m, cfg, defaults)
		if err != nil {
			return nil, err
		}
		out.Methods[i] = desugarMethod(m, methodCfg)
	}
	return out, nil
}

// desugarImpl rewrites every deferred method in the block; their bodies
// run as one deferred unit after rewriting. A method carrying its own
// directive list resolves it from scratch, like an interface method.
// Non-deferred methods pass through untouched.
func desugarImpl(d *ir.ImplBlock, cfg, defaults ir.Bounds) (*ir.ImplBlock, error) {
	out := d.Clone().(*ir.ImplBlock)
	for i := range out.Methods {
		m := out.Methods[i]
		if !m.Deferred {
			continue
		}
		methodCfg, err := resolveMethodCfg(m, cfg, defaults)
		if err != nil {
			return nil, err
		}
		out.Methods[i] = desugarMethod(m, methodCfg)
	}
	return out, nil
}

// desugarFn rewrites a deferred free function's signature and marks the
// result must-observe. A free function has no receiver, so only the
// configured bounds apply, and its body stays eager: there is no
// enclosing method list whose contract demands a wrapped unit.
func desugarFn(d *ir.FreeFunction, cfg, defaults ir.Bounds) (*ir.FreeFunction, error) {
	out := d.Clone().(*ir.FreeFunction)
	if !out.Fn.Deferred {
		return out, nil
	}
	fnCfg, err := resolveMethodCfg(out.Fn, cfg, defaults)
	if err != nil {
		return nil, err
	}
	_, reqs := AnalyzeReceiver(out.Fn.Receiver)
	merged := fnCfg.Or(reqs.bounds())
	out.Fn = RewriteSignature(out.Fn, merged)
	out.Fn.MustObserve = true
	out.Fn.SuppressLints = append([]string(nil), lintsNarrow...)
	return out, nil
}

// desugarMethod applies the analyzer then the rewriter to one deferred
// method: merged bounds are the OR of configuration and inference, the
// result is marked must-observe, and the suppression set is rich when a
// body is present (the body is then wrapped as a single deferred unit)
// and narrow otherwise.
func desugarMethod(m ir.Method, cfg ir.Bounds) ir.Method {
	_, reqs := AnalyzeReceiver(m.Receiver)
	merged := cfg.Or(reqs.bounds())

	out := RewriteSignature(m, merged)
	out.MustObserve = true
	if out.Body != nil {
		out.SuppressLints = append([]string(nil), lintsRich...)
		out.Body.Deferred = true
	} else {
		out.SuppressLints = append([]string(nil), lintsNarrow...)
	}
	return out
}
