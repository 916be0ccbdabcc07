package compiler

import (
	"cuelang.org/go/cue"

	"github.com/roach88/prestige/internal/ir"
)

// Declaration section names, in dispatch priority order. An input that
// is structurally valid under more than one interpretation always
// resolves to the earliest section in this list.
var shapeSections = []struct {
	path    string
	compile func(label string, v cue.Value) (ir.Declaration, error)
}{
	{"interface", compileInterface},
	{"impl", compileImpl},
	{"fn", compileFn},
	{"method", compileMethodEntry},
}

// CompileDeclaration interprets a CUE value as a single declaration.
// The four structural interpretations are attempted in fixed priority
// order (interface, impl, fn, method); the first matching section wins
// and later interpretations are never attempted. If no section matches,
// the whole unit fails with a ParseError and nothing is produced.
//
// The CUE SDK has already validated the value lexically and
// structurally; this adapter only maps it onto the ir tree.
func CompileDeclaration(v cue.Value) (ir.Declaration, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError("cue", err)
	}

	for _, section := range shapeSections {
		sec := v.LookupPath(cue.ParsePath(section.path))
		if !sec.Exists() {
			continue
		}
		iter, err := sec.Fields()
		if err != nil {
			return nil, formatCUEError(section.path, err)
		}
		if !iter.Next() {
			return nil, &ParseError{
				Message: "section is empty",
				Field:   section.path,
				Pos:     sec.Pos(),
			}
		}
		return section.compile(iter.Label(), iter.Value())
	}

	return nil, &ParseError{Message: msgNoShapeMatched, Pos: v.Pos()}
}

// CompileDeclarations interprets a CUE value holding any number of
// declarations across the four sections. Declarations are returned in
// section priority order, then source order within a section.
func CompileDeclarations(v cue.Value) ([]ir.Declaration, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError("cue", err)
	}

	var decls []ir.Declaration
	matched := false
	for _, section := range shapeSections {
		sec := v.LookupPath(cue.ParsePath(section.path))
		if !sec.Exists() {
			continue
		}
		matched = true
		iter, err := sec.Fields()
		if err != nil {
			return nil, formatCUEError(section.path, err)
		}
		for iter.Next() {
			decl, err := section.compile(iter.Label(), iter.Value())
			if err != nil {
				return nil, err
			}
			decls = append(decls, decl)
		}
	}

	if !matched {
		return nil, &ParseError{Message: msgNoShapeMatched, Pos: v.Pos()}
	}
	return decls, nil
}

// CompileEntry compiles one labeled entry from the named section.
// Callers that iterate section fields themselves (to collect errors
// per entry rather than failing the whole unit) dispatch through here.
func CompileEntry(section, label string, v cue.Value) (ir.Declaration, error) {
	for _, s := range shapeSections {
		if s.path == section {
			return s.compile(label, v)
		}
	}
	return nil, &ParseError{Message: "unknown section", Field: section, Pos: v.Pos()}
}

// SectionNames returns the declaration section names in dispatch
// priority order.
func SectionNames() []string {
	names := make([]string, 0, len(shapeSections))
	for _, s := range shapeSections {
		names = append(names, s.path)
	}
	return names
}

func compileInterface(label string, v cue.Value) (ir.Declaration, error) {
	iface := &ir.Interface{Name: label}

	bounds, err := optionalString(v, "bounds", "interface."+label)
	if err != nil {
		return nil, err
	}
	iface.Bounds = bounds

	methods, err := compileMethodList(v, "interface."+label)
	if err != nil {
		return nil, err
	}
	iface.Methods = methods

	return iface, nil
}

func compileImpl(label string, v cue.Value) (ir.Declaration, error) {
	impl := &ir.ImplBlock{Type: label}

	trait, err := optionalString(v, "trait", "impl."+label)
	if err != nil {
		return nil, err
	}
	impl.Trait = trait

	methods, err := compileMethodList(v, "impl."+label)
	if err != nil {
		return nil, err
	}
	impl.Methods = methods

	return impl, nil
}

func compileFn(label string, v cue.Value) (ir.Declaration, error) {
	m, err := compileMethod(label, v, "fn."+label)
	if err != nil {
		return nil, err
	}
	if m.Receiver != "" {
		return nil, &ParseError{
			Message: "free function cannot declare a receiver",
			Field:   "fn." + label,
			Pos:     v.Pos(),
		}
	}
	return &ir.FreeFunction{Fn: m}, nil
}

func compileMethodEntry(label string, v cue.Value) (ir.Declaration, error) {
	m, err := compileMethod(label, v, "method."+label)
	if err != nil {
		return nil, err
	}
	return &ir.MethodEntry{Method: m}, nil
}

// compileMethodList parses the required methods struct of an interface
// or impl block, preserving source order.
func compileMethodList(v cue.Value, field string) ([]ir.Method, error) {
	methodsVal := v.LookupPath(cue.ParsePath("methods"))
	if !methodsVal.Exists() {
		return nil, &ParseError{
			Message: "methods struct is required",
			Field:   field,
			Pos:     v.Pos(),
		}
	}

	iter, err := methodsVal.Fields()
	if err != nil {
		return nil, formatCUEError(field+".methods", err)
	}

	var methods []ir.Method
	for iter.Next() {
		m, err := compileMethod(iter.Label(), iter.Value(), field+".methods."+iter.Label())
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, nil
}

// compileMethod parses one method signature struct.
func compileMethod(name string, v cue.Value, field string) (ir.Method, error) {
	m := ir.Method{Name: name}

	var err error
	if m.Receiver, err = optionalString(v, "receiver", field); err != nil {
		return m, err
	}
	if m.Result, err = optionalString(v, "result", field); err != nil {
		return m, err
	}
	if m.Bounds, err = optionalString(v, "bounds", field); err != nil {
		return m, err
	}
	if m.Deferred, err = optionalBool(v, "deferred", field); err != nil {
		return m, err
	}
	if m.Generics, err = optionalStringList(v, "generics", field); err != nil {
		return m, err
	}
	if m.Constraints, err = optionalStringList(v, "constraints", field); err != nil {
		return m, err
	}

	paramsVal := v.LookupPath(cue.ParsePath("params"))
	if paramsVal.Exists() {
		iter, err := paramsVal.List()
		if err != nil {
			return m, formatCUEError(field+".params", err)
		}
		for iter.Next() {
			pv := iter.Value()
			pname, err := pv.LookupPath(cue.ParsePath("name")).String()
			if err != nil {
				return m, formatCUEError(field+".params.name", err)
			}
			ptype, err := pv.LookupPath(cue.ParsePath("type")).String()
			if err != nil {
				return m, formatCUEError(field+".params.type", err)
			}
			m.Params = append(m.Params, ir.Param{Name: pname, Type: ptype})
		}
	}

	stmts, err := optionalStringList(v, "body", field)
	if err != nil {
		return m, err
	}
	if stmts != nil {
		m.Body = &ir.Block{Stmts: stmts}
	}

	return m, nil
}

func optionalString(v cue.Value, path, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(path))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(field+"."+path, err)
	}
	return s, nil
}

func optionalBool(v cue.Value, path, field string) (bool, error) {
	fv := v.LookupPath(cue.ParsePath(path))
	if !fv.Exists() {
		return false, nil
	}
	b, err := fv.Bool()
	if err != nil {
		return false, formatCUEError(field+"."+path, err)
	}
	return b, nil
}

func optionalStringList(v cue.Value, path, field string) ([]string, error) {
	fv := v.LookupPath(cue.ParsePath(path))
	if !fv.Exists() {
		return nil, nil
	}
	iter, err := fv.List()
	if err != nil {
		return nil, formatCUEError(field+"."+path, err)
	}
	out := []string{}
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(field+"."+path, err)
		}
		out = append(out, s)
	}
	return out, nil
}
