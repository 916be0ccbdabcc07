package compiler

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// ConfigError reports a bad directive list: an unknown capability name
// or malformed directive syntax. It aborts the whole transformation for
// the affected declaration; no partial rewrite is emitted.
type ConfigError struct {
	Message string
	Detail  string // the offending directive or list, if known
	Pos     token.Pos
}

func (e *ConfigError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %q", e.Message, e.Detail)
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), msg)
	}
	return msg
}

// ParseError reports a declaration that matches none of the four
// accepted shapes, or a shape whose fields cannot be interpreted. Raised
// only after every interpretation has been attempted.
type ParseError struct {
	Message string
	Field   string // field that failed interpretation, if known
	Pos     token.Pos
}

func (e *ParseError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), msg)
	}
	return msg
}

// Error messages for the two diagnostic categories.
const (
	msgUnknownCapability = "unknown capability"
	msgMalformedList     = "malformed directive list"
	msgNoShapeMatched    = "expected interface, implementation block, function, or interface-method-entry"
)

// formatCUEError extracts position info from CUE errors and reports the
// result as a ParseError on the given field.
func formatCUEError(field string, err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors; surface the first with a
	// usable position.
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &ParseError{Message: err.Error(), Field: field}
	}

	firstErr := errs[0]
	pe := &ParseError{Message: firstErr.Error(), Field: field}
	if positions := errors.Positions(firstErr); len(positions) > 0 {
		pe.Pos = positions[0]
	}
	return pe
}
