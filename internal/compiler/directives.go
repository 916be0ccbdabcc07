package compiler

import (
	"strings"

	"cuelang.org/go/cue/token"

	"github.com/roach88/prestige/internal/ir"
)

// Recognized capability names.
const (
	CapTransferable = "Transferable"
	CapSharedAccess = "SharedAccess"
)

// directive is a single signed capability toggle: a leading '?' negates
// (disables), its absence enables.
type directive struct {
	capability string
	enabled    bool
}

// ResolveBounds parses a comma-separated directive list into a
// capability configuration. An empty list selects the defaults. The
// list is folded left to right; a later directive for the same
// capability overwrites an earlier one, so the fold is last-write-wins
// and idempotent.
//
// ResolveBounds is a pure function of its inputs. It fails with a
// ConfigError on an unknown capability name or malformed syntax.
func ResolveBounds(list string, defaults ir.Bounds) (ir.Bounds, error) {
	return resolveBoundsAt(list, defaults, token.NoPos)
}

// resolveBoundsAt is ResolveBounds with a source position for
// diagnostics, used when the list comes out of a CUE field.
func resolveBoundsAt(list string, defaults ir.Bounds, pos token.Pos) (ir.Bounds, error) {
	bounds := defaults

	if strings.TrimSpace(list) == "" {
		if list == "" {
			return bounds, nil
		}
		// Whitespace-only lists are written, not absent: reject them.
		return ir.Bounds{}, &ConfigError{Message: msgMalformedList, Detail: list, Pos: pos}
	}

	for _, raw := range strings.Split(list, ",") {
		d, err := parseDirective(raw)
		if err != nil {
			if ce, ok := err.(*ConfigError); ok {
				ce.Pos = pos
			}
			return ir.Bounds{}, err
		}
		switch d.capability {
		case CapTransferable:
			bounds.Transferable = d.enabled
		case CapSharedAccess:
			bounds.SharedAccess = d.enabled
		}
	}

	return bounds, nil
}

// parseDirective interprets one element of a directive list.
func parseDirective(raw string) (directive, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return directive{}, &ConfigError{Message: msgMalformedList, Detail: raw}
	}

	enabled := true
	if strings.HasPrefix(s, "?") {
		enabled = false
		s = strings.TrimSpace(s[1:])
	}

	if !isIdentifier(s) {
		return directive{}, &ConfigError{Message: msgMalformedList, Detail: raw}
	}

	switch s {
	case CapTransferable, CapSharedAccess:
		return directive{capability: s, enabled: enabled}, nil
	default:
		return directive{}, &ConfigError{Message: msgUnknownCapability, Detail: s}
	}
}

// isIdentifier reports whether s is a plain capability identifier:
// ASCII letters only, non-empty. Anything else is malformed syntax
// rather than an unknown name.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
