package cmdskema

import (
	"strings"
)

// pointer builds JSON-Pointer style paths for diagnostics. Values are
// immutable; every step returns a fresh pointer.
type pointer struct {
	parts []string
}

func (p pointer) field(name string) pointer {
	// escape '~' -> '~0', '/' -> '~1' per RFC6901
	esc := strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
	return pointer{parts: append(append([]string(nil), p.parts...), esc)}
}

func (p pointer) String() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}

func (p pointer) issue(code, msg string) SchemaIssue {
	return SchemaIssue{Path: p.String(), Code: code, Message: msg}
}
