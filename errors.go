package cmdskema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/cmdskema/i18n"
)

// Schema issue codes, reported while a declaration is compiled.
const (
	CodeNameInvalid        = "name_invalid"
	CodeNameDuplicate      = "name_duplicate"
	CodeDescriptionInvalid = "description_invalid"
	CodeTooManyChildren    = "too_many_children"
	CodeKindInvalid        = "kind_invalid"
	CodeNestingTooDeep     = "nesting_too_deep"
	CodeMixedBody          = "mixed_body"
	CodeDeclarationInvalid = "declaration_invalid"
)

// SchemaIssue describes one invariant violation found while building a schema
// tree.
type SchemaIssue struct {
	Path    string // Declaration pointer, for example /admin/roles/add/options/role.
	Code    string // One of the Code* schema constants above.
	Message string
}

// SchemaIssues is the error returned when a declaration cannot be compiled.
// Construction never yields a partial tree.
type SchemaIssues []SchemaIssue

// Error summarizes the first few issues.
func (iss SchemaIssues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	b.WriteString("cmdskema: invalid declaration: ")
	lim := min(len(iss), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s at %s: %s", iss[i].Code, iss[i].Path, iss[i].Message)
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// AsSchemaIssues extracts SchemaIssues from an error using errors.As.
func AsSchemaIssues(err error) (SchemaIssues, bool) {
	if err == nil {
		return nil, false
	}
	var iss SchemaIssues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

func (iss SchemaIssues) err() error {
	if len(iss) == 0 {
		return nil
	}
	return iss
}

// ErrorCode is the discriminant of a ParseError. The set is closed.
type ErrorCode string

const (
	CodeInvalidType            ErrorCode = "invalid_type"
	CodeUnknownCommand         ErrorCode = "unknown_command"
	CodeUnknownSubCommand      ErrorCode = "unknown_subcommand"
	CodeUnknownSubCommandGroup ErrorCode = "unknown_subcommand_group"
	CodeUnknownOption          ErrorCode = "unknown_option"
	CodeMissingOption          ErrorCode = "missing_option"
)

// ParseError reports why an interaction payload does not match its schema.
// Exactly one error is reported per parse.
type ParseError struct {
	Code ErrorCode
	// Name is the offending name for the unknown_* and missing_option codes.
	Name string
	// Expected is the declared kind for invalid_type.
	Expected OptionType
	// Path is the pointer of the command node being parsed, for example
	// /admin/roles/add.
	Path string
	Hint string
}

// Sentinels for errors.Is; they match any ParseError with the same code.
var (
	ErrInvalidType            = &ParseError{Code: CodeInvalidType}
	ErrUnknownCommand         = &ParseError{Code: CodeUnknownCommand}
	ErrUnknownSubCommand      = &ParseError{Code: CodeUnknownSubCommand}
	ErrUnknownSubCommandGroup = &ParseError{Code: CodeUnknownSubCommandGroup}
	ErrUnknownOption          = &ParseError{Code: CodeUnknownOption}
	ErrMissingOption          = &ParseError{Code: CodeMissingOption}
)

func (e *ParseError) Error() string {
	data := map[string]string{"name": e.Name}
	if e.Expected != 0 {
		data["expected"] = e.Expected.String()
	}
	return i18n.T(string(e.Code), data)
}

// Is matches on the discriminant so wrapped errors keep their kind.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// AsParseError extracts a *ParseError from err using errors.As.
func AsParseError(err error) (*ParseError, bool) {
	if err == nil {
		return nil, false
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

func invalidType(path string, expected OptionType, hint string) *ParseError {
	return &ParseError{Code: CodeInvalidType, Expected: expected, Path: path, Hint: hint}
}

func named(code ErrorCode, path, name string) *ParseError {
	return &ParseError{Code: code, Name: name, Path: path}
}
