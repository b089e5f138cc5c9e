package cmdskema_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/reoring/cmdskema"
)

func TestParseError_IsMatchesCode(t *testing.T) {
	_, err := pingCommand(t).Parse(&cmdskema.Interaction{Name: "ping"})
	wrapped := fmt.Errorf("handle interaction: %w", err)

	if !errors.Is(wrapped, cmdskema.ErrMissingOption) {
		t.Fatalf("wrapped error should match ErrMissingOption")
	}
	for _, other := range []error{
		cmdskema.ErrInvalidType,
		cmdskema.ErrUnknownCommand,
		cmdskema.ErrUnknownSubCommand,
		cmdskema.ErrUnknownSubCommandGroup,
		cmdskema.ErrUnknownOption,
	} {
		if errors.Is(wrapped, other) {
			t.Errorf("missing_option must not match %v", other)
		}
	}
	pe, ok := cmdskema.AsParseError(wrapped)
	if !ok || pe.Name != "n" {
		t.Fatalf("AsParseError = %+v, %v", pe, ok)
	}
}

func TestParseError_Messages(t *testing.T) {
	cases := []struct {
		err  *cmdskema.ParseError
		want string
	}{
		{&cmdskema.ParseError{Code: cmdskema.CodeUnknownOption, Name: "x"}, `unknown option "x"`},
		{&cmdskema.ParseError{Code: cmdskema.CodeUnknownCommand, Name: "x"}, `unknown command "x"`},
		{&cmdskema.ParseError{Code: cmdskema.CodeUnknownSubCommand, Name: "x"}, `unknown subcommand "x"`},
		{&cmdskema.ParseError{Code: cmdskema.CodeUnknownSubCommandGroup, Name: "x"}, `unknown subcommand group "x"`},
		{&cmdskema.ParseError{Code: cmdskema.CodeMissingOption, Name: "x"}, `missing option "x"`},
		{&cmdskema.ParseError{Code: cmdskema.CodeInvalidType, Expected: cmdskema.TypeBoolean}, `invalid option type, expected boolean`},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.err.Code, got, tc.want)
		}
	}
}

func TestAsHelpers_Nil(t *testing.T) {
	if _, ok := cmdskema.AsParseError(nil); ok {
		t.Errorf("AsParseError(nil) should fail")
	}
	if _, ok := cmdskema.AsSchemaIssues(nil); ok {
		t.Errorf("AsSchemaIssues(nil) should fail")
	}
	if _, ok := cmdskema.AsSchemaIssues(errors.New("plain")); ok {
		t.Errorf("AsSchemaIssues(plain) should fail")
	}
}
