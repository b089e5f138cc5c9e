package cmdskema_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/reoring/cmdskema"
)

func pingCommand(t *testing.T) *cmdskema.Command {
	return mustCommand(t, "ping", "Ping the bot",
		cmdskema.Option{Name: "n", Description: "How many times", Kind: cmdskema.TypeInteger, Required: true},
		cmdskema.Option{Name: "note", Description: "Note", Kind: cmdskema.TypeString},
	)
}

func arg(name string, kind cmdskema.OptionType, v any) cmdskema.Argument {
	return cmdskema.Argument{Name: name, Kind: kind, Value: v}
}

func wantParseError(t *testing.T, err error, code cmdskema.ErrorCode, name string) *cmdskema.ParseError {
	t.Helper()
	pe, ok := cmdskema.AsParseError(err)
	if !ok {
		t.Fatalf("expected ParseError %s, got %v", code, err)
	}
	if pe.Code != code || (name != "" && pe.Name != name) {
		t.Fatalf("got %s(%q), want %s(%q)", pe.Code, pe.Name, code, name)
	}
	return pe
}

func TestParse_Leaf(t *testing.T) {
	c := pingCommand(t)
	v, err := c.Parse(cmdskema.NewInteraction("ping", nil, arg("n", cmdskema.TypeInteger, int64(3))))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if n, ok := v.IntArg("n"); !ok || n != 3 {
		t.Fatalf("n = %v, %v", n, ok)
	}
	if _, ok := v.Get("note"); ok {
		t.Fatalf("note should be absent")
	}
	if len(v.Args) != 2 || v.Args[1].Present {
		t.Fatalf("unexpected args %+v", v.Args)
	}
	if v.Type != cmdskema.EntryCommand {
		t.Fatalf("unexpected type %s", v.Type)
	}
}

func TestParse_LeafErrors(t *testing.T) {
	c := pingCommand(t)
	cases := []struct {
		title string
		args  []cmdskema.Argument
		code  cmdskema.ErrorCode
		name  string
	}{
		{"missing required", nil, cmdskema.CodeMissingOption, "n"},
		{"only optional", []cmdskema.Argument{arg("note", cmdskema.TypeString, "hi")}, cmdskema.CodeMissingOption, "n"},
		{"wrong tag", []cmdskema.Argument{arg("n", cmdskema.TypeString, "3")}, cmdskema.CodeInvalidType, ""},
		{"wrong value", []cmdskema.Argument{arg("n", cmdskema.TypeInteger, "3")}, cmdskema.CodeInvalidType, ""},
		{"fractional", []cmdskema.Argument{arg("n", cmdskema.TypeInteger, 1.5)}, cmdskema.CodeInvalidType, ""},
		{"unknown", []cmdskema.Argument{arg("n", cmdskema.TypeInteger, int64(1)), arg("x", cmdskema.TypeString, "")}, cmdskema.CodeUnknownOption, "x"},
		{"unknown beats invalid", []cmdskema.Argument{arg("n", cmdskema.TypeBoolean, true), arg("x", cmdskema.TypeString, "")}, cmdskema.CodeUnknownOption, "x"},
	}
	for _, tc := range cases {
		_, err := c.Parse(cmdskema.NewInteraction("ping", nil, tc.args...))
		pe, ok := cmdskema.AsParseError(err)
		if !ok || pe.Code != tc.code || (tc.name != "" && pe.Name != tc.name) {
			t.Errorf("%s: got %v, want %s(%q)", tc.title, err, tc.code, tc.name)
		}
	}
}

func TestParse_InvalidTypeCarriesExpected(t *testing.T) {
	_, err := pingCommand(t).Parse(cmdskema.NewInteraction("ping", nil, arg("n", cmdskema.TypeString, "3")))
	pe := wantParseError(t, err, cmdskema.CodeInvalidType, "")
	if pe.Expected != cmdskema.TypeInteger || pe.Path != "/ping/n" {
		t.Fatalf("unexpected error %+v", pe)
	}
	if pe.Error() != "invalid option type, expected integer" {
		t.Fatalf("unexpected message %q", pe.Error())
	}
}

func TestParse_NullValueIsAbsent(t *testing.T) {
	c := pingCommand(t)
	v, err := c.Parse(cmdskema.NewInteraction("ping", nil, arg("n", cmdskema.TypeInteger, int64(1)), arg("note", cmdskema.TypeString, nil)))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if _, ok := v.Get("note"); ok {
		t.Fatalf("null note should be absent")
	}
	_, err = c.Parse(cmdskema.NewInteraction("ping", nil, arg("n", cmdskema.TypeInteger, nil)))
	wantParseError(t, err, cmdskema.CodeMissingOption, "n")
}

func TestParse_DuplicateEntryLastWins(t *testing.T) {
	v, err := pingCommand(t).Parse(cmdskema.NewInteraction("ping", nil,
		arg("n", cmdskema.TypeInteger, int64(1)),
		arg("n", cmdskema.TypeInteger, int64(2)),
	))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if n, _ := v.IntArg("n"); n != 2 {
		t.Fatalf("n = %d, want 2", n)
	}
}

func TestParse_MissingOptionInDeclarationOrder(t *testing.T) {
	c := mustCommand(t, "x", "X",
		cmdskema.Option{Name: "a", Description: "A", Kind: cmdskema.TypeString, Required: true},
		cmdskema.Option{Name: "b", Description: "B", Kind: cmdskema.TypeString, Required: true},
	)
	_, err := c.Parse(&cmdskema.Interaction{Name: "x"})
	wantParseError(t, err, cmdskema.CodeMissingOption, "a")
	_, err = c.Parse(cmdskema.NewInteraction("x", nil, arg("a", cmdskema.TypeString, "v")))
	wantParseError(t, err, cmdskema.CodeMissingOption, "b")
}

func TestParse_Conversions(t *testing.T) {
	c := mustCommand(t, "all", "All kinds",
		cmdskema.Option{Name: "s", Description: "d", Kind: cmdskema.TypeString},
		cmdskema.Option{Name: "i", Description: "d", Kind: cmdskema.TypeInteger},
		cmdskema.Option{Name: "b", Description: "d", Kind: cmdskema.TypeBoolean},
		cmdskema.Option{Name: "u", Description: "d", Kind: cmdskema.TypeUser},
		cmdskema.Option{Name: "c", Description: "d", Kind: cmdskema.TypeChannel},
		cmdskema.Option{Name: "r", Description: "d", Kind: cmdskema.TypeRole},
		cmdskema.Option{Name: "m", Description: "d", Kind: cmdskema.TypeMention},
		cmdskema.Option{Name: "f", Description: "d", Kind: cmdskema.TypeNumber},
	)
	v, err := c.Parse(cmdskema.NewInteraction("all", nil,
		arg("s", cmdskema.TypeString, "text"),
		arg("i", cmdskema.TypeInteger, float64(42)),
		arg("b", cmdskema.TypeBoolean, false),
		arg("u", cmdskema.TypeUser, "80351110224678912"),
		arg("c", cmdskema.TypeChannel, uint64(7)),
		arg("r", cmdskema.TypeRole, cmdskema.Snowflake(8)),
		arg("m", cmdskema.TypeMention, int64(9)),
		arg("f", cmdskema.TypeNumber, 3),
	))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if s, _ := v.StringArg("s"); s != "text" {
		t.Errorf("s = %q", s)
	}
	if i, _ := v.IntArg("i"); i != 42 {
		t.Errorf("i = %d", i)
	}
	if b, ok := v.BoolArg("b"); !ok || b {
		t.Errorf("b = %v, %v", b, ok)
	}
	if u, _ := v.SnowflakeArg("u"); u != 80351110224678912 {
		t.Errorf("u = %v", u)
	}
	for name, want := range map[string]cmdskema.Snowflake{"c": 7, "r": 8, "m": 9} {
		if got, _ := v.SnowflakeArg(name); got != want {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}
	if f, _ := v.FloatArg("f"); f != 3 {
		t.Errorf("f = %v", f)
	}
}

func TestParse_SnowflakeRejectsGarbage(t *testing.T) {
	c := mustCommand(t, "x", "X", cmdskema.Option{Name: "u", Description: "d", Kind: cmdskema.TypeUser, Required: true})
	for _, raw := range []any{"abc", int64(-1), -2.0, true} {
		_, err := c.Parse(cmdskema.NewInteraction("x", nil, arg("u", cmdskema.TypeUser, raw)))
		if !errors.Is(err, cmdskema.ErrInvalidType) {
			t.Errorf("value %#v: expected invalid type, got %v", raw, err)
		}
	}
}

func TestParse_Container(t *testing.T) {
	c := adminCommand()

	v, err := c.Parse(cmdskema.NewInteraction("admin", []string{"status"}, arg("verbose", cmdskema.TypeBoolean, true)))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if p := v.Path(); len(p) != 2 || p[1] != "status" || v.Selected.Type != cmdskema.EntrySubCommand {
		t.Fatalf("unexpected value %+v", v)
	}

	v, err = c.Parse(cmdskema.NewInteraction("admin", []string{"roles", "add"},
		arg("user", cmdskema.TypeUser, "1"), arg("role", cmdskema.TypeRole, "2")))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if v.Selected.Type != cmdskema.EntrySubCommandGroup || v.Leaf().Name != "add" || v.Leaf().Type != cmdskema.EntrySubCommand {
		t.Fatalf("unexpected value %+v", v)
	}
}

func TestParse_ContainerErrors(t *testing.T) {
	c := adminCommand()

	_, err := c.Parse(&cmdskema.Interaction{Name: "admin"})
	pe := wantParseError(t, err, cmdskema.CodeMissingOption, "admin")
	if pe.Hint != "expected one of: status, roles" {
		t.Fatalf("unexpected hint %q", pe.Hint)
	}

	_, err = c.Parse(cmdskema.NewInteraction("admin", []string{"nope"}))
	wantParseError(t, err, cmdskema.CodeUnknownSubCommand, "nope")

	_, err = c.Parse(cmdskema.NewInteraction("admin", []string{"nope", "add"}))
	wantParseError(t, err, cmdskema.CodeUnknownSubCommandGroup, "nope")

	_, err = c.Parse(cmdskema.NewInteraction("admin", []string{"roles", "nope"}))
	pe = wantParseError(t, err, cmdskema.CodeUnknownSubCommand, "nope")
	if pe.Path != "/admin/roles" {
		t.Fatalf("unexpected path %q", pe.Path)
	}

	_, err = c.Parse(&cmdskema.Interaction{Name: "admin", Options: []cmdskema.InteractionOption{{Name: "roles", Type: cmdskema.TypeSubCommandGroup}}})
	wantParseError(t, err, cmdskema.CodeMissingOption, "roles")

	_, err = c.Parse(cmdskema.NewInteraction("admin", []string{"roles", "add"}, arg("user", cmdskema.TypeUser, "1")))
	pe = wantParseError(t, err, cmdskema.CodeMissingOption, "role")
	if pe.Path != "/admin/roles/add" {
		t.Fatalf("unexpected path %q", pe.Path)
	}
}

func TestParse_ContainerFirstEntryWins(t *testing.T) {
	in := &cmdskema.Interaction{Name: "admin", Options: []cmdskema.InteractionOption{
		{Name: "status", Type: cmdskema.TypeSubCommand},
		{Name: "bogus", Type: cmdskema.TypeSubCommand},
	}}
	v, err := adminCommand().Parse(in)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if v.Leaf().Name != "status" {
		t.Fatalf("unexpected leaf %q", v.Leaf().Name)
	}
}

func TestSetParse_UnknownCommand(t *testing.T) {
	set, err := cmdskema.NewSet(pingCommand(t), adminCommand())
	if err != nil {
		t.Fatalf("NewSet error: %v", err)
	}
	_, err = set.Parse(&cmdskema.Interaction{Name: "pong"})
	wantParseError(t, err, cmdskema.CodeUnknownCommand, "pong")

	_, err = pingCommand(t).Parse(&cmdskema.Interaction{Name: "admin"})
	wantParseError(t, err, cmdskema.CodeUnknownCommand, "admin")

	v, err := set.Parse(cmdskema.NewInteraction("ping", nil, arg("n", cmdskema.TypeInteger, int64(1))))
	if err != nil || v.Name != "ping" {
		t.Fatalf("unexpected result %+v, %v", v, err)
	}
}

func TestParse_Concurrent(t *testing.T) {
	set, err := cmdskema.NewSet(pingCommand(t), adminCommand())
	if err != nil {
		t.Fatalf("NewSet error: %v", err)
	}
	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := set.Parse(cmdskema.NewInteraction("ping", nil, arg("n", cmdskema.TypeInteger, int64(i))))
			if err != nil {
				errs <- err
				return
			}
			if n, _ := v.IntArg("n"); n != int64(i) {
				errs <- fmt.Errorf("n = %d, want %d", n, i)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestParse_ExtraPathElements(t *testing.T) {
	c := adminCommand()
	_, err := c.Parse(cmdskema.NewInteraction("admin", []string{"roles", "add", "bogus"},
		arg("user", cmdskema.TypeUser, "1"), arg("role", cmdskema.TypeRole, "2")))
	pe := wantParseError(t, err, cmdskema.CodeUnknownSubCommand, "bogus")
	if pe.Path != "/admin/roles/add" {
		t.Fatalf("unexpected path %q", pe.Path)
	}

	in, err := cmdskema.DecodeInteraction([]byte(`{"command_name":"admin","resolved_path":["status","deeper"]}`))
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	_, err = c.Parse(in)
	wantParseError(t, err, cmdskema.CodeUnknownSubCommand, "deeper")

	_, err = pingCommand(t).Parse(cmdskema.NewInteraction("ping", []string{"sub"}))
	wantParseError(t, err, cmdskema.CodeUnknownSubCommand, "sub")
}

func TestParse_NullValueIgnoresTag(t *testing.T) {
	v, err := pingCommand(t).Parse(cmdskema.NewInteraction("ping", nil,
		arg("n", cmdskema.TypeInteger, int64(1)),
		arg("note", cmdskema.TypeInteger, nil),
	))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if _, ok := v.Get("note"); ok {
		t.Fatalf("null note should be absent")
	}
}

func TestParse_NumericSourcesMatch(t *testing.T) {
	c := mustCommand(t, "nums", "Numbers",
		cmdskema.Option{Name: "i", Description: "d", Kind: cmdskema.TypeInteger, Required: true},
		cmdskema.Option{Name: "f", Description: "d", Kind: cmdskema.TypeNumber, Required: true},
	)
	for _, raw := range []any{int(5), int8(5), int16(5), int32(5), int64(5), uint(5), uint8(5), uint16(5), uint32(5), uint64(5)} {
		v, err := c.Parse(cmdskema.NewInteraction("nums", nil,
			arg("i", cmdskema.TypeInteger, raw),
			arg("f", cmdskema.TypeNumber, raw),
		))
		if err != nil {
			t.Errorf("%T: parse error: %v", raw, err)
			continue
		}
		i, _ := v.IntArg("i")
		f, _ := v.FloatArg("f")
		if i != 5 || f != 5 {
			t.Errorf("%T: i = %d, f = %v", raw, i, f)
		}
	}
}
