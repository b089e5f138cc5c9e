package cmdskema_test

import (
	"errors"
	"testing"

	"github.com/reoring/cmdskema"
)

type Ping struct {
	_ struct{} `command:"ping" description:"Ping the bot"`
	N int64    `option:"integer" description:"How many times"`
}

type Profile struct {
	_       struct{}            `command:"profile" description:"Show a profile"`
	UserID  cmdskema.Snowflake  `option:"user" description:"Whose profile"`
	Verbose *bool               `option:"boolean" description:"Show everything"`
	Scale   *float64            `option:"number,name=zoom" description:"Zoom factor"`
	Note    *string             `option:"string" description:"Note"`
	Channel *cmdskema.Snowflake `option:"channel" description:"Where to post"`
	Small   *int8               `option:"integer" description:"A small number"`
	hidden  int
}

type Admin struct {
	_      struct{} `command:"admin" description:"Administration"`
	Status *Status  `subcommand:""`
	Roles  *Roles   `group:""`
}

type Status struct {
	_ struct{} `command:"status" description:"Show status"`
}

type Roles struct {
	_   struct{} `group:"roles" description:"Role management"`
	Add *RoleAdd `subcommand:""`
}

type RoleAdd struct {
	_    struct{}           `command:"add" description:"Grant a role"`
	User cmdskema.Snowflake `option:"user" description:"Target"`
	Role cmdskema.Snowflake `option:"role" description:"Role"`
}

type Commands struct {
	Ping  *Ping
	Admin *Admin
}

func TestBind_Leaf(t *testing.T) {
	b, err := cmdskema.Bind[Ping]()
	if err != nil {
		t.Fatalf("Bind error: %v", err)
	}
	opt, ok := b.Command().Option("n")
	if !ok || !opt.Required || opt.Kind != cmdskema.TypeInteger {
		t.Fatalf("unexpected option %+v", opt)
	}

	p, err := b.Parse(cmdskema.NewInteraction("ping", nil, arg("n", cmdskema.TypeInteger, int64(3))))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if p.N != 3 {
		t.Fatalf("N = %d, want 3", p.N)
	}

	_, err = b.Parse(&cmdskema.Interaction{Name: "ping"})
	wantParseError(t, err, cmdskema.CodeMissingOption, "n")

	_, err = b.Parse(cmdskema.NewInteraction("ping", nil, arg("n", cmdskema.TypeInteger, int64(1)), arg("x", cmdskema.TypeString, "")))
	wantParseError(t, err, cmdskema.CodeUnknownOption, "x")
}

func TestBind_PointerT(t *testing.T) {
	b := cmdskema.MustBind[*Ping]()
	p, err := b.Parse(cmdskema.NewInteraction("ping", nil, arg("n", cmdskema.TypeInteger, int64(5))))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if p == nil || p.N != 5 {
		t.Fatalf("unexpected value %+v", p)
	}
}

func TestBind_OptionalAndNames(t *testing.T) {
	b := cmdskema.MustBind[Profile]()
	names := []string{}
	for _, o := range b.Command().Options() {
		names = append(names, o.Name)
		if (o.Name == "user_id") != o.Required {
			t.Errorf("option %s required = %v", o.Name, o.Required)
		}
	}
	want := []string{"user_id", "verbose", "zoom", "note", "channel", "small"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}

	p, err := b.Parse(cmdskema.NewInteraction("profile", nil,
		arg("user_id", cmdskema.TypeUser, "42"),
		arg("zoom", cmdskema.TypeNumber, 1.5),
		arg("channel", cmdskema.TypeChannel, "9"),
	))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if p.UserID != 42 || p.Scale == nil || *p.Scale != 1.5 || p.Channel == nil || *p.Channel != 9 {
		t.Fatalf("unexpected value %+v", p)
	}
	if p.Verbose != nil || p.Note != nil || p.Small != nil {
		t.Fatalf("absent options must stay nil: %+v", p)
	}
}

func TestBind_NarrowIntegerOverflow(t *testing.T) {
	b := cmdskema.MustBind[Profile]()
	_, err := b.Parse(cmdskema.NewInteraction("profile", nil,
		arg("user_id", cmdskema.TypeUser, "1"),
		arg("small", cmdskema.TypeInteger, int64(300)),
	))
	if !errors.Is(err, cmdskema.ErrInvalidType) {
		t.Fatalf("expected invalid type, got %v", err)
	}
}

func TestBind_Container(t *testing.T) {
	b := cmdskema.MustBind[Admin]()
	if !b.Command().IsContainer() {
		t.Fatalf("admin should be a container")
	}

	a, err := b.Parse(cmdskema.NewInteraction("admin", []string{"roles", "add"},
		arg("user", cmdskema.TypeUser, "1"), arg("role", cmdskema.TypeRole, "2")))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if a.Status != nil || a.Roles == nil || a.Roles.Add == nil {
		t.Fatalf("exactly one variant must be set: %+v", a)
	}
	if a.Roles.Add.User != 1 || a.Roles.Add.Role != 2 {
		t.Fatalf("unexpected add %+v", a.Roles.Add)
	}

	a, err = b.Parse(cmdskema.NewInteraction("admin", []string{"status"}))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if a.Status == nil || a.Roles != nil {
		t.Fatalf("exactly one variant must be set: %+v", a)
	}

	_, err = b.Parse(&cmdskema.Interaction{Name: "admin"})
	wantParseError(t, err, cmdskema.CodeMissingOption, "admin")
}

func TestBindSet(t *testing.T) {
	b := cmdskema.MustBindSet[Commands]()
	if len(b.Descriptors()) != 2 {
		t.Fatalf("unexpected descriptors %+v", b.Descriptors())
	}
	c, err := b.Parse(cmdskema.NewInteraction("ping", nil, arg("n", cmdskema.TypeInteger, int64(7))))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if c.Ping == nil || c.Ping.N != 7 || c.Admin != nil {
		t.Fatalf("unexpected value %+v", c)
	}
	_, err = b.Parse(&cmdskema.Interaction{Name: "nope"})
	wantParseError(t, err, cmdskema.CodeUnknownCommand, "nope")
}

func TestBind_DescriptorMatchesDSL(t *testing.T) {
	got := cmdskema.MustBind[Admin]().Descriptor()
	if len(got.Entries) != 2 || got.Entries[0].Name != "status" || got.Entries[1].Type != cmdskema.EntrySubCommandGroup {
		t.Fatalf("unexpected descriptor %+v", got)
	}
}

type noMarker struct {
	N int64 `option:"integer" description:"N"`
}

type explicitRequired struct {
	_ struct{} `command:"x" description:"X"`
	N int64    `option:"integer,required" description:"N"`
}

type badFieldType struct {
	_ struct{} `command:"x" description:"X"`
	N string   `option:"integer" description:"N"`
}

type untagged struct {
	_ struct{} `command:"x" description:"X"`
	N int64
}

type valueVariant struct {
	_   struct{} `command:"x" description:"X"`
	Sub Status   `subcommand:""`
}

type mixed struct {
	_   struct{} `command:"x" description:"X"`
	N   int64    `option:"integer" description:"N"`
	Sub *Status  `subcommand:""`
}

type tooDeep struct {
	_   struct{} `command:"x" description:"X"`
	Sub *Admin   `subcommand:""`
}

type groupInGroup struct {
	_     struct{} `group:"g" description:"G"`
	Inner *Roles   `group:""`
}

type holdsGroupInGroup struct {
	_ struct{}      `command:"x" description:"X"`
	G *groupInGroup `group:""`
}

type selfRef struct {
	_    struct{} `command:"x" description:"X"`
	Self *selfRef `subcommand:""`
}

type badKind struct {
	_ struct{} `command:"x" description:"X"`
	N int64    `option:"sub_command" description:"N"`
}

type badName struct {
	_ struct{} `command:"X" description:"X"`
}

func TestBind_DeclarationErrors(t *testing.T) {
	cases := []struct {
		title string
		bind  func() error
		code  string
	}{
		{"no marker", func() error { _, err := cmdskema.Bind[noMarker](); return err }, cmdskema.CodeDeclarationInvalid},
		{"explicit required", func() error { _, err := cmdskema.Bind[explicitRequired](); return err }, cmdskema.CodeDeclarationInvalid},
		{"field type", func() error { _, err := cmdskema.Bind[badFieldType](); return err }, cmdskema.CodeDeclarationInvalid},
		{"untagged", func() error { _, err := cmdskema.Bind[untagged](); return err }, cmdskema.CodeDeclarationInvalid},
		{"value variant", func() error { _, err := cmdskema.Bind[valueVariant](); return err }, cmdskema.CodeDeclarationInvalid},
		{"mixed", func() error { _, err := cmdskema.Bind[mixed](); return err }, cmdskema.CodeMixedBody},
		{"too deep", func() error { _, err := cmdskema.Bind[tooDeep](); return err }, cmdskema.CodeNestingTooDeep},
		{"group in group", func() error { _, err := cmdskema.Bind[holdsGroupInGroup](); return err }, cmdskema.CodeNestingTooDeep},
		{"self reference", func() error { _, err := cmdskema.Bind[selfRef](); return err }, cmdskema.CodeNestingTooDeep},
		{"bad kind", func() error { _, err := cmdskema.Bind[badKind](); return err }, cmdskema.CodeDeclarationInvalid},
		{"bad name", func() error { _, err := cmdskema.Bind[badName](); return err }, cmdskema.CodeNameInvalid},
		{"not a struct", func() error { _, err := cmdskema.Bind[int](); return err }, cmdskema.CodeDeclarationInvalid},
	}
	for _, tc := range cases {
		err := tc.bind()
		iss, ok := cmdskema.AsSchemaIssues(err)
		if !ok || len(iss) == 0 {
			t.Errorf("%s: expected issues, got %v", tc.title, err)
			continue
		}
		if iss[0].Code != tc.code {
			t.Errorf("%s: code = %s, want %s (%v)", tc.title, iss[0].Code, tc.code, iss)
		}
	}
}

func TestMustBind_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	cmdskema.MustBind[untagged]()
}

type scaled struct {
	_      struct{} `command:"scale" description:"Scale"`
	Factor float32  `option:"number" description:"Factor"`
}

func TestBind_NarrowFloatOverflow(t *testing.T) {
	b := cmdskema.MustBind[scaled]()
	_, err := b.Parse(cmdskema.NewInteraction("scale", nil, arg("factor", cmdskema.TypeNumber, 1e300)))
	pe := wantParseError(t, err, cmdskema.CodeInvalidType, "")
	if pe.Path != "/scale/factor" {
		t.Fatalf("unexpected path %q", pe.Path)
	}
	s, err := b.Parse(cmdskema.NewInteraction("scale", nil, arg("factor", cmdskema.TypeNumber, 0.5)))
	if err != nil || s.Factor != 0.5 {
		t.Fatalf("factor = %v, %v", s.Factor, err)
	}
}
