package cmdskema

import (
	"fmt"
	"reflect"
)

// Binding ties a compiled command to the struct type T it was declared with.
//
// A command struct carries a blank marker field naming it, then either
// option fields or variant fields:
//
//	type Ping struct {
//		_ struct{} `command:"ping" description:"Ping the bot"`
//		N int64    `option:"integer" description:"How many times"`
//	}
//
// Non-pointer option fields are required, pointer fields are optional.
// Variant fields are pointers to structs tagged `subcommand:""` or
// `group:""`; exactly one is set after a successful parse.
type Binding[T any] struct {
	cmd  *Command
	plan *commandPlan
	ptr  bool // T is *Struct
}

// Bind compiles the command declared by struct type T.
func Bind[T any]() (*Binding[T], error) {
	rt, ptr, err := structTypeOf[T]()
	if err != nil {
		return nil, err
	}
	cmd, plan, iss := compileCommand(rt, pointer{}, 0)
	if err := iss.err(); err != nil {
		return nil, err
	}
	return &Binding[T]{cmd: cmd, plan: plan, ptr: ptr}, nil
}

// MustBind is like Bind but panics on error.
func MustBind[T any]() *Binding[T] {
	b, err := Bind[T]()
	if err != nil {
		panic(err)
	}
	return b
}

// Command returns the compiled schema.
func (b *Binding[T]) Command() *Command { return b.cmd }

// Descriptor returns the registration descriptor of the bound command.
func (b *Binding[T]) Descriptor() Descriptor { return b.cmd.Descriptor() }

// Parse parses a payload and populates a T.
func (b *Binding[T]) Parse(in *Interaction) (T, error) {
	v, err := b.cmd.Parse(in)
	if err != nil {
		var zero T
		return zero, err
	}
	return b.Decode(v)
}

// Decode populates a T from a parsed value of the bound command.
func (b *Binding[T]) Decode(v *Value) (T, error) {
	var zero T
	if v == nil || v.Name != b.cmd.name {
		return zero, fmt.Errorf("cmdskema: value does not belong to command %q", b.cmd.name)
	}
	rv := reflect.New(b.plan.typ)
	if err := b.plan.decode(v, rv.Elem(), pointer{}.field(v.Name)); err != nil {
		return zero, err
	}
	return fromReflect[T](rv, b.ptr), nil
}

// SetBinding ties a command set to a struct T whose fields are pointers to
// command structs. After a parse exactly one field is set.
//
//	type Commands struct {
//		Ping  *Ping
//		Admin *Admin
//	}
type SetBinding[T any] struct {
	set     *Set
	typ     reflect.Type
	entries []setEntry
	ptr     bool
}

type setEntry struct {
	index int
	plan  *commandPlan
}

// BindSet compiles every command declared by struct type T.
func BindSet[T any]() (*SetBinding[T], error) {
	rt, ptr, err := structTypeOf[T]()
	if err != nil {
		return nil, err
	}
	var (
		iss     SchemaIssues
		cmds    []*Command
		entries []setEntry
	)
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		at := pointer{}.field(sf.Name)
		if sf.Type.Kind() != reflect.Pointer || sf.Type.Elem().Kind() != reflect.Struct {
			iss = append(iss, at.issue(CodeDeclarationInvalid, "expected a pointer to a command struct, got "+sf.Type.String()))
			continue
		}
		cmd, plan, ci := compileCommand(sf.Type.Elem(), pointer{}, 0)
		if len(ci) > 0 {
			iss = append(iss, ci...)
			continue
		}
		cmds = append(cmds, cmd)
		entries = append(entries, setEntry{index: i, plan: plan})
	}
	if err := iss.err(); err != nil {
		return nil, err
	}
	set, err := NewSet(cmds...)
	if err != nil {
		return nil, err
	}
	return &SetBinding[T]{set: set, typ: rt, entries: entries, ptr: ptr}, nil
}

// MustBindSet is like BindSet but panics on error.
func MustBindSet[T any]() *SetBinding[T] {
	b, err := BindSet[T]()
	if err != nil {
		panic(err)
	}
	return b
}

func (b *SetBinding[T]) Set() *Set { return b.set }

func (b *SetBinding[T]) Descriptors() []Descriptor { return b.set.Descriptors() }

// Parse resolves the invoked command and populates the matching field of T.
func (b *SetBinding[T]) Parse(in *Interaction) (T, error) {
	v, err := b.set.Parse(in)
	if err != nil {
		var zero T
		return zero, err
	}
	return b.Decode(v)
}

func (b *SetBinding[T]) Decode(v *Value) (T, error) {
	var zero T
	if v == nil {
		return zero, fmt.Errorf("cmdskema: nil value")
	}
	for _, e := range b.entries {
		if e.plan.name != v.Name {
			continue
		}
		rv := reflect.New(b.typ)
		cv := reflect.New(e.plan.typ)
		if err := e.plan.decode(v, cv.Elem(), pointer{}.field(v.Name)); err != nil {
			return zero, err
		}
		rv.Elem().Field(e.index).Set(cv)
		return fromReflect[T](rv, b.ptr), nil
	}
	return zero, named(CodeUnknownCommand, "/", v.Name)
}

// commandPlan maps a compiled command back onto its Go struct.
type commandPlan struct {
	name     string
	typ      reflect.Type
	options  []optionPlan  // parallel to Command.options
	variants []variantPlan // parallel to Command.children
}

type optionPlan struct {
	index    int
	optional bool
	elem     reflect.Type
}

type variantPlan struct {
	index   int
	name    string
	command *commandPlan // sub-command variant
	group   *groupPlan   // group variant
}

type groupPlan struct {
	typ  reflect.Type
	subs []variantPlan
}

// compileCommand reads a command struct. depth is 0 for top-level commands
// and grows by one per sub-command or group level.
func compileCommand(rt reflect.Type, parent pointer, depth int) (*Command, *commandPlan, SchemaIssues) {
	m, iss := findMarker(rt, parent.field(rt.Name()))
	if len(iss) > 0 {
		return nil, nil, iss
	}
	if m.key != TagCommand {
		return nil, nil, SchemaIssues{parent.field(m.name).issue(CodeDeclarationInvalid, rt.String()+" declares a group where a command is expected")}
	}
	at := parent.field(m.name)
	plan := &commandPlan{name: m.name, typ: rt}
	var (
		opts     []Option
		children []Child
	)
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.Name == "_" || !sf.IsExported() {
			continue
		}
		fat := at.field(sf.Name)
		keys := fieldKeys(sf)
		switch {
		case len(keys) == 0:
			iss = append(iss, fat.issue(CodeDeclarationInvalid, "field has no option, subcommand or group tag"))
			continue
		case len(keys) > 1:
			iss = append(iss, fat.issue(CodeDeclarationInvalid, "a field takes exactly one of the option, subcommand or group tags"))
			continue
		}
		if keys[0] == TagOption {
			o, op, oi := compileOption(sf, fat)
			if len(oi) > 0 {
				iss = append(iss, oi...)
				continue
			}
			op.index = i
			opts = append(opts, o)
			plan.options = append(plan.options, op)
			continue
		}
		if depth > 0 {
			iss = append(iss, fat.issue(CodeNestingTooDeep, "a sub-command cannot contain sub-commands or groups"))
			continue
		}
		if sf.Type.Kind() != reflect.Pointer || sf.Type.Elem().Kind() != reflect.Struct {
			iss = append(iss, fat.issue(CodeDeclarationInvalid, "expected a single variant as a pointer to a struct, got "+sf.Type.String()))
			continue
		}
		vp := variantPlan{index: i}
		if keys[0] == TagSubCommand {
			sub, sp, si := compileCommand(sf.Type.Elem(), at, depth+1)
			if len(si) > 0 {
				iss = append(iss, si...)
				continue
			}
			vp.name, vp.command = sub.name, sp
			children = append(children, sub)
		} else {
			g, gp, gi := compileGroup(sf.Type.Elem(), at, depth+1)
			if len(gi) > 0 {
				iss = append(iss, gi...)
				continue
			}
			vp.name, vp.group = g.name, gp
			children = append(children, g)
		}
		plan.variants = append(plan.variants, vp)
	}
	if len(opts) > 0 && len(plan.variants) > 0 {
		iss = append(iss, at.issue(CodeMixedBody, "a command holds either options or sub-commands, not both"))
	}
	if len(iss) > 0 {
		return nil, nil, iss
	}
	var (
		cmd *Command
		err error
	)
	if len(children) > 0 {
		cmd, err = NewContainer(m.name, m.description, children...)
	} else {
		cmd, err = NewCommand(m.name, m.description, opts...)
	}
	if err != nil {
		ci, _ := AsSchemaIssues(err)
		return nil, nil, ci.Rebase(parent.String())
	}
	return cmd, plan, nil
}

func compileGroup(rt reflect.Type, parent pointer, depth int) (*Group, *groupPlan, SchemaIssues) {
	m, iss := findMarker(rt, parent.field(rt.Name()))
	if len(iss) > 0 {
		return nil, nil, iss
	}
	if m.key != TagGroup {
		return nil, nil, SchemaIssues{parent.field(m.name).issue(CodeDeclarationInvalid, rt.String()+" declares a command where a group is expected")}
	}
	at := parent.field(m.name)
	plan := &groupPlan{typ: rt}
	var subs []*Command
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.Name == "_" || !sf.IsExported() {
			continue
		}
		fat := at.field(sf.Name)
		keys := fieldKeys(sf)
		if len(keys) != 1 || keys[0] != TagSubCommand {
			code := CodeDeclarationInvalid
			if len(keys) == 1 && keys[0] == TagGroup {
				code = CodeNestingTooDeep
			}
			iss = append(iss, fat.issue(code, "a group may only contain fields tagged subcommand"))
			continue
		}
		if sf.Type.Kind() != reflect.Pointer || sf.Type.Elem().Kind() != reflect.Struct {
			iss = append(iss, fat.issue(CodeDeclarationInvalid, "expected a single variant as a pointer to a struct, got "+sf.Type.String()))
			continue
		}
		sub, sp, si := compileCommand(sf.Type.Elem(), at, depth+1)
		if len(si) > 0 {
			iss = append(iss, si...)
			continue
		}
		subs = append(subs, sub)
		plan.subs = append(plan.subs, variantPlan{index: i, name: sub.name, command: sp})
	}
	if len(iss) > 0 {
		return nil, nil, iss
	}
	g, err := NewGroup(m.name, m.description, subs...)
	if err != nil {
		gi, _ := AsSchemaIssues(err)
		return nil, nil, gi.Rebase(parent.String())
	}
	return g, plan, nil
}

func compileOption(sf reflect.StructField, at pointer) (Option, optionPlan, SchemaIssues) {
	tag, iss := parseOptionTag(sf, at)
	if len(iss) > 0 {
		return Option{}, optionPlan{}, iss
	}
	ft := sf.Type
	optional := ft.Kind() == reflect.Pointer
	if optional {
		ft = ft.Elem()
	}
	if !fitsKind(tag.kind, ft) {
		return Option{}, optionPlan{}, SchemaIssues{at.issue(CodeDeclarationInvalid,
			fmt.Sprintf("field type %s cannot hold a %s option", sf.Type, tag.kind))}
	}
	o := Option{Name: tag.name, Description: sf.Tag.Get(TagDescription), Kind: tag.kind, Required: !optional}
	return o, optionPlan{optional: optional, elem: ft}, nil
}

func (p *commandPlan) decode(v *Value, rv reflect.Value, at pointer) error {
	if v.Selected != nil {
		for _, vp := range p.variants {
			if vp.name != v.Selected.Name {
				continue
			}
			return vp.decode(v.Selected, rv, at.field(vp.name))
		}
		return named(CodeUnknownSubCommand, at.String(), v.Selected.Name)
	}
	if len(v.Args) != len(p.options) {
		return fmt.Errorf("cmdskema: value for %s has %d arguments, want %d", at, len(v.Args), len(p.options))
	}
	for i, a := range v.Args {
		if !a.Present {
			continue
		}
		op := p.options[i]
		if err := op.assign(rv.Field(op.index), a, at); err != nil {
			return err
		}
	}
	return nil
}

func (vp variantPlan) decode(v *Value, parent reflect.Value, at pointer) error {
	f := parent.Field(vp.index)
	nv := reflect.New(f.Type().Elem())
	var err error
	if vp.command != nil {
		err = vp.command.decode(v, nv.Elem(), at)
	} else {
		err = vp.group.decode(v, nv.Elem(), at)
	}
	if err != nil {
		return err
	}
	f.Set(nv)
	return nil
}

func (g *groupPlan) decode(v *Value, rv reflect.Value, at pointer) error {
	if v.Selected == nil {
		return named(CodeMissingOption, at.String(), v.Name)
	}
	for _, sp := range g.subs {
		if sp.name == v.Selected.Name {
			return sp.decode(v.Selected, rv, at.field(sp.name))
		}
	}
	return named(CodeUnknownSubCommand, at.String(), v.Selected.Name)
}

// assign stores a parsed argument into its struct field. Integers that
// overflow a narrower field fail with invalid_type.
func (op optionPlan) assign(f reflect.Value, a Arg, at pointer) error {
	dst := f
	if op.optional {
		dst = reflect.New(op.elem).Elem()
	}
	switch x := a.Value.(type) {
	case bool:
		dst.SetBool(x)
	case string:
		dst.SetString(x)
	case int64:
		if dst.OverflowInt(x) {
			return invalidType(at.field(a.Name).String(), a.Kind, "value overflows "+op.elem.String())
		}
		dst.SetInt(x)
	case float64:
		if dst.OverflowFloat(x) {
			return invalidType(at.field(a.Name).String(), a.Kind, "value overflows "+op.elem.String())
		}
		dst.SetFloat(x)
	case Snowflake:
		dst.SetUint(uint64(x))
	default:
		return invalidType(at.field(a.Name).String(), a.Kind, fmt.Sprintf("unexpected value %T", a.Value))
	}
	if op.optional {
		f.Set(dst.Addr())
	}
	return nil
}

func structTypeOf[T any]() (reflect.Type, bool, error) {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	ptr := rt.Kind() == reflect.Pointer
	if ptr {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return nil, false, SchemaIssues{pointer{}.issue(CodeDeclarationInvalid, "Bind[T] requires a struct T, got "+rt.String())}
	}
	return rt, ptr, nil
}

func fromReflect[T any](rv reflect.Value, ptr bool) T {
	if ptr {
		return rv.Interface().(T)
	}
	return rv.Elem().Interface().(T)
}
