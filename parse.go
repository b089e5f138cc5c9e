package cmdskema

import (
	"math"
	"strconv"
	"strings"
)

// Parse resolves the invoked top-level command and parses the payload
// against it. An unregistered command name fails with unknown_command.
//
// Parse never mutates the set; any number of parses may run concurrently.
func (s *Set) Parse(in *Interaction) (*Value, error) {
	c, ok := s.Lookup(in.Name)
	if !ok {
		return nil, named(CodeUnknownCommand, "/", in.Name)
	}
	return c.parse(EntryCommand, in.Options, pointer{}.field(c.name))
}

// Parse parses a payload addressed to this command.
func (c *Command) Parse(in *Interaction) (*Value, error) {
	if in.Name != c.name {
		return nil, named(CodeUnknownCommand, "/", in.Name)
	}
	return c.parse(EntryCommand, in.Options, pointer{}.field(c.name))
}

func (c *Command) parse(t EntryType, opts []InteractionOption, at pointer) (*Value, error) {
	if c.container {
		return c.parseContainer(t, opts, at)
	}
	return c.parseLeaf(t, opts, at)
}

// parseContainer follows the single selected entry. The platform always
// selects one; an empty selection only comes from a malformed payload.
func (c *Command) parseContainer(t EntryType, opts []InteractionOption, at pointer) (*Value, error) {
	if len(opts) == 0 {
		names := make([]string, len(c.children))
		for i, ch := range c.children {
			names[i] = ch.Name()
		}
		return nil, noSelection(at, c.name, names)
	}
	sel := opts[0]
	ch, ok := c.Child(sel.Name)
	if !ok {
		if sel.Type == TypeSubCommandGroup {
			return nil, named(CodeUnknownSubCommandGroup, at.String(), sel.Name)
		}
		return nil, named(CodeUnknownSubCommand, at.String(), sel.Name)
	}
	var (
		v   *Value
		err error
	)
	switch n := ch.(type) {
	case *Command:
		v, err = n.parseLeaf(EntrySubCommand, sel.Options, at.field(n.name))
	case *Group:
		v, err = n.parse(sel.Options, at.field(n.name))
	}
	if err != nil {
		return nil, err
	}
	return &Value{Name: c.name, Type: t, Selected: v}, nil
}

func (g *Group) parse(opts []InteractionOption, at pointer) (*Value, error) {
	if len(opts) == 0 {
		names := make([]string, len(g.subcommands))
		for i, sc := range g.subcommands {
			names[i] = sc.name
		}
		return nil, noSelection(at, g.name, names)
	}
	sel := opts[0]
	sc, ok := g.SubCommand(sel.Name)
	if !ok {
		return nil, named(CodeUnknownSubCommand, at.String(), sel.Name)
	}
	v, err := sc.parseLeaf(EntrySubCommand, sel.Options, at.field(sc.name))
	if err != nil {
		return nil, err
	}
	return &Value{Name: g.name, Type: EntrySubCommandGroup, Selected: v}, nil
}

func noSelection(at pointer, name string, choices []string) *ParseError {
	pe := named(CodeMissingOption, at.String(), name)
	pe.Hint = "expected one of: " + strings.Join(choices, ", ")
	return pe
}

func (c *Command) parseLeaf(t EntryType, opts []InteractionOption, at pointer) (*Value, error) {
	args := make([]Arg, len(c.options))
	for i, o := range c.options {
		args[i] = Arg{Name: o.Name, Kind: o.Kind}
	}
	// Unknown names win over every other failure in the same payload.
	idx := make([]int, len(opts))
	for j, in := range opts {
		if idx[j] = c.optionIndex(in.Name); idx[j] < 0 {
			return nil, unknownEntry(at, in)
		}
	}
	for j, in := range opts {
		i := idx[j]
		decl := c.options[i]
		// An unresolved value leaves the option absent whatever its tag.
		if in.Value == nil {
			continue
		}
		if in.Type != decl.Kind {
			return nil, invalidType(at.field(decl.Name).String(), decl.Kind, "got "+in.Type.String())
		}
		v, ok := convert(decl.Kind, in.Value)
		if !ok {
			return nil, invalidType(at.field(decl.Name).String(), decl.Kind, "value does not fit the declared kind")
		}
		args[i].Value = v
		args[i].Present = true
	}
	for i, o := range c.options {
		if o.Required && !args[i].Present {
			return nil, named(CodeMissingOption, at.String(), o.Name)
		}
	}
	return &Value{Name: c.name, Type: t, Args: args}, nil
}

// unknownEntry names an unmatched leaf entry by its tag: a selection that
// reaches a leaf is an undeclared sub-command or group, anything else an
// undeclared option.
func unknownEntry(at pointer, in InteractionOption) *ParseError {
	switch in.Type {
	case TypeSubCommand:
		return named(CodeUnknownSubCommand, at.String(), in.Name)
	case TypeSubCommandGroup:
		return named(CodeUnknownSubCommandGroup, at.String(), in.Name)
	}
	return named(CodeUnknownOption, at.String(), in.Name)
}

func (c *Command) optionIndex(name string) int {
	for i, o := range c.options {
		if o.Name == name {
			return i
		}
	}
	return -1
}

// numberLike matches json.Number from either JSON implementation.
type numberLike interface {
	String() string
	Int64() (int64, error)
	Float64() (float64, error)
}

const _maxSafeInteger = 1<<53 - 1

// convert interprets a raw payload value as the declared kind.
func convert(kind OptionType, raw any) (any, bool) {
	switch kind {
	case TypeBoolean:
		b, ok := raw.(bool)
		return b, ok
	case TypeString:
		s, ok := raw.(string)
		return s, ok
	case TypeInteger:
		return toInt64(raw)
	case TypeNumber:
		return toFloat64(raw)
	case TypeUser, TypeChannel, TypeRole, TypeMention:
		return toSnowflake(raw)
	}
	return nil, false
}

func toInt64(raw any) (any, bool) {
	switch n := raw.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), uint64(n) <= math.MaxInt64
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), n <= math.MaxInt64
	case float64:
		if n != math.Trunc(n) || math.Abs(n) > _maxSafeInteger {
			return nil, false
		}
		return int64(n), true
	case numberLike:
		i, err := n.Int64()
		return i, err == nil
	}
	return nil, false
}

func toFloat64(raw any) (any, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case numberLike:
		f, err := n.Float64()
		return f, err == nil
	}
	return nil, false
}

func toSnowflake(raw any) (any, bool) {
	switch n := raw.(type) {
	case Snowflake:
		return n, true
	case uint64:
		return Snowflake(n), true
	case int64:
		return Snowflake(n), n >= 0
	case int:
		return Snowflake(n), n >= 0
	case float64:
		if n < 0 || n != math.Trunc(n) || n > _maxSafeInteger {
			return nil, false
		}
		return Snowflake(n), true
	case string:
		u, err := strconv.ParseUint(n, 10, 64)
		return Snowflake(u), err == nil
	case numberLike:
		u, err := strconv.ParseUint(n.String(), 10, 64)
		return Snowflake(u), err == nil
	}
	return nil, false
}
