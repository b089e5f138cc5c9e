package cmdskema

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/reoring/cmdskema/i18n"
)

var _namePattern = regexp.MustCompile(`^[-_\p{Ll}\p{Lm}\p{Lo}\p{N}]{1,32}$`)

// Option is a typed leaf argument of a command.
type Option struct {
	Name        string
	Description string
	Kind        OptionType
	Required    bool
}

// Child is a node selectable under a container command: a sub-command
// (*Command) or a sub-command group (*Group).
type Child interface {
	Name() string
	Description() string
	isChild()
}

// Command is a compiled command node. A command is either a leaf, holding
// options, or a container, holding sub-commands and groups. Commands are
// immutable once constructed and safe for concurrent use.
type Command struct {
	name        string
	description string
	options     []Option
	children    []Child
	container   bool
}

var _ Child = (*Command)(nil)

// Group is a compiled sub-command group. It holds leaf commands only.
type Group struct {
	name        string
	description string
	subcommands []*Command
}

var _ Child = (*Group)(nil)

// NewCommand compiles a leaf command. Options keep their declared order.
func NewCommand(name, description string, options ...Option) (*Command, error) {
	description = strings.TrimSpace(description)
	at := pointer{}.field(name)
	iss := checkHeader(at, name, description)
	if len(options) > MaxChildren {
		iss = append(iss, at.issue(CodeTooManyChildren, i18n.T(CodeTooManyChildren, nil)))
	}
	seen := make(map[string]struct{}, len(options))
	opts := make([]Option, len(options))
	for i, o := range options {
		o.Description = strings.TrimSpace(o.Description)
		oat := at.field("options").field(o.Name)
		if o.Name == "" {
			oat = at.field("options").field(strconv.Itoa(i))
		}
		iss = append(iss, checkHeader(oat, o.Name, o.Description)...)
		if !o.Kind.IsLeaf() {
			iss = append(iss, oat.issue(CodeKindInvalid, i18n.T(CodeKindInvalid, nil)+": "+o.Kind.String()))
		}
		if _, dup := seen[o.Name]; dup {
			iss = append(iss, duplicate(oat, o.Name))
		}
		seen[o.Name] = struct{}{}
		opts[i] = o
	}
	if err := iss.err(); err != nil {
		return nil, err
	}
	return &Command{name: name, description: description, options: opts}, nil
}

// NewContainer compiles a command whose body is an ordered set of
// sub-commands and groups. Sub-commands must be leaves.
func NewContainer(name, description string, children ...Child) (*Command, error) {
	description = strings.TrimSpace(description)
	at := pointer{}.field(name)
	iss := checkHeader(at, name, description)
	if len(children) == 0 {
		iss = append(iss, at.issue(CodeDeclarationInvalid, declarationInvalid("a container command needs at least one sub-command or group")))
	}
	if len(children) > MaxChildren {
		iss = append(iss, at.issue(CodeTooManyChildren, i18n.T(CodeTooManyChildren, nil)))
	}
	seen := make(map[string]struct{}, len(children))
	kids := make([]Child, 0, len(children))
	for i, c := range children {
		if isNilChild(c) {
			iss = append(iss, at.field(strconv.Itoa(i)).issue(CodeDeclarationInvalid, declarationInvalid("nil sub-command")))
			continue
		}
		cat := at.field(c.Name())
		if sub, ok := c.(*Command); ok && sub.container {
			iss = append(iss, cat.issue(CodeNestingTooDeep, i18n.T(CodeNestingTooDeep, nil)))
		}
		if _, dup := seen[c.Name()]; dup {
			iss = append(iss, duplicate(cat, c.Name()))
		}
		seen[c.Name()] = struct{}{}
		kids = append(kids, c)
	}
	if err := iss.err(); err != nil {
		return nil, err
	}
	return &Command{name: name, description: description, children: kids, container: true}, nil
}

// NewGroup compiles a sub-command group. A group cannot hold another group.
func NewGroup(name, description string, subcommands ...*Command) (*Group, error) {
	description = strings.TrimSpace(description)
	at := pointer{}.field(name)
	iss := checkHeader(at, name, description)
	if len(subcommands) == 0 {
		iss = append(iss, at.issue(CodeDeclarationInvalid, declarationInvalid("a group needs at least one sub-command")))
	}
	if len(subcommands) > MaxChildren {
		iss = append(iss, at.issue(CodeTooManyChildren, i18n.T(CodeTooManyChildren, nil)))
	}
	seen := make(map[string]struct{}, len(subcommands))
	subs := make([]*Command, 0, len(subcommands))
	for i, c := range subcommands {
		if c == nil {
			iss = append(iss, at.field(strconv.Itoa(i)).issue(CodeDeclarationInvalid, declarationInvalid("nil sub-command")))
			continue
		}
		cat := at.field(c.name)
		if c.container {
			iss = append(iss, cat.issue(CodeNestingTooDeep, i18n.T(CodeNestingTooDeep, nil)))
		}
		if _, dup := seen[c.name]; dup {
			iss = append(iss, duplicate(cat, c.name))
		}
		seen[c.name] = struct{}{}
		subs = append(subs, c)
	}
	if err := iss.err(); err != nil {
		return nil, err
	}
	return &Group{name: name, description: description, subcommands: subs}, nil
}

func checkHeader(at pointer, name, description string) SchemaIssues {
	var iss SchemaIssues
	if !_namePattern.MatchString(name) {
		iss = append(iss, at.issue(CodeNameInvalid, i18n.T(CodeNameInvalid, nil)))
	}
	if n := utf8.RuneCountInString(description); n == 0 || n > MaxDescriptionLength {
		iss = append(iss, at.issue(CodeDescriptionInvalid, i18n.T(CodeDescriptionInvalid, nil)))
	}
	return iss
}

func duplicate(at pointer, name string) SchemaIssue {
	return at.issue(CodeNameDuplicate, i18n.T(CodeNameDuplicate, map[string]string{"name": name}))
}

func isNilChild(c Child) bool {
	switch v := c.(type) {
	case nil:
		return true
	case *Command:
		return v == nil
	case *Group:
		return v == nil
	}
	return false
}

func (c *Command) Name() string        { return c.name }
func (c *Command) Description() string { return c.description }
func (c *Command) isChild()            {}

// IsContainer reports whether the command body is sub-commands and groups
// rather than options.
func (c *Command) IsContainer() bool { return c.container }

// Options returns a copy of the declared options in declaration order.
func (c *Command) Options() []Option { return append([]Option(nil), c.options...) }

// Children returns a copy of the declared sub-commands and groups.
func (c *Command) Children() []Child { return append([]Child(nil), c.children...) }

// Option looks up a declared option by name.
func (c *Command) Option(name string) (Option, bool) {
	for _, o := range c.options {
		if o.Name == name {
			return o, true
		}
	}
	return Option{}, false
}

// Child looks up a declared sub-command or group by name.
func (c *Command) Child(name string) (Child, bool) {
	for _, ch := range c.children {
		if ch.Name() == name {
			return ch, true
		}
	}
	return nil, false
}

func (g *Group) Name() string        { return g.name }
func (g *Group) Description() string { return g.description }
func (g *Group) isChild()            {}

// SubCommands returns a copy of the group's sub-commands.
func (g *Group) SubCommands() []*Command { return append([]*Command(nil), g.subcommands...) }

// SubCommand looks up a sub-command by name.
func (g *Group) SubCommand(name string) (*Command, bool) {
	for _, c := range g.subcommands {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

// Set is the top-level command surface registered with the platform.
type Set struct {
	commands []*Command
}

// NewSet compiles a command set. Top-level names must be unique.
func NewSet(commands ...*Command) (*Set, error) {
	var iss SchemaIssues
	seen := make(map[string]struct{}, len(commands))
	cmds := make([]*Command, 0, len(commands))
	for i, c := range commands {
		if c == nil {
			iss = append(iss, pointer{}.field(strconv.Itoa(i)).issue(CodeDeclarationInvalid, declarationInvalid("nil command")))
			continue
		}
		if _, dup := seen[c.name]; dup {
			iss = append(iss, duplicate(pointer{}.field(c.name), c.name))
		}
		seen[c.name] = struct{}{}
		cmds = append(cmds, c)
	}
	if err := iss.err(); err != nil {
		return nil, err
	}
	return &Set{commands: cmds}, nil
}

// Commands returns a copy of the top-level commands in declaration order.
func (s *Set) Commands() []*Command { return append([]*Command(nil), s.commands...) }

// Lookup finds a top-level command by name.
func (s *Set) Lookup(name string) (*Command, bool) {
	for _, c := range s.commands {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

// Rebase prefixes every issue path, used when a child declaration is
// reported in the context of its parent.
func (iss SchemaIssues) Rebase(prefix string) SchemaIssues {
	if prefix == "" || prefix == "/" {
		return iss
	}
	prefix = strings.TrimSuffix(prefix, "/")
	out := make(SchemaIssues, len(iss))
	for i, it := range iss {
		p := it.Path
		switch {
		case p == "" || p == "/":
			p = prefix
		case p[0] == '/':
			p = prefix + p
		default:
			p = prefix + "/" + p
		}
		it.Path = p
		out[i] = it
	}
	return out
}

func declarationInvalid(detail string) string {
	return i18n.T(CodeDeclarationInvalid, nil) + ": " + detail
}
