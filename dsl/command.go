package dsl

import (
	"strings"

	"github.com/reoring/cmdskema"
)

// CommandBuilder declares a command. See Command.
type CommandBuilder struct {
	name        string
	description string
	options     []cmdskema.Option
	children    []childBuilder
	misuse      []string // modifier calls with no option to apply to
}

// childBuilder is a sub-command or group builder attached to a container.
type childBuilder interface {
	buildChild() (cmdskema.Child, error)
}

// Command creates a new command builder. Whether it becomes a leaf or a
// container depends on whether options or children are added.
func Command(name, description string) *CommandBuilder {
	return &CommandBuilder{name: name, description: description}
}

// Option declares an option of the given kind. Options are optional unless
// Required follows the declaration.
func (b *CommandBuilder) Option(name, description string, kind cmdskema.OptionType) *CommandBuilder {
	b.options = append(b.options, cmdskema.Option{Name: name, Description: description, Kind: kind})
	return b
}

func (b *CommandBuilder) String(name, description string) *CommandBuilder {
	return b.Option(name, description, cmdskema.TypeString)
}

func (b *CommandBuilder) Integer(name, description string) *CommandBuilder {
	return b.Option(name, description, cmdskema.TypeInteger)
}

func (b *CommandBuilder) Boolean(name, description string) *CommandBuilder {
	return b.Option(name, description, cmdskema.TypeBoolean)
}

func (b *CommandBuilder) Number(name, description string) *CommandBuilder {
	return b.Option(name, description, cmdskema.TypeNumber)
}

func (b *CommandBuilder) User(name, description string) *CommandBuilder {
	return b.Option(name, description, cmdskema.TypeUser)
}

func (b *CommandBuilder) Channel(name, description string) *CommandBuilder {
	return b.Option(name, description, cmdskema.TypeChannel)
}

func (b *CommandBuilder) Role(name, description string) *CommandBuilder {
	return b.Option(name, description, cmdskema.TypeRole)
}

func (b *CommandBuilder) Mention(name, description string) *CommandBuilder {
	return b.Option(name, description, cmdskema.TypeMention)
}

// Required marks the most recently declared option as required.
func (b *CommandBuilder) Required() *CommandBuilder { return b.setRequired("Required", true) }

// Optional marks the most recently declared option as optional (default).
func (b *CommandBuilder) Optional() *CommandBuilder { return b.setRequired("Optional", false) }

func (b *CommandBuilder) setRequired(call string, v bool) *CommandBuilder {
	if len(b.options) == 0 {
		b.misuse = append(b.misuse, call)
		return b
	}
	b.options[len(b.options)-1].Required = v
	return b
}

// Subcommand attaches sub-commands, turning the command into a container.
func (b *CommandBuilder) Subcommand(subs ...*CommandBuilder) *CommandBuilder {
	for _, s := range subs {
		if s == nil {
			b.children = append(b.children, nil)
			continue
		}
		b.children = append(b.children, s)
	}
	return b
}

// Group attaches sub-command groups, turning the command into a container.
func (b *CommandBuilder) Group(groups ...*GroupBuilder) *CommandBuilder {
	for _, g := range groups {
		if g == nil {
			b.children = append(b.children, nil)
			continue
		}
		b.children = append(b.children, g)
	}
	return b
}

// Build compiles the command. Issues from nested builders are reported with
// paths rooted at this command.
func (b *CommandBuilder) Build() (*cmdskema.Command, error) {
	if len(b.misuse) > 0 {
		return nil, cmdskema.SchemaIssues{{
			Path:    pathOf(b.name),
			Code:    cmdskema.CodeDeclarationInvalid,
			Message: b.misuse[0] + " called before any option was declared",
		}}
	}
	if len(b.options) > 0 && len(b.children) > 0 {
		return nil, cmdskema.SchemaIssues{{
			Path:    pathOf(b.name),
			Code:    cmdskema.CodeMixedBody,
			Message: "a command holds either options or sub-commands, not both",
		}}
	}
	if len(b.children) == 0 {
		return cmdskema.NewCommand(b.name, b.description, b.options...)
	}
	kids, iss := buildChildren(b.name, b.children)
	if len(iss) > 0 {
		return nil, iss
	}
	return cmdskema.NewContainer(b.name, b.description, kids...)
}

// MustBuild is like Build but panics on error.
func (b *CommandBuilder) MustBuild() *cmdskema.Command {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}

func (b *CommandBuilder) buildChild() (cmdskema.Child, error) { return b.Build() }

func buildChildren(parent string, builders []childBuilder) ([]cmdskema.Child, cmdskema.SchemaIssues) {
	var (
		kids []cmdskema.Child
		iss  cmdskema.SchemaIssues
	)
	for _, cb := range builders {
		if cb == nil {
			iss = append(iss, cmdskema.SchemaIssue{Path: pathOf(parent), Code: cmdskema.CodeDeclarationInvalid, Message: "nil sub-command"})
			continue
		}
		ch, err := cb.buildChild()
		if err != nil {
			iss = append(iss, rebase(err, parent)...)
			continue
		}
		kids = append(kids, ch)
	}
	return kids, iss
}

// rebase reports nested issues under the parent's path.
func rebase(err error, parent string) cmdskema.SchemaIssues {
	if ci, ok := cmdskema.AsSchemaIssues(err); ok {
		return ci.Rebase(pathOf(parent))
	}
	return cmdskema.SchemaIssues{{Path: pathOf(parent), Code: cmdskema.CodeDeclarationInvalid, Message: err.Error()}}
}

var _escape = strings.NewReplacer("~", "~0", "/", "~1")

func pathOf(name string) string { return "/" + _escape.Replace(name) }
