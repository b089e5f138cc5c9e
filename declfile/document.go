// Package declfile loads command declarations from YAML or JSON documents
// and keeps a compiled set current as the file changes.
package declfile

import (
	"strconv"
	"strings"

	"github.com/reoring/cmdskema"
	"github.com/reoring/cmdskema/dsl"
)

// Document is the root of a declaration file.
//
//	commands:
//	  - name: ping
//	    description: Ping the bot
//	    options:
//	      - field: n
//	        description: How many times
//	        kind: integer
//	        required: true
type Document struct {
	Commands []CommandDecl `yaml:"commands" json:"commands"`
}

// CommandDecl declares a command. It holds options or children, never both.
type CommandDecl struct {
	Name        string       `yaml:"name" json:"name"`
	Description string       `yaml:"description" json:"description"`
	Options     []OptionDecl `yaml:"options,omitempty" json:"options,omitempty"`
	Children    []ChildDecl  `yaml:"children,omitempty" json:"children,omitempty"`
}

// OptionDecl declares one option. Name defaults to Field.
type OptionDecl struct {
	Field       string `yaml:"field" json:"field"`
	Name        string `yaml:"name,omitempty" json:"name,omitempty"`
	Description string `yaml:"description" json:"description"`
	Kind        string `yaml:"kind" json:"kind"`
	Required    bool   `yaml:"required,omitempty" json:"required,omitempty"`
}

// ChildDecl is one variant of a container. Exactly one of SubCommand and
// Group must be set.
type ChildDecl struct {
	Variant    string       `yaml:"variant,omitempty" json:"variant,omitempty"`
	SubCommand *CommandDecl `yaml:"subcommand,omitempty" json:"subcommand,omitempty"`
	Group      *GroupDecl   `yaml:"group,omitempty" json:"group,omitempty"`
}

// GroupDecl declares a sub-command group.
type GroupDecl struct {
	Name        string        `yaml:"name" json:"name"`
	Description string        `yaml:"description" json:"description"`
	SubCommands []CommandDecl `yaml:"subcommands" json:"subcommands"`
}

// Compile turns the document into a command set.
func (d *Document) Compile() (*cmdskema.Set, error) {
	var (
		builders []*dsl.CommandBuilder
		iss      cmdskema.SchemaIssues
	)
	for i := range d.Commands {
		b, ci := d.Commands[i].builder("/commands/" + strconv.Itoa(i))
		iss = append(iss, ci...)
		builders = append(builders, b)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return dsl.Set(builders...).Build()
}

func (c *CommandDecl) builder(at string) (*dsl.CommandBuilder, cmdskema.SchemaIssues) {
	var iss cmdskema.SchemaIssues
	b := dsl.Command(c.Name, c.Description)
	for i, o := range c.Options {
		oat := at + "/options/" + strconv.Itoa(i)
		kind, err := cmdskema.ParseOptionType(strings.TrimSpace(o.Kind))
		if err != nil || !kind.IsLeaf() {
			iss = append(iss, issue(oat+"/kind", cmdskema.CodeKindInvalid, "unknown option kind "+strconv.Quote(o.Kind)))
			continue
		}
		name := o.Name
		if name == "" {
			name = o.Field
		}
		b.Option(name, o.Description, kind)
		if o.Required {
			b.Required()
		}
	}
	for i, ch := range c.Children {
		cat := at + "/children/" + strconv.Itoa(i)
		switch {
		case ch.SubCommand != nil && ch.Group != nil, ch.SubCommand == nil && ch.Group == nil:
			iss = append(iss, issue(cat, cmdskema.CodeDeclarationInvalid, "a child wraps exactly one of subcommand or group"))
		case ch.SubCommand != nil:
			sb, si := ch.SubCommand.builder(cat + "/subcommand")
			iss = append(iss, si...)
			b.Subcommand(sb)
		default:
			gb, gi := ch.Group.builder(cat + "/group")
			iss = append(iss, gi...)
			b.Group(gb)
		}
	}
	return b, iss
}

func (g *GroupDecl) builder(at string) (*dsl.GroupBuilder, cmdskema.SchemaIssues) {
	var iss cmdskema.SchemaIssues
	gb := dsl.Group(g.Name, g.Description)
	for i := range g.SubCommands {
		sc := &g.SubCommands[i]
		if len(sc.Children) > 0 {
			iss = append(iss, issue(at+"/subcommands/"+strconv.Itoa(i), cmdskema.CodeNestingTooDeep, "a group may only contain sub-commands with options"))
			continue
		}
		sb, si := sc.builder(at + "/subcommands/" + strconv.Itoa(i))
		iss = append(iss, si...)
		gb.Subcommand(sb)
	}
	return gb, iss
}

func issue(path, code, msg string) cmdskema.SchemaIssue {
	return cmdskema.SchemaIssue{Path: path, Code: code, Message: msg}
}
