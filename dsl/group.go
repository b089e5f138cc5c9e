package dsl

import (
	"github.com/reoring/cmdskema"
)

// GroupBuilder declares a sub-command group.
type GroupBuilder struct {
	name        string
	description string
	subs        []*CommandBuilder
}

// Group creates a sub-command group builder.
func Group(name, description string) *GroupBuilder {
	return &GroupBuilder{name: name, description: description}
}

// Subcommand adds leaf sub-commands to the group.
func (g *GroupBuilder) Subcommand(subs ...*CommandBuilder) *GroupBuilder {
	g.subs = append(g.subs, subs...)
	return g
}

func (g *GroupBuilder) Build() (*cmdskema.Group, error) {
	var (
		cmds []*cmdskema.Command
		iss  cmdskema.SchemaIssues
	)
	for _, sb := range g.subs {
		if sb == nil {
			iss = append(iss, cmdskema.SchemaIssue{Path: pathOf(g.name), Code: cmdskema.CodeDeclarationInvalid, Message: "nil sub-command"})
			continue
		}
		c, err := sb.Build()
		if err != nil {
			iss = append(iss, rebase(err, g.name)...)
			continue
		}
		cmds = append(cmds, c)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return cmdskema.NewGroup(g.name, g.description, cmds...)
}

func (g *GroupBuilder) MustBuild() *cmdskema.Group {
	out, err := g.Build()
	if err != nil {
		panic(err)
	}
	return out
}

func (g *GroupBuilder) buildChild() (cmdskema.Child, error) { return g.Build() }
