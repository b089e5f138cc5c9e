package dsl

import (
	"github.com/reoring/cmdskema"
)

// SetBuilder declares the top-level command set.
type SetBuilder struct {
	commands []*CommandBuilder
}

// Set collects top-level commands.
func Set(commands ...*CommandBuilder) *SetBuilder {
	return &SetBuilder{commands: commands}
}

// Add appends more top-level commands.
func (s *SetBuilder) Add(commands ...*CommandBuilder) *SetBuilder {
	s.commands = append(s.commands, commands...)
	return s
}

// Build compiles every command and reports all issues at once.
func (s *SetBuilder) Build() (*cmdskema.Set, error) {
	var (
		cmds []*cmdskema.Command
		iss  cmdskema.SchemaIssues
	)
	for _, cb := range s.commands {
		if cb == nil {
			iss = append(iss, cmdskema.SchemaIssue{Path: "/", Code: cmdskema.CodeDeclarationInvalid, Message: "nil command"})
			continue
		}
		c, err := cb.Build()
		if err != nil {
			if ci, ok := cmdskema.AsSchemaIssues(err); ok {
				iss = append(iss, ci...)
				continue
			}
			return nil, err
		}
		cmds = append(cmds, c)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return cmdskema.NewSet(cmds...)
}

func (s *SetBuilder) MustBuild() *cmdskema.Set {
	out, err := s.Build()
	if err != nil {
		panic(err)
	}
	return out
}
