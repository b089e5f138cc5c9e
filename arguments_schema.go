package cmdskema

import (
	"fmt"

	js "github.com/reoring/cmdskema/jsonschema"
)

// ArgumentsSchema projects the argument surface of a command to JSON Schema.
// A leaf becomes an object with one property per option; a container becomes
// a oneOf over its children, each an object holding a single property named
// after the child.
func (c *Command) ArgumentsSchema() (*js.Schema, error) {
	s, err := c.argumentsSchema()
	if err != nil {
		return nil, err
	}
	s.Schema = js.Draft
	s.Title = c.name
	return s, nil
}

func (c *Command) argumentsSchema() (*js.Schema, error) {
	if !c.container {
		props := make(map[string]*js.Schema, len(c.options))
		var req []string
		for _, o := range c.options {
			p, err := kindSchema(o.Kind)
			if err != nil {
				return nil, err
			}
			p.Description = o.Description
			props[o.Name] = p
			if o.Required {
				req = append(req, o.Name)
			}
		}
		out := js.Object(props, req)
		out.Description = c.description
		return out, nil
	}
	out := &js.Schema{Description: c.description}
	for _, ch := range c.children {
		var (
			inner *js.Schema
			err   error
		)
		switch n := ch.(type) {
		case *Command:
			inner, err = n.argumentsSchema()
		case *Group:
			inner, err = n.argumentsSchema()
		}
		if err != nil {
			return nil, err
		}
		out.OneOf = append(out.OneOf, js.Object(map[string]*js.Schema{ch.Name(): inner}, []string{ch.Name()}))
	}
	return out, nil
}

func (g *Group) argumentsSchema() (*js.Schema, error) {
	out := &js.Schema{Description: g.description}
	for _, sc := range g.subcommands {
		inner, err := sc.argumentsSchema()
		if err != nil {
			return nil, err
		}
		out.OneOf = append(out.OneOf, js.Object(map[string]*js.Schema{sc.name: inner}, []string{sc.name}))
	}
	return out, nil
}

func kindSchema(k OptionType) (*js.Schema, error) {
	switch k {
	case TypeBoolean:
		return &js.Schema{Type: "boolean"}, nil
	case TypeString:
		return &js.Schema{Type: "string"}, nil
	case TypeInteger:
		return &js.Schema{Type: "integer"}, nil
	case TypeNumber:
		return &js.Schema{Type: "number"}, nil
	case TypeUser, TypeChannel, TypeRole, TypeMention:
		return &js.Schema{Type: "string", Format: "snowflake", Pattern: `^[0-9]+$`}, nil
	}
	return nil, fmt.Errorf("cmdskema: no JSON Schema for option kind %s", k)
}
