package cmdskema

import (
	json "github.com/goccy/go-json"
)

// Descriptor is the registration structure describing a command surface to
// the platform. It mirrors the schema tree exactly: same names, same
// descriptions, same order.
type Descriptor struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Type        EntryType    `json:"type"`
	Kind        OptionType   `json:"option_kind,omitempty"`
	Required    bool         `json:"required,omitempty"`
	Entries     []Descriptor `json:"entries,omitempty"`
}

// PlatformType returns the platform's numeric option type for this entry.
// Top-level commands have none and return 0.
func (d Descriptor) PlatformType() OptionType {
	switch d.Type {
	case EntrySubCommand:
		return TypeSubCommand
	case EntrySubCommandGroup:
		return TypeSubCommandGroup
	case EntryOption:
		return d.Kind
	default:
		return 0
	}
}

// Descriptor builds the registration descriptor of a top-level command.
// It is pure: repeated calls return equal values.
func (c *Command) Descriptor() Descriptor { return c.describe(EntryCommand) }

// Descriptors builds one descriptor per top-level command, in order.
func (s *Set) Descriptors() []Descriptor {
	out := make([]Descriptor, len(s.commands))
	for i, c := range s.commands {
		out[i] = c.Descriptor()
	}
	return out
}

func (c *Command) describe(t EntryType) Descriptor {
	d := Descriptor{Name: c.name, Description: c.description, Type: t}
	if c.container {
		d.Entries = make([]Descriptor, 0, len(c.children))
		for _, ch := range c.children {
			d.Entries = append(d.Entries, describeChild(ch))
		}
		return d
	}
	if len(c.options) > 0 {
		d.Entries = make([]Descriptor, len(c.options))
		for i, o := range c.options {
			d.Entries[i] = Descriptor{Name: o.Name, Description: o.Description, Type: EntryOption, Kind: o.Kind, Required: o.Required}
		}
	}
	return d
}

func describeChild(ch Child) Descriptor {
	switch n := ch.(type) {
	case *Command:
		return n.describe(EntrySubCommand)
	case *Group:
		d := Descriptor{Name: n.name, Description: n.description, Type: EntrySubCommandGroup}
		d.Entries = make([]Descriptor, len(n.subcommands))
		for i, sc := range n.subcommands {
			d.Entries[i] = sc.describe(EntrySubCommand)
		}
		return d
	default:
		panic("cmdskema: unknown child node")
	}
}

type descriptorWire struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Type        EntryType    `json:"type"`
	Kind        *OptionType  `json:"option_kind,omitempty"`
	Required    bool         `json:"required,omitempty"`
	Entries     []Descriptor `json:"entries,omitempty"`
}

// MarshalJSON omits option_kind on command and group entries, whose Kind
// is zero.
func (d Descriptor) MarshalJSON() ([]byte, error) {
	w := descriptorWire{Name: d.Name, Description: d.Description, Type: d.Type, Required: d.Required, Entries: d.Entries}
	if d.Kind != 0 {
		k := d.Kind
		w.Kind = &k
	}
	return json.Marshal(w)
}

// MarshalDescriptors encodes descriptors as JSON. Output is deterministic.
func MarshalDescriptors(ds []Descriptor) ([]byte, error) {
	return json.Marshal(ds)
}

// MarshalDescriptorsIndent is like MarshalDescriptors with indentation.
func MarshalDescriptorsIndent(ds []Descriptor, indent string) ([]byte, error) {
	return json.MarshalIndent(ds, "", indent)
}
