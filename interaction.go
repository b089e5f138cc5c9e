package cmdskema

import (
	"bytes"
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"
)

// Interaction is the untyped payload received when a user invokes a command.
// Options mirror the schema shape: a container receives exactly one entry
// naming the selected sub-command or group, a leaf receives named values.
type Interaction struct {
	ID      string              `json:"id,omitempty"`
	Name    string              `json:"name"`
	Options []InteractionOption `json:"options,omitempty"`
}

// InteractionOption is one node of the payload tree.
type InteractionOption struct {
	Name    string              `json:"name"`
	Type    OptionType          `json:"type,omitempty"`
	Value   any                 `json:"value,omitempty"`
	Options []InteractionOption `json:"options,omitempty"`
}

type interactionOptionWire struct {
	Name    string              `json:"name"`
	Type    *OptionType         `json:"type,omitempty"`
	Value   any                 `json:"value,omitempty"`
	Options []InteractionOption `json:"options,omitempty"`
}

// MarshalJSON omits an unset Type.
func (o InteractionOption) MarshalJSON() ([]byte, error) {
	w := interactionOptionWire{Name: o.Name, Value: o.Value, Options: o.Options}
	if o.Type != 0 {
		t := o.Type
		w.Type = &t
	}
	return json.Marshal(w)
}

// Argument is a leaf value in the flat payload form.
type Argument struct {
	Name  string     `json:"name"`
	Kind  OptionType `json:"kind"`
	Value any        `json:"value"`
}

// FlatInteraction is the payload form that names the resolved command path
// explicitly instead of nesting it.
type FlatInteraction struct {
	ID           string     `json:"id,omitempty"`
	CommandName  string     `json:"command_name"`
	ResolvedPath []string   `json:"resolved_path,omitempty"`
	Arguments    []Argument `json:"arguments,omitempty"`
}

// Tree converts the flat form to the nested one. With one path element it is
// the selected sub-command; with two, a group followed by its sub-command.
// Longer paths keep nesting sub-commands so that the parser reports the
// first undeclared name instead of silently dropping it.
func (f FlatInteraction) Tree() *Interaction {
	args := make([]InteractionOption, len(f.Arguments))
	for i, a := range f.Arguments {
		args[i] = InteractionOption{Name: a.Name, Type: a.Kind, Value: a.Value}
	}
	in := &Interaction{ID: f.ID, Name: f.CommandName, Options: args}
	for i := len(f.ResolvedPath) - 1; i >= 0; i-- {
		t := TypeSubCommand
		if i == 0 && len(f.ResolvedPath) > 1 {
			t = TypeSubCommandGroup
		}
		in.Options = []InteractionOption{{Name: f.ResolvedPath[i], Type: t, Options: in.Options}}
	}
	return in
}

// NewInteraction builds a tree payload from a command name, the resolved
// sub-command path and the leaf arguments.
func NewInteraction(command string, path []string, args ...Argument) *Interaction {
	return FlatInteraction{CommandName: command, ResolvedPath: path, Arguments: args}.Tree()
}

type interactionWire struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Options      []InteractionOption `json:"options"`
	CommandName  string              `json:"command_name"`
	ResolvedPath []string            `json:"resolved_path"`
	Arguments    []Argument          `json:"arguments"`
}

// DecodeInteraction decodes a JSON payload in either the tree form
// ({name, options}) or the flat form ({command_name, resolved_path,
// arguments}). Numbers are kept as json.Number so integers keep precision.
func DecodeInteraction(data []byte) (*Interaction, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var w interactionWire
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("cmdskema: decode interaction: %w", err)
	}
	if w.CommandName != "" {
		if w.Name != "" || len(w.Options) > 0 {
			return nil, fmt.Errorf("cmdskema: decode interaction: mixed tree and flat payload forms")
		}
		return FlatInteraction{ID: w.ID, CommandName: w.CommandName, ResolvedPath: w.ResolvedPath, Arguments: w.Arguments}.Tree(), nil
	}
	if w.Name == "" {
		return nil, fmt.Errorf("cmdskema: decode interaction: missing command name")
	}
	return &Interaction{ID: w.ID, Name: w.Name, Options: w.Options}, nil
}

// Snowflake is a platform entity ID (user, channel, role or mentionable).
// It is encoded as a decimal string in JSON.
type Snowflake uint64

func (s Snowflake) String() string { return strconv.FormatUint(uint64(s), 10) }

func (s Snowflake) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(s.String())), nil
}

func (s *Snowflake) UnmarshalJSON(b []byte) error {
	str := string(b)
	if len(b) > 0 && b[0] == '"' {
		var err error
		if str, err = strconv.Unquote(str); err != nil {
			return fmt.Errorf("cmdskema: invalid snowflake %s", b)
		}
	}
	n, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return fmt.Errorf("cmdskema: invalid snowflake %s", b)
	}
	*s = Snowflake(n)
	return nil
}

// ParseSnowflake parses a decimal entity ID.
func ParseSnowflake(s string) (Snowflake, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("cmdskema: invalid snowflake %q", s)
	}
	return Snowflake(n), nil
}
