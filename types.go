package cmdskema

import (
	"fmt"
	"strconv"
)

// Platform limits shared by every declaration source.
const (
	MaxChildren          = 25  // Options, or sub-commands and groups combined, per node.
	MaxNameLength        = 32  // Runes.
	MaxDescriptionLength = 100 // Runes.
)

// OptionType identifies the runtime type of a payload entry. The numeric
// values mirror the platform's application command option types.
type OptionType uint8

const (
	TypeSubCommand      OptionType = iota + 1 // Selected sub-command.
	TypeSubCommandGroup                       // Selected sub-command group.
	TypeString
	TypeInteger
	TypeBoolean
	TypeUser
	TypeChannel
	TypeRole
	TypeMention
	TypeNumber
)

var _optionTypeNames = [...]string{
	TypeSubCommand:      "sub_command",
	TypeSubCommandGroup: "sub_command_group",
	TypeString:          "string",
	TypeInteger:         "integer",
	TypeBoolean:         "boolean",
	TypeUser:            "user",
	TypeChannel:         "channel",
	TypeRole:            "role",
	TypeMention:         "mention",
	TypeNumber:          "number",
}

// LeafKinds lists the closed set of option kinds a leaf command may declare,
// in platform order.
func LeafKinds() []OptionType {
	return []OptionType{TypeString, TypeInteger, TypeBoolean, TypeUser, TypeChannel, TypeRole, TypeMention, TypeNumber}
}

// IsLeaf reports whether t is one of the option kinds (as opposed to a
// sub-command or group selection).
func (t OptionType) IsLeaf() bool { return t >= TypeString && t <= TypeNumber }

// IsSnowflake reports whether values of this kind are platform entity IDs.
func (t OptionType) IsSnowflake() bool {
	switch t {
	case TypeUser, TypeChannel, TypeRole, TypeMention:
		return true
	}
	return false
}

func (t OptionType) String() string {
	if int(t) < len(_optionTypeNames) && _optionTypeNames[t] != "" {
		return _optionTypeNames[t]
	}
	return "OptionType(" + strconv.Itoa(int(t)) + ")"
}

// ParseOptionType resolves the text form ("integer", "sub_command", ...).
func ParseOptionType(s string) (OptionType, error) {
	for i, n := range _optionTypeNames {
		if n != "" && n == s {
			return OptionType(i), nil
		}
	}
	return 0, fmt.Errorf("cmdskema: unknown option type %q", s)
}

func (t OptionType) MarshalText() ([]byte, error) {
	if !t.valid() {
		return nil, fmt.Errorf("cmdskema: invalid option type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *OptionType) UnmarshalText(b []byte) error {
	v, err := ParseOptionType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// UnmarshalJSON accepts the numeric platform code or the text form.
func (t *OptionType) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		s, err := strconv.Unquote(string(b))
		if err != nil {
			return fmt.Errorf("cmdskema: invalid option type %s", b)
		}
		return t.UnmarshalText([]byte(s))
	}
	n, err := strconv.ParseUint(string(b), 10, 8)
	if err != nil || !OptionType(n).valid() {
		return fmt.Errorf("cmdskema: invalid option type %s", b)
	}
	*t = OptionType(n)
	return nil
}

func (t OptionType) valid() bool { return t >= TypeSubCommand && t <= TypeNumber }

// EntryType tags a node in a registration descriptor or a parsed Value.
type EntryType string

const (
	EntryCommand         EntryType = "command"
	EntrySubCommand      EntryType = "subcommand"
	EntrySubCommandGroup EntryType = "subcommand_group"
	EntryOption          EntryType = "option"
)
