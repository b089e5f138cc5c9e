package cmdskema

// Value is the untyped result of a successful parse. Container nodes carry
// exactly one Selected child; leaf nodes carry one Arg per declared option in
// declaration order.
type Value struct {
	Name     string    `json:"name"`
	Type     EntryType `json:"type"`
	Selected *Value    `json:"selected,omitempty"`
	Args     []Arg     `json:"args,omitempty"`
}

// Arg is a parsed option. Absent optional options have Present == false and
// a nil Value.
//
// Value holds bool, string, int64, float64 or Snowflake depending on Kind.
type Arg struct {
	Name    string     `json:"name"`
	Kind    OptionType `json:"kind"`
	Value   any        `json:"value,omitempty"`
	Present bool       `json:"present"`
}

// Path returns the names from the top-level command down to the leaf.
func (v *Value) Path() []string {
	var out []string
	for n := v; n != nil; n = n.Selected {
		out = append(out, n.Name)
	}
	return out
}

// Leaf returns the innermost selected node, the one carrying the arguments.
func (v *Value) Leaf() *Value {
	n := v
	for n.Selected != nil {
		n = n.Selected
	}
	return n
}

// Get returns the value of a present argument of the leaf node.
func (v *Value) Get(name string) (any, bool) {
	for _, a := range v.Leaf().Args {
		if a.Name == name && a.Present {
			return a.Value, true
		}
	}
	return nil, false
}

func (v *Value) BoolArg(name string) (bool, bool) {
	x, ok := v.Get(name)
	b, isb := x.(bool)
	return b, ok && isb
}

func (v *Value) StringArg(name string) (string, bool) {
	x, ok := v.Get(name)
	s, iss := x.(string)
	return s, ok && iss
}

func (v *Value) IntArg(name string) (int64, bool) {
	x, ok := v.Get(name)
	n, isn := x.(int64)
	return n, ok && isn
}

func (v *Value) FloatArg(name string) (float64, bool) {
	x, ok := v.Get(name)
	f, isf := x.(float64)
	return f, ok && isf
}

func (v *Value) SnowflakeArg(name string) (Snowflake, bool) {
	x, ok := v.Get(name)
	s, iss := x.(Snowflake)
	return s, ok && iss
}
