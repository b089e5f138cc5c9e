// Package cobrabridge exposes a compiled command tree as cobra commands, so
// the same declarations can be exercised from a terminal. Invoking a leaf
// builds an Interaction from the flags the user set.
package cobrabridge

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/reoring/cmdskema"
)

// RunFunc receives the interaction assembled from the command line.
type RunFunc func(cmd *cobra.Command, in *cmdskema.Interaction) error

// Build converts a top-level command. Containers become parent commands,
// groups become nested parents and leaves get one flag per option.
//
// Required options are not marked required in cobra; a missing one reaches
// run as an interaction the parser rejects with missing_option.
func Build(c *cmdskema.Command, run RunFunc) *cobra.Command {
	return build(c, nil, run)
}

// BuildSet converts every command of the set, in declaration order.
func BuildSet(set *cmdskema.Set, run RunFunc) []*cobra.Command {
	cmds := set.Commands()
	out := make([]*cobra.Command, len(cmds))
	for i, c := range cmds {
		out[i] = Build(c, run)
	}
	return out
}

// build converts c; path holds the names from the top-level command down to
// c's parent.
func build(c *cmdskema.Command, path []string, run RunFunc) *cobra.Command {
	cc := &cobra.Command{
		Use:   c.Name(),
		Short: c.Description(),
	}
	here := append(append([]string(nil), path...), c.Name())
	if c.IsContainer() {
		for _, ch := range c.Children() {
			switch n := ch.(type) {
			case *cmdskema.Command:
				cc.AddCommand(build(n, here, run))
			case *cmdskema.Group:
				gc := &cobra.Command{Use: n.Name(), Short: n.Description()}
				gpath := append(append([]string(nil), here...), n.Name())
				for _, sc := range n.SubCommands() {
					gc.AddCommand(build(sc, gpath, run))
				}
				cc.AddCommand(gc)
			}
		}
		return cc
	}

	opts := c.Options()
	for _, o := range opts {
		addFlag(cc.Flags(), o)
	}
	cc.Args = cobra.NoArgs
	cc.RunE = func(cmd *cobra.Command, _ []string) error {
		args, err := collect(cmd.Flags(), opts)
		if err != nil {
			return err
		}
		return run(cmd, cmdskema.NewInteraction(here[0], here[1:], args...))
	}
	return cc
}

func addFlag(fs *pflag.FlagSet, o cmdskema.Option) {
	usage := o.Description
	if o.Required {
		usage += " (required)"
	}
	switch o.Kind {
	case cmdskema.TypeBoolean:
		fs.Bool(o.Name, false, usage)
	case cmdskema.TypeString:
		fs.String(o.Name, "", usage)
	case cmdskema.TypeInteger:
		fs.Int64(o.Name, 0, usage)
	case cmdskema.TypeNumber:
		fs.Float64(o.Name, 0, usage)
	default:
		fs.Uint64(o.Name, 0, usage+" ("+o.Kind.String()+" id)")
	}
}

// collect turns the changed flags into payload arguments.
func collect(fs *pflag.FlagSet, opts []cmdskema.Option) ([]cmdskema.Argument, error) {
	var out []cmdskema.Argument
	for _, o := range opts {
		if !fs.Changed(o.Name) {
			continue
		}
		var (
			v   any
			err error
		)
		switch o.Kind {
		case cmdskema.TypeBoolean:
			v, err = fs.GetBool(o.Name)
		case cmdskema.TypeString:
			v, err = fs.GetString(o.Name)
		case cmdskema.TypeInteger:
			v, err = fs.GetInt64(o.Name)
		case cmdskema.TypeNumber:
			v, err = fs.GetFloat64(o.Name)
		default:
			var id uint64
			id, err = fs.GetUint64(o.Name)
			v = cmdskema.Snowflake(id)
		}
		if err != nil {
			return nil, fmt.Errorf("flag --%s: %w", o.Name, err)
		}
		out = append(out, cmdskema.Argument{Name: o.Name, Kind: o.Kind, Value: v})
	}
	return out, nil
}
