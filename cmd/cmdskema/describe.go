package main

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/reoring/cmdskema"
	js "github.com/reoring/cmdskema/jsonschema"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print the registration descriptors as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		set, err := loadSet()
		if err != nil {
			return err
		}
		return writeDescriptors(cmd, set)
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema [command]",
	Short: "Print the JSON Schema of each command's arguments",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := loadSet()
		if err != nil {
			return err
		}
		out := map[string]*js.Schema{}
		for _, c := range set.Commands() {
			if len(args) == 1 && c.Name() != args[0] {
				continue
			}
			s, err := c.ArgumentsSchema()
			if err != nil {
				return err
			}
			out[c.Name()] = s
		}
		if len(args) == 1 && len(out) == 0 {
			return fmt.Errorf("unknown command %q", args[0])
		}
		return writeJSON(cmd, out)
	},
}

var describeIndent string

func init() {
	rootCmd.AddCommand(describeCmd, schemaCmd)
	rootCmd.PersistentFlags().StringVar(&describeIndent, "indent", "  ", "JSON indentation (empty for compact output)")
}

func writeDescriptors(cmd *cobra.Command, set *cmdskema.Set) error {
	var (
		b   []byte
		err error
	)
	if describeIndent == "" {
		b, err = cmdskema.MarshalDescriptors(set.Descriptors())
	} else {
		b, err = cmdskema.MarshalDescriptorsIndent(set.Descriptors(), describeIndent)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return err
}

func writeJSON(cmd *cobra.Command, v any) error {
	var (
		b   []byte
		err error
	)
	if describeIndent == "" {
		b, err = json.Marshal(v)
	} else {
		b, err = json.MarshalIndent(v, "", describeIndent)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return err
}
