package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/reoring/cmdskema"
	"github.com/reoring/cmdskema/cobrabridge"
)

var parsePayload string

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse an interaction payload and print the resulting value",
	Long: `Parse an interaction payload (tree or flat form) against the declarations.

On success the parsed value is printed as JSON. On failure the parse error
is printed with its code and the command exits non-zero.

Examples:
  cmdskema parse --payload interaction.json
  echo '{"name":"ping","options":[{"name":"n","type":4,"value":3}]}' | cmdskema parse --payload -`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		set, err := loadSet()
		if err != nil {
			return err
		}
		data, err := readPayload(cmd, parsePayload)
		if err != nil {
			return err
		}
		in, err := cmdskema.DecodeInteraction(data)
		if err != nil {
			return err
		}
		return parseAndPrint(cmd, set, in)
	},
}

var invokeCmd = &cobra.Command{
	Use:   "invoke -- <command> [sub-command...] [--option value...]",
	Short: "Build a payload from command-line flags and parse it",
	Long: `Invoke exposes every declared command as a nested CLI command with one
flag per option, then parses the resulting payload.

Examples:
  cmdskema invoke -- ping --n 3
  cmdskema invoke -- admin roles add --user 42 --role 7`,
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := loadSet()
		if err != nil {
			return err
		}
		inner := &cobra.Command{Use: "invoke", SilenceUsage: true, SilenceErrors: true}
		inner.SetOut(cmd.OutOrStdout())
		inner.SetErr(cmd.ErrOrStderr())
		inner.AddCommand(cobrabridge.BuildSet(set, func(c *cobra.Command, in *cmdskema.Interaction) error {
			return parseAndPrint(c, set, in)
		})...)
		inner.SetArgs(args)
		return inner.Execute()
	},
}

func init() {
	rootCmd.AddCommand(parseCmd, invokeCmd)
	parseCmd.Flags().StringVarP(&parsePayload, "payload", "p", "-", "payload file, or - for stdin")
}

func readPayload(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func parseAndPrint(cmd *cobra.Command, set *cmdskema.Set, in *cmdskema.Interaction) error {
	v, err := set.Parse(in)
	if err != nil {
		if pe, ok := cmdskema.AsParseError(err); ok {
			logger.Debug().Str("code", string(pe.Code)).Str("path", pe.Path).Str("hint", pe.Hint).Msg("payload rejected")
			return fmt.Errorf("%s: %w", pe.Code, err)
		}
		return err
	}
	logger.Debug().Strs("path", v.Path()).Msg("payload parsed")
	return writeJSON(cmd, v)
}
