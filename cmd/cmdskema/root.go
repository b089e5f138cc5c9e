package main

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/reoring/cmdskema"
	"github.com/reoring/cmdskema/declfile"
	"github.com/reoring/cmdskema/i18n"
)

// Config is read from the environment; flags override it.
type Config struct {
	File      string `env:"CMDSKEMA_FILE"       envDefault:"commands.yaml"`
	LogLevel  string `env:"CMDSKEMA_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"CMDSKEMA_LOG_FORMAT" envDefault:"json"`
	Lang      string `env:"CMDSKEMA_LANG"       envDefault:"en"`
}

var (
	cfg    Config
	logger zerolog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cmdskema",
	Short: "Compile slash-command declarations into descriptors and parsers",
	Long: `cmdskema compiles a slash-command declaration file (YAML or JSON) into
platform registration descriptors, and parses interaction payloads against it.

Examples:
  cmdskema describe --file commands.yaml
  cmdskema parse --payload interaction.json
  cmdskema invoke -- admin roles add --user 42 --role 7
  cmdskema watch
  cmdskema serve --addr :8080`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger = newLogger(cfg)
		i18n.SetLanguage(cfg.Lang)
		return nil
	},
}

func init() {
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, "parse env:", err)
		os.Exit(2)
	}
	rootCmd.PersistentFlags().StringVarP(&cfg.File, "file", "f", cfg.File, "declaration file (.yaml, .yml or .json)")
	rootCmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (json or console)")
	rootCmd.PersistentFlags().StringVar(&cfg.Lang, "lang", cfg.Lang, "language of parse error messages (en or ja)")
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger writes to stderr; stdout carries command output.
func newLogger(c Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if c.LogFormat == "console" {
		output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		return zerolog.New(output).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}

func loadSet() (*cmdskema.Set, error) {
	set, err := declfile.Load(cfg.File)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("file", cfg.File).Int("commands", len(set.Commands())).Msg("declarations loaded")
	return set, nil
}
