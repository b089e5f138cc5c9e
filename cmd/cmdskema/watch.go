package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/reoring/cmdskema"
	"github.com/reoring/cmdskema/declfile"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print descriptors now and again whenever the declaration file changes",
	Long: `Watch the declaration file and print the registration descriptors after
every successful reload. A file that fails to compile is reported and the
previous descriptors stay current.

Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		h, err := declfile.NewHolder(cfg.File, logger)
		if err != nil {
			return err
		}
		defer h.Stop()

		if err := writeDescriptors(cmd, h.Get()); err != nil {
			return err
		}
		h.OnChange(func(set *cmdskema.Set) {
			if err := writeDescriptors(cmd, set); err != nil {
				logger.Error().Err(err).Msg("write descriptors")
			}
		})
		if err := h.WatchFile(); err != nil {
			return err
		}

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sig)
		select {
		case <-sig:
		case <-cmd.Context().Done():
		}
		logger.Info().Msg("stopping watch")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
