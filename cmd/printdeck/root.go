package main

import (
	"github.com/spf13/cobra"

	"github.com/printdeck/printdeck/internal/app"
)

type rootFlags struct {
	configPath string
	server     string
	pollEvery  int
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "printdeck",
		Short: "Terminal console for a printbox thermal printer daemon",
		Long: `printdeck is a terminal console for a printbox daemon driving a
thermal photo printer. It manages the image gallery, per-image print
settings, the printer connection, and GPIO button assignments.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: flags.configPath,
				Server:     flags.server,
				PollEvery:  flags.pollEvery,
			})
		},
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to config file")
	cmd.PersistentFlags().StringVar(&flags.server, "server", "", "daemon address (host:port)")
	cmd.Flags().IntVar(&flags.pollEvery, "poll", 0, "status poll interval in seconds")

	cmd.AddCommand(newStatusCmd(flags))
	return cmd
}
