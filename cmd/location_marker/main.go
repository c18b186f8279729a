package main

import (
	"fmt"
	"os"

	"github.com/OCAP2/location-marker/internal/config"

	"github.com/spf13/cobra"
)

// module defs - BuildDate can be set at build time via ldflags
var (
	CurrentVersion string = "0.0.1"
	BuildDate      string = "unknown"

	AppName string = "location_marker"
)

// configDir is the directory searched for the config file.
var configDir string

func main() {
	rootCmd := &cobra.Command{
		Use:          AppName,
		Short:        "Location marker manager",
		Long:         "Keeps a persistent list of named coordinates and serves the !!loc chat commands.",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configDir, "config", ".", "directory containing "+config.FileName)

	rootCmd.AddCommand(
		newServeCommand(),
		newListCommand(),
		newAddCommand(),
		newDelCommand(),
		newVersionCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (built %s)\n", AppName, CurrentVersion, BuildDate)
		},
	}
}
