package main

import (
	"strings"

	"github.com/OCAP2/location-marker/internal/handlers"
	"github.com/OCAP2/location-marker/internal/util"
	"github.com/OCAP2/location-marker/pkg/core"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"
)

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list [keyword]",
		Short: "Print stored markers as a table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(configDir, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.close()

			keyword := ""
			if len(args) == 1 {
				keyword = args[0]
			}

			t := table.New("Name", "Dimension", "X", "Y", "Z", "Description").WithWriter(cmd.OutOrStdout())
			for _, loc := range a.store.List() {
				if keyword != "" && !strings.Contains(loc.Name, keyword) && !strings.Contains(loc.Description(), keyword) {
					continue
				}
				t.AddRow(
					loc.Name,
					core.DimensionName(loc.Dim),
					util.FormatCoordinate(loc.Pos.X),
					util.FormatCoordinate(loc.Pos.Y),
					util.FormatCoordinate(loc.Pos.Z),
					loc.Description(),
				)
			}
			t.Print()
			return nil
		},
	}
}

func newAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <x> <y> <z> <dim> [desc...]",
		Short: "Add a marker",
		Args:  cobra.MinimumNArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChatCommand(cmd, "add", args)
		},
	}
}

func newDelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "del <name>",
		Short: "Delete a marker by exact name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChatCommand(cmd, "del", args)
		},
	}
}

// runChatCommand runs one !!loc subcommand as the server console.
func runChatCommand(cmd *cobra.Command, sub string, args []string) error {
	a, err := setup(configDir, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.close()

	a.service.Handle(a.console, chatLine(sub, args))
	return nil
}

// chatLine rebuilds a chat command from already split arguments.
func chatLine(sub string, args []string) string {
	parts := []string{handlers.Prefix, sub}
	for _, arg := range args {
		parts = append(parts, util.QuoteArg(arg))
	}
	return strings.Join(parts, " ")
}
