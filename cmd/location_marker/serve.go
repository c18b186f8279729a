package main

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/OCAP2/location-marker/internal/handlers"

	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Read !!loc commands from stdin as the server console",
		Long:  "Start an interactive console host. Every line typed is handled as a chat command from the server console; replies and broadcasts are printed to stdout.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(configDir, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.logger.Info("Console ready", "prefix", handlers.Prefix)
			a.console.Reply("Type " + handlers.Prefix + " for help, Ctrl+D to exit")
			a.serve(ctx, cmd.InOrStdin())
			a.logger.Info("Console closed")
			return nil
		},
	}
}

// serve handles lines from r until r is exhausted or ctx is done.
func (a *app) serve(ctx context.Context, r io.Reader) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			a.logger.Error("Failed to read console input", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if !a.service.Handle(a.console, line) {
				a.console.Reply("Unknown command, type " + handlers.Prefix + " for help")
			}
		}
	}
}
