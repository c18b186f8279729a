// Package handlers implements the !!loc chat command layer on top of the
// location store.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/OCAP2/location-marker/internal/config"
	"github.com/OCAP2/location-marker/internal/dispatcher"
	"github.com/OCAP2/location-marker/internal/store"
	"github.com/OCAP2/location-marker/pkg/core"
	"github.com/OCAP2/location-marker/pkg/hostapi"

	"github.com/buildkite/shellwords"
)

// Prefix is the chat command prefix.
const Prefix = "!!loc"

// Dispatcher command names.
const (
	CmdHelp    = "help"
	CmdList    = "list"
	CmdSearch  = "search"
	CmdAdd     = "add"
	CmdAddHere = "add-here"
	CmdDel     = "del"
)

// Change operations passed to a ChangeRecorder.
const (
	ChangeAdd    = "add"
	ChangeRemove = "remove"
)

// ChangeRecorder receives every successful add and remove.
// count is the marker count after the change.
type ChangeRecorder interface {
	RecordChange(ctx context.Context, op string, loc core.Location, count int) error
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Store   *store.Store
	Server  hostapi.Server
	Players hostapi.PlayerAPI // nil disables "add here"
	Display config.DisplayConfig
	Logger  *slog.Logger
	Changes ChangeRecorder
}

// Service parses chat lines and runs them through the dispatcher.
type Service struct {
	deps       Dependencies
	logger     *slog.Logger
	dispatcher *dispatcher.Dispatcher
}

// NewService creates a new handler service
func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Display.ItemPerPage <= 0 {
		deps.Display.ItemPerPage = 10
	}
	return &Service{
		deps:   deps,
		logger: logger.With("component", "handlers"),
	}
}

// RegisterHandlers registers every !!loc command with d. Handle routes
// through d afterwards.
func (s *Service) RegisterHandlers(d *dispatcher.Dispatcher) {
	d.Register(CmdHelp, s.handleHelp)
	d.Register(CmdList, s.handleList, dispatcher.Logged())
	d.Register(CmdSearch, s.handleSearch, dispatcher.Logged())
	d.Register(CmdAdd, s.handleAdd, dispatcher.Logged())
	// player lookups block on the game thread, keep them off the caller
	d.Register(CmdAddHere, s.handleAddHere, dispatcher.Buffered(16), dispatcher.Logged())
	d.Register(CmdDel, s.handleDel, dispatcher.Logged())
	s.dispatcher = d
}

// Handle processes one chat line from src. It returns false when the line
// is not a !!loc command.
func (s *Service) Handle(src hostapi.CommandSource, line string) bool {
	line = strings.TrimSpace(line)
	if line != Prefix && !strings.HasPrefix(line, Prefix+" ") {
		return false
	}
	if s.dispatcher == nil {
		s.logger.Error("Command received before handlers were registered", "line", line)
		return true
	}

	tokens, err := shellwords.SplitPosix(line)
	if err != nil {
		src.Reply((&UsageError{Reason: fmt.Sprintf("Invalid command: %v", err), Usage: Prefix}).Error())
		return true
	}

	e, err := route(tokens[1:])
	if err != nil {
		src.Reply(err.Error())
		return true
	}
	e.Source = src

	_, err = s.dispatcher.Dispatch(e)
	var usage *UsageError
	var replied *repliedError
	switch {
	case err == nil:
	case errors.As(err, &usage):
		src.Reply(usage.Error())
	case errors.As(err, &replied):
	default:
		s.logger.Error("Command failed", "command", e.Command, "error", err)
		src.Reply(fmt.Sprintf("Command failed: %v", err))
	}
	return true
}

// route maps the tokens after the prefix to a dispatcher event.
func route(args []string) (dispatcher.Event, error) {
	if len(args) == 0 {
		return dispatcher.Event{Command: CmdHelp}, nil
	}

	switch args[0] {
	case "all":
		if len(args) != 1 {
			return dispatcher.Event{}, usageFor(CmdList)
		}
		return dispatcher.Event{Command: CmdList}, nil
	case "list":
		if len(args) > 2 {
			return dispatcher.Event{}, usageFor(CmdList)
		}
		return dispatcher.Event{Command: CmdList, Args: args[1:]}, nil
	case "search":
		if len(args) < 2 || len(args) > 3 {
			return dispatcher.Event{}, usageFor(CmdSearch)
		}
		return dispatcher.Event{Command: CmdSearch, Args: args[1:]}, nil
	case "add":
		if len(args) >= 3 && args[2] == "here" {
			return dispatcher.Event{Command: CmdAddHere, Args: append([]string{args[1]}, args[3:]...)}, nil
		}
		if len(args) < 6 {
			return dispatcher.Event{}, usageFor(CmdAdd)
		}
		return dispatcher.Event{Command: CmdAdd, Args: args[1:]}, nil
	case "del":
		if len(args) != 2 {
			return dispatcher.Event{}, usageFor(CmdDel)
		}
		return dispatcher.Event{Command: CmdDel, Args: args[1:]}, nil
	default:
		// bare keyword search
		if len(args) > 2 {
			return dispatcher.Event{}, usageFor(CmdSearch)
		}
		return dispatcher.Event{Command: CmdSearch, Args: args}, nil
	}
}

func (s *Service) recordChange(op string, loc core.Location) {
	if s.deps.Changes == nil {
		return
	}
	if err := s.deps.Changes.RecordChange(context.Background(), op, loc, s.deps.Store.Len()); err != nil {
		s.logger.Warn("Failed to record marker change", "op", op, "name", loc.Name, "error", err)
	}
}
