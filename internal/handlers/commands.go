package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/OCAP2/location-marker/internal/dispatcher"
	"github.com/OCAP2/location-marker/internal/parser"
	"github.com/OCAP2/location-marker/internal/util"
	"github.com/OCAP2/location-marker/pkg/core"
	"github.com/OCAP2/location-marker/pkg/hostapi"
)

// PlayerLookupTimeout bounds the host queries made by "add here".
var PlayerLookupTimeout = 5 * time.Second

func (s *Service) handleHelp(e dispatcher.Event) (any, error) {
	for _, line := range helpText(s.deps.Display.ItemPerPage) {
		e.Source.Reply(line)
	}
	return "ok", nil
}

func (s *Service) handleList(e dispatcher.Event) (any, error) {
	page, err := parsePage(CmdList, e.Args, 0)
	if err != nil {
		return nil, err
	}
	locs := s.deps.Store.List()
	s.replyListing(e.Source, locs, page, Prefix+" list")
	e.Source.Reply(fmt.Sprintf("%d markers in total", len(locs)))
	return len(locs), nil
}

func (s *Service) handleSearch(e dispatcher.Event) (any, error) {
	keyword := e.Args[0]
	page, err := parsePage(CmdSearch, e.Args, 1)
	if err != nil {
		return nil, err
	}

	var found []core.Location
	for _, loc := range s.deps.Store.List() {
		if matches(loc, keyword) {
			found = append(found, loc)
		}
	}
	s.replyListing(e.Source, found, page, Prefix+" search "+util.QuoteArg(keyword))
	e.Source.Reply(fmt.Sprintf("%d markers found", len(found)))
	return len(found), nil
}

// replyListing sends every location, or only one page of them when page > 0.
func (s *Service) replyListing(src hostapi.CommandSource, locs []core.Location, page int, navCmd string) {
	if page == 0 {
		for _, loc := range locs {
			src.Reply(s.renderItem(loc))
		}
		return
	}
	p := Paginate(locs, page, s.deps.Display.ItemPerPage)
	for _, loc := range p.Items {
		src.Reply(s.renderItem(loc))
	}
	src.Reply(p.footer(navCmd))
}

// parsePage reads the optional page argument at args[i]; 0 means no paging.
func parsePage(cmd string, args []string, i int) (int, error) {
	if len(args) <= i {
		return 0, nil
	}
	page, err := strconv.Atoi(args[i])
	if err != nil || page < 1 {
		return 0, usageWithReason(cmd, fmt.Sprintf("Invalid page number %q", args[i]))
	}
	return page, nil
}

func (s *Service) handleAdd(e dispatcher.Event) (any, error) {
	name := e.Args[0]
	pos, err := parser.ParsePosition(e.Args[1], e.Args[2], e.Args[3])
	if err != nil {
		return nil, usageWithReason(CmdAdd, fmt.Sprintf("Invalid coordinate: %v", err))
	}
	dim, err := parser.ParseDimension(e.Args[4])
	if err != nil {
		return nil, usageWithReason(CmdAdd, fmt.Sprintf("Invalid dimension: %v", err))
	}
	desc := strings.Join(e.Args[5:], " ")

	return s.addLocation(e.Source, core.Location{Name: name, Pos: pos, Dim: dim, Desc: core.StringPtr(desc)})
}

func (s *Service) handleAddHere(e dispatcher.Event) (any, error) {
	src := e.Source
	if !src.IsPlayer() {
		src.Reply("Only players can use this command")
		return nil, nil
	}
	if s.deps.Players == nil {
		src.Reply("Player position lookup is not available on this server")
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), PlayerLookupTimeout)
	defer cancel()

	player := src.PlayerName()
	pos, err := s.deps.Players.PlayerCoordinate(ctx, player)
	if err != nil {
		return nil, s.lookupFailed(src, player, err)
	}
	dim, err := s.deps.Players.PlayerDimension(ctx, player)
	if err != nil {
		return nil, s.lookupFailed(src, player, err)
	}

	desc := strings.Join(e.Args[1:], " ")
	return s.addLocation(src, core.Location{Name: e.Args[0], Pos: pos, Dim: dim, Desc: core.StringPtr(desc)})
}

func (s *Service) lookupFailed(src hostapi.CommandSource, player string, err error) error {
	s.logger.Error("Failed to get player position", "player", player, "error", err)
	src.Reply(fmt.Sprintf("Failed to get the position of %s: %v", player, err))
	return &repliedError{err: err}
}

func (s *Service) addLocation(src hostapi.CommandSource, loc core.Location) (any, error) {
	added, err := s.deps.Store.Add(loc)
	if err != nil {
		s.logger.Error("Failed to add marker", "op", "add", "name", loc.Name, "error", err)
		src.Reply(fmt.Sprintf("Failed to add marker %s: %v", loc.Name, err))
		return nil, &repliedError{err: err}
	}
	if !added {
		src.Reply(fmt.Sprintf("Marker %s already exists", loc.Name))
		return false, nil
	}

	s.deps.Server.Broadcast(fmt.Sprintf("Marker %s added", loc.Name))
	s.deps.Server.Broadcast(s.RenderLocation(loc))
	s.recordChange(ChangeAdd, loc)
	return true, nil
}

func (s *Service) handleDel(e dispatcher.Event) (any, error) {
	name := e.Args[0]
	loc, removed, err := s.deps.Store.Remove(name)
	if err != nil {
		s.logger.Error("Failed to delete marker", "op", "remove", "name", name, "error", err)
		e.Source.Reply(fmt.Sprintf("Failed to delete marker %s: %v", name, err))
		return nil, &repliedError{err: err}
	}
	if !removed {
		e.Source.Reply(fmt.Sprintf("Marker %s not found", name))
		return false, nil
	}

	s.deps.Server.Broadcast(fmt.Sprintf("Marker %s deleted", name))
	s.deps.Server.Broadcast(s.RenderLocation(loc))
	s.recordChange(ChangeRemove, loc)
	return true, nil
}
