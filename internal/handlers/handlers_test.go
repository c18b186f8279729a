package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/OCAP2/location-marker/internal/config"
	"github.com/OCAP2/location-marker/internal/dispatcher"
	"github.com/OCAP2/location-marker/internal/logging"
	"github.com/OCAP2/location-marker/internal/storage/memory"
	"github.com/OCAP2/location-marker/internal/store"
	"github.com/OCAP2/location-marker/pkg/core"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu      sync.Mutex
	player  string
	replies []string
}

func (s *fakeSource) Reply(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, msg)
}

func (s *fakeSource) IsPlayer() bool     { return s.player != "" }
func (s *fakeSource) PlayerName() string { return s.player }

func (s *fakeSource) Replies() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.replies...)
}

type fakeServer struct {
	mu         sync.Mutex
	broadcasts []string
}

func (s *fakeServer) Broadcast(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcasts = append(s.broadcasts, msg)
}

func (s *fakeServer) Broadcasts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.broadcasts...)
}

type fakePlayers struct {
	pos core.Position
	dim int
	err error
}

func (p *fakePlayers) PlayerCoordinate(_ context.Context, _ string) (core.Position, error) {
	return p.pos, p.err
}

func (p *fakePlayers) PlayerDimension(_ context.Context, _ string) (int, error) {
	return p.dim, p.err
}

type change struct {
	op    string
	name  string
	count int
}

type fakeRecorder struct {
	mu      sync.Mutex
	changes []change
}

func (r *fakeRecorder) RecordChange(_ context.Context, op string, loc core.Location, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, change{op, loc.Name, count})
	return nil
}

type testEnv struct {
	svc      *Service
	store    *store.Store
	backend  *memory.Backend
	server   *fakeServer
	players  *fakePlayers
	recorder *fakeRecorder
	d        *dispatcher.Dispatcher
}

func newTestEnv(t *testing.T, display config.DisplayConfig) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	backend := memory.New()
	st, err := store.New(backend, logger)
	require.NoError(t, err)
	require.NoError(t, st.Load())

	d, err := dispatcher.New(logging.NewDispatcherLogger(zerolog.Nop()))
	require.NoError(t, err)
	t.Cleanup(d.Close)

	env := &testEnv{
		store:    st,
		backend:  backend,
		server:   &fakeServer{},
		players:  &fakePlayers{pos: core.Position{X: 1.5, Y: 70, Z: -3}, dim: core.DimNether},
		recorder: &fakeRecorder{},
		d:        d,
	}
	env.svc = NewService(Dependencies{
		Store:   st,
		Server:  env.server,
		Players: env.players,
		Display: display,
		Logger:  logger,
		Changes: env.recorder,
	})
	env.svc.RegisterHandlers(d)
	return env
}

func defaultEnv(t *testing.T) *testEnv {
	return newTestEnv(t, config.DisplayConfig{TeleportHintOnCoordinate: false, ItemPerPage: 10})
}

func (env *testEnv) run(line string) *fakeSource {
	src := &fakeSource{}
	env.svc.Handle(src, line)
	return src
}

func TestHandle_NotOurs(t *testing.T) {
	env := defaultEnv(t)
	for _, line := range []string{"", "hello", "!!locx", "!!help", " !loc list"} {
		src := &fakeSource{}
		assert.False(t, env.svc.Handle(src, line), line)
		assert.Empty(t, src.Replies())
	}
}

func TestHandle_BeforeRegister(t *testing.T) {
	svc := NewService(Dependencies{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	src := &fakeSource{}
	assert.True(t, svc.Handle(src, "!!loc"))
	assert.Empty(t, src.Replies())
}

func TestHandle_Help(t *testing.T) {
	env := defaultEnv(t)
	src := env.run("!!loc")
	replies := src.Replies()
	require.Len(t, replies, len(helpText(10)))
	assert.Contains(t, replies[0], "Location Marker")
	assert.Contains(t, replies, `<keyword> and <name> are a single word or a "quoted string"`)
}

func TestHandle_AddAndBroadcast(t *testing.T) {
	env := defaultEnv(t)
	src := env.run("!!loc add Base 12.5 64 -8 0 my  home")

	assert.Empty(t, src.Replies())
	assert.Equal(t, []string{
		"Marker Base added",
		"Base @ the Overworld [12.5, 64, -8] - my home",
	}, env.server.Broadcasts())

	loc, ok := env.store.Get("Base")
	require.True(t, ok)
	assert.Equal(t, core.Position{X: 12.5, Y: 64, Z: -8}, loc.Pos)
	assert.Equal(t, "my home", loc.Description())
	assert.Equal(t, []change{{ChangeAdd, "Base", 1}}, env.recorder.changes)
}

func TestHandle_AddWithoutDescription(t *testing.T) {
	env := defaultEnv(t)
	env.run("!!loc add Base 1 2 3 1")

	loc, ok := env.store.Get("Base")
	require.True(t, ok)
	assert.Nil(t, loc.Desc)
	assert.Equal(t, core.DimEnd, loc.Dim)
}

func TestHandle_AddQuotedName(t *testing.T) {
	env := defaultEnv(t)
	env.run(`!!loc add "my base" 1 2 3 -1 "quoted desc"`)

	loc, ok := env.store.Get("my base")
	require.True(t, ok)
	assert.Equal(t, core.DimNether, loc.Dim)
	assert.Equal(t, "quoted desc", loc.Description())
}

func TestHandle_AddDuplicate(t *testing.T) {
	env := defaultEnv(t)
	env.run("!!loc add Base 12.5 64 -8 0")
	src := env.run("!!loc add Base 0 0 0 1")

	assert.Equal(t, []string{"Marker Base already exists"}, src.Replies())
	assert.Len(t, env.server.Broadcasts(), 2)

	loc, _ := env.store.Get("Base")
	assert.Equal(t, 12.5, loc.Pos.X)
}

func TestHandle_AddRejects(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		reason string
	}{
		{"dimension out of range", "!!loc add X 1 2 3 2", "Invalid dimension"},
		{"dimension not a number", "!!loc add X 1 2 3 end", "Invalid dimension"},
		{"bad coordinate", "!!loc add X 1 up 3 0", "Invalid coordinate"},
		{"infinite coordinate", "!!loc add X 1 Inf 3 0", "Invalid coordinate"},
		{"too few arguments", "!!loc add X 1 2", ""},
		{"no name", "!!loc add", ""},
		{"unbalanced quote", `!!loc add "oops 1 2 3 0`, "Invalid command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := defaultEnv(t)
			src := env.run(tt.line)

			replies := src.Replies()
			require.Len(t, replies, 1)
			assert.Contains(t, replies[0], "Usage: ")
			assert.Contains(t, replies[0], tt.reason)
			assert.Equal(t, 0, env.store.Len())
			assert.Empty(t, env.server.Broadcasts())
		})
	}
}

func TestHandle_AddPersistFailure(t *testing.T) {
	env := defaultEnv(t)
	env.backend.FailSaves(errors.New("disk full"))

	src := env.run("!!loc add Base 1 2 3 0")

	replies := src.Replies()
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "Failed to add marker Base: ")
	assert.Contains(t, replies[0], "disk full")
	assert.Equal(t, 0, env.store.Len())
	assert.Empty(t, env.server.Broadcasts())
	assert.Empty(t, env.recorder.changes)
}

func TestHandle_Delete(t *testing.T) {
	env := defaultEnv(t)
	env.run("!!loc add Base 12.5 64 -8 0")

	src := env.run("!!loc del Base")
	assert.Empty(t, src.Replies())
	assert.Equal(t, []string{
		"Marker Base added",
		"Base @ the Overworld [12.5, 64, -8]",
		"Marker Base deleted",
		"Base @ the Overworld [12.5, 64, -8]",
	}, env.server.Broadcasts())
	assert.False(t, env.store.Contains("Base"))
	assert.Equal(t, []change{{ChangeAdd, "Base", 1}, {ChangeRemove, "Base", 0}}, env.recorder.changes)

	src = env.run("!!loc del Base")
	assert.Equal(t, []string{"Marker Base not found"}, src.Replies())
}

func TestHandle_DeletePersistFailure(t *testing.T) {
	env := defaultEnv(t)
	env.run("!!loc add Base 1 2 3 0")
	env.backend.FailSaves(errors.New("read-only"))

	src := env.run("!!loc del Base")
	replies := src.Replies()
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "Failed to delete marker Base: ")
	assert.True(t, env.store.Contains("Base"))
}

func TestHandle_DeleteUsage(t *testing.T) {
	env := defaultEnv(t)
	src := env.run("!!loc del a b")
	require.Len(t, src.Replies(), 1)
	assert.Contains(t, src.Replies()[0], "Usage: !!loc del <name>")
}

func seed(t *testing.T, env *testEnv, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := env.store.Add(core.Location{Name: fmt.Sprintf("m%02d", i), Pos: core.Position{X: float64(i)}})
		require.NoError(t, err)
	}
}

func TestHandle_ListAll(t *testing.T) {
	for _, line := range []string{"!!loc list", "!!loc all"} {
		env := defaultEnv(t)
		seed(t, env, 3)

		src := env.run(line)
		assert.Equal(t, []string{
			"- m00 @ the Overworld [0, 0, 0]",
			"- m01 @ the Overworld [1, 0, 0]",
			"- m02 @ the Overworld [2, 0, 0]",
			"3 markers in total",
		}, src.Replies(), line)
	}
}

func TestHandle_ListEmpty(t *testing.T) {
	env := defaultEnv(t)
	assert.Equal(t, []string{"0 markers in total"}, env.run("!!loc list").Replies())
}

func TestHandle_ListPage(t *testing.T) {
	env := defaultEnv(t)
	seed(t, env, 25)

	replies := env.run("!!loc list 2").Replies()
	require.Len(t, replies, 12)
	assert.Equal(t, "- m10 @ the Overworld [10, 0, 0]", replies[0])
	assert.Equal(t, "- m19 @ the Overworld [19, 0, 0]", replies[9])
	assert.Equal(t, "<- page 2 -> (previous: !!loc list 1, next: !!loc list 3)", replies[10])
	assert.Equal(t, "25 markers in total", replies[11])

	replies = env.run("!!loc list 3").Replies()
	require.Len(t, replies, 7)
	assert.Equal(t, "<- page 3    (previous: !!loc list 2)", replies[5])

	replies = env.run("!!loc list 9").Replies()
	require.Len(t, replies, 2)
	assert.Equal(t, "   page 9   ", replies[0])
}

func TestHandle_ListBadPage(t *testing.T) {
	env := defaultEnv(t)
	for _, line := range []string{"!!loc list abc", "!!loc list 0", "!!loc list -1", "!!loc list 1 2", "!!loc all 2"} {
		replies := env.run(line).Replies()
		require.Len(t, replies, 1, line)
		assert.Contains(t, replies[0], "Usage: !!loc list [<page>]", line)
	}
}

func TestHandle_HugePage(t *testing.T) {
	env := defaultEnv(t)
	seed(t, env, 3)

	for _, line := range []string{
		"!!loc list 9223372036854775807",
		"!!loc list 922337203685477581",
		"!!loc search m 9223372036854775807",
		"!!loc m 922337203685477581",
	} {
		var replies []string
		require.NotPanics(t, func() { replies = env.run(line).Replies() }, line)
		require.Len(t, replies, 2, line)
		assert.Contains(t, replies[0], " page ", line)
		assert.NotContains(t, replies[0], "<-", line)
		assert.NotContains(t, replies[0], "->", line)
		assert.Contains(t, replies[1], "3 markers", line)
	}

	replies := env.run("!!loc list 99999999999999999999").Replies()
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "Usage: !!loc list [<page>]")
}

func TestHandle_Search(t *testing.T) {
	env := defaultEnv(t)
	home := "home sweet home"
	for _, loc := range []core.Location{
		{Name: "Base", Desc: &home},
		{Name: "Farm"},
		{Name: "Nether Hub", Dim: core.DimNether},
	} {
		_, err := env.store.Add(loc)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{
		"- Base @ the Overworld [0, 0, 0] - home sweet home",
		"1 markers found",
	}, env.run("!!loc search sweet").Replies())

	assert.Equal(t, []string{
		"- Farm @ the Overworld [0, 0, 0]",
		"1 markers found",
	}, env.run("!!loc Farm").Replies())

	assert.Equal(t, []string{
		"- Nether Hub @ the Nether [0, 0, 0]",
		"1 markers found",
	}, env.run(`!!loc search "Nether Hub"`).Replies())

	// case sensitive
	assert.Equal(t, []string{"0 markers found"}, env.run("!!loc base").Replies())
}

func TestHandle_SearchPage(t *testing.T) {
	env := defaultEnv(t)
	seed(t, env, 15)

	replies := env.run("!!loc search m 2").Replies()
	require.Len(t, replies, 7)
	assert.Equal(t, "<- page 2    (previous: !!loc search m 1)", replies[5])
	assert.Equal(t, "15 markers found", replies[6])

	replies = env.run("!!loc m0 1").Replies()
	assert.Equal(t, "10 markers found", replies[len(replies)-1])
}

func TestHandle_SearchUsage(t *testing.T) {
	env := defaultEnv(t)
	for _, line := range []string{"!!loc search", "!!loc search a 1 2", "!!loc a b c", "!!loc a b"} {
		replies := env.run(line).Replies()
		require.Len(t, replies, 1, line)
		assert.Contains(t, replies[0], "Usage: !!loc search <keyword> [<page>]", line)
	}
}

func TestHandle_AddHere(t *testing.T) {
	env := defaultEnv(t)
	src := &fakeSource{player: "Steve"}
	assert.True(t, env.svc.Handle(src, "!!loc add Camp here by the lake"))

	env.d.Close()

	assert.Empty(t, src.Replies())
	loc, ok := env.store.Get("Camp")
	require.True(t, ok)
	assert.Equal(t, core.Position{X: 1.5, Y: 70, Z: -3}, loc.Pos)
	assert.Equal(t, core.DimNether, loc.Dim)
	assert.Equal(t, "by the lake", loc.Description())
	assert.Equal(t, "Marker Camp added", env.server.Broadcasts()[0])
}

func TestHandle_AddHereNotPlayer(t *testing.T) {
	env := defaultEnv(t)
	src := env.run("!!loc add Camp here")
	env.d.Close()

	assert.Equal(t, []string{"Only players can use this command"}, src.Replies())
	assert.Equal(t, 0, env.store.Len())
}

func TestHandle_AddHereLookupFailure(t *testing.T) {
	env := defaultEnv(t)
	env.players.err = errors.New("player offline")

	src := &fakeSource{player: "Steve"}
	env.svc.Handle(src, "!!loc add Camp here")
	env.d.Close()

	replies := src.Replies()
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "Failed to get the position of Steve")
	assert.Equal(t, 0, env.store.Len())
}

func TestHandle_AddHereNoPlayerAPI(t *testing.T) {
	env := defaultEnv(t)
	env.svc.deps.Players = nil

	src := &fakeSource{player: "Steve"}
	env.svc.Handle(src, "!!loc add Camp here")
	env.d.Close()

	assert.Equal(t, []string{"Player position lookup is not available on this server"}, src.Replies())
}

func TestHandle_AfterDispatcherClose(t *testing.T) {
	env := defaultEnv(t)
	env.d.Close()

	src := &fakeSource{player: "Steve"}
	env.svc.Handle(src, "!!loc add Camp here")

	replies := src.Replies()
	require.Len(t, replies, 1)
	assert.Equal(t, "Command failed: dispatcher closed", replies[0])
}

func TestRoute(t *testing.T) {
	tests := []struct {
		args    []string
		command string
		want    []string
	}{
		{nil, CmdHelp, nil},
		{[]string{"all"}, CmdList, nil},
		{[]string{"list"}, CmdList, []string{}},
		{[]string{"list", "2"}, CmdList, []string{"2"}},
		{[]string{"search", "kw"}, CmdSearch, []string{"kw"}},
		{[]string{"search", "kw", "3"}, CmdSearch, []string{"kw", "3"}},
		{[]string{"kw"}, CmdSearch, []string{"kw"}},
		{[]string{"kw", "2"}, CmdSearch, []string{"kw", "2"}},
		{[]string{"add", "n", "here"}, CmdAddHere, []string{"n"}},
		{[]string{"add", "n", "here", "a", "b"}, CmdAddHere, []string{"n", "a", "b"}},
		{[]string{"add", "n", "1", "2", "3", "0"}, CmdAdd, []string{"n", "1", "2", "3", "0"}},
		{[]string{"del", "n"}, CmdDel, []string{"n"}},
	}

	for _, tt := range tests {
		e, err := route(tt.args)
		require.NoError(t, err, tt.args)
		assert.Equal(t, tt.command, e.Command, tt.args)
		if tt.want != nil {
			assert.Equal(t, tt.want, e.Args, tt.args)
		}
	}
}

func TestRegisterHandlers_RegistersAllCommands(t *testing.T) {
	env := defaultEnv(t)
	for _, cmd := range []string{CmdHelp, CmdList, CmdSearch, CmdAdd, CmdAddHere, CmdDel} {
		assert.True(t, env.d.HasHandler(cmd), cmd)
	}
}

func TestUsageError(t *testing.T) {
	assert.Equal(t, "Usage: !!loc del <name>", usageFor(CmdDel).Error())
	assert.Equal(t, "bad\nUsage: !!loc del <name>", usageWithReason(CmdDel, "bad").Error())

	var replied error = &repliedError{err: io.EOF}
	assert.ErrorIs(t, replied, io.EOF)
}
