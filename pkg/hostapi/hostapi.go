// Package hostapi declares what the command layer needs from the game server
// that embeds it.
package hostapi

import (
	"context"

	"github.com/OCAP2/location-marker/pkg/core"
)

// CommandSource is whoever issued a command: a player or the server console.
type CommandSource interface {
	Reply(msg string)
	IsPlayer() bool
	// PlayerName is empty for non-player sources.
	PlayerName() string
}

// Server delivers messages to every connected client.
type Server interface {
	Broadcast(msg string)
}

// PlayerAPI queries live player state. Calls may block on the game thread
// and should honour ctx.
type PlayerAPI interface {
	PlayerCoordinate(ctx context.Context, player string) (core.Position, error)
	PlayerDimension(ctx context.Context, player string) (int, error)
}
