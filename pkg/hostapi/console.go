package hostapi

import (
	"fmt"
	"io"
	"sync"
)

// Console is a host that prints replies and broadcasts to a writer. It
// serves as both the command source and the server when running standalone.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole creates a console host writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Reply(msg string) {
	c.println(msg)
}

func (c *Console) IsPlayer() bool {
	return false
}

func (c *Console) PlayerName() string {
	return ""
}

func (c *Console) Broadcast(msg string) {
	c.println("[broadcast] " + msg)
}

func (c *Console) println(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, msg)
}
