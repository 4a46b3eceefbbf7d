// Package board is the in-process bulletin board of a session: an
// append-only log of protocol messages that every trustee reads and only
// the orchestrator writes.
package board

import (
	"sync"

	"github.com/f3rmion/trusteeboard/protocol"
)

// Board is an append-only, order-preserving message log. A message's
// index is its position in the log and never changes.
type Board struct {
	mu        sync.RWMutex
	sessionID uint64
	messages  []*protocol.Message
}

// New returns an empty board for sessionID.
func New(sessionID uint64) *Board {
	return &Board{sessionID: sessionID}
}

// SessionID returns the session the board belongs to.
func (b *Board) SessionID() uint64 {
	return b.sessionID
}

// Add appends msgs in order and returns the index of the first one.
func (b *Board) Add(msgs ...*protocol.Message) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	first := len(b.messages)
	b.messages = append(b.messages, msgs...)
	return first
}

// Since returns a snapshot of the messages from index i on. Later appends
// are not visible through the returned slice.
func (b *Board) Since(i int) []*protocol.Message {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if i < 0 {
		i = 0
	}
	if i >= len(b.messages) {
		return nil
	}
	out := make([]*protocol.Message, len(b.messages)-i)
	copy(out, b.messages[i:])
	return out
}

// Messages returns a snapshot of the whole log.
func (b *Board) Messages() []*protocol.Message {
	return b.Since(0)
}

// Len returns the number of messages posted so far.
func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.messages)
}
