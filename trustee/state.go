package trustee

import (
	"maps"
	"slices"
	"sort"

	"github.com/f3rmion/trusteeboard/elgamal"
	"github.com/f3rmion/trusteeboard/frost"
	"github.com/f3rmion/trusteeboard/protocol"
	"github.com/f3rmion/trusteeboard/suite"
)

// slot identifies a statement by what it is, who signs it and which batch
// it belongs to. Each party posts at most one message per slot.
type slot struct {
	typ    protocol.StatementType
	signer int
	batch  int
}

// batchState is what a trustee tracks about one ballot batch.
type batchState struct {
	selection    protocol.Selection
	ballots      []*elgamal.Ciphertext
	artifactHash protocol.Hash
	pkHash       protocol.Hash
	// plaintexts is the local combination of the decryption factors, set
	// once every selected trustee's factors are seen.
	plaintexts []suite.Plaintext
}

// state is the part of a trustee that a step may change. Steps work on a
// clone and only replace the trustee's state when they succeed.
type state struct {
	cfg       *protocol.Configuration
	cfgHash   protocol.Hash
	sessionID uint64
	position  int
	frost     *frost.FROST

	messages map[slot]*protocol.Message
	log      []*protocol.Message

	// outbox holds messages this trustee produced that are not on its
	// local board yet, in production order.
	outbox  map[slot]*protocol.Message
	pending []slot

	dkg     *dkgRound
	result  *dkgResult
	batches map[int]*batchState
}

func newState() *state {
	return &state{
		messages: make(map[slot]*protocol.Message),
		outbox:   make(map[slot]*protocol.Message),
		batches:  make(map[int]*batchState),
	}
}

func (s *state) clone() *state {
	c := *s
	c.messages = maps.Clone(s.messages)
	c.log = slices.Clone(s.log)
	c.outbox = maps.Clone(s.outbox)
	c.pending = slices.Clone(s.pending)
	if s.dkg != nil {
		c.dkg = s.dkg.clone()
	}
	c.batches = make(map[int]*batchState, len(s.batches))
	for n, b := range s.batches {
		cp := *b
		c.batches[n] = &cp
	}
	return &c
}

func (s *state) trustees() int {
	return len(s.cfg.Trustees)
}

func (s *state) seen(typ protocol.StatementType, signer, batch int) (*protocol.Message, bool) {
	m, ok := s.messages[slot{typ, signer, batch}]
	return m, ok
}

// seenFromAll reports whether every trustee's typ statement is on the local
// board.
func (s *state) seenFromAll(typ protocol.StatementType, batch int) bool {
	for i := 0; i < s.trustees(); i++ {
		if _, ok := s.seen(typ, i, batch); !ok {
			return false
		}
	}
	return true
}

// seenFromSelected is seenFromAll restricted to the selected trustees.
func (s *state) seenFromSelected(typ protocol.StatementType, b *batchState, batch int) bool {
	for _, i := range b.selection.Indices() {
		if _, ok := s.seen(typ, i, batch); !ok {
			return false
		}
	}
	return true
}

// own returns this trustee's typ message, posted or still pending.
func (s *state) own(typ protocol.StatementType, batch int) (*protocol.Message, bool) {
	sl := slot{typ, s.position, batch}
	if m, ok := s.messages[sl]; ok {
		return m, true
	}
	m, ok := s.outbox[sl]
	return m, ok
}

func (s *state) performed(typ protocol.StatementType, batch int) bool {
	_, ok := s.own(typ, batch)
	return ok
}

func (s *state) queue(sl slot, m *protocol.Message) {
	s.outbox[sl] = m
	s.pending = append(s.pending, sl)
}

// delivered drops sl from the outbox once its message is on the board.
func (s *state) delivered(sl slot) {
	if _, ok := s.outbox[sl]; !ok {
		return
	}
	delete(s.outbox, sl)
	s.pending = slices.DeleteFunc(s.pending, func(p slot) bool { return p == sl })
}

func (s *state) pendingMessages() []*protocol.Message {
	out := make([]*protocol.Message, len(s.pending))
	for i, sl := range s.pending {
		out[i] = s.outbox[sl]
	}
	return out
}

func (s *state) batchNumbers() []int {
	out := make([]int, 0, len(s.batches))
	for n := range s.batches {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}
