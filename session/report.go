package session

import (
	"fmt"
	"sort"

	"github.com/f3rmion/trusteeboard/protocol"
	"github.com/f3rmion/trusteeboard/trustee"
)

// managerTag replaces the manager's position in local board tags.
const managerTag = "pm"

// Info is the observable state of a session after an operation.
type Info struct {
	SessionID    uint64       `json:"session_id"`
	Threshold    int          `json:"threshold"`
	Selection    []int        `json:"selection"`
	Messages     []MessageRow `json:"messages"`
	LastMessages []MessageRow `json:"last_messages"`
	Trustees     []TrusteeRow `json:"trustees"`
	Log          string       `json:"log"`
	// PlaintextsMatch is set once trustee 0 reports the batch plaintexts.
	PlaintextsMatch *bool    `json:"plaintexts_match,omitempty"`
	Failures        []string `json:"failures,omitempty"`
}

// MessageRow summarizes one board message.
type MessageRow struct {
	ID       int    `json:"id"`
	Type     string `json:"type"`
	Sender   int    `json:"sender"` // -1 for the manager, -2 if unknown
	Artifact bool   `json:"artifact"`
}

// TrusteeRow summarizes one trustee's local board as sorted, distinct
// "<Type>-<signer>" tags.
type TrusteeRow struct {
	ID         int      `json:"id"`
	Position   int      `json:"position"`
	Statements []string `json:"statements"`
	Artifacts  []string `json:"artifacts"`
}

func (c *Context) info(log string) *Info {
	// The last messages are always the tail of the board.
	messages := c.board.Messages()
	info := &Info{
		SessionID:    c.sessionID,
		Threshold:    c.cfg.Threshold,
		Selection:    c.selection.Positions(),
		Messages:     c.rows(messages, 0),
		LastMessages: c.rows(c.lastMessages, len(messages)-len(c.lastMessages)),
		Trustees:     make([]TrusteeRow, len(c.trustees)),
		Log:          log,
	}
	for i, t := range c.trustees {
		info.Trustees[i] = c.trusteeRow(i, t)
	}
	return info
}

// rows summarizes msgs, which sit on the board from index first on.
func (c *Context) rows(msgs []*protocol.Message, first int) []MessageRow {
	out := make([]MessageRow, len(msgs))
	for i, m := range msgs {
		sender, ok := c.cfg.Position(m.SignerKey)
		if !ok {
			sender = protocol.UnknownPosition
		}
		out[i] = MessageRow{
			ID:       first + i,
			Type:     m.Statement.Type.String(),
			Sender:   sender,
			Artifact: m.HasArtifact(),
		}
	}
	return out
}

func (c *Context) trusteeRow(id int, t Participant) TrusteeRow {
	statements := map[string]bool{}
	artifacts := map[string]bool{}
	for _, e := range t.LocalBoard() {
		tag := entryTag(e)
		statements[tag] = true
		if e.HasArtifact {
			artifacts[tag] = true
		}
	}
	position, _ := c.cfg.Position(t.PublicKey())
	return TrusteeRow{
		ID:         id,
		Position:   position,
		Statements: sortedKeys(statements),
		Artifacts:  sortedKeys(artifacts),
	}
}

func entryTag(e trustee.Entry) string {
	if e.Signer == protocol.ManagerPosition {
		return fmt.Sprintf("%s-%s", e.Type, managerTag)
	}
	return fmt.Sprintf("%s-%d", e.Type, e.Signer)
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
