// Package protocol defines what travels over a trustee board: signed
// statements with optional artifacts, the session configuration they refer
// to, the selection of trustees active for a batch, and the protocol
// manager that bootstraps a session and posts ballots.
//
// # Messages
//
// A [Message] is a [Statement] signed by its author, plus an optional JSON
// artifact bound to the statement by its hash. The statement names its
// type, the session, the configuration hash and the batch it belongs to;
// [Message.Verify] checks all of that against a [Configuration]:
//
//	pm, _ := protocol.NewProtocolManager(s)
//	msg, _ := pm.BootstrapMessage(cfg, sessionID)
//	position, err := msg.Verify(cfg, s)
//
// Artifacts are decoded with [DecodeArtifact]:
//
//	ballots, err := protocol.DecodeArtifact[protocol.Ballots](msg)
//
// # Positions
//
// Trustees are identified by their 0-based position in
// [Configuration.Trustees]. The protocol manager signs from
// [ManagerPosition]. Selections and DKG identifiers use 1-based positions,
// which are also the x-coordinates of the trustees' key shares.
package protocol
