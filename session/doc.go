// Package session runs a simulated voting round: it owns the session
// context (configuration, trustees, board and the harness's own record of
// what it encrypted) and the orchestrator operations that drive it.
//
// # Operations
//
// An [Orchestrator] serializes three operations under one lock:
//
//	o, err := session.New(suite.Default(), 2, 2)
//	info, err := o.Step("all")      // advance every trustee once
//	info, err = o.Ballots(5)         // cast ballots once a key exists
//	info, err = o.Reset(3, 2)        // start over with a new session
//
// Each returns an [Info] snapshot of the board and of every trustee's
// local board, plus a log line describing what happened.
//
// # Stepping
//
// A step hands every stepped trustee the same board snapshot and posts the
// messages they return in trustee order. Messages posted by one step are
// seen by the trustees on the next one. A trustee whose step fails
// contributes nothing; the others' messages are still posted and the
// failures are returned as a [*StepError].
//
// Once trustee 0 reports the plaintexts of the ballot batch, each step
// compares them, as a set, with the plaintexts the orchestrator encrypted.
package session
