package session

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/f3rmion/trusteeboard/elgamal"
	"github.com/f3rmion/trusteeboard/protocol"
	"github.com/f3rmion/trusteeboard/suite"
	"github.com/f3rmion/trusteeboard/trustee"
)

// SelectAll is the step selector for every trustee. The empty selector
// means the same.
const SelectAll = "all"

// Orchestrator owns the current session and runs the operations on it,
// one at a time.
type Orchestrator struct {
	mu      sync.Mutex
	suite   *suite.Suite
	crypto  Crypto
	factory ParticipantFactory
	log     zerolog.Logger

	lastSessionID uint64
	ctx           *Context
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// WithParticipantFactory replaces [NewTrustee] as the way trustees are
// created.
func WithParticipantFactory(f ParticipantFactory) Option {
	return func(o *Orchestrator) { o.factory = f }
}

// WithCrypto replaces the suite as the source of ballots.
func WithCrypto(c Crypto) Option {
	return func(o *Orchestrator) { o.crypto = c }
}

// New returns an orchestrator running a fresh session of the given size.
func New(s *suite.Suite, trustees, threshold int, opts ...Option) (*Orchestrator, error) {
	o := &Orchestrator{
		suite:   s,
		crypto:  s,
		factory: NewTrustee,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	ctx, err := o.bootstrap(Params{Trustees: trustees, Threshold: threshold})
	if err != nil {
		return nil, err
	}
	o.ctx = ctx
	return o, nil
}

func (o *Orchestrator) bootstrap(p Params) (*Context, error) {
	ctx, err := newContext(o.suite, o.factory, p, o.lastSessionID+1)
	if err != nil {
		return nil, errors.Wrap(err, "bootstrap session")
	}
	o.lastSessionID = ctx.sessionID
	o.log.Info().
		Uint64("session", ctx.sessionID).
		Int("trustees", p.Trustees).
		Int("threshold", p.Threshold).
		Str("suite", o.suite.Name()).
		Ints("selection", ctx.selection.Positions()).
		Msg("Session bootstrapped")
	return ctx, nil
}

// Reset replaces the session with a fresh one. On error the current
// session is kept.
func (o *Orchestrator) Reset(trustees, threshold int) (*Info, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	ctx, err := o.bootstrap(Params{Trustees: trustees, Threshold: threshold})
	if err != nil {
		o.log.Error().Err(err).Int("trustees", trustees).Int("threshold", threshold).Msg("Reset failed")
		return nil, err
	}
	o.ctx = ctx
	return ctx.info(fmt.Sprintf("Reset: trustees = %d, threshold = %d", trustees, threshold)), nil
}

// Step advances the trustees chosen by selector, "all" or a trustee index,
// by one step each and posts what they produce. Trustees that fail are
// reported in a [*StepError] returned along with the Info.
func (o *Orchestrator) Step(selector string) (*Info, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	ctx := o.ctx
	indices, all, err := parseSelector(selector, len(ctx.trustees))
	if err != nil {
		return nil, err
	}

	snapshot := ctx.board.Messages()
	var out []*protocol.Message
	stepErr := &StepError{}
	for _, i := range indices {
		msgs, actions, err := ctx.trustees[i].Step(snapshot)
		if err != nil {
			o.log.Warn().Err(err).Uint64("session", ctx.sessionID).Int("trustee", i).Msg("Trustee step failed")
			stepErr.add(i, err)
			continue
		}
		o.log.Debug().
			Uint64("session", ctx.sessionID).
			Int("trustee", i).
			Int("messages", len(msgs)).
			Stringer("actions", actionList(actions)).
			Msg("Trustee stepped")
		out = append(out, msgs...)
	}
	ctx.board.Add(out...)
	ctx.lastMessages = out

	var log string
	if all {
		log = fmt.Sprintf("Step trustee=all yields %d messages", len(out))
	} else {
		log = fmt.Sprintf("Step for trustee=%d yields %d messages", indices[0], len(out))
	}

	match, complete := ctx.checkPlaintexts()
	if complete {
		log = fmt.Sprintf("Run complete: plaintexts match = '%t'", match)
		o.log.Info().Uint64("session", ctx.sessionID).Bool("match", match).Msg("Plaintexts recovered")
	}

	info := ctx.info(log)
	if complete {
		info.PlaintextsMatch = &match
	}
	for _, f := range stepErr.Failures() {
		info.Failures = append(info.Failures, f.Error())
	}
	return info, stepErr.orNil()
}

// checkPlaintexts compares trustee 0's plaintexts of the ballot batch with
// the ones encrypted, as sets.
func (c *Context) checkPlaintexts() (match, complete bool) {
	got, ok := c.trustees[0].Plaintexts(protocol.BallotsBatch)
	if !ok {
		return false, false
	}
	return samePlaintexts(got, c.plaintexts), true
}

func samePlaintexts(a, b []suite.Plaintext) bool {
	set := func(ps []suite.Plaintext) map[suite.Plaintext]struct{} {
		m := make(map[suite.Plaintext]struct{}, len(ps))
		for _, p := range ps {
			m[p] = struct{}{}
		}
		return m
	}
	sa, sb := set(a), set(b)
	if len(sa) != len(sb) {
		return false
	}
	for p := range sa {
		if _, ok := sb[p]; !ok {
			return false
		}
	}
	return true
}

// Ballots encrypts count random plaintexts under the session's public key
// and posts them as the ballot batch. It does nothing if the key does not
// exist yet or ballots were already cast.
func (o *Orchestrator) Ballots(count int) (*Info, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if count < 1 {
		return nil, errors.Wrapf(ErrInvalidParameters, "ballot count = %d, must be at least 1", count)
	}
	ctx := o.ctx
	if len(ctx.plaintexts) > 0 {
		return ctx.info("Ballots already added"), nil
	}
	pk, ok := ctx.trustees[0].DKGPublicKey()
	if !ok {
		return ctx.info("No pk yet"), nil
	}

	plaintexts := make([]suite.Plaintext, count)
	ciphertexts := make([]*elgamal.Ciphertext, count)
	for i := range plaintexts {
		p, err := o.crypto.RandomPlaintext()
		if err != nil {
			return nil, errors.Wrap(err, "sample plaintext")
		}
		c, err := o.crypto.Encrypt(pk, p)
		if err != nil {
			return nil, errors.Wrapf(err, "encrypt ballot %d", i)
		}
		plaintexts[i], ciphertexts[i] = p, c
	}

	batch, err := protocol.NewBallotsArtifact(ctx.cfg, ciphertexts, ctx.selection)
	if err != nil {
		return nil, err
	}
	pkHash := protocol.HashOf(pk.Bytes())
	msg, err := ctx.manager.BallotsMessage(ctx.cfg, ctx.sessionID, protocol.BallotsBatch, batch, pkHash)
	if err != nil {
		return nil, err
	}

	ctx.board.Add(msg)
	ctx.plaintexts = plaintexts
	ctx.lastMessages = []*protocol.Message{msg}
	o.log.Info().Uint64("session", ctx.sessionID).Int("count", count).Stringer("pk", pkHash).Msg("Ballots cast")
	return ctx.info(fmt.Sprintf("Added %d ballots", count)), nil
}

// Info returns the current state without changing it.
func (o *Orchestrator) Info() *Info {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.ctx.info("")
}

// parseSelector returns the trustee indices a selector names and whether
// it names all of them.
func parseSelector(selector string, n int) ([]int, bool, error) {
	s := strings.TrimSpace(selector)
	if s == "" || strings.EqualFold(s, SelectAll) {
		indices := make([]int, n)
		for i := range indices {
			indices[i] = i
		}
		return indices, true, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return nil, false, errors.Wrapf(ErrInvalidSelector, "%q", selector)
	}
	if i < 0 || i >= n {
		return nil, false, errors.Wrapf(ErrInvalidSelector, "trustee %d, session has %d", i, n)
	}
	return []int{i}, false, nil
}

type actionList []trustee.Action

func (a actionList) String() string {
	parts := make([]string, len(a))
	for i, act := range a {
		parts[i] = act.String()
	}
	return strings.Join(parts, ",")
}
