package protocol

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// MaxTrustees is the largest number of trustees a session supports.
const MaxTrustees = 12

const (
	// ManagerPosition is the position reported for the protocol manager.
	ManagerPosition = -1
	// UnknownPosition is the position reported for a key the configuration
	// does not name.
	UnknownPosition = -2
)

// Configuration describes a session: who runs it, who holds key shares and
// how many of them must cooperate to decrypt. It is immutable once posted.
type Configuration struct {
	Version         uint32         `json:"version"`
	ProtocolManager VerifyingKey   `json:"protocol_manager"`
	Trustees        []VerifyingKey `json:"trustees"`
	Threshold       int            `json:"threshold"`
	// Suite is the crypto-context tag every party derives its primitives from.
	Suite string `json:"suite"`
}

// NewConfiguration assembles and validates a version 0 configuration.
func NewConfiguration(manager VerifyingKey, trustees []VerifyingKey, threshold int, suiteName string) (*Configuration, error) {
	cfg := &Configuration{
		ProtocolManager: manager,
		Trustees:        append([]VerifyingKey(nil), trustees...),
		Threshold:       threshold,
		Suite:           suiteName,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the trustee count, the threshold and that no key is used
// twice.
func (c *Configuration) Validate() error {
	n := len(c.Trustees)
	if n < 1 || n > MaxTrustees {
		return errors.Wrapf(ErrInvalidConfiguration, "trustee count %d outside [1, %d]", n, MaxTrustees)
	}
	if c.Threshold < 1 || c.Threshold > n {
		return errors.Wrapf(ErrInvalidConfiguration, "threshold %d outside [1, %d]", c.Threshold, n)
	}
	if len(c.ProtocolManager) == 0 {
		return errors.Wrap(ErrInvalidConfiguration, "missing protocol manager key")
	}
	if c.Suite == "" {
		return errors.Wrap(ErrInvalidConfiguration, "missing suite")
	}
	seen := map[string]bool{string(c.ProtocolManager): true}
	for i, k := range c.Trustees {
		if len(k) == 0 {
			return errors.Wrapf(ErrInvalidConfiguration, "trustee %d has no key", i)
		}
		if seen[string(k)] {
			return errors.Wrapf(ErrInvalidConfiguration, "trustee %d reuses a key", i)
		}
		seen[string(k)] = true
	}
	return nil
}

// Position returns the 0-based trustee position of key, or
// ManagerPosition for the protocol manager. Unknown keys yield
// UnknownPosition and false.
func (c *Configuration) Position(key VerifyingKey) (int, bool) {
	if c.ProtocolManager.Equal(key) {
		return ManagerPosition, true
	}
	for i, k := range c.Trustees {
		if k.Equal(key) {
			return i, true
		}
	}
	return UnknownPosition, false
}

// Hash returns the content hash of the configuration's JSON encoding.
func (c *Configuration) Hash() Hash {
	b, _ := json.Marshal(c)
	return HashOf(b)
}
