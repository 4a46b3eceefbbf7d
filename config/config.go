// Package config holds the runtime settings of the trusteeboard command.
// Settings come from defaults, then TRUSTEEBOARD_* environment variables,
// then command-line flags.
package config

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/f3rmion/trusteeboard/protocol"
	"github.com/f3rmion/trusteeboard/suite"
)

// EnvPrefix prefixes every environment variable read by FromEnv.
const EnvPrefix = "TRUSTEEBOARD_"

// Config is the runtime configuration.
type Config struct {
	Trustees   int    `json:"trustees"`
	Threshold  int    `json:"threshold"`
	Ballots    int    `json:"ballots"`
	Suite      string `json:"suite"`
	ListenAddr string `json:"listen_addr"`
	LogLevel   string `json:"log_level"`
	LogJSON    bool   `json:"log_json"`
	// MaxSteps bounds the number of steps a headless run takes.
	MaxSteps int `json:"max_steps"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Trustees:   2,
		Threshold:  2,
		Ballots:    5,
		Suite:      suite.DefaultName,
		ListenAddr: ":8080",
		LogLevel:   zerolog.LevelInfoValue,
		MaxSteps:   50,
	}
}

// FromEnv returns Default overridden by the environment.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	c := Default()
	ints := map[string]*int{
		"TRUSTEES":  &c.Trustees,
		"THRESHOLD": &c.Threshold,
		"BALLOTS":   &c.Ballots,
		"MAX_STEPS": &c.MaxSteps,
	}
	for name, dst := range ints {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, errors.Wrapf(err, "%s%s", EnvPrefix, name)
		}
		*dst = n
	}
	strs := map[string]*string{
		"SUITE":       &c.Suite,
		"LISTEN_ADDR": &c.ListenAddr,
		"LOG_LEVEL":   &c.LogLevel,
	}
	for name, dst := range strs {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	if v, ok := lookup(EnvPrefix + "LOG_JSON"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c, errors.Wrapf(err, "%sLOG_JSON", EnvPrefix)
		}
		c.LogJSON = b
	}
	return c, nil
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Trustees < 1 || c.Trustees > protocol.MaxTrustees {
		return errors.Errorf("trustees = %d, must be in [1, %d]", c.Trustees, protocol.MaxTrustees)
	}
	if c.Threshold < 1 || c.Threshold > c.Trustees {
		return errors.Errorf("threshold = %d, must be in [1, %d]", c.Threshold, c.Trustees)
	}
	if c.Ballots < 1 {
		return errors.Errorf("ballots = %d, must be at least 1", c.Ballots)
	}
	if c.MaxSteps < 1 {
		return errors.Errorf("max steps = %d, must be at least 1", c.MaxSteps)
	}
	if _, err := suite.New(c.Suite); err != nil {
		return err
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log level")
	}
	return nil
}

// Logger returns a logger writing to w at the configured level, as JSON or
// for a console.
func (c Config) Logger(w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.Nop(), errors.Wrap(err, "log level")
	}
	if !c.LogJSON {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
