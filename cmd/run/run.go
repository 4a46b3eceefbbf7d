package run

import (
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/f3rmion/trusteeboard/config"
	"github.com/f3rmion/trusteeboard/session"
	"github.com/f3rmion/trusteeboard/suite"
)

// ErrMismatch is returned when the decrypted plaintexts differ from the
// ones encrypted.
var ErrMismatch = errors.New("plaintexts do not match")

// New returns the command running one session to completion.
func New(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a full round without a server and check the plaintexts",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := cfg.Logger(os.Stderr)
			if err != nil {
				return err
			}
			s, err := suite.New(cfg.Suite)
			if err != nil {
				return err
			}
			orch, err := session.New(s, cfg.Trustees, cfg.Threshold, session.WithLogger(logger))
			if err != nil {
				return err
			}
			return Round(orch, cfg.Ballots, cfg.MaxSteps, logger)
		},
	}
	cmd.Flags().IntVarP(&cfg.Ballots, "ballots", "b", cfg.Ballots, "Number of ballots to cast")
	cmd.Flags().IntVar(&cfg.MaxSteps, "max-steps", cfg.MaxSteps, "Give up after this many steps")
	return cmd
}

// Round steps every trustee until the public key exists, casts ballots,
// then steps until the plaintexts are recovered. It fails if that takes
// more than maxSteps steps or the plaintexts differ.
func Round(orch *session.Orchestrator, ballots, maxSteps int, logger zerolog.Logger) error {
	cast := false
	for step := 1; step <= maxSteps; step++ {
		info, err := orch.Step(session.SelectAll)
		if err != nil {
			return err
		}
		logger.Info().Int("step", step).Msg(info.Log)

		if info.PlaintextsMatch != nil {
			if !*info.PlaintextsMatch {
				return ErrMismatch
			}
			return nil
		}
		if !cast {
			info, err = orch.Ballots(ballots)
			if err != nil {
				return err
			}
			logger.Info().Int("step", step).Msg(info.Log)
			cast = len(info.LastMessages) == 1 && info.LastMessages[0].Type == "Ballots"
		}
	}
	return errors.Errorf("no plaintexts after %d steps", maxSteps)
}
