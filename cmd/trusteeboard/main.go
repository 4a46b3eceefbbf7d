package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/f3rmion/trusteeboard/cmd/run"
	"github.com/f3rmion/trusteeboard/cmd/serve"
	"github.com/f3rmion/trusteeboard/config"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read environment")
	}

	root := &cobra.Command{
		Use:   "trusteeboard",
		Short: "Simulated bulletin board for threshold-decryption voting rounds",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cfg.Validate()
		},
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.IntVarP(&cfg.Trustees, "trustees", "n", cfg.Trustees, "Number of trustees")
	flags.IntVarP(&cfg.Threshold, "threshold", "t", cfg.Threshold, "Trustees needed to decrypt")
	flags.StringVar(&cfg.Suite, "suite", cfg.Suite, "Cryptographic suite")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	flags.BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "Log as JSON instead of console output")

	root.AddCommand(serve.New(&cfg))
	root.AddCommand(run.New(&cfg))

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
