package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/feedbackhub/portal/internal/stubapi"
)

var stubCmd = &cobra.Command{
	Use:   "stubapi",
	Short: "Run the in-memory feedback API for local development",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setUp("feedback-stubapi")
		if err != nil {
			return err
		}

		store := stubapi.NewStore()
		if cfg.Stub.Seed {
			if err := stubapi.Seed(store); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			log.Info().Str("password", stubapi.SeedPassword).Msg("seeded demo accounts")
		}

		e := stubapi.New(store, stubapi.Options{
			JWTSecret:    cfg.Stub.JWTSecret,
			TokenTTL:     cfg.Stub.TokenTTL,
			AllowOrigins: cfg.Stub.AllowOrigins,
		}, log)
		return serve(cmd.Context(), e, ":"+cfg.Stub.Port, log)
	},
}
