package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/feedbackhub/portal/internal/api"
	"github.com/feedbackhub/portal/internal/api/handler"
	"github.com/feedbackhub/portal/internal/api/view"
	"github.com/feedbackhub/portal/internal/core/ports"
	"github.com/feedbackhub/portal/internal/core/service"
	"github.com/feedbackhub/portal/internal/infrastructure/apiclient"
	"github.com/feedbackhub/portal/internal/infrastructure/db/memory"
	mongodb "github.com/feedbackhub/portal/internal/infrastructure/db/mongo"
	redisdb "github.com/feedbackhub/portal/internal/infrastructure/db/redis"
	"github.com/feedbackhub/portal/internal/pkg/config"
	"github.com/feedbackhub/portal/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the feedback portal web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, log, err := setUp("feedback-portal")
		if err != nil {
			return err
		}

		tokens, closeTokens, err := openTokenStore(ctx, cfg, logger.Component(log, "tokenstore"))
		if err != nil {
			return err
		}
		defer closeTokens()

		client := apiclient.New(cfg.API.BaseURL, log, apiclient.WithTimeout(cfg.API.Timeout))
		sessions := service.NewRegistry(client, tokens, logger.Component(log, "sessions"), service.RegistryOptions{
			IdleTTL:        cfg.Session.IdleTTL,
			ResolveTimeout: cfg.Session.ResolveTimeout,
		})
		go sessions.Run(ctx)

		e := api.NewRouter(api.Deps{
			Sessions: sessions,
			Renderer: view.MustNew(),
			Log:      log,
			Checks: map[string]handler.Pinger{
				"token_store": tokens,
				"backend":     client,
			},
			CookieSecure:   cfg.Session.CookieSecure,
			ResolveTimeout: cfg.Session.ResolveTimeout,
		})

		log.Info().
			Str("backend", client.BaseURL()).
			Str("token_store", cfg.Tokens.Kind).
			Msg("portal configured")
		return serve(ctx, e, ":"+cfg.Port, log)
	},
}

// openTokenStore connects the store named by TOKEN_STORE. The returned
// func releases its connection.
func openTokenStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.TokenStore, func(), error) {
	switch cfg.Tokens.Kind {
	case config.StoreRedis:
		client, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("token store: redis")
		return redisdb.NewTokenStore(client, cfg.Tokens.TTL), func() { _ = client.Close() }, nil

	case config.StoreMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, nil, err
		}
		store := mongodb.NewTokenStore(db, cfg.Tokens.TTL)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, fmt.Errorf("mongo indexes: %w", err)
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("token store: mongo")
		return store, func() { _ = client.Disconnect(context.Background()) }, nil

	case config.StoreMemory:
		log.Info().Msg("token store: memory")
		return memory.NewTokenStore(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown token store %q", cfg.Tokens.Kind)
}
