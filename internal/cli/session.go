package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/rileyhilliard/vitals/internal/config"
	"github.com/rileyhilliard/vitals/internal/errors"
	"github.com/rileyhilliard/vitals/internal/logger"
	"github.com/rileyhilliard/vitals/internal/ranges"
)

// applyStreamOverrides applies --url and --env on top of the loaded config.
func applyStreamOverrides(cfg *config.Config, url, env string) error {
	if env != "" {
		upper := strings.ToUpper(strings.TrimSpace(env))
		if upper != config.EnvProd && upper != config.EnvDev {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Unknown environment '%s'", env),
				"Use --env prod or --env dev.")
		}
		cfg.Environment = upper
	}
	if url != "" {
		cfg.Stream.URL = url
		cfg.Stream.Transport = config.TransportSocketIO
	}
	return nil
}

// openStore opens the configured backend and loads the persisted ranges.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (*ranges.Store, error) {
	backend, err := ranges.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrStorage,
			fmt.Sprintf("Couldn't open the %s range storage", cfg.Storage.Backend),
			"Check the storage section of your .vitals.yaml, or run 'vitals doctor'.")
	}

	store := ranges.NewStore(backend, ranges.WithKey(cfg.Storage.Key), ranges.WithLogger(log))
	store.Load(ctx)
	return store, nil
}
