// Package storage selects the account store backend from configuration.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/banksampah/internal/config"
	"github.com/polkiloo/banksampah/internal/domain/repository"
	"github.com/polkiloo/banksampah/internal/storage/file"
	"github.com/polkiloo/banksampah/internal/storage/postgres"
)

// Module provides repository.AccountStore for the configured driver.
var Module = fx.Provide(newAccountStore)

type storeParams struct {
	fx.In

	Ctx       context.Context
	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newAccountStore(p storeParams) (repository.AccountStore, error) {
	switch p.Config.StoreDriver {
	case config.StoreDriverFile:
		p.Logger.Info("using file account store", slog.String("path", p.Config.StorePath))
		return file.New(p.Config.StorePath, p.Logger), nil
	case config.StoreDriverPostgres:
		storage, err := postgres.New(p.Ctx, p.Config.DatabaseURI, p.Logger)
		if err != nil {
			return nil, err
		}
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				storage.Close()
				return nil
			},
		})
		p.Logger.Info("using postgres account store")
		return storage, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", p.Config.StoreDriver)
	}
}
