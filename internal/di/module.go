package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/banksampah/internal/app"
	"github.com/polkiloo/banksampah/internal/config"
	"github.com/polkiloo/banksampah/internal/domain/catalog"
	"github.com/polkiloo/banksampah/internal/logger"
	"github.com/polkiloo/banksampah/internal/metrics"
	"github.com/polkiloo/banksampah/internal/server/http/handlers"
	"github.com/polkiloo/banksampah/internal/server/http/router"
	"github.com/polkiloo/banksampah/internal/storage"
	"github.com/polkiloo/banksampah/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		metrics.Module,
		storage.Module,
		catalog.Module,
		usecase.Module,
		fx.Provide(func(facade *app.LedgerFacade) handlers.LedgerFacade { return facade }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
