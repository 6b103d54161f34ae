package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/banksampah/internal/config"
	domainErrors "github.com/polkiloo/banksampah/internal/domain/errors"
	"github.com/polkiloo/banksampah/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewLedgerFacade,
		newHTTPServer,
		newSnapshotFlusher,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type workerParams struct {
	fx.In

	Facade *LedgerFacade
	Config *config.Config
	Logger *slog.Logger
}

func newSnapshotFlusher(p workerParams) *worker.SnapshotFlusher {
	return worker.NewSnapshotFlusher(p.Facade, p.Config.FlushInterval, p.Logger)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Worker     *worker.SnapshotFlusher
	Facade     *LedgerFacade
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := p.Facade.Restore(ctx); err != nil {
				if !errors.Is(err, domainErrors.ErrPersistenceCorrupt) || p.Config.StrictStore {
					return fmt.Errorf("restore accounts: %w", err)
				}
				p.Logger.Warn("continuing with an empty ledger", slog.String("error", err.Error()))
			}

			p.Logger.Info("starting banksampah", slog.String("addr", p.Server.Addr), slog.String("store", p.Config.StoreDriver))
			// The start context expires once startup completes.
			p.Worker.Start(context.WithoutCancel(ctx))
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			var errs []error
			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errs = append(errs, err)
			}

			p.Worker.Stop()
			if err := p.Facade.FlushSnapshot(shutdownCtx); err != nil {
				p.Logger.Error("final snapshot flush failed", slog.String("error", err.Error()))
				errs = append(errs, err)
			}

			p.Logger.Info("banksampah stopped")
			return errors.Join(errs...)
		},
	})
}
