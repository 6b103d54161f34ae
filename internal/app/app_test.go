package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/banksampah/internal/config"
	domainErrors "github.com/polkiloo/banksampah/internal/domain/errors"
	"github.com/polkiloo/banksampah/internal/domain/model"
	testhelpers "github.com/polkiloo/banksampah/internal/test"
	"github.com/polkiloo/banksampah/internal/worker"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type lifecycleFixture struct {
	recorder   *testhelpers.LifecycleRecorder
	shutdowner *testhelpers.ShutdownerStub
	store      *testhelpers.AccountStoreStub
	facade     *LedgerFacade
}

func newLifecycleFixture(t *testing.T, store *testhelpers.AccountStoreStub, server *http.Server, cfg *config.Config) *lifecycleFixture {
	t.Helper()
	facade, _ := newFacade(store)
	f := &lifecycleFixture{
		recorder:   &testhelpers.LifecycleRecorder{},
		shutdowner: &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)},
		store:      store,
		facade:     facade,
	}
	registerLifecycle(lifecycleParams{
		Lifecycle:  f.recorder,
		Shutdowner: f.shutdowner,
		Logger:     discardLogger(),
		Server:     server,
		Worker:     worker.NewSnapshotFlusher(facade, 10*time.Millisecond, discardLogger()),
		Facade:     facade,
		Config:     cfg,
	})
	if len(f.recorder.Hooks) != 1 {
		t.Fatalf("expected one hook registered, got %d", len(f.recorder.Hooks))
	}
	return f
}

func TestNewHTTPServer(t *testing.T) {
	cfg := &config.Config{RunAddress: ":9999"}
	router := gin.New()
	server := newHTTPServer(serverParams{Config: cfg, Router: router})
	if server.Addr != ":9999" {
		t.Fatalf("expected address :9999, got %q", server.Addr)
	}
	if server.Handler != router {
		t.Fatalf("expected handler to be router")
	}
}

func TestNewSnapshotFlusherUsesConfig(t *testing.T) {
	facade, _ := newFacade(&testhelpers.AccountStoreStub{})
	flusher := newSnapshotFlusher(workerParams{
		Facade: facade,
		Config: &config.Config{FlushInterval: 15 * time.Second},
		Logger: discardLogger(),
	})
	if flusher == nil {
		t.Fatal("expected snapshot flusher instance")
	}
}

func TestRegisterLifecycleStartStop(t *testing.T) {
	store := &testhelpers.AccountStoreStub{Stored: &model.Snapshot{Accounts: []*model.Account{
		{Name: "Aiko", Balance: 70, History: []model.Transaction{model.NewDepositTransaction("plastik", 2, 70)}},
	}}}
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}
	f := newLifecycleFixture(t, store, server, &config.Config{ShutdownTimeout: 100 * time.Millisecond})

	hook := f.recorder.Hooks[0]
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := hook.OnStart(ctx); err != nil {
		t.Fatalf("on start failed: %v", err)
	}
	if balance, err := f.facade.Balance(ctx, "Aiko"); err != nil || balance != 70 {
		t.Fatalf("expected restored balance 70, got %v %v", balance, err)
	}

	done := make(chan error, 1)
	go func() { done <- hook.OnStop(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("on stop failed: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("expected on stop to finish")
	}
}

func TestRegisterLifecycleCorruptStore(t *testing.T) {
	corrupt := func(context.Context) (*model.Snapshot, error) {
		return model.NewSnapshot(), fmt.Errorf("%w: moved aside", domainErrors.ErrPersistenceCorrupt)
	}

	t.Run("lenient", func(t *testing.T) {
		store := &testhelpers.AccountStoreStub{LoadFn: corrupt}
		server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}
		f := newLifecycleFixture(t, store, server, &config.Config{ShutdownTimeout: 100 * time.Millisecond})

		hook := f.recorder.Hooks[0]
		if err := hook.OnStart(context.Background()); err != nil {
			t.Fatalf("expected startup to continue, got %v", err)
		}
		accounts, _ := f.facade.Accounts(context.Background())
		if len(accounts) != 0 {
			t.Fatalf("expected empty ledger, got %+v", accounts)
		}
		_ = hook.OnStop(context.Background())
	})

	t.Run("strict", func(t *testing.T) {
		store := &testhelpers.AccountStoreStub{LoadFn: corrupt}
		f := newLifecycleFixture(t, store, &http.Server{Addr: "127.0.0.1:0"}, &config.Config{StrictStore: true})

		if err := f.recorder.Hooks[0].OnStart(context.Background()); !errors.Is(err, domainErrors.ErrPersistenceCorrupt) {
			t.Fatalf("expected corrupt store to abort startup, got %v", err)
		}
	})
}

func TestRegisterLifecycleReadFailureAbortsStartup(t *testing.T) {
	readErr := errors.New("permission denied")
	store := &testhelpers.AccountStoreStub{LoadFn: func(context.Context) (*model.Snapshot, error) { return nil, readErr }}
	f := newLifecycleFixture(t, store, &http.Server{Addr: "127.0.0.1:0"}, &config.Config{})

	if err := f.recorder.Hooks[0].OnStart(context.Background()); !errors.Is(err, readErr) {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestRegisterLifecycleFlushesPendingOnStop(t *testing.T) {
	store := &testhelpers.AccountStoreStub{}
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}
	f := newLifecycleFixture(t, store, server, &config.Config{ShutdownTimeout: 100 * time.Millisecond})

	hook := f.recorder.Hooks[0]
	if err := hook.OnStart(context.Background()); err != nil {
		t.Fatalf("on start failed: %v", err)
	}

	store.SetSaveErr(errors.New("disk full"))
	if _, err := f.facade.CreateAccount(context.Background(), "Aiko"); !errors.Is(err, domainErrors.ErrPersistenceWrite) {
		t.Fatalf("expected write failure, got %v", err)
	}
	store.SetSaveErr(nil)

	if err := hook.OnStop(context.Background()); err != nil {
		t.Fatalf("on stop failed: %v", err)
	}
	stored := store.StoredSnapshot()
	if stored == nil || len(stored.Accounts) != 1 || stored.Accounts[0].Name != "Aiko" {
		t.Fatalf("expected pending account to be flushed on stop, got %+v", stored)
	}
}

func TestRegisterLifecycleReportsFinalFlushFailure(t *testing.T) {
	store := &testhelpers.AccountStoreStub{}
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}
	f := newLifecycleFixture(t, store, server, &config.Config{ShutdownTimeout: 100 * time.Millisecond})

	hook := f.recorder.Hooks[0]
	if err := hook.OnStart(context.Background()); err != nil {
		t.Fatalf("on start failed: %v", err)
	}
	store.SetSaveErr(errors.New("disk full"))
	_, _ = f.facade.CreateAccount(context.Background(), "Aiko")

	if err := hook.OnStop(context.Background()); !errors.Is(err, domainErrors.ErrPersistenceWrite) {
		t.Fatalf("expected final flush error, got %v", err)
	}
}

func TestRegisterLifecycleShutdownOnServerError(t *testing.T) {
	f := newLifecycleFixture(t, &testhelpers.AccountStoreStub{}, &http.Server{Addr: "bad addr"}, &config.Config{ShutdownTimeout: time.Second})

	hook := f.recorder.Hooks[0]
	if err := hook.OnStart(context.Background()); err != nil {
		t.Fatalf("on start returned error: %v", err)
	}

	select {
	case <-f.shutdowner.Called:
	case <-time.After(time.Second):
		t.Fatal("expected shutdown to be triggered on server error")
	}

	_ = hook.OnStop(context.Background())
}

func TestLifecycleRecorderAppend(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	recorder.Append(fx.Hook{})
	if len(recorder.Hooks) != 1 {
		t.Fatalf("expected hook to be appended")
	}
}

func TestShutdownerStub(t *testing.T) {
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	if err := shutdowner.Shutdown(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	select {
	case <-shutdowner.Called:
	default:
		t.Fatal("expected shutdown notification")
	}
}
