package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/dig"

	"wallet/internal/backend"
	"wallet/internal/blob"
	"wallet/internal/config"
	"wallet/internal/core"
	"wallet/internal/ledger"
	"wallet/internal/log"
)

// Injector is a function that will inject desired services
// to a target function
type Injector func(function interface{}) error

// BootstrapServices setup di container with all app services. The ledger
// store is loaded from its backend the first time it is injected.
func BootstrapServices(ctx context.Context, appCfg *config.Config, logger *log.Logger) Injector {
	c := dig.New()

	c.Provide(func() *config.Config {
		return appCfg
	})

	c.Provide(func() *log.Logger {
		return logger
	})

	c.Provide(func(logger *log.Logger) backend.Factory {
		return backend.NewFactory(logger)
	})

	c.Provide(func(cfg *config.Config, factory backend.Factory) (*backend.BackendResult, error) {
		backendCfg, err := backend.FromAppConfig(cfg)
		if err != nil {
			return nil, err
		}
		return factory.CreateBackend(ctx, backendCfg)
	})

	c.Provide(func(result *backend.BackendResult) blob.Store {
		return result.Store
	})

	c.Provide(func(cfg *config.Config, blobs blob.Store, logger *log.Logger) (*ledger.Store, error) {
		cents, err := cfg.OpeningBalanceCents()
		if err != nil {
			return nil, fmt.Errorf("opening balance: %w", err)
		}
		store := ledger.New(blobs,
			ledger.WithLogger(logger),
			ledger.WithDefaultOpeningBalance(core.Money{Cents: cents}),
		)
		if err := store.Load(log.NewContext(ctx, logger)); err != nil {
			return nil, err
		}
		return store, nil
	})

	return func(function interface{}) error {
		return c.Invoke(function)
	}
}

// RunWithStore hands the loaded ledger store to fn. The backend is resolved
// first and closed when RunWithStore returns, including when the store
// fails to load.
func RunWithStore(inject Injector, fn func(*ledger.Store) error) (err error) {
	var result *backend.BackendResult
	if err := inject(func(r *backend.BackendResult) { result = r }); err != nil {
		return err
	}
	defer func() {
		if cerr := result.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close backend: %w", cerr))
		}
	}()

	return inject(fn)
}
