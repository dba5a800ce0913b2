package cli

import (
	"fmt"

	"github.com/mvp-joe/cratedoc/internal/cache"
	"github.com/mvp-joe/cratedoc/internal/config"
	"github.com/mvp-joe/cratedoc/internal/docs"
	"github.com/mvp-joe/cratedoc/internal/index"
	"github.com/mvp-joe/cratedoc/internal/toolchain"
)

// newService wires a documentation service from the loaded configuration.
// Every command goes through here so they all see the same cache store and
// toolchain selection.
func newService() (*docs.Service, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	walker, err := index.NewWalker(cfg.Index.Ignore)
	if err != nil {
		return nil, nil, err
	}

	store := cache.NewStore(cfg.Cache.Path)
	tc := toolchain.NewCargo(cfg.Toolchain.Cargo)

	svc, err := docs.NewService(store, tc, walker)
	if err != nil {
		return nil, nil, err
	}
	if err := svc.Initialize(); err != nil {
		return nil, nil, err
	}

	return svc, cfg, nil
}
