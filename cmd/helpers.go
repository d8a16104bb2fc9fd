package cmd

import (
	"fmt"

	"github.com/0xsch1zo/celeris/internal/config"
	"github.com/0xsch1zo/celeris/internal/layout"
	"github.com/0xsch1zo/celeris/internal/sessions"
	"github.com/0xsch1zo/celeris/internal/state"
	"github.com/0xsch1zo/celeris/internal/tmux"
)

// setup wires the layers together for a command invocation. The returned
// close func releases the state store.
func setup() (*sessions.Manager, func(), error) {
	dirs, err := config.NewDirs(configDirFlag, cacheDirFlag)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(dirs)
	if err != nil {
		return nil, nil, err
	}

	layouts, err := layout.NewManager(dirs.LayoutsDir())
	if err != nil {
		return nil, nil, err
	}

	store, err := state.Open(dirs.CacheDir())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open the state store: %w", err)
	}

	run, err := tmux.NewCommandRunner()
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	manager := sessions.NewManager(run, layouts, cfg, store)
	return manager, func() { store.Close() }, nil
}

func loadConfig() (*config.Config, error) {
	dirs, err := config.NewDirs(configDirFlag, cacheDirFlag)
	if err != nil {
		return nil, err
	}
	return config.Load(dirs)
}
