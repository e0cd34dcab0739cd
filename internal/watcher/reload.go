package watcher

import (
	"context"
	"log"
	"time"

	"forcemap/internal/config"
	"forcemap/internal/editor"
	"forcemap/internal/interaction"
	"forcemap/internal/store"
)

// reloadTimeout bounds how long a reload waits for the session
const reloadTimeout = 5 * time.Second

// Reconfigurer applies the reloadable parts of the configuration
type Reconfigurer interface {
	Reconfigure(ctx context.Context, forces editor.ForceOptions, inter interaction.Options, restore store.RestoreOptions) error
}

// ConfigReloader returns a callback that re-reads the config file at path
// and pushes its force, interaction and load settings to target. A file
// that fails to parse or validate is logged and the running settings stay.
func ConfigReloader(ctx context.Context, path string, target Reconfigurer) func() {
	return func() {
		cfg, _, err := config.LoadFromPath(path)
		if err != nil {
			log.Printf("Config reload failed, keeping current settings: %v", err)
			return
		}

		ctx, cancel := context.WithTimeout(ctx, reloadTimeout)
		defer cancel()
		if err := target.Reconfigure(ctx, cfg.ForceOptions(), cfg.InteractionOptions(), cfg.RestoreOptions()); err != nil {
			log.Printf("Config reload failed: %v", err)
			return
		}
		log.Printf("Config reloaded from %s", path)
	}
}

// WatchConfig reloads the config at path into target whenever it changes.
// It blocks until ctx is cancelled.
func WatchConfig(ctx context.Context, path string, target Reconfigurer) error {
	return New(path, ConfigReloader(ctx, path, target)).Watch(ctx)
}
