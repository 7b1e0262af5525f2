package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/embedchat/widget-runtime/internal/config"
	"github.com/embedchat/widget-runtime/internal/db"
	"github.com/embedchat/widget-runtime/internal/session"
)

var (
	fetchFrom string // base URL of a running widget host, empty for local config
	storePath string // SQLite file for session persistence, empty for in-memory
)

// loadWidgetConfig resolves the widget configuration: from the local
// config file, or from a remote widget host when --from is set. The
// remote path still reads the local file for the widget id.
func loadWidgetConfig() (*config.WidgetConfig, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `widgetd init` to create a config file", err)
	}
	if fetchFrom == "" {
		return cfg, nil
	}

	if cfg.Connection.WidgetID == "" {
		return nil, fmt.Errorf("connection.widget_id is required to fetch config from %s", fetchFrom)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	client := &http.Client{Timeout: 15 * time.Second}
	remote, err := config.Fetch(ctx, client, fetchFrom, cfg.Connection.WidgetID)
	if err != nil {
		return nil, fmt.Errorf("fetching config from %s: %w", fetchFrom, err)
	}
	return remote, nil
}

// openStorage opens the session store. The returned DB is nil for the
// in-memory store; the caller closes it otherwise.
func openStorage() (session.Storage, *db.DB, error) {
	if storePath == "" {
		return session.NewMemoryStorage(), nil, nil
	}
	database, err := db.Open(storePath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening session store: %w", err)
	}
	return session.NewDBStorage(database), database, nil
}
