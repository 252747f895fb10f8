package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/abenezerh/birr/internal/gateway"
	"github.com/abenezerh/birr/internal/service"
	"github.com/abenezerh/birr/internal/storage"
)

func newTransport() *gateway.HTTPTransport {
	return gateway.NewHTTPTransport(
		viper.GetString("api.base_url"),
		viper.GetDuration("api.timeout"),
	)
}

// openHistory opens the attempt log. A broken store degrades to no history
// rather than blocking verification.
func openHistory() service.HistoryStore {
	store, err := storage.NewSQLiteHistory(historyDBPath())
	if err != nil {
		slog.Warn("history store unavailable, attempts will not be recorded", "error", err)
		return nil
	}
	return store
}

func historyDBPath() string {
	if path := viper.GetString("history.db_path"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "birr-history.db"
	}
	return filepath.Join(home, ".config", "birr", "history.db")
}

func closeHistory(store service.HistoryStore) {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		slog.Warn("failed to close history store", "error", err)
	}
}
