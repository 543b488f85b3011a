package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/tripflow/internal/api"
	"github.com/nhle/tripflow/internal/app"
	"github.com/nhle/tripflow/internal/credential"
	"github.com/nhle/tripflow/internal/model"
	"github.com/nhle/tripflow/internal/planner"
	"github.com/nhle/tripflow/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tripflow: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := model.DefaultConfigPath()
	if p := os.Getenv("TRIPFLOW_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := model.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	token := resolveToken(cfg)
	client := api.NewClient(cfg.API.BaseURL, token)

	cache, err := store.NewSQLiteStore(cfg.Cache.Path)
	if err != nil {
		// The cache only backs offline reads; run without it rather
		// than refusing to start.
		fmt.Fprintf(os.Stderr, "tripflow: offline cache disabled: %v\n", err)
		cache = nil
	}
	if cache != nil {
		defer cache.Close()
	}

	var cacheStore store.Store
	if cache != nil {
		cacheStore = cache
	}
	session := planner.NewSession(client, cacheStore)

	program := tea.NewProgram(
		app.New(cfg, cfgPath, session, cacheStore),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}

// resolveToken picks the API token in precedence order: environment,
// system keyring, config file.
func resolveToken(cfg *model.AppConfig) string {
	if t := os.Getenv("TRIPFLOW_API_TOKEN"); t != "" {
		return t
	}
	if t, err := credential.Get(credential.TokenKey); err == nil && t != "" {
		return t
	}
	return cfg.API.Token
}
