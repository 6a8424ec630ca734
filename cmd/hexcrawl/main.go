// Command hexcrawl hosts the realm map: it opens the kingdom store, seeds a
// generated realm on first run, regenerates terrain-locked swamp features,
// and serves the state and path queries over HTTP.
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/caarlos0/env/v11"

	"github.com/talgya/hexcrawl/internal/api"
	"github.com/talgya/hexcrawl/internal/hexgrid"
	"github.com/talgya/hexcrawl/internal/kingdom"
	"github.com/talgya/hexcrawl/internal/water"
	"github.com/talgya/hexcrawl/internal/worldgen"
)

type config struct {
	DBPath   string `env:"HEXCRAWL_DB" envDefault:"data/realm.db"`
	Port     int    `env:"HEXCRAWL_PORT" envDefault:"8080"`
	AdminKey string `env:"HEXCRAWL_ADMIN_KEY"`
	Seed     int64  `env:"HEXCRAWL_SEED" envDefault:"42"`
	Rows     int    `env:"HEXCRAWL_ROWS" envDefault:"30"`
	Cols     int    `env:"HEXCRAWL_COLS" envDefault:"40"`
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		slog.Error("parse config", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		slog.Error("create data dir", "error", err)
		os.Exit(1)
	}
	store, err := kingdom.Open(cfg.DBPath)
	if err != nil {
		slog.Error("open realm store", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("realm store opened", "path", cfg.DBPath)

	// Seed a generated realm on first run; loaded realms keep their terrain.
	if len(store.Document().Hexes) == 0 {
		slog.Info("empty realm, generating terrain", "seed", cfg.Seed, "rows", cfg.Rows, "cols", cfg.Cols)
		genCfg := worldgen.DefaultConfig()
		genCfg.Seed = cfg.Seed
		genCfg.Rows = cfg.Rows
		genCfg.Cols = cfg.Cols
		hexes := worldgen.Generate(genCfg)
		err := store.UpdateDocument(func(d *kingdom.Document) (bool, error) {
			d.Name = "hexcrawl realm"
			d.Hexes = hexes
			return true, nil
		})
		if err != nil {
			slog.Error("seed realm", "error", err)
			os.Exit(1)
		}
	}
	slog.Info("realm loaded", "hexes", len(store.Document().Hexes))

	svc := water.NewService(store)
	added, err := svc.EnsureSwampFeatures()
	if err != nil {
		slog.Error("ensure swamp features", "error", err)
		os.Exit(1)
	}
	slog.Info("swamp features ensured", "added", added)

	if cfg.AdminKey == "" {
		slog.Warn("HEXCRAWL_ADMIN_KEY not set, feature toggling over HTTP is disabled")
	}

	grid := hexgrid.NewGrid(cfg.Rows, cfg.Cols)
	server := &api.Server{
		Store:    store,
		Water:    svc,
		Topo:     grid,
		Port:     cfg.Port,
		AdminKey: cfg.AdminKey,
	}
	server.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)
}
