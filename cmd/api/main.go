package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	httpapi "github.com/kianfelka-ship-it/D-ngerechner-Resp/internal/http"
	"github.com/kianfelka-ship-it/D-ngerechner-Resp/internal/nutrient"
	"github.com/kianfelka-ship-it/D-ngerechner-Resp/internal/solver"
	"github.com/kianfelka-ship-it/D-ngerechner-Resp/internal/storage"
)

type Config struct {
	Address          string
	DBPath           string
	CatalogPath      string
	CalcConfigPath   string
	SolverConfigPath string
}

func main() {
	_ = godotenv.Load()
	cfg := loadConfig()
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Error("open store", "err", err)
		os.Exit(1)
	}
	defer store.Close()

	// Seed the product table from the JSON catalog on first run.
	if n, err := store.CountProducts(); err == nil && n == 0 {
		catalog, err := storage.LoadCatalogFromFile(cfg.CatalogPath)
		if err != nil {
			log.Warn("catalog not seeded", "err", err)
		} else if err := store.SeedProducts(catalog); err != nil {
			log.Error("seed products", "err", err)
			os.Exit(1)
		} else {
			log.Info("catalog seeded", "products", len(catalog))
		}
	}

	calcCfg, err := nutrient.LoadConfigFromFile(cfg.CalcConfigPath)
	if err != nil {
		log.Info("using default calculator config", "reason", err)
	}
	solverCfg, err := solver.LoadConfigFromFile(cfg.SolverConfigPath)
	if err != nil {
		log.Info("using default solver config", "reason", err)
	}

	calc := nutrient.NewCalculator(calcCfg)
	solv := solver.New(calc, solverCfg)
	srv := httpapi.NewServer(calc, solv, store, log)

	httpServer := &http.Server{
		Addr:              cfg.Address,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info("API listening", "addr", cfg.Address)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", "err", err)
		os.Exit(1)
	}
}

func loadConfig() Config {
	return Config{
		Address:          getEnv("API_ADDRESS", ":8080"),
		DBPath:           getEnv("DB_PATH", "data/duenger.db"),
		CatalogPath:      getEnv("CATALOG_PATH", "data/catalog.json"),
		CalcConfigPath:   getEnv("CALC_CONFIG_PATH", "configs/calculator.json"),
		SolverConfigPath: getEnv("SOLVER_CONFIG_PATH", "configs/solver.json"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
