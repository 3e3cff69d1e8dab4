package solver

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kianfelka-ship-it/D-ngerechner-Resp/internal/domain"
)

// Config bounds the search and defines the acceptance policy. Every limit here
// also guarantees termination: the solver runs at most MaxProducts selection
// rounds, each with a bounded NNLS fit.
type Config struct {
	// MaxProducts caps simultaneously dosed products, to keep the recipe
	// practical for a human to mix.
	MaxProducts int `json:"max_products"`
	// DoseStep is the practical dose granularity. Fitting runs in continuous
	// space; rounding happens once, at the very end. Doses rounding to zero
	// are dropped.
	DoseStep float64 `json:"dose_step"`
	// MaxMeanDeviation is the accepted weighted mean relative deviation over
	// targeted nutrients.
	MaxMeanDeviation float64 `json:"max_mean_deviation"`
	// MaxNutrientDeviation is the accepted relative deviation for any single
	// targeted nutrient. A nutrient no product supplies sits near 1.0 and
	// fails this cap.
	MaxNutrientDeviation float64 `json:"max_nutrient_deviation"`
	// DefaultWeights apply when the target carries no weights of its own.
	// Macros dominate; micros barely steer the fit.
	DefaultWeights domain.Profile `json:"default_weights"`
}

func DefaultConfig() Config {
	return Config{
		MaxProducts:          4,
		DoseStep:             0.1,
		MaxMeanDeviation:     0.25,
		MaxNutrientDeviation: 0.60,
		DefaultWeights: domain.Profile{
			N: 1.0, P: 1.0, K: 1.0, Ca: 0.8, Mg: 0.8, S: 0.5,
			Fe: 0.1, Mn: 0.05, Zn: 0.05, Cu: 0.05, B: 0.05, Mo: 0.02,
		},
	}
}

// LoadConfigFromFile loads solver settings from a JSON file, falling back to
// defaults on read errors.
func LoadConfigFromFile(path string) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read solver config: %w", err)
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal solver config: %w", err)
	}
	if cfg.MaxProducts <= 0 {
		cfg.MaxProducts = DefaultConfig().MaxProducts
	}
	if cfg.DoseStep <= 0 {
		cfg.DoseStep = DefaultConfig().DoseStep
	}
	return cfg, nil
}
