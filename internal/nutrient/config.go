package nutrient

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kianfelka-ship-it/D-ngerechner-Resp/internal/domain"
)

// Missing-product policies for catalog lookups during Compute.
const (
	MissingSkip  = "skip"  // unknown product contributes zero
	MissingError = "error" // unknown product fails the computation
)

// RatioRule checks the ratio of two nutrients against a safe range. The rule
// is skipped while the denominator is below MinDen, so near-zero solutions
// don't produce noise.
type RatioRule struct {
	Kind   string  `json:"kind"`
	Num    string  `json:"num"`
	Den    string  `json:"den"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	MinDen float64 `json:"min_den"`
}

// Config carries the domain heuristics of the calculator: the EC conversion
// factors, the acceptable EC range, and the ratio rules. These are deliberately
// data, not code.
type Config struct {
	// ECFactors approximate specific conductance per nutrient, in µS/cm
	// contributed per mg/L. The estimate is a weighted sum over the profile,
	// scaled to mS/cm; it is an estimate, not a lab EC.
	ECFactors domain.Profile `json:"ec_factors"`
	MinEC     float64        `json:"min_ec"` // mS/cm, 0 disables the low check
	MaxEC     float64        `json:"max_ec"` // mS/cm, 0 disables the high check
	Ratios    []RatioRule    `json:"ratios"`
	// MissingProduct is "skip" or "error"; see Compute.
	MissingProduct string `json:"missing_product"`
}

// DefaultConfig returns the baseline heuristics. The conductance factors put a
// full vegetative feed (~600 ppm of dissolved nutrients) around 1.6 mS/cm.
func DefaultConfig() Config {
	return Config{
		ECFactors: domain.Profile{
			N: 4.3, P: 1.3, K: 1.9, Ca: 2.6, Mg: 3.8, S: 1.5,
			Fe: 1.0, Mn: 1.0, Zn: 1.0, Cu: 1.0, B: 0.6, Mo: 0.8,
		},
		MinEC: 0.4,
		MaxEC: 3.0,
		Ratios: []RatioRule{
			{Kind: domain.WarnRatioImbalance, Num: "N", Den: "K", Min: 0.5, Max: 1.5, MinDen: 20},
			{Kind: domain.WarnRatioImbalance, Num: "Ca", Den: "Mg", Min: 2.0, Max: 6.0, MinDen: 10},
		},
		MissingProduct: MissingSkip,
	}
}

// LoadConfigFromFile loads calculator heuristics from a JSON file, falling
// back to defaults on read errors.
func LoadConfigFromFile(path string) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read calculator config: %w", err)
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal calculator config: %w", err)
	}
	if cfg.MissingProduct == "" {
		cfg.MissingProduct = MissingSkip
	}
	return cfg, nil
}
