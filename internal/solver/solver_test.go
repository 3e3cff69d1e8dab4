package solver

import (
	"math"
	"reflect"
	"testing"

	"github.com/kianfelka-ship-it/D-ngerechner-Resp/internal/domain"
	"github.com/kianfelka-ship-it/D-ngerechner-Resp/internal/nutrient"
)

func newTestSolver() *Solver {
	return New(nutrient.NewCalculator(nutrient.DefaultConfig()), DefaultConfig())
}

func TestSuggestTwoProducts(t *testing.T) {
	t.Parallel()
	s := newTestSolver()

	catalog := domain.Catalog{
		{Name: "A", Unit: "ml", Composition: domain.Profile{N: 10}},
		{Name: "B", Unit: "ml", Composition: domain.Profile{K: 20, Ca: 15}},
	}
	target := domain.Target{Profile: domain.Profile{N: 150, K: 200, Ca: 100}}
	water := domain.Profile{N: 5, K: 2, Ca: 10}

	doses, fit := s.Suggest(catalog, target, water, 100)
	if len(doses) != 2 {
		t.Fatalf("doses=%v want both products", doses)
	}
	if !fit.Accepted {
		t.Fatalf("fit not accepted: %+v", fit)
	}

	byName := map[string]float64{}
	for _, d := range doses {
		byName[d.Product] = d.Dose
	}
	if a := byName["A"]; math.Abs(a-14.5) > 0.2 {
		t.Fatalf("dose A=%v want ~14.5", a)
	}
	if b := byName["B"]; b < 8 || b > 11 {
		t.Fatalf("dose B=%v want within 8..11", b)
	}

	// Key macros land close to target.
	if n := fit.Achieved.Profile.N; math.Abs(n-150)/150 > 0.05 {
		t.Fatalf("achieved N=%v too far from 150", n)
	}
	if k := fit.Achieved.Profile.K; math.Abs(k-200)/200 > 0.20 {
		t.Fatalf("achieved K=%v too far from 200", k)
	}
}

func TestSuggestRoundTrip(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	calc := nutrient.NewCalculator(nutrient.DefaultConfig())
	s := New(calc, cfg)

	catalog := domain.Catalog{
		{Name: "A", Unit: "ml", Composition: domain.Profile{N: 10}},
		{Name: "B", Unit: "ml", Composition: domain.Profile{K: 20, Ca: 15}},
	}
	target := domain.Target{Profile: domain.Profile{N: 150, K: 200, Ca: 100}}
	water := domain.Profile{N: 5, K: 2, Ca: 10}

	doses, fit := s.Suggest(catalog, target, water, 100)
	if doses == nil {
		t.Fatal("no suggestion")
	}

	// Feeding the suggestion back through the calculator stays within the
	// solver's own acceptance tolerance.
	sol, err := calc.Compute(catalog, doses, water, 100)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if sol.Profile != fit.Achieved.Profile {
		t.Fatalf("recompute diverged: %+v vs %+v", sol.Profile, fit.Achieved.Profile)
	}
	if fit.MeanDeviation > cfg.MaxMeanDeviation || fit.MaxDeviation > cfg.MaxNutrientDeviation {
		t.Fatalf("accepted fit out of tolerance: %+v", fit)
	}
}

func TestSuggestUnreachableTarget(t *testing.T) {
	t.Parallel()
	s := newTestSolver()

	// No candidate supplies any iron.
	catalog := domain.Catalog{
		{Name: "A", Unit: "ml", Composition: domain.Profile{N: 10}},
		{Name: "B", Unit: "ml", Composition: domain.Profile{K: 20}},
	}
	target := domain.Target{
		Profile: domain.Profile{Fe: 2},
		Weights: domain.Profile{Fe: 1},
	}

	doses, fit := s.Suggest(catalog, target, domain.Profile{}, 100)
	if len(doses) != 0 {
		t.Fatalf("doses=%v want empty for unreachable target", doses)
	}
	if fit.Accepted {
		t.Fatal("unreachable target marked accepted")
	}
}

func TestSuggestEmptyTarget(t *testing.T) {
	t.Parallel()
	s := newTestSolver()

	catalog := domain.Catalog{{Name: "A", Unit: "ml", Composition: domain.Profile{N: 10}}}
	doses, _ := s.Suggest(catalog, domain.Target{}, domain.Profile{}, 100)
	if len(doses) != 0 {
		t.Fatalf("doses=%v want empty for empty target", doses)
	}
}

func TestSuggestRespectsBounds(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.MaxProducts = 2
	s := New(nutrient.NewCalculator(nutrient.DefaultConfig()), cfg)

	catalog := domain.Catalog{
		{Name: "CalNit", Unit: "g", Composition: domain.Profile{N: 15.5, Ca: 19}},
		{Name: "K-Plus", Unit: "g", Composition: domain.Profile{N: 13.7, K: 38.2}},
		{Name: "MKP", Unit: "g", Composition: domain.Profile{P: 22.7, K: 28.7}},
		{Name: "MgS", Unit: "g", Composition: domain.Profile{Mg: 9.8, S: 13}},
	}
	target := domain.Target{Profile: domain.Profile{N: 150, K: 160, Ca: 120}}

	doses, _ := s.Suggest(catalog, target, domain.Profile{}, 0)
	if len(doses) == 0 {
		t.Fatal("expected a suggestion")
	}
	if len(doses) > cfg.MaxProducts {
		t.Fatalf("%d active products, max is %d", len(doses), cfg.MaxProducts)
	}
	for _, d := range doses {
		if d.Dose < 0 {
			t.Fatalf("negative dose: %+v", d)
		}
		steps := d.Dose / cfg.DoseStep
		if math.Abs(steps-math.Round(steps)) > 1e-6 {
			t.Fatalf("dose %v not on %.1f granularity", d.Dose, cfg.DoseStep)
		}
	}
}

func TestSuggestIdempotent(t *testing.T) {
	t.Parallel()
	s := newTestSolver()

	catalog := domain.Catalog{
		{Name: "CalNit", Unit: "g", Composition: domain.Profile{N: 15.5, Ca: 19}},
		{Name: "K-Plus", Unit: "g", Composition: domain.Profile{N: 13.7, K: 38.2}},
		{Name: "MgS", Unit: "g", Composition: domain.Profile{Mg: 9.8, S: 13}},
	}
	target := domain.Target{Profile: domain.Profile{N: 150, K: 160, Ca: 120, Mg: 40}}
	water := domain.Profile{Ca: 30, Mg: 8}

	first, _ := s.Suggest(catalog, target, water, 100)
	second, _ := s.Suggest(catalog, target, water, 100)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("not idempotent: %v vs %v", first, second)
	}
}
