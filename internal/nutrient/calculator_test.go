package nutrient

import (
	"math"
	"strings"
	"testing"

	"github.com/kianfelka-ship-it/D-ngerechner-Resp/internal/domain"
)

func testCatalog() domain.Catalog {
	return domain.Catalog{
		{Name: "Acme CalNit", Unit: "g", Composition: domain.Profile{N: 15.5, Ca: 19}},
		{Name: "Acme K-Plus", Unit: "g", Composition: domain.Profile{N: 13.7, K: 38.2}},
		{Name: "Acme MgS", Unit: "g", Composition: domain.Profile{Mg: 9.8, S: 13}},
	}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestComputeWaterOnly(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(DefaultConfig())

	water := domain.Profile{N: 5, Ca: 40, Mg: 10}
	sol, err := calc.Compute(testCatalog(), nil, water, 50)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	want := water.Scale(0.5)
	if sol.Profile != want {
		t.Fatalf("profile=%+v want=%+v", sol.Profile, want)
	}
	if !approx(sol.Profile.N, 2.5) {
		t.Fatalf("N=%v want=2.5", sol.Profile.N)
	}
}

func TestComputeLinearInDose(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(DefaultConfig())
	catalog := testCatalog()

	doses := []domain.ProductDose{
		{Product: "Acme CalNit", Dose: 5},
		{Product: "Acme K-Plus", Dose: 3},
	}
	doubled := []domain.ProductDose{
		{Product: "Acme CalNit", Dose: 10},
		{Product: "Acme K-Plus", Dose: 6},
	}

	// Zero water isolates the product-attributable contribution.
	one, _ := calc.Compute(catalog, doses, domain.Profile{}, 100)
	two, _ := calc.Compute(catalog, doubled, domain.Profile{}, 100)

	a, b := one.Profile.Values(), two.Profile.Values()
	for i := range a {
		if !approx(b[i], 2*a[i]) {
			t.Fatalf("%s: doubled=%v want=%v", domain.Symbols[i], b[i], 2*a[i])
		}
	}
}

func TestComputeOrderInvariant(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(DefaultConfig())
	catalog := testCatalog()
	water := domain.Profile{N: 3, Ca: 30}

	fwd := []domain.ProductDose{
		{Product: "Acme CalNit", Dose: 4},
		{Product: "Acme K-Plus", Dose: 2},
		{Product: "Acme MgS", Dose: 1.5},
	}
	rev := []domain.ProductDose{
		{Product: "Acme MgS", Dose: 1.5},
		{Product: "Acme K-Plus", Dose: 2},
		{Product: "Acme CalNit", Dose: 4},
	}

	a, _ := calc.Compute(catalog, fwd, water, 100)
	b, _ := calc.Compute(catalog, rev, water, 100)
	if a.Profile != b.Profile || a.EC != b.EC {
		t.Fatalf("order changed result: %+v vs %+v", a, b)
	}
}

func TestComputeZeroDoseNeutral(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(DefaultConfig())
	catalog := testCatalog()
	water := domain.Profile{N: 5}

	plain, _ := calc.Compute(catalog, nil, water, 100)
	withZero, _ := calc.Compute(catalog, []domain.ProductDose{{Product: "Acme CalNit", Dose: 0}}, water, 100)
	if plain.Profile != withZero.Profile {
		t.Fatalf("zero dose changed result: %+v vs %+v", plain.Profile, withZero.Profile)
	}
}

func TestComputeMissingProductPolicy(t *testing.T) {
	t.Parallel()
	catalog := testCatalog()
	water := domain.Profile{N: 5}
	doses := []domain.ProductDose{{Product: "No Such Product", Dose: 2}}

	skip := NewCalculator(DefaultConfig())
	sol, err := skip.Compute(catalog, doses, water, 100)
	if err != nil {
		t.Fatalf("skip policy errored: %v", err)
	}
	if sol.Profile != water {
		t.Fatalf("missing product contributed: %+v", sol.Profile)
	}

	strictCfg := DefaultConfig()
	strictCfg.MissingProduct = MissingError
	strict := NewCalculator(strictCfg)
	if _, err := strict.Compute(catalog, doses, water, 100); err == nil {
		t.Fatal("strict policy did not error on unknown product")
	}
}

func TestComputeECAndWarnings(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(DefaultConfig())
	catalog := testCatalog()

	// Heavy dosing pushes the EC estimate over the default maximum.
	doses := []domain.ProductDose{
		{Product: "Acme CalNit", Dose: 40},
		{Product: "Acme K-Plus", Dose: 40},
	}
	sol, _ := calc.Compute(catalog, doses, domain.Profile{}, 0)
	if sol.EC <= 3.0 {
		t.Fatalf("EC=%v, expected above 3.0 for this dosing", sol.EC)
	}
	if !hasWarning(sol.Warnings, domain.WarnECHigh) {
		t.Fatalf("missing %s warning, got %+v", domain.WarnECHigh, sol.Warnings)
	}
}

func TestComputeRatioWarning(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(DefaultConfig())

	// K far ahead of N trips the N:K rule.
	catalog := domain.Catalog{{Name: "K Only", Unit: "g", Composition: domain.Profile{K: 40}}}
	sol, _ := calc.Compute(catalog, []domain.ProductDose{{Product: "K Only", Dose: 5}}, domain.Profile{N: 10}, 100)

	found := false
	for _, w := range sol.Warnings {
		if w.Kind == domain.WarnRatioImbalance && strings.HasPrefix(w.Message, "N:K") {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing N:K imbalance warning, got %+v", sol.Warnings)
	}
}

func hasWarning(ws []domain.Warning, kind string) bool {
	for _, w := range ws {
		if w.Kind == kind {
			return true
		}
	}
	return false
}

func TestPhaseTargetLookup(t *testing.T) {
	t.Parallel()
	if _, ok := PhaseTarget("vegetative"); !ok {
		t.Fatal("vegetative phase missing")
	}
	if _, ok := PhaseTarget("nope"); ok {
		t.Fatal("unknown phase found")
	}
}
