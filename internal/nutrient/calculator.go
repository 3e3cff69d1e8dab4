package nutrient

import (
	"fmt"

	"github.com/kianfelka-ship-it/D-ngerechner-Resp/internal/domain"
)

// Calculator turns a dosed product list plus a water baseline into the
// resulting nutrient profile. It is a pure function object: no I/O, no state
// beyond its configured heuristics, safe for concurrent use.
type Calculator struct {
	cfg Config
}

func NewCalculator(cfg Config) *Calculator {
	if cfg.MissingProduct == "" {
		cfg.MissingProduct = MissingSkip
	}
	return &Calculator{cfg: cfg}
}

// Compute accumulates the diluted water contribution and every product
// contribution (linear in dose, no cross terms), estimates EC from the
// aggregated profile, and classifies warnings.
//
// Doses are assumed pre-clamped to be non-negative by the caller. A dose whose
// product is not in the catalog contributes zero under the "skip" policy and
// fails the call under "error".
func (c *Calculator) Compute(catalog domain.Catalog, doses []domain.ProductDose, water domain.Profile, dilutionSharePercent float64) (domain.Solution, error) {
	total := water.Scale(dilutionSharePercent / 100)

	var extraEC float64
	for _, d := range doses {
		f, ok := catalog.Find(d.Product)
		if !ok {
			if c.cfg.MissingProduct == MissingError {
				return domain.Solution{}, fmt.Errorf("product %q not in catalog", d.Product)
			}
			continue
		}
		total = total.Add(f.Composition.Scale(d.Dose))
		extraEC += f.ECPerUnit * d.Dose
	}

	ec := c.estimateEC(total) + extraEC

	return domain.Solution{
		Profile:  total,
		EC:       ec,
		Warnings: c.classify(total, ec),
	}, nil
}

// estimateEC converts the aggregated ionic concentrations to mS/cm using the
// configured per-nutrient conductance factors. This is the only nonlinear-ish
// step and it runs on the final aggregate only.
func (c *Calculator) estimateEC(p domain.Profile) float64 {
	conc := p.Values()
	factors := c.cfg.ECFactors.Values()
	var microsiemens float64
	for i := range conc {
		microsiemens += conc[i] * factors[i]
	}
	return microsiemens / 1000
}

func (c *Calculator) classify(p domain.Profile, ec float64) []domain.Warning {
	var warns []domain.Warning

	if c.cfg.MaxEC > 0 && ec > c.cfg.MaxEC {
		warns = append(warns, domain.Warning{
			Kind:    domain.WarnECHigh,
			Message: fmt.Sprintf("estimated EC %.2f mS/cm above safe maximum %.2f", ec, c.cfg.MaxEC),
		})
	}
	if c.cfg.MinEC > 0 && ec < c.cfg.MinEC {
		warns = append(warns, domain.Warning{
			Kind:    domain.WarnECLow,
			Message: fmt.Sprintf("estimated EC %.2f mS/cm below %.2f, solution is very weak", ec, c.cfg.MinEC),
		})
	}

	for _, r := range c.cfg.Ratios {
		den := p.Get(r.Den)
		if den < r.MinDen {
			continue
		}
		ratio := p.Get(r.Num) / den
		switch {
		case ratio < r.Min:
			warns = append(warns, domain.Warning{
				Kind:    r.Kind,
				Message: fmt.Sprintf("%s:%s ratio %.2f below %.2f", r.Num, r.Den, ratio, r.Min),
			})
		case ratio > r.Max:
			warns = append(warns, domain.Warning{
				Kind:    r.Kind,
				Message: fmt.Sprintf("%s:%s ratio %.2f above %.2f", r.Num, r.Den, ratio, r.Max),
			})
		}
	}
	return warns
}
