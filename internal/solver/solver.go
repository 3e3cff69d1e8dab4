package solver

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/kianfelka-ship-it/D-ngerechner-Resp/internal/domain"
	"github.com/kianfelka-ship-it/D-ngerechner-Resp/internal/nutrient"
)

// Solver searches a candidate catalog for a small product combination whose
// computed solution approximates a target profile. Selection and fitting are
// separate stages: a matching-pursuit loop picks candidates by how much they
// reduce the weighted residual per unit dose, and a non-negative least squares
// fit chooses the doses for the picked subset. Pure and deterministic: the
// same inputs in the same catalog order always return the same list.
type Solver struct {
	calc *nutrient.Calculator
	cfg  Config
}

func New(calc *nutrient.Calculator, cfg Config) *Solver {
	if cfg.MaxProducts <= 0 {
		cfg.MaxProducts = DefaultConfig().MaxProducts
	}
	if cfg.DoseStep <= 0 {
		cfg.DoseStep = DefaultConfig().DoseStep
	}
	return &Solver{calc: calc, cfg: cfg}
}

// Fit reports how close a suggestion landed on the targeted nutrients.
type Fit struct {
	Achieved      domain.Solution `json:"achieved"`
	MeanDeviation float64         `json:"mean_deviation"`
	MaxDeviation  float64         `json:"max_deviation"`
	Accepted      bool            `json:"accepted"`
}

// Suggest returns a dose list approximating the target, or an empty list when
// no combination within the candidate set meets the acceptance tolerance.
// The returned list is fresh and ordered by catalog position; it is meant to
// replace, not merge with, the caller's current product list.
func (s *Solver) Suggest(candidates domain.Catalog, target domain.Target, water domain.Profile, dilutionSharePercent float64) ([]domain.ProductDose, Fit) {
	weights := target.Weights
	if weights.IsZero() {
		weights = s.cfg.DefaultWeights
	}
	w := weights.Values()
	tgt := target.Profile.Values()

	// Lookup inside Compute cannot fail here: every dose we build names a
	// candidate from the same catalog.
	baseSol, _ := s.calc.Compute(candidates, nil, water, dilutionSharePercent)
	base := baseSol.Profile.Values()

	targeted := false
	for i := range tgt {
		if tgt[i] > 0 && w[i] > 0 {
			targeted = true
			break
		}
	}
	if !targeted || len(candidates) == 0 {
		return nil, Fit{}
	}

	// Weighted residual b and weighted composition columns.
	m := domain.NumNutrients
	b := make([]float64, m)
	for i := 0; i < m; i++ {
		b[i] = w[i] * (tgt[i] - base[i])
	}
	cols := make([][]float64, len(candidates))
	comps := make([][domain.NumNutrients]float64, len(candidates))
	for j, f := range candidates {
		comps[j] = f.Composition.Values()
		col := make([]float64, m)
		for i := 0; i < m; i++ {
			col[i] = w[i] * comps[j][i]
		}
		cols[j] = col
	}

	var selected []int
	var doses []float64
	resid := append([]float64(nil), b...)

	maxProducts := s.cfg.MaxProducts
	if maxProducts > len(candidates) {
		maxProducts = len(candidates)
	}
	for len(selected) < maxProducts {
		// Pick the candidate that reduces the residual most per unit dose.
		// Strict comparison keeps catalog order as the tie-break.
		best, bestScore := -1, nnlsTol
		for j := range candidates {
			if contains(selected, j) {
				continue
			}
			var dot, norm2 float64
			for i := 0; i < m; i++ {
				dot += cols[j][i] * resid[i]
				norm2 += cols[j][i] * cols[j][i]
			}
			if dot <= 0 || norm2 <= nnlsTol {
				continue
			}
			if score := dot / math.Sqrt(norm2); score > bestScore {
				best, bestScore = j, score
			}
		}
		if best < 0 {
			break
		}
		selected = append(selected, best)

		a := make([][]float64, m)
		for i := 0; i < m; i++ {
			a[i] = make([]float64, len(selected))
			for k, j := range selected {
				a[i][k] = cols[j][i]
			}
		}
		doses = nnls(a, b)

		for i := 0; i < m; i++ {
			resid[i] = b[i]
			for k := range selected {
				resid[i] -= a[i][k] * doses[k]
			}
		}

		// Cheap acceptance check in continuous space; rounding comes later.
		achieved := base
		for k, j := range selected {
			for i := 0; i < m; i++ {
				achieved[i] += comps[j][i] * doses[k]
			}
		}
		if mean, max := s.deviations(achieved, tgt, w); mean <= s.cfg.MaxMeanDeviation && max <= s.cfg.MaxNutrientDeviation {
			break
		}
	}
	if len(selected) == 0 {
		return nil, Fit{}
	}

	// Round to the practical granularity, drop doses rounding to zero, and
	// emit in catalog order.
	doseByProduct := make(map[int]float64, len(selected))
	for k, j := range selected {
		d := math.Round(doses[k]/s.cfg.DoseStep) * s.cfg.DoseStep
		if d >= s.cfg.DoseStep/2 {
			doseByProduct[j] = d
		}
	}
	var out []domain.ProductDose
	for j, f := range candidates {
		if d, ok := doseByProduct[j]; ok {
			out = append(out, domain.ProductDose{Product: f.Name, Dose: d})
		}
	}
	if len(out) == 0 {
		return nil, Fit{}
	}

	sol, _ := s.calc.Compute(candidates, out, water, dilutionSharePercent)
	mean, max := s.deviations(sol.Profile.Values(), tgt, w)
	fit := Fit{
		Achieved:      sol,
		MeanDeviation: mean,
		MaxDeviation:  max,
		Accepted:      mean <= s.cfg.MaxMeanDeviation && max <= s.cfg.MaxNutrientDeviation,
	}
	if !fit.Accepted {
		return nil, fit
	}
	return out, fit
}

// deviations returns the weighted mean and the maximum relative deviation
// over the targeted nutrients.
func (s *Solver) deviations(achieved, tgt [domain.NumNutrients]float64, w [domain.NumNutrients]float64) (mean, max float64) {
	var devs []float64
	var sum, sumW float64
	for i := range tgt {
		if tgt[i] <= 0 || w[i] <= 0 {
			continue
		}
		dev := math.Abs(achieved[i]-tgt[i]) / tgt[i]
		devs = append(devs, dev)
		sum += w[i] * dev
		sumW += w[i]
	}
	if len(devs) == 0 {
		return 0, 0
	}
	max, _ = stats.Max(devs)
	return sum / sumW, max
}

func contains(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
