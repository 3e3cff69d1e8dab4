package solver

import "math"

const nnlsTol = 1e-10

// nnls solves min ‖Ax − b‖₂ subject to x ≥ 0 with the Lawson–Hanson active
// set method. a is row-major, m rows (nutrients) by n columns (products).
// Problem sizes here are tiny (≤12 rows, a handful of columns), so the inner
// unconstrained solve uses normal equations with Gaussian elimination.
// The iteration budget guarantees termination even on degenerate input.
func nnls(a [][]float64, b []float64) []float64 {
	m := len(a)
	if m == 0 {
		return nil
	}
	n := len(a[0])
	x := make([]float64, n)
	passive := make([]bool, n)

	budget := 10 * (n + 1)
	for ; budget > 0; budget-- {
		// Gradient w = Aᵀ(b − Ax) on the free columns.
		resid := make([]float64, m)
		for i := 0; i < m; i++ {
			s := b[i]
			for j := 0; j < n; j++ {
				s -= a[i][j] * x[j]
			}
			resid[i] = s
		}

		best, bestW := -1, nnlsTol
		for j := 0; j < n; j++ {
			if passive[j] {
				continue
			}
			var w float64
			for i := 0; i < m; i++ {
				w += a[i][j] * resid[i]
			}
			if w > bestW {
				best, bestW = j, w
			}
		}
		if best < 0 {
			break // KKT conditions met
		}
		passive[best] = true

		// Solve on the passive set; back off along x→z until feasible,
		// dropping columns that hit zero.
		for ; budget > 0; budget-- {
			z := lsSolve(a, b, passive)

			feasible := true
			alpha := math.Inf(1)
			for j := 0; j < n; j++ {
				if !passive[j] || z[j] > nnlsTol {
					continue
				}
				feasible = false
				if diff := x[j] - z[j]; diff > 0 {
					if r := x[j] / diff; r < alpha {
						alpha = r
					}
				} else {
					alpha = 0
				}
			}
			if feasible {
				copy(x, z)
				break
			}
			if math.IsInf(alpha, 1) {
				alpha = 0
			}
			for j := 0; j < n; j++ {
				if !passive[j] {
					continue
				}
				x[j] += alpha * (z[j] - x[j])
				if x[j] <= nnlsTol {
					x[j] = 0
					passive[j] = false
				}
			}
		}
	}
	return x
}

// lsSolve solves the unconstrained least squares problem restricted to the
// passive columns via normal equations, returning a full-length vector with
// zeros in the free positions.
func lsSolve(a [][]float64, b []float64, passive []bool) []float64 {
	m, n := len(a), len(passive)

	var cols []int
	for j := 0; j < n; j++ {
		if passive[j] {
			cols = append(cols, j)
		}
	}
	out := make([]float64, n)
	k := len(cols)
	if k == 0 {
		return out
	}

	// G = AᵖᵀAᵖ, rhs = Aᵖᵀb
	g := make([][]float64, k)
	rhs := make([]float64, k)
	for p := 0; p < k; p++ {
		g[p] = make([]float64, k)
		for q := 0; q < k; q++ {
			var s float64
			for i := 0; i < m; i++ {
				s += a[i][cols[p]] * a[i][cols[q]]
			}
			g[p][q] = s
		}
		var s float64
		for i := 0; i < m; i++ {
			s += a[i][cols[p]] * b[i]
		}
		rhs[p] = s
	}

	// Gaussian elimination with partial pivoting.
	for p := 0; p < k; p++ {
		pivot := p
		for q := p + 1; q < k; q++ {
			if math.Abs(g[q][p]) > math.Abs(g[pivot][p]) {
				pivot = q
			}
		}
		g[p], g[pivot] = g[pivot], g[p]
		rhs[p], rhs[pivot] = rhs[pivot], rhs[p]

		if math.Abs(g[p][p]) < 1e-12 {
			// Rank deficient: leave this variable at zero.
			g[p][p] = 1
			rhs[p] = 0
			for q := p + 1; q < k; q++ {
				g[p][q] = 0
			}
			continue
		}
		for q := p + 1; q < k; q++ {
			f := g[q][p] / g[p][p]
			for r := p; r < k; r++ {
				g[q][r] -= f * g[p][r]
			}
			rhs[q] -= f * rhs[p]
		}
	}
	for p := k - 1; p >= 0; p-- {
		s := rhs[p]
		for q := p + 1; q < k; q++ {
			s -= g[p][q] * out[cols[q]]
		}
		out[cols[p]] = s / g[p][p]
	}
	return out
}
