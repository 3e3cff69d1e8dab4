package solver

import (
	"math"
	"testing"
)

func TestNNLSExactSolution(t *testing.T) {
	t.Parallel()

	// Independent columns, consistent system: x = (2, 3).
	a := [][]float64{
		{1, 0},
		{0, 2},
	}
	b := []float64{2, 6}

	x := nnls(a, b)
	if len(x) != 2 {
		t.Fatalf("len(x)=%d", len(x))
	}
	if math.Abs(x[0]-2) > 1e-6 || math.Abs(x[1]-3) > 1e-6 {
		t.Fatalf("x=%v want=[2 3]", x)
	}
}

func TestNNLSClampsNegative(t *testing.T) {
	t.Parallel()

	// The unconstrained optimum needs a negative coefficient on the second
	// column; NNLS must keep it at zero instead.
	a := [][]float64{
		{1, 1},
		{0, 1},
	}
	b := []float64{2, -5}

	x := nnls(a, b)
	for i, v := range x {
		if v < 0 {
			t.Fatalf("x[%d]=%v is negative", i, v)
		}
	}
	if math.Abs(x[1]) > 1e-9 {
		t.Fatalf("x[1]=%v want 0", x[1])
	}
}

func TestNNLSOverdetermined(t *testing.T) {
	t.Parallel()

	// One column, three observations: least squares of x·(1,1,1) against
	// (1,2,3) is the mean 2.
	a := [][]float64{{1}, {1}, {1}}
	b := []float64{1, 2, 3}

	x := nnls(a, b)
	if math.Abs(x[0]-2) > 1e-6 {
		t.Fatalf("x=%v want=[2]", x)
	}
}

func TestNNLSZeroInput(t *testing.T) {
	t.Parallel()

	a := [][]float64{{0, 0}, {0, 0}}
	b := []float64{1, 1}
	x := nnls(a, b)
	for i, v := range x {
		if v != 0 {
			t.Fatalf("x[%d]=%v want 0 for zero matrix", i, v)
		}
	}
}
