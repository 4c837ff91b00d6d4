package mdp

import (
	"errors"
	"math"
	"testing"
)

func TestNewSparseModelDefault(t *testing.T) {
	m, err := NewSparseModel(3, 2, 1.0)
	if err != nil {
		t.Fatalf("NewSparseModel: %v", err)
	}

	if m.S() != 3 || m.A() != 2 {
		t.Fatalf("expected 3 states and 2 actions, got %d and %d", m.S(), m.A())
	}
	if m.Discount() != 1.0 {
		t.Fatalf("expected discount 1.0, got %f", m.Discount())
	}

	// Self-loops everywhere, nothing else, rewards zero
	for s := 0; s < 3; s++ {
		for a := 0; a < 2; a++ {
			for s1 := 0; s1 < 3; s1++ {
				want := 0.0
				if s == s1 {
					want = 1.0
				}
				if got := m.TransitionProbability(s, a, s1); got != want {
					t.Fatalf("p(%d|%d,%d) = %f, want %f", s1, s, a, got, want)
				}
			}
			if got := m.ExpectedReward(s, a, 0); got != 0 {
				t.Fatalf("expected zero reward at (%d,%d), got %f", s, a, got)
			}
		}
		if !m.IsTerminal(s) {
			t.Fatalf("state %d of a fresh model should be terminal", s)
		}
	}
}

func TestNewSparseModelInvalidDiscount(t *testing.T) {
	for _, d := range []float64{-0.1, 1.1, 2.0} {
		if _, err := NewSparseModel(2, 1, d); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("discount %f: expected ErrInvalidArgument, got %v", d, err)
		}
	}
}

func TestSetDiscount(t *testing.T) {
	m, err := NewSparseModel(2, 1, 1.0)
	if err != nil {
		t.Fatalf("NewSparseModel: %v", err)
	}

	if err := m.SetDiscount(0.9); err != nil {
		t.Fatalf("SetDiscount(0.9): %v", err)
	}
	if m.Discount() != 0.9 {
		t.Fatalf("expected 0.9, got %f", m.Discount())
	}

	if err := m.SetDiscount(1.5); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	// Rejected value must not stick
	if m.Discount() != 0.9 {
		t.Fatalf("discount changed after rejected set: %f", m.Discount())
	}
}

func TestIsTerminal(t *testing.T) {
	// State 0 self-loops under both actions; state 1 can leave under action 1.
	tr := [][][]float64{
		{ // s = 0
			{1, 0}, // a = 0
			{1, 0}, // a = 1
		},
		{ // s = 1
			{0, 1},
			{0.4, 0.6},
		},
	}
	rw := [][][]float64{
		{{0, 0}, {0, 0}},
		{{0, 0}, {0, 0}},
	}

	m, err := NewSparseModelFromDense(2, 2, tr, rw, 0.9)
	if err != nil {
		t.Fatalf("NewSparseModelFromDense: %v", err)
	}

	if !m.IsTerminal(0) {
		t.Fatal("state 0 should be terminal")
	}
	if m.IsTerminal(1) {
		t.Fatal("state 1 can leave itself under action 1, should not be terminal")
	}
}

func TestRowSumsWithinTolerance(t *testing.T) {
	tr := [][][]float64{
		{{0.3, 0.7, 0}, {1, 0, 0}},
		{{0.1, 0.2, 0.7}, {0, 1, 0}},
		{{0, 0, 1}, {0, 0, 1}},
	}
	rw := make([][][]float64, 3)
	for s := range rw {
		rw[s] = [][]float64{{0, 0, 0}, {0, 0, 0}}
	}

	m, err := NewSparseModelFromDense(3, 2, tr, rw, 1.0)
	if err != nil {
		t.Fatalf("NewSparseModelFromDense: %v", err)
	}

	for s := 0; s < 3; s++ {
		for a := 0; a < 2; a++ {
			var sum float64
			for s1 := 0; s1 < 3; s1++ {
				p := m.TransitionProbability(s, a, s1)
				if p < 0 || p > 1 {
					t.Fatalf("p(%d|%d,%d) = %f out of [0,1]", s1, s, a, p)
				}
				sum += p
			}
			if math.Abs(sum-1) > Epsilon {
				t.Fatalf("row (%d,%d) sums to %f", s, a, sum)
			}
		}
	}
}

func TestUncheckedConstructorTakesOwnership(t *testing.T) {
	base, err := NewSparseModel(2, 1, 1.0)
	if err != nil {
		t.Fatalf("NewSparseModel: %v", err)
	}

	m := NewSparseModelUnchecked(2, 1, base.TransitionMatrix(), base.RewardMatrix(), 0.5)

	if m.Discount() != 0.5 {
		t.Fatalf("expected discount 0.5, got %f", m.Discount())
	}
	if got := m.TransitionProbability(1, 0, 1); got != 1 {
		t.Fatalf("expected self-loop 1, got %f", got)
	}
	if !m.IsTerminal(0) || !m.IsTerminal(1) {
		t.Fatal("self-loop states should be terminal")
	}
}

func TestBulkViews(t *testing.T) {
	m, err := NewSparseModel(3, 2, 1.0)
	if err != nil {
		t.Fatalf("NewSparseModel: %v", err)
	}

	if len(m.TransitionMatrix()) != 2 {
		t.Fatalf("expected 2 per-action matrices, got %d", len(m.TransitionMatrix()))
	}
	tm := m.TransitionMatrixFor(1)
	if tm.Rows() != 3 || tm.Cols() != 3 {
		t.Fatalf("expected 3×3 matrix, got %d×%d", tm.Rows(), tm.Cols())
	}
	if tm.NNZ() != 3 {
		t.Fatalf("expected 3 self-loop entries, got %d", tm.NNZ())
	}
	rm := m.RewardMatrix()
	if rm.Rows() != 3 || rm.Cols() != 2 {
		t.Fatalf("expected 3×2 reward matrix, got %d×%d", rm.Rows(), rm.Cols())
	}
}
