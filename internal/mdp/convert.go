package mdp

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/danielpatrickdp/sparse-mdp/internal/sparse"
)

// #region dense-transitions

// SetTransitionFunction replaces the transition tables from a dense
// container addressed as t[s][a][s1]. The whole container is validated
// before the first write, so a failed call leaves the model unmodified.
// Values within Epsilon of zero are not stored, which keeps the tables
// sparse even when the source is dense.
func (m *SparseModel) SetTransitionFunction(t [][][]float64) error {
	if !ValidTransitions(t, m.s, m.a) {
		return fmt.Errorf("%w: transition container is not a valid probability function", ErrInvalidArgument)
	}

	for a := 0; a < m.a; a++ {
		for s := 0; s < m.s; s++ {
			m.transitions[a].ClearRow(s)
			for s1 := 0; s1 < m.s; s1++ {
				if p := t[s][a][s1]; !equalSmall(p, 0) {
					m.transitions[a].Insert(s, s1, p)
				}
			}
		}
		m.transitions[a].Compact(Epsilon)
	}
	return nil
}

// #endregion dense-transitions

// #region dense-rewards

// SetRewardFunction replaces the expected-reward table from a dense
// per-successor container addressed as r[s][a][s1]. Each (s,a) entry becomes
// the expectation Σ_s1 r[s][a][s1]·p(s1|s,a) over the transitions currently
// stored, so this must run after (or stay consistent with) transition
// replacement. Rewards carry no probability semantics and are not validated.
func (m *SparseModel) SetRewardFunction(r [][][]float64) {
	for s := 0; s < m.s; s++ {
		m.rewards.ClearRow(s)
	}
	for s := 0; s < m.s; s++ {
		for a := 0; a < m.a; a++ {
			var expected float64
			for _, e := range m.transitions[a].Row(s) {
				expected += r[s][a][e.Col] * e.Val
			}
			if !equalSmall(expected, 0) {
				m.rewards.Insert(s, a, expected)
			}
		}
	}
	m.rewards.Compact(Epsilon)
}

// #endregion dense-rewards

// #region model-to-model

// NewSparseModelFrom copy-converts any Model into the sparse form. A useful
// case is freezing a model that computes probabilities on the fly into one
// where they are all stored for fast access.
//
// The source is read triple by triple: probabilities outside [0,1] and rows
// that do not sum to 1 within Epsilon fail with ErrInvalidArgument.
// Per-successor rewards are aggregated into the state×action expectation
// Σ_s1 r(s,a,s1)·p(s1|s,a); the successor-level detail is dropped. Both
// tables are compacted once filled.
func NewSparseModelFrom(src Model) (*SparseModel, error) {
	states, actions := src.S(), src.A()
	if !validDiscount(src.Discount()) {
		return nil, fmt.Errorf("%w: discount %v outside [0,1]", ErrInvalidArgument, src.Discount())
	}

	transitions := make([]*sparse.Matrix, actions)
	for a := 0; a < actions; a++ {
		transitions[a] = sparse.NewMatrix(states, states)
	}
	rewards := sparse.NewMatrix(states, actions)

	for s := 0; s < states; s++ {
		for a := 0; a < actions; a++ {
			for s1 := 0; s1 < states; s1++ {
				p := src.TransitionProbability(s, a, s1)
				if p < 0 || p > 1 {
					return nil, fmt.Errorf("%w: transition probability %v for (%d,%d,%d) outside [0,1]",
						ErrInvalidArgument, p, s, a, s1)
				}
				if !equalSmall(p, 0) {
					transitions[a].Insert(s, s1, p)
				}
				if rp := src.ExpectedReward(s, a, s1) * p; math.Abs(rp) > Epsilon {
					rewards.Add(s, a, rp)
				}
			}
			if sum := transitions[a].RowSum(s); !equalSmall(sum, 1) {
				return nil, fmt.Errorf("%w: transition row (%d,%d) sums to %v, want 1",
					ErrInvalidArgument, s, a, sum)
			}
		}
	}

	for a := 0; a < actions; a++ {
		transitions[a].Compact(Epsilon)
	}
	rewards.Compact(Epsilon)

	return &SparseModel{
		s:           states,
		a:           actions,
		discount:    src.Discount(),
		transitions: transitions,
		rewards:     rewards,
		rng:         rand.New(rand.NewSource(nextSeed())),
	}, nil
}

// #endregion model-to-model
