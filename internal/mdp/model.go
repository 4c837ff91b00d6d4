package mdp

import (
	"fmt"
	"math/rand"

	"github.com/danielpatrickdp/sparse-mdp/internal/sparse"
)

// #region model-struct

// SparseModel is an MDP whose transition and reward functions are stored
// sparsely: one S×S sparse matrix per action for transitions, and one S×A
// sparse matrix for expected rewards. Absent entries are zero.
//
// The dimensions are fixed at construction. Contents may be replaced through
// the setters, each of which either validates or is explicitly documented as
// trusting the caller.
//
// A SparseModel is not safe for concurrent mutation, and SampleSR advances
// private RNG state, so concurrent sampling of one model must be serialized
// by the caller. Everything else is plain read-only data.
type SparseModel struct {
	s, a     int
	discount float64

	transitions []*sparse.Matrix // A matrices, each S×S
	rewards     *sparse.Matrix   // S×A

	rng *rand.Rand
}

// SparseModel satisfies the Model read contract.
var _ Model = (*SparseModel)(nil)

// #endregion model-struct

// #region constructors

// NewSparseModel returns a degenerate but valid model: for every action,
// every state transitions back to itself with probability 1, and all rewards
// are 0. Every state of a fresh model is therefore terminal. Fails with
// ErrInvalidArgument if the discount is outside [0,1].
func NewSparseModel(states, actions int, discount float64) (*SparseModel, error) {
	if !validDiscount(discount) {
		return nil, fmt.Errorf("%w: discount %v outside [0,1]", ErrInvalidArgument, discount)
	}

	transitions := make([]*sparse.Matrix, actions)
	for a := 0; a < actions; a++ {
		transitions[a] = sparse.NewMatrix(states, states)
		for s := 0; s < states; s++ {
			transitions[a].Insert(s, s, 1)
		}
	}

	return &SparseModel{
		s:           states,
		a:           actions,
		discount:    discount,
		transitions: transitions,
		rewards:     sparse.NewMatrix(states, actions),
		rng:         rand.New(rand.NewSource(nextSeed())),
	}, nil
}

// NewSparseModelFromDense builds a model from dense transition and reward
// containers addressed as t[s][a][s1] and r[s][a][s1]. The transition
// container is validated; rewards are aggregated into their state×action
// expectation against the accepted transitions. Fails with
// ErrInvalidArgument on an invalid discount or transition container.
func NewSparseModelFromDense(states, actions int, t, r [][][]float64, discount float64) (*SparseModel, error) {
	m, err := NewSparseModel(states, actions, discount)
	if err != nil {
		return nil, err
	}
	if err := m.SetTransitionFunction(t); err != nil {
		return nil, err
	}
	m.SetRewardFunction(r)
	return m, nil
}

// NewSparseModelUnchecked takes ownership of already-built sparse tables
// without validating them. It exists for performance-sensitive callers that
// have already upheld the invariants (each transition matrix S×S with rows
// summing to 1, rewards S×A); behavior is undefined if they have not.
func NewSparseModelUnchecked(states, actions int, t []*sparse.Matrix, r *sparse.Matrix, discount float64) *SparseModel {
	return &SparseModel{
		s:           states,
		a:           actions,
		discount:    discount,
		transitions: t,
		rewards:     r,
		rng:         rand.New(rand.NewSource(nextSeed())),
	}
}

// #endregion constructors

// #region accessors

// S returns the number of states.
func (m *SparseModel) S() int { return m.s }

// A returns the number of actions.
func (m *SparseModel) A() int { return m.a }

// Discount returns the discount factor.
func (m *SparseModel) Discount() float64 { return m.discount }

// TransitionProbability returns p(s1|s,a); absent entries are 0.
func (m *SparseModel) TransitionProbability(s, a, s1 int) float64 {
	return m.transitions[a].At(s, s1)
}

// ExpectedReward returns the stored expected reward for (s,a). The s1
// argument is accepted to satisfy the Model contract but ignored: the table
// keeps only the successor-aggregated expectation, and the per-successor
// detail is not recoverable from this model.
func (m *SparseModel) ExpectedReward(s, a, _ int) float64 {
	return m.rewards.At(s, a)
}

// TransitionMatrix returns the per-action transition matrices for bulk
// inspection. The returned structure is a view; callers must not modify it.
func (m *SparseModel) TransitionMatrix() []*sparse.Matrix { return m.transitions }

// TransitionMatrixFor returns the S×S transition matrix of one action.
func (m *SparseModel) TransitionMatrixFor(a int) *sparse.Matrix { return m.transitions[a] }

// RewardMatrix returns the S×A expected-reward matrix for bulk inspection.
func (m *SparseModel) RewardMatrix() *sparse.Matrix { return m.rewards }

// IsTerminal reports whether state s is absorbing: under every action, the
// self-loop carries probability 1.
func (m *SparseModel) IsTerminal(s int) bool {
	for a := 0; a < m.a; a++ {
		if !equalSmall(m.transitions[a].At(s, s), 1) {
			return false
		}
	}
	return true
}

// #endregion accessors

// #region setters

// SetDiscount replaces the discount factor. Fails with ErrInvalidArgument
// if d is outside [0,1].
func (m *SparseModel) SetDiscount(d float64) error {
	if !validDiscount(d) {
		return fmt.Errorf("%w: discount %v outside [0,1]", ErrInvalidArgument, d)
	}
	m.discount = d
	return nil
}

// SetTransitionTable replaces the transition tables with already-built
// sparse matrices, without validation. Caller's responsibility: len(t) == A,
// each matrix S×S with valid probability rows. Re-validating an
// already-compacted sparse structure would defeat its purpose.
func (m *SparseModel) SetTransitionTable(t []*sparse.Matrix) {
	m.transitions = t
}

// SetRewardTable replaces the expected-reward table with an already-built
// S×A sparse matrix, without validation.
func (m *SparseModel) SetRewardTable(r *sparse.Matrix) {
	m.rewards = r
}

// #endregion setters

// #region sampler

// SampleSR samples the model for simulated experience: it draws a successor
// state from the transition distribution of (s,a) by inverse-transform
// sampling over the sparse row, and returns it with the expected reward
// stored for (s,a). The reward does not depend on which successor was drawn.
//
// Sampling advances the model's private RNG; it is the only operation that
// mutates an otherwise read-only model.
func (m *SparseModel) SampleSR(s, a int) (int, float64) {
	p := m.rng.Float64()
	s1 := s

	var cum float64
	for _, e := range m.transitions[a].Row(s) {
		s1 = e.Col
		cum += e.Val
		if cum > p {
			break
		}
	}
	// If rounding kept cum below p, s1 holds the last nonzero successor.
	return s1, m.rewards.At(s, a)
}

// #endregion sampler
