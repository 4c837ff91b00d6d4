// Package mdp implements a sparse Markov Decision Process model: per-action
// sparse transition tables, a state×action expected-reward table, and
// inverse-transform sampling of simulated experience. Only nonzero entries
// are stored, so memory and sampling cost scale with the number of real
// transitions rather than with S×A×S.
package mdp

import (
	"errors"
	"math"
)

// #region tolerance

// Epsilon is the single numeric tolerance used everywhere in this package:
// value comparison, row-sum validation, and the sparsification threshold
// below which a value is treated as exactly zero and not stored.
const Epsilon = 1e-9

// equalSmall reports whether a and b differ by at most Epsilon.
func equalSmall(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

// #endregion tolerance

// #region errors

// ErrInvalidArgument is the failure kind for every rejected input: a discount
// outside [0,1], a transition container that is not a valid probability
// function, or an out-of-range probability met during conversion. Match it
// with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// #endregion errors

// #region model-interface

// Model is the read contract shared by every MDP model implementation.
// Any type satisfying it can be copy-converted into a SparseModel via
// NewSparseModelFrom, independent of its internal representation.
//
// State and action indices are caller preconditions: implementations are not
// required to range-check them.
type Model interface {
	// S returns the number of states.
	S() int
	// A returns the number of actions.
	A() int
	// Discount returns the discount factor in [0,1].
	Discount() float64
	// TransitionProbability returns p(s1|s,a).
	TransitionProbability(s, a, s1 int) float64
	// ExpectedReward returns the expected reward for the (s,a,s1) triple.
	ExpectedReward(s, a, s1 int) float64
}

// #endregion model-interface
