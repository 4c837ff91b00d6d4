// Package dense implements an MDP model backed by gonum dense matrices.
// It keeps the full S×A×S surface, including per-successor rewards, and is
// the natural conversion source for the sparse model when the real
// transition graph is small enough to materialize.
package dense

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/danielpatrickdp/sparse-mdp/internal/mdp"
)

// #region model-struct

// Model is a dense MDP: one S×S transition matrix and one S×S per-successor
// reward matrix per action. It satisfies the mdp.Model read contract, so
// mdp.NewSparseModelFrom can freeze it into the sparse form.
type Model struct {
	states, actions int
	discount        float64

	transitions []*mat.Dense // A matrices, each S×S
	rewards     []*mat.Dense // A matrices, each S×S
}

var _ mdp.Model = (*Model)(nil)

// #endregion model-struct

// #region constructor

// New builds a dense model from containers addressed as t[s][a][s1] and
// r[s][a][s1]. The transition container is validated as a probability
// function; fails with mdp.ErrInvalidArgument on an invalid discount or
// container.
func New(states, actions int, t, r [][][]float64, discount float64) (*Model, error) {
	if discount < 0 || discount > 1 {
		return nil, fmt.Errorf("%w: discount %v outside [0,1]", mdp.ErrInvalidArgument, discount)
	}
	if !mdp.ValidTransitions(t, states, actions) {
		return nil, fmt.Errorf("%w: transition container is not a valid probability function", mdp.ErrInvalidArgument)
	}

	transitions := make([]*mat.Dense, actions)
	rewards := make([]*mat.Dense, actions)
	for a := 0; a < actions; a++ {
		transitions[a] = mat.NewDense(states, states, nil)
		rewards[a] = mat.NewDense(states, states, nil)
		for s := 0; s < states; s++ {
			for s1 := 0; s1 < states; s1++ {
				transitions[a].Set(s, s1, t[s][a][s1])
				rewards[a].Set(s, s1, r[s][a][s1])
			}
		}
	}

	return &Model{
		states:      states,
		actions:     actions,
		discount:    discount,
		transitions: transitions,
		rewards:     rewards,
	}, nil
}

// #endregion constructor

// #region accessors

// S returns the number of states.
func (m *Model) S() int { return m.states }

// A returns the number of actions.
func (m *Model) A() int { return m.actions }

// Discount returns the discount factor.
func (m *Model) Discount() float64 { return m.discount }

// TransitionProbability returns p(s1|s,a).
func (m *Model) TransitionProbability(s, a, s1 int) float64 {
	return m.transitions[a].At(s, s1)
}

// ExpectedReward returns the per-successor reward r(s,a,s1). Unlike the
// sparse model, the successor dimension is real here.
func (m *Model) ExpectedReward(s, a, s1 int) float64 {
	return m.rewards[a].At(s, s1)
}

// TransitionMatrixFor returns the S×S transition matrix of one action as a
// read-only gonum matrix, for planning algorithms that want raw rows.
func (m *Model) TransitionMatrixFor(a int) mat.Matrix { return m.transitions[a] }

// RewardMatrixFor returns the S×S per-successor reward matrix of one action.
func (m *Model) RewardMatrixFor(a int) mat.Matrix { return m.rewards[a] }

// #endregion accessors
