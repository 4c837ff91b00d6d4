// Package fixture reads and writes JSON model fixtures: a flat triple list
// that is easy to author by hand and to diff. Fixtures are external input,
// so loading re-validates everything the sparse model normally treats as a
// caller precondition.
package fixture

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/danielpatrickdp/sparse-mdp/internal/mdp"
	"github.com/danielpatrickdp/sparse-mdp/internal/sparse"
)

// #region fixture-types

// Triple is one nonzero transition probability.
type Triple struct {
	From   int     `json:"from"`
	Action int     `json:"action"`
	To     int     `json:"to"`
	Prob   float64 `json:"prob"`
}

// RewardEntry is one nonzero expected reward.
type RewardEntry struct {
	From   int     `json:"from"`
	Action int     `json:"action"`
	Reward float64 `json:"reward"`
}

// Fixture is the top-level JSON structure for a stored model.
type Fixture struct {
	Description string        `json:"description,omitempty"`
	States      int           `json:"states"`
	Actions     int           `json:"actions"`
	Discount    float64       `json:"discount"`
	Transitions []Triple      `json:"transitions"`
	Rewards     []RewardEntry `json:"rewards,omitempty"`
}

// #endregion fixture-types

// #region load

// Load reads a fixture file and builds a validated sparse model from it.
func Load(path string) (*mdp.SparseModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return Model(f)
}

// Model builds a sparse model from an in-memory fixture. Every index is
// bounds-checked, probabilities are checked against [0,1], and each (s,a)
// row must sum to 1 within mdp.Epsilon; violations fail with
// mdp.ErrInvalidArgument.
func Model(f Fixture) (*mdp.SparseModel, error) {
	if f.States < 1 || f.Actions < 1 {
		return nil, fmt.Errorf("%w: fixture needs at least 1 state and 1 action, has %d and %d",
			mdp.ErrInvalidArgument, f.States, f.Actions)
	}
	if f.Discount < 0 || f.Discount > 1 {
		return nil, fmt.Errorf("%w: discount %v outside [0,1]", mdp.ErrInvalidArgument, f.Discount)
	}

	transitions := make([]*sparse.Matrix, f.Actions)
	for a := 0; a < f.Actions; a++ {
		transitions[a] = sparse.NewMatrix(f.States, f.States)
	}
	rewards := sparse.NewMatrix(f.States, f.Actions)

	for _, tr := range f.Transitions {
		if tr.From < 0 || tr.From >= f.States || tr.To < 0 || tr.To >= f.States ||
			tr.Action < 0 || tr.Action >= f.Actions {
			return nil, fmt.Errorf("%w: transition (%d,%d,%d) out of range", mdp.ErrInvalidArgument,
				tr.From, tr.Action, tr.To)
		}
		if tr.Prob < 0 || tr.Prob > 1 {
			return nil, fmt.Errorf("%w: probability %v for (%d,%d,%d) outside [0,1]", mdp.ErrInvalidArgument,
				tr.Prob, tr.From, tr.Action, tr.To)
		}
		transitions[tr.Action].Add(tr.From, tr.To, tr.Prob)
	}

	for s := 0; s < f.States; s++ {
		for a := 0; a < f.Actions; a++ {
			if sum := transitions[a].RowSum(s); math.Abs(sum-1) > mdp.Epsilon {
				return nil, fmt.Errorf("%w: transition row (%d,%d) sums to %v, want 1",
					mdp.ErrInvalidArgument, s, a, sum)
			}
		}
	}

	for _, re := range f.Rewards {
		if re.From < 0 || re.From >= f.States || re.Action < 0 || re.Action >= f.Actions {
			return nil, fmt.Errorf("%w: reward entry (%d,%d) out of range", mdp.ErrInvalidArgument,
				re.From, re.Action)
		}
		rewards.Add(re.From, re.Action, re.Reward)
	}

	for a := 0; a < f.Actions; a++ {
		transitions[a].Compact(mdp.Epsilon)
	}
	rewards.Compact(mdp.Epsilon)

	// Rows are proven valid above, so the trusted path is safe here.
	return mdp.NewSparseModelUnchecked(f.States, f.Actions, transitions, rewards, f.Discount), nil
}

// #endregion load

// #region export

// FromModel flattens a sparse model into a fixture.
func FromModel(m *mdp.SparseModel, description string) Fixture {
	f := Fixture{
		Description: description,
		States:      m.S(),
		Actions:     m.A(),
		Discount:    m.Discount(),
	}

	for a := 0; a < m.A(); a++ {
		tm := m.TransitionMatrixFor(a)
		for s := 0; s < m.S(); s++ {
			for _, e := range tm.Row(s) {
				f.Transitions = append(f.Transitions, Triple{From: s, Action: a, To: e.Col, Prob: e.Val})
			}
		}
	}
	rm := m.RewardMatrix()
	for s := 0; s < m.S(); s++ {
		for _, e := range rm.Row(s) {
			f.Rewards = append(f.Rewards, RewardEntry{From: s, Action: e.Col, Reward: e.Val})
		}
	}
	return f
}

// Save writes a fixture as indented JSON.
func Save(path string, f Fixture) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write fixture: %w", err)
	}
	return nil
}

// #endregion export
