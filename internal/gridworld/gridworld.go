// Package gridworld builds small stochastic gridworld MDPs. The worlds are
// intentionally simple; they exist to exercise the sparse model with a
// transition graph whose nonzero fraction is tiny compared to S×A×S.
package gridworld

import (
	"fmt"

	"github.com/danielpatrickdp/sparse-mdp/internal/mdp"
)

// #region config

// Actions, clockwise from up.
const (
	ActionUp = iota
	ActionRight
	ActionDown
	ActionLeft
	NumActions
)

// Config describes a gridworld: Rows×Cols cells, 4 movement actions, the
// goal in the top-right corner. Slip is the probability mass diverted to the
// two perpendicular directions (split evenly); moves off the board reflect
// back onto the current cell. The goal cell is absorbing with zero reward.
type Config struct {
	Rows, Cols int
	Slip       float64 // in [0,1)
	StepReward float64 // reward for every non-goal transition, usually negative
	GoalReward float64 // reward for stepping onto the goal
	Discount   float64
}

// DefaultConfig returns a 4×4 world with a 10% slip chance.
func DefaultConfig() Config {
	return Config{
		Rows:       4,
		Cols:       4,
		Slip:       0.1,
		StepReward: -1,
		GoalReward: 10,
		Discount:   0.95,
	}
}

// #endregion config

// #region indexing

// StateIndex maps a cell to its state index, row-major.
func StateIndex(cfg Config, row, col int) int {
	return row*cfg.Cols + col
}

// goalState is the top-right corner.
func goalState(cfg Config) int {
	return StateIndex(cfg, 0, cfg.Cols-1)
}

// States returns the number of states of a world built from cfg.
func States(cfg Config) int {
	return cfg.Rows * cfg.Cols
}

// #endregion indexing

// #region build

// Build constructs the gridworld as dense transition and reward containers
// and feeds them through the validating sparse constructor.
func Build(cfg Config) (*mdp.SparseModel, error) {
	if cfg.Rows < 1 || cfg.Cols < 1 {
		return nil, fmt.Errorf("%w: grid %dx%d has no cells", mdp.ErrInvalidArgument, cfg.Rows, cfg.Cols)
	}
	if cfg.Slip < 0 || cfg.Slip >= 1 {
		return nil, fmt.Errorf("%w: slip %v outside [0,1)", mdp.ErrInvalidArgument, cfg.Slip)
	}

	states := States(cfg)
	goal := goalState(cfg)

	t := make([][][]float64, states)
	r := make([][][]float64, states)
	for s := 0; s < states; s++ {
		t[s] = make([][]float64, NumActions)
		r[s] = make([][]float64, NumActions)
		for a := 0; a < NumActions; a++ {
			t[s][a] = make([]float64, states)
			r[s][a] = make([]float64, states)
		}
	}

	for row := 0; row < cfg.Rows; row++ {
		for col := 0; col < cfg.Cols; col++ {
			s := StateIndex(cfg, row, col)
			if s == goal {
				// Absorbing: every action self-loops with zero reward.
				for a := 0; a < NumActions; a++ {
					t[s][a][s] = 1
				}
				continue
			}
			for a := 0; a < NumActions; a++ {
				intended := destination(cfg, row, col, a)
				t[s][a][intended] += 1 - cfg.Slip
				for _, side := range perpendicular(a) {
					t[s][a][destination(cfg, row, col, side)] += cfg.Slip / 2
				}
				for s1 := 0; s1 < states; s1++ {
					if t[s][a][s1] == 0 {
						continue
					}
					if s1 == goal {
						r[s][a][s1] = cfg.GoalReward
					} else {
						r[s][a][s1] = cfg.StepReward
					}
				}
			}
		}
	}

	return mdp.NewSparseModelFromDense(states, NumActions, t, r, cfg.Discount)
}

// destination returns the state reached from (row, col) under action a,
// reflecting off the board edges.
func destination(cfg Config, row, col, a int) int {
	nr, nc := row, col
	switch a {
	case ActionUp:
		nr--
	case ActionRight:
		nc++
	case ActionDown:
		nr++
	case ActionLeft:
		nc--
	}
	if nr < 0 || nr >= cfg.Rows || nc < 0 || nc >= cfg.Cols {
		return StateIndex(cfg, row, col)
	}
	return StateIndex(cfg, nr, nc)
}

// perpendicular returns the two slip directions for an action.
func perpendicular(a int) [2]int {
	if a == ActionUp || a == ActionDown {
		return [2]int{ActionLeft, ActionRight}
	}
	return [2]int{ActionUp, ActionDown}
}

// #endregion build
