// Package rollout runs sampling episodes against a sparse model. It stands
// in for the agent glue that would normally drive SampleSR: actions are
// drawn uniformly at random, which makes it a load generator for the
// sampler, not a learning algorithm.
package rollout

import (
	"math/rand"

	"github.com/danielpatrickdp/sparse-mdp/internal/mdp"
)

// #region config

// Config controls a rollout run.
type Config struct {
	Episodes int
	MaxSteps int // per-episode cap; episodes also end at terminal states
	Start    int // starting state for every episode
	Seed     int64
}

// DefaultConfig returns a short smoke-sized run.
func DefaultConfig() Config {
	return Config{
		Episodes: 100,
		MaxSteps: 200,
		Start:    0,
		Seed:     1,
	}
}

// #endregion config

// #region result

// Result aggregates a rollout run.
type Result struct {
	Visits       []int // per-state visit counts, successors only
	Steps        int
	TotalReward  float64
	TerminalEnds int     // episodes that reached a terminal state
	MeanReturn   float64 // TotalReward / Episodes
}

// #endregion result

// #region run

// Run executes cfg.Episodes episodes against the model. The action source is
// seeded from cfg.Seed, so a run is reproducible given a model constructed
// after mdp.Seed.
func Run(m *mdp.SparseModel, cfg Config) Result {
	rng := rand.New(rand.NewSource(cfg.Seed))
	res := Result{Visits: make([]int, m.S())}

	for ep := 0; ep < cfg.Episodes; ep++ {
		s := cfg.Start
		for step := 0; step < cfg.MaxSteps; step++ {
			if m.IsTerminal(s) {
				res.TerminalEnds++
				break
			}
			a := rng.Intn(m.A())
			s1, r := m.SampleSR(s, a)
			res.Visits[s1]++
			res.TotalReward += r
			res.Steps++
			s = s1
		}
	}

	if cfg.Episodes > 0 {
		res.MeanReturn = res.TotalReward / float64(cfg.Episodes)
	}
	return res
}

// #endregion run
