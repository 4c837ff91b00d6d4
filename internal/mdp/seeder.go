package mdp

import (
	"math/rand"
	"sync"
	"time"
)

// #region seeder

// The process-wide seed source. Every model draws one seed here at
// construction and then owns a private generator, so sampling never shares
// RNG state across models.
var (
	seederMu sync.Mutex
	seeder   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// Seed re-seeds the process-wide seed source. Models constructed afterwards
// draw a deterministic seed sequence, which makes sampling reproducible in
// tests and replayable simulations.
func Seed(seed int64) {
	seederMu.Lock()
	defer seederMu.Unlock()
	seeder = rand.New(rand.NewSource(seed))
}

// nextSeed returns the next construction seed.
func nextSeed() int64 {
	seederMu.Lock()
	defer seederMu.Unlock()
	return seeder.Int63()
}

// #endregion seeder
