package store

import (
	"database/sql"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/danielpatrickdp/sparse-mdp/internal/gridworld"
	"github.com/danielpatrickdp/sparse-mdp/internal/mdp"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "models.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func buildModel(t *testing.T) *mdp.SparseModel {
	t.Helper()
	m, err := gridworld.Build(gridworld.DefaultConfig())
	if err != nil {
		t.Fatalf("gridworld.Build: %v", err)
	}
	return m
}

func TestSaveAndLoad(t *testing.T) {
	s := tempStore(t)
	m := buildModel(t)

	id, err := s.Save(m, "gridworld-4x4")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id == "" {
		t.Fatal("expected a non-empty model id")
	}

	loaded, err := s.Load(id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.S() != m.S() || loaded.A() != m.A() {
		t.Fatalf("dimensions changed: %d×%d vs %d×%d", loaded.S(), loaded.A(), m.S(), m.A())
	}
	if loaded.Discount() != m.Discount() {
		t.Fatalf("discount changed: %f vs %f", loaded.Discount(), m.Discount())
	}
	for st := 0; st < m.S(); st++ {
		for a := 0; a < m.A(); a++ {
			for s1 := 0; s1 < m.S(); s1++ {
				want := m.TransitionProbability(st, a, s1)
				if got := loaded.TransitionProbability(st, a, s1); math.Abs(got-want) > mdp.Epsilon {
					t.Fatalf("p(%d|%d,%d) = %f, want %f", s1, st, a, got, want)
				}
			}
			want := m.ExpectedReward(st, a, 0)
			if got := loaded.ExpectedReward(st, a, 0); math.Abs(got-want) > mdp.Epsilon {
				t.Fatalf("reward at (%d,%d) = %f, want %f", st, a, got, want)
			}
		}
	}

	// Terminal structure survives the round trip
	goal := gridworld.StateIndex(gridworld.DefaultConfig(), 0, 3)
	if !loaded.IsTerminal(goal) {
		t.Fatal("goal state lost its terminal property")
	}
}

func TestGetAndList(t *testing.T) {
	s := tempStore(t)
	m := buildModel(t)

	id1, err := s.Save(m, "first")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	id2, err := s.Save(m, "second")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := s.Get(id1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if info.Name != "first" || info.States != 16 || info.Actions != 4 {
		t.Fatalf("unexpected metadata: %+v", info)
	}
	if info.NNZ == 0 {
		t.Fatal("expected nonzero transition count")
	}
	if info.CreatedAt.IsZero() {
		t.Fatal("expected a parsed creation time")
	}

	models, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("expected 2 models, got %d", len(models))
	}
	ids := map[string]bool{models[0].ModelID: true, models[1].ModelID: true}
	if !ids[id1] || !ids[id2] {
		t.Fatalf("listing missing saved ids: %+v", models)
	}
}

func TestDelete(t *testing.T) {
	s := tempStore(t)
	m := buildModel(t)

	id, err := s.Save(m, "doomed")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := s.Delete(id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(id); err == nil {
		t.Fatal("expected Get to fail after delete")
	}

	// Cascade removed the triples
	var n int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM transitions WHERE model_id = ?`, id).Scan(&n); err != nil {
		t.Fatalf("count transitions: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected cascade delete, %d transition rows remain", n)
	}

	if err := s.Delete(id); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows for a second delete, got %v", err)
	}
}

func TestLoadUnknownID(t *testing.T) {
	s := tempStore(t)
	if _, err := s.Load("no-such-model"); err == nil {
		t.Fatal("expected an error for an unknown id")
	}
}
