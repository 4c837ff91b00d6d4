// Package store persists sparse MDP models in SQLite: one metadata row per
// model plus flat triple tables for the nonzero transition and reward
// entries. Rows were validated before Save accepted the model, so Load
// rebuilds through the trusted constructor.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/sparse-mdp/internal/mdp"
	"github.com/danielpatrickdp/sparse-mdp/internal/sparse"
)

// #region schema

const schema = `
CREATE TABLE IF NOT EXISTS models (
	model_id    TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	states      INTEGER NOT NULL,
	actions     INTEGER NOT NULL,
	discount    REAL NOT NULL,
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transitions (
	model_id    TEXT NOT NULL,
	action      INTEGER NOT NULL,
	from_state  INTEGER NOT NULL,
	to_state    INTEGER NOT NULL,
	prob        REAL NOT NULL,
	FOREIGN KEY (model_id) REFERENCES models(model_id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_transitions_model ON transitions(model_id);

CREATE TABLE IF NOT EXISTS rewards (
	model_id    TEXT NOT NULL,
	from_state  INTEGER NOT NULL,
	action      INTEGER NOT NULL,
	reward      REAL NOT NULL,
	FOREIGN KEY (model_id) REFERENCES models(model_id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_rewards_model ON rewards(model_id);
`

// #endregion schema

// #region types

// ModelInfo is the metadata row of a stored model.
type ModelInfo struct {
	ModelID   string
	Name      string
	States    int
	Actions   int
	Discount  float64
	NNZ       int // nonzero transition entries
	CreatedAt time.Time
}

// Store manages model persistence in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion types

// #region constructor

// NewStore opens (or creates) a model database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying connection for tooling.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion constructor

// #region save

// Save writes a model under a fresh id and returns it. The metadata row and
// both triple tables are written in a single transaction.
func (s *Store) Save(m *mdp.SparseModel, name string) (string, error) {
	id := uuid.New().String()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO models (model_id, name, states, actions, discount, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, name, m.S(), m.A(), m.Discount(), now,
	)
	if err != nil {
		return "", fmt.Errorf("insert model: %w", err)
	}

	insTr, err := tx.Prepare(
		`INSERT INTO transitions (model_id, action, from_state, to_state, prob) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare transitions: %w", err)
	}
	defer insTr.Close()

	for a := 0; a < m.A(); a++ {
		tm := m.TransitionMatrixFor(a)
		for from := 0; from < m.S(); from++ {
			for _, e := range tm.Row(from) {
				if _, err := insTr.Exec(id, a, from, e.Col, e.Val); err != nil {
					return "", fmt.Errorf("insert transition: %w", err)
				}
			}
		}
	}

	insRw, err := tx.Prepare(
		`INSERT INTO rewards (model_id, from_state, action, reward) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare rewards: %w", err)
	}
	defer insRw.Close()

	rm := m.RewardMatrix()
	for from := 0; from < m.S(); from++ {
		for _, e := range rm.Row(from) {
			if _, err := insRw.Exec(id, from, e.Col, e.Val); err != nil {
				return "", fmt.Errorf("insert reward: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit save: %w", err)
	}
	return id, nil
}

// #endregion save

// #region load

// Load rebuilds a stored model. The triples were valid when saved, so the
// sparse tables go through the unchecked constructor.
func (s *Store) Load(id string) (*mdp.SparseModel, error) {
	info, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	transitions := make([]*sparse.Matrix, info.Actions)
	for a := 0; a < info.Actions; a++ {
		transitions[a] = sparse.NewMatrix(info.States, info.States)
	}
	rewards := sparse.NewMatrix(info.States, info.Actions)

	rows, err := s.db.Query(
		`SELECT action, from_state, to_state, prob FROM transitions WHERE model_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("query transitions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a, from, to int
		var p float64
		if err := rows.Scan(&a, &from, &to, &p); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		transitions[a].Insert(from, to, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transitions: %w", err)
	}

	rrows, err := s.db.Query(
		`SELECT from_state, action, reward FROM rewards WHERE model_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("query rewards: %w", err)
	}
	defer rrows.Close()
	for rrows.Next() {
		var from, a int
		var r float64
		if err := rrows.Scan(&from, &a, &r); err != nil {
			return nil, fmt.Errorf("scan reward: %w", err)
		}
		rewards.Insert(from, a, r)
	}
	if err := rrows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rewards: %w", err)
	}

	return mdp.NewSparseModelUnchecked(info.States, info.Actions, transitions, rewards, info.Discount), nil
}

// #endregion load

// #region metadata

// Get returns the metadata of one stored model.
func (s *Store) Get(id string) (ModelInfo, error) {
	var info ModelInfo
	var created string
	err := s.db.QueryRow(
		`SELECT m.model_id, m.name, m.states, m.actions, m.discount, m.created_at,
		        (SELECT COUNT(*) FROM transitions t WHERE t.model_id = m.model_id)
		 FROM models m WHERE m.model_id = ?`, id,
	).Scan(&info.ModelID, &info.Name, &info.States, &info.Actions, &info.Discount, &created, &info.NNZ)
	if err != nil {
		return ModelInfo{}, fmt.Errorf("get model %s: %w", id, err)
	}
	info.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return info, nil
}

// List returns the metadata of every stored model, newest first.
func (s *Store) List() ([]ModelInfo, error) {
	rows, err := s.db.Query(
		`SELECT m.model_id, m.name, m.states, m.actions, m.discount, m.created_at,
		        (SELECT COUNT(*) FROM transitions t WHERE t.model_id = m.model_id)
		 FROM models m ORDER BY m.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()

	var out []ModelInfo
	for rows.Next() {
		var info ModelInfo
		var created string
		if err := rows.Scan(&info.ModelID, &info.Name, &info.States, &info.Actions,
			&info.Discount, &created, &info.NNZ); err != nil {
			return nil, fmt.Errorf("scan model: %w", err)
		}
		info.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, info)
	}
	return out, rows.Err()
}

// Delete removes a model and, via cascade, its triples.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM models WHERE model_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete model: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete model %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

// #endregion metadata
