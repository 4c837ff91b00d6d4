package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/sparse-mdp/internal/gridworld"
	"github.com/danielpatrickdp/sparse-mdp/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to models.db")
	name := flag.String("name", "gridworld", "model name")
	rows := flag.Int("rows", 4, "grid rows")
	cols := flag.Int("cols", 4, "grid columns")
	slip := flag.Float64("slip", 0.1, "slip probability in [0,1)")
	discount := flag.Float64("discount", 0.95, "discount factor in [0,1]")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: bootstrap --db path/to/models.db [--name n] [--rows r] [--cols c] [--slip p] [--discount d]")
		os.Exit(2)
	}

	if err := run(*dbPath, *name, *rows, *cols, *slip, *discount); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region run

func run(dbPath, name string, rows, cols int, slip, discount float64) error {
	cfg := gridworld.DefaultConfig()
	cfg.Rows = rows
	cfg.Cols = cols
	cfg.Slip = slip
	cfg.Discount = discount

	model, err := gridworld.Build(cfg)
	if err != nil {
		return fmt.Errorf("build gridworld: %w", err)
	}

	s, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	id, err := s.Save(model, name)
	if err != nil {
		return fmt.Errorf("save model: %w", err)
	}

	nnz := 0
	for a := 0; a < model.A(); a++ {
		nnz += model.TransitionMatrixFor(a).NNZ()
	}
	fmt.Printf("saved %q (%d states, %d actions, %d nonzero transitions)\n", name, model.S(), model.A(), nnz)
	fmt.Println(id)
	return nil
}

// #endregion run
