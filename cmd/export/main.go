package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/sparse-mdp/internal/fixture"
	"github.com/danielpatrickdp/sparse-mdp/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to models.db")
	modelID := flag.String("model", "", "model id to export")
	outPath := flag.String("out", "", "output fixture JSON path")
	flag.Parse()

	if *dbPath == "" || *modelID == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: export --db path/to/models.db --model id --out path/to/fixture.json")
		os.Exit(2)
	}

	if err := run(*dbPath, *modelID, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region run

func run(dbPath, modelID, outPath string) error {
	s, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	info, err := s.Get(modelID)
	if err != nil {
		return err
	}
	m, err := s.Load(modelID)
	if err != nil {
		return err
	}

	f := fixture.FromModel(m, info.Name)
	if err := fixture.Save(outPath, f); err != nil {
		return err
	}

	fmt.Printf("exported %q to %s (%d transitions, %d rewards)\n",
		info.Name, outPath, len(f.Transitions), len(f.Rewards))
	return nil
}

// #endregion run
