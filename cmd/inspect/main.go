package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/logrusorgru/aurora"

	"github.com/danielpatrickdp/sparse-mdp/internal/mdp"
	"github.com/danielpatrickdp/sparse-mdp/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to models.db")
	modelID := flag.String("model", "", "show single model detail")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/models.db [--model id] [--json]")
		os.Exit(2)
	}

	s, err := store.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	if *modelID != "" {
		err = runDetailMode(s, *modelID, *jsonOut)
	} else {
		err = runListMode(s, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	ModelID   string  `json:"model_id"`
	Name      string  `json:"name"`
	States    int     `json:"states"`
	Actions   int     `json:"actions"`
	Discount  float64 `json:"discount"`
	NNZ       int     `json:"nnz"`
	CreatedAt string  `json:"created_at"`
}

func runListMode(s *store.Store, jsonOut bool) error {
	models, err := s.List()
	if err != nil {
		return err
	}

	rows := make([]listRow, 0, len(models))
	for _, m := range models {
		rows = append(rows, listRow{
			ModelID:   m.ModelID,
			Name:      m.Name,
			States:    m.States,
			Actions:   m.Actions,
			Discount:  m.Discount,
			NNZ:       m.NNZ,
			CreatedAt: m.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(rows)
	}

	fmt.Printf("%-36s  %-16s  %6s  %7s  %8s  %8s  %s\n",
		"MODEL", "NAME", "STATES", "ACTIONS", "DISCOUNT", "NNZ", "CREATED")
	for _, r := range rows {
		fmt.Printf("%-36s  %-16s  %6d  %7d  %8.3f  %8d  %s\n",
			r.ModelID, r.Name, r.States, r.Actions, r.Discount, r.NNZ, r.CreatedAt)
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

type stateRow struct {
	State    int       `json:"state"`
	Terminal bool      `json:"terminal"`
	RowSums  []float64 `json:"row_sums"` // one per action
	NNZ      int       `json:"nnz"`
	Rewards  []float64 `json:"rewards"` // expected reward per action
}

func runDetailMode(s *store.Store, id string, jsonOut bool) error {
	info, err := s.Get(id)
	if err != nil {
		return err
	}
	m, err := s.Load(id)
	if err != nil {
		return err
	}

	rows := make([]stateRow, 0, m.S())
	for st := 0; st < m.S(); st++ {
		r := stateRow{State: st, Terminal: m.IsTerminal(st)}
		for a := 0; a < m.A(); a++ {
			tm := m.TransitionMatrixFor(a)
			r.RowSums = append(r.RowSums, tm.RowSum(st))
			r.NNZ += len(tm.Row(st))
			r.Rewards = append(r.Rewards, m.ExpectedReward(st, a, 0))
		}
		rows = append(rows, r)
	}

	if jsonOut {
		out := struct {
			Model  listRow    `json:"model"`
			States []stateRow `json:"states"`
		}{
			Model: listRow{
				ModelID:   info.ModelID,
				Name:      info.Name,
				States:    info.States,
				Actions:   info.Actions,
				Discount:  info.Discount,
				NNZ:       info.NNZ,
				CreatedAt: info.CreatedAt.Format("2006-01-02 15:04:05"),
			},
			States: rows,
		}
		return json.NewEncoder(os.Stdout).Encode(out)
	}

	fmt.Printf("model %s (%s): %d states, %d actions, discount %.3f\n\n",
		info.ModelID, info.Name, info.States, info.Actions, info.Discount)
	fmt.Printf("%-6s  %-8s  %5s  %s\n", "STATE", "TERMINAL", "NNZ", "ROW SUMS (per action)")
	for _, r := range rows {
		sums := ""
		for _, sum := range r.RowSums {
			cell := fmt.Sprintf("%.6f ", sum)
			if math.Abs(sum-1) > mdp.Epsilon {
				// A deviating row means the stored model is corrupt.
				cell = aurora.Red(cell).String()
			}
			sums += cell
		}
		term := ""
		if r.Terminal {
			term = aurora.Green("yes").String()
		}
		fmt.Printf("%-6d  %-8s  %5d  %s\n", r.State, term, r.NNZ, sums)
	}
	return nil
}

// #endregion detail-mode
