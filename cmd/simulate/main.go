package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/danielpatrickdp/sparse-mdp/internal/fixture"
	"github.com/danielpatrickdp/sparse-mdp/internal/mdp"
	"github.com/danielpatrickdp/sparse-mdp/internal/rollout"
	"github.com/danielpatrickdp/sparse-mdp/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to models.db (DB mode, with --model)")
	modelID := flag.String("model", "", "model id (DB mode)")
	fixturePath := flag.String("fixture", "", "path to fixture JSON (fixture mode)")
	episodes := flag.Int("episodes", 100, "number of episodes")
	steps := flag.Int("steps", 200, "max steps per episode")
	start := flag.Int("start", 0, "starting state")
	seed := flag.Int64("seed", 1, "seed for the model RNG and the action source")
	chartPath := flag.String("chart", "", "write a state-visit chart to this HTML file")
	flag.Parse()

	dbMode := *dbPath != "" && *modelID != ""
	fixtureMode := *fixturePath != ""
	if dbMode == fixtureMode {
		fmt.Fprintln(os.Stderr, "usage: simulate --db path/to/models.db --model id [flags]")
		fmt.Fprintln(os.Stderr, "       simulate --fixture path/to/fixture.json [flags]")
		os.Exit(2)
	}

	if err := run(*dbPath, *modelID, *fixturePath, *episodes, *steps, *start, *seed, *chartPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region run

func run(dbPath, modelID, fixturePath string, episodes, steps, start int, seed int64, chartPath string) error {
	// Seed before construction so the model's private RNG stream is fixed.
	mdp.Seed(seed)

	var m *mdp.SparseModel
	var err error
	if fixturePath != "" {
		m, err = fixture.Load(fixturePath)
		if err != nil {
			return err
		}
	} else {
		s, serr := store.NewStore(dbPath)
		if serr != nil {
			return fmt.Errorf("open store: %w", serr)
		}
		defer s.Close()
		m, err = s.Load(modelID)
		if err != nil {
			return err
		}
	}

	if start < 0 || start >= m.S() {
		return fmt.Errorf("%w: start state %d outside [0,%d)", mdp.ErrInvalidArgument, start, m.S())
	}

	cfg := rollout.Config{Episodes: episodes, MaxSteps: steps, Start: start, Seed: seed}
	res := rollout.Run(m, cfg)

	fmt.Printf("episodes:      %d\n", episodes)
	fmt.Printf("steps sampled: %d\n", res.Steps)
	fmt.Printf("terminal ends: %d\n", res.TerminalEnds)
	fmt.Printf("total reward:  %.3f\n", res.TotalReward)
	fmt.Printf("mean return:   %.3f\n", res.MeanReturn)

	if chartPath != "" {
		if err := writeChart(chartPath, res); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
		fmt.Printf("chart written to %s\n", chartPath)
	}
	return nil
}

// #endregion run

// #region chart

// writeChart renders the per-state visit counts as a bar chart.
func writeChart(path string, res rollout.Result) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "state visit counts",
			Subtitle: fmt.Sprintf("%d sampled steps", res.Steps),
		}),
	)

	var states []string
	items := make([]opts.BarData, 0, len(res.Visits))
	for s, v := range res.Visits {
		states = append(states, fmt.Sprintf("%d", s))
		items = append(items, opts.BarData{Value: v})
	}
	bar.SetXAxis(states).AddSeries("visits", items)

	page := components.NewPage()
	page.AddCharts(bar)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return page.Render(f)
}

// #endregion chart
