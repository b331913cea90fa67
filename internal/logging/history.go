package logging

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// HistoryRecord is one row of history.csv
type HistoryRecord struct {
	Generation  int     `csv:"generation"`
	BestFitness float64 `csv:"best_fitness"`
}

func historyRecords(history []float64) []HistoryRecord {
	records := make([]HistoryRecord, len(history))
	for i, f := range history {
		records[i] = HistoryRecord{Generation: i + 1, BestFitness: f}
	}
	return records
}

// WriteHistory saves each generation's best fitness as CSV.
func WriteHistory(path string, history []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(historyRecords(history), f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// PlotHistory draws best fitness per generation and the running best to an
// image. The format follows the file extension (png, svg, pdf).
func PlotHistory(path string, history []float64) error {
	p := plot.New()
	p.Title.Text = "Best fitness per generation"
	p.X.Label.Text = "Generation"
	p.Y.Label.Text = "Fitness"

	best := make(plotter.XYs, len(history))
	running := make(plotter.XYs, len(history))
	top := 0.0
	for i, f := range history {
		if f > top {
			top = f
		}
		best[i].X, best[i].Y = float64(i+1), f
		running[i].X, running[i].Y = float64(i+1), top
	}

	bestLine, err := plotter.NewLine(best)
	if err != nil {
		return err
	}
	runningLine, err := plotter.NewLine(running)
	if err != nil {
		return err
	}
	runningLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(plotter.NewGrid(), bestLine, runningLine)
	p.Legend.Add("generation best", bestLine)
	p.Legend.Add("best so far", runningLine)
	p.Legend.Top = true
	p.Legend.Left = true

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("saving plot %s: %w", path, err)
	}
	return nil
}
