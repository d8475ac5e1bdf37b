// Command taskfarm runs the reference batch (12 sequential inputs) through
// the worker pool and reports what happened.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/utkarsh5026/taskfarm/logging"
	"github.com/utkarsh5026/taskfarm/pool"
)

const numTasks = 12

var bold = color.New(color.Bold)

func main() {
	workers := flag.Int("n", -1, "number of workers (-1 = detected parallelism minus one)")
	flag.Parse()

	handler := logging.NewConsoleHandler(os.Stdout, logging.LevelInfo)
	logger := logging.New("", logging.LevelInfo, handler)

	cfg := pool.DefaultConfig()
	cfg.Workers = *workers
	cfg.Logger = logger
	cfg.ShowProgress = true

	// Sequential inputs 0..N-1: value 0 trips request validation and value 11
	// squares past the response bound, so both recovery paths show up in a
	// normal run.
	values := make([]int, numTasks)
	for i := range values {
		values[i] = i
	}

	p := pool.New(cfg)
	summary := p.Run(context.Background(), values)

	for i, result := range summary.Results {
		if expected := (i + 1) * (i + 1); result != expected {
			logger.Errorf("results[%d]: expected=%d, value=%d", i, expected, result)
		}
	}

	fmt.Println()
	_, _ = bold.Println("Run Summary")
	renderSummary(summary)
}

func renderSummary(s *pool.Summary) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Workers", "Submitted", "Accepted", "Succeeded", "Failed", "Elapsed")
	_ = table.Append(
		strconv.Itoa(s.Workers),
		strconv.Itoa(s.Submitted),
		strconv.Itoa(s.Accepted),
		strconv.Itoa(s.Succeeded),
		strconv.Itoa(s.Failed),
		s.Elapsed.Round(time.Millisecond).String(),
	)
	_ = table.Render()
}
