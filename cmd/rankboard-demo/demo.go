package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"rankboard/adapters/jsonfile"
	mem "rankboard/adapters/memory"
	"rankboard/core"
	"rankboard/engine"
	"rankboard/rankboard"
)

type scenario struct {
	Title string
	Note  string
	Name  string
	Score int64
}

var defaultScenarios = []scenario{
	{Title: "SCORE IMPROVEMENT", Note: "Ayesha climbs from 75 to 95 and should take the lead.", Name: "Ayesha", Score: 95},
	{Title: "SCORE CORRECTION", Note: "Sahan is corrected from 90 to 60 and should drop to last.", Name: "Sahan", Score: 60},
	{Title: "MINOR ADJUSTMENT", Note: "Nimasha improves from 68 to 80 and moves up several places.", Name: "Nimasha", Score: 80},
	{Title: "EQUAL SCORES", Note: "Rashmi reaches 82, level with Thilina, and stays behind her.", Name: "Rashmi", Score: 82},
}

type summary struct {
	applied  int
	missing  int
	sortTook time.Duration
	updTook  time.Duration
}

func run(ctx context.Context, out io.Writer, rosterPath string, scenarios []scenario, debug bool) error {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if debug {
		logger = slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelDebug, TimeFormat: time.Kitchen}))
	}

	var src engine.Source = mem.New(mem.SampleRoster()...)
	if rosterPath != "" {
		fs, err := jsonfile.New(rosterPath)
		if err != nil {
			return err
		}
		src = fs
	}

	svc := rankboard.New(
		rankboard.WithDispatchMode(engine.DispatchSync),
		rankboard.WithLogger(logger),
	)
	defer svc.Close()

	if err := svc.Load(ctx, src); err != nil {
		return err
	}

	var sum summary
	fmt.Fprintln(out, banner(
		"RANKBOARD",
		"Stable sorting with incremental updates",
	))

	fmt.Fprintln(out, phase(1, "INITIAL ROSTER (unsorted)"))
	if err := printBoard(ctx, out, svc, ""); err != nil {
		return err
	}

	fmt.Fprintln(out, phase(2, "MERGE SORT (descending)"))
	fmt.Fprintln(out, mutedStyle.Render("Stable merge sort, O(n log n) time, O(n) extra space"))
	took, err := svc.Sort(ctx)
	if err != nil {
		return err
	}
	sum.sortTook = took
	fmt.Fprintf(out, "Sort time: %s\n", micros(took.Nanoseconds()))
	if err := printBoard(ctx, out, svc, ""); err != nil {
		return err
	}

	for i, sc := range scenarios {
		fmt.Fprintln(out, phase(i+3, sc.Title))
		if sc.Note != "" {
			fmt.Fprintln(out, mutedStyle.Render(sc.Note))
		}
		start := time.Now()
		m, err := svc.UpdateScore(ctx, sc.Name, sc.Score)
		elapsed := time.Since(start)
		switch {
		case errors.Is(err, core.ErrNotFound):
			sum.missing++
			fmt.Fprintln(out, errStyle.Render(fmt.Sprintf("Error: %q is not on the board, nothing changed.", sc.Name)))
			continue
		case err != nil:
			return err
		}
		sum.applied++
		sum.updTook += elapsed
		fmt.Fprintf(out, "%s %s: %d -> %d (rank %d -> %d, %s)\n",
			okStyle.Render("[UPDATE]"), m.Name, m.OldScore, m.NewScore, m.From+1, m.To+1, m.Direction())
		fmt.Fprintf(out, "Update time: %s\n", micros(elapsed.Nanoseconds()))
		if err := printBoard(ctx, out, svc, m.Name); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, "\n"+rule)
	fmt.Fprintln(out, phaseStyle.Render("SUMMARY"))
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "%s Records on board: %d\n", okStyle.Render("✓"), svc.Size())
	fmt.Fprintf(out, "%s Full sort: %s\n", okStyle.Render("✓"), micros(sum.sortTook.Nanoseconds()))
	fmt.Fprintf(out, "%s Updates applied: %d (total %s)\n", okStyle.Render("✓"), sum.applied, micros(sum.updTook.Nanoseconds()))
	if sum.missing > 0 {
		fmt.Fprintf(out, "%s Updates skipped (unknown name): %d\n", errStyle.Render("✗"), sum.missing)
	}
	fmt.Fprintln(out, rule)
	return nil
}

func printBoard(ctx context.Context, out io.Writer, svc *engine.RankService, highlight string) error {
	standings, err := svc.Standings(ctx, 0)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, standingsTable(standings, highlight))
	return nil
}
