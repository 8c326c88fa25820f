package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

type options struct {
	roster  string
	updates []string
	debug   bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "rankboard-demo",
		Short: "Sort a roster and replay score updates",
		Long: `rankboard-demo loads a roster (the built-in class of eight by default),
sorts it with a stable descending merge sort and then applies score updates
one by one, repositioning only the touched record each time.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scenarios := defaultScenarios
			if len(opts.updates) > 0 {
				parsed, err := parseUpdates(opts.updates)
				if err != nil {
					return err
				}
				scenarios = parsed
			}
			return run(cmd.Context(), cmd.OutOrStdout(), opts.roster, scenarios, opts.debug)
		},
	}

	cmd.Flags().StringVar(&opts.roster, "roster", "", "JSON roster file ([{\"name\":...,\"score\":...}]) instead of the sample class")
	cmd.Flags().StringArrayVar(&opts.updates, "update", nil, "score update as NAME=SCORE (repeatable, replaces the default scenarios)")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "log service activity to stderr")
	return cmd
}

func parseUpdates(raw []string) ([]scenario, error) {
	out := make([]scenario, 0, len(raw))
	for _, r := range raw {
		name, value, ok := strings.Cut(r, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --update %q: want NAME=SCORE", r)
		}
		score, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --update %q: score must be an integer", r)
		}
		out = append(out, scenario{
			Title: "SCORE UPDATE",
			Name:  name,
			Score: score,
		})
	}
	return out, nil
}
