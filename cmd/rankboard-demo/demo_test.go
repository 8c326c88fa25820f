package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rankboard/adapters/jsonfile"
	"rankboard/core"
	"rankboard/leaderboard"
)

func TestOrdinal(t *testing.T) {
	cases := map[int]string{
		1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 10: "10th",
		11: "11th", 12: "12th", 13: "13th",
		21: "21st", 22: "22nd", 23: "23rd", 101: "101st", 111: "111th",
	}
	for n, want := range cases {
		assert.Equal(t, want, ordinal(n), n)
	}
}

func TestBadge(t *testing.T) {
	assert.Equal(t, "1st Place (Gold)", badge(1))
	assert.Equal(t, "2nd Place (Silver)", badge(2))
	assert.Equal(t, "3rd Place (Bronze)", badge(3))
	assert.Equal(t, "4th Place", badge(4))
	assert.Equal(t, "12th Place", badge(12))
}

func TestStandingsTable(t *testing.T) {
	out := standingsTable([]leaderboard.Standing{
		{Rank: 1, Name: "Ayesha", Score: 95},
		{Rank: 2, Name: "Dinesh", Score: 88},
	}, "Ayesha")
	assert.Contains(t, out, "Rank")
	assert.Contains(t, out, "Ayesha")
	assert.Contains(t, out, "2nd Place (Silver)")

	assert.Contains(t, standingsTable(nil, ""), "empty board")
}

func TestRunDefaultScenarios(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run(context.Background(), &buf, "", defaultScenarios, false))
	out := buf.String()

	for _, want := range []string{"PHASE 1", "PHASE 2", "PHASE 6", "SUMMARY", "Updates applied: 4"} {
		assert.Contains(t, out, want)
	}
	assert.Contains(t, out, "Ayesha: 75 -> 95 (rank 6 -> 1, up)")
	assert.Contains(t, out, "Sahan: 90 -> 60 (rank 2 -> 8, down)")
	assert.Contains(t, out, "Rashmi: 72 -> 82 (rank 7 -> 5, up)")
	assert.NotContains(t, out, "skipped")
}

func TestRunRosterFileAndUnknownName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.json")
	require.NoError(t, jsonfile.Write(path, []*core.Record{
		core.NewRecord("ann", 10),
		core.NewRecord("bob", 30),
	}))

	var buf bytes.Buffer
	err := run(context.Background(), &buf, path, []scenario{
		{Title: "SCORE UPDATE", Name: "ann", Score: 40},
		{Title: "SCORE UPDATE", Name: "zed", Score: 1},
	}, false)
	require.NoError(t, err)
	out := buf.String()

	assert.Contains(t, out, "ann: 10 -> 40 (rank 2 -> 1, up)")
	assert.Contains(t, out, `"zed" is not on the board`)
	assert.Contains(t, out, "Updates skipped (unknown name): 1")
}

func TestRunMissingRosterFile(t *testing.T) {
	var buf bytes.Buffer
	err := run(context.Background(), &buf, filepath.Join(t.TempDir(), "nope.json"), nil, false)
	assert.Error(t, err)
}

func TestParseUpdates(t *testing.T) {
	got, err := parseUpdates([]string{"Ayesha=95", " Sahan = -3 "})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Ayesha", got[0].Name)
	assert.EqualValues(t, 95, got[0].Score)
	assert.Equal(t, "Sahan", got[1].Name)
	assert.EqualValues(t, -3, got[1].Score)

	for _, bad := range []string{"Ayesha", "=5", "Ayesha=high"} {
		_, err := parseUpdates([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--update", "Kamal=99"})
	require.NoError(t, cmd.Execute())
	assert.True(t, strings.Contains(buf.String(), "Kamal: 85 -> 99 (rank 3 -> 1, up)"))

	cmd = newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--update", "broken"})
	assert.Error(t, cmd.Execute())
}
