package leaderboard

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"rankboard/core"
)

type pair struct {
	name  string
	score int64
}

func build(pairs ...pair) []*core.Record {
	out := make([]*core.Record, len(pairs))
	for i, p := range pairs {
		out[i] = core.NewRecord(p.name, p.score)
	}
	return out
}

func sampleRoster() []*core.Record {
	return build(
		pair{"Ayesha", 75},
		pair{"Thilina", 82},
		pair{"Nimasha", 68},
		pair{"Sahan", 90},
		pair{"Dilki", 78},
		pair{"Kamal", 85},
		pair{"Rashmi", 72},
		pair{"Dinesh", 88},
	)
}

func flatten(records []*core.Record) []pair {
	out := make([]pair, len(records))
	for i, r := range records {
		out[i] = pair{r.Name(), r.Score()}
	}
	return out
}

func names(records []*core.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name()
	}
	return out
}

func requireDescending(t *testing.T, records []*core.Record) {
	t.Helper()
	for i := 1; i < len(records); i++ {
		if records[i-1].Score() < records[i].Score() {
			t.Fatalf("not descending at %d: %v", i, flatten(records))
		}
	}
}

// randomRoster builds n uniquely named records with scores in [0, spread)
// so ties are common.
func randomRoster(rng *rand.Rand, n int, spread int64) []*core.Record {
	out := make([]*core.Record, n)
	for i := range out {
		out[i] = core.NewRecord(fmt.Sprintf("r%03d", i), rng.Int64N(spread))
	}
	return out
}
