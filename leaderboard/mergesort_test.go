package leaderboard

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rankboard/core"
)

func TestSortSampleRoster(t *testing.T) {
	got := Sort(sampleRoster())
	assert.Equal(t, []pair{
		{"Sahan", 90},
		{"Dinesh", 88},
		{"Kamal", 85},
		{"Thilina", 82},
		{"Dilki", 78},
		{"Ayesha", 75},
		{"Rashmi", 72},
		{"Nimasha", 68},
	}, flatten(got))
}

func TestSortTrivialInputs(t *testing.T) {
	assert.Nil(t, Sort(nil))
	assert.Empty(t, Sort([]*core.Record{}))

	one := build(pair{"solo", 3})
	out := Sort(one)
	require.Len(t, out, 1)
	assert.Same(t, one[0], out[0])
}

func TestSortInPlace(t *testing.T) {
	in := sampleRoster()
	out := Sort(in)
	assert.Equal(t, flatten(in), flatten(out))
	assert.Same(t, &in[0], &out[0])
}

func TestSortStability(t *testing.T) {
	in := build(
		pair{"a", 5}, pair{"b", 7}, pair{"c", 5}, pair{"d", 7},
		pair{"e", 1}, pair{"f", 5}, pair{"g", 7},
	)
	Sort(in)
	assert.Equal(t, []string{"b", "d", "g", "a", "c", "f", "e"}, names(in))
}

func TestSortProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for round := 0; round < 200; round++ {
		n := rng.IntN(64)
		in := randomRoster(rng, n, 10)
		position := make(map[string]int, n)
		for i, r := range in {
			position[r.Name()] = i
		}

		out := Sort(in)
		require.Len(t, out, n)
		requireDescending(t, out)

		for i := 1; i < len(out); i++ {
			if out[i-1].Score() == out[i].Score() {
				require.Less(t, position[out[i-1].Name()], position[out[i].Name()],
					"equal scores must keep input order")
			}
		}

		before := flatten(out)
		Sort(out)
		require.Equal(t, before, flatten(out), "sorting a sorted roster must not change it")
	}
}
