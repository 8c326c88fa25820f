package leaderboard

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rankboard/core"
)

func TestUpdateWalkthrough(t *testing.T) {
	records := Sort(sampleRoster())

	m, err := Update(records, "Ayesha", 95)
	require.NoError(t, err)
	assert.Equal(t, Move{Name: "Ayesha", OldScore: 75, NewScore: 95, From: 5, To: 0}, m)
	assert.Equal(t, DirectionUp, m.Direction())
	assert.Equal(t, []string{"Ayesha", "Sahan", "Dinesh", "Kamal", "Thilina", "Dilki", "Rashmi", "Nimasha"}, names(records))

	m, err = Update(records, "Sahan", 60)
	require.NoError(t, err)
	assert.Equal(t, 1, m.From)
	assert.Equal(t, 7, m.To)
	assert.Equal(t, DirectionDown, m.Direction())
	assert.Equal(t, []string{"Ayesha", "Dinesh", "Kamal", "Thilina", "Dilki", "Rashmi", "Nimasha", "Sahan"}, names(records))
	assert.EqualValues(t, 60, records[7].Score())

	_, err = Update(records, "Nimasha", 80)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ayesha", "Dinesh", "Kamal", "Thilina", "Nimasha", "Dilki", "Rashmi", "Sahan"}, names(records))

	// Rashmi climbs until she meets Thilina's equal score and stops behind her.
	m, err = Update(records, "Rashmi", 82)
	require.NoError(t, err)
	assert.Equal(t, 6, m.From)
	assert.Equal(t, 4, m.To)
	assert.Equal(t, []pair{
		{"Ayesha", 95},
		{"Dinesh", 88},
		{"Kamal", 85},
		{"Thilina", 82},
		{"Rashmi", 82},
		{"Nimasha", 80},
		{"Dilki", 78},
		{"Sahan", 60},
	}, flatten(records))
}

func TestUpdateTieDoesNotPassNeighbour(t *testing.T) {
	records := build(pair{"a", 90}, pair{"b", 82}, pair{"c", 78}, pair{"d", 70})

	// b drops to c's score: it stays ahead of c.
	m, err := Update(records, "b", 78)
	require.NoError(t, err)
	assert.Equal(t, DirectionNone, m.Direction())
	assert.Equal(t, []string{"a", "b", "c", "d"}, names(records))

	// d climbs to a's score: it stops right behind a.
	m, err = Update(records, "d", 90)
	require.NoError(t, err)
	assert.Equal(t, 1, m.To)
	assert.Equal(t, []string{"a", "d", "b", "c"}, names(records))
}

func TestUpdateUnchangedScoreStays(t *testing.T) {
	records := Sort(sampleRoster())
	before := flatten(records)
	m, err := Update(records, "Kamal", 85)
	require.NoError(t, err)
	assert.Equal(t, 2, m.From)
	assert.Equal(t, 2, m.To)
	assert.Equal(t, before, flatten(records))
}

func TestUpdateNotFound(t *testing.T) {
	records := Sort(sampleRoster())
	before := flatten(records)

	_, err := Update(records, "Nobody", 100)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrNotFound))
	assert.Equal(t, before, flatten(records))

	// Matching is exact.
	_, err = Update(records, "ayesha", 100)
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = Update(nil, "Ayesha", 1)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestUpdateDuplicateNamesTouchFirst(t *testing.T) {
	records := build(pair{"x", 50}, pair{"dup", 40}, pair{"y", 30}, pair{"dup", 20})
	_, err := Update(records, "dup", 10)
	require.NoError(t, err)
	assert.Equal(t, []pair{{"x", 50}, {"y", 30}, {"dup", 20}, {"dup", 10}}, flatten(records))
}

func TestUpdateSingleRecord(t *testing.T) {
	records := build(pair{"only", 1})
	m, err := Update(records, "only", -5)
	require.NoError(t, err)
	assert.Equal(t, 0, m.To)
	assert.EqualValues(t, -5, records[0].Score())
}

func TestUpdateKeepsOrderProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	for round := 0; round < 100; round++ {
		n := 1 + rng.IntN(40)
		records := Sort(randomRoster(rng, n, 20))
		for step := 0; step < 30; step++ {
			target := records[rng.IntN(n)].Name()
			score := rng.Int64N(40) - 10
			m, err := Update(records, target, score)
			require.NoError(t, err)
			require.Equal(t, target, records[m.To].Name())
			require.Equal(t, score, records[m.To].Score())
			requireDescending(t, records)
		}
	}
}
