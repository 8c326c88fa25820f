package leaderboard

import "rankboard/core"

// Update sets the score of the first record named name and moves it to its
// place in an already sorted collection. It returns core.ErrNotFound (wrapped
// with the name) and leaves records untouched when no record matches.
//
// The record travels in one direction only: toward the front while it beats
// its predecessor, otherwise toward the back while its successor beats it. It
// stops next to the first neighbour with an equal score, so an update never
// reorders records that tie with the new score.
func Update(records []*core.Record, name string, newScore int64) (Move, error) {
	i := locate(records, name)
	if i < 0 {
		return Move{}, core.NotFound(name)
	}
	return reposition(records, i, newScore, nil), nil
}

// locate returns the position of the first record named name, or -1.
func locate(records []*core.Record, name string) int {
	for i, r := range records {
		if r.Name() == name {
			return i
		}
	}
	return -1
}

// reposition assigns newScore to records[i] and bubbles it into place.
// onSwap, when set, is called with both positions after every swap.
func reposition(records []*core.Record, i int, newScore int64, onSwap func(a, b int)) Move {
	r := records[i]
	m := Move{Name: r.Name(), OldScore: r.Score(), NewScore: newScore, From: i}
	r.SetScore(newScore)

	switch {
	case i > 0 && newScore > records[i-1].Score():
		for i > 0 && records[i].Score() > records[i-1].Score() {
			swap(records, i, i-1, onSwap)
			i--
		}
	case i < len(records)-1 && newScore < records[i+1].Score():
		for i < len(records)-1 && records[i].Score() < records[i+1].Score() {
			swap(records, i, i+1, onSwap)
			i++
		}
	}

	m.To = i
	return m
}

func swap(records []*core.Record, a, b int, onSwap func(a, b int)) {
	records[a], records[b] = records[b], records[a]
	if onSwap != nil {
		onSwap(a, b)
	}
}
