// Package leaderboard keeps a collection of records ordered by descending
// score. Sort performs a full stable merge sort; Update changes one score and
// shifts that record locally so the collection stays ordered without a
// re-sort.
//
// Nothing in this package locks. Callers sharing a collection across
// goroutines must serialize access themselves.
package leaderboard

// Standing is a read-only view of a record at a rank (1-based).
type Standing struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Score int64  `json:"score"`
}

// Direction describes how an update moved a record.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionNone Direction = "none"
)

// Move reports the outcome of a single score update. From and To are
// 0-based positions before and after repositioning.
type Move struct {
	Name     string `json:"name"`
	OldScore int64  `json:"old_score"`
	NewScore int64  `json:"new_score"`
	From     int    `json:"from"`
	To       int    `json:"to"`
}

func (m Move) Direction() Direction {
	switch {
	case m.To < m.From:
		return DirectionUp
	case m.To > m.From:
		return DirectionDown
	default:
		return DirectionNone
	}
}
