package core

import "time"

// EventType enumerates leaderboard events.
type EventType string

const (
	EventRosterLoaded EventType = "roster_loaded"
	EventBoardSorted  EventType = "board_sorted"
	EventScoreUpdated EventType = "score_updated"
)

// Event represents an immutable leaderboard event.
type Event struct {
	Type     EventType     `json:"type"`
	Time     time.Time     `json:"time"`
	Name     string        `json:"name,omitempty"`
	OldScore int64         `json:"old_score,omitempty"`
	NewScore int64         `json:"new_score,omitempty"`
	From     int           `json:"from"`
	To       int           `json:"to"`
	Size     int           `json:"size,omitempty"`
	Duration time.Duration `json:"duration_ns,omitempty"`
}

func NewRosterLoaded(size int) Event {
	return Event{Type: EventRosterLoaded, Time: time.Now().UTC(), Size: size}
}

func NewBoardSorted(size int, took time.Duration) Event {
	return Event{Type: EventBoardSorted, Time: time.Now().UTC(), Size: size, Duration: took}
}

func NewScoreUpdated(name string, oldScore, newScore int64, from, to int, took time.Duration) Event {
	return Event{
		Type:     EventScoreUpdated,
		Time:     time.Now().UTC(),
		Name:     name,
		OldScore: oldScore,
		NewScore: newScore,
		From:     from,
		To:       to,
		Duration: took,
	}
}

// EventTypes lists every event type the service publishes.
var EventTypes = []EventType{EventRosterLoaded, EventBoardSorted, EventScoreUpdated}
