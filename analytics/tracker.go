// Package analytics aggregates leaderboard events into per-period movement
// summaries and a running table of who moved the most.
package analytics

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"

	"rankboard/core"
)

// Period selects the bucket width of a Summary.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

var periods = []Period{PeriodDaily, PeriodWeekly, PeriodMonthly}

// Summary counts what happened to the board during one period.
// Key is "2006-01-02" for daily, "2006-W01" for weekly and "2006-01" for
// monthly buckets.
type Summary struct {
	Period       Period `json:"period"`
	Key          string `json:"key"`
	Loads        int64  `json:"loads"`
	Sorts        int64  `json:"sorts"`
	Updates      int64  `json:"updates"`
	Climbs       int64  `json:"climbs"`
	Drops        int64  `json:"drops"`
	Unchanged    int64  `json:"unchanged"`
	PlacesGained int64  `json:"places_gained"`
	PlacesLost   int64  `json:"places_lost"`
	ActiveNames  int    `json:"active_names"`

	names map[string]struct{}
}

// Mover is the lifetime movement of one name. NetPlaces is positive when the
// record climbed overall.
type Mover struct {
	Name      string `json:"name"`
	Updates   int64  `json:"updates"`
	NetPlaces int64  `json:"net_places"`
}

// Report is a point-in-time view served over HTTP.
type Report struct {
	Today       Summary `json:"today"`
	ThisWeek    Summary `json:"this_week"`
	TopClimbers []Mover `json:"top_climbers"`
	TopFallers  []Mover `json:"top_fallers"`
}

// Tracker consumes events and is safe for concurrent use.
type Tracker struct {
	mu      sync.RWMutex
	buckets map[Period]map[string]*Summary
	movers  map[string]*Mover
}

func NewTracker() *Tracker {
	t := &Tracker{
		buckets: make(map[Period]map[string]*Summary, len(periods)),
		movers:  make(map[string]*Mover),
	}
	for _, p := range periods {
		t.buckets[p] = make(map[string]*Summary)
	}
	return t
}

// OnEvent records one leaderboard event.
func (t *Tracker) OnEvent(e core.Event) {
	ts := e.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, p := range periods {
		s := t.bucket(p, periodKey(p, ts))
		switch e.Type {
		case core.EventRosterLoaded:
			s.Loads++
		case core.EventBoardSorted:
			s.Sorts++
		case core.EventScoreUpdated:
			s.Updates++
			s.names[e.Name] = struct{}{}
			s.ActiveNames = len(s.names)
			switch moved := int64(e.From - e.To); {
			case moved > 0:
				s.Climbs++
				s.PlacesGained += moved
			case moved < 0:
				s.Drops++
				s.PlacesLost -= moved
			default:
				s.Unchanged++
			}
		}
	}

	if e.Type == core.EventScoreUpdated {
		m, ok := t.movers[e.Name]
		if !ok {
			m = &Mover{Name: e.Name}
			t.movers[e.Name] = m
		}
		m.Updates++
		m.NetPlaces += int64(e.From - e.To)
	}
}

func (t *Tracker) bucket(p Period, key string) *Summary {
	s, ok := t.buckets[p][key]
	if !ok {
		s = &Summary{Period: p, Key: key, names: map[string]struct{}{}}
		t.buckets[p][key] = s
	}
	return s
}

// Summary returns a copy of one bucket.
func (t *Tracker) Summary(p Period, key string) (Summary, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.buckets[p][key]
	if !ok {
		return Summary{Period: p, Key: key}, false
	}
	return s.copy(), true
}

// Summaries returns every bucket of a period ordered by key.
func (t *Tracker) Summaries(p Period) []Summary {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := lo.Map(lo.Values(t.buckets[p]), func(s *Summary, _ int) Summary { return s.copy() })
	slices.SortFunc(out, func(a, b Summary) int { return cmp.Compare(a.Key, b.Key) })
	return out
}

// TopMovers returns up to n names ordered by net places gained, largest
// first. Ties are broken by name. A negative n returns the biggest fallers
// instead.
func (t *Tracker) TopMovers(n int) []Mover {
	t.mu.RLock()
	all := lo.Map(lo.Values(t.movers), func(m *Mover, _ int) Mover { return *m })
	t.mu.RUnlock()

	fallers := n < 0
	if fallers {
		n = -n
	}
	slices.SortFunc(all, func(a, b Mover) int {
		if a.NetPlaces != b.NetPlaces {
			if (a.NetPlaces > b.NetPlaces) != fallers {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if n < len(all) {
		all = all[:n]
	}
	return all
}

// Report builds the current view relative to now.
func (t *Tracker) Report(now time.Time) Report {
	today, _ := t.Summary(PeriodDaily, periodKey(PeriodDaily, now))
	week, _ := t.Summary(PeriodWeekly, periodKey(PeriodWeekly, now))
	climbers := lo.Filter(t.TopMovers(5), func(m Mover, _ int) bool { return m.NetPlaces > 0 })
	fallers := lo.Filter(t.TopMovers(-5), func(m Mover, _ int) bool { return m.NetPlaces < 0 })
	return Report{Today: today, ThisWeek: week, TopClimbers: climbers, TopFallers: fallers}
}

func (s *Summary) copy() Summary {
	c := *s
	c.names = nil
	return c
}

func periodKey(p Period, ts time.Time) string {
	ts = ts.UTC()
	switch p {
	case PeriodWeekly:
		year, week := ts.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case PeriodMonthly:
		return ts.Format("2006-01")
	default:
		return ts.Format("2006-01-02")
	}
}
