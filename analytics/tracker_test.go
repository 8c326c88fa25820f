package analytics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rankboard/core"
)

func at(e core.Event, ts time.Time) core.Event {
	e.Time = ts
	return e
}

func TestTrackerSummaries(t *testing.T) {
	day1 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)

	tr := NewTracker()
	tr.OnEvent(at(core.NewRosterLoaded(8), day1))
	tr.OnEvent(at(core.NewBoardSorted(8, time.Microsecond), day1))
	tr.OnEvent(at(core.NewScoreUpdated("Ayesha", 75, 95, 5, 0, 0), day1))
	tr.OnEvent(at(core.NewScoreUpdated("Sahan", 90, 60, 1, 7, 0), day1))
	tr.OnEvent(at(core.NewScoreUpdated("Ayesha", 95, 95, 0, 0, 0), day1))
	tr.OnEvent(at(core.NewScoreUpdated("Rashmi", 72, 82, 6, 4, 0), day2))

	s, ok := tr.Summary(PeriodDaily, "2024-01-01")
	require.True(t, ok)
	assert.EqualValues(t, 1, s.Loads)
	assert.EqualValues(t, 1, s.Sorts)
	assert.EqualValues(t, 3, s.Updates)
	assert.EqualValues(t, 1, s.Climbs)
	assert.EqualValues(t, 1, s.Drops)
	assert.EqualValues(t, 1, s.Unchanged)
	assert.EqualValues(t, 5, s.PlacesGained)
	assert.EqualValues(t, 6, s.PlacesLost)
	assert.Equal(t, 2, s.ActiveNames)

	daily := tr.Summaries(PeriodDaily)
	require.Len(t, daily, 2)
	assert.Equal(t, "2024-01-01", daily[0].Key)
	assert.Equal(t, "2024-01-02", daily[1].Key)

	week, ok := tr.Summary(PeriodWeekly, "2024-W01")
	require.True(t, ok)
	assert.EqualValues(t, 4, week.Updates)
	assert.Equal(t, 3, week.ActiveNames)

	month, ok := tr.Summary(PeriodMonthly, "2024-01")
	require.True(t, ok)
	assert.EqualValues(t, 4, month.Updates)

	_, ok = tr.Summary(PeriodDaily, "1999-12-31")
	assert.False(t, ok)
}

func TestTrackerTopMovers(t *testing.T) {
	tr := NewTracker()
	tr.OnEvent(core.NewScoreUpdated("a", 0, 0, 5, 0, 0))
	tr.OnEvent(core.NewScoreUpdated("b", 0, 0, 4, 2, 0))
	tr.OnEvent(core.NewScoreUpdated("c", 0, 0, 0, 7, 0))
	tr.OnEvent(core.NewScoreUpdated("d", 0, 0, 2, 4, 0))
	tr.OnEvent(core.NewScoreUpdated("e", 0, 0, 6, 4, 0))

	top := tr.TopMovers(3)
	require.Len(t, top, 3)
	assert.Equal(t, Mover{Name: "a", Updates: 1, NetPlaces: 5}, top[0])
	// b and e tie on two places; names break the tie
	assert.Equal(t, "b", top[1].Name)
	assert.Equal(t, "e", top[2].Name)

	bottom := tr.TopMovers(-2)
	require.Len(t, bottom, 2)
	assert.Equal(t, "c", bottom[0].Name)
	assert.Equal(t, "d", bottom[1].Name)

	assert.Len(t, tr.TopMovers(50), 5)
}

func TestTrackerReport(t *testing.T) {
	now := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	tr := NewTracker()
	tr.OnEvent(at(core.NewScoreUpdated("up", 1, 9, 3, 0, 0), now))
	tr.OnEvent(at(core.NewScoreUpdated("down", 9, 1, 0, 3, 0), now))
	tr.OnEvent(at(core.NewScoreUpdated("still", 5, 5, 1, 1, 0), now))

	r := tr.Report(now)
	assert.EqualValues(t, 3, r.Today.Updates)
	assert.EqualValues(t, 3, r.ThisWeek.Updates)
	require.Len(t, r.TopClimbers, 1)
	assert.Equal(t, "up", r.TopClimbers[0].Name)
	require.Len(t, r.TopFallers, 1)
	assert.Equal(t, "down", r.TopFallers[0].Name)

	empty := NewTracker().Report(now)
	assert.Zero(t, empty.Today.Updates)
	assert.Empty(t, empty.TopClimbers)
}

func TestTrackerConcurrentEvents(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tr.OnEvent(core.NewScoreUpdated("x", 0, 0, 1, 0, 0))
				_ = tr.TopMovers(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, Mover{Name: "x", Updates: 800, NetPlaces: 800}, tr.TopMovers(1)[0])
}
