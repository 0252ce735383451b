package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
}

var lunch = []Interval{{Start: at(12, 0), End: at(13, 0)}}

func TestEstimate_ClockPastLunchNeedsNoPush(t *testing.T) {
	entries := []Entry{
		{AppointmentID: 1, Position: 1, DurationMinutes: 180},
		{AppointmentID: 2, Position: 2, DurationMinutes: 180},
		{AppointmentID: 3, Position: 3, DurationMinutes: 180},
	}

	got := Estimate(entries, at(8, 0), lunch)

	require.Len(t, got, 3)
	assert.Equal(t, at(8, 0), got[0].Start)
	assert.Equal(t, at(11, 0), got[1].Start)
	assert.Equal(t, at(14, 0), got[2].Start)
	assert.Equal(t, 360, got[2].WaitMinutes)
}

func TestEstimate_PushesStartOutOfLunch(t *testing.T) {
	entries := []Entry{
		{AppointmentID: 1, Position: 1, DurationMinutes: 150},
		{AppointmentID: 2, Position: 2, DurationMinutes: 120},
		{AppointmentID: 3, Position: 3, DurationMinutes: 30},
	}

	got := Estimate(entries, at(8, 0), lunch)

	assert.Equal(t, at(10, 30), got[1].Start)
	assert.Equal(t, at(12, 30), got[1].End)
	assert.Equal(t, at(13, 0), got[2].Start)
	assert.Equal(t, 300, got[2].WaitMinutes)
}

func TestEstimate_DefaultDurationForNonPositive(t *testing.T) {
	entries := []Entry{
		{AppointmentID: 1, Position: 1, DurationMinutes: 0},
		{AppointmentID: 2, Position: 2, DurationMinutes: -10},
		{AppointmentID: 3, Position: 3, DurationMinutes: 15},
	}

	got := Estimate(entries, at(8, 0), nil)

	assert.Equal(t, at(8, 30), got[1].Start)
	assert.Equal(t, at(9, 0), got[2].Start)
}

func TestEstimate_AnchorInsideBreakAndChainedBreaks(t *testing.T) {
	breaks := []Interval{
		{Start: at(13, 0), End: at(13, 15)},
		{Start: at(12, 0), End: at(13, 0)},
	}
	entries := []Entry{{AppointmentID: 1, Position: 1, DurationMinutes: 30}}

	got := Estimate(entries, at(12, 10), breaks)

	assert.Equal(t, at(13, 15), got[0].Start)
	assert.Equal(t, 65, got[0].WaitMinutes)
}

func TestEstimate_MonotonicAndNeverStartsInBreak(t *testing.T) {
	breaks := []Interval{{Start: at(10, 0), End: at(10, 20)}, {Start: at(12, 0), End: at(13, 0)}}
	var entries []Entry
	for i := 1; i <= 20; i++ {
		entries = append(entries, Entry{AppointmentID: uint(i), Position: i, DurationMinutes: 5 + (i*17)%40})
	}

	got := Estimate(entries, at(8, 0), breaks)

	for i, pr := range got {
		for _, b := range breaks {
			assert.False(t, b.Contains(pr.Start), "entry %d starts inside a break", pr.AppointmentID)
		}
		if i > 0 {
			assert.False(t, pr.Start.Before(got[i-1].End))
		}
	}
}

func TestEstimate_Pure(t *testing.T) {
	entries := []Entry{{AppointmentID: 1, Position: 1, DurationMinutes: 45}, {AppointmentID: 2, Position: 2, DurationMinutes: 20}}
	assert.Equal(t, Estimate(entries, at(8, 0), lunch), Estimate(entries, at(8, 0), lunch))
}

func TestEstimateFor(t *testing.T) {
	entries := []Entry{{AppointmentID: 1, Position: 1, DurationMinutes: 45}, {AppointmentID: 2, Position: 2, DurationMinutes: 20}}

	pr, err := EstimateFor(entries, at(8, 0), nil, 2)
	require.NoError(t, err)
	assert.Equal(t, 45, pr.WaitMinutes)

	_, err = EstimateFor(entries, at(8, 0), nil, 3)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecompute_UsesServingEntryAsAnchor(t *testing.T) {
	serving := queued(1, 0, TierNormal)
	serving.Status = StatusOngoing
	started := at(8, 10)
	serving.StartedAt = &started
	p := newTestPartition(t, serving, queued(2, 1, TierNormal), queued(3, 2, TierNormal))

	sched := DaySchedule{Open: 8 * 60, Close: 17 * 60, Location: time.UTC}
	projections, err := p.Recompute(sched)
	require.NoError(t, err)

	require.Len(t, projections, 2)
	assert.Equal(t, at(8, 40), projections[0].Start)
	a, _ := p.Get(3)
	assert.Equal(t, 30, a.EstimatedWaitMinutes)
}

func TestParseWindowsAndBounds(t *testing.T) {
	windows, err := ParseWindows("12:00-13:00, 15:30-15:45")
	require.NoError(t, err)
	require.Len(t, windows, 2)
	assert.Equal(t, "15:30", windows[1].Start.String())

	_, err = ParseWindows("13:00-12:00")
	assert.ErrorIs(t, err, ErrInvalidTime)

	sched := DaySchedule{Open: 8 * 60, Close: 17 * 60, Breaks: windows, Location: time.UTC}
	hours, breaks, err := sched.Bounds(testDate)
	require.NoError(t, err)
	assert.Equal(t, at(8, 0), hours.Start)
	assert.Equal(t, at(17, 0), hours.End)
	assert.Equal(t, at(15, 30), breaks[1].Start)

	_, _, err = sched.Bounds("10/03/2026")
	assert.ErrorIs(t, err, ErrInvalidDate)
}
