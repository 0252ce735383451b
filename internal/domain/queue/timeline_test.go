package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func daySchedule(open, closing, breaks string) DaySchedule {
	o, _ := ParseTimeOfDay(open)
	c, _ := ParseTimeOfDay(closing)
	w, _ := ParseWindows(breaks)
	return DaySchedule{Open: o, Close: c, Breaks: w, Location: time.UTC}
}

func kinds(blocks []Block) []BlockKind {
	var out []BlockKind
	for _, b := range blocks {
		out = append(out, b.Kind)
	}
	return out
}

func TestCompose_ScheduledOverlapsQueueProjection(t *testing.T) {
	p := newTestPartition(t, scheduledAt(1, 10, 0, 30), queued(2, 1, TierNormal))

	tl, err := Compose(p, daySchedule("10:15", "12:00", ""))
	require.NoError(t, err)

	require.Len(t, tl.Conflicts, 1)
	c := tl.Conflicts[0]
	assert.Equal(t, 15, c.OverlapMinutes)
	assert.Equal(t, BlockScheduled, c.First.Kind)
	assert.Equal(t, uint(1), c.First.AppointmentID)
	assert.Equal(t, BlockQueue, c.Second.Kind)
	assert.Equal(t, at(10, 15), c.Second.Start)
	assert.Equal(t, at(10, 45), c.Second.End)
}

func TestCompose_BlocksSortedWithBreaksAndGaps(t *testing.T) {
	p := newTestPartition(t, scheduledAt(1, 9, 0, 60), queued(3, 1, TierNormal), queued(4, 2, TierNormal))

	tl, err := Compose(p, daySchedule("08:00", "17:00", "12:00-13:00"))
	require.NoError(t, err)

	assert.Equal(t, []BlockKind{BlockQueue, BlockQueue, BlockScheduled, BlockGap, BlockBreak, BlockGap}, kinds(tl.Blocks))
	assert.Equal(t, 1, tl.Blocks[0].Position)
	assert.Equal(t, at(10, 0), tl.Blocks[3].Start)
	assert.Equal(t, at(12, 0), tl.Blocks[3].End)
	assert.Equal(t, at(13, 0), tl.Blocks[5].Start)
	assert.Equal(t, at(17, 0), tl.Blocks[5].End)

	assert.NotNil(t, tl.Conflicts)
	assert.Empty(t, tl.Conflicts)

	assert.Equal(t, 60, tl.Capacity.QueueMinutes)
	// 540 de expediente - 60 agendado - 60 de pausa; a própria fila não desconta
	assert.Equal(t, 420, tl.Capacity.FreeMinutes)
	assert.True(t, tl.Capacity.Fits)
	assert.Equal(t, at(8, 0), tl.Open)
	assert.Equal(t, at(17, 0), tl.Close)
}

func TestCompose_CapacityOverflow(t *testing.T) {
	p := newTestPartition(t, queued(1, 1, TierNormal), queued(2, 2, TierNormal), queued(3, 3, TierNormal))

	tl, err := Compose(p, daySchedule("08:00", "09:00", ""))
	require.NoError(t, err)

	assert.Equal(t, 90, tl.Capacity.QueueMinutes)
	assert.Equal(t, 60, tl.Capacity.FreeMinutes)
	assert.False(t, tl.Capacity.Fits)
	assert.Equal(t, 30, tl.Capacity.OverflowMinutes)
	assert.NotContains(t, kinds(tl.Blocks), BlockGap)
}

func TestCompose_ServingCustomerShiftsLine(t *testing.T) {
	serving := queued(1, 0, TierNormal)
	serving.Status = StatusOngoing
	started := at(8, 10)
	serving.StartedAt = &started
	p := newTestPartition(t, serving, queued(2, 1, TierNormal))

	tl, err := Compose(p, daySchedule("08:00", "10:00", ""))
	require.NoError(t, err)

	require.Equal(t, []BlockKind{BlockGap, BlockQueue, BlockQueue, BlockGap}, kinds(tl.Blocks))
	assert.Equal(t, 0, tl.Blocks[1].Position)
	assert.Equal(t, StatusOngoing, tl.Blocks[1].Status)
	assert.Equal(t, at(8, 40), tl.Blocks[2].Start)
	assert.Equal(t, 90, tl.Capacity.FreeMinutes)
}

func TestCompose_SkipsFinishedAppointments(t *testing.T) {
	cancelled := scheduledAt(1, 9, 0, 30)
	cancelled.Status = StatusCancelled
	done := queued(2, 0, TierNormal)
	done.Status = StatusDone
	p := newTestPartition(t, cancelled, done)

	tl, err := Compose(p, daySchedule("08:00", "10:00", ""))
	require.NoError(t, err)

	assert.Equal(t, []BlockKind{BlockGap}, kinds(tl.Blocks))
	assert.Equal(t, 120, tl.Capacity.FreeMinutes)
}

func TestCompose_InvalidDate(t *testing.T) {
	p, err := NewPartition(Key{BarberID: 7, Date: "nope"}, 0, nil)
	require.NoError(t, err)

	_, err = Compose(p, daySchedule("08:00", "10:00", ""))
	assert.ErrorIs(t, err, ErrInvalidDate)
}
