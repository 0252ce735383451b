package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReorder_UrgentJumpsAhead(t *testing.T) {
	p := newTestPartition(t, queued(1, 1, TierNormal), queued(2, 2, TierNormal), queued(3, 3, TierNormal))

	_, err := p.ChangePriority(3, TierUrgent)
	require.NoError(t, err)
	changes := p.Reorder(DefaultTierRank())

	assert.Equal(t, map[uint]int{3: 1, 1: 2, 2: 3}, positions(p))
	assert.Len(t, changes, 3)
}

func TestReorder_TiersThenArrival(t *testing.T) {
	p := newTestPartition(t,
		queued(1, 1, TierLow), queued(2, 2, TierNormal), queued(3, 3, TierHigh),
		queued(4, 4, TierNormal), queued(5, 5, TierUrgent), queued(6, 6, TierHigh))

	p.Reorder(DefaultTierRank())

	assert.Equal(t, map[uint]int{5: 1, 3: 2, 6: 3, 2: 4, 4: 5, 1: 6}, positions(p))
	require.NoError(t, p.Validate())

	line := p.Waiting()
	rank := DefaultTierRank()
	for i := 1; i < len(line); i++ {
		assert.LessOrEqual(t, rank.Of(line[i-1].Priority), rank.Of(line[i].Priority))
	}
}

func TestReorder_Idempotent(t *testing.T) {
	p := newTestPartition(t, queued(1, 1, TierLow), queued(2, 2, TierHigh), queued(3, 3, TierNormal))

	first := p.Reorder(DefaultTierRank())
	assert.NotEmpty(t, first)

	second := p.Reorder(DefaultTierRank())
	assert.Empty(t, second)
}

func TestReorder_CustomRank(t *testing.T) {
	rank, err := ParseTierRank("urgent:3,high:2,normal:1,low:0")
	require.NoError(t, err)
	p := newTestPartition(t, queued(1, 1, TierUrgent), queued(2, 2, TierLow))

	p.Reorder(rank)

	assert.Equal(t, map[uint]int{2: 1, 1: 2}, positions(p))
}

func TestReorder_OverridesManualMoveAcrossTiers(t *testing.T) {
	p := newTestPartition(t, queued(1, 1, TierHigh), queued(2, 2, TierNormal))
	_, err := p.MoveToPosition(2, 1)
	require.NoError(t, err)

	p.Reorder(DefaultTierRank())

	assert.Equal(t, map[uint]int{1: 1, 2: 2}, positions(p))
}

func TestConvertToQueue_UrgentTakesFirstPlace(t *testing.T) {
	p := newTestPartition(t,
		queued(1, 1, TierNormal), queued(2, 2, TierNormal), queued(3, 3, TierNormal),
		scheduledAt(4, 15, 0, 45))

	pos, changes, err := p.ConvertToQueue(4, true, testNow)
	require.NoError(t, err)

	assert.Equal(t, 1, pos)
	assert.Equal(t, map[uint]int{4: 1, 1: 2, 2: 3, 3: 4}, positions(p))
	assert.Len(t, changes, 4)

	a, _ := p.Get(4)
	assert.Equal(t, KindQueue, a.Kind())
	_, fixed := a.StartTime()
	assert.False(t, fixed)
	require.NoError(t, p.Validate())
}

func TestConvertToQueue_NormalAppends(t *testing.T) {
	p := newTestPartition(t, queued(1, 1, TierNormal), scheduledAt(2, 15, 0, 45))

	pos, _, err := p.ConvertToQueue(2, false, testNow)
	require.NoError(t, err)
	assert.Equal(t, 2, pos)
}

func TestConvertToQueue_NormalAppendsWithoutGap(t *testing.T) {
	p := newTestPartition(t, queued(1, 1, TierNormal), queued(2, 2, TierNormal), scheduledAt(3, 15, 0, 45))

	pos, changes, err := p.ConvertToQueue(3, false, testNow)
	require.NoError(t, err)

	assert.Equal(t, 3, pos)
	assert.Equal(t, map[uint]int{1: 1, 2: 2, 3: 3}, positions(p))
	assert.Equal(t, []PositionChange{{AppointmentID: 3, ClientID: 103, From: 0, To: 3}}, changes)
	require.NoError(t, p.Validate())
}

func TestConvertToQueue_UrgentRecordsEachMoveOnce(t *testing.T) {
	p := newTestPartition(t, queued(1, 1, TierNormal), queued(2, 2, TierNormal), scheduledAt(3, 15, 0, 45))

	_, changes, err := p.ConvertToQueue(3, true, testNow)
	require.NoError(t, err)

	assert.ElementsMatch(t, []PositionChange{
		{AppointmentID: 2, ClientID: 102, From: 2, To: 3},
		{AppointmentID: 1, ClientID: 101, From: 1, To: 2},
		{AppointmentID: 3, ClientID: 103, From: 0, To: 1},
	}, changes)
	require.NoError(t, p.Validate())
}

func TestConvertToQueue_StampsArrivalForReorder(t *testing.T) {
	walkIn := pendingQueue(2)
	p := newTestPartition(t, queued(1, 1, TierNormal), walkIn, scheduledAt(3, 15, 0, 45))

	// walk-in chega antes da conversão
	_, _, err := p.Insert(2, false, testNow)
	require.NoError(t, err)
	_, _, err = p.ConvertToQueue(3, false, testNow.Add(time.Minute))
	require.NoError(t, err)

	converted, _ := p.Get(3)
	assert.Equal(t, testNow.Add(time.Minute), converted.InsertedAt)

	changes := p.Reorder(DefaultTierRank())
	assert.Empty(t, changes)
	assert.Equal(t, map[uint]int{1: 1, 2: 2, 3: 3}, positions(p))
}

func TestReorder_UrgentPlacementYieldsToArrival(t *testing.T) {
	p := newTestPartition(t, queued(1, 1, TierNormal), queued(2, 2, TierNormal), pendingQueue(3))

	_, _, err := p.Insert(3, true, testNow)
	require.NoError(t, err)
	assert.Equal(t, map[uint]int{3: 1, 1: 2, 2: 3}, positions(p))

	// mesma prioridade: volta para a ordem de chegada
	p.Reorder(DefaultTierRank())
	assert.Equal(t, map[uint]int{1: 1, 2: 2, 3: 3}, positions(p))
	require.NoError(t, p.Validate())
}

func TestConvertToQueue_InvalidState(t *testing.T) {
	pending := scheduledAt(2, 9, 0, 30)
	pending.Status = StatusPending
	cancelled := scheduledAt(3, 10, 0, 30)
	cancelled.Status = StatusCancelled
	p := newTestPartition(t, queued(1, 1, TierNormal), pending, cancelled)

	_, _, err := p.ConvertToQueue(1, false, testNow)
	assert.ErrorIs(t, err, ErrInvalidState)
	_, _, err = p.ConvertToQueue(2, false, testNow)
	assert.ErrorIs(t, err, ErrInvalidState)
	_, _, err = p.ConvertToQueue(3, true, testNow)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.False(t, p.HasChanges())
}

func TestParseTierRank_RequiresEveryTier(t *testing.T) {
	_, err := ParseTierRank("urgent:0,high:1")
	assert.Error(t, err)

	_, err = ParseTierRank("urgent:0,high:1,normal:x,low:3")
	assert.Error(t, err)

	_, err = ParseTierRank("urgent:0,high:1,normal:2,vip:3")
	assert.ErrorIs(t, err, ErrInvalidPriority)
}

func TestParseTierAndStatus(t *testing.T) {
	tier, err := ParseTier(" High ")
	require.NoError(t, err)
	assert.Equal(t, TierHigh, tier)

	tier, err = ParseTier("")
	require.NoError(t, err)
	assert.Equal(t, TierNormal, tier)

	_, err = ParseStatus("confirmed")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	assert.NoError(t, CanTransition(StatusPending, StatusScheduled))
	assert.ErrorIs(t, CanTransition(StatusDone, StatusOngoing), ErrInvalidTransition)
	assert.ErrorIs(t, CanTransition(StatusCancelled, StatusScheduled), ErrInvalidTransition)
}
