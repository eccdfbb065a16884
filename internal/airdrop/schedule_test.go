package airdrop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airdropclient/internal/models"
)

// poolWithMissing builds a record where exactly the given days (one-based)
// still hold the zero sentinel; every other day carries a recorded total.
func poolWithMissing(missing ...uint64) *models.PoolState {
	rec := &models.PoolState{
		DailyRewards:   make([]uint64, TotalDays),
		DailySnapshots: make([]uint64, TotalDays),
	}
	for d := uint64(1); d <= TotalDays; d++ {
		rec.DailySnapshots[d-1] = 1_000_000 + d
	}
	for _, d := range missing {
		rec.DailySnapshots[d-1] = 0
	}
	return rec
}

func TestMissingDays(t *testing.T) {
	rec := poolWithMissing(2, 5, 7, 12)

	assert.Equal(t, []uint64{2, 5, 7}, MissingDays(rec, 7), "capped at current day")
	assert.Equal(t, []uint64{2, 5, 7, 12}, MissingDays(rec, 25), "capped at the window")
	assert.Empty(t, MissingDays(rec, 1))
}

func TestMissingDaysIgnoresSnapshotCount(t *testing.T) {
	rec := poolWithMissing(3)
	rec.SnapshotCount = TotalDays // lies; only the sentinels are trusted

	assert.Equal(t, []uint64{3}, MissingDays(rec, 10))
}

func TestMissingDaysSmallValueCounts(t *testing.T) {
	rec := poolWithMissing()
	rec.DailySnapshots[4] = 1 // tiny but recorded

	assert.Empty(t, MissingDays(rec, 10))
}

func TestScheduleBackfill(t *testing.T) {
	rec := poolWithMissing(2, 5, 7)

	sched := ScheduleSnapshots(rec, 7, true)
	require.Equal(t, StatusPending, sched.Status)
	require.Equal(t, []SnapshotOp{
		{Day: 2, Kind: OpBackfill},
		{Day: 5, Kind: OpBackfill},
		{Day: 7, Kind: OpToday},
	}, sched.Ops)
}

func TestScheduleWithoutBackfillSkipsPastDays(t *testing.T) {
	rec := poolWithMissing(2, 5, 7)

	sched := ScheduleSnapshots(rec, 7, false)
	require.Equal(t, StatusPending, sched.Status)
	require.Equal(t, []SnapshotOp{{Day: 7, Kind: OpToday}}, sched.Ops)
}

func TestScheduleWithoutBackfillOnlyPastMissing(t *testing.T) {
	// Today is recorded, only older days are missing: without backfill the
	// run does nothing, by policy.
	rec := poolWithMissing(2, 5)

	sched := ScheduleSnapshots(rec, 7, false)
	assert.Equal(t, StatusUpToDate, sched.Status)
	assert.Empty(t, sched.Ops)
}

func TestScheduleUpToDate(t *testing.T) {
	sched := ScheduleSnapshots(poolWithMissing(), 10, true)
	assert.Equal(t, StatusUpToDate, sched.Status)
	assert.Empty(t, sched.Ops)
}

func TestScheduleRejections(t *testing.T) {
	rec := poolWithMissing(1)

	paused := poolWithMissing(1)
	paused.Paused = true
	assert.Equal(t, StatusBlockedPaused, ScheduleSnapshots(paused, 5, true).Status)

	terminated := poolWithMissing(1)
	terminated.Terminated = true
	assert.Equal(t, StatusBlockedTerminated, ScheduleSnapshots(terminated, 5, true).Status)

	assert.Equal(t, StatusNotStarted, ScheduleSnapshots(rec, 0, true).Status)
	assert.Equal(t, StatusWindowEnded, ScheduleSnapshots(rec, TotalDays+1, true).Status)
}

func TestScheduleIdempotent(t *testing.T) {
	rec := poolWithMissing(1, 4, 9)

	first := ScheduleSnapshots(rec, 9, true)
	second := ScheduleSnapshots(rec, 9, true)
	assert.Equal(t, first, second)
}

func TestScheduleFinalDayBackfill(t *testing.T) {
	rec := poolWithMissing(19, 20)

	sched := ScheduleSnapshots(rec, TotalDays, true)
	require.Equal(t, StatusPending, sched.Status)
	require.Equal(t, []SnapshotOp{
		{Day: 19, Kind: OpBackfill},
		{Day: 20, Kind: OpToday},
	}, sched.Ops)
}
