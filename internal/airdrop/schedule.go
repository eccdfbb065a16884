package airdrop

import (
	"airdropclient/internal/models"
)

// OpKind distinguishes the two remote snapshot entry points. They are not
// interchangeable: "today" submits the plain snapshot instruction, while
// "backfill" targets an explicit past day.
type OpKind string

const (
	OpToday    OpKind = "today"
	OpBackfill OpKind = "backfill"
)

// SnapshotOp is one day-operation to attempt, in schedule order.
type SnapshotOp struct {
	Day  uint64
	Kind OpKind
}

// ScheduleStatus classifies why a schedule is (or is not) empty.
type ScheduleStatus string

const (
	StatusPending           ScheduleStatus = "pending"
	StatusUpToDate          ScheduleStatus = "up_to_date"
	StatusNotStarted        ScheduleStatus = "not_started"
	StatusWindowEnded       ScheduleStatus = "window_ended"
	StatusBlockedPaused     ScheduleStatus = "blocked_paused"
	StatusBlockedTerminated ScheduleStatus = "blocked_terminated"
)

// Schedule is the ordered set of day-operations to issue this run.
type Schedule struct {
	Status ScheduleStatus
	Ops    []SnapshotOp
}

// MissingDays returns the days in [1, min(currentDay, TotalDays)] whose
// snapshot slot still holds the zero sentinel, in ascending order. The
// snapshot vector is the sole authority; snapshotCount is ignored because
// it cannot identify which days are outstanding.
func MissingDays(rec *models.PoolState, currentDay uint64) []uint64 {
	limit := currentDay
	if limit > TotalDays {
		limit = TotalDays
	}
	var missing []uint64
	for d := uint64(1); d <= limit; d++ {
		if rec.DailySnapshots[d-1] == 0 {
			missing = append(missing, d)
		}
	}
	return missing
}

// ScheduleSnapshots decides which day-operations are safe to (re)issue
// given the decoded pool state and the current one-based day slot.
//
// Without backfill only the current day is ever scheduled, even when older
// days are missing; retroactive filling is opt-in by policy. With backfill
// every missing day is scheduled oldest-first, since later days' remote
// preconditions may depend on earlier days being recorded.
func ScheduleSnapshots(rec *models.PoolState, currentDay uint64, backfill bool) Schedule {
	switch {
	case rec.Paused:
		return Schedule{Status: StatusBlockedPaused}
	case rec.Terminated:
		return Schedule{Status: StatusBlockedTerminated}
	case currentDay < 1:
		return Schedule{Status: StatusNotStarted}
	case currentDay > TotalDays:
		return Schedule{Status: StatusWindowEnded}
	}

	missing := MissingDays(rec, currentDay)
	if len(missing) == 0 {
		return Schedule{Status: StatusUpToDate}
	}

	var ops []SnapshotOp
	if backfill {
		for _, d := range missing {
			ops = append(ops, SnapshotOp{Day: d, Kind: kindFor(d, currentDay)})
		}
	} else {
		for _, d := range missing {
			if d == currentDay {
				ops = append(ops, SnapshotOp{Day: d, Kind: OpToday})
			}
		}
		if len(ops) == 0 {
			// Only past days are missing and backfill is off.
			return Schedule{Status: StatusUpToDate}
		}
	}

	return Schedule{Status: StatusPending, Ops: ops}
}

func kindFor(day, currentDay uint64) OpKind {
	if day == currentDay {
		return OpToday
	}
	return OpBackfill
}
