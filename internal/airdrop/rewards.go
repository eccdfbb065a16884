package airdrop

import (
	"math/bits"

	"airdropclient/internal/models"
)

// AccruedRewards estimates the staking rewards a stake has accumulated so
// far, mirroring the program's unstake math: for each snapshotted day from
// the claim day onward, the staker earns their proportional share of that
// day's reward. Days whose snapshot slot is still zero contribute nothing.
// After the exit window the program pays no rewards at all.
func AccruedRewards(rec *models.PoolState, stake *models.UserStake, now int64) uint64 {
	if Expired(rec.StartTime, now) {
		return 0
	}

	var total uint64
	limit := uint64(rec.SnapshotCount)
	if limit > TotalDays {
		limit = TotalDays
	}
	for d := stake.ClaimDay; d < limit; d++ {
		snapshotTotal := rec.DailySnapshots[d]
		if snapshotTotal == 0 {
			continue
		}
		total += mulDiv(stake.StakedAmount, rec.DailyRewards[d], snapshotTotal)
	}
	return total
}

// ProjectedDayReward estimates the reward for a single zero-based day,
// using the actual snapshot when one exists, the latest snapshot for
// future days, or the live total when no snapshot has been taken yet.
func ProjectedDayReward(rec *models.PoolState, stake *models.UserStake, day uint64) uint64 {
	if day >= TotalDays || day < stake.ClaimDay {
		return 0
	}

	var snapshotTotal uint64
	switch {
	case day < uint64(rec.SnapshotCount):
		snapshotTotal = rec.DailySnapshots[day]
	case rec.SnapshotCount > 0:
		snapshotTotal = rec.DailySnapshots[rec.SnapshotCount-1]
	default:
		snapshotTotal = rec.TotalStaked
	}
	if snapshotTotal == 0 {
		return 0
	}
	return mulDiv(stake.StakedAmount, rec.DailyRewards[day], snapshotTotal)
}

// ProjectedRemainingRewards estimates what the stake would still earn over
// the days that have no snapshot yet, one ProjectedDayReward per remaining
// day. It assumes the pool composition stays as it is.
func ProjectedRemainingRewards(rec *models.PoolState, stake *models.UserStake) uint64 {
	from := uint64(rec.SnapshotCount)
	if from > TotalDays {
		from = TotalDays
	}
	var total uint64
	for d := from; d < TotalDays; d++ {
		total += ProjectedDayReward(rec, stake, d)
	}
	return total
}

// mulDiv computes a*b/div with the product widened to 128 bits, the same
// widening the program performs. A stake's share of a day never exceeds
// that day's reward, so the quotient always fits in 64 bits.
func mulDiv(a, b, div uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	quo, _ := bits.Div64(hi, lo, div)
	return quo
}
