package codec

import (
	"airdropclient/internal/airdrop"
	"airdropclient/internal/models"
)

// On-chain vector sizes. The program reserves 32 slots per vector but only
// the first TotalDays are ever written.
const (
	rewardVectorLen   = 32 * 8 // [u64; 32]
	snapshotVectorLen = airdrop.TotalDays * 8
)

// poolStateLayout returns the field table for the pool account. The short
// layout stops after the flag bytes and is enough for pause/terminate and
// claim-count checks; the full layout additionally exposes the reward and
// snapshot vectors the scheduler needs.
func poolStateLayout(rec *models.PoolState, full bool) []field {
	layout := []field{
		skip("discriminator", discriminatorLen),
		keyField("admin", &rec.Admin),
		keyField("tokenMint", &rec.TokenMint),
		keyField("poolTokenAccount", &rec.PoolTokenAccount),
		keyField("merkleRoot", &rec.MerkleRoot),
		i64Field("startTime", &rec.StartTime),
		u64Field("totalStaked", &rec.TotalStaked),
		u64Field("totalAirdropClaimed", &rec.TotalAirdropClaimed),
		u8Field("snapshotCount", &rec.SnapshotCount),
		boolField("terminated", &rec.Terminated),
		skip("bump", 1),
		skip("poolTokenBump", 1),
		boolField("paused", &rec.Paused),
	}
	if !full {
		return layout
	}
	return append(layout,
		skip("padding", 3),
		u64VectorField("dailyRewards", rewardVectorLen, airdrop.TotalDays, &rec.DailyRewards),
		u64VectorField("dailySnapshots", snapshotVectorLen, airdrop.TotalDays, &rec.DailySnapshots),
	)
}

// DecodePoolState decodes the full pool account, including the per-day
// reward and snapshot vectors.
func DecodePoolState(buf []byte) (*models.PoolState, error) {
	rec := &models.PoolState{}
	if err := decode(buf, poolStateLayout(rec, true)); err != nil {
		return nil, err
	}
	return rec, nil
}

// DecodePoolStateShort decodes only the head of the pool account, through
// the pause/terminate flags.
func DecodePoolStateShort(buf []byte) (*models.PoolState, error) {
	rec := &models.PoolState{}
	if err := decode(buf, poolStateLayout(rec, false)); err != nil {
		return nil, err
	}
	return rec, nil
}

// DecodeUserStake decodes a per-wallet stake account.
func DecodeUserStake(buf []byte) (*models.UserStake, error) {
	rec := &models.UserStake{}
	layout := []field{
		skip("discriminator", discriminatorLen),
		keyField("owner", &rec.Owner),
		u64Field("stakedAmount", &rec.StakedAmount),
		u64Field("claimDay", &rec.ClaimDay),
		skip("bump", 1),
	}
	if err := decode(buf, layout); err != nil {
		return nil, err
	}
	return rec, nil
}
