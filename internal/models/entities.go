package models

import (
	"database/sql"
	"time"
)

// PoolState is the decoded on-chain pool account. The four identity keys at
// the head of the account are kept as raw 32-byte values; this client only
// compares them, it never interprets them.
type PoolState struct {
	Admin            [32]byte
	TokenMint        [32]byte
	PoolTokenAccount [32]byte
	MerkleRoot       [32]byte

	StartTime           int64
	TotalStaked         uint64
	TotalAirdropClaimed uint64

	// SnapshotCount is informational only. Missing days are always
	// determined from the DailySnapshots sentinels, never from this
	// counter, because the counter cannot say which days are outstanding.
	SnapshotCount uint8
	Terminated    bool
	Paused        bool

	// DailyRewards and DailySnapshots hold the first TotalDays entries of
	// the on-chain vectors. A DailySnapshots entry of 0 means the snapshot
	// for that day has not been recorded yet; the program writes the
	// running total_staked, which is never zero while the pool is live.
	DailyRewards   []uint64
	DailySnapshots []uint64
}

// Writable reports whether the pool accepts new snapshot/claim writes.
func (p *PoolState) Writable() bool {
	return !p.Paused && !p.Terminated
}

// UserStake is the decoded per-wallet stake account. It exists from claim
// until unstake; once closed it can no longer be fetched.
type UserStake struct {
	Owner        [32]byte
	StakedAmount uint64
	ClaimDay     uint64
}

// Run is one invocation of the snapshot driver, persisted to the optional
// audit store.
type Run struct {
	Id         sql.NullInt64 `db:"id" json:"id"`
	StartedAt  time.Time     `db:"started_at" json:"started_at"`
	Backfill   bool          `db:"backfill" json:"backfill"`
	CurrentDay int64         `db:"current_day" json:"current_day"`
	Status     string        `db:"status" json:"status"`
	Detail     string        `db:"detail" json:"detail"`
}

// RunDay is the outcome of a single scheduled day within a run.
type RunDay struct {
	Id      sql.NullInt64 `db:"id" json:"id"`
	RunId   int64         `db:"run_id" json:"run_id"`
	Day     int64         `db:"day" json:"day"`
	Kind    string        `db:"kind" json:"kind"`
	Outcome string        `db:"outcome" json:"outcome"`
	TxSig   string        `db:"tx_sig" json:"tx_sig"`
	Reason  string        `db:"reason" json:"reason"`
}

// ClaimAttempt is a persisted claim submission outcome.
type ClaimAttempt struct {
	Id        sql.NullInt64 `db:"id" json:"id"`
	Address   string        `db:"address" json:"address"`
	Verdict   string        `db:"verdict" json:"verdict"`
	AmountRaw int64         `db:"amount_raw" json:"amount_raw"`
	TxSig     string        `db:"tx_sig" json:"tx_sig"`
	Reason    string        `db:"reason" json:"reason"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}
