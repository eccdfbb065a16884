package models

// Reason is a structured classification of a remote rejection. String
// matching on transport errors happens only in the chain adapter; everything
// above it works with these codes.
type Reason string

const (
	ReasonNone                  Reason = ""
	ReasonSnapshotAlreadyExists Reason = "snapshot_already_exists"
	ReasonSnapshotTooEarly      Reason = "snapshot_too_early"
	ReasonInvalidDay            Reason = "invalid_day"
	ReasonPoolPaused            Reason = "pool_paused"
	ReasonPoolTerminated        Reason = "pool_terminated"
	ReasonInvalidMerkleProof    Reason = "invalid_merkle_proof"
	ReasonPoolExhausted         Reason = "airdrop_pool_exhausted"
	ReasonPeriodEnded           Reason = "staking_period_ended"
	ReasonAlreadyInUse          Reason = "account_already_in_use"
	ReasonUnclassified          Reason = "unclassified"
)

// PoolLevel reports whether the reason reflects a pool-wide flag flip that
// invalidates the rest of the current schedule.
func (r Reason) PoolLevel() bool {
	return r == ReasonPoolPaused || r == ReasonPoolTerminated
}

// DayOutcome values for a single scheduled day.
const (
	OutcomeSubmitted     = "submitted"
	OutcomeAlreadyExists = "already_exists"
	OutcomeFailed        = "failed"
	OutcomeSkipped       = "skipped"
)

// RunStatus values for a whole snapshot run.
const (
	RunSuccess = "success"
	RunPartial = "partial"
	RunBlocked = "blocked"
	RunNoop    = "noop"
)

// DayResult is the outcome of one attempted day operation.
type DayResult struct {
	Day     uint64
	Kind    string
	Outcome string
	TxSig   string
	Reason  Reason
	Err     string
}

// RunReport is the structured result of one snapshot run. The driver maps
// it to log lines, audit rows and an exit code; the core never exits the
// process itself.
type RunReport struct {
	CurrentDay uint64
	Backfill   bool
	Status     string
	Detail     string
	Days       []DayResult
}

// Failed reports whether any scheduled day ended in a real failure.
func (r *RunReport) Failed() bool {
	for _, d := range r.Days {
		if d.Outcome == OutcomeFailed {
			return true
		}
	}
	return r.Status == RunBlocked
}
