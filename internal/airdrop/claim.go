package airdrop

import (
	"airdropclient/internal/models"
)

// ClaimEntry is one wallet's row in the precomputed eligibility set. Proof
// is the ordered merkle inclusion path; the client forwards it verbatim,
// verification belongs to the program.
type ClaimEntry struct {
	HumanAmount string
	RawAmount   uint64
	Proof       [][32]byte
}

// VerdictKind is the terminal result of a claim evaluation.
type VerdictKind string

const (
	NotEligible       VerdictKind = "not_eligible"
	AlreadyClaimed    VerdictKind = "already_claimed"
	CheckOnly         VerdictKind = "check_only"
	BlockedPaused     VerdictKind = "blocked_paused"
	BlockedTerminated VerdictKind = "blocked_terminated"
	Claimable         VerdictKind = "claimable"
)

// ClaimVerdict carries the verdict plus whatever the terminal condition
// makes available: the eligibility entry for CheckOnly/Claimable, the
// still-staked amount for AlreadyClaimed.
type ClaimVerdict struct {
	Kind  VerdictKind
	Entry *ClaimEntry

	// AlreadyClaimed detail: staked amount if the stake account still
	// exists, otherwise the wallet has already unstaked.
	StakedAmount    uint64
	AlreadyUnstaked bool
}

// EvaluateClaim decides claimability for one wallet. Conditions are checked
// in a fixed order and the first match is terminal. Check-only evaluation
// performs no write, so it reports eligibility before the pause/terminate
// gates are consulted.
func EvaluateClaim(rec *models.PoolState, entry *ClaimEntry, markerExists bool, checkOnly bool, stake *models.UserStake) ClaimVerdict {
	if entry == nil {
		return ClaimVerdict{Kind: NotEligible}
	}
	if markerExists {
		v := ClaimVerdict{Kind: AlreadyClaimed, Entry: entry}
		if stake != nil {
			v.StakedAmount = stake.StakedAmount
		} else {
			v.AlreadyUnstaked = true
		}
		return v
	}
	if checkOnly {
		return ClaimVerdict{Kind: CheckOnly, Entry: entry}
	}
	if rec.Paused {
		return ClaimVerdict{Kind: BlockedPaused, Entry: entry}
	}
	if rec.Terminated {
		return ClaimVerdict{Kind: BlockedTerminated, Entry: entry}
	}
	return ClaimVerdict{Kind: Claimable, Entry: entry}
}
