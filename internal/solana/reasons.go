package solana

import (
	"strings"

	"airdropclient/internal/models"
)

// Anchor renders program errors either as the declared message or as
// "custom program error: 0x…" with code 6000 + enum offset, depending on
// the RPC path. Both spellings are matched here so nothing above this
// package ever inspects error strings.
var reasonPatterns = []struct {
	substrings []string
	reason     models.Reason
}{
	{[]string{"Snapshot already exists", "0x1782"}, models.ReasonSnapshotAlreadyExists},
	{[]string{"Snapshot too early", "0x1780"}, models.ReasonSnapshotTooEarly},
	{[]string{"Invalid day", "0x177f"}, models.ReasonInvalidDay},
	{[]string{"Pool is paused", "0x1777"}, models.ReasonPoolPaused},
	{[]string{"Pool has been terminated", "0x1772"}, models.ReasonPoolTerminated},
	{[]string{"Invalid merkle proof", "0x177e"}, models.ReasonInvalidMerkleProof},
	{[]string{"Airdrop pool exhausted", "0x1771"}, models.ReasonPoolExhausted},
	{[]string{"period ended", "Exit window", "expired", "0x1787"}, models.ReasonPeriodEnded},
	{[]string{"already in use"}, models.ReasonAlreadyInUse},
}

// ClassifyError maps a submission error onto the structured reason
// taxonomy. Unknown failures come back as ReasonUnclassified with the raw
// message preserved by the caller.
func ClassifyError(err error) models.Reason {
	if err == nil {
		return models.ReasonNone
	}
	msg := err.Error()
	for _, p := range reasonPatterns {
		for _, s := range p.substrings {
			if strings.Contains(msg, s) {
				return p.reason
			}
		}
	}
	return models.ReasonUnclassified
}
