package airdrop

// Program-wide constants, mirrored from the on-chain airdrop program. The
// snapshot window is a fixed 20 days; after it closes stakers get another
// 15 days to exit before the admin may recover unclaimed rewards.
const (
	TotalDays      = 20
	SecondsPerDay  = 86400
	ExitWindowDays = 15

	// Token base units, 9 decimals.
	TokenDecimals = 9

	// 50M tokens reserved for airdrop claims, 100M for staking rewards.
	AirdropPoolRaw = 50_000_000_000_000_000
	StakingPoolRaw = 100_000_000_000_000_000
)

// ExitDeadline returns the epoch second after which the exit window is over.
func ExitDeadline(startTime int64) int64 {
	return startTime + (TotalDays+ExitWindowDays)*SecondsPerDay
}

// Expired reports whether the exit window has closed.
func Expired(startTime, now int64) bool {
	return now > ExitDeadline(startTime)
}
