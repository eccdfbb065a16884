package airdrop

// ElapsedDays is the zero-based count of full days elapsed since startTime.
// Returns 0 when now is before startTime. Both arguments are integer epoch
// seconds; the division truncates, never rounds.
func ElapsedDays(startTime, now int64) uint64 {
	if now < startTime {
		return 0
	}
	return uint64(now-startTime) / SecondsPerDay
}

// CurrentDay is the one-based snapshot slot: day d becomes current once d
// full days have elapsed since startTime. 0 means the window has not
// started (or the first day has not yet fully elapsed); values above
// TotalDays mean the window has ended. Never stored, always recomputed.
func CurrentDay(startTime, now int64) uint64 {
	if now <= startTime {
		return 0
	}
	return ElapsedDays(startTime, now)
}
