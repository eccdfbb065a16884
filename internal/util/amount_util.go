package util

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"airdropclient/internal/airdrop"
)

var printer = message.NewPrinter(language.English)

// FormatTokens renders a raw base-unit amount as a human token amount with
// thousands separators, trimming trailing fractional zeros.
func FormatTokens(raw uint64) string {
	const unit = uint64(1_000_000_000) // 10^TokenDecimals
	whole := raw / unit
	frac := raw % unit

	out := printer.Sprintf("%d", whole)
	if frac != 0 {
		// Plain fmt here: the locale printer would group the fraction
		// digits too.
		out += "." + strings.TrimRight(fmt.Sprintf("%09d", frac), "0")
	}
	return out
}

// FormatDay renders a one-based day slot as "day N/20".
func FormatDay(day uint64) string {
	return printer.Sprintf("day %d/%d", day, airdrop.TotalDays)
}
