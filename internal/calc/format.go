package calc

import (
	"math"
	"strconv"
	"strings"
)

// ErrorDisplay is the literal shown while the error latch is set, matching
// the "E" an 8-digit pocket calculator shows on overflow.
const ErrorDisplay = "E"

// maxDigits is the display width, counting only the characters 0-9. The sign
// and the decimal point are free.
const maxDigits = 8

// FormatDisplay renders v as bounded-width display text, or ErrorDisplay when
// v cannot be represented. It is the single source of truth for "does this
// number fit": every transition that computes a value goes through it, and a
// returned ErrorDisplay is what latches the engine's error state.
func FormatDisplay(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrorDisplay
	}
	// 9 or more integer digits never fit.
	if math.Abs(v) >= 1e8 {
		return ErrorDisplay
	}
	if v == 0 {
		v = 0 // normalize -0
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if countDigits(s) <= maxDigits {
		return s
	}

	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		// Pure integer wider than the display; there is no safe truncation.
		return ErrorDisplay
	}

	budget := maxDigits - countDigits(s[:dot])
	if budget <= 0 {
		return ErrorDisplay
	}

	s = strconv.FormatFloat(v, 'f', budget, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s
}

func countDigits(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			n++
		}
	}
	return n
}

// parseDisplay converts display text back to its numeric value. Display text
// always parses while the error latch is clear; a trailing decimal point is
// accepted by strconv.
func parseDisplay(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
