// apps/go-server/internal/game/scoring.go
//
// Numeric and text helpers shared by the engines' finalize and report steps.
//
// Notes:
//   - Round is half-up (2.5 → 3) so scores match the numbers recruiters are
//     already calibrated to.
//   - Every ratio helper guards its denominator; scoring math never panics.

package game

import (
	"fmt"
	"math"
)

// Round rounds half-up to the nearest integer.
func Round(v float64) int { return int(math.Floor(v + 0.5)) }

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Percent returns round(n/d*100), or 0 when d is zero.
func Percent(n, d int) int {
	if d == 0 {
		return 0
	}
	return Round(float64(n) / float64(d) * 100)
}

// FormatClock renders whole seconds as m:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// Band is one tier of a tiered sentence: Text applies when the value is >= Min.
type Band struct {
	Min  float64
	Text string
}

// Pick returns the text of the first band whose Min the value reaches.
// Bands are checked in order, so list them from highest to lowest; a final
// band with Min math.Inf(-1) acts as the fallback.
func Pick(v float64, bands ...Band) string {
	for _, b := range bands {
		if v >= b.Min {
			return b.Text
		}
	}
	return ""
}

// Otherwise is the Min of a catch-all band.
var Otherwise = math.Inf(-1)
