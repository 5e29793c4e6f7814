package ratio

import (
	"math"
	"strconv"
)

// InfinityGlyph is how an infinite ratio is displayed.
const InfinityGlyph = "∞"

type magnitude struct {
	min    float64
	suffix string
}

var magnitudes = []magnitude{
	{min: 1e9, suffix: "B"},
	{min: 1e6, suffix: "M"},
	{min: 1e3, suffix: "K"},
}

// abbreviate scales |v| to the largest matching suffix and prints it with prec decimals.
// The sign is returned separately so callers can place it before a currency symbol.
func abbreviate(v float64, prec int, scale []magnitude) (sign, body string) {
	if v < 0 {
		sign = "-"
		v = -v
	}
	for _, m := range scale {
		if v >= m.min {
			return sign, strconv.FormatFloat(v/m.min, 'f', prec, 64) + m.suffix
		}
	}
	return sign, strconv.FormatFloat(v, 'f', prec, 64)
}

// FormatCurrency renders a dollar amount, e.g. 2_500_000 -> "$2.50M".
func FormatCurrency(v float64) string {
	if math.IsInf(v, 1) {
		return "$" + InfinityGlyph
	}
	sign, body := abbreviate(v, 2, magnitudes)
	return sign + "$" + body
}

// FormatRatio renders a ratio, e.g. 1500 -> "1.50K". +Inf renders as "∞".
func FormatRatio(r float64) string {
	if math.IsInf(r, 1) {
		return InfinityGlyph
	}
	sign, body := abbreviate(r, 2, magnitudes)
	return sign + body
}

// FormatReadable renders the short form used for upstream market caps, e.g. "2.5M".
func FormatReadable(v float64) string {
	sign, body := abbreviate(v, 1, magnitudes[1:])
	if math.Abs(v) < 1e3 {
		body = strconv.FormatFloat(math.Abs(v), 'f', 2, 64)
	}
	return sign + body
}
