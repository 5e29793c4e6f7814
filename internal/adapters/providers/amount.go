package providers

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// parseAmount reads upstream money strings such as "500000", "$1,234.5" or "2.5M".
func parseAmount(s string) (float64, error) {
	clean := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(s))
	if clean == "" {
		return 0, fmt.Errorf("%w: empty amount", ErrNotFound)
	}

	mult := 1.0
	switch clean[len(clean)-1] {
	case 'k', 'K':
		mult = 1e3
	case 'm', 'M':
		mult = 1e6
	case 'b', 'B':
		mult = 1e9
	}
	if mult != 1 {
		clean = clean[:len(clean)-1]
	}

	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	v *= mult
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("parse amount %q: out of range", s)
	}
	return v, nil
}
