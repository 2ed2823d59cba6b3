package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// DropsPerXRP is the ledger's minor-unit divisor: 1 XRP = 1e6 drops.
const DropsPerXRP = 1_000_000

func TruncateString(str string, num int) string {
	if len(str) <= num {
		return str
	}
	if num <= 3 {
		return str[:num]
	}
	return str[0:num-3] + "..."
}

// FormatDrops renders a drops amount (decimal string of the smallest unit)
// as XRP with six decimals. The math stays in integers so the displayed
// balance is exact.
func FormatDrops(drops string) (string, error) {
	d, err := strconv.ParseInt(strings.TrimSpace(drops), 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid drops amount %q: %w", drops, err)
	}
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	return fmt.Sprintf("%s%d.%06d", sign, d/DropsPerXRP, d%DropsPerXRP), nil
}

func FormatFloat(f float64, decimals int) string {
	return fmt.Sprintf("%.*f", decimals, f)
}

// FormatSignedAmount renders a transaction amount with an explicit sign,
// right-aligned the way the transaction table expects.
func FormatSignedAmount(f float64) string {
	return fmt.Sprintf("%+16.6f", f)
}

// IsValidAmount reports whether s is a plain positive decimal number, the
// only form accepted by the send form.
func IsValidAmount(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	parts := strings.SplitN(s, ".", 2)
	for _, p := range parts {
		for _, r := range p {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	if parts[0] == "" && (len(parts) == 1 || parts[1] == "") {
		return false
	}
	v, err := strconv.ParseFloat(s, 64)
	return err == nil && v > 0
}
