package books

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes formatted amounts.
const CurrencySymbol = "₹"

// FormatAmount renders an amount with en-IN digit grouping and two decimals,
// e.g. 1234567.5 -> "12,34,567.50".
func FormatAmount(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)
	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	whole, frac, _ := strings.Cut(fixed, ".")
	grouped := groupIndian(whole)
	if negative && !amount.Round(2).IsZero() {
		grouped = "-" + grouped
	}
	return grouped + "." + frac
}

// FormatCurrency renders an amount with the rupee symbol.
func FormatCurrency(amount decimal.Decimal) string {
	return CurrencySymbol + FormatAmount(amount)
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}
