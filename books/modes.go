package books

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ModeLabel turns a stored mode such as "bank_transfer" into "Bank Transfer".
// UPI stays upper case.
func ModeLabel(mode string) string {
	mode = strings.TrimSpace(mode)
	if mode == "" {
		return "-"
	}
	if strings.EqualFold(mode, string(PaymentUPI)) {
		return "UPI"
	}
	return cases.Title(language.English).String(strings.ReplaceAll(mode, "_", " "))
}
