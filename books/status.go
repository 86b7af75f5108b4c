package books

import (
	"strings"
	"time"
)

// Calculated status labels shown in lists and detail headers.
const (
	LabelPaid          = "PAID"
	LabelDraft         = "DRAFT"
	LabelPartiallyPaid = "PARTIALLY PAID"
	LabelOverdue       = "OVERDUE"
	LabelDueToday      = "DUE TODAY"
	LabelPending       = "PENDING"
)

// Badge holds the colour tokens of a status pill.
type Badge struct {
	Background string
	Text       string
	Border     string
}

// Class joins the badge tokens into a class attribute.
func (b Badge) Class() string {
	return b.Background + " " + b.Text + " " + b.Border
}

var neutralBadge = Badge{Background: "bg-slate-100", Text: "text-slate-600", Border: "border-slate-200"}

var statusBadges = map[string]Badge{
	"PAID":           {Background: "bg-green-100", Text: "text-green-700", Border: "border-green-200"},
	"PENDING":        {Background: "bg-orange-100", Text: "text-orange-700", Border: "border-orange-200"},
	"OVERDUE":        {Background: "bg-red-100", Text: "text-red-700", Border: "border-red-200"},
	"DRAFT":          neutralBadge,
	"SENT":           {Background: "bg-blue-100", Text: "text-blue-700", Border: "border-blue-200"},
	"PARTIALLY_PAID": {Background: "bg-yellow-100", Text: "text-yellow-700", Border: "border-yellow-200"},
}

// BadgeFor returns the badge for a status, matched case-insensitively.
// Unknown statuses get the neutral slate badge.
func BadgeFor(status string) Badge {
	key := strings.ToUpper(strings.TrimSpace(status))
	key = strings.ReplaceAll(key, " ", "_")
	if badge, ok := statusBadges[key]; ok {
		return badge
	}
	return neutralBadge
}

// CalculatedStatus derives the display status from the stored status and
// the due date. PAID, DRAFT and PARTIALLY_PAID win over date arithmetic;
// otherwise the calendar-day distance from now to the due date decides.
// A missing due date reads as PENDING.
func CalculatedStatus(status Status, dueDate, now time.Time) string {
	switch Status(strings.ToUpper(string(status))) {
	case StatusPaid:
		return LabelPaid
	case StatusDraft:
		return LabelDraft
	case StatusPartiallyPaid:
		return LabelPartiallyPaid
	}
	if dueDate.IsZero() {
		return LabelPending
	}

	days := DaysBetween(now, dueDate)
	switch {
	case days < 0:
		return LabelOverdue
	case days == 0:
		return LabelDueToday
	default:
		return LabelPending
	}
}

var activityDots = map[string]string{
	"created":          "bg-green-500",
	"sent":             "bg-blue-500",
	"paid":             "bg-green-500",
	"payment_recorded": "bg-emerald-500",
	"updated":          "bg-yellow-500",
}

// ActivityDot returns the marker colour token for an activity log action.
func ActivityDot(action string) string {
	if dot, ok := activityDots[strings.ToLower(strings.TrimSpace(action))]; ok {
		return dot
	}
	return "bg-slate-400"
}

var calculatedBadges = map[string]Badge{
	LabelPaid:          statusBadges["PAID"],
	LabelDraft:         neutralBadge,
	LabelPartiallyPaid: statusBadges["PARTIALLY_PAID"],
	LabelOverdue:       statusBadges["OVERDUE"],
	LabelDueToday:      {Background: "bg-orange-100", Text: "text-orange-700", Border: "border-orange-200"},
	LabelPending:       {Background: "bg-orange-100", Text: "text-orange-600", Border: "border-orange-200"},
}

// CalculatedBadge returns the badge for a label produced by CalculatedStatus.
func CalculatedBadge(label string) Badge {
	if badge, ok := calculatedBadges[label]; ok {
		return badge
	}
	return neutralBadge
}
