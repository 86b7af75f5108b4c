package books

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultRefundReason is sent when the operator leaves the reason blank.
const DefaultRefundReason = "Refund processed"

// RefundableAmount is the amount still available for refund on an invoice.
func RefundableAmount(inv *Invoice) decimal.Decimal {
	if inv == nil {
		return decimal.Zero
	}
	return inv.AmountPaid
}

// ValidateRefund runs the client-side refund pre-check.
func ValidateRefund(inv *Invoice, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return NewError(KindValidation, "Refund amount must be greater than 0", nil)
	}
	refundable := RefundableAmount(inv)
	if amount.GreaterThan(refundable) {
		msg := fmt.Sprintf("Refund amount cannot exceed refundable balance of %s", FormatCurrency(refundable))
		return NewError(KindValidation, msg, nil)
	}
	return nil
}

// ValidatePayment rejects non-positive payment amounts.
func ValidatePayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return NewError(KindValidation, "Payment amount must be greater than 0", nil)
	}
	return nil
}

// PaymentRequest is the body of a record-payment call.
type PaymentRequest struct {
	Amount      decimal.Decimal
	PaymentMode PaymentMode
	Date        time.Time
}

// Validate checks the payment request.
func (r PaymentRequest) Validate() error {
	if err := ValidatePayment(r.Amount); err != nil {
		return err
	}
	if r.PaymentMode == "" {
		return NewError(KindValidation, "payment mode is required", nil)
	}
	return nil
}

// RefundRequest is the body of a refund call.
type RefundRequest struct {
	Amount decimal.Decimal
	Mode   RefundMode
	Reason string
}

// Normalize fills defaults for blank fields.
func (r RefundRequest) Normalize() RefundRequest {
	r.Reason = strings.TrimSpace(r.Reason)
	if r.Reason == "" {
		r.Reason = DefaultRefundReason
	}
	if r.Mode == "" {
		r.Mode = RefundCash
	}
	return r
}
