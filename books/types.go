package books

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the stored invoice status.
type Status string

const (
	StatusDraft         Status = "DRAFT"
	StatusSent          Status = "SENT"
	StatusPaid          Status = "PAID"
	StatusPartiallyPaid Status = "PARTIALLY_PAID"
	StatusOverdue       Status = "OVERDUE"
	StatusVoid          Status = "VOID"
	StatusPending       Status = "PENDING"
)

// PaymentMode is the mode recorded with a payment.
type PaymentMode string

const (
	PaymentCash         PaymentMode = "cash"
	PaymentBankTransfer PaymentMode = "bank_transfer"
	PaymentCheque       PaymentMode = "cheque"
	PaymentUPI          PaymentMode = "upi"
	PaymentCreditCard   PaymentMode = "credit_card"
)

// PaymentModes lists the modes offered when recording a payment.
var PaymentModes = []PaymentMode{
	PaymentCash,
	PaymentBankTransfer,
	PaymentCheque,
	PaymentUPI,
	PaymentCreditCard,
}

// RefundMode is the mode recorded with a refund.
type RefundMode string

const (
	RefundCash         RefundMode = "Cash"
	RefundBankTransfer RefundMode = "Bank Transfer"
	RefundCheque       RefundMode = "Cheque"
	RefundUPI          RefundMode = "UPI"
	RefundCreditCard   RefundMode = "Credit Card"
)

// RefundModes lists the modes offered when processing a refund.
var RefundModes = []RefundMode{
	RefundCash,
	RefundBankTransfer,
	RefundCheque,
	RefundUPI,
	RefundCreditCard,
}

// Address is a postal address as returned by the backend.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	Pincode string `json:"pincode"`
}

// LineItem is a single invoice row.
type LineItem struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// Payment is a backend-sourced payment record.
type Payment struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentMode string          `json:"paymentMode"`
	Date        time.Time       `json:"date"`
	Timestamp   time.Time       `json:"timestamp,omitempty"`
}

// When returns the payment date, falling back to the record timestamp.
func (p Payment) When() time.Time {
	if p.Date.IsZero() {
		return p.Timestamp
	}
	return p.Date
}

// Refund is a backend-sourced refund record.
type Refund struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Mode   string          `json:"mode"`
	Reason string          `json:"reason,omitempty"`
	Date   time.Time       `json:"date"`
}

// ActivityLog is an entry of the invoice activity trail.
type ActivityLog struct {
	ID          string    `json:"id"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	User        string    `json:"user"`
	Timestamp   time.Time `json:"timestamp"`
}

// InvoiceListItem is the row shape returned by the invoice list endpoint.
type InvoiceListItem struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoiceNumber"`
	CustomerName  string          `json:"customerName"`
	CustomerID    string          `json:"customerId"`
	Date          Date            `json:"date"`
	DueDate       Date            `json:"dueDate"`
	Amount        decimal.Decimal `json:"amount"`
	Status        Status          `json:"status"`
	Terms         string          `json:"terms"`
	BalanceDue    decimal.Decimal `json:"balanceDue"`
}

// Invoice is the full invoice detail record.
type Invoice struct {
	ID                 string          `json:"id"`
	InvoiceNumber      string          `json:"invoiceNumber"`
	ReferenceNumber    string          `json:"referenceNumber"`
	Date               Date            `json:"date"`
	DueDate            Date            `json:"dueDate"`
	CustomerID         string          `json:"customerId"`
	CustomerName       string          `json:"customerName"`
	BillingAddress     *Address        `json:"billingAddress"`
	ShippingAddress    *Address        `json:"shippingAddress"`
	Salesperson        string          `json:"salesperson"`
	PlaceOfSupply      string          `json:"placeOfSupply"`
	PaymentTerms       string          `json:"paymentTerms"`
	Items              []LineItem      `json:"items"`
	SubTotal           decimal.Decimal `json:"subTotal"`
	ShippingCharges    decimal.Decimal `json:"shippingCharges"`
	CGST               decimal.Decimal `json:"cgst"`
	SGST               decimal.Decimal `json:"sgst"`
	IGST               decimal.Decimal `json:"igst"`
	Adjustment         decimal.Decimal `json:"adjustment"`
	Total              decimal.Decimal `json:"total"`
	AmountPaid         decimal.Decimal `json:"amountPaid"`
	AmountRefunded     decimal.Decimal `json:"amountRefunded"`
	BalanceDue         decimal.Decimal `json:"balanceDue"`
	CustomerNotes      string          `json:"customerNotes"`
	TermsAndConditions string          `json:"termsAndConditions"`
	Status             Status          `json:"status"`
	GSTIN              string          `json:"gstin,omitempty"`
	Email              string          `json:"email,omitempty"`
	Phone              string          `json:"phone,omitempty"`
	SourceType         string          `json:"sourceType,omitempty"`
	SourceNumber       string          `json:"sourceNumber,omitempty"`
	Payments           []Payment       `json:"payments"`
	Refunds            []Refund        `json:"refunds"`
	ActivityLogs       []ActivityLog   `json:"activityLogs"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// Expense is the expense detail record.
type Expense struct {
	ID                  string          `json:"id"`
	ExpenseNumber       string          `json:"expenseNumber"`
	Date                Date            `json:"date"`
	ExpenseAccount      string          `json:"expenseAccount"`
	Amount              decimal.Decimal `json:"amount"`
	Currency            string          `json:"currency"`
	PaidThrough         string          `json:"paidThrough"`
	ExpenseType         string          `json:"expenseType"`
	SAC                 string          `json:"sac"`
	VendorID            string          `json:"vendorId"`
	VendorName          string          `json:"vendorName"`
	GSTTreatment        string          `json:"gstTreatment"`
	SourceOfSupply      string          `json:"sourceOfSupply"`
	DestinationOfSupply string          `json:"destinationOfSupply"`
	ReverseCharge       bool            `json:"reverseCharge"`
	Tax                 string          `json:"tax"`
	TaxAmount           decimal.Decimal `json:"taxAmount"`
	AmountIs            string          `json:"amountIs"`
	InvoiceNumber       string          `json:"invoiceNumber"`
	Notes               string          `json:"notes"`
	CustomerID          string          `json:"customerId"`
	CustomerName        string          `json:"customerName"`
	ReportingTags       []string        `json:"reportingTags"`
	IsBillable          bool            `json:"isBillable"`
	Status              string          `json:"status"`
	Attachments         []string        `json:"attachments"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
	GSTIN               string          `json:"gstin,omitempty"`
}

// Organization is the letterhead printed on documents.
type Organization struct {
	Name       string `json:"name"`
	Street1    string `json:"street1"`
	Street2    string `json:"street2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Email      string `json:"email"`
	GSTIN      string `json:"gstin"`
}

// DisplayName returns the organization name or a placeholder.
func (o Organization) DisplayName() string {
	if o.Name == "" {
		return "Your Company"
	}
	return o.Name
}

// Branding carries organization assets served by the branding endpoint.
type Branding struct {
	Logo      *BrandAsset `json:"logo,omitempty"`
	Signature *BrandAsset `json:"signature,omitempty"`
}

// BrandAsset is a single branding image.
type BrandAsset struct {
	URL string `json:"url"`
}

// LogoURL returns the logo URL or an empty string.
func (b *Branding) LogoURL() string {
	if b == nil || b.Logo == nil {
		return ""
	}
	return b.Logo.URL
}

// SignatureURL returns the signature URL or an empty string.
func (b *Branding) SignatureURL() string {
	if b == nil || b.Signature == nil {
		return ""
	}
	return b.Signature.URL
}
