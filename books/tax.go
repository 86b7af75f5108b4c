package books

import "strings"

var taxLabels = map[string]string{
	"gst_5":   "GST5 [5%]",
	"gst_12":  "GST12 [12%]",
	"gst_18":  "GST18 [18%]",
	"gst_28":  "GST28 [28%]",
	"igst_5":  "IGST5 [5%]",
	"igst_12": "IGST12 [12%]",
	"igst_18": "IGST18 [18%]",
	"igst_28": "IGST28 [28%]",
	"exempt":  "Exempt [0%]",
	"none":    "None [0%]",
}

const fallbackTaxLabel = "IGST0 [0%]"

// TaxLabel maps an expense tax code to its display label.
func TaxLabel(code string) string {
	if label, ok := taxLabels[strings.TrimSpace(code)]; ok {
		return label
	}
	return fallbackTaxLabel
}

// AmountIsLabel describes whether the expense amount includes tax.
func AmountIsLabel(amountIs string) string {
	if amountIs == "tax_inclusive" {
		return "Tax Inclusive"
	}
	return "Tax Exclusive"
}
