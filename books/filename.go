package books

import (
	"bytes"
	"strings"
	"text/template"
	"time"
)

// Filename patterns used by the document exports.
const (
	DrawnInvoiceFilename    = "{{.Number}}"
	SnapshotInvoiceFilename = "Invoice-{{.Number}}"
	ExpenseFilename         = "Expense-{{.Number}}"
)

// FilenameData is the template input for export filenames.
type FilenameData struct {
	Number   string
	Kind     string
	Date     string
	Customer string
}

var filenameReplacer = strings.NewReplacer("/", "-", "\\", "-", ":", "-", "\x00", "")

// RenderFilename renders pattern with data, strips path separators and makes
// sure the name ends with the given extension.
func RenderFilename(pattern string, data FilenameData, ext string, now time.Time) (string, error) {
	if pattern == "" {
		pattern = "{{.Kind}}_{{.Date}}"
	}
	if data.Date == "" {
		data.Date = now.UTC().Format("20060102")
	}

	tmpl, err := template.New("filename").Parse(pattern)
	if err != nil {
		return "", NewError(KindValidation, "invalid filename pattern", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewError(KindValidation, "filename render failed", err)
	}

	ext = strings.TrimPrefix(ext, ".")
	result := filenameReplacer.Replace(strings.TrimSpace(buf.String()))
	if result == "" || result == "."+ext {
		return "", NewError(KindValidation, "empty filename", nil)
	}

	if ext != "" && !strings.HasSuffix(strings.ToLower(result), "."+strings.ToLower(ext)) {
		result = result + "." + ext
	}
	return result, nil
}
