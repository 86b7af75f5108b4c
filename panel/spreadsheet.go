package panel

import (
	"context"
	"fmt"
	"io"

	"github.com/goliatone/go-invoicedesk/books"
	"github.com/xuri/excelize/v2"
)

const (
	sheetName        = "Invoices"
	sheetDateFormat  = "dd/mm/yyyy"
	sheetMoneyFormat = "#,##0.00"
)

var sheetHeaders = []string{"Date", "Invoice#", "Customer Name", "Status", "Due Date", "Amount", "Balance Due"}

// WriteSpreadsheet streams list rows into an XLSX workbook.
func WriteSpreadsheet(ctx context.Context, rows []books.ListRow, w io.Writer) error {
	file := excelize.NewFile()
	defer func() {
		_ = file.Close()
	}()

	defaultSheet := file.GetSheetName(0)
	if defaultSheet != sheetName {
		file.SetSheetName(defaultSheet, sheetName)
	}

	stream, err := file.NewStreamWriter(sheetName)
	if err != nil {
		return err
	}

	headerID, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	dateFmt, moneyFmt := sheetDateFormat, sheetMoneyFormat
	dateID, err := file.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return err
	}
	moneyID, err := file.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt})
	if err != nil {
		return err
	}

	headers := make([]interface{}, len(sheetHeaders))
	for i, label := range sheetHeaders {
		headers[i] = excelize.Cell{StyleID: headerID, Value: label}
	}
	if err := stream.SetRow("A1", headers); err != nil {
		return err
	}

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		cells := []interface{}{
			dateCell(row.Date, dateID),
			row.InvoiceNumber,
			row.CustomerName,
			row.DisplayStatus,
			dateCell(row.DueDate, dateID),
			excelize.Cell{StyleID: moneyID, Value: row.Amount.InexactFloat64()},
			excelize.Cell{StyleID: moneyID, Value: row.BalanceDue.InexactFloat64()},
		}
		if err := stream.SetRow(fmt.Sprintf("A%d", i+2), cells); err != nil {
			return err
		}
	}

	if err := stream.Flush(); err != nil {
		return err
	}
	_, err = file.WriteTo(w)
	return err
}

func dateCell(d books.Date, styleID int) interface{} {
	if d.IsZero() {
		return ""
	}
	return excelize.Cell{StyleID: styleID, Value: d.Time}
}
