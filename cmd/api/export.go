package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"

	"github.com/Blue-Davinci/WealthWise/internal/data"
	"github.com/Blue-Davinci/WealthWise/internal/validator"
	"github.com/xuri/excelize/v2"
)

const (
	exportFormatCSV  = "csv"
	exportFormatXLSX = "xlsx"
	exportSheetName  = "Transactions"
)

var exportHeader = []string{"Date", "Title", "Amount", "Type", "Category", "Description"}

// exportTransactionsHandler() downloads the caller's transactions, newest first, as CSV
// or as an xlsx workbook. The range and type filters mirror the listing endpoint.
func (app *application) exportTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	v := validator.New()
	qs := r.URL.Query()
	format := app.readString(qs, "format", exportFormatCSV)
	exportType := app.readString(qs, "type", "all")
	filter := data.TransactionFilter{
		Start: app.readDate(qs, "start_date", false, v),
		End:   app.readDate(qs, "end_date", true, v),
	}
	v.Check(validator.PermittedValue(format, exportFormatCSV, exportFormatXLSX), "format", "must be either csv or xlsx")
	v.Check(validator.PermittedValue(exportType, "all", string(data.TransactionTypeIncome), string(data.TransactionTypeExpense)),
		"type", "must be one of all, income, expense")
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}
	if exportType != "all" {
		filter.Type = data.TransactionType(exportType)
	}

	all, err := app.models.Transactions.GetAllForUser(r.Context(), app.contextGetUser(r).ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	transactions := data.FilterTransactions(all, filter)
	data.SortTransactions(transactions, data.Filters{Sort: "-date", SortSafelist: []string{"-date"}})

	var (
		body        []byte
		contentType string
	)
	switch format {
	case exportFormatXLSX:
		body, err = transactionsXLSX(transactions)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		body, err = transactionsCSV(transactions)
		contentType = "text/csv; charset=utf-8"
	}
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	filename := fmt.Sprintf("transactions_%s.%s", app.clock().Format(data.DateLayout), format)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func exportRow(t *data.Transaction) []string {
	return []string{
		t.Date.Format(data.DateLayout),
		t.Title,
		t.Amount.StringFixed(2),
		string(t.Type),
		t.Category,
		t.Description,
	}
}

func transactionsCSV(transactions []*data.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, t := range transactions {
		if err := cw.Write(exportRow(t)); err != nil {
			return nil, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// transactionsXLSX builds a single sheet workbook with a styled header row
// and a numeric amount column.
func transactionsXLSX(transactions []*data.Transaction) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), exportSheetName); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#3B82F6"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}
	// Built-in format 4 is "#,##0.00".
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, err
	}

	header := make([]any, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheetName, "A1", &header); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(exportSheetName, "A1", "F1", headerStyle); err != nil {
		return nil, err
	}

	for i, t := range transactions {
		row := i + 2
		values := exportRow(t)
		cells := []any{values[0], values[1], t.Amount.InexactFloat64(), values[3], values[4], values[5]}
		if err := f.SetSheetRow(exportSheetName, fmt.Sprintf("A%d", row), &cells); err != nil {
			return nil, err
		}
	}
	if len(transactions) > 0 {
		last := fmt.Sprintf("C%d", len(transactions)+1)
		if err := f.SetCellStyle(exportSheetName, "C2", last, amountStyle); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(exportSheetName, "A", "F", 18); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
