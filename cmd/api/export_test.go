package main

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"testing"

	"github.com/Blue-Davinci/WealthWise/internal/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func seedExportData(t *testing.T, app *application, userID string) {
	seedTransaction(t, app, userID, data.TransactionTypeIncome, 5000, "Salary", day(2025, 4, 1))
	seedTransaction(t, app, userID, data.TransactionTypeExpense, 45.5, "Food", day(2025, 4, 9))
	seedTransaction(t, app, userID, data.TransactionTypeExpense, 900, "Rent", day(2025, 3, 28))
}

func TestExport_csv(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	user, token := createTestUser(t, app, "csv@example.com")
	seedExportData(t, app, user.ID)

	code, header, body := ts.do(t, http.MethodGet, "/v1/transactions/export?format=csv", token, nil)
	require.Equal(t, http.StatusOK, code, string(body))
	assert.Equal(t, "text/csv; charset=utf-8", header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="transactions_2025-04-15.csv"`, header.Get("Content-Disposition"))

	rows, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, exportHeader, rows[0])
	assert.Equal(t, []string{"2025-04-09", "Food entry", "45.50", "expense", "Food", ""}, rows[1])
	assert.Equal(t, "2025-04-01", rows[2][0])
	assert.Equal(t, "2025-03-28", rows[3][0])
}

func TestExport_filters(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	user, token := createTestUser(t, app, "filtered@example.com")
	seedExportData(t, app, user.ID)

	code, _, body := ts.do(t, http.MethodGet, "/v1/transactions/export?type=expense&start_date=2025-04-01&end_date=2025-04-30", token, nil)
	require.Equal(t, http.StatusOK, code)
	rows, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Food", rows[1][4])
}

func TestExport_xlsx(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	user, token := createTestUser(t, app, "xlsx@example.com")
	seedExportData(t, app, user.ID)

	code, header, body := ts.do(t, http.MethodGet, "/v1/transactions/export?format=xlsx", token, nil)
	require.Equal(t, http.StatusOK, code, string(body))
	assert.Equal(t, `attachment; filename="transactions_2025-04-15.xlsx"`, header.Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, exportHeader, rows[0])
	assert.Equal(t, "Food entry", rows[1][1])

	raw, err := f.GetCellValue(exportSheetName, "C2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "45.5", raw)
}

func TestExport_emptyWorkbookStillHasHeader(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	_, token := createTestUser(t, app, "nothing@example.com")

	code, _, body := ts.do(t, http.MethodGet, "/v1/transactions/export?format=xlsx", token, nil)
	require.Equal(t, http.StatusOK, code)
	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(exportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestExport_validation(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	_, token := createTestUser(t, app, "badexport@example.com")

	for _, query := range []string{"?format=pdf", "?type=transfer", "?start_date=2025-13-45"} {
		code, _, _ := ts.do(t, http.MethodGet, "/v1/transactions/export"+query, token, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, code, query)
	}
}
