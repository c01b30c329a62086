package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocket/internal/auth"
	backupsvc "github.com/MrJamesThe3rd/pocket/internal/backup"
	pockethttp "github.com/MrJamesThe3rd/pocket/internal/http"
	"github.com/MrJamesThe3rd/pocket/internal/http/backup"
	"github.com/MrJamesThe3rd/pocket/internal/http/importcsv"
	"github.com/MrJamesThe3rd/pocket/internal/http/record"
	"github.com/MrJamesThe3rd/pocket/internal/http/transaction"
	"github.com/MrJamesThe3rd/pocket/internal/http/views"
	"github.com/MrJamesThe3rd/pocket/internal/importer"
	"github.com/MrJamesThe3rd/pocket/internal/persist"
	"github.com/MrJamesThe3rd/pocket/internal/persist/memory"
	"github.com/MrJamesThe3rd/pocket/internal/projection"
	"github.com/MrJamesThe3rd/pocket/internal/session"
)

var now = time.Date(2025, time.January, 10, 12, 0, 0, 0, time.UTC)

func newRouter(t *testing.T, tokens *auth.TokenService) http.Handler {
	t.Helper()

	s, err := session.Open(context.Background(), persist.NewAdapter(memory.New(), ""),
		session.WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	return pockethttp.New(
		pockethttp.Options{Timeout: time.Second, AllowedOrigins: []string{"*"}, Tokens: tokens},
		views.NewHandler(s),
		transaction.NewHandler(s),
		record.NewHandler(s),
		backup.NewHandler(s, backupsvc.NewService(t.TempDir(), 1<<16)),
		importcsv.NewHandler(importer.NewService(), s),
	)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func decodeViews(t *testing.T, rec *httptest.ResponseRecorder) projection.Views {
	t.Helper()

	var v projection.Views
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))

	return v
}

func TestRouter_Requests(t *testing.T) {
	type testCase struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}

	tests := []testCase{
		{name: "Views", method: http.MethodGet, path: "/api/v1/views", wantStatus: http.StatusOK},
		{name: "AddIncome", method: http.MethodPost, path: "/api/v1/incomes", body: `{"source": "Job", "amount": 1000}`, wantStatus: http.StatusCreated},
		{name: "AddIncomeInvalid", method: http.MethodPost, path: "/api/v1/incomes", body: `{"source": "", "amount": 1000}`, wantStatus: http.StatusBadRequest},
		{name: "AddIncomeBadAmount", method: http.MethodPost, path: "/api/v1/incomes", body: `{"source": "Job", "amount": "lots"}`, wantStatus: http.StatusBadRequest},
		{name: "AddExpenseWithoutCategory", method: http.MethodPost, path: "/api/v1/expenses", body: `{"amount": 5}`, wantStatus: http.StatusBadRequest},
		{name: "RemoveExpenseMissing", method: http.MethodDelete, path: "/api/v1/expenses/3", wantStatus: http.StatusNotFound},
		{name: "RemoveExpenseBadIndex", method: http.MethodDelete, path: "/api/v1/expenses/x", wantStatus: http.StatusBadRequest},
		{name: "Period", method: http.MethodPut, path: "/api/v1/period", body: `{"year": 2025, "month": 2}`, wantStatus: http.StatusOK},
		{name: "FeedCreate", method: http.MethodPost, path: "/api/v1/feed", body: `{"type": "expense", "description": "Taxi", "amount": "12.40", "date": "2025-01-09", "category": "Transport"}`, wantStatus: http.StatusCreated},
		{name: "FeedUpdateMissing", method: http.MethodPut, path: "/api/v1/feed/0", body: `{"type": "expense", "description": "Taxi", "amount": 1, "date": "2025-01-09"}`, wantStatus: http.StatusNotFound},
		{name: "Goal", method: http.MethodPost, path: "/api/v1/goals", body: `{"name": "Trip", "target": 1000, "current": 10}`, wantStatus: http.StatusCreated},
		{name: "Account", method: http.MethodPut, path: "/api/v1/accounts/0", body: `{"name": "Main", "number": "••••• 1111", "balance": 10}`, wantStatus: http.StatusOK},
		{name: "Bill", method: http.MethodPost, path: "/api/v1/bills", body: `{"name": "Water", "dueDate": "2025-01-12", "amount": 20}`, wantStatus: http.StatusCreated},
		{name: "Card", method: http.MethodPut, path: "/api/v1/card", body: `{"holder": "Ana", "number": "4111111111117899", "expiry": "01/30", "balance": 0, "type": "VISA"}`, wantStatus: http.StatusOK},
		{name: "Category", method: http.MethodPost, path: "/api/v1/categories/income", body: `{"name": "Bonus"}`, wantStatus: http.StatusCreated},
		{name: "CategoryUnknownKind", method: http.MethodPost, path: "/api/v1/categories/misc", body: `{"name": "Bonus"}`, wantStatus: http.StatusBadRequest},
		{name: "User", method: http.MethodPatch, path: "/api/v1/user", body: `{"name": "Ana"}`, wantStatus: http.StatusOK},
		{name: "Folder", method: http.MethodPost, path: "/api/v1/shopping/folders", body: `{"name": "Weekly"}`, wantStatus: http.StatusCreated},
		{name: "ProductMissing", method: http.MethodDelete, path: "/api/v1/shopping/products/Milk", wantStatus: http.StatusNotFound},
		{name: "EmptyBody", method: http.MethodPost, path: "/api/v1/goals", body: "", wantStatus: http.StatusBadRequest},
		{name: "ImportInvalid", method: http.MethodPost, path: "/api/v1/backup", body: `{"goals": []}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "ImportTooLarge", method: http.MethodPost, path: "/api/v1/backup", body: `{"user": {"name": "` + string(bytes.Repeat([]byte("a"), 1<<16)) + `"}}`, wantStatus: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newRouter(t, nil), tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_FeedFlow(t *testing.T) {
	h := newRouter(t, nil)

	rec := do(t, h, http.MethodPost, "/api/v1/feed", `{"type": "income", "description": "Salary", "amount": 2000, "date": "2025-01-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/feed", `{"type": "expense", "description": "Rent", "amount": 800, "date": "2025-01-02"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	v := decodeViews(t, rec)
	require.Len(t, v.Feed, 2)
	assert.Equal(t, "Rent", v.Feed[0].Description)
	assert.Equal(t, "1200", v.Totals.Balance.String())

	rec = do(t, h, http.MethodPut, "/api/v1/feed/0", `{"type": "expense", "description": "Rent", "amount": 900, "date": "2025-01-02"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1100", decodeViews(t, rec).Totals.Balance.String())

	rec = do(t, h, http.MethodDelete, "/api/v1/feed/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	v = decodeViews(t, rec)
	require.Len(t, v.Feed, 1)
	assert.Equal(t, "Rent", v.Feed[0].Description)
}

func TestRouter_BillToggle(t *testing.T) {
	h := newRouter(t, nil)

	rec := do(t, h, http.MethodPost, "/api/v1/bills", `{"name": "Water", "dueDate": "2025-01-12", "amount": 20}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/bills/0/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	v := decodeViews(t, rec)
	require.Len(t, v.Bills, 1)
	assert.True(t, v.Bills[0].Bill.Paid)

	rec = do(t, h, http.MethodPost, "/api/v1/bills/4/toggle", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_BackupRoundTrip(t *testing.T) {
	h := newRouter(t, nil)

	rec := do(t, h, http.MethodPost, "/api/v1/goals", `{"name": "Trip", "target": 1000}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/backup", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename=finance-backup-2025-01-10.json`, rec.Header().Get("Content-Disposition"))

	blob := rec.Body.Bytes()

	other := newRouter(t, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "finance-backup-2025-01-10.json")
	require.NoError(t, err)
	_, err = fw.Write(blob)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/backup", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec = httptest.NewRecorder()
	other.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	v := decodeViews(t, rec)
	require.Len(t, v.Goals, 1)
	assert.Equal(t, "Trip", v.Goals[0].Goal.Name)

	rec = do(t, other, http.MethodPost, "/api/v1/backup/snapshots", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, other, http.MethodGet, "/api/v1/backup/snapshots", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "finance-backup-2025-01-10.json")
}

func statementUpload(t *testing.T, bank, csv string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("bank", bank))

	fw, err := mw.CreateFormFile("file", "statement.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return req
}

func TestRouter_ImportStatement(t *testing.T) {
	h := newRouter(t, nil)
	csv := "Data mov.;Descrição;Montante\n08-01-2025;COFFEE;-1,50\n05-01-2025;SALARY;2.000,00\n"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, statementUpload(t, "cgd", csv))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Parsed   int              `json:"parsed"`
		Imported int              `json:"imported"`
		Views    projection.Views `json:"views"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Parsed)
	assert.Equal(t, 2, resp.Imported)
	assert.Equal(t, "2000", resp.Views.Totals.TotalIncome.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, statementUpload(t, "cgd", csv))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 0, resp.Imported)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, statementUpload(t, "unknown", csv))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/import/banks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["cgd"]`, rec.Body.String())
}

func TestRouter_Auth(t *testing.T) {
	tokens := auth.NewTokenService("s3cret", time.Hour)
	h := newRouter(t, tokens)

	rec := do(t, h, http.MethodGet, "/api/v1/views", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, _, err := tokens.Generate("ana")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/views", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/views", nil)
	req.Header.Set("Authorization", "Bearer "+token+"x")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
