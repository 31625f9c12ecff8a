package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/fintera-ledger/internal/config"
	"github.com/sjperalta/fintera-ledger/internal/database"
	"github.com/sjperalta/fintera-ledger/internal/jobs"
	"github.com/sjperalta/fintera-ledger/internal/middleware"
	"github.com/sjperalta/fintera-ledger/internal/repository"
	"github.com/sjperalta/fintera-ledger/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	t      *testing.T
	router *gin.Engine
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect("sqlite://"+filepath.Join(t.TempDir(), "ledger.db"), "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(db))

	worker := jobs.NewWorker(1)
	t.Cleanup(worker.Shutdown)

	svcs := services.NewServices(repository.NewRepositories(db), worker, &config.Config{AnalyticsCacheTTL: time.Minute})
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Actor())
	NewHandlers(svcs).Register(router.Group("/api/v1"))

	return &testAPI{t: t, router: router}
}

func (a *testAPI) do(method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	a.t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, "/api/v1/accounting"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.UserIDHeader, "42")

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

// mustDo runs the request and requires the given status
func (a *testAPI) mustDo(status int, method, path, body string) map[string]interface{} {
	a.t.Helper()
	w, out := a.do(method, path, body)
	require.Equal(a.t, status, w.Code, w.Body.String())
	return out
}

func field(body map[string]interface{}, key, name string) interface{} {
	return body[key].(map[string]interface{})[name]
}

func idOf(body map[string]interface{}, key string) uint {
	return uint(field(body, key, "id").(float64))
}

func (a *testAPI) openMay() uint {
	out := a.mustDo(http.StatusCreated, http.MethodPost, "/fiscal-periods",
		`{"fiscal_period": {"period_name": "May 2026", "fiscal_year": 2026, "period_number": 5, "start_date": "2026-05-01", "end_date": "2026-05-31"}}`)
	return idOf(out, "fiscal_period")
}

func (a *testAPI) account(code, name, typ string) uint {
	out := a.mustDo(http.StatusCreated, http.MethodPost, "/accounts",
		fmt.Sprintf(`{"account_code": %q, "account_name": %q, "account_type": %q}`, code, name, typ))
	return idOf(out, "account")
}

func (a *testAPI) balance(id uint) string {
	out := a.mustDo(http.StatusOK, http.MethodGet, fmt.Sprintf("/accounts/%d/balance", id), "")
	return out["balance"].(string)
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestTransactionLifecycle(t *testing.T) {
	api := newTestAPI(t)
	api.openMay()
	cash := api.account("1000", "Cash", "asset")
	revenue := api.account("4000", "Sales", "revenue")

	// one amount as a JSON number, the other as a string
	out := api.mustDo(http.StatusCreated, http.MethodPost, "/transactions", fmt.Sprintf(`{
		"description": "Cash sale",
		"transaction_date": "2026-05-10",
		"entries": [
			{"account_id": %d, "debit_amount": 100},
			{"account_id": %d, "credit_amount": "100.00"}
		]}`, cash, revenue))
	txnID := idOf(out, "transaction")
	assert.Equal(t, "draft", field(out, "transaction", "status"))
	assert.Equal(t, "100.00", field(out, "transaction", "total_amount"))
	assert.Equal(t, "TXN-2026-05-0001", field(out, "transaction", "transaction_number"))

	out = api.mustDo(http.StatusOK, http.MethodPost, fmt.Sprintf("/transactions/%d/post", txnID), "")
	assert.Equal(t, "posted", field(out, "transaction", "status"))
	assert.Equal(t, "100.00", api.balance(cash))
	assert.Equal(t, "100.00", api.balance(revenue))

	_, body := api.do(http.MethodPost, fmt.Sprintf("/transactions/%d/post", txnID), "")
	assert.Equal(t, "not_draft", body["code"])
	assert.Equal(t, "100.00", api.balance(cash))

	out = api.mustDo(http.StatusOK, http.MethodPost, fmt.Sprintf("/transactions/%d/reverse", txnID), "")
	assert.NotNil(t, field(out, "transaction", "reversal_of_id"))
	assert.Equal(t, "0.00", api.balance(cash))
	assert.Equal(t, "0.00", api.balance(revenue))

	w, body := api.do(http.MethodPost, fmt.Sprintf("/transactions/%d/reverse", txnID), "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "already_reversed", body["code"])

	out = api.mustDo(http.StatusOK, http.MethodGet, fmt.Sprintf("/transactions?account_id=%d&status=reversed", cash), "")
	assert.Len(t, out["transactions"], 1)
	assert.EqualValues(t, 1, field(out, "pagination", "total"))

	out = api.mustDo(http.StatusOK, http.MethodGet, fmt.Sprintf("/accounts/%d/balance?as_of=2026-05-09", cash), "")
	assert.Equal(t, "0.00", out["balance"])
	assert.Equal(t, "2026-05-09", out["as_of"])
}

func TestTransactionErrors(t *testing.T) {
	api := newTestAPI(t)
	api.openMay()
	cash := api.account("1000", "Cash", "asset")
	revenue := api.account("4000", "Sales", "revenue")

	w, body := api.do(http.MethodPost, "/transactions", fmt.Sprintf(`{
		"transaction_date": "2026-05-10",
		"entries": [
			{"account_id": %d, "debit_amount": "50.00"},
			{"account_id": %d, "credit_amount": "40.00"}
		]}`, cash, revenue))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "unbalanced", body["code"])

	w, body = api.do(http.MethodPost, "/transactions", fmt.Sprintf(`{
		"transaction_date": "2027-01-10",
		"entries": [
			{"account_id": %d, "debit_amount": "50.00"},
			{"account_id": %d, "credit_amount": "50.00"}
		]}`, cash, revenue))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "no_fiscal_period", body["code"])

	w, _ = api.do(http.MethodPost, "/transactions", `{"transaction_date": "10/05/2026"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = api.do(http.MethodGet, "/transactions/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", body["code"])

	w, body = api.do(http.MethodGet, "/transactions/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", body["code"])

	w, _ = api.do(http.MethodGet, "/transactions?start_date=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAccountEndpoints(t *testing.T) {
	api := newTestAPI(t)
	assets := api.account("1000", "Assets", "asset")
	api.mustDo(http.StatusCreated, http.MethodPost, "/accounts",
		fmt.Sprintf(`{"account_code": "1100", "account_name": "Bank", "account_type": "asset", "account_subtype": "current_asset", "parent_id": %d}`, assets))

	w, body := api.do(http.MethodPost, "/accounts", `{"account_code": "1000", "account_name": "Again", "account_type": "asset"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "duplicate_code", body["code"])

	w, body = api.do(http.MethodPost, "/accounts", `{"account_code": "9", "account_name": "Odd", "account_type": "asset", "account_subtype": "cost_of_sales"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", body["code"])

	out := api.mustDo(http.StatusOK, http.MethodGet, "/accounts/tree", "")
	roots := out["accounts"].([]interface{})
	require.Len(t, roots, 1)
	assert.Len(t, roots[0].(map[string]interface{})["children"], 1)

	w, body = api.do(http.MethodPut, fmt.Sprintf("/accounts/%d", assets), fmt.Sprintf(`{"parent_id": %d}`, assets))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_parent", body["code"])

	out = api.mustDo(http.StatusOK, http.MethodPut, fmt.Sprintf("/accounts/%d", assets), `{"account": {"account_name": "Total Assets"}}`)
	assert.Equal(t, "Total Assets", field(out, "account", "account_name"))

	out = api.mustDo(http.StatusOK, http.MethodGet, "/accounts?search=bank&type=asset", "")
	assert.Len(t, out["accounts"], 1)

	api.mustDo(http.StatusOK, http.MethodDelete, fmt.Sprintf("/accounts/%d", assets), "")
	out = api.mustDo(http.StatusOK, http.MethodGet, "/accounts?active=false", "")
	assert.Len(t, out["accounts"], 1)
}

func TestReconciliationDiscrepancy(t *testing.T) {
	api := newTestAPI(t)
	api.openMay()
	bank := api.account("1010", "Bank", "asset")
	capital := api.account("3000", "Capital", "equity")

	out := api.mustDo(http.StatusCreated, http.MethodPost, "/transactions", fmt.Sprintf(`{
		"transaction_date": "2026-05-05",
		"entries": [
			{"account_id": %d, "debit_amount": "480.00"},
			{"account_id": %d, "credit_amount": "480.00"}
		]}`, bank, capital))
	api.mustDo(http.StatusOK, http.MethodPost, fmt.Sprintf("/transactions/%d/post", idOf(out, "transaction")), "")

	out = api.mustDo(http.StatusCreated, http.MethodPost, "/reconciliations",
		fmt.Sprintf(`{"account_id": %d, "statement_date": "2026-05-31", "statement_balance": "500.00"}`, bank))
	recID := idOf(out, "reconciliation")
	assert.Equal(t, "480.00", field(out, "reconciliation", "book_balance"))

	w, body := api.do(http.MethodPost, fmt.Sprintf("/reconciliations/%d/complete", recID), "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "discrepancy", body["code"])
	assert.Equal(t, "20.00", body["amount"])

	out = api.mustDo(http.StatusCreated, http.MethodPost, fmt.Sprintf("/reconciliations/%d/items", recID),
		`{"amount": 20, "description": "Interest credited by bank"}`)
	assert.Equal(t, "500.00", field(out, "reconciliation", "reconciled_balance"))

	out = api.mustDo(http.StatusOK, http.MethodPost, fmt.Sprintf("/reconciliations/%d/complete", recID), "")
	assert.Equal(t, "completed", field(out, "reconciliation", "status"))
}

func TestPeriodOverrideIsAudited(t *testing.T) {
	api := newTestAPI(t)
	periodID := api.openMay()

	out := api.mustDo(http.StatusOK, http.MethodPost, fmt.Sprintf("/fiscal-periods/%d/set-current", periodID), "")
	assert.Equal(t, true, field(out, "fiscal_period", "is_current"))
	out = api.mustDo(http.StatusOK, http.MethodGet, "/fiscal-periods/current", "")
	assert.Equal(t, float64(periodID), field(out, "fiscal_period", "id"))

	api.mustDo(http.StatusOK, http.MethodPost, fmt.Sprintf("/fiscal-periods/%d/lock", periodID), "")

	w, body := api.do(http.MethodPost, fmt.Sprintf("/fiscal-periods/%d/reopen", periodID), "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "period_locked", body["code"])

	w, _ = api.do(http.MethodPost, fmt.Sprintf("/fiscal-periods/%d/override-reopen", periodID), `{"reason": ""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	out = api.mustDo(http.StatusOK, http.MethodPost, fmt.Sprintf("/fiscal-periods/%d/override-reopen", periodID),
		`{"reason": "late supplier invoice"}`)
	assert.Equal(t, "open", field(out, "fiscal_period", "status"))

	out = api.mustDo(http.StatusOK, http.MethodGet, "/audits?action=OVERRIDE_REOPEN", "")
	audits := out["audits"].([]interface{})
	require.Len(t, audits, 1)
	entry := audits[0].(map[string]interface{})
	assert.EqualValues(t, 42, entry["user_id"])
	assert.EqualValues(t, periodID, entry["entity_id"])
	assert.NotEmpty(t, entry["request_id"])
}

func TestJobEndpoints(t *testing.T) {
	api := newTestAPI(t)

	api.mustDo(http.StatusOK, http.MethodPost, "/jobs/"+services.JobBalanceCheck+"/run", "")

	w, body := api.do(http.MethodPost, "/jobs/nope/run", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", body["code"])

	out := api.mustDo(http.StatusOK, http.MethodGet, "/jobs/status", "")
	assert.EqualValues(t, 1, out["completed_jobs"])

	out = api.mustDo(http.StatusAccepted, http.MethodPost, "/jobs/"+services.JobCacheCleanup+"/run?async=true", "")
	assert.Equal(t, "Job queued", out["message"])
	w, _ = api.do(http.MethodPost, "/jobs/nope/run?async=true", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{services.ErrValidation, http.StatusBadRequest},
		{fmt.Errorf("ctx: %w", services.ErrDuplicateCode), http.StatusConflict},
		{services.ErrUnbalanced, http.StatusUnprocessableEntity},
		{&services.DiscrepancyError{}, http.StatusUnprocessableEntity},
		{services.ErrPeriodClosed, http.StatusConflict},
		{services.ErrNotFound, http.StatusNotFound},
		{services.ErrConflict, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestRespondError_HidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondError(c, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error": "internal server error", "code": "internal_error"}`, w.Body.String())
}
