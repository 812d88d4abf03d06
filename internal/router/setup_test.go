package router

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"budgetree/internal/ledger"
	"budgetree/internal/logger"
	"budgetree/internal/services"
)

// testApp holds the full application stack for end-to-end tests.
type testApp struct {
	Store  *ledger.Store
	Router *gin.Engine
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

// setupApp creates a full application stack over a freshly seeded ledger.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	store := ledger.NewStore()
	if err := store.Seed(); err != nil {
		t.Fatalf("failed to seed ledger: %v", err)
	}

	return &testApp{
		Store:  store,
		Router: New(services.NewLedgerService(store, "USD")),
	}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// categoryIDs maps category names to ids as listed by the API.
func (app *testApp) categoryIDs(t *testing.T) map[string]string {
	t.Helper()
	rec := app.request("GET", "/api/v1/categories?page_size=100", "")
	if rec.Code != 200 {
		t.Fatalf("list failed: %d %s", rec.Code, rec.Body.String())
	}
	ids := make(map[string]string)
	for _, item := range parseJSON(t, rec)["data"].([]interface{}) {
		c := item.(map[string]interface{})
		ids[c["name"].(string)] = c["id"].(string)
	}
	return ids
}

// summaryTotals returns the base-unit totals of the summary endpoint.
func (app *testApp) summaryTotals(t *testing.T) map[string]interface{} {
	t.Helper()
	rec := app.request("GET", "/api/v1/summary", "")
	if rec.Code != 200 {
		t.Fatalf("summary failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["totals"].(map[string]interface{})
}
