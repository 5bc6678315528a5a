package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/joelkehle/veridian-reports/internal/funnel"
	"github.com/joelkehle/veridian-reports/internal/pdf"
	"github.com/joelkehle/veridian-reports/internal/report"
	"github.com/joelkehle/veridian-reports/internal/store"
)

type pdfStub struct{}

func (pdfStub) Render(_ context.Context, doc pdf.Document) ([]byte, error) {
	if doc.ID == "" || doc.CompanyName == "" {
		return nil, pdf.ErrInvalidReport
	}
	return []byte("%PDF-1.7 " + doc.CompanyName), nil
}

func newServerForTest(t *testing.T) (http.Handler, *store.SQLiteStore) {
	t.Helper()
	now := time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC)
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "api.db"), store.Config{
		Clock: func() time.Time {
			now = now.Add(time.Second)
			return now
		},
	})
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	logger := zaptest.NewLogger(t)
	svc := funnel.New(st, report.NewAssembler(report.NewSeededRand(5)), pdfStub{}, nil, logger)
	return NewServer(svc, logger), st
}

func do(t *testing.T, h http.Handler, method, path string, body any, user string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		blob, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(blob)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set(UserHeader, user)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return out
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	body := decode(t, rr)
	if body["ok"] != false {
		t.Fatalf("expected ok=false, got %v", body)
	}
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func wizardBody() map[string]any {
	return map[string]any{
		"company": map[string]any{
			"name":     "Lakeshore Health",
			"industry": "Healthcare",
			"size":     "51-200",
			"budget":   "100k-250k",
			"website":  "https://lakeshore.example",
		},
		"location": map[string]any{"city": "Chicago", "state": "IL"},
		"strategy": map[string]any{
			"primary":   "talent",
			"secondary": []string{"compliance"},
			"timeline":  "6-months",
			"concerns":  "Patient data must never touch a public chain.",
			"goals":     "Stand up a credentialing pilot with two clinics.",
		},
		"payment_ref": "cs_test_123",
	}
}

func createReport(t *testing.T, h http.Handler, user string) string {
	t.Helper()
	rr := do(t, h, http.MethodPost, "/v1/reports", wizardBody(), user)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rr.Code, rr.Body.String())
	}
	id, _ := decode(t, rr)["report_id"].(string)
	if id == "" {
		t.Fatalf("missing report_id: %s", rr.Body.String())
	}
	return id
}

func TestHealth(t *testing.T) {
	h, _ := newServerForTest(t)
	rr := do(t, h, http.MethodGet, "/v1/health", nil, "")
	if rr.Code != http.StatusOK || decode(t, rr)["ok"] != true {
		t.Fatalf("health status=%d body=%s", rr.Code, rr.Body.String())
	}
	if rr := do(t, h, http.MethodPost, "/v1/health", nil, ""); rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

func TestClassifyEndpoint(t *testing.T) {
	h, _ := newServerForTest(t)
	rr := do(t, h, http.MethodGet, "/v1/locations/classify?city=Austin&state=tx", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	var p funnel.Preview
	if err := json.Unmarshal(rr.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Classification.Tier != "major" || p.Classification.MarketScore != 100 || p.Regulation.Name != "Texas" {
		t.Fatalf("unexpected preview %+v", p)
	}

	rr = do(t, h, http.MethodGet, "/v1/locations/classify?city=A&state=Texas", nil, "")
	if rr.Code != http.StatusBadRequest || errorCode(t, rr) != CodeValidation {
		t.Fatalf("expected validation error, got %d %s", rr.Code, rr.Body.String())
	}
}

func TestReportsRequireUser(t *testing.T) {
	h, _ := newServerForTest(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/v1/reports"},
		{http.MethodGet, "/v1/reports"},
		{http.MethodGet, "/v1/reports/abc"},
		{http.MethodGet, "/v1/reports/abc/pdf"},
	} {
		rr := do(t, h, tc.method, tc.path, nil, "")
		if rr.Code != http.StatusUnauthorized || errorCode(t, rr) != CodeUnauthorized {
			t.Fatalf("%s %s: status=%d body=%s", tc.method, tc.path, rr.Code, rr.Body.String())
		}
	}
}

func TestCreateReportValidationProblems(t *testing.T) {
	h, _ := newServerForTest(t)
	body := wizardBody()
	body["location"] = map[string]any{"city": "Chicago", "state": "Illinois"}
	body["strategy"].(map[string]any)["goals"] = "short"

	rr := do(t, h, http.MethodPost, "/v1/reports", body, "u1")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	e := decode(t, rr)["error"].(map[string]any)
	problems, _ := e["problems"].([]any)
	if e["code"] != CodeValidation || len(problems) != 2 {
		t.Fatalf("unexpected error payload %v", e)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/reports", strings.NewReader("{not json"))
	req.Header.Set(UserHeader, "u1")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("malformed json status=%d", rr.Code)
	}
}

func TestReportLifecycle(t *testing.T) {
	h, st := newServerForTest(t)
	id := createReport(t, h, "u1")

	rr := do(t, h, http.MethodGet, "/v1/reports/"+id, nil, "u1")
	if rr.Code != http.StatusOK {
		t.Fatalf("get status=%d body=%s", rr.Code, rr.Body.String())
	}
	var rec store.Record
	if err := json.Unmarshal(rr.Body.Bytes(), &rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if rec.Status != store.StatusReady || rec.Content == nil || rec.PaymentRef != "cs_test_123" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.Content.LocationAnalysis.MarketTier != "major" {
		t.Fatalf("tier=%s", rec.Content.LocationAnalysis.MarketTier)
	}

	if rr := do(t, h, http.MethodGet, "/v1/reports/"+id, nil, "u2"); rr.Code != http.StatusNotFound {
		t.Fatalf("foreign get status=%d", rr.Code)
	}

	second := createReport(t, h, "u1")
	rr = do(t, h, http.MethodGet, "/v1/reports", nil, "u1")
	var list struct {
		Reports []store.Record `json:"reports"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Reports) != 2 || list.Reports[0].ID != second || list.Reports[0].Content != nil {
		t.Fatalf("unexpected listing %+v", list.Reports)
	}

	if rr := do(t, h, http.MethodDelete, "/v1/reports/"+id, nil, "u1"); rr.Code != http.StatusOK {
		t.Fatalf("delete status=%d", rr.Code)
	}
	if _, err := st.Get(context.Background(), id, "u1"); err == nil {
		t.Fatal("record survived delete")
	}
	if rr := do(t, h, http.MethodDelete, "/v1/reports/"+id, nil, "u1"); rr.Code != http.StatusNotFound {
		t.Fatalf("second delete status=%d", rr.Code)
	}
}

func TestReportPDF(t *testing.T) {
	h, st := newServerForTest(t)
	id := createReport(t, h, "u1")

	rr := do(t, h, http.MethodGet, "/v1/reports/"+id+"/pdf", nil, "u1")
	if rr.Code != http.StatusOK {
		t.Fatalf("pdf status=%d body=%s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("content-type=%q", got)
	}
	if got := rr.Header().Get("Content-Disposition"); got != `attachment; filename="Veridian_Report_Lakeshore_Health.pdf"` {
		t.Fatalf("disposition=%q", got)
	}
	if !strings.HasPrefix(rr.Body.String(), "%PDF") {
		t.Fatalf("body=%q", rr.Body.String())
	}

	pending, err := st.Create(context.Background(), store.CreateInput{UserID: "u1", Request: report.Request{
		Company:  report.Company{Name: "Pending Co"},
		Location: report.Location{City: "Chicago", State: "IL"},
	}})
	if err != nil {
		t.Fatalf("create pending: %v", err)
	}
	rr = do(t, h, http.MethodGet, "/v1/reports/"+pending.ID+"/pdf", nil, "u1")
	if rr.Code != http.StatusConflict || errorCode(t, rr) != CodeConflict {
		t.Fatalf("expected 409, got %d %s", rr.Code, rr.Body.String())
	}
}

func TestUnknownReportPaths(t *testing.T) {
	h, _ := newServerForTest(t)
	for _, path := range []string{"/v1/reports/", "/v1/reports/abc/html", "/v1/reports/a/b/c"} {
		if rr := do(t, h, http.MethodGet, path, nil, "u1"); rr.Code != http.StatusNotFound {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
	if rr := do(t, h, http.MethodPut, "/v1/reports/abc", nil, "u1"); rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

func TestAPIErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code string
		want int
	}{
		{&report.ValidationError{Problems: []report.FieldProblem{{Field: "x", Message: "y"}}}, CodeValidation, 400},
		{store.ErrNotFound, CodeNotFound, 404},
		{funnel.ErrNotReady, CodeConflict, 409},
		{pdf.ErrInvalidReport, CodeRenderFailed, 422},
		{context.DeadlineExceeded, CodeInternal, 500},
	}
	for _, tc := range cases {
		got := apiError(tc.err)
		if got.Code != tc.code || got.Status != tc.want {
			t.Errorf("apiError(%v)=%s/%d want %s/%d", tc.err, got.Code, got.Status, tc.code, tc.want)
		}
	}
}

func TestInternalErrorHidesDetail(t *testing.T) {
	s := &Server{logger: zaptest.NewLogger(t)}
	rr := httptest.NewRecorder()
	s.writeError(rr, errors.New("sqlite: database disk image is malformed"))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "sqlite") {
		t.Fatalf("driver detail leaked: %s", rr.Body.String())
	}
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != CodeInternal || body.Error.Message != "internal error" {
		t.Fatalf("unexpected error body %+v", body.Error)
	}
}
