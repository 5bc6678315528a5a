package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/joelkehle/veridian-reports/internal/funnel"
	"github.com/joelkehle/veridian-reports/internal/report"
	"github.com/joelkehle/veridian-reports/internal/store"
)

// UserHeader carries the caller's opaque user id, set by the upstream
// authentication layer.
const UserHeader = "X-User-ID"

const maxBodyBytes = 1 << 20

type Funnel interface {
	Classify(city, state string) (funnel.Preview, error)
	Generate(ctx context.Context, userID string, req report.Request) (store.Record, error)
	Get(ctx context.Context, id, userID string) (store.Record, error)
	List(ctx context.Context, userID string) ([]store.Record, error)
	Delete(ctx context.Context, id, userID string) error
	RenderPDF(ctx context.Context, id, userID string) (funnel.RenderedPDF, error)
}

type Server struct {
	funnel Funnel
	logger *zap.Logger
}

func NewServer(f Funnel, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{funnel: f, logger: logger}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/health", s.handleHealth)
	mux.HandleFunc("/v1/locations/classify", s.handleClassify)
	mux.HandleFunc("/v1/reports", s.handleReports)
	mux.HandleFunc("/v1/reports/", s.handleReport)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	ae := apiError(err)
	if ae.Status >= 500 {
		s.logger.Error("request failed", zap.Error(err))
	}
	body := map[string]any{
		"code":    ae.Code,
		"message": ae.Message,
	}
	if len(ae.Problems) > 0 {
		body["problems"] = ae.Problems
	}
	writeJSON(w, ae.Status, map[string]any{"ok": false, "error": body})
}

func methodOnly(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(r.Header.Get(UserHeader))
	if userID == "" {
		s.writeError(w, newError(CodeUnauthorized, UserHeader+" header required"))
		return "", false
	}
	return userID, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	q := r.URL.Query()
	preview, err := s.funnel.Classify(q.Get("city"), q.Get("state"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodPost:
		s.createReport(w, r, userID)
	case http.MethodGet:
		records, err := s.funnel.List(r.Context(), userID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"reports": records})
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) createReport(w http.ResponseWriter, r *http.Request, userID string) {
	blob, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, newError(CodeValidation, "read body: "+err.Error()))
		return
	}
	var req report.Request
	if err := json.Unmarshal(blob, &req); err != nil {
		s.writeError(w, newError(CodeValidation, "invalid json: "+err.Error()))
		return
	}
	rec, err := s.funnel.Generate(r.Context(), userID, req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"ok":        true,
		"report_id": rec.ID,
		"status":    rec.Status,
		"source":    rec.Source,
	})
}

// handleReport serves /v1/reports/{id} and /v1/reports/{id}/pdf.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/reports/"), "/")
	parts := strings.Split(rest, "/")
	if rest == "" || len(parts) > 2 || (len(parts) == 2 && parts[1] != "pdf") {
		http.NotFound(w, r)
		return
	}
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id := parts[0]

	if len(parts) == 2 {
		if !methodOnly(w, r, http.MethodGet) {
			return
		}
		s.servePDF(w, r, id, userID)
		return
	}

	switch r.Method {
	case http.MethodGet:
		rec, err := s.funnel.Get(r.Context(), id, userID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	case http.MethodDelete:
		if err := s.funnel.Delete(r.Context(), id, userID); err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		w.Header().Set("Allow", "GET, DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) servePDF(w http.ResponseWriter, r *http.Request, id, userID string) {
	out, err := s.funnel.RenderPDF(r.Context(), id, userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Filename))
	if out.URL != "" {
		w.Header().Set("X-Archive-URL", out.URL)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Data)
}
