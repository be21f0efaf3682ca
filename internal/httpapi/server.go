package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"survey-insights-go/internal/logger"
	"survey-insights-go/internal/refresh"
	"survey-insights-go/internal/report"
	"survey-insights-go/internal/types"
)

// Refresher is the part of refresh.Controller the API needs.
type Refresher interface {
	Snapshot() refresh.State
	RefreshNow(ctx context.Context) (types.AggregateResult, error)
}

type Server struct {
	refresher Refresher
	log       *logger.Logger
}

func New(refresher Refresher, log *logger.Logger) *Server {
	return &Server{refresher: refresher, log: log.Component("httpapi")}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Routes returns the router with request logging applied.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.withLogging)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	})
	r.Route("/api", func(r chi.Router) {
		r.Get("/aggregate", s.getAggregate)
		r.Post("/refresh", s.postRefresh)
		r.Get("/export.xlsx", s.getExport)
	})
	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.WithRequest(r).
			WithField("status", rec.status).
			WithField("duration_ms", time.Since(start).Milliseconds()).
			Info("request completed")
	})
}

func (s *Server) getAggregate(w http.ResponseWriter, r *http.Request) {
	st := s.refresher.Snapshot()
	if st.Result == nil {
		writeJSON(w, http.StatusServiceUnavailable, st)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) postRefresh(w http.ResponseWriter, r *http.Request) {
	_, err := s.refresher.RefreshNow(r.Context())
	switch {
	case err == nil, errors.Is(err, refresh.ErrStale):
		writeJSON(w, http.StatusOK, s.refresher.Snapshot())
	default:
		s.log.WithError(err).Warn("manual refresh failed")
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Error:   http.StatusText(http.StatusBadGateway),
			Message: err.Error(),
		})
	}
}

func (s *Server) getExport(w http.ResponseWriter, r *http.Request) {
	st := s.refresher.Snapshot()
	if st.Result == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{
			Error:   http.StatusText(http.StatusServiceUnavailable),
			Message: "no aggregate available yet",
		})
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="survey-%s.xlsx"`, st.Result.GeneratedAt.Format("20060102-150405")))
	if err := report.Write(w, *st.Result); err != nil {
		s.log.WithError(err).Error("failed to write workbook")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
