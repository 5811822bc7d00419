// Package ops exposes the liveness and status endpoints used by container
// probes.
package ops

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/iamchris0/hsedeadlinerbot/internal/app"
	"github.com/iamchris0/hsedeadlinerbot/internal/logging"
	"github.com/iamchris0/hsedeadlinerbot/internal/reminders"
)

type Server struct {
	*app.Application
	Reminders *reminders.Scheduler
	startedAt time.Time
}

func NewServer(application *app.Application, scheduler *reminders.Scheduler) *Server {
	return &Server{
		Application: application,
		Reminders:   scheduler,
		startedAt:   time.Now(),
	}
}

func (s *Server) Routes() http.Handler {
	router := httprouter.New()
	router.HandlerFunc(http.MethodGet, "/healthz", s.healthHandler)
	router.HandlerFunc(http.MethodGet, "/v1/status", s.statusHandler)
	return s.requestLogging(router)
}

// statusRecorder captures the response code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		durationMs := float64(time.Since(start).Microseconds()) / 1000.0
		logging.LogHTTPRequest(s.Logger, r.Method, r.URL.Path, recorder.status, durationMs)
	})
}
