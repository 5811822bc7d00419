package ops

import (
	"encoding/json"
	"net/http"
	"time"
)

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	count, err := s.Courses.CountCourses(r.Context())
	if err != nil {
		s.serverErrorResponse(w, r, err)
		return
	}

	response := struct {
		Status        string `json:"status"`
		Env           string `json:"env"`
		Courses       int64  `json:"courses"`
		ScheduledJobs int    `json:"scheduledJobs"`
		UptimeSeconds int64  `json:"uptimeSeconds"`
	}{
		Status:        "ok",
		Env:           s.Config.Env.String(),
		Courses:       count,
		ScheduledJobs: s.Reminders.Count(),
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.Logger.Error("failed to encode status response", "error", err)
	}
}
