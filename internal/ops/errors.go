package ops

import (
	"encoding/json"
	"net/http"
	"time"
)

func (s *Server) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	s.Logger.Error("ops request failed", "method", r.Method, "path", r.URL.Path, "error", err)

	response := struct {
		Code        int    `json:"code"`
		CurrentTime int64  `json:"currentTime"`
		Text        string `json:"text"`
	}{
		Code:        http.StatusInternalServerError,
		CurrentTime: time.Now().UnixMilli(),
		Text:        "internal server error",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	if encoderErr := json.NewEncoder(w).Encode(response); encoderErr != nil {
		s.Logger.Error("failed to encode server error response", "error", encoderErr)
	}
}
