package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	dgerrors "github.com/daygrid/daygrid/pkg/errors"
)

// requestLogger logs one line per request with status and duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch dgerrors.GetCode(err) {
	case dgerrors.ErrCodeInvalidInput, dgerrors.ErrCodeInvalidDate, dgerrors.ErrCodeInvalidView,
		dgerrors.ErrCodeInvalidFormat, dgerrors.ErrCodeInvalidSource, dgerrors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case dgerrors.ErrCodeNotFound, dgerrors.ErrCodeFileNotFound, dgerrors.ErrCodeSnapshotNotFound:
		return http.StatusNotFound
	case dgerrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case dgerrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case dgerrors.ErrCodeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError sends a structured error response and logs server faults.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= 500 {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{
		"error": dgerrors.UserMessage(err),
		"code":  string(dgerrors.GetCode(err)),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
