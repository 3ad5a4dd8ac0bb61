// SPDX-License-Identifier: EPL-2.0

package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/ik5/audshout"
	"github.com/ik5/audshout/internal/analyze"
	"github.com/ik5/audshout/internal/fetch"
	"github.com/ik5/audshout/internal/observe"
	"github.com/ik5/audshout/shout"
)

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	SessionID    string `json:"session_id" validate:"required"`
	UserID       string `json:"user_id" validate:"required"`
	Conversation string `json:"conversation" validate:"required"`
	AudioURL     string `json:"audio_url" validate:"required,url"`
}

// AnalyzeResponse echoes the request and carries the detection.
type AnalyzeResponse struct {
	Success        bool         `json:"success"`
	SessionID      string       `json:"session_id"`
	UserID         string       `json:"user_id"`
	Conversation   string       `json:"conversation"`
	AudioURL       string       `json:"audio_url"`
	ShoutDetection shout.Result `json:"shout_detection"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

// FieldError describes one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type healthResponse struct {
	Service string `json:"service"`
	Status  string `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// handleHealth reports liveness.
// GET /healthz
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Service: ServiceName, Status: "running"})
}

// handleAnalyze fetches the session recording and detects shouting.
// POST /analyze
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.analyzer == nil || !s.analyzer.Ready() {
		writeError(w, http.StatusServiceUnavailable, analyze.ErrUnavailable.Error())
		return
	}

	body := http.MaxBytesReader(w, r.Body, 1<<20)
	var req AnalyzeRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	if err := s.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	res, err := s.analyzer.DetectFromURL(r.Context(), req.AudioURL)
	if err != nil {
		s.fail(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, AnalyzeResponse{
		Success:        true,
		SessionID:      req.SessionID,
		UserID:         req.UserID,
		Conversation:   req.Conversation,
		AudioURL:       req.AudioURL,
		ShoutDetection: res,
	})
}

// handleDetect analyses an uploaded recording. The container is sniffed
// unless ?format= names it.
// POST /detect
func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	if s.analyzer == nil {
		writeError(w, http.StatusServiceUnavailable, analyze.ErrUnavailable.Error())
		return
	}

	var body io.Reader = r.Body
	if s.cfg.MaxUploadBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}

	res, err := s.analyzer.DetectBytes(r.Context(), data, r.URL.Query().Get("format"))
	if err != nil {
		s.fail(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) fail(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		observe.Logger(ctx).Error("analysis failed", "status", status, "error", err)
	} else {
		observe.Logger(ctx).Info("analysis rejected", "status", status, "error", err)
	}
	writeError(w, status, err.Error())
}

// statusFor maps analysis errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, analyze.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, fetch.ErrEmptyURL),
		errors.Is(err, fetch.ErrUnsupportedScheme),
		errors.Is(err, fetch.ErrInvalidS3URL):
		return http.StatusBadRequest
	case errors.Is(err, audshout.ErrDecode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, fetch.ErrFetch), errors.Is(err, fetch.ErrTooLarge):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeValidationError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Error: "invalid request"}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, e := range verrs {
			resp.Details = append(resp.Details, FieldError{
				Field:   e.Field(),
				Message: formatValidationMessage(e),
			})
		}
	} else {
		resp.Details = []FieldError{{Message: err.Error()}}
	}

	writeJSON(w, http.StatusBadRequest, resp)
}

func formatValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	default:
		return "failed validation '" + e.Tag() + "'"
	}
}
