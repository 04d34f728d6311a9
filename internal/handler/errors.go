package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"yatube/internal/logger"
	"yatube/internal/middleware"
	"yatube/internal/repository"
	"yatube/internal/service"
)

// ErrorResponse - стандартный ответ с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON - ответ в формате JSON
func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "404.html", nil)
}

func (h *Handlers) serverError(w http.ResponseWriter, r *http.Request, err error) {
	logger.L.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	h.render(w, r, http.StatusInternalServerError, "500.html", nil)
}

// handleError maps service errors onto pages. Validation errors are not
// handled here; each form re-renders itself.
func (h *Handlers) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		h.NotFound(w, r)
	case errors.Is(err, service.ErrAuthenticationRequired):
		http.Redirect(w, r, middleware.LoginRedirectURL(h.loginURL(), r.URL.RequestURI()), http.StatusFound)
	default:
		h.serverError(w, r, err)
	}
}
