package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"yatube/internal/logger"
	"yatube/internal/middleware"
	"yatube/internal/service"
)

// safeNext only follows local paths, anything else falls back to the index.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return "/"
	}
	return next
}

func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, "signup.html", ViewData{
			"Form":   service.SignupRequest{},
			"Errors": service.ValidationErrors{},
		})
		return
	}

	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, "signup.html", ViewData{
			"Form":   service.SignupRequest{},
			"Errors": service.ValidationErrors{"username": "Неверный формат запроса."},
		})
		return
	}

	req := service.SignupRequest{
		Username:        strings.TrimSpace(r.PostFormValue("username")),
		Email:           strings.TrimSpace(r.PostFormValue("email")),
		FirstName:       strings.TrimSpace(r.PostFormValue("first_name")),
		LastName:        strings.TrimSpace(r.PostFormValue("last_name")),
		Password:        r.PostFormValue("password1"),
		PasswordConfirm: r.PostFormValue("password2"),
	}

	_, token, err := h.AuthService.Signup(r.Context(), req)
	var verrs service.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		req.Password, req.PasswordConfirm = "", ""
		h.render(w, r, http.StatusOK, "signup.html", ViewData{"Form": req, "Errors": verrs})
		return
	case err != nil:
		h.serverError(w, r, err)
		return
	}

	middleware.SetSessionCookie(w, token, h.Cfg.SessionDuration)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, "login.html", ViewData{
			"Next":     r.URL.Query().Get("next"),
			"Username": "",
			"Error":    "",
		})
		return
	}

	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, "login.html", ViewData{
			"Next":     "",
			"Username": "",
			"Error":    "Неверный формат запроса",
		})
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	next := r.PostFormValue("next")

	user, token, err := h.AuthService.Login(r.Context(), username, r.PostFormValue("password"))
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		h.render(w, r, http.StatusOK, "login.html", ViewData{
			"Next":     next,
			"Username": username,
			"Error":    "Пожалуйста, введите правильные имя пользователя и пароль.",
		})
		return
	case err != nil:
		h.serverError(w, r, err)
		return
	}

	logger.L.Info("user logged in", zap.Int64("user_id", user.UserID))

	middleware.SetSessionCookie(w, token, h.Cfg.SessionDuration)
	http.Redirect(w, r, safeNext(next), http.StatusFound)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w)
	// the page itself is rendered for an anonymous visitor
	r = r.WithContext(middleware.WithUser(r.Context(), nil))
	h.render(w, r, http.StatusOK, "logged_out.html", nil)
}
