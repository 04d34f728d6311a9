package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"yatube/internal/logger"
	"yatube/internal/models"
	"yatube/internal/service"
)

type stubParser struct {
	user *models.User
	err  error
}

func (s stubParser) ParseSession(ctx context.Context, tokenString string) (*models.User, error) {
	return s.user, s.err
}

func currentUser(got **models.User) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestLoginRedirectURL(t *testing.T) {
	tests := []struct {
		next     string
		expected string
	}{
		{"/create/", "/auth/login/?next=/create/"},
		{"/posts/1/edit/", "/auth/login/?next=/posts/1/edit/"},
		{"/follow/?page=2", "/auth/login/?next=/follow/%3Fpage%3D2"},
	}

	for _, tt := range tests {
		t.Run(tt.next, func(t *testing.T) {
			assert.Equal(t, tt.expected, LoginRedirectURL("/auth/login/", tt.next))
		})
	}
}

func TestLoginRequired(t *testing.T) {
	var got *models.User
	handler := LoginRequired("/auth/login/")(currentUser(&got))

	t.Run("Аноним перенаправлен на вход", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/create/", nil))

		assert.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, "/auth/login/?next=/create/", rr.Header().Get("Location"))
	})

	t.Run("Пользователь проходит", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/create/", nil)
		req = req.WithContext(WithUser(req.Context(), &models.User{UserID: 1}))
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, got)
		assert.Equal(t, int64(1), got.UserID)
	})
}

func TestSessionMiddleware(t *testing.T) {
	alice := &models.User{UserID: 1, Username: "alice"}

	t.Run("Без cookie", func(t *testing.T) {
		var got *models.User
		handler := SessionMiddleware(stubParser{user: alice})(currentUser(&got))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Nil(t, got)
	})

	t.Run("Валидная сессия", func(t *testing.T) {
		var got *models.User
		handler := SessionMiddleware(stubParser{user: alice})(currentUser(&got))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "token"})
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, alice, got)
	})

	t.Run("Испорченная сессия сбрасывается", func(t *testing.T) {
		var got *models.User
		handler := SessionMiddleware(stubParser{err: fmt.Errorf("%w: bad token", service.ErrInvalidSession)})(currentUser(&got))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "broken"})
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Nil(t, got)
		assert.Equal(t, http.StatusOK, rr.Code)
		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, SessionCookieName, cookies[0].Name)
		assert.True(t, cookies[0].MaxAge < 0)
	})
}

func TestSessionMiddleware_StoreFailureKeepsCookie(t *testing.T) {
	var got *models.User
	handler := SessionMiddleware(stubParser{err: errors.New("connection refused")})(currentUser(&got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "token"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Nil(t, got)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Result().Cookies())
}

func TestSetSessionCookie(t *testing.T) {
	rr := httptest.NewRecorder()

	SetSessionCookie(rr, "token", time.Hour)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 3600, cookies[0].MaxAge)
}

func TestRecoverMiddleware(t *testing.T) {
	handler := RecoverMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestLoggingMiddleware(t *testing.T) {
	handler := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("tea"))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Equal(t, "tea", rr.Body.String())
}

func TestLoggingMiddleware_SeesSessionUser(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	previous := logger.L
	logger.L = zap.New(core)
	t.Cleanup(func() { logger.L = previous })

	alice := &models.User{UserID: 7, Username: "alice"}
	var got *models.User
	handler := Chain(currentUser(&got), LoggingMiddleware, SessionMiddleware(stubParser{user: alice}))

	req := httptest.NewRequest(http.MethodGet, "/follow/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "token"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("http request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(7), entries[0].ContextMap()["user_id"])
	assert.Equal(t, "/follow/", entries[0].ContextMap()["path"])
}

func TestChain(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}), mark("inner"), mark("outer"))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "inner"}, order)
}
