package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/malusanacoza-ui/TodoListManager/internal/auth"
	"github.com/malusanacoza-ui/TodoListManager/internal/dto"
	"github.com/malusanacoza-ui/TodoListManager/internal/repo"
	"github.com/malusanacoza-ui/TodoListManager/internal/repo/repotest"
	"github.com/malusanacoza-ui/TodoListManager/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthAPI(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	sessions := auth.NewStore(rdb, time.Hour)

	h := NewAuthHandler(sessions, service.NewUserService(repo.NewGormUserRepo(repotest.NewSQLite(t))), false)
	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)
	r.GET("/auth/me", auth.RequireSession(sessions), h.Me)
	return r
}

func post(r http.Handler, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", auth.SessionCookieName)
	return nil
}

func TestAuthHandler_RegisterLoginMeLogout(t *testing.T) {
	r := setupAuthAPI(t)

	w := post(r, "/auth/register", `{"username":"alice","password":"pw"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reg := decode[dto.AuthResponse](t, w)
	assert.True(t, reg.OK)
	assert.Equal(t, "alice", reg.User.Username)
	c := sessionCookie(t, w)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, 3600, c.MaxAge)

	w = post(r, "/auth/register", `{"username":"alice","password":"again"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = post(r, "/auth/login", `{"username":"alice","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = post(r, "/auth/login", `{"username":"alice","password":"pw"}`)
	require.Equal(t, http.StatusOK, w.Code)
	login := sessionCookie(t, w)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(login)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, reg.User.ID, decode[dto.UserResponse](t, w).ID)

	w = post(r, "/auth/logout", "", login)
	assert.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(login)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_BadBodies(t *testing.T) {
	r := setupAuthAPI(t)
	assert.Equal(t, http.StatusBadRequest, post(r, "/auth/register", `{"username":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(r, "/auth/login", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(r, "/auth/register", `{"username":"   ","password":"pw"}`).Code)

	w := post(r, "/auth/register", `{"username":"long","password":"`+strings.Repeat("p", 73)+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "72 bytes")
}

func meStatus(r http.Handler, c *http.Cookie) int {
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(c)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestAuthHandler_NewSessionRevokesPrevious(t *testing.T) {
	r := setupAuthAPI(t)

	w := post(r, "/auth/register", `{"username":"alice","password":"pw"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	first := sessionCookie(t, w)

	w = post(r, "/auth/login", `{"username":"alice","password":"pw"}`, first)
	require.Equal(t, http.StatusOK, w.Code)
	second := sessionCookie(t, w)
	assert.NotEqual(t, first.Value, second.Value)

	assert.Equal(t, http.StatusUnauthorized, meStatus(r, first))
	assert.Equal(t, http.StatusOK, meStatus(r, second))

	// Registering another account from the same browser drops the old login too.
	w = post(r, "/auth/register", `{"username":"bob","password":"pw"}`, second)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, http.StatusUnauthorized, meStatus(r, second))
	assert.Equal(t, http.StatusOK, meStatus(r, sessionCookie(t, w)))
}
