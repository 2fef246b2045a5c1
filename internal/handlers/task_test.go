package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
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

type taskAPI struct {
	router *gin.Engine
	alice  string
	bob    string
}

func setupTaskAPI(t *testing.T) *taskAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	sessions := auth.NewStore(rdb, time.Hour)

	ctx := context.Background()
	alice, err := sessions.Create(ctx, 1)
	require.NoError(t, err)
	bob, err := sessions.Create(ctx, 2)
	require.NoError(t, err)

	h := NewTaskHandler(service.NewTaskService(repo.NewGormTaskRepo(repotest.NewSQLite(t)), nil))
	r := gin.New()
	g := r.Group("/api/v1", auth.RequireSession(sessions))
	g.GET("/tasks", h.List)
	g.POST("/tasks", h.Create)
	g.GET("/tasks/:id", h.GetByID)
	g.PUT("/tasks/:id", h.Update)
	g.DELETE("/tasks/:id", h.Delete)
	g.POST("/tasks/:id/toggle-complete", h.ToggleComplete)
	g.POST("/tasks/:id/toggle-pin", h.TogglePin)

	return &taskAPI{router: r, alice: alice, bob: bob}
}

func (a *taskAPI) do(t *testing.T, session, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != "" {
		req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: session})
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestTaskHandler_RequiresSession(t *testing.T) {
	api := setupTaskAPI(t)
	w := api.do(t, "", http.MethodGet, "/api/v1/tasks", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = api.do(t, "bogus", http.MethodPost, "/api/v1/tasks", `{"title":"x","priority":"low"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTaskHandler_CreateAndGet(t *testing.T) {
	api := setupTaskAPI(t)

	w := api.do(t, api.alice, http.MethodPost, "/api/v1/tasks",
		`{"title":"Buy milk","priority":"medium","owner_id":2,"created_at":"2001-01-01T00:00:00Z"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[dto.TaskResponse](t, w)
	assert.Equal(t, "Buy milk", created.Title)
	assert.False(t, created.IsCompleted)
	assert.False(t, created.IsPinned)
	assert.Greater(t, created.CreatedAt.Year(), 2001)
	assert.Equal(t, "/api/v1/tasks/"+itoa(created.ID), w.Header().Get("Location"))

	w = api.do(t, api.alice, http.MethodGet, "/api/v1/tasks/"+itoa(created.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.ID, decode[dto.TaskResponse](t, w).ID)

	w = api.do(t, api.bob, http.MethodGet, "/api/v1/tasks/"+itoa(created.ID), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"not found"}`, w.Body.String())

	w = api.do(t, api.bob, http.MethodGet, "/api/v1/tasks", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[dto.ListTasksResponse](t, w).Items)
}

func TestTaskHandler_CreateValidation(t *testing.T) {
	api := setupTaskAPI(t)

	w := api.do(t, api.alice, http.MethodPost, "/api/v1/tasks", `{"title":"","description":"keep me","priority":"high"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decode[dto.ValidationErrorResponse](t, w)
	assert.Equal(t, "validation failed", resp.Error)
	assert.Equal(t, map[string]string{"title": "is required"}, resp.Fields)
	assert.Equal(t, "keep me", resp.Input.Description)

	w = api.do(t, api.alice, http.MethodPost, "/api/v1/tasks", `{"title":"x"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, decode[dto.ValidationErrorResponse](t, w).Fields, "priority")

	w = api.do(t, api.alice, http.MethodPost, "/api/v1/tasks", `{"title":"x","priority":"urgent"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, api.alice, http.MethodPost, "/api/v1/tasks", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, api.alice, http.MethodGet, "/api/v1/tasks", "")
	assert.Empty(t, decode[dto.ListTasksResponse](t, w).Items)
}

func TestTaskHandler_Update(t *testing.T) {
	api := setupTaskAPI(t)
	w := api.do(t, api.alice, http.MethodPost, "/api/v1/tasks", `{"title":"draft","priority":"low"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[dto.TaskResponse](t, w)
	path := "/api/v1/tasks/" + itoa(created.ID)

	w = api.do(t, api.alice, http.MethodPut, path,
		`{"title":"final","priority":"high","is_pinned":true,"created_at":"2001-01-01T00:00:00Z"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[dto.TaskResponse](t, w)
	assert.Equal(t, "final", updated.Title)
	assert.True(t, updated.IsPinned)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

	w = api.do(t, api.bob, http.MethodPut, path, `{"title":"mine now","priority":"high"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, api.alice, http.MethodPut, path, `{"id":`+itoa(created.ID+1)+`,"title":"x","priority":"high"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, api.alice, http.MethodPut, path, `{"title":"","priority":"high"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = api.do(t, api.alice, http.MethodPut, "/api/v1/tasks/abc", `{"title":"x","priority":"high"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskHandler_TogglesAndDelete(t *testing.T) {
	api := setupTaskAPI(t)
	w := api.do(t, api.alice, http.MethodPost, "/api/v1/tasks", `{"title":"flip","priority":"medium"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	path := "/api/v1/tasks/" + itoa(decode[dto.TaskResponse](t, w).ID)

	assert.Equal(t, http.StatusNoContent, api.do(t, api.alice, http.MethodPost, path+"/toggle-complete", "").Code)
	assert.Equal(t, http.StatusNoContent, api.do(t, api.alice, http.MethodPost, path+"/toggle-pin", "").Code)
	// Another owner's toggles are silent no-ops.
	assert.Equal(t, http.StatusNoContent, api.do(t, api.bob, http.MethodPost, path+"/toggle-pin", "").Code)

	got := decode[dto.TaskResponse](t, api.do(t, api.alice, http.MethodGet, path, ""))
	assert.True(t, got.IsCompleted)
	assert.True(t, got.IsPinned)

	assert.Equal(t, http.StatusNoContent, api.do(t, api.bob, http.MethodDelete, path, "").Code)
	assert.Equal(t, http.StatusOK, api.do(t, api.alice, http.MethodGet, path, "").Code)

	assert.Equal(t, http.StatusNoContent, api.do(t, api.alice, http.MethodDelete, path, "").Code)
	assert.Equal(t, http.StatusNoContent, api.do(t, api.alice, http.MethodDelete, path, "").Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, api.alice, http.MethodGet, path, "").Code)
	assert.Equal(t, http.StatusBadRequest, api.do(t, api.alice, http.MethodDelete, "/api/v1/tasks/0", "").Code)
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
