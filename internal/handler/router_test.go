package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/tasks-api/internal/auth"
	"github.com/BuzzLyutic/tasks-api/internal/model"
	"github.com/BuzzLyutic/tasks-api/internal/repo"
	"github.com/BuzzLyutic/tasks-api/internal/service"
)

const testKey = "test-key"

func setupE2EServer(t *testing.T) (*httptest.Server, *repo.TaskRepo) {
	t.Helper()

	taskRepo := repo.NewTaskRepo(func() time.Time { return fixedNow }, repo.SampleTasks(fixedNow)...)
	taskService := service.NewTaskService(taskRepo)
	logger := zap.NewNop()
	taskHandler := NewTaskHandler(taskService, logger, Options{MaxBodyBytes: 1 << 20})
	gate := auth.NewGate([]string{testKey, "other-key"}, logger)

	server := httptest.NewServer(NewRouter(taskHandler, gate, logger, time.Second))
	t.Cleanup(server.Close)

	return server, taskRepo
}

func doRequest(t *testing.T, method, url, key string, body []byte) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(auth.HeaderAPIKey, key)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestE2E_FullWorkflow(t *testing.T) {
	server, _ := setupE2EServer(t)

	// 1. Create task
	resp := doRequest(t, http.MethodPost, server.URL+"/api/tasks", testKey, []byte(`{"titulo":"Buy milk"}`))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created model.Task
	decodeBody(t, resp, &created)
	require.NotZero(t, created.ID)
	assert.Equal(t, model.PriorityMedium, created.Prioridad)
	assert.False(t, created.Completada)

	// 2. List by priority includes it
	resp = doRequest(t, http.MethodGet, server.URL+"/api/tasks?prioridad=media", testKey, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var list struct {
		Total  int          `json:"total"`
		Tareas []model.Task `json:"tareas"`
	}
	decodeBody(t, resp, &list)
	assert.Equal(t, len(list.Tareas), list.Total)
	assert.Contains(t, list.Tareas, created)

	// 3. Complete it
	resp = doRequest(t, http.MethodPut, fmt.Sprintf("%s/api/tasks/%d", server.URL, created.ID), testKey, []byte(`{"completada":true}`))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var updated model.Task
	decodeBody(t, resp, &updated)
	assert.True(t, updated.Completada)
	assert.Equal(t, "Buy milk", updated.Titulo)

	// 4. Delete it
	resp = doRequest(t, http.MethodDelete, fmt.Sprintf("%s/api/tasks/%d", server.URL, created.ID), testKey, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// 5. Verify deletion
	resp = doRequest(t, http.MethodGet, fmt.Sprintf("%s/api/tasks/%d", server.URL, created.ID), testKey, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestE2E_Unauthorized(t *testing.T) {
	server, store := setupE2EServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		key    string
		body   []byte
	}{
		{name: "list without key", method: http.MethodGet, path: "/api/tasks"},
		{name: "create with wrong key", method: http.MethodPost, path: "/api/tasks", key: "nope", body: []byte(`{"titulo":"x"}`)},
		{name: "update without key", method: http.MethodPut, path: "/api/tasks/1", body: []byte(`{"completada":true}`)},
		{name: "delete without key", method: http.MethodDelete, path: "/api/tasks/1"},
		{name: "stats without key", method: http.MethodGet, path: "/api/stats"},
		{name: "unknown api route without key", method: http.MethodGet, path: "/api/unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, _ := store.List(t.Context())

			resp := doRequest(t, tt.method, server.URL+tt.path, tt.key, tt.body)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			var body map[string]string
			decodeBody(t, resp, &body)
			assert.Equal(t, auth.MsgInvalidKey, body["error"])

			after, _ := store.List(t.Context())
			assert.Equal(t, before, after, "store must not change")
		})
	}

	t.Run("second configured key accepted", func(t *testing.T) {
		resp := doRequest(t, http.MethodGet, server.URL+"/api/stats", "other-key", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestE2E_NonAPIRoutesBypassAuth(t *testing.T) {
	server, _ := setupE2EServer(t)

	resp := doRequest(t, http.MethodGet, server.URL+"/", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	resp.Body.Close()

	resp = doRequest(t, http.MethodGet, server.URL+"/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var health map[string]string
	decodeBody(t, resp, &health)
	assert.Equal(t, "ok", health["status"])

	resp = doRequest(t, http.MethodGet, server.URL+"/otra", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body map[string]any
	decodeBody(t, resp, &body)
	assert.Equal(t, MsgRouteNotFound, body["error"])
}

func TestE2E_RouteNotFound(t *testing.T) {
	server, _ := setupE2EServer(t)

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{name: "unknown api path", method: http.MethodGet, path: "/api/unknown"},
		{name: "method not routed", method: http.MethodPatch, path: "/api/tasks/1"},
		{name: "delete collection", method: http.MethodDelete, path: "/api/tasks"},
		{name: "method not routed on nested path", method: http.MethodPatch, path: "/api/tasks/1/extra"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, tt.method, server.URL+tt.path, testKey, nil)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)

			var body map[string]any
			decodeBody(t, resp, &body)
			assert.Equal(t, MsgRouteNotFound, body["error"])
			assert.Equal(t, tt.method, body["metodo"])
			assert.Equal(t, tt.path, body["ruta"])
			assert.Len(t, body["disponibles"], len(Routes))
		})
	}
}

func TestE2E_NonNumericID(t *testing.T) {
	server, store := setupE2EServer(t)

	// id берется из последнего сегмента пути
	for _, path := range []string{"/api/tasks/abc", "/api/tasks/", "/api/tasks/1/extra"} {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			t.Run(method+" "+path, func(t *testing.T) {
				resp := doRequest(t, method, server.URL+path, testKey, []byte(`{}`))
				assert.Equal(t, http.StatusNotFound, resp.StatusCode)

				var body map[string]string
				decodeBody(t, resp, &body)
				assert.Equal(t, MsgNotFound, body["error"])
			})
		}
	}

	tasks, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestE2E_IDLeadingDigits(t *testing.T) {
	server, _ := setupE2EServer(t)

	for _, path := range []string{"/api/tasks/1abc", "/api/tasks/1.9", "/api/tasks/abc/1"} {
		t.Run(path, func(t *testing.T) {
			resp := doRequest(t, http.MethodGet, server.URL+path, testKey, nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var task model.Task
			decodeBody(t, resp, &task)
			assert.Equal(t, int64(1), task.ID)
		})
	}
}

func TestE2E_Headers(t *testing.T) {
	server, _ := setupE2EServer(t)

	for _, path := range []string{"/api/tasks", "/api/nothing", "/"} {
		resp := doRequest(t, http.MethodGet, server.URL+path, testKey, nil)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"), path)
		resp.Body.Close()
	}

	resp := doRequest(t, http.MethodGet, server.URL+"/api/tasks", "", nil)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"), "401 carries CORS too")
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	resp.Body.Close()

	t.Run("preflight without key", func(t *testing.T) {
		resp := doRequest(t, http.MethodOptions, server.URL+"/api/tasks", "", nil)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "x-api-key")
	})
}

func TestE2E_PaginationAndTotal(t *testing.T) {
	server, _ := setupE2EServer(t)

	for i := 0; i < 5; i++ {
		body := []byte(fmt.Sprintf(`{"titulo":"Tarea %d","prioridad":"baja"}`, i))
		resp := doRequest(t, http.MethodPost, server.URL+"/api/tasks", testKey, body)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := doRequest(t, http.MethodGet, server.URL+"/api/tasks?prioridad=baja&limite=2&pagina=2", testKey, nil)
	var list struct {
		Total  int          `json:"total"`
		Tareas []model.Task `json:"tareas"`
	}
	decodeBody(t, resp, &list)

	assert.Equal(t, 5, list.Total)
	require.Len(t, list.Tareas, 2)
	assert.Equal(t, "Tarea 2", list.Tareas[0].Titulo)
	assert.Equal(t, "Tarea 3", list.Tareas[1].Titulo)

	// limite=2.5 читается как 2
	resp = doRequest(t, http.MethodGet, server.URL+"/api/tasks?limite=2.5&pagina=1x", testKey, nil)
	decodeBody(t, resp, &list)

	assert.Equal(t, 7, list.Total)
	require.Len(t, list.Tareas, 2)
	assert.Equal(t, int64(1), list.Tareas[0].ID)
}

func TestE2E_IDsStrictlyIncreasing(t *testing.T) {
	server, _ := setupE2EServer(t)

	create := func() int64 {
		resp := doRequest(t, http.MethodPost, server.URL+"/api/tasks", testKey, []byte(`{"titulo":"x"}`))
		var task model.Task
		decodeBody(t, resp, &task)
		return task.ID
	}

	first := create()
	resp := doRequest(t, http.MethodDelete, fmt.Sprintf("%s/api/tasks/%d", server.URL, first), testKey, nil)
	resp.Body.Close()
	second := create()

	assert.Greater(t, second, first)
}

func TestE2E_PanicRecovered(t *testing.T) {
	logger := zap.NewNop()
	r := chi.NewRouter()
	r.Use(Recoverer(logger))
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("something went badly wrong")
	})
	r.Get("/ok", Health)

	server := httptest.NewServer(r)
	defer server.Close()

	resp, err := http.Get(server.URL + "/boom")
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, MsgInternal, body["error"])
	assert.Equal(t, "something went badly wrong", body["detalle"])

	// сервер продолжает обслуживать запросы
	resp, err = http.Get(server.URL + "/ok")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
