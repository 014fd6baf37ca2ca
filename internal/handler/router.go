package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/tasks-api/internal/auth"
	"github.com/BuzzLyutic/tasks-api/pkg/respond"
)

const APIPrefix = "/api"

// Routes перечисляется в ответе 404 и на главной странице
var Routes = []string{
	"GET /",
	"GET /api/tasks",
	"POST /api/tasks",
	"GET /api/tasks/:id",
	"PUT /api/tasks/:id",
	"DELETE /api/tasks/:id",
	"GET /api/stats",
}

// NewRouter собирает цепочку middleware и таблицу маршрутов.
// Проверка ключа идет до маршрутизации, поэтому без ключа любой /api/* получает 401
func NewRouter(h *TaskHandler, gate *auth.Gate, logger *zap.Logger, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter() // Создаем роутер
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(Recoverer(logger))
	r.Use(CORS)
	if requestTimeout > 0 {
		r.Use(middleware.Timeout(requestTimeout))
	}
	r.Use(gate.Middleware(APIPrefix))

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.NotFound)

	r.Get("/", h.Index)
	r.Get("/health", Health)

	r.Get("/api/tasks", h.List)
	r.Post("/api/tasks", h.Create)
	// id - последний сегмент пути, поэтому /api/tasks/ и /api/tasks/1/x тоже идут в обработчики задачи
	r.Get("/api/tasks/*", h.Get)
	r.Put("/api/tasks/*", h.Update)
	r.Delete("/api/tasks/*", h.Delete)
	r.Get("/api/stats", h.Stats)

	return r
}

func Health(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
