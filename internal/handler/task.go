package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/tasks-api/internal/model"
	"github.com/BuzzLyutic/tasks-api/internal/query"
	"github.com/BuzzLyutic/tasks-api/internal/repo"
	"github.com/BuzzLyutic/tasks-api/internal/request"
	"github.com/BuzzLyutic/tasks-api/internal/service"
	"github.com/BuzzLyutic/tasks-api/pkg/respond"
)

// Тексты ошибок - часть внешнего контракта API
const (
	MsgNotFound      = "No encontrada"
	MsgInvalidJSON   = "JSON inválido"
	MsgRouteNotFound = "Ruta no encontrada"
	MsgInternal      = "Error interno del servidor"
)

type Options struct {
	MaxBodyBytes int64
	ListPageMeta bool // pagina/limite в ответе списка
}

type TaskHandler struct {
	service *service.TaskService
	logger  *zap.Logger
	opts    Options
}

func NewTaskHandler(srv *service.TaskService, logger *zap.Logger, opts Options) *TaskHandler {
	return &TaskHandler{
		service: srv,
		logger:  logger,
		opts:    opts,
	}
}

type listResponse struct {
	Total  int          `json:"total"`
	Pagina *int         `json:"pagina,omitempty"`
	Limite *int         `json:"limite,omitempty"`
	Tareas []model.Task `json:"tareas"`
}

type deleteResponse struct {
	Eliminada model.Task `json:"eliminada"`
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	candidate, err := h.candidate(r)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	task, err := h.service.Create(r.Context(), candidate)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/tasks/%d", task.ID))
	respond.JSON(w, r, http.StatusCreated, task)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	task, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := query.ParseFilter(request.Flatten(r.URL.Query()))

	res, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	body := listResponse{Total: res.Total, Tareas: res.Items}
	if h.opts.ListPageMeta {
		body.Pagina, body.Limite = &res.Page, &res.PageSize
	}
	respond.JSON(w, r, http.StatusOK, body)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	patch, err := h.candidate(r)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	task, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	task, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, deleteResponse{Eliminada: task})
}

func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, stats)
}

// NotFound отвечает на любые несовпавшие маршруты (включая чужой метод)
func (h *TaskHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusNotFound, map[string]any{
		"error":       MsgRouteNotFound,
		"metodo":      r.Method,
		"ruta":        r.URL.Path,
		"disponibles": Routes,
	})
}

func (h *TaskHandler) candidate(r *http.Request) (model.Candidate, error) {
	req, err := request.Parse(r, h.opts.MaxBodyBytes)
	if err != nil {
		return nil, err
	}
	return req.Candidate()
}

// parseID берет последний сегмент пути после /api/tasks/ и читает его ведущие цифры.
// Сегмент без цифр означает "задачи нет", а не ошибку запроса
func parseID(r *http.Request) (int64, error) {
	rest := chi.URLParam(r, "*")
	segment := rest[strings.LastIndex(rest, "/")+1:]

	id, ok := request.LeadingInt(segment)
	if !ok {
		return 0, repo.ErrorNotFound
	}
	return id, nil
}

func (h *TaskHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		respond.Errors(w, r, http.StatusBadRequest, verr.Messages)
	case errors.Is(err, request.ErrMalformedBody):
		h.logger.Debug("failed to decode json", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, MsgInvalidJSON)
	case errors.Is(err, repo.ErrorNotFound):
		respond.Error(w, r, http.StatusNotFound, MsgNotFound)
	default:
		h.logger.Error("internal error", zap.Error(err))
		internalError(w, r, err.Error())
	}
}

func internalError(w http.ResponseWriter, r *http.Request, detail string) {
	respond.JSON(w, r, http.StatusInternalServerError, map[string]string{
		"error":   MsgInternal,
		"detalle": detail,
	})
}
