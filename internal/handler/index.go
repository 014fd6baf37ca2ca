package handler

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/tasks-api/pkg/respond"
)

//go:embed web/index.html
var webFS embed.FS

var indexTmpl = template.Must(template.ParseFS(webFS, "web/index.html"))

type indexData struct {
	Count  int
	Routes []string
}

// Index отдает встроенную HTML-страницу с документацией и текущим числом задач
func (h *TaskHandler) Index(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.Count(r.Context())
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, indexData{Count: count, Routes: Routes}); err != nil {
		h.logger.Error("failed to render index", zap.Error(err))
		internalError(w, r, err.Error())
		return
	}
	respond.HTML(w, r, http.StatusOK, buf.Bytes())
}
