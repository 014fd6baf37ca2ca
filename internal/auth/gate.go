package auth

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/tasks-api/pkg/respond"
)

const (
	HeaderAPIKey  = "x-api-key"
	MsgInvalidKey = "API Key inválida"
)

// Gate проверяет API-ключ по фиксированному набору, заданному при создании
type Gate struct {
	keys   map[string]struct{}
	logger *zap.Logger
}

func NewGate(keys []string, logger *zap.Logger) *Gate {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k != "" { // пустой ключ никогда не считается валидным
			set[k] = struct{}{}
		}
	}
	return &Gate{keys: set, logger: logger}
}

func (g *Gate) Authorize(key string) bool {
	_, ok := g.keys[key]
	return ok
}

// Middleware пропускает только запросы с валидным ключом, если путь начинается с prefix.
// Отказ завершает обработку до маршрутизации
func (g *Gate) Middleware(prefix string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !underPrefix(r.URL.Path, prefix) || g.Authorize(r.Header.Get(HeaderAPIKey)) {
				next.ServeHTTP(w, r)
				return
			}

			g.logger.Warn("rejected request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote", r.RemoteAddr),
			)
			respond.Error(w, r, http.StatusUnauthorized, MsgInvalidKey)
		})
	}
}

// underPrefix: "/api" и "/api/..." да, "/apix" нет
func underPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
