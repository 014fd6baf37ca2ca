package repo

import (
	"context"

	"github.com/BuzzLyutic/tasks-api/internal/model"
)

// UpdateFunc получает текущую задачу и возвращает новую версию.
// Ошибка отменяет изменение
type UpdateFunc func(current model.Task) (model.Task, error)

// Stats - агрегаты по текущей коллекции
type Stats struct {
	ByPriority      map[model.Priority]int `json:"porPrioridad"`
	CompletedByDate map[string]int         `json:"completadasPorFecha"`
}

// TaskRepository определяет интерфейс для работы с задачами
type TaskRepository interface {
	Create(ctx context.Context, t model.Task) (model.Task, error)
	Get(ctx context.Context, id int64) (model.Task, error)
	List(ctx context.Context) ([]model.Task, error)
	Update(ctx context.Context, id int64, fn UpdateFunc) (model.Task, error)
	Delete(ctx context.Context, id int64) (model.Task, error)
	GetStats(ctx context.Context) (Stats, error)
}
