package repo

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/BuzzLyutic/tasks-api/internal/model"
)

var (
	ErrorNotFound = errors.New("not found")
)

type TaskRepo struct { // Репозиторий поверх памяти процесса
	mu     sync.RWMutex
	tasks  []model.Task // порядок вставки = порядок выдачи
	nextID int64
	now    func() time.Time
}

func NewTaskRepo(now func() time.Time, seed ...model.Task) *TaskRepo { // Конструктор
	if now == nil {
		now = time.Now
	}
	r := &TaskRepo{
		tasks:  make([]model.Task, 0, len(seed)),
		nextID: 1,
		now:    now,
	}
	for _, t := range seed {
		r.tasks = append(r.tasks, t)
		if t.ID >= r.nextID {
			r.nextID = t.ID + 1
		}
	}
	return r
}

// SampleTasks - стартовый набор задач
func SampleTasks(created time.Time) []model.Task {
	date := created.UTC().Format(model.DateLayout)
	return []model.Task{
		{ID: 1, Titulo: "Aprender Node.js", Descripcion: "Completar tutoriales básicos", Prioridad: model.PriorityHigh, FechaCreacion: date},
		{ID: 2, Titulo: "Practicar HTTP", Descripcion: "Crear servidor básico", Prioridad: model.PriorityMedium, Completada: true, FechaCreacion: date},
	}
}

// Create присваивает следующий id и дату создания. Остальные поля уже заполнены сервисом
func (r *TaskRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t.ID = r.nextID
	r.nextID++ // id никогда не переиспользуется, даже после удаления
	t.FechaCreacion = r.now().UTC().Format(model.DateLayout)

	r.tasks = append(r.tasks, t)
	return t, nil
}

func (r *TaskRepo) Get(ctx context.Context, id int64) (model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return model.Task{}, ErrorNotFound
	}
	return r.tasks[i], nil
}

// List возвращает копию, изменения в ней не затрагивают хранилище
func (r *TaskRepo) List(ctx context.Context) ([]model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]model.Task, len(r.tasks))
	copy(tasks, r.tasks)
	return tasks, nil
}

// Update выполняет fn под блокировкой записи: чтение, слияние и запись атомарны
func (r *TaskRepo) Update(ctx context.Context, id int64, fn UpdateFunc) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return model.Task{}, ErrorNotFound
	}

	current := r.tasks[i]
	updated, err := fn(current)
	if err != nil {
		return current, err
	}

	// Идентификатор и дата создания только для чтения
	updated.ID = current.ID
	updated.FechaCreacion = current.FechaCreacion

	r.tasks[i] = updated
	return updated, nil
}

func (r *TaskRepo) Delete(ctx context.Context, id int64) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return model.Task{}, ErrorNotFound
	}

	removed := r.tasks[i]
	r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
	return removed, nil
}

func (r *TaskRepo) GetStats(ctx context.Context) (Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := Stats{
		ByPriority:      make(map[model.Priority]int, len(model.Priorities)),
		CompletedByDate: make(map[string]int),
	}
	for _, p := range model.Priorities {
		stats.ByPriority[p] = 0
	}

	for _, t := range r.tasks {
		stats.ByPriority[t.Prioridad]++
		if t.Completada {
			stats.CompletedByDate[t.FechaCreacion]++
		}
	}
	return stats, nil
}

func (r *TaskRepo) indexOf(id int64) int {
	for i, t := range r.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
