package service

import (
	"context"

	"github.com/BuzzLyutic/tasks-api/internal/model"
	"github.com/BuzzLyutic/tasks-api/internal/query"
	"github.com/BuzzLyutic/tasks-api/internal/repo"
)

type TaskService struct {
	repo repo.TaskRepository
}

func NewTaskService(repo repo.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// Create валидирует входной объект и сохраняет задачу с дефолтами:
// пустое описание, приоритет media, completada = false
func (s *TaskService) Create(ctx context.Context, c model.Candidate) (model.Task, error) {
	fields, errs := Validate(c)
	if len(errs) > 0 { // Ничего не сохраняем, если есть хоть одно нарушение
		return model.Task{}, &ValidationError{Messages: errs}
	}

	t := model.Task{
		Prioridad: model.PriorityMedium,
	}
	fields.Completada = nil // новая задача всегда не выполнена
	t.Apply(fields)

	return s.repo.Create(ctx, t)
}

func (s *TaskService) Get(ctx context.Context, id int64) (model.Task, error) {
	return s.repo.Get(ctx, id)
}

func (s *TaskService) List(ctx context.Context, filter query.Filter) (query.Result, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return query.Result{}, err
	}
	return query.Apply(tasks, filter), nil
}

// Count - число задач в хранилище
func (s *TaskService) Count(ctx context.Context) (int, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(tasks), nil
}

// Update накладывает переданные поля на текущую задачу и валидирует результат слияния,
// поэтому частичное обновление не может привести задачу в невалидное состояние
func (s *TaskService) Update(ctx context.Context, id int64, patch model.Candidate) (model.Task, error) {
	return s.repo.Update(ctx, id, func(current model.Task) (model.Task, error) {
		fields, errs := Validate(current.Candidate().Merge(patch))
		if len(errs) > 0 {
			return current, &ValidationError{Messages: errs}
		}
		current.Apply(fields)
		return current, nil
	})
}

func (s *TaskService) Delete(ctx context.Context, id int64) (model.Task, error) {
	return s.repo.Delete(ctx, id)
}

func (s *TaskService) GetStats(ctx context.Context) (repo.Stats, error) {
	return s.repo.GetStats(ctx)
}
