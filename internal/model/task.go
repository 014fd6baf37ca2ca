package model

import "strings"

// DateLayout форматирует fechaCreacion
const DateLayout = "2006-01-02"

type Priority string

const (
	PriorityHigh   Priority = "alta"
	PriorityMedium Priority = "media"
	PriorityLow    Priority = "baja"
)

// Priorities в порядке отображения
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

type Task struct {
	ID            int64    `json:"id"`
	Titulo        string   `json:"titulo"`
	Descripcion   string   `json:"descripcion"`
	Prioridad     Priority `json:"prioridad"`
	Completada    bool     `json:"completada"`
	FechaCreacion string   `json:"fechaCreacion"`
}

// Candidate - сырой JSON-объект из тела запроса, еще не прошедший валидацию
type Candidate map[string]any

// TaskFields - провалидированные поля задачи. nil означает "поле не передано"
type TaskFields struct {
	Titulo      *string
	Descripcion *string
	Prioridad   *Priority
	Completada  *bool
}

// Candidate возвращает задачу в виде сырого объекта (для слияния при обновлении)
func (t Task) Candidate() Candidate {
	return Candidate{
		"titulo":      t.Titulo,
		"descripcion": t.Descripcion,
		"prioridad":   string(t.Prioridad),
		"completada":  t.Completada,
	}
}

// Merge накладывает переданные поля поверх текущих; исходный объект не меняется
func (c Candidate) Merge(patch Candidate) Candidate {
	merged := make(Candidate, len(c)+len(patch))
	for k, v := range c {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}
	return merged
}

// Apply переносит переданные поля в задачу. id и fechaCreacion не трогаются
func (t *Task) Apply(f TaskFields) {
	if f.Titulo != nil {
		t.Titulo = *f.Titulo
	}
	if f.Descripcion != nil {
		t.Descripcion = *f.Descripcion
	}
	if f.Prioridad != nil {
		t.Prioridad = *f.Prioridad
	}
	if f.Completada != nil {
		t.Completada = *f.Completada
	}
}

// Matches проверяет вхождение term (уже в нижнем регистре) в заголовок или описание
func (t Task) Matches(term string) bool {
	return strings.Contains(strings.ToLower(t.Titulo), term) ||
		strings.Contains(strings.ToLower(t.Descripcion), term)
}
