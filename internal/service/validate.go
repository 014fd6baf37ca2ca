package service

import (
	"errors"
	"strings"

	"github.com/BuzzLyutic/tasks-api/internal/model"
)

var (
	ErrValidation = errors.New("validation error")
)

// Сообщения валидации отдаются клиенту как есть
const (
	MsgInvalidTitle       = "Título inválido"
	MsgInvalidDescription = "Descripción inválida"
	MsgInvalidPriority    = "Prioridad inválida"
	MsgInvalidCompleted   = "Completada debe ser booleano"
)

// ValidationError несет все найденные нарушения
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation error: " + strings.Join(e.Messages, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Validate проверяет все правила сразу и возвращает типизированные поля
// или список нарушений. titulo обязателен, остальные поля опциональны
func Validate(c model.Candidate) (model.TaskFields, []string) {
	var (
		fields model.TaskFields
		errs   []string
	)

	if title, ok := c["titulo"].(string); ok && strings.TrimSpace(title) != "" {
		fields.Titulo = &title
	} else {
		errs = append(errs, MsgInvalidTitle)
	}

	if raw, present := c["descripcion"]; present {
		if desc, ok := raw.(string); ok {
			fields.Descripcion = &desc
		} else {
			errs = append(errs, MsgInvalidDescription)
		}
	}

	if raw, present := c["prioridad"]; present {
		s, _ := raw.(string)
		if p := model.Priority(s); p.Valid() {
			fields.Prioridad = &p
		} else {
			errs = append(errs, MsgInvalidPriority)
		}
	}

	if raw, present := c["completada"]; present {
		if done, ok := raw.(bool); ok {
			fields.Completada = &done
		} else {
			errs = append(errs, MsgInvalidCompleted)
		}
	}

	return fields, errs
}
