// Package query фильтрует и постранично режет список задач по параметрам URL.
package query

import (
	"math"
	"strings"

	"github.com/BuzzLyutic/tasks-api/internal/model"
	"github.com/BuzzLyutic/tasks-api/internal/request"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// Ключи параметров запроса
const (
	KeyCompleted = "completada"
	KeyPriority  = "prioridad"
	KeySearch    = "q"
	KeyPage      = "pagina"
	KeyPageSize  = "limite"
)

type Filter struct {
	Completed *bool
	Priority  string
	Search    string
	Page      int
	PageSize  int
}

type Result struct {
	Total    int
	Page     int
	PageSize int
	Items    []model.Task
}

// ParseFilter строит фильтр из параметров запроса.
// Числа читаются по ведущим цифрам ("2.5" -> 2), без цифр или <= 0 берется значение по умолчанию
func ParseFilter(params map[string]string) Filter {
	f := Filter{
		Priority: params[KeyPriority],
		Search:   params[KeySearch],
		Page:     positiveOr(params[KeyPage], DefaultPage),
		PageSize: positiveOr(params[KeyPageSize], DefaultPageSize),
	}
	if v, ok := params[KeyCompleted]; ok {
		completed := v == "true" // любое другое значение - false
		f.Completed = &completed
	}
	return f
}

// Apply применяет фильтры по порядку (completada, prioridad, q), затем пагинацию
func Apply(tasks []model.Task, f Filter) Result {
	if f.Page <= 0 {
		f.Page = DefaultPage
	}
	if f.PageSize <= 0 {
		f.PageSize = DefaultPageSize
	}

	term := strings.ToLower(f.Search)
	matched := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Completed != nil && t.Completada != *f.Completed {
			continue
		}
		if f.Priority != "" && string(t.Prioridad) != f.Priority {
			continue
		}
		if term != "" && !t.Matches(term) {
			continue
		}
		matched = append(matched, t)
	}

	return Result{
		Total:    len(matched),
		Page:     f.Page,
		PageSize: f.PageSize,
		Items:    paginate(matched, f.Page, f.PageSize),
	}
}

func paginate(tasks []model.Task, page, size int) []model.Task {
	// сравнение до умножения, чтобы огромные page/size не переполнили int
	if page-1 > len(tasks)/size {
		return []model.Task{}
	}
	start := (page - 1) * size
	if start >= len(tasks) {
		return []model.Task{}
	}
	end := start + min(size, len(tasks)-start)
	return tasks[start:end]
}

func positiveOr(raw string, def int) int {
	n, ok := request.LeadingInt(raw)
	if !ok || n <= 0 {
		return def
	}
	if n > math.MaxInt {
		return math.MaxInt
	}
	return int(n)
}
