package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/BuzzLyutic/tasks-api/internal/model"
)

var ErrMalformedBody = errors.New("malformed body")

// Request - разобранный входящий запрос
type Request struct {
	Method string
	Path   string
	Query  map[string]string
	Body   []byte // nil, если тело пустое
}

// Parse читает тело целиком (не больше maxBody байт, 0 - без лимита)
func Parse(r *http.Request, maxBody int64) (Request, error) {
	req := Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  Flatten(r.URL.Query()),
	}
	if r.Body == nil {
		return req, nil
	}

	var body io.Reader = r.Body
	if maxBody > 0 {
		body = io.LimitReader(r.Body, maxBody+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return req, fmt.Errorf("%w: read: %v", ErrMalformedBody, err)
	}
	if maxBody > 0 && int64(len(data)) > maxBody {
		return req, fmt.Errorf("%w: body exceeds %d bytes", ErrMalformedBody, maxBody)
	}
	if len(data) > 0 {
		req.Body = data
	}
	return req, nil
}

// Flatten оставляет по одному значению на ключ: при повторах побеждает последнее
func Flatten(values url.Values) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[len(v)-1]
		}
	}
	return out
}

// Candidate разбирает тело как JSON-объект. Пустое тело дает пустой объект
func (r Request) Candidate() (model.Candidate, error) {
	trimmed := bytes.TrimSpace(r.Body)
	if len(trimmed) == 0 {
		return model.Candidate{}, nil
	}

	var c model.Candidate
	if err := json.Unmarshal(trimmed, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if c == nil { // литерал null
		return nil, fmt.Errorf("%w: expected object", ErrMalformedBody)
	}
	return c, nil
}

// LeadingInt читает целое из начала строки: пробелы, необязательный знак, цифры.
// Все после первой нецифры игнорируется ("2.5" -> 2, "1abc" -> 1).
// Значения за пределами int64 насыщаются
func LeadingInt(s string) (int64, bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")

	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}

	n, err := strconv.ParseUint(s[:end], 10, 64)
	if err != nil || n > math.MaxInt64 { // ошибка здесь возможна только при переполнении
		if neg {
			return math.MinInt64, true
		}
		return math.MaxInt64, true
	}
	if neg {
		return -int64(n), true
	}
	return int64(n), true
}
