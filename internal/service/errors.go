package service

import (
	"errors"
	"sort"
	"strings"

	dom "github.com/malusanacoza-ui/TodoListManager/internal/domain"
)

var (
	// ErrNotFound covers both a missing task and a task owned by someone else.
	ErrNotFound = errors.New("not found")
)

// ValidationError reports field-level problems with a task input. Input is
// the payload exactly as received, so the caller can show it again.
type ValidationError struct {
	Fields map[string]string
	Input  dom.Task
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + e.Fields[name]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidation reports whether err is a *ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
