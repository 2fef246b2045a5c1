package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	dom "github.com/malusanacoza-ui/TodoListManager/internal/domain"

	"github.com/go-playground/validator/v10"
)

// taskFields holds the client-editable fields that carry rules.
type taskFields struct {
	Title       string       `json:"title" validate:"required,max=200"`
	Description string       `json:"description" validate:"max=2000"`
	Priority    dom.Priority `json:"priority" validate:"required,priority"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		return dom.Priority(fl.Field().Int()).Valid()
	}); err != nil {
		panic(err)
	}
	return v
}

// normalizeTask trims free text the way it is stored.
func normalizeTask(t dom.Task) dom.Task {
	t.Title = strings.TrimSpace(t.Title)
	t.Description = strings.TrimSpace(t.Description)
	return t
}

// validateTask checks normalized against the task rules; raw is echoed back on failure.
func validateTask(normalized, raw dom.Task) error {
	err := validate.Struct(taskFields{
		Title:       normalized.Title,
		Description: normalized.Description,
		Priority:    normalized.Priority,
	})
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return &ValidationError{Fields: fields, Input: raw}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "priority":
		return "must be low, medium or high"
	}
	return "is invalid"
}
