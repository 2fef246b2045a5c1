package dto

import (
	"time"

	dom "github.com/malusanacoza-ui/TodoListManager/internal/domain"
)

// TaskRequest is the JSON body for creating or editing a task. Ownership and
// creation time are not part of it; any such keys in the payload are dropped.
type TaskRequest struct {
	// ID is optional on edit; when present it must match the id in the path.
	ID          int64        `json:"id,omitempty"`
	Title       string       `json:"title" example:"Buy milk"`
	Description string       `json:"description" example:"2 litres, semi-skimmed"`
	IsCompleted bool         `json:"is_completed"`
	IsPinned    bool         `json:"is_pinned"`
	Priority    dom.Priority `json:"priority" swaggertype:"string" enums:"low,medium,high"`
}

// ToDomain maps the request onto the domain entity.
func (r TaskRequest) ToDomain() dom.Task {
	return dom.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		IsCompleted: r.IsCompleted,
		IsPinned:    r.IsPinned,
		Priority:    r.Priority,
	}
}

// TaskRequestFromDomain is used to echo input back after a validation failure.
func TaskRequestFromDomain(t dom.Task) TaskRequest {
	return TaskRequest{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		IsCompleted: t.IsCompleted,
		IsPinned:    t.IsPinned,
		Priority:    t.Priority,
	}
}

type TaskResponse struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	IsCompleted bool         `json:"is_completed"`
	IsPinned    bool         `json:"is_pinned"`
	Priority    dom.Priority `json:"priority" swaggertype:"string" enums:"low,medium,high"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type ListTasksResponse struct {
	Items []TaskResponse `json:"items"`
}

// ValidationErrorResponse is returned with 422 when a task input is rejected.
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
	Input  TaskRequest       `json:"input"`
}

func TaskToResponse(t dom.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		IsCompleted: t.IsCompleted,
		IsPinned:    t.IsPinned,
		Priority:    t.Priority,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func TasksToResponses(list []dom.Task) []TaskResponse {
	out := make([]TaskResponse, len(list))
	for i := range list {
		out[i] = TaskToResponse(list[i])
	}
	return out
}
