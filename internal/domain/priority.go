package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Priority is a closed, ordered enumeration: Low < Medium < High.
// The zero value means "not set" and is never valid on a stored task.
type Priority int8

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
)

// Priorities lists every valid value in ascending order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	}
	return ""
}

// ParsePriority accepts the lower-case names produced by String, case-insensitively.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	case "":
		return 0, nil
	}
	return 0, fmt.Errorf("priority: unknown value %q (want low, medium or high)", s)
}

func (p Priority) MarshalJSON() ([]byte, error) {
	if !p.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(p.String())
}

func (p *Priority) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("priority: must be a string")
	}
	if raw == nil {
		*p = 0
		return nil
	}
	v, err := ParsePriority(*raw)
	if err != nil {
		return err
	}
	*p = v
	return nil
}
