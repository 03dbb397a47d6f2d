package models

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DateLayout is the calendar date format used for due dates
const DateLayout = "2006-01-02"

var (
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidStatus   = errors.New("invalid status")
)

// Priority is the urgency of a task
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority from least to most urgent
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority converts user input into a Priority
func ParsePriority(s string) (Priority, error) {
	for _, p := range Priorities {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
}

// Status is the progress state of a task
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every status in workflow order
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// ParseStatus converts user input into a Status
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Next returns the status that follows s in the pending -> in-progress -> completed cycle
func (s Status) Next() Status {
	switch s {
	case StatusPending:
		return StatusInProgress
	case StatusInProgress:
		return StatusCompleted
	default:
		return StatusPending
	}
}

// Task represents a single task
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    Priority  `json:"priority"`
	Status      Status    `json:"status"`
	Category    string    `json:"category"`
	DueDate     string    `json:"dueDate"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Due parses the due date as midnight UTC
func (t Task) Due() (time.Time, bool) {
	return ParseDate(t.DueDate)
}

// Overdue reports whether the due date has passed and the task is not completed
func (t Task) Overdue(now time.Time) bool {
	if t.Status == StatusCompleted {
		return false
	}
	due, ok := t.Due()
	if !ok {
		return false
	}
	return due.Before(now)
}

// ParseDate parses a due date. Full RFC 3339 timestamps are accepted too.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if d, err := time.Parse(DateLayout, s); err == nil {
		return d, true
	}
	if d, err := time.Parse(time.RFC3339, s); err == nil {
		return d, true
	}
	return time.Time{}, false
}

// TaskInput holds the user supplied fields of a new task
type TaskInput struct {
	Title       string
	Description string
	Priority    Priority
	Category    string
	DueDate     string
}

// TaskUpdate holds a partial update; nil fields are left unchanged
type TaskUpdate struct {
	Title       *string
	Description *string
	Priority    *Priority
	Status      *Status
	Category    *string
	DueDate     *string
}

// IsEmpty reports whether the update changes no fields
func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Priority == nil &&
		u.Status == nil && u.Category == nil && u.DueDate == nil
}

// Apply copies the set fields of u onto t
func (u TaskUpdate) Apply(t *Task) {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.Category != nil {
		t.Category = *u.Category
	}
	if u.DueDate != nil {
		t.DueDate = *u.DueDate
	}
}

// UpdateFromInput builds an update that replaces every user editable field
func UpdateFromInput(in TaskInput) TaskUpdate {
	return TaskUpdate{
		Title:       &in.Title,
		Description: &in.Description,
		Priority:    &in.Priority,
		Category:    &in.Category,
		DueDate:     &in.DueDate,
	}
}

// Filter narrows a task listing. Empty fields are not applied.
type Filter struct {
	Status   Status
	Priority Priority
	Category string
	Search   string
}

// IsEmpty reports whether no criteria are set
func (f Filter) IsEmpty() bool {
	return f.Status == "" && f.Priority == "" && f.Category == "" && f.Search == ""
}

// Stats summarizes a task collection
type Stats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
	Pending    int `json:"pending"`
	Overdue    int `json:"overdue"`
}

// CompletionRate returns the rounded percentage of completed tasks
func (s Stats) CompletionRate() int {
	if s.Total == 0 {
		return 0
	}
	return int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
}
