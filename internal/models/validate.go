package models

import (
	"sort"
	"strings"
)

// Form field names used as ValidationErrors keys
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldPriority    = "priority"
	FieldCategory    = "category"
	FieldDueDate     = "dueDate"
)

// ValidationErrors maps a form field to the reason it was rejected
type ValidationErrors map[string]string

func (e ValidationErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, e[f])
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the required fields of a task form. The store does not call
// this; it is run by the TUI and CLI before handing input to the store.
func Validate(in TaskInput) ValidationErrors {
	errs := ValidationErrors{}

	if strings.TrimSpace(in.Title) == "" {
		errs[FieldTitle] = "title is required"
	}
	if strings.TrimSpace(in.Description) == "" {
		errs[FieldDescription] = "description is required"
	}
	if strings.TrimSpace(in.Category) == "" {
		errs[FieldCategory] = "category is required"
	}
	if _, err := ParsePriority(string(in.Priority)); err != nil {
		errs[FieldPriority] = "priority must be low, medium or high"
	}

	switch {
	case strings.TrimSpace(in.DueDate) == "":
		errs[FieldDueDate] = "due date is required"
	default:
		if _, ok := ParseDate(strings.TrimSpace(in.DueDate)); !ok {
			errs[FieldDueDate] = "due date must be YYYY-MM-DD"
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
