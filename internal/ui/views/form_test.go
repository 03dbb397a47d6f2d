package views

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/tasker/internal/models"
)

func typeInto(f *TaskForm, s string) *TaskForm {
	for _, r := range s {
		f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return f
}

func TestTaskForm_Defaults(t *testing.T) {
	f := NewTaskForm()

	assert.False(t, f.Editing())
	assert.Equal(t, fieldTitle, f.focusIdx)
	assert.Equal(t, models.PriorityMedium, f.Input().Priority)
	assert.Contains(t, f.View(), "New Task")
}

func TestTaskForm_SaveEmptyShowsErrors(t *testing.T) {
	f := NewTaskForm()
	f.focusIdx = fieldDueDate
	f.updateFocus()

	f, cmd := f.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.Nil(t, cmd)
	errs := f.Errors()
	assert.Contains(t, errs, models.FieldTitle)
	assert.Contains(t, errs, models.FieldDescription)
	assert.Contains(t, errs, models.FieldCategory)
	assert.Contains(t, errs, models.FieldDueDate)
	assert.NotContains(t, errs, models.FieldPriority)

	// focus jumps back to the first invalid field
	assert.Equal(t, fieldTitle, f.focusIdx)
	assert.Contains(t, f.View(), "title is required")
}

func TestTaskForm_BadDueDate(t *testing.T) {
	task := models.Task{
		ID:          "t1",
		Title:       "Buy milk",
		Description: "Two litres",
		Priority:    models.PriorityLow,
		Category:    "Errands",
		DueDate:     "tomorrow",
	}
	f := NewEditTaskForm(task)

	f, cmd := f.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.Nil(t, cmd)
	assert.Equal(t, models.ValidationErrors{models.FieldDueDate: "due date must be YYYY-MM-DD"}, f.Errors())
	assert.Equal(t, fieldDueDate, f.focusIdx)
}

func TestTaskForm_EnterAdvancesAndSaves(t *testing.T) {
	f := NewTaskForm()
	f = typeInto(f, "Title")
	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, fieldDescription, f.focusIdx)

	// enter inserts a newline in the description
	f = typeInto(f, "line one")
	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	f = typeInto(f, "line two")
	assert.Equal(t, fieldDescription, f.focusIdx)
	assert.Equal(t, "line one\nline two", f.Input().Description)

	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyTab})
	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, fieldCategory, f.focusIdx)
	f = typeInto(f, "Work")
	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	f = typeInto(f, "2026-04-01")
	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, fieldSave, f.focusIdx)

	_, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	submitted, ok := cmd().(FormSubmitted)
	require.True(t, ok)
	assert.Equal(t, models.TaskInput{
		Title:       "Title",
		Description: "line one\nline two",
		Priority:    models.PriorityMedium,
		Category:    "Work",
		DueDate:     "2026-04-01",
	}, submitted.Input)
}

func TestTaskForm_PrioritySelector(t *testing.T) {
	f := NewTaskForm()
	f.focusIdx = fieldPriority
	f.updateFocus()

	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, models.PriorityHigh, f.Input().Priority)

	f, _ = f.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	assert.Equal(t, models.PriorityLow, f.Input().Priority)

	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	assert.Equal(t, models.PriorityHigh, f.Input().Priority)

	// other keys are ignored on the selector
	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Equal(t, models.PriorityHigh, f.Input().Priority)
	assert.Equal(t, "", f.Input().Title)
}

func TestTaskForm_ShiftTabWraps(t *testing.T) {
	f := NewTaskForm()

	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, fieldSave, f.focusIdx)

	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, fieldTitle, f.focusIdx)
}

func TestTaskForm_EditKeepsID(t *testing.T) {
	task := models.Task{
		ID:          "t1",
		Title:       "Buy milk",
		Description: "Two litres",
		Priority:    models.PriorityHigh,
		Category:    "Errands",
		DueDate:     "2026-03-09",
	}
	f := NewEditTaskForm(task)
	assert.True(t, f.Editing())
	assert.Contains(t, f.View(), "Edit Task")

	_, cmd := f.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	submitted := cmd().(FormSubmitted)
	assert.Equal(t, "t1", submitted.TaskID)
	assert.Equal(t, models.PriorityHigh, submitted.Input.Priority)
}

func TestTaskForm_EditKeepsLongValues(t *testing.T) {
	task := models.Task{
		ID:          "t1",
		Title:       strings.Repeat("t", 250),
		Description: strings.Repeat("a long line of notes\n", 75),
		Priority:    models.PriorityLow,
		Category:    strings.Repeat("c", 80),
		DueDate:     "2026-03-09T00:00:00Z",
	}
	f := NewEditTaskForm(task)

	in := f.Input()
	assert.Equal(t, task.Title, in.Title)
	assert.Equal(t, strings.TrimSpace(task.Description), in.Description)
	assert.Equal(t, task.Category, in.Category)
	assert.Equal(t, task.DueDate, in.DueDate)

	_, cmd := f.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	assert.Equal(t, "2026-03-09T00:00:00Z", cmd().(FormSubmitted).Input.DueDate)
}

func TestTaskForm_EscCancels(t *testing.T) {
	f := NewTaskForm()

	_, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, FormCancelled{}, cmd())
}
