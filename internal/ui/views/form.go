package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/tasker/internal/models"
	"github.com/tgienger/tasker/internal/ui/keys"
	"github.com/tgienger/tasker/internal/ui/styles"
)

// form field focus order
const (
	fieldTitle = iota
	fieldDescription
	fieldPriority
	fieldCategory
	fieldDueDate
	fieldSave
	fieldCount
)

// FormSubmitted is sent when a valid form is saved. TaskID is empty for new tasks.
type FormSubmitted struct {
	TaskID string
	Input  models.TaskInput
}

// FormCancelled is sent when the form is dismissed without saving
type FormCancelled struct{}

// TaskForm edits the user supplied fields of a task
type TaskForm struct {
	styles *styles.Styles
	keys   keys.KeyMap
	width  int
	height int

	taskID   string
	title    textinput.Model
	desc     textarea.Model
	priority models.Priority
	category textinput.Model
	dueDate  textinput.Model
	focusIdx int
	errors   models.ValidationErrors
}

// NewTaskForm creates an empty form for a new task
func NewTaskForm() *TaskForm {
	title := textinput.New()
	title.Placeholder = "Task title"
	title.CharLimit = 200

	desc := textarea.New()
	desc.Placeholder = "Description"
	desc.CharLimit = 1000
	desc.SetWidth(50)
	desc.SetHeight(3)
	desc.ShowLineNumbers = false

	category := textinput.New()
	category.Placeholder = "e.g. Work"
	category.CharLimit = 60

	due := textinput.New()
	due.Placeholder = "YYYY-MM-DD"
	due.CharLimit = 10

	f := &TaskForm{
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		title:    title,
		desc:     desc,
		priority: models.PriorityMedium,
		category: category,
		dueDate:  due,
	}
	f.updateFocus()
	return f
}

// NewEditTaskForm creates a form prefilled from task
func NewEditTaskForm(task models.Task) *TaskForm {
	f := NewTaskForm()
	f.taskID = task.ID
	setInput(&f.title, task.Title)
	f.priority = task.Priority
	setInput(&f.category, task.Category)
	setInput(&f.dueDate, task.DueDate)

	// stored values may be longer than what the form allows typing
	if n := len(task.Description); n > f.desc.CharLimit {
		f.desc.CharLimit = n
	}
	f.desc.SetValue(task.Description)
	return f
}

func setInput(in *textinput.Model, value string) {
	if n := len(value); n > in.CharLimit {
		in.CharLimit = n
	}
	in.SetValue(value)
}

// Editing reports whether the form edits an existing task
func (f *TaskForm) Editing() bool {
	return f.taskID != ""
}

// Errors returns the validation errors from the last save attempt
func (f *TaskForm) Errors() models.ValidationErrors {
	return f.errors
}

// Input returns the current field values, trimmed
func (f *TaskForm) Input() models.TaskInput {
	return models.TaskInput{
		Title:       strings.TrimSpace(f.title.Value()),
		Description: strings.TrimSpace(f.desc.Value()),
		Priority:    f.priority,
		Category:    strings.TrimSpace(f.category.Value()),
		DueDate:     strings.TrimSpace(f.dueDate.Value()),
	}
}

// SetSize adapts the inputs to the terminal size
func (f *TaskForm) SetSize(width, height int) {
	f.width = width
	f.height = height
	f.desc.SetWidth(clamp(styles.ContentWidth(width)-10, 20, 50))
}

// Update handles key presses while the form is open
func (f *TaskForm) Update(msg tea.KeyMsg) (*TaskForm, tea.Cmd) {
	switch {
	case key.Matches(msg, f.keys.Back):
		return f, func() tea.Msg { return FormCancelled{} }

	case key.Matches(msg, f.keys.Save):
		return f, f.submit()

	case key.Matches(msg, f.keys.Tab):
		f.focusIdx = (f.focusIdx + 1) % fieldCount
		f.updateFocus()
		return f, nil

	case msg.String() == "shift+tab":
		f.focusIdx = (f.focusIdx + fieldCount - 1) % fieldCount
		f.updateFocus()
		return f, nil

	case key.Matches(msg, f.keys.Enter):
		switch f.focusIdx {
		case fieldSave:
			return f, f.submit()
		case fieldDescription:
			// newlines are allowed in the description
		default:
			f.focusIdx++
			f.updateFocus()
			return f, nil
		}
	}

	if f.focusIdx == fieldPriority {
		switch {
		case key.Matches(msg, f.keys.Left):
			f.priority = stepPriority(f.priority, -1)
		case key.Matches(msg, f.keys.Right), msg.String() == " ":
			f.priority = stepPriority(f.priority, 1)
		}
		return f, nil
	}

	var cmd tea.Cmd
	switch f.focusIdx {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldDescription:
		f.desc, cmd = f.desc.Update(msg)
	case fieldCategory:
		f.category, cmd = f.category.Update(msg)
	case fieldDueDate:
		f.dueDate, cmd = f.dueDate.Update(msg)
	}
	return f, cmd
}

// submit validates the fields; on success it emits FormSubmitted, otherwise
// the errors are shown next to each field and focus moves to the first one
func (f *TaskForm) submit() tea.Cmd {
	in := f.Input()
	f.errors = models.Validate(in)
	if len(f.errors) > 0 {
		for i, field := range []string{models.FieldTitle, models.FieldDescription, models.FieldPriority, models.FieldCategory, models.FieldDueDate} {
			if _, bad := f.errors[field]; bad {
				f.focusIdx = i
				break
			}
		}
		f.updateFocus()
		return nil
	}

	id := f.taskID
	return func() tea.Msg { return FormSubmitted{TaskID: id, Input: in} }
}

func (f *TaskForm) updateFocus() {
	f.title.Blur()
	f.desc.Blur()
	f.category.Blur()
	f.dueDate.Blur()

	switch f.focusIdx {
	case fieldTitle:
		f.title.Focus()
	case fieldDescription:
		f.desc.Focus()
	case fieldCategory:
		f.category.Focus()
	case fieldDueDate:
		f.dueDate.Focus()
	}
}

func stepPriority(p models.Priority, dir int) models.Priority {
	n := len(models.Priorities)
	for i, candidate := range models.Priorities {
		if candidate == p {
			return models.Priorities[(i+dir+n)%n]
		}
	}
	return models.PriorityMedium
}

// View renders the form
func (f *TaskForm) View() string {
	s := f.styles
	contentWidth := styles.ContentWidth(f.width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	heading := "New Task"
	if f.Editing() {
		heading = "Edit Task"
	}

	field := func(idx int, name, label, body string, width int) string {
		style := s.Input
		if _, bad := f.errors[name]; bad {
			style = s.InputError
		}
		if f.focusIdx == idx {
			style = s.InputFocused
		}
		if width > 0 {
			style = style.Width(width)
		}
		parts := []string{label, style.Render(body)}
		if msg, bad := f.errors[name]; bad {
			parts = append(parts, s.FieldError.Render(msg))
		}
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	var prios []string
	for _, p := range models.Priorities {
		if p == f.priority {
			prios = append(prios, s.ChipActive.Render(string(p)))
		} else {
			prios = append(prios, s.Chip.Render(string(p)))
		}
	}

	btnStyle := s.Button
	if f.focusIdx == fieldSave {
		btnStyle = s.ButtonFocused
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(heading),
		"",
		field(fieldTitle, models.FieldTitle, "Title *", f.title.View(), inputWidth),
		field(fieldDescription, models.FieldDescription, "Description *", f.desc.View(), 0),
		field(fieldPriority, models.FieldPriority, "Priority (←/→)", lipgloss.JoinHorizontal(lipgloss.Center, prios...), 0),
		field(fieldCategory, models.FieldCategory, "Category *", f.category.View(), inputWidth),
		field(fieldDueDate, models.FieldDueDate, "Due date *", f.dueDate.View(), 16),
		"",
		btnStyle.Render(" Save "),
		"",
		s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, f.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, f.width, f.height)
}
