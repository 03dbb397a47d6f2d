package views

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/tasker/internal/models"
	"github.com/tgienger/tasker/internal/store"
	"github.com/tgienger/tasker/internal/ui/keys"
	"github.com/tgienger/tasker/internal/ui/styles"
)

// Setting keys for the remembered filter
const (
	SettingFilterStatus   = "last_filter_status"
	SettingFilterPriority = "last_filter_priority"
	SettingFilterCategory = "last_filter_category"
)

// Settings persists the last used filter between sessions
type Settings interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

// FocusArea represents which part of the UI has focus
type FocusArea int

const (
	FocusTaskList FocusArea = iota
	FocusSearchInput
)

// TaskListView shows the filtered task list with stats and filter controls
type TaskListView struct {
	store    *store.Store
	settings Settings
	now      func() time.Time

	tasks      []models.Task
	stats      models.Stats
	categories []string
	filter     models.Filter

	styles *styles.Styles
	keys   keys.KeyMap
	width  int
	height int

	focus       FocusArea
	cursor      int
	scrollY     int
	searchInput textinput.Model

	form *TaskForm

	confirmingDelete bool
	deleteTargetID   string
	deleteTargetName string

	showHelpPopup bool
	notice        string
	settingsErr   error
}

// NewTaskListView creates the task list, restoring the last used filter
func NewTaskListView(s *store.Store, settings Settings) *TaskListView {
	search := textinput.New()
	search.Placeholder = "Search title or description..."
	search.CharLimit = 100

	v := &TaskListView{
		store:       s,
		settings:    settings,
		now:         time.Now,
		styles:      styles.NewStyles(),
		keys:        keys.DefaultKeyMap(),
		focus:       FocusTaskList,
		searchInput: search,
	}
	v.restoreFilter()
	return v
}

// Init loads the tasks
func (v *TaskListView) Init() tea.Cmd {
	return v.loadTasks()
}

// Filter returns the active filter
func (v *TaskListView) Filter() models.Filter {
	return v.filter
}

// Tasks returns the currently listed tasks
func (v *TaskListView) Tasks() []models.Task {
	return v.tasks
}

// Cursor returns the selected list index
func (v *TaskListView) Cursor() int {
	return v.cursor
}

type tasksLoadedMsg struct {
	filter     models.Filter
	tasks      []models.Task
	stats      models.Stats
	categories []string
}

// loadTasks queries the store with the filter as it is now, so a slow result
// can be matched against the filter that produced it.
func (v *TaskListView) loadTasks() tea.Cmd {
	f := v.filter
	return func() tea.Msg {
		return tasksLoadedMsg{
			filter:     f,
			tasks:      v.store.Filter(f),
			stats:      v.store.Stats(),
			categories: v.store.Categories(),
		}
	}
}

func (v *TaskListView) restoreFilter() {
	if v.settings == nil {
		return
	}
	if val, err := v.settings.GetSetting(SettingFilterStatus); err == nil {
		if st, err := models.ParseStatus(val); err == nil {
			v.filter.Status = st
		}
	}
	if val, err := v.settings.GetSetting(SettingFilterPriority); err == nil {
		if p, err := models.ParsePriority(val); err == nil {
			v.filter.Priority = p
		}
	}
	if val, err := v.settings.GetSetting(SettingFilterCategory); err == nil {
		v.filter.Category = val
	}
}

func (v *TaskListView) saveFilter() {
	if v.settings == nil {
		return
	}
	v.settingsErr = errors.Join(
		v.settings.SetSetting(SettingFilterStatus, string(v.filter.Status)),
		v.settings.SetSetting(SettingFilterPriority, string(v.filter.Priority)),
		v.settings.SetSetting(SettingFilterCategory, v.filter.Category),
	)
}

// Update handles messages
func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		if v.form != nil {
			v.form.SetSize(v.width, v.height)
		}
		return v, nil

	case tasksLoadedMsg:
		if msg.filter != v.filter {
			// superseded by a newer query
			return v, nil
		}
		v.tasks = msg.tasks
		v.stats = msg.stats
		v.categories = msg.categories
		if v.cursor >= len(v.tasks) {
			v.cursor = max(0, len(v.tasks)-1)
		}
		v.ensureVisible()
		return v, nil

	case FormSubmitted:
		if msg.TaskID == "" {
			task := v.store.Create(msg.Input)
			v.notice = fmt.Sprintf("Created %q", task.Title)
		} else {
			v.store.Update(msg.TaskID, models.UpdateFromInput(msg.Input))
			v.notice = fmt.Sprintf("Updated %q", msg.Input.Title)
		}
		v.form = nil
		return v, v.loadTasks()

	case FormCancelled:
		v.form = nil
		return v, nil

	case tea.KeyMsg:
		// any key closes the help popup
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}

		if v.form != nil {
			var cmd tea.Cmd
			v.form, cmd = v.form.Update(msg)
			return v, cmd
		}

		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Don't process hotkeys while typing a search
	if v.focus == FocusSearchInput {
		switch {
		case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Enter), key.Matches(msg, v.keys.Tab):
			v.searchInput.Blur()
			v.focus = FocusTaskList
			return v, nil
		default:
			var cmd tea.Cmd
			v.searchInput, cmd = v.searchInput.Update(msg)
			v.filter.Search = strings.TrimSpace(v.searchInput.Value())
			v.cursor = 0
			v.scrollY = 0
			return v, tea.Batch(cmd, v.loadTasks())
		}
	}

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Search), key.Matches(msg, v.keys.Tab):
		v.focus = FocusSearchInput
		v.searchInput.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Back):
		if v.filter.Search != "" {
			v.searchInput.Reset()
			v.filter.Search = ""
			return v, v.loadTasks()
		}
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.tasks)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.form = NewTaskForm()
		v.form.SetSize(v.width, v.height)
		v.notice = ""
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Edit), key.Matches(msg, v.keys.Enter):
		if task, ok := v.selected(); ok {
			v.form = NewEditTaskForm(task)
			v.form.SetSize(v.width, v.height)
			v.notice = ""
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		if task, ok := v.selected(); ok {
			v.confirmingDelete = true
			v.deleteTargetID = task.ID
			v.deleteTargetName = task.Title
		}
		return v, nil

	case key.Matches(msg, v.keys.CycleStatus):
		if task, ok := v.selected(); ok {
			v.store.SetStatus(task.ID, task.Status.Next())
			return v, v.loadTasks()
		}
		return v, nil

	case key.Matches(msg, v.keys.FilterStatus):
		v.filter.Status = cycle(models.Statuses, v.filter.Status)
		return v, v.filterChanged()

	case key.Matches(msg, v.keys.FilterPrio):
		v.filter.Priority = cycle(models.Priorities, v.filter.Priority)
		return v, v.filterChanged()

	case key.Matches(msg, v.keys.FilterCat):
		v.filter.Category = cycle(v.categories, v.filter.Category)
		return v, v.filterChanged()

	case key.Matches(msg, v.keys.ClearFilters):
		v.filter = models.Filter{}
		v.searchInput.Reset()
		return v, v.filterChanged()

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil
	}

	return v, nil
}

func (v *TaskListView) filterChanged() tea.Cmd {
	v.cursor = 0
	v.scrollY = 0
	v.saveFilter()
	return v.loadTasks()
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.store.Delete(v.deleteTargetID)
		v.notice = fmt.Sprintf("Deleted %q", v.deleteTargetName)
		v.confirmingDelete = false
		return v, v.loadTasks()
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *TaskListView) selected() (models.Task, bool) {
	if len(v.tasks) == 0 || v.cursor >= len(v.tasks) {
		return models.Task{}, false
	}
	return v.tasks[v.cursor], true
}

func (v *TaskListView) visibleItems() int {
	// Each task item is 2 lines + 1 margin; header, stats and help take ~14
	return max((v.height-14)/3, 1)
}

func (v *TaskListView) ensureVisible() {
	visible := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}
}

// View renders the view
func (v *TaskListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}
	if v.form != nil {
		return v.form.View()
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		v.renderStats(),
		"",
		v.renderFilters(),
		"",
		v.renderTaskList(),
		v.renderStatusBar(),
		v.renderHelp(),
	)
	return styles.CenterView(content, v.width, v.height)
}

func (v *TaskListView) renderStats() string {
	s := v.styles
	stat := func(label string, value int, style lipgloss.Style) string {
		return s.StatLabel.Render(label+" ") + style.Render(fmt.Sprintf("%d", value))
	}

	overdueStyle := s.StatValue
	if v.stats.Overdue > 0 {
		overdueStyle = s.Overdue
	}

	line := strings.Join([]string{
		stat("Total", v.stats.Total, s.StatValue),
		stat("Completed", v.stats.Completed, s.StatValue.Foreground(styles.Current.Success)),
		stat("In progress", v.stats.InProgress, s.StatValue.Foreground(styles.Current.Info)),
		stat("Pending", v.stats.Pending, s.StatValue.Foreground(styles.Current.Warning)),
		stat("Overdue", v.stats.Overdue, overdueStyle),
		s.StatLabel.Render(fmt.Sprintf("%d%% done", v.stats.CompletionRate())),
	}, "  ")

	return lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Tasks"),
		s.Panel.Render(line),
	)
}

func (v *TaskListView) renderFilters() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	searchStyle := s.Input
	if v.focus == FocusSearchInput {
		searchStyle = s.InputFocused
	}
	searchBox := searchStyle.Width(clamp(contentWidth-8, 10, 40)).Render(v.searchInput.View())

	chip := func(label, value string) string {
		if value == "" {
			return s.Chip.Render(label + ": all")
		}
		return s.ChipActive.Render(label + ": " + value)
	}

	chips := lipgloss.JoinHorizontal(lipgloss.Center,
		chip("status", string(v.filter.Status)), " ",
		chip("priority", string(v.filter.Priority)), " ",
		chip("category", v.filter.Category),
	)

	return lipgloss.JoinVertical(lipgloss.Left, searchBox, chips)
}

func (v *TaskListView) renderTaskList() string {
	s := v.styles

	if len(v.tasks) == 0 {
		if v.stats.Total == 0 {
			return s.TitleMuted.Render("No tasks yet. Press 'n' to create one.")
		}
		return s.TitleMuted.Render("No tasks match the current filters. Press 'x' to clear them.")
	}

	var items []string
	endIdx := min(v.scrollY+v.visibleItems(), len(v.tasks))
	for i := v.scrollY; i < endIdx; i++ {
		items = append(items, v.renderTaskItem(v.tasks[i], i == v.cursor && v.focus == FocusTaskList))
	}

	header := s.TitleMuted.Render(fmt.Sprintf("%d of %d tasks", len(v.tasks), v.stats.Total))
	return lipgloss.JoinVertical(lipgloss.Left, append([]string{header}, items...)...)
}

func (v *TaskListView) renderTaskItem(task models.Task, selected bool) string {
	s := v.styles
	width := max(styles.ContentWidth(v.width)-4, 20)
	now := v.now()

	title := task.Title
	if task.Status == models.StatusCompleted {
		title = s.Completed.Render(title)
	}
	titleLine := title + "  " + PriorityBadge(task.Priority)

	due := DueLabel(task, now)
	if task.Overdue(now) {
		due = s.Overdue.Render("overdue · " + due)
	}
	metaLine := StatusLabel(task.Status) + s.TitleMuted.Render(" · "+task.Category+" · ") + due

	itemStyle := s.ListItem
	if selected {
		itemStyle = s.ListSelected
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		itemStyle.Width(width).Render(titleLine),
		itemStyle.Width(width).Render(metaLine),
	) + "\n"
}

func (v *TaskListView) renderStatusBar() string {
	if err := v.store.LastSaveError(); err != nil {
		return v.styles.StatusBarError.Render("Not saved: " + err.Error())
	}
	if v.settingsErr != nil {
		return v.styles.StatusBarError.Render("Filter not remembered: " + v.settingsErr.Error())
	}
	return v.styles.StatusBar.Render(v.notice)
}

func (v *TaskListView) renderHelp() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth > 0 && contentWidth < 60 {
		return s.Help.Render(s.HelpKey.Render("?") + " help")
	}

	return s.Help.Render(
		fmt.Sprintf("%s new • %s edit • %s del • %s status • %s search • %s/%s/%s filter • %s clear • %s quit",
			s.HelpKey.Render("n"),
			s.HelpKey.Render("e"),
			s.HelpKey.Render("d"),
			s.HelpKey.Render("space"),
			s.HelpKey.Render("/"),
			s.HelpKey.Render("s"),
			s.HelpKey.Render("p"),
			s.HelpKey.Render("c"),
			s.HelpKey.Render("x"),
			s.HelpKey.Render("q"),
		),
	)
}

func (v *TaskListView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	helpItems := []string{
		s.HelpKey.Render("n") + "      new task",
		s.HelpKey.Render("e/↵") + "    edit task",
		s.HelpKey.Render("d") + "      delete task",
		s.HelpKey.Render("space") + "  next status",
		s.HelpKey.Render("/") + "      search",
		s.HelpKey.Render("s") + "      filter by status",
		s.HelpKey.Render("p") + "      filter by priority",
		s.HelpKey.Render("c") + "      filter by category",
		s.HelpKey.Render("x") + "      clear filters",
		s.HelpKey.Render("q") + "      quit",
		"",
		s.TitleMuted.Render("Press any key to close"),
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Panel.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Task?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("%q will be removed permanently.", v.deleteTargetName)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonDanger.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}
