package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/tasker/internal/store"
	"github.com/tgienger/tasker/internal/ui/styles"
	"github.com/tgienger/tasker/internal/ui/views"
)

type storeReadyMsg struct{}

// App is the root model. It shows a spinner until the store has loaded and
// then hands everything to the task list.
type App struct {
	store    *store.Store
	settings views.Settings
	spinner  spinner.Model
	taskList *views.TaskListView
	width    int
	height   int
}

// Creates a new application
func NewApp(s *store.Store, settings views.Settings) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Current.Primary)

	return &App{
		store:    s,
		settings: settings,
		spinner:  sp,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.loadStore)
}

func (a *App) loadStore() tea.Msg {
	a.store.Load(context.Background())
	return storeReadyMsg{}
}

// Ready reports whether the task list is showing
func (a *App) Ready() bool {
	return a.taskList != nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case storeReadyMsg:
		a.taskList = views.NewTaskListView(a.store, a.settings)
		return a, tea.Batch(
			a.taskList.Init(),
			func() tea.Msg {
				return tea.WindowSizeMsg{Width: a.width, Height: a.height}
			},
		)

	case spinner.TickMsg:
		if a.taskList != nil {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if a.taskList == nil && (msg.String() == "ctrl+c" || msg.String() == "q") {
			return a, tea.Quit
		}
	}

	if a.taskList == nil {
		return a, nil
	}
	_, cmd := a.taskList.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	if a.taskList == nil {
		content := a.spinner.View() + " Loading tasks..."
		return styles.CenterView(content, a.width, a.height)
	}
	return a.taskList.View()
}
