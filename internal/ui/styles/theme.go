package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/tasker/internal/models"
)

// Theme represents a color scheme for the application
type Theme struct {
	Name string

	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color
	Background    lipgloss.Color

	Primary lipgloss.Color
	Accent  lipgloss.Color

	// Semantic colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color
}

// TokyoNight is the default color theme
var TokyoNight = Theme{
	Name: "Tokyo Night",

	Foreground:    lipgloss.Color("#c0caf5"),
	ForegroundDim: lipgloss.Color("#565f89"),
	Background:    lipgloss.Color("#1a1b26"),

	Primary: lipgloss.Color("#7aa2f7"),
	Accent:  lipgloss.Color("#7dcfff"),

	Success: lipgloss.Color("#9ece6a"),
	Warning: lipgloss.Color("#e0af68"),
	Error:   lipgloss.Color("#f7768e"),
	Info:    lipgloss.Color("#7aa2f7"),

	Border:      lipgloss.Color("#3b4261"),
	BorderFocus: lipgloss.Color("#7aa2f7"),
	Selection:   lipgloss.Color("#33467c"),
}

// Current holds the active theme
var Current = TokyoNight

// MaxWidth is the maximum content width for the app
const MaxWidth = 90

// ContentWidth returns the smaller of the terminal width and MaxWidth
func ContentWidth(terminalWidth int) int {
	if terminalWidth > MaxWidth {
		return MaxWidth
	}
	return terminalWidth
}

// CenterView centers content horizontally when the terminal is wider than MaxWidth
func CenterView(content string, terminalWidth, terminalHeight int) string {
	if terminalWidth <= MaxWidth {
		return content
	}
	return lipgloss.Place(terminalWidth, terminalHeight,
		lipgloss.Center, lipgloss.Top,
		content,
	)
}

// Styles holds all the pre-computed styles for the UI
type Styles struct {
	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	ListItem     lipgloss.Style
	ListSelected lipgloss.Style

	Panel lipgloss.Style

	// Stats bar
	StatLabel lipgloss.Style
	StatValue lipgloss.Style

	// Filter chips
	Chip       lipgloss.Style
	ChipActive lipgloss.Style

	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonDanger  lipgloss.Style

	Input        lipgloss.Style
	InputFocused lipgloss.Style
	InputError   lipgloss.Style
	FieldError   lipgloss.Style

	Completed lipgloss.Style
	Overdue   lipgloss.Style

	Help    lipgloss.Style
	HelpKey lipgloss.Style

	StatusBar      lipgloss.Style
	StatusBarError lipgloss.Style
}

// NewStyles creates styles based on the current theme
func NewStyles() *Styles {
	t := Current

	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		TitleMuted: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		ListItem: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 2),

		ListSelected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Padding(0, 2).
			Bold(true),

		Panel: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border),

		StatLabel: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		StatValue: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Bold(true),

		Chip: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),

		ChipActive: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Accent).
			Padding(0, 1),

		Button: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 2),

		ButtonFocused: lipgloss.NewStyle().
			Foreground(t.Primary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 2).
			Bold(true),

		ButtonDanger: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Error).
			Padding(0, 2).
			Bold(true),

		Input: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		InputError: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Error).
			Padding(0, 1),

		FieldError: lipgloss.NewStyle().
			Foreground(t.Error),

		Completed: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Strikethrough(true),

		Overdue: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),

		Help: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(1, 2),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		StatusBar: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 2),

		StatusBarError: lipgloss.NewStyle().
			Foreground(t.Error).
			Padding(0, 2),
	}
}

// PriorityColor maps a priority to its badge color
func PriorityColor(p models.Priority) lipgloss.Color {
	switch p {
	case models.PriorityHigh:
		return Current.Error
	case models.PriorityMedium:
		return Current.Warning
	case models.PriorityLow:
		return Current.Success
	default:
		return Current.ForegroundDim
	}
}

// StatusColor maps a status to its glyph color
func StatusColor(s models.Status) lipgloss.Color {
	switch s {
	case models.StatusCompleted:
		return Current.Success
	case models.StatusInProgress:
		return Current.Info
	default:
		return Current.ForegroundDim
	}
}

// StatusGlyph returns the list marker for a status
func StatusGlyph(s models.Status) string {
	switch s {
	case models.StatusCompleted:
		return "✔"
	case models.StatusInProgress:
		return "▶"
	default:
		return "○"
	}
}
