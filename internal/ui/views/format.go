package views

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/tgienger/tasker/internal/models"
	"github.com/tgienger/tasker/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// DueLabel describes a due date relative to now, e.g. "Mar 9, 2026 (2 days ago)"
func DueLabel(task models.Task, now time.Time) string {
	due, ok := task.Due()
	if !ok {
		if task.DueDate == "" {
			return "no due date"
		}
		return task.DueDate
	}
	return due.Format("Jan 2, 2006") + " (" + humanize.RelTime(due, now, "ago", "from now") + ")"
}

// PriorityBadge renders a priority in its color
func PriorityBadge(p models.Priority) string {
	return lipgloss.NewStyle().
		Foreground(styles.PriorityColor(p)).
		Render(strings.ToUpper(string(p)))
}

// StatusLabel renders the glyph and name of a status
func StatusLabel(s models.Status) string {
	return lipgloss.NewStyle().
		Foreground(styles.StatusColor(s)).
		Render(styles.StatusGlyph(s) + " " + string(s))
}

// cycle returns the element after cur in opts, with "" before the first and
// after the last element
func cycle[T ~string](opts []T, cur T) T {
	if cur == "" {
		if len(opts) == 0 {
			return ""
		}
		return opts[0]
	}
	for i, o := range opts {
		if o == cur {
			if i+1 < len(opts) {
				return opts[i+1]
			}
			return ""
		}
	}
	return ""
}
