package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/tasker/internal/models"
)

type harness struct {
	t       *testing.T
	dataDir string
	backend string
}

func newHarness(t *testing.T, backend string) *harness {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("TASKER_STORAGE_KEY", "")
	return &harness{t: t, dataDir: t.TempDir(), backend: backend}
}

// run executes one tasker invocation and returns its stdout
func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--backend", h.backend, "--data-dir", h.dataDir, "--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run("", args...)
	require.NoError(h.t, err)
	return out
}

func (h *harness) add(title, category, priority, due string) string {
	h.t.Helper()
	out := h.mustRun("add",
		"--title", title,
		"--description", title+" notes",
		"--category", category,
		"--priority", priority,
		"--due", due,
	)
	require.True(h.t, strings.HasPrefix(out, "Created task "), out)
	return strings.TrimSpace(strings.TrimPrefix(out, "Created task "))
}

func (h *harness) listJSON(args ...string) []models.Task {
	h.t.Helper()
	out := h.mustRun(append([]string{"list", "--json"}, args...)...)
	var tasks []models.Task
	require.NoError(h.t, json.Unmarshal([]byte(out), &tasks))
	return tasks
}

func taskTitles(tasks []models.Task) []string {
	out := []string{}
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

func TestAddAndList(t *testing.T) {
	h := newHarness(t, "sqlite")

	id := h.add("Buy milk", "Errands", "low", "2020-03-09")
	assert.Len(t, id, 36)

	tasks := h.listJSON()
	require.Len(t, tasks, 1)
	assert.Equal(t, id, tasks[0].ID)
	assert.Equal(t, models.StatusPending, tasks[0].Status)
	assert.Equal(t, models.PriorityLow, tasks[0].Priority)

	out := h.mustRun("list")
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, id[:shortIDLen])
	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "(overdue)")
}

func TestAddDefaultsToMediumPriority(t *testing.T) {
	h := newHarness(t, "sqlite")
	h.mustRun("add", "--title", "t", "--description", "d", "--category", "c", "--due", "2030-01-01")

	tasks := h.listJSON()
	require.Len(t, tasks, 1)
	assert.Equal(t, models.PriorityMedium, tasks[0].Priority)
}

func TestAddRejectsInvalidInput(t *testing.T) {
	h := newHarness(t, "sqlite")

	_, err := h.run("", "add", "--description", "d", "--category", "c", "--due", "2026-13-45", "--priority", "urgent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title is required")
	assert.Contains(t, err.Error(), "due date must be YYYY-MM-DD")
	assert.Contains(t, err.Error(), "priority must be low, medium or high")

	assert.Empty(t, h.listJSON())
}

func TestListEmpty(t *testing.T) {
	h := newHarness(t, "sqlite")
	assert.Equal(t, "No tasks found.\n", h.mustRun("list"))
	assert.Empty(t, h.listJSON())
}

func TestListFilters(t *testing.T) {
	h := newHarness(t, "file")
	h.add("Buy milk", "Errands", "low", "2026-03-09")
	report := h.add("Quarterly report", "Work", "high", "2026-03-20")
	h.add("Call plumber", "Errands", "high", "2026-03-11")
	h.mustRun("status", report, "in-progress")

	assert.Equal(t, []string{"Quarterly report", "Call plumber"}, taskTitles(h.listJSON("--priority", "high")))
	assert.Equal(t, []string{"Buy milk", "Call plumber"}, taskTitles(h.listJSON("--category", "Errands")))
	assert.Equal(t, []string{"Quarterly report"}, taskTitles(h.listJSON("--status", "in-progress")))
	assert.Equal(t, []string{"Call plumber"}, taskTitles(h.listJSON("--search", "PLUMB")))
	assert.Equal(t, []string{"Call plumber"}, taskTitles(h.listJSON("--category", "Errands", "--priority", "high")))

	_, err := h.run("", "list", "--status", "done")
	assert.ErrorIs(t, err, models.ErrInvalidStatus)
	_, err = h.run("", "list", "--priority", "urgent")
	assert.ErrorIs(t, err, models.ErrInvalidPriority)
}

func TestShow(t *testing.T) {
	h := newHarness(t, "sqlite")
	id := h.add("Buy milk", "Errands", "low", "2026-03-09")

	out := h.mustRun("show", id[:6])
	assert.Contains(t, out, id)
	assert.Contains(t, out, "Buy milk notes")
	assert.Contains(t, out, "Errands")

	out = h.mustRun("show", id, "--json")
	var task models.Task
	require.NoError(t, json.Unmarshal([]byte(out), &task))
	assert.Equal(t, "Buy milk", task.Title)

	_, err := h.run("", "show", "nope")
	assert.EqualError(t, err, "task nope not found")
}

func TestUpdate(t *testing.T) {
	h := newHarness(t, "sqlite")
	id := h.add("Buy milk", "Errands", "low", "2026-03-09")

	h.mustRun("update", id, "--title", "Buy oat milk", "--status", "completed")

	tasks := h.listJSON()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy oat milk", tasks[0].Title)
	assert.Equal(t, models.StatusCompleted, tasks[0].Status)
	assert.Equal(t, "Errands", tasks[0].Category)
	assert.Equal(t, models.PriorityLow, tasks[0].Priority)
}

func TestUpdateRejectsBadInput(t *testing.T) {
	h := newHarness(t, "sqlite")
	id := h.add("Buy milk", "Errands", "low", "2026-03-09")

	_, err := h.run("", "update", id)
	assert.ErrorContains(t, err, "nothing to update")

	_, err = h.run("", "update", id, "--title", "  ")
	assert.ErrorContains(t, err, "title is required")

	_, err = h.run("", "update", id, "--status", "done")
	assert.ErrorIs(t, err, models.ErrInvalidStatus)

	_, err = h.run("", "update", "nope", "--title", "x")
	assert.ErrorContains(t, err, "not found")

	assert.Equal(t, "Buy milk", h.listJSON()[0].Title)
}

func TestStatus(t *testing.T) {
	h := newHarness(t, "sqlite")
	id := h.add("Buy milk", "Errands", "low", "2026-03-09")

	out := h.mustRun("status", id, "completed")
	assert.Equal(t, "Task "+id+" is now completed\n", out)
	assert.Equal(t, models.StatusCompleted, h.listJSON()[0].Status)

	_, err := h.run("", "status", id, "done")
	assert.ErrorIs(t, err, models.ErrInvalidStatus)
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	h := newHarness(t, "sqlite")
	id := h.add("Buy milk", "Errands", "low", "2026-03-09")

	out, err := h.run("n\n", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, `Delete "Buy milk"? [y/N]`)
	assert.Contains(t, out, "Aborted.")
	assert.Len(t, h.listJSON(), 1)

	out, err = h.run("y\n", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted task "+id)
	assert.Empty(t, h.listJSON())
}

func TestDeleteYes(t *testing.T) {
	h := newHarness(t, "sqlite")
	a := h.add("a", "x", "low", "2026-03-09")
	b := h.add("b", "x", "low", "2026-03-09")

	h.mustRun("delete", "--yes", a)

	tasks := h.listJSON()
	require.Len(t, tasks, 1)
	assert.Equal(t, b, tasks[0].ID)
}

func TestStats(t *testing.T) {
	h := newHarness(t, "sqlite")
	a := h.add("a", "x", "low", "2030-01-01")
	h.add("b", "x", "low", "2030-01-01")
	h.add("c", "x", "low", "2020-01-01")
	h.mustRun("status", a, "completed")

	out := h.mustRun("stats", "--json")
	var st statsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, statsOutput{Total: 3, Completed: 1, Pending: 2, Overdue: 1, CompletionRate: 33}, st)

	out = h.mustRun("stats")
	assert.Contains(t, out, "33%")
}

func TestCategories(t *testing.T) {
	h := newHarness(t, "sqlite")
	h.add("a", "Work", "low", "2030-01-01")
	h.add("b", "Errands", "low", "2030-01-01")
	h.add("c", "Work", "low", "2030-01-01")

	assert.Equal(t, "Errands\nWork\n", h.mustRun("categories"))
}

func TestExportImport(t *testing.T) {
	src := newHarness(t, "sqlite")
	src.add("a", "Work", "low", "2030-01-01")
	src.add("b", "Errands", "high", "2020-01-01")

	file := filepath.Join(t.TempDir(), "tasks.json")
	src.mustRun("export", "-o", file)

	dst := &harness{t: t, dataDir: t.TempDir(), backend: "file"}
	out := dst.mustRun("import", file)
	assert.Equal(t, "Imported 2 tasks\n", out)

	assert.Equal(t, src.listJSON(), dst.listJSON())
	assert.Equal(t, src.mustRun("export"), dst.mustRun("export"))
}

func TestImportFromStdin(t *testing.T) {
	h := newHarness(t, "sqlite")
	snapshot := `[{"id":"0b6f6a43-62a4-4d3c-9a4f-2f9f1a1de001","title":"Buy milk","description":"Two litres","priority":"low","status":"pending","category":"Errands","dueDate":"2026-03-09","createdAt":"2026-03-01T09:30:00.000Z","updatedAt":"2026-03-01T09:30:00.000Z"}]`

	_, err := h.run(snapshot, "import", "-")
	require.NoError(t, err)

	assert.Equal(t, []string{"Buy milk"}, taskTitles(h.listJSON()))
}

func TestImportRejectsInvalidSnapshot(t *testing.T) {
	h := newHarness(t, "sqlite")
	id := h.add("keep me", "x", "low", "2030-01-01")

	file := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(file, []byte(`[{"id":"1","status":"done"}]`), 0644))

	_, err := h.run("", "import", "--yes", file)
	assert.ErrorContains(t, err, "invalid snapshot")

	tasks := h.listJSON()
	require.Len(t, tasks, 1)
	assert.Equal(t, id, tasks[0].ID)
}

func TestImportRejectsUnknownStatus(t *testing.T) {
	h := newHarness(t, "sqlite")
	id := h.add("keep me", "x", "low", "2030-01-01")

	snapshot := `[{"id":"1","title":"t","description":"d","priority":"low","status":"done","category":"c","dueDate":"2026-01-01","createdAt":"2026-01-01T00:00:00Z","updatedAt":"2026-01-01T00:00:00Z"}]`
	_, err := h.run(snapshot, "import", "-")
	assert.ErrorIs(t, err, models.ErrInvalidStatus)

	tasks := h.listJSON()
	require.Len(t, tasks, 1)
	assert.Equal(t, id, tasks[0].ID)
}

func TestImportAsksBeforeReplacing(t *testing.T) {
	h := newHarness(t, "sqlite")
	h.add("keep me", "x", "low", "2030-01-01")

	file := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(file, []byte(`[]`), 0644))

	out, err := h.run("\n", "import", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted.")
	assert.Len(t, h.listJSON(), 1)

	h.mustRun("import", "-y", file)
	assert.Empty(t, h.listJSON())
}

func TestInvalidBackend(t *testing.T) {
	h := newHarness(t, "floppy")
	_, err := h.run("", "list")
	assert.ErrorContains(t, err, `invalid storage backend "floppy"`)
}

func TestMemoryBackendDoesNotPersist(t *testing.T) {
	h := newHarness(t, "memory")
	h.add("gone", "x", "low", "2030-01-01")
	assert.Empty(t, h.listJSON())
}
