package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/tgienger/tasker/internal/models"
	"github.com/tgienger/tasker/internal/store"
)

// shortIDLen is how much of an id the list output shows
const shortIDLen = 8

type taskFlags struct {
	title       string
	description string
	priority    string
	category    string
	due         string
}

func (f *taskFlags) register(cmd *cobra.Command, defaultPriority string) {
	cmd.Flags().StringVar(&f.title, "title", "", "Task title")
	cmd.Flags().StringVar(&f.description, "description", "", "Task description")
	cmd.Flags().StringVar(&f.priority, "priority", defaultPriority, "Priority: low, medium or high")
	cmd.Flags().StringVar(&f.category, "category", "", "Category")
	cmd.Flags().StringVar(&f.due, "due", "", "Due date (YYYY-MM-DD)")
}

func (f *taskFlags) input() models.TaskInput {
	return models.TaskInput{
		Title:       strings.TrimSpace(f.title),
		Description: strings.TrimSpace(f.description),
		Priority:    models.Priority(strings.ToLower(strings.TrimSpace(f.priority))),
		Category:    strings.TrimSpace(f.category),
		DueDate:     strings.TrimSpace(f.due),
	}
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	var flags taskFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := flags.input()
			if errs := models.Validate(in); errs != nil {
				return fmt.Errorf("invalid task: %w", errs)
			}

			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			task := a.Store.Create(in)
			if err := checkSaved(a.Store); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task %s\n", task.ID)
			return nil
		},
	}
	flags.register(cmd, string(models.PriorityMedium))
	return cmd
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var (
		status   string
		priority string
		category string
		search   string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long:    `List tasks, optionally narrowed by status, priority, category and a search term matched against title and description.`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := models.Filter{Category: category, Search: search}
			if status != "" {
				st, err := models.ParseStatus(status)
				if err != nil {
					return err
				}
				filter.Status = st
			}
			if priority != "" {
				p, err := models.ParsePriority(priority)
				if err != nil {
					return err
				}
				filter.Priority = p
			}

			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			tasks := a.Store.Filter(filter)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), tasks)
			}
			return printTaskTable(cmd.OutOrStdout(), tasks, time.Now())
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Only tasks with this status")
	cmd.Flags().StringVar(&priority, "priority", "", "Only tasks with this priority")
	cmd.Flags().StringVar(&category, "category", "", "Only tasks in this category")
	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive text search")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func printTaskTable(out io.Writer, tasks []models.Task, now time.Time) error {
	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tPRIORITY\tDUE\tCATEGORY\tTITLE")
	for _, t := range tasks {
		due := t.DueDate
		if t.Overdue(now) {
			due += " (overdue)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(t.ID),
			t.Status,
			t.Priority,
			due,
			t.Category,
			t.Title,
		)
	}
	return w.Flush()
}

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// resolveID finds the task whose id equals or uniquely starts with prefix
func resolveID(s *store.Store, prefix string) (models.Task, error) {
	if t, ok := s.Get(prefix); ok {
		return t, nil
	}

	var matches []models.Task
	for _, t := range s.Tasks() {
		if strings.HasPrefix(t.ID, prefix) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return models.Task{}, fmt.Errorf("task %s not found", prefix)
	case 1:
		return matches[0], nil
	default:
		return models.Task{}, fmt.Errorf("id %s matches %d tasks", prefix, len(matches))
	}
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			task, err := resolveID(a.Store, args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), task)
			}
			printTask(cmd.OutOrStdout(), task, time.Now())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func printTask(out io.Writer, t models.Task, now time.Time) {
	due := t.DueDate
	if d, ok := t.Due(); ok {
		due = fmt.Sprintf("%s (%s)", t.DueDate, humanize.RelTime(d, now, "ago", "from now"))
	}
	if t.Overdue(now) {
		due += ", overdue"
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", t.ID)
	fmt.Fprintf(w, "Title:\t%s\n", t.Title)
	fmt.Fprintf(w, "Description:\t%s\n", t.Description)
	fmt.Fprintf(w, "Status:\t%s\n", t.Status)
	fmt.Fprintf(w, "Priority:\t%s\n", t.Priority)
	fmt.Fprintf(w, "Category:\t%s\n", t.Category)
	fmt.Fprintf(w, "Due:\t%s\n", due)
	fmt.Fprintf(w, "Created:\t%s\n", t.CreatedAt.Local().Format(time.DateTime))
	fmt.Fprintf(w, "Updated:\t%s\n", t.UpdatedAt.Local().Format(time.DateTime))
	w.Flush()
}

func newUpdateCmd(opts *rootOptions) *cobra.Command {
	var (
		flags  taskFlags
		status string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a task",
		Long:  `Change the given fields of a task. Fields without a flag keep their value.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := flags.input()
			var u models.TaskUpdate
			if cmd.Flags().Changed("title") {
				u.Title = &in.Title
			}
			if cmd.Flags().Changed("description") {
				u.Description = &in.Description
			}
			if cmd.Flags().Changed("priority") {
				u.Priority = &in.Priority
			}
			if cmd.Flags().Changed("category") {
				u.Category = &in.Category
			}
			if cmd.Flags().Changed("due") {
				u.DueDate = &in.DueDate
			}
			if cmd.Flags().Changed("status") {
				st, err := models.ParseStatus(status)
				if err != nil {
					return err
				}
				u.Status = &st
			}
			if u.IsEmpty() {
				return fmt.Errorf("nothing to update; pass at least one field flag")
			}

			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			task, err := resolveID(a.Store, args[0])
			if err != nil {
				return err
			}

			// the edited task must still pass the same checks as a new one
			merged := task
			u.Apply(&merged)
			if errs := models.Validate(inputOf(merged)); errs != nil {
				return fmt.Errorf("invalid task: %w", errs)
			}

			a.Store.Update(task.ID, u)
			if err := checkSaved(a.Store); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", task.ID)
			return nil
		},
	}
	flags.register(cmd, "")
	cmd.Flags().StringVar(&status, "status", "", "Status: pending, in-progress or completed")
	return cmd
}

func inputOf(t models.Task) models.TaskInput {
	return models.TaskInput{
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Category:    t.Category,
		DueDate:     t.DueDate,
	}
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Set the status of a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := models.ParseStatus(args[1])
			if err != nil {
				return err
			}

			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			task, err := resolveID(a.Store, args[0])
			if err != nil {
				return err
			}
			a.Store.SetStatus(task.ID, st)
			if err := checkSaved(a.Store); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %s is now %s\n", task.ID, st)
			return nil
		},
	}
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			task, err := resolveID(a.Store, args[0])
			if err != nil {
				return err
			}

			if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete %q?", task.Title)) {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}

			a.Store.Delete(task.ID)
			if err := checkSaved(a.Store); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", task.ID)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")
	return cmd
}

// confirm asks a yes/no question; anything but y or yes is a no
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
