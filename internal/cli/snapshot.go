package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tgienger/tasker/internal/models"
	"github.com/tgienger/tasker/internal/store"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the saved task snapshot",
		Long:  `Print the task collection as the JSON snapshot stored by the backend. The output can be read back with import.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			data, err := a.Store.Snapshot()
			if err != nil {
				return fmt.Errorf("encode tasks: %w", err)
			}

			if output != "" && output != "-" {
				if err := os.WriteFile(output, data, 0644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d tasks to %s\n", len(a.Store.Tasks()), output)
				return nil
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all tasks with a snapshot file",
		Long:  `Validate a JSON snapshot, as written by export or the browser version, and replace the stored tasks with it. Use - to read from stdin.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			tasks, err := store.Decode(data)
			if err == nil {
				err = checkImported(tasks)
			}
			if err != nil {
				return fmt.Errorf("invalid snapshot %s: %w", args[0], err)
			}

			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if n := len(a.Store.Tasks()); n > 0 && !yes && args[0] != "-" {
				if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Replace %d existing tasks?", n)) {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			a.Store.Replace(tasks)
			if err := checkSaved(a.Store); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks\n", len(tasks))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Replace existing tasks without asking")
	return cmd
}

// checkImported rejects priorities and statuses the app cannot display. The
// store itself accepts any value, so this only guards imports.
func checkImported(tasks []models.Task) error {
	for _, t := range tasks {
		if _, err := models.ParsePriority(string(t.Priority)); err != nil {
			return fmt.Errorf("task %s: %w", t.ID, err)
		}
		if _, err := models.ParseStatus(string(t.Status)); err != nil {
			return fmt.Errorf("task %s: %w", t.ID, err)
		}
	}
	return nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
