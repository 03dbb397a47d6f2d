package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type statsOutput struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	InProgress     int `json:"inProgress"`
	Pending        int `json:"pending"`
	Overdue        int `json:"overdue"`
	CompletionRate int `json:"completionRate"`
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show task counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			st := a.Store.Stats()
			out := statsOutput{
				Total:          st.Total,
				Completed:      st.Completed,
				InProgress:     st.InProgress,
				Pending:        st.Pending,
				Overdue:        st.Overdue,
				CompletionRate: st.CompletionRate(),
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Total:\t%d\n", out.Total)
			fmt.Fprintf(w, "Completed:\t%d\n", out.Completed)
			fmt.Fprintf(w, "In progress:\t%d\n", out.InProgress)
			fmt.Fprintf(w, "Pending:\t%d\n", out.Pending)
			fmt.Fprintf(w, "Overdue:\t%d\n", out.Overdue)
			fmt.Fprintf(w, "Completion:\t%d%%\n", out.CompletionRate)
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newCategoriesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the categories in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			for _, c := range a.Store.Categories() {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}
