package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/momentum/journal"
)

func newRunsCmd(rc *RootConfig) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Query the SQLite signal journal",
		Long: `Query runs recorded by "momentum signals --db".

Subcommands:
  list  - List recent runs
  show  - Show one run as an Org-mode block

Examples:
  momentum runs list --db signals.db
  momentum runs show 01HQ... --db signals.db --rows`,
	}
	cmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "path to SQLite journal DB (defaults to journal.db_path)")

	open := func() (*journal.SQLiteJournal, error) {
		path := dbPath
		if path == "" {
			path = rc.Cfg.Journal.DBPath
		}
		if path == "" {
			return nil, fmt.Errorf("no journal: pass --db or set journal.db_path")
		}
		j, err := journal.NewSQLite(path)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		return j, nil
	}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := open()
			if err != nil {
				return err
			}
			defer j.Close()

			runs, err := j.ListRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("query runs: %w", err)
			}
			w := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RUN\tCREATED\tPAIR\tTF\tROWS\tENTER_LONG\tENTER_SHORT\tEXIT_LONG\tEXIT_SHORT")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
					r.RunID, r.Created.UTC().Format(time.RFC3339), r.Pair, r.Timeframe, r.Rows,
					r.EnterLong, r.EnterShort, r.ExitLong, r.ExitShort)
			}
			return w.Flush()
		},
	}
	list.Flags().IntVarP(&limit, "limit", "n", 20, "max runs to list (0 = all)")

	var withRows bool
	show := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := open()
			if err != nil {
				return err
			}
			defer j.Close()

			run, err := j.GetRun(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get run: %w", err)
			}
			org, err := journal.FormatRunOrg(run)
			if err != nil {
				return err
			}
			fmt.Fprint(out(cmd), org)

			if !withRows {
				return nil
			}
			rows, err := j.ListRows(cmd.Context(), run.RunID)
			if err != nil {
				return fmt.Errorf("query rows: %w", err)
			}
			fmt.Fprintln(out(cmd), "\n** Signal rows")
			fmt.Fprint(out(cmd), journal.FormatRowsOrg(rows))
			return nil
		},
	}
	show.Flags().BoolVar(&withRows, "rows", false, "include the rows that carry a signal")

	cmd.AddCommand(list, show)
	return cmd
}
