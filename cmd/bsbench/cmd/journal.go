package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/bsbench/internal/bench"
	"github.com/rustyeddy/bsbench/journal"
	"github.com/rustyeddy/bsbench/pkg/id"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query benchmark runs from the SQLite journal",
	Long: `Query and display benchmark runs recorded in the SQLite journal.

Subcommands:
  list  - List the most recent runs as Org-mode blocks
  show  - Show one run, optionally with its journaled quotes

Examples:
  bsbench journal list --limit 5
  bsbench journal show 01HV3K9Q3M7Y4Z6W8X2B5N1P0R --quotes 20`,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	Args:  cobra.NoArgs,
	RunE:  runJournalList,
}

var journalShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a single run",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalShow,
}

var (
	journalLimit  int
	journalQuotes int
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalShowCmd)

	journalListCmd.Flags().IntVar(&journalLimit, "limit", 10, "maximum runs to list (0 for all)")
	journalShowCmd.Flags().IntVar(&journalQuotes, "quotes", 0, "print up to this many journaled quotes (-1 for all)")
}

func openSQLite() (*journal.SQLite, error) {
	j, err := journal.NewSQLite(cfg.Journal.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func runJournalList(cmd *cobra.Command, args []string) error {
	j, err := openSQLite()
	if err != nil {
		return err
	}
	defer j.Close()

	runs, err := j.ListRuns(journalLimit)
	if err != nil {
		return fmt.Errorf("query runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No runs in %s\n", cfg.Journal.DBPath)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatRunsOrg(runs))
	return nil
}

func runJournalShow(cmd *cobra.Command, args []string) error {
	runID := args[0]
	if _, err := id.Time(runID); err != nil {
		return fmt.Errorf("bad run id %q: %w", runID, err)
	}

	j, err := openSQLite()
	if err != nil {
		return err
	}
	defer j.Close()

	rec, err := j.GetRun(runID)
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}

	out := cmd.OutOrStdout()
	bench.PrintRun(out, rec)

	if journalQuotes == 0 {
		return nil
	}

	qs, err := j.ListQuotes(runID)
	if err != nil {
		return fmt.Errorf("query quotes: %w", err)
	}
	if len(qs) == 0 {
		fmt.Fprintln(out, "No quotes journaled for this run")
		return nil
	}
	b, p := bench.Batches(qs)
	bench.PrintQuotes(out, b, p, journalQuotes)
	return nil
}
