package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/bsbench/config"
	"github.com/rustyeddy/bsbench/internal/bench"
	"github.com/rustyeddy/bsbench/journal"
	"github.com/rustyeddy/bsbench/pkg/id"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Time repeated pricing passes over a batch",
	Long: `Price the same batch several times, report min/mean/median/p95/max pass
time and throughput, and journal the run.

Profiling:
  --cpuprofile writes a pprof CPU profile covering the timed passes
  --metrics-out writes Prometheus metrics in the text exposition format

Examples:
  bsbench bench
  bsbench bench --workers 0 --repeat 50
  bsbench bench --cpuprofile cpu.pprof && go tool pprof cpu.pprof
  bsbench bench --journal csv --quotes`,
	Args: cobra.NoArgs,
	RunE: runBench,
}

var (
	benchFlags      batchFlags
	benchRepeat     int
	benchCPUProfile string
	benchMetricsOut string
	benchJournal    string
	benchQuotes     bool
)

func init() {
	rootCmd.AddCommand(benchCmd)

	benchFlags.register(benchCmd)
	benchCmd.Flags().IntVarP(&benchRepeat, "repeat", "r", config.Default().Bench.Repeat, "number of timed passes")
	benchCmd.Flags().StringVar(&benchCPUProfile, "cpuprofile", "", "write a CPU profile to this path")
	benchCmd.Flags().StringVar(&benchMetricsOut, "metrics-out", "", "write Prometheus metrics to this path")
	benchCmd.Flags().StringVar(&benchJournal, "journal", "", "journal type: csv|sqlite|none (overrides journal.type)")
	benchCmd.Flags().BoolVar(&benchQuotes, "quotes", false, "also journal every priced contract")
}

func runBench(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("repeat") {
		cfg.Bench.Repeat = benchRepeat
	}
	if benchJournal != "" {
		cfg.Journal.Type = benchJournal
	}
	if err := benchFlags.apply(cmd, cfg); err != nil {
		return err
	}

	b, source, err := benchFlags.loadBatch(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	metrics := bench.NewMetrics()
	runner := &bench.Runner{
		Batch:      b,
		Rate:       cfg.Market.Rate,
		Volatility: cfg.Market.Volatility,
		Options: bench.RunnerOptions{
			Repeat:  cfg.Bench.Repeat,
			Workers: cfg.Bench.Workers,
			Logger:  log.StandardLogger(),
			Metrics: metrics,
		},
	}

	stopProfile, err := bench.StartCPUProfile(benchCPUProfile)
	if err != nil {
		return err
	}
	result, err := runner.Run(ctx)
	if perr := stopProfile(); perr != nil {
		log.WithError(perr).Error("closing cpu profile")
	}
	if err != nil {
		return err
	}

	rec := result.Record(id.New(), time.Now().UTC(), source, cfg.Data.Seed, cfg.Market.Rate, cfg.Market.Volatility)
	if source != "synthetic" {
		rec.Seed = 0
	}

	out := cmd.OutOrStdout()
	bench.PrintRun(out, rec)

	if benchMetricsOut != "" {
		if err := metrics.WriteTextfile(benchMetricsOut); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		fmt.Fprintf(out, "Metrics written to %s\n", benchMetricsOut)
	}
	if benchCPUProfile != "" {
		fmt.Fprintf(out, "CPU profile written to %s\n", benchCPUProfile)
	}

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	if j == nil {
		return nil
	}
	defer j.Close()

	if err := j.RecordRun(rec); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	if benchQuotes {
		if err := j.RecordQuotes(bench.QuoteRecords(rec.RunID, b, result.Prices)); err != nil {
			return fmt.Errorf("record quotes: %w", err)
		}
	}

	if cfg.Journal.Type == "csv" {
		fmt.Fprintf(out, "Run %s saved to:\n  - %s\n  - %s\n", rec.RunID, cfg.Journal.RunsFile, cfg.Journal.QuotesFile)
	} else {
		fmt.Fprintf(out, "Run %s saved to: %s\n", rec.RunID, cfg.Journal.DBPath)
	}
	return nil
}

// openJournal returns nil, nil for the "none" journal type.
func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	var (
		j   journal.Journal
		err error
	)
	switch jc.Type {
	case "csv":
		j, err = journal.NewCSV(jc.RunsFile, jc.QuotesFile)
	case "sqlite":
		j, err = journal.NewSQLite(jc.DBPath)
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown journal type %q", jc.Type)
	}
	if err != nil {
		return nil, err
	}
	return j, nil
}
