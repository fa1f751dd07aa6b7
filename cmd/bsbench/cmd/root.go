package cmd

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/rustyeddy/bsbench/config"
)

var (
	rootConfigPath string
	rootLogLevel   string
	rootDBPath     string
	rootLogFile    string

	// cfg is loaded before any subcommand runs.
	cfg *config.Config

	logFile *lumberjack.Logger
)

var rootCmd = &cobra.Command{
	Use:   "bsbench",
	Short: "Black-Scholes batch pricer and benchmark harness",
	Long: `bsbench prices batches of European options with the closed-form
Black-Scholes formula and times how fast it does it.

It provides tools for:
  - Generating seeded synthetic contract batches
  - Pricing a batch once and exporting the quotes
  - Benchmarking repeated pricing passes, sequential or parallel
  - Writing CPU profiles and Prometheus metrics for a run
  - Journaling runs to CSV or SQLite and querying them back`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "path to config file (YAML or JSON, optional)")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "", "log level: debug|info|warn|error (default $BSBENCH_LOG_LEVEL or info)")
	rootCmd.PersistentFlags().StringVar(&rootDBPath, "db", "", "SQLite journal database (overrides journal.db_path)")
	rootCmd.PersistentFlags().StringVar(&rootLogFile, "log-file", "", "also write logs to this rotating file (overrides log.file)")
}

func setup(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if rootConfigPath != "" {
		c, err := config.LoadFromFile(rootConfigPath)
		if err != nil {
			return err
		}
		cfg = c
	} else {
		cfg = config.Default()
	}

	if rootDBPath != "" {
		cfg.Journal.DBPath = rootDBPath
	}
	if rootLogFile != "" {
		cfg.Log.File = rootLogFile
	}
	if rootLogLevel != "" {
		cfg.Log.Level = rootLogLevel
	}

	setupLogging(cfg.Log)
	if rootConfigPath != "" {
		log.WithField("path", rootConfigPath).Debug("config loaded")
	}
	return nil
}

// setupLogging applies the level and output. An explicit level wins over
// $BSBENCH_LOG_LEVEL; anything unparsable falls back to info.
func setupLogging(lc config.LogConfig) {
	level := lc.Level
	if env := os.Getenv("BSBENCH_LOG_LEVEL"); env != "" && rootLogLevel == "" {
		level = env
	}

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}

	var out io.Writer = os.Stderr
	if lc.File != "" {
		logFile = &lumberjack.Logger{
			Filename:   lc.File,
			MaxSize:    lc.MaxSizeMB,
			MaxBackups: lc.MaxBackups,
			MaxAge:     lc.MaxAgeDays,
			Compress:   lc.Compress,
		}
		out = io.MultiWriter(os.Stderr, logFile)
	}

	log.SetOutput(out)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.SetLevel(log.InfoLevel)
		if level != "" {
			log.WithField("level", level).Warn("unknown log level, using info")
		}
		return
	}
	log.SetLevel(lvl)
}
