package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/bsbench/internal/bench"
	"github.com/rustyeddy/bsbench/market"
	"github.com/rustyeddy/bsbench/pricing"
)

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Price a batch of contracts once",
	Long: `Generate (or read) a batch of contracts, price every call and put once,
and print the first few quotes.

Examples:
  bsbench price
  bsbench price --size 1024 --show 20
  bsbench price --in contracts.csv --out quotes.csv`,
	Args: cobra.NoArgs,
	RunE: runPrice,
}

var (
	priceFlags batchFlags
	priceOut   string
	priceShow  int
)

func init() {
	rootCmd.AddCommand(priceCmd)

	priceFlags.register(priceCmd)
	priceCmd.Flags().StringVarP(&priceOut, "out", "o", "", "write quotes CSV to this path")
	priceCmd.Flags().IntVar(&priceShow, "show", 10, "number of quotes to print (-1 for all)")
}

func runPrice(cmd *cobra.Command, args []string) error {
	if err := priceFlags.apply(cmd, cfg); err != nil {
		return err
	}

	b, source, err := priceFlags.loadBatch(cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	var p pricing.PriceBatch
	if cfg.Bench.Workers == 1 {
		p, err = pricing.PriceOptions(b, cfg.Market.Rate, cfg.Market.Volatility)
	} else {
		p, err = pricing.PriceOptionsParallel(context.Background(), b, cfg.Market.Rate, cfg.Market.Volatility, cfg.Bench.Workers)
	}
	if err != nil {
		return fmt.Errorf("price: %w", err)
	}
	elapsed := time.Since(start)

	log.WithFields(log.Fields{
		"source":    source,
		"contracts": b.Len(),
		"elapsed":   elapsed,
	}).Info("batch priced")

	out := cmd.OutOrStdout()
	if priceShow != 0 {
		bench.PrintQuotes(out, b, p, priceShow)
	}
	fmt.Fprintf(out, "Priced %d contracts in %s (rate=%.4f vol=%.4f)\n",
		b.Len(), elapsed, cfg.Market.Rate, cfg.Market.Volatility)

	if priceOut != "" {
		fh, err := os.Create(priceOut)
		if err != nil {
			return fmt.Errorf("create quotes file: %w", err)
		}
		if err := market.WriteQuotesCSV(fh, b, p); err != nil {
			fh.Close()
			return err
		}
		if err := fh.Close(); err != nil {
			return err
		}
		fmt.Fprintf(out, "Quotes written to %s\n", priceOut)
	}
	return nil
}
