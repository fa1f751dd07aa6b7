package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/bsbench/config"
	"github.com/rustyeddy/bsbench/market"
	"github.com/rustyeddy/bsbench/pricing"
)

// batchFlags are shared by the commands that build and price a batch. A
// flag only overrides the config when it was set on the command line.
type batchFlags struct {
	in      string
	size    int
	seed    uint64
	rate    float64
	vol     float64
	workers int
}

func (f *batchFlags) register(cmd *cobra.Command) {
	d := config.Default()
	cmd.Flags().StringVar(&f.in, "in", "", "price contracts from this CSV (spot,strike,maturity; .gz or .xz ok) instead of generating")
	cmd.Flags().IntVarP(&f.size, "size", "n", d.Data.Size, "number of synthetic contracts")
	cmd.Flags().Uint64Var(&f.seed, "seed", d.Data.Seed, "random seed for synthetic contracts")
	cmd.Flags().Float64Var(&f.rate, "rate", d.Market.Rate, "risk-free rate")
	cmd.Flags().Float64Var(&f.vol, "vol", d.Market.Volatility, "volatility")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", d.Bench.Workers, "pricing goroutines (1 = sequential, 0 = GOMAXPROCS)")
}

func (f *batchFlags) apply(cmd *cobra.Command, c *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("size") {
		c.Data.Size = f.size
	}
	if flags.Changed("seed") {
		c.Data.Seed = f.seed
	}
	if flags.Changed("rate") {
		c.Market.Rate = f.rate
	}
	if flags.Changed("vol") {
		c.Market.Volatility = f.vol
	}
	if flags.Changed("workers") {
		c.Bench.Workers = f.workers
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// loadBatch reads the --in file or generates a synthetic batch. The second
// return value names where the contracts came from.
func (f *batchFlags) loadBatch(c *config.Config) (pricing.ContractBatch, string, error) {
	if f.in != "" {
		b, err := market.ReadContractsFile(f.in)
		if err != nil {
			return pricing.ContractBatch{}, "", err
		}
		log.WithFields(log.Fields{"path": f.in, "contracts": b.Len()}).Info("contracts loaded")
		return b, f.in, nil
	}

	b, err := market.Generate(c.Data.Size, c.Data.Ranges, c.Data.Seed)
	if err != nil {
		return pricing.ContractBatch{}, "", err
	}
	log.WithFields(log.Fields{"contracts": b.Len(), "seed": c.Data.Seed}).Debug("contracts generated")
	return b, "synthetic", nil
}
