package bench

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"

	"github.com/rustyeddy/bsbench/pricing"
)

// RunnerOptions controls how the benchmark runner behaves.
type RunnerOptions struct {
	// Number of timed passes over the batch.
	Repeat int
	// 1 prices sequentially into a reused buffer, anything else goes through
	// the parallel pricer (0 = GOMAXPROCS).
	Workers int

	Logger  logrus.FieldLogger
	Metrics *Metrics
}

// Runner times repeated pricing passes over one batch.
type Runner struct {
	Batch      pricing.ContractBatch
	Rate       float64
	Volatility float64
	Options    RunnerOptions
}

// Result is the summary of a benchmark run.
type Result struct {
	Contracts int
	Workers   int
	Repeat    int

	Durations []time.Duration
	Min       time.Duration
	Mean      time.Duration
	Median    time.Duration
	P95       time.Duration
	Max       time.Duration

	MeanCall    float64
	MeanPut     float64
	ParityError float64

	// Prices from the last pass
	Prices pricing.PriceBatch
}

// Throughput returns contracts per second at the mean pass time.
func (r Result) Throughput() float64 {
	if r.Mean <= 0 {
		return 0
	}
	return float64(r.Contracts) / r.Mean.Seconds()
}

func (r *Runner) mode() string {
	if r.Options.Workers == 1 {
		return "sequential"
	}
	return "parallel"
}

// Run prices the batch Options.Repeat times and summarises the timings and
// the final prices. Any pricing error aborts the run.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if r.Options.Repeat <= 0 {
		return Result{}, errors.New("bench: Repeat must be positive")
	}
	if r.Options.Workers < 0 {
		return Result{}, errors.New("bench: Workers must not be negative")
	}

	log := r.Options.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithFields(logrus.Fields{
		"contracts": r.Batch.Len(),
		"workers":   r.Options.Workers,
		"mode":      r.mode(),
	})

	res := Result{
		Contracts: r.Batch.Len(),
		Workers:   r.Options.Workers,
		Repeat:    r.Options.Repeat,
		Durations: make([]time.Duration, 0, r.Options.Repeat),
	}

	out := pricing.NewPriceBatch(r.Batch.Len())
	for pass := 0; pass < r.Options.Repeat; pass++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		start := time.Now()
		prices, err := r.price(ctx, out)
		elapsed := time.Since(start)
		if err != nil {
			if r.Options.Metrics != nil {
				r.Options.Metrics.PassErrors.Inc()
			}
			return Result{}, fmt.Errorf("bench: pass %d: %w", pass, err)
		}

		res.Durations = append(res.Durations, elapsed)
		res.Prices = prices
		r.observe(elapsed)

		log.WithFields(logrus.Fields{
			"pass":    pass,
			"elapsed": elapsed,
		}).Debug("pricing pass complete")
	}

	if err := res.summarise(r.Batch, r.Rate); err != nil {
		return Result{}, err
	}

	log.WithFields(logrus.Fields{
		"mean":       res.Mean,
		"median":     res.Median,
		"parity":     res.ParityError,
		"throughput": fmt.Sprintf("%.0f/s", res.Throughput()),
	}).Info("benchmark complete")

	return res, nil
}

func (r *Runner) price(ctx context.Context, out pricing.PriceBatch) (pricing.PriceBatch, error) {
	if r.Options.Workers == 1 {
		if err := pricing.PriceOptionsInto(r.Batch, r.Rate, r.Volatility, out); err != nil {
			return pricing.PriceBatch{}, err
		}
		return out, nil
	}
	return pricing.PriceOptionsParallel(ctx, r.Batch, r.Rate, r.Volatility, r.Options.Workers)
}

func (r *Runner) observe(elapsed time.Duration) {
	m := r.Options.Metrics
	if m == nil {
		return
	}
	m.PassDuration.WithLabelValues(r.mode()).Observe(elapsed.Seconds())
	m.ContractsPriced.Add(float64(r.Batch.Len()))
	if elapsed > 0 {
		m.ContractsPerSec.Set(float64(r.Batch.Len()) / elapsed.Seconds())
	}
}

func (res *Result) summarise(b pricing.ContractBatch, rate float64) error {
	ns := make(stats.Float64Data, len(res.Durations))
	for i, d := range res.Durations {
		ns[i] = float64(d)
	}

	var err error
	pick := func(f func(stats.Float64Data) (float64, error)) time.Duration {
		if err != nil {
			return 0
		}
		var v float64
		v, err = f(ns)
		return time.Duration(math.Round(v))
	}
	res.Min = pick(stats.Min)
	res.Mean = pick(stats.Mean)
	res.Median = pick(stats.Median)
	res.P95 = pick(func(d stats.Float64Data) (float64, error) { return stats.PercentileNearestRank(d, 95) })
	res.Max = pick(stats.Max)
	if err != nil {
		return fmt.Errorf("bench: timing summary: %w", err)
	}

	if b.Len() == 0 {
		return nil
	}

	if res.MeanCall, err = stats.Mean(res.Prices.Call); err != nil {
		return fmt.Errorf("bench: price summary: %w", err)
	}
	if res.MeanPut, err = stats.Mean(res.Prices.Put); err != nil {
		return fmt.Errorf("bench: price summary: %w", err)
	}
	res.ParityError = ParityError(b, res.Prices, rate)
	return nil
}

// ParityError returns the largest deviation from put-call parity,
// |call - put - (spot - strike*e^{-rT})|, over the batch.
func ParityError(b pricing.ContractBatch, p pricing.PriceBatch, rate float64) float64 {
	worst := 0.0
	for i := range p.Call {
		want := b.Spot[i] - b.Strike[i]*math.Exp(-rate*b.Maturity[i])
		worst = math.Max(worst, math.Abs(p.Call[i]-p.Put[i]-want))
	}
	return worst
}
