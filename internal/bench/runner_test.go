package bench

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/bsbench/market"
	"github.com/rustyeddy/bsbench/pricing"
)

func testBatch(t *testing.T, n int) pricing.ContractBatch {
	t.Helper()

	b, err := market.Generate(n, market.DefaultRanges(), market.DefaultSeed)
	require.NoError(t, err)
	return b
}

func TestRunner_Run_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("missing repeat", func(t *testing.T) {
		t.Parallel()

		r := &Runner{Batch: testBatch(t, 8), Rate: 0.1, Volatility: 0.2}
		_, err := r.Run(ctx)
		require.Error(t, err)
		assert.Equal(t, "bench: Repeat must be positive", err.Error())
	})

	t.Run("negative workers", func(t *testing.T) {
		t.Parallel()

		r := &Runner{
			Batch:      testBatch(t, 8),
			Rate:       0.1,
			Volatility: 0.2,
			Options:    RunnerOptions{Repeat: 1, Workers: -1},
		}
		_, err := r.Run(ctx)
		require.Error(t, err)
		assert.Equal(t, "bench: Workers must not be negative", err.Error())
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		r := &Runner{
			Batch:      testBatch(t, 8),
			Rate:       0.1,
			Volatility: 0.2,
			Options:    RunnerOptions{Repeat: 2, Workers: 1},
		}
		_, err := r.Run(cctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	for _, workers := range []int{1, 0, 3} {
		b := testBatch(t, market.TestBatchSize)
		logger, hook := logtest.NewNullLogger()
		logger.SetLevel(logrus.DebugLevel)
		m := NewMetrics()

		r := &Runner{
			Batch:      b,
			Rate:       0.1,
			Volatility: 0.2,
			Options: RunnerOptions{
				Repeat:  3,
				Workers: workers,
				Logger:  logger,
				Metrics: m,
			},
		}

		res, err := r.Run(context.Background())
		require.NoError(t, err, "workers=%d", workers)

		assert.Equal(t, market.TestBatchSize, res.Contracts)
		assert.Equal(t, 3, res.Repeat)
		assert.Equal(t, workers, res.Workers)
		require.Len(t, res.Durations, 3)
		assert.LessOrEqual(t, res.Min, res.Median)
		assert.LessOrEqual(t, res.Median, res.Max)
		assert.LessOrEqual(t, res.P95, res.Max)
		assert.GreaterOrEqual(t, res.Mean, res.Min)

		want, err := pricing.PriceOptions(b, 0.1, 0.2)
		require.NoError(t, err)
		assert.Equal(t, want, res.Prices)
		assert.Greater(t, res.MeanCall, 0.0)
		assert.Greater(t, res.MeanPut, 0.0)
		assert.Less(t, res.ParityError, 1e-9)

		assert.Equal(t, float64(3*market.TestBatchSize), testutil.ToFloat64(m.ContractsPriced))
		assert.Equal(t, 0.0, testutil.ToFloat64(m.PassErrors))
		assert.Equal(t, 1, testutil.CollectAndCount(m.PassDuration))

		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, "benchmark complete", hook.LastEntry().Message)
		assert.Equal(t, fmt.Sprintf("%.0f/s", res.Throughput()), hook.LastEntry().Data["throughput"])
		assert.Len(t, hook.AllEntries(), 4) // three debug passes + summary
	}
}

func TestRunner_Run_PricingError(t *testing.T) {
	t.Parallel()

	b := testBatch(t, 16)
	b.Strike[5] = 0
	m := NewMetrics()
	logger, _ := logtest.NewNullLogger()

	r := &Runner{
		Batch:      b,
		Rate:       0.1,
		Volatility: 0.2,
		Options:    RunnerOptions{Repeat: 2, Workers: 1, Logger: logger, Metrics: m},
	}

	_, err := r.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, pricing.ErrNonPositiveStrike)
	assert.Contains(t, err.Error(), "bench: pass 0")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PassErrors))
}

func TestRunner_Run_EmptyBatch(t *testing.T) {
	t.Parallel()

	logger, _ := logtest.NewNullLogger()
	r := &Runner{
		Rate:       0.1,
		Volatility: 0.2,
		Options:    RunnerOptions{Repeat: 1, Workers: 1, Logger: logger},
	}
	res, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Contracts)
	assert.Equal(t, 0.0, res.MeanCall)
	assert.Equal(t, 0.0, res.Throughput())
}

func TestParityError(t *testing.T) {
	t.Parallel()

	b := testBatch(t, 4)
	p, err := pricing.PriceOptions(b, 0.1, 0.2)
	require.NoError(t, err)
	assert.Less(t, ParityError(b, p, 0.1), 1e-12)

	p.Put[2] += 0.5
	assert.InDelta(t, 0.5, ParityError(b, p, 0.1), 1e-9)
}

func TestMetrics_WriteTextfile(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	m.ContractsPriced.Add(42)
	m.PassDuration.WithLabelValues("sequential").Observe(0.002)

	path := filepath.Join(t.TempDir(), "bsbench.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "bsbench_contracts_priced_total 42")
	assert.Contains(t, string(data), `bsbench_pass_duration_seconds_count{mode="sequential"} 1`)
}

func TestStartCPUProfile(t *testing.T) {
	// Not parallel: only one CPU profile may run per process.
	stop, err := StartCPUProfile("")
	require.NoError(t, err)
	assert.NoError(t, stop())

	path := filepath.Join(t.TempDir(), "cpu.pprof")
	stop, err = StartCPUProfile(path)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, stop())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	_, err = StartCPUProfile(filepath.Join(t.TempDir(), "missing", "cpu.pprof"))
	assert.Error(t, err)
}

func TestPrintRun(t *testing.T) {
	t.Parallel()

	res := Result{
		Contracts:   1024,
		Workers:     1,
		Repeat:      3,
		Min:         time.Millisecond,
		Mean:        2 * time.Millisecond,
		Median:      2 * time.Millisecond,
		P95:         3 * time.Millisecond,
		Max:         3 * time.Millisecond,
		MeanCall:    7.5,
		MeanPut:     3.25,
		ParityError: 2e-15,
	}
	created := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	rec := res.Record("01J0000000000000000000000Z", created, "synthetic", 7777777, 0.1, 0.2)

	assert.Equal(t, res.Mean, rec.Mean)
	assert.Equal(t, uint64(7777777), rec.Seed)
	assert.Equal(t, res.Throughput(), rec.Throughput())

	var buf bytes.Buffer
	PrintRun(&buf, rec)
	out := buf.String()

	assert.Contains(t, out, "Benchmark Result")
	assert.Contains(t, out, "Run ID:        01J0000000000000000000000Z")
	assert.Contains(t, out, "Created:       2024-06-01T08:00:00Z")
	assert.Contains(t, out, "Contracts:     1024")
	assert.Contains(t, out, "Workers:       1 (sequential)")
	assert.Contains(t, out, "MEDIAN")
	assert.Contains(t, out, "512000")
	assert.Contains(t, out, "Mean Call:     7.500000")
	assert.Contains(t, out, "Parity Error:  2e-15")
}

func TestPrintQuotes(t *testing.T) {
	t.Parallel()

	b := testBatch(t, 5)
	p, err := pricing.PriceOptions(b, 0.1, 0.2)
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintQuotes(&buf, b, p, 2)
	assert.Contains(t, buf.String(), "STRIKE")
	assert.Contains(t, buf.String(), "... 3 more")

	qs := QuoteRecords("R", b, p)
	require.Len(t, qs, 5)
	assert.Equal(t, 4, qs[4].Index)
	assert.Equal(t, p.Put[4], qs[4].Put)

	gb, gp := Batches(qs)
	assert.Equal(t, b, gb)
	assert.Equal(t, p, gp)
}
