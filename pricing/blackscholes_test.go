package pricing

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleBatch builds a deterministic spread of contracts inside the default
// generator ranges.
func sampleBatch(n int) ContractBatch {
	b := NewContractBatch(n)
	for i := 0; i < n; i++ {
		x := float64(i)
		b.Spot[i] = 10 + math.Mod(x*7.31, 40)
		b.Strike[i] = 10 + math.Mod(x*3.17+11, 40)
		b.Maturity[i] = 1 + math.Mod(x*0.137, 1)
	}
	return b
}

func TestPriceOne_ReferenceCase(t *testing.T) {
	t.Parallel()

	call, put, err := PriceOne(100, 100, 1, 0.05, 0.2)
	require.NoError(t, err)

	assert.InDelta(t, 10.4506, call, 1e-4)
	assert.InDelta(t, 5.5735, put, 1e-4)
}

func TestPriceOptions_PutCallParity(t *testing.T) {
	t.Parallel()

	const rate, vol = 0.1, 0.2
	b := sampleBatch(1024)

	p, err := PriceOptions(b, rate, vol)
	require.NoError(t, err)
	require.Equal(t, b.Len(), p.Len())
	require.Len(t, p.Put, b.Len())

	for i := range b.Spot {
		lhs := p.Call[i] - p.Put[i]
		rhs := b.Spot[i] - b.Strike[i]*math.Exp(-rate*b.Maturity[i])
		tol := 1e-9 * math.Max(1, math.Abs(rhs))
		assert.InDelta(t, rhs, lhs, tol, "index %d", i)
	}
}

func TestPriceOptions_MonotonicInSpot(t *testing.T) {
	t.Parallel()

	var b ContractBatch
	for s := 20.0; s <= 45.0; s += 0.5 {
		b.Spot = append(b.Spot, s)
		b.Strike = append(b.Strike, 30)
		b.Maturity = append(b.Maturity, 1.5)
	}

	p, err := PriceOptions(b, 0.1, 0.2)
	require.NoError(t, err)

	for i := 1; i < b.Len(); i++ {
		assert.Greater(t, p.Call[i], p.Call[i-1], "call at spot %v", b.Spot[i])
		assert.Less(t, p.Put[i], p.Put[i-1], "put at spot %v", b.Spot[i])
	}
}

func TestPriceOptions_VolatilityLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		spot   float64
		strike float64
	}{
		{"in the money call", 100, 90},
		{"in the money put", 80, 100},
	}

	const rate, mat, vol = 0.05, 1.0, 1e-6

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call, put, err := PriceOne(tt.spot, tt.strike, mat, rate, vol)
			require.NoError(t, err)

			disc := tt.strike * math.Exp(-rate*mat)
			assert.InDelta(t, math.Max(0, tt.spot-disc), call, 1e-6)
			assert.InDelta(t, math.Max(0, disc-tt.spot), put, 1e-6)
		})
	}
}

func TestPriceOptions_MaturityLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spot   float64
		strike float64
	}{
		{110, 100},
		{90, 100},
		{42, 17},
	}

	for _, tt := range tests {
		call, put, err := PriceOne(tt.spot, tt.strike, 1e-10, 0.1, 0.2)
		require.NoError(t, err)
		assert.InDelta(t, math.Max(0, tt.spot-tt.strike), call, 1e-6)
		assert.InDelta(t, math.Max(0, tt.strike-tt.spot), put, 1e-6)
	}
}

func TestPriceOptions_BatchIndependence(t *testing.T) {
	t.Parallel()

	b := sampleBatch(200)
	p, err := PriceOptions(b, 0.1, 0.2)
	require.NoError(t, err)

	for i := range b.Spot {
		call, put, err := PriceOne(b.Spot[i], b.Strike[i], b.Maturity[i], 0.1, 0.2)
		require.NoError(t, err)
		assert.Equal(t, p.Call[i], call)
		assert.Equal(t, p.Put[i], put)
	}
}

func TestPriceOptions_Deterministic(t *testing.T) {
	t.Parallel()

	b := sampleBatch(512)
	p1, err := PriceOptions(b, 0.1, 0.2)
	require.NoError(t, err)
	p2, err := PriceOptions(b, 0.1, 0.2)
	require.NoError(t, err)

	assert.Equal(t, p1, p2)
}

func TestPriceOptions_NegativeRate(t *testing.T) {
	t.Parallel()

	call, put, err := PriceOne(50, 50, 1, -0.01, 0.3)
	require.NoError(t, err)
	assert.Greater(t, call, 0.0)
	assert.Greater(t, put, call)
}

func TestPriceOptions_Empty(t *testing.T) {
	t.Parallel()

	p, err := PriceOptions(ContractBatch{}, 0.1, 0.2)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Len())
}

func TestPriceOptions_Validation(t *testing.T) {
	t.Parallel()

	good := sampleBatch(3)

	withSpot := func(v float64) ContractBatch {
		b := sampleBatch(3)
		b.Spot[1] = v
		return b
	}
	withStrike := func(v float64) ContractBatch {
		b := sampleBatch(3)
		b.Strike[2] = v
		return b
	}
	withMaturity := func(v float64) ContractBatch {
		b := sampleBatch(3)
		b.Maturity[0] = v
		return b
	}

	tests := []struct {
		name   string
		batch  ContractBatch
		rate   float64
		vol    float64
		target error
		errMsg string
	}{
		{"length mismatch", ContractBatch{Spot: good.Spot, Strike: good.Strike[:2], Maturity: good.Maturity}, 0.1, 0.2, ErrLengthMismatch, "strike=2"},
		{"zero spot", withSpot(0), 0.1, 0.2, ErrNonPositiveSpot, "contract 1"},
		{"negative spot", withSpot(-5), 0.1, 0.2, ErrNonPositiveSpot, "contract 1"},
		{"nan spot", withSpot(math.NaN()), 0.1, 0.2, ErrNonPositiveSpot, "contract 1"},
		{"zero strike", withStrike(0), 0.1, 0.2, ErrNonPositiveStrike, "contract 2"},
		{"inf strike", withStrike(math.Inf(1)), 0.1, 0.2, ErrNonPositiveStrike, "contract 2"},
		{"zero maturity", withMaturity(0), 0.1, 0.2, ErrNonPositiveMaturity, "contract 0"},
		{"zero volatility", good, 0.1, 0, ErrInvalidVolatility, "volatility 0"},
		{"negative volatility", good, 0.1, -0.2, ErrInvalidVolatility, ""},
		{"nan rate", good, math.NaN(), 0.2, ErrInvalidRate, ""},
		{"inf rate", good, math.Inf(-1), 0.2, ErrInvalidRate, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := PriceOptions(tt.batch, tt.rate, tt.vol)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
			if tt.errMsg != "" {
				assert.Contains(t, err.Error(), tt.errMsg)
			}
			assert.Nil(t, p.Call)
			assert.Nil(t, p.Put)
		})
	}
}

func TestPriceOptions_DomainError(t *testing.T) {
	t.Parallel()

	// exp(-rate*T) overflows for a hugely negative rate.
	b := sampleBatch(4)
	_, err := PriceOptions(b, -1000, 0.2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDomain)
	assert.Contains(t, err.Error(), "contract 0")
}

func TestPriceOptionsInto(t *testing.T) {
	t.Parallel()

	b := sampleBatch(16)
	want, err := PriceOptions(b, 0.1, 0.2)
	require.NoError(t, err)

	out := NewPriceBatch(16)
	require.NoError(t, PriceOptionsInto(b, 0.1, 0.2, out))
	assert.Equal(t, want, out)

	err = PriceOptionsInto(b, 0.1, 0.2, NewPriceBatch(15))
	assert.ErrorIs(t, err, ErrOutputLength)
}

func TestPriceOptionsParallel_MatchesSequential(t *testing.T) {
	t.Parallel()

	b := sampleBatch(10_000)
	want, err := PriceOptions(b, 0.1, 0.2)
	require.NoError(t, err)

	for _, workers := range []int{-1, 0, 1, 3, 8, 64} {
		got, err := PriceOptionsParallel(context.Background(), b, 0.1, 0.2, workers)
		require.NoError(t, err, "workers=%d", workers)
		assert.Equal(t, want, got, "workers=%d", workers)
	}
}

func TestPriceOptionsParallel_Errors(t *testing.T) {
	t.Parallel()

	t.Run("validation", func(t *testing.T) {
		b := sampleBatch(10)
		b.Maturity[7] = -1
		_, err := PriceOptionsParallel(context.Background(), b, 0.1, 0.2, 4)
		assert.ErrorIs(t, err, ErrNonPositiveMaturity)
	})

	t.Run("domain error carries global index", func(t *testing.T) {
		// 3000 contracts over 4 workers gives chunks starting at 0, 1024
		// and 2048; every contract overflows, so the first of some chunk fails.
		b := sampleBatch(3000)
		_, err := PriceOptionsParallel(context.Background(), b, -1000, 0.2, 4)
		require.ErrorIs(t, err, ErrDomain)

		m := regexp.MustCompile(`^contract (\d+): `).FindStringSubmatch(err.Error())
		require.Len(t, m, 2, err.Error())
		idx, err := strconv.Atoi(m[1])
		require.NoError(t, err)
		assert.Contains(t, []int{0, 1024, 2048}, idx)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := PriceOptionsParallel(ctx, sampleBatch(5000), 0.1, 0.2, 2)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func BenchmarkPriceOptions(b *testing.B) {
	batch := sampleBatch(100_000)
	out := NewPriceBatch(batch.Len())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := PriceOptionsInto(batch, 0.1, 0.2, out); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPriceOptionsParallel(b *testing.B) {
	batch := sampleBatch(100_000)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := PriceOptionsParallel(ctx, batch, 0.1, 0.2, 0); err != nil {
			b.Fatal(err)
		}
	}
}
