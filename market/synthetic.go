package market

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/rustyeddy/bsbench/pricing"
)

const (
	DefaultSeed      uint64 = 7777777
	DefaultBatchSize        = 100_000
	TestBatchSize           = 1024
)

// Ranges bounds the uniform draws for each contract attribute. Draws fall
// in [Low, High).
type Ranges struct {
	SpotLow      float64 `json:"spot_low" yaml:"spot_low"`
	SpotHigh     float64 `json:"spot_high" yaml:"spot_high"`
	StrikeLow    float64 `json:"strike_low" yaml:"strike_low"`
	StrikeHigh   float64 `json:"strike_high" yaml:"strike_high"`
	MaturityLow  float64 `json:"maturity_low" yaml:"maturity_low"`
	MaturityHigh float64 `json:"maturity_high" yaml:"maturity_high"`
}

func DefaultRanges() Ranges {
	return Ranges{
		SpotLow:      10.0,
		SpotHigh:     50.0,
		StrikeLow:    10.0,
		StrikeHigh:   50.0,
		MaturityLow:  1.0,
		MaturityHigh: 2.0,
	}
}

// Validate requires every range to be non-empty and strictly positive.
func (r Ranges) Validate() error {
	check := func(name string, lo, hi float64) error {
		if !(lo > 0) {
			return fmt.Errorf("%s low must be positive (got %v)", name, lo)
		}
		if !(hi > lo) {
			return fmt.Errorf("%s high must be greater than low (got %v..%v)", name, lo, hi)
		}
		return nil
	}
	if err := check("spot", r.SpotLow, r.SpotHigh); err != nil {
		return err
	}
	if err := check("strike", r.StrikeLow, r.StrikeHigh); err != nil {
		return err
	}
	return check("maturity", r.MaturityLow, r.MaturityHigh)
}

// Generate draws n synthetic contracts. The spot, strike and maturity
// series are drawn in that order from a single PCG stream seeded with seed,
// so the same seed always yields the same batch.
func Generate(n int, r Ranges, seed uint64) (pricing.ContractBatch, error) {
	if n < 0 {
		return pricing.ContractBatch{}, fmt.Errorf("generate: negative batch size %d", n)
	}
	if err := r.Validate(); err != nil {
		return pricing.ContractBatch{}, fmt.Errorf("generate: %w", err)
	}

	src := rand.NewPCG(seed, seed)
	b := pricing.NewContractBatch(n)

	fill(b.Spot, r.SpotLow, r.SpotHigh, src)
	fill(b.Strike, r.StrikeLow, r.StrikeHigh, src)
	fill(b.Maturity, r.MaturityLow, r.MaturityHigh, src)

	return b, nil
}

func fill(dst []float64, lo, hi float64, src rand.Source) {
	u := distuv.Uniform{Min: lo, Max: hi, Src: src}
	for i := range dst {
		dst[i] = u.Rand()
	}
}
