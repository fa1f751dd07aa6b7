package pricing

import (
	"fmt"
	"math"
)

// Validate checks the batch shape and that every contract attribute is
// strictly positive and finite.
func (b ContractBatch) Validate() error {
	n := len(b.Spot)
	if len(b.Strike) != n || len(b.Maturity) != n {
		return fmt.Errorf("%w (spot=%d strike=%d maturity=%d)",
			ErrLengthMismatch, n, len(b.Strike), len(b.Maturity))
	}

	for i := 0; i < n; i++ {
		if !positive(b.Spot[i]) {
			return fmt.Errorf("contract %d: spot %v: %w", i, b.Spot[i], ErrNonPositiveSpot)
		}
		if !positive(b.Strike[i]) {
			return fmt.Errorf("contract %d: strike %v: %w", i, b.Strike[i], ErrNonPositiveStrike)
		}
		if !positive(b.Maturity[i]) {
			return fmt.Errorf("contract %d: maturity %v: %w", i, b.Maturity[i], ErrNonPositiveMaturity)
		}
	}
	return nil
}

func validateMarket(rate, volatility float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return fmt.Errorf("rate %v: %w", rate, ErrInvalidRate)
	}
	if !positive(volatility) {
		return fmt.Errorf("volatility %v: %w", volatility, ErrInvalidVolatility)
	}
	return nil
}

func validate(b ContractBatch, rate, volatility float64, out PriceBatch) error {
	if err := validateMarket(rate, volatility); err != nil {
		return err
	}
	if err := b.Validate(); err != nil {
		return err
	}
	if len(out.Call) != b.Len() || len(out.Put) != b.Len() {
		return fmt.Errorf("%w (batch=%d call=%d put=%d)",
			ErrOutputLength, b.Len(), len(out.Call), len(out.Put))
	}
	return nil
}

// PriceOptions prices every contract in b as a European call and put under
// Black-Scholes with a flat risk-free rate and volatility.
//
// The inputs are validated before anything is computed. On error no prices
// are returned.
func PriceOptions(b ContractBatch, rate, volatility float64) (PriceBatch, error) {
	out := NewPriceBatch(b.Len())
	if err := PriceOptionsInto(b, rate, volatility, out); err != nil {
		return PriceBatch{}, err
	}
	return out, nil
}

// PriceOptionsInto is PriceOptions writing into caller supplied slots.
// out.Call and out.Put must both have the batch length. If an error is
// returned the contents of out are unspecified.
func PriceOptionsInto(b ContractBatch, rate, volatility float64, out PriceBatch) error {
	if err := validate(b, rate, volatility, out); err != nil {
		return err
	}
	return priceRange(b, rate, volatility, out, 0)
}

// PriceOne prices a single contract.
func PriceOne(spot, strike, maturity, rate, volatility float64) (call, put float64, err error) {
	b := ContractBatch{
		Spot:     []float64{spot},
		Strike:   []float64{strike},
		Maturity: []float64{maturity},
	}
	p, err := PriceOptions(b, rate, volatility)
	if err != nil {
		return 0, 0, err
	}
	return p.Call[0], p.Put[0], nil
}

// priceRange runs the kernel over an already validated batch. offset is the
// index of b's first contract in the caller's batch and only feeds errors.
//
// d1 and d2 are the normal CDF written through erf, and the put comes from
// put-call parity rather than a second mirrored evaluation.
func priceRange(b ContractBatch, rate, volatility float64, out PriceBatch, offset int) error {
	mr := -rate
	sigSigTwo := volatility * volatility * 2

	for i := range b.Spot {
		p := b.Spot[i]
		s := b.Strike[i]
		t := b.Maturity[i]

		a := math.Log(p / s)
		bb := t * mr

		z := t * sigSigTwo
		c := 0.25 * z
		y := 1 / math.Sqrt(z)

		w1 := (a - bb + c) * y
		w2 := (a - bb - c) * y

		d1 := 0.5 + 0.5*math.Erf(w1)
		d2 := 0.5 + 0.5*math.Erf(w2)

		se := math.Exp(bb) * s

		call := p*d1 - se*d2
		put := call - p + se
		if !finite(call) || !finite(put) {
			return fmt.Errorf("contract %d: call %v put %v: %w", offset+i, call, put, ErrDomain)
		}

		out.Call[i] = call
		out.Put[i] = put
	}
	return nil
}

func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
