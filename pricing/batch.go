package pricing

// ContractBatch holds N independent European option contracts as three
// parallel slices. Index i in each slice refers to the same contract.
type ContractBatch struct {
	Spot     []float64 // current price of the underlying
	Strike   []float64 // exercise price
	Maturity []float64 // time to expiry in years
}

// NewContractBatch allocates a zeroed batch of n contracts.
func NewContractBatch(n int) ContractBatch {
	return ContractBatch{
		Spot:     make([]float64, n),
		Strike:   make([]float64, n),
		Maturity: make([]float64, n),
	}
}

// Len returns the number of contracts. It assumes the batch is well formed;
// use Validate to check.
func (b ContractBatch) Len() int {
	return len(b.Spot)
}

// Slice returns the contracts in [from, to) sharing the underlying arrays.
func (b ContractBatch) Slice(from, to int) ContractBatch {
	return ContractBatch{
		Spot:     b.Spot[from:to],
		Strike:   b.Strike[from:to],
		Maturity: b.Maturity[from:to],
	}
}

// PriceBatch holds the call and put prices computed for a ContractBatch.
type PriceBatch struct {
	Call []float64
	Put  []float64
}

// NewPriceBatch allocates output slots for n contracts.
func NewPriceBatch(n int) PriceBatch {
	return PriceBatch{
		Call: make([]float64, n),
		Put:  make([]float64, n),
	}
}

// Len returns the number of priced contracts.
func (p PriceBatch) Len() int {
	return len(p.Call)
}

func (p PriceBatch) slice(from, to int) PriceBatch {
	return PriceBatch{Call: p.Call[from:to], Put: p.Put[from:to]}
}
