package journal

import "time"

// RunRecord summarises one benchmark run.
type RunRecord struct {
	RunID   string
	Created time.Time
	Source  string // "synthetic" or the contracts file that was priced

	Contracts  int
	Seed       uint64
	Rate       float64
	Volatility float64
	Workers    int
	Repeat     int

	// Wall clock per pricing pass
	Min    time.Duration
	Mean   time.Duration
	Median time.Duration
	P95    time.Duration
	Max    time.Duration

	MeanCall    float64
	MeanPut     float64
	ParityError float64 // max |call-put-(spot-strike*e^{-rT})| over the batch
}

// Throughput returns contracts priced per second at the mean pass time.
func (r RunRecord) Throughput() float64 {
	if r.Mean <= 0 {
		return 0
	}
	return float64(r.Contracts) / r.Mean.Seconds()
}

// QuoteRecord is one priced contract belonging to a run.
type QuoteRecord struct {
	RunID    string
	Index    int
	Spot     float64
	Strike   float64
	Maturity float64
	Call     float64
	Put      float64
}

type Journal interface {
	RecordRun(RunRecord) error
	RecordQuotes([]QuoteRecord) error
	Close() error
}
