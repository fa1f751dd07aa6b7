package bench

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/rustyeddy/bsbench/journal"
	"github.com/rustyeddy/bsbench/pricing"
)

// Record converts a result into a journal row.
func (r Result) Record(runID string, created time.Time, source string, seed uint64, rate, volatility float64) journal.RunRecord {
	return journal.RunRecord{
		RunID:       runID,
		Created:     created,
		Source:      source,
		Contracts:   r.Contracts,
		Seed:        seed,
		Rate:        rate,
		Volatility:  volatility,
		Workers:     r.Workers,
		Repeat:      r.Repeat,
		Min:         r.Min,
		Mean:        r.Mean,
		Median:      r.Median,
		P95:         r.P95,
		Max:         r.Max,
		MeanCall:    r.MeanCall,
		MeanPut:     r.MeanPut,
		ParityError: r.ParityError,
	}
}

// QuoteRecords pairs each contract with its prices for journaling.
func QuoteRecords(runID string, b pricing.ContractBatch, p pricing.PriceBatch) []journal.QuoteRecord {
	out := make([]journal.QuoteRecord, 0, p.Len())
	for i := range p.Call {
		out = append(out, journal.QuoteRecord{
			RunID:    runID,
			Index:    i,
			Spot:     b.Spot[i],
			Strike:   b.Strike[i],
			Maturity: b.Maturity[i],
			Call:     p.Call[i],
			Put:      p.Put[i],
		})
	}
	return out
}

// Batches rebuilds the contract and price batches from journaled quotes,
// in the order given.
func Batches(qs []journal.QuoteRecord) (pricing.ContractBatch, pricing.PriceBatch) {
	b := pricing.NewContractBatch(len(qs))
	p := pricing.NewPriceBatch(len(qs))
	for i, q := range qs {
		b.Spot[i], b.Strike[i], b.Maturity[i] = q.Spot, q.Strike, q.Maturity
		p.Call[i], p.Put[i] = q.Call, q.Put
	}
	return b, p
}

// PrintRun writes a human readable summary of a journaled run.
func PrintRun(w io.Writer, r journal.RunRecord) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Benchmark Result")
	fmt.Fprintln(w, "==================================================")

	if r.RunID != "" {
		fmt.Fprintf(w, "Run ID:        %s\n", r.RunID)
		fmt.Fprintf(w, "Created:       %s\n", r.Created.Format(time.RFC3339))
	}
	fmt.Fprintf(w, "Source:        %s\n", r.Source)
	fmt.Fprintf(w, "Contracts:     %d\n", r.Contracts)
	fmt.Fprintf(w, "Seed:          %d\n", r.Seed)
	fmt.Fprintf(w, "Rate:          %.4f\n", r.Rate)
	fmt.Fprintf(w, "Volatility:    %.4f\n", r.Volatility)
	fmt.Fprintf(w, "Workers:       %s\n", workers(r.Workers))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Timing")
	fmt.Fprintln(w, "--------------------------------------------------")

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"passes", "min", "mean", "median", "p95", "max", "contracts/s"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.Append([]string{
		strconv.Itoa(r.Repeat),
		r.Min.String(),
		r.Mean.String(),
		r.Median.String(),
		r.P95.String(),
		r.Max.String(),
		fmt.Sprintf("%.0f", r.Throughput()),
	})
	table.Render()

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Prices")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Mean Call:     %.6f\n", r.MeanCall)
	fmt.Fprintf(w, "Mean Put:      %.6f\n", r.MeanPut)
	fmt.Fprintf(w, "Parity Error:  %.3g\n", r.ParityError)
	fmt.Fprintln(w)
}

// PrintQuotes renders up to limit priced contracts as a table.
func PrintQuotes(w io.Writer, b pricing.ContractBatch, p pricing.PriceBatch, limit int) {
	n := p.Len()
	if limit >= 0 && limit < n {
		n = limit
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "spot", "strike", "maturity", "call", "put"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for i := 0; i < n; i++ {
		table.Append([]string{
			strconv.Itoa(i),
			fmt.Sprintf("%.4f", b.Spot[i]),
			fmt.Sprintf("%.4f", b.Strike[i]),
			fmt.Sprintf("%.4f", b.Maturity[i]),
			fmt.Sprintf("%.6f", p.Call[i]),
			fmt.Sprintf("%.6f", p.Put[i]),
		})
	}
	table.Render()

	if n < p.Len() {
		fmt.Fprintf(w, "... %d more\n", p.Len()-n)
	}
}

func workers(n int) string {
	switch n {
	case 0:
		return "GOMAXPROCS"
	case 1:
		return "1 (sequential)"
	default:
		return strconv.Itoa(n)
	}
}
