package market

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/rustyeddy/bsbench/pricing"
)

// Contract is one row of a contracts file.
type Contract struct {
	Spot     float64 `csv:"spot"`
	Strike   float64 `csv:"strike"`
	Maturity float64 `csv:"maturity"`
}

// Quote is a contract with its computed prices.
type Quote struct {
	Spot     float64 `csv:"spot"`
	Strike   float64 `csv:"strike"`
	Maturity float64 `csv:"maturity"`
	Call     float64 `csv:"call"`
	Put      float64 `csv:"put"`
}

// ReadContractsCSV parses a spot,strike,maturity file and validates the
// resulting batch.
func ReadContractsCSV(r io.Reader) (pricing.ContractBatch, error) {
	var rows []*Contract
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return pricing.ContractBatch{}, fmt.Errorf("read contracts: %w", err)
	}

	b := pricing.NewContractBatch(len(rows))
	for i, row := range rows {
		b.Spot[i] = row.Spot
		b.Strike[i] = row.Strike
		b.Maturity[i] = row.Maturity
	}
	if err := b.Validate(); err != nil {
		return pricing.ContractBatch{}, fmt.Errorf("read contracts: %w", err)
	}
	return b, nil
}

func WriteContractsCSV(w io.Writer, b pricing.ContractBatch) error {
	rows := make([]*Contract, b.Len())
	for i := range rows {
		rows[i] = &Contract{Spot: b.Spot[i], Strike: b.Strike[i], Maturity: b.Maturity[i]}
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("write contracts: %w", err)
	}
	return nil
}

// Quotes zips a batch with its prices.
func Quotes(b pricing.ContractBatch, p pricing.PriceBatch) ([]*Quote, error) {
	if b.Len() != p.Len() {
		return nil, fmt.Errorf("quotes: %d contracts but %d prices", b.Len(), p.Len())
	}
	out := make([]*Quote, b.Len())
	for i := range out {
		out[i] = &Quote{
			Spot:     b.Spot[i],
			Strike:   b.Strike[i],
			Maturity: b.Maturity[i],
			Call:     p.Call[i],
			Put:      p.Put[i],
		}
	}
	return out, nil
}

func WriteQuotesCSV(w io.Writer, b pricing.ContractBatch, p pricing.PriceBatch) error {
	rows, err := Quotes(b, p)
	if err != nil {
		return err
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("write quotes: %w", err)
	}
	return nil
}
