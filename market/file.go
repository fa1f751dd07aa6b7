package market

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/rustyeddy/bsbench/pricing"
)

// ReadContractsFile reads a contracts CSV from path. Files ending in .xz or
// .gz are decompressed on the fly.
func ReadContractsFile(path string) (pricing.ContractBatch, error) {
	fh, err := os.Open(path)
	if err != nil {
		return pricing.ContractBatch{}, fmt.Errorf("open contracts: %w", err)
	}
	defer fh.Close()

	var r io.Reader = fh
	switch {
	case strings.HasSuffix(path, ".xz"):
		xr, err := xz.NewReader(fh)
		if err != nil {
			return pricing.ContractBatch{}, fmt.Errorf("xz reader %s: %w", path, err)
		}
		r = xr
	case strings.HasSuffix(path, ".gz"):
		gr, err := gzip.NewReader(fh)
		if err != nil {
			return pricing.ContractBatch{}, fmt.Errorf("gzip reader %s: %w", path, err)
		}
		defer gr.Close()
		r = gr
	}

	return ReadContractsCSV(r)
}

// WriteContractsFile writes b as CSV to path, compressing by extension the
// same way ReadContractsFile decompresses.
func WriteContractsFile(path string, b pricing.ContractBatch) (err error) {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create contracts file: %w", err)
	}
	defer func() {
		if cerr := fh.Close(); err == nil {
			err = cerr
		}
	}()

	var w io.WriteCloser
	switch {
	case strings.HasSuffix(path, ".xz"):
		w, err = xz.NewWriter(fh)
		if err != nil {
			return fmt.Errorf("xz writer %s: %w", path, err)
		}
	case strings.HasSuffix(path, ".gz"):
		w = gzip.NewWriter(fh)
	default:
		return WriteContractsCSV(fh, b)
	}

	if err := WriteContractsCSV(w, b); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
