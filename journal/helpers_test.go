package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

func sampleRun(id string, created time.Time) RunRecord {
	return RunRecord{
		RunID:       id,
		Created:     created,
		Source:      "synthetic",
		Contracts:   100000,
		Seed:        7777777,
		Rate:        0.1,
		Volatility:  0.2,
		Workers:     4,
		Repeat:      10,
		Min:         3 * time.Millisecond,
		Mean:        4 * time.Millisecond,
		Median:      3900 * time.Microsecond,
		P95:         5 * time.Millisecond,
		Max:         6 * time.Millisecond,
		MeanCall:    8.123456,
		MeanPut:     3.654321,
		ParityError: 1.4e-14,
	}
}
