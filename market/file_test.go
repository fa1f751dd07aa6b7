package market

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContractsFile(t *testing.T) {
	t.Parallel()

	b, err := Generate(64, DefaultRanges(), 99)
	require.NoError(t, err)

	for _, name := range []string{"contracts.csv", "contracts.csv.gz", "contracts.csv.xz"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, WriteContractsFile(path, b))

			got, err := ReadContractsFile(path)
			require.NoError(t, err)
			require.Equal(t, b.Len(), got.Len())
			for i := 0; i < b.Len(); i++ {
				assert.InDelta(t, b.Spot[i], got.Spot[i], 1e-12)
				assert.InDelta(t, b.Strike[i], got.Strike[i], 1e-12)
				assert.InDelta(t, b.Maturity[i], got.Maturity[i], 1e-12)
			}
		})
	}
}

func TestContractsFile_Compressed(t *testing.T) {
	t.Parallel()

	b, err := Generate(2048, DefaultRanges(), DefaultSeed)
	require.NoError(t, err)

	dir := t.TempDir()
	plain := filepath.Join(dir, "c.csv")
	packed := filepath.Join(dir, "c.csv.xz")
	require.NoError(t, WriteContractsFile(plain, b))
	require.NoError(t, WriteContractsFile(packed, b))

	ps, err := os.Stat(plain)
	require.NoError(t, err)
	xs, err := os.Stat(packed)
	require.NoError(t, err)
	assert.Less(t, xs.Size(), ps.Size())
}

func TestReadContractsFile_Errors(t *testing.T) {
	t.Parallel()

	_, err := ReadContractsFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.csv.xz")
	require.NoError(t, os.WriteFile(path, []byte("spot,strike,maturity\n1,2,3\n"), 0644))
	_, err = ReadContractsFile(path)
	assert.Error(t, err)
}
