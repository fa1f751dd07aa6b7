// Package id issues run identifiers.
package id

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.NewChaCha8(seed()), 0)
)

// seed draws the PRNG key from crypto/rand, falling back to the clock.
func seed() (s [32]byte) {
	if _, err := cryptorand.Read(s[:]); err != nil {
		binary.LittleEndian.PutUint64(s[:], uint64(time.Now().UnixNano()))
	}
	return s
}

// New returns a ULID string. IDs generated by one process sort in creation
// order, including within the same millisecond.
func New() string {
	return NewAt(time.Now())
}

// NewAt returns a ULID whose timestamp part is t.
func NewAt(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()

	u, err := ulid.New(ulid.Timestamp(t.UTC()), entropy)
	if err != nil {
		// Only possible if the monotonic entropy overflows within one ms.
		panic(err)
	}
	return u.String()
}

// Time extracts the creation time encoded in a run ID.
func Time(s string) (time.Time, error) {
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()).UTC(), nil
}
