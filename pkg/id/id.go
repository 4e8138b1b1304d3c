package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu   sync.Mutex
	mono io.Reader
)

func init() {
	// Seed a PRNG from crypto/rand so run ids are unpredictable. This stream
	// is unrelated to the simulation sources, which are always seeded explicitly.
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// New returns a run id (ULID) for the current time.
func New() string {
	return NewAt(time.Now())
}

// NewAt returns a run id whose timestamp is t. Ids generated in the same
// millisecond remain lexicographically increasing.
func NewAt(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(t.UTC()), mono)
	if err != nil {
		// Only possible if entropy fails or the clock goes backwards within a millisecond.
		panic(err)
	}
	return id.String()
}

// Time extracts the creation time encoded in a run id.
func Time(runID string) (time.Time, error) {
	u, err := ulid.ParseStrict(runID)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()), nil
}
