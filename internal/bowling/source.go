package bowling

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Source is the randomness provider for rolls.
type Source interface {
	// Intn returns a non-negative random int in [0, n). n > 0.
	Intn(n int) int
}

// NewRandomSource returns a pseudo-random source seeded from crypto/rand,
// falling back to the current time if the system source is unavailable.
func NewRandomSource() Source {
	return rand.New(rand.NewSource(newSeed()))
}

func newSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

// Sequence replays a fixed list of outcomes, wrapping around at the end.
// Intn panics when the next value is outside [0, n).
type Sequence struct {
	mu     sync.Mutex
	values []int
	next   int
}

// NewSequence returns a source that yields values in order.
func NewSequence(values ...int) *Sequence {
	if len(values) == 0 {
		values = []int{0}
	}
	return &Sequence{values: append([]int(nil), values...)}
}

func (s *Sequence) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.values[s.next%len(s.values)]
	s.next++
	if v < 0 || v >= n {
		panic(fmt.Sprintf("bowling: sequence value %d outside [0, %d)", v, n))
	}
	return v
}
