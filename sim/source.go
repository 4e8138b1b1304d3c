package sim

import (
	"math/rand/v2"
	"sync"
)

// Source is the random stream a session draws its trade outcomes from.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
}

// SourceFactory returns the stream for the given session index. Each call
// must return an independent stream so sessions can run concurrently.
type SourceFactory func(session int) Source

// Seeded returns a factory whose streams are a pure function of (seed, session).
// Two runs with the same seed and session count draw identical outcomes no
// matter how the sessions are scheduled.
func Seeded(seed uint64) SourceFactory {
	return func(session int) Source {
		return rand.New(rand.NewPCG(seed, mix64(uint64(session))))
	}
}

// mix64 is the splitmix64 finalizer. It spreads consecutive session indexes
// across the PCG stream space.
func mix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// ScriptedSource replays a fixed sequence of draws, wrapping around at the end.
// It is safe for concurrent use.
type ScriptedSource struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// Scripted returns a source that yields values in order. Use 0 for a win
// (any win_probability > 0) and values close to 1 for a loss. It panics on
// an empty script.
func Scripted(values ...float64) *ScriptedSource {
	if len(values) == 0 {
		panic("sim: Scripted needs at least one value")
	}
	return &ScriptedSource{values: values}
}

func (s *ScriptedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// Reset rewinds the script to its first value.
func (s *ScriptedSource) Reset() {
	s.mu.Lock()
	s.next = 0
	s.mu.Unlock()
}

// ScriptedFactory hands every session a fresh copy of the same script.
func ScriptedFactory(values ...float64) SourceFactory {
	return func(int) Source {
		return Scripted(values...)
	}
}
