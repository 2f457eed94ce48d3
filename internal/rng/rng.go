// apps/go-server/internal/rng/rng.go
//
// Random sources for the game engines.
// Provides:
//   - New(): a ChaCha8 generator seeded from crypto/rand (production default).
//   - ForAssessment(): a generator seeded from HMAC(salt, kind|assessment id), so
//     a session's secret code or deck order can be replayed for an audit.
//   - Sequence(): a scripted generator for tests.
//
// All returned values satisfy game.Random (IntN).

package rng

import (
	"crypto/hmac"
	crand "crypto/rand"
	"crypto/sha256"
	"math/rand/v2"
	"strconv"
)

// New returns a generator seeded from the operating system's entropy.
func New() *rand.Rand {
	var seed [32]byte
	_, _ = crand.Read(seed[:])
	return rand.New(rand.NewChaCha8(seed))
}

// ForAssessment returns a deterministic generator for one assessment.
// The same salt, kind and id always yield the same sequence.
func ForAssessment(salt, kind string, assessmentID int64) *rand.Rand {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(kind))
	h.Write([]byte{'|'})
	h.Write([]byte(strconv.FormatInt(assessmentID, 10)))
	var seed [32]byte
	copy(seed[:], h.Sum(nil))
	return rand.New(rand.NewChaCha8(seed))
}

// Seq replays a fixed list of values, each reduced modulo n, cycling when
// exhausted. An empty Seq always returns 0.
type Seq struct {
	values []int
	pos    int
}

// Sequence returns a Seq over values.
func Sequence(values ...int) *Seq { return &Seq{values: values} }

// IntN returns the next scripted value in [0, n).
func (s *Seq) IntN(n int) int {
	if n <= 0 || len(s.values) == 0 {
		return 0
	}
	v := s.values[s.pos%len(s.values)]
	s.pos++
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
