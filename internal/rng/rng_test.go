package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForAssessment_Deterministic(t *testing.T) {
	a := ForAssessment("salt", "codeguess", 42)
	b := ForAssessment("salt", "codeguess", 42)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.IntN(1000), b.IntN(1000))
	}
}

func TestForAssessment_DiffersByInput(t *testing.T) {
	draw := func(salt, kind string, id int64) []int {
		r := ForAssessment(salt, kind, id)
		out := make([]int, 8)
		for i := range out {
			out[i] = r.IntN(1 << 30)
		}
		return out
	}
	base := draw("salt", "codeguess", 1)
	assert.NotEqual(t, base, draw("salt", "codeguess", 2))
	assert.NotEqual(t, base, draw("other", "codeguess", 1))
	assert.NotEqual(t, base, draw("salt", "cardmatch", 1))
}

func TestNew_InRange(t *testing.T) {
	r := New()
	for i := 0; i < 100; i++ {
		v := r.IntN(7)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 7)
	}
}

func TestSequence(t *testing.T) {
	s := Sequence(3, 12, -1)
	assert.Equal(t, 3, s.IntN(10))
	assert.Equal(t, 2, s.IntN(10))
	assert.Equal(t, 9, s.IntN(10))
	assert.Equal(t, 3, s.IntN(10), "cycles")
	assert.Equal(t, 0, Sequence().IntN(5))
	assert.Equal(t, 0, Sequence(4).IntN(0))
}
