package rng_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/S-Hari-B/TBG-sub000/internal/game/rng"
)

func TestSameSeedSameSequence(t *testing.T) {
	a := rng.New(12345)
	b := rng.New(12345)

	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Intn(100), b.Intn(100))
	}
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := rng.New(11111)
	b := rng.New(22222)

	var drawsA, drawsB []int
	for i := 0; i < 10; i++ {
		drawsA = append(drawsA, a.Intn(1000))
		drawsB = append(drawsB, b.Intn(1000))
	}
	assert.NotEqual(t, drawsA, drawsB)
}

func TestIntnBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")
		n := rapid.IntRange(1, 1_000_000).Draw(t, "n")
		r := rng.New(seed)
		v := r.Intn(n)
		if v < 0 || v >= n {
			t.Fatalf("Intn(%d) = %d out of range", n, v)
		}
	})
}

func TestIntBetweenInclusive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")
		a := rapid.IntRange(-100, 100).Draw(t, "a")
		b := rapid.IntRange(a, a+200).Draw(t, "b")
		r := rng.New(seed)
		v := r.IntBetween(a, b)
		if v < a || v > b {
			t.Fatalf("IntBetween(%d, %d) = %d out of range", a, b, v)
		}
	})
}

func TestIntnPanicsOnNonPositive(t *testing.T) {
	r := rng.New(1)
	assert.Panics(t, func() { r.Intn(0) })
	assert.Panics(t, func() { r.Intn(-1) })
}

func TestExportRestoreContinuesSequence(t *testing.T) {
	r := rng.New(777)
	for i := 0; i < 10; i++ {
		r.Intn(100)
	}
	st := r.Export()

	var want []int
	for i := 0; i < 20; i++ {
		want = append(want, r.Intn(100))
	}

	restored := rng.New(0)
	require.NoError(t, restored.Restore(st))
	var got []int
	for i := 0; i < 20; i++ {
		got = append(got, restored.Intn(100))
	}
	assert.Equal(t, want, got)
}

func TestStateRoundTripsThroughJSON(t *testing.T) {
	r := rng.New(42)
	r.Float64()
	st := r.Export()

	data, err := json.Marshal(st)
	require.NoError(t, err)
	var decoded rng.State
	require.NoError(t, json.Unmarshal(data, &decoded))

	restored := rng.New(0)
	require.NoError(t, restored.Restore(decoded))
	assert.Equal(t, r.Intn(1_000_000), restored.Intn(1_000_000))
}

func TestRestoreRejectsBadPayloads(t *testing.T) {
	r := rng.New(1)
	before := r.Export()

	assert.Error(t, r.Restore(rng.State{Version: 99, Words: before.Words}))
	assert.Error(t, r.Restore(rng.State{Version: 1, Words: []string{"1"}}))
	assert.Error(t, r.Restore(rng.State{Version: 1, Words: []string{"a", "b", "c", "d"}}))
	// Failed restores must leave the state untouched.
	assert.Equal(t, before, r.Export())
}

func TestShuffleIsDeterministicPermutation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")
		n := rapid.IntRange(0, 64).Draw(t, "n")

		run := func() []int {
			vals := make([]int, n)
			for i := range vals {
				vals[i] = i
			}
			r := rng.New(seed)
			r.Shuffle(len(vals), func(i, j int) { vals[i], vals[j] = vals[j], vals[i] })
			return vals
		}

		first := run()
		second := run()
		if len(first) != n {
			t.Fatalf("shuffle changed length: %d", len(first))
		}
		seen := make(map[int]bool, n)
		for _, v := range first {
			seen[v] = true
		}
		if len(seen) != n {
			t.Fatalf("shuffle is not a permutation: %v", first)
		}
		for i := range first {
			if first[i] != second[i] {
				t.Fatalf("same seed produced different shuffles: %v vs %v", first, second)
			}
		}
	})
}

func TestChoicePanicsOnEmpty(t *testing.T) {
	r := rng.New(1)
	assert.Panics(t, func() { rng.Choice(r, []string{}) })
}

func TestChoiceReturnsMember(t *testing.T) {
	r := rng.New(9)
	seq := []string{"a", "b", "c"}
	for i := 0; i < 20; i++ {
		assert.Contains(t, seq, rng.Choice(r, seq))
	}
}
