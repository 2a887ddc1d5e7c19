package daily_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/evil-hangman/go-server/internal/daily"
)

func TestDateKey_UTC(t *testing.T) {
	// 23:30 in UTC-5 is already the next day in UTC.
	loc := time.FixedZone("UTC-5", -5*3600)
	ts := time.Date(2025, 3, 9, 23, 30, 0, 0, loc)
	assert.Equal(t, "2025-03-10", daily.DateKey(ts))
}

func TestChallengeFor_Deterministic(t *testing.T) {
	lengths := []int{3, 4, 5, 6, 7}
	ts := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	a := daily.ChallengeFor(ts, "salt", lengths)
	b := daily.ChallengeFor(ts.Add(5*time.Hour), "salt", lengths)
	assert.Equal(t, a, b, "same date and salt must yield the same challenge")

	c := daily.ChallengeFor(ts, "other-salt", lengths)
	assert.Equal(t, a.Date, c.Date)
}

func TestChallengeFor_EmptyLengths(t *testing.T) {
	ch := daily.ChallengeFor(time.Now(), "salt", nil)
	assert.Equal(t, 0, ch.Length)
	assert.Equal(t, 0, ch.MaxGuesses)
	require.NotEmpty(t, ch.Date)
}

// TestChallengeFor_Ranges checks the derived configuration always lands in
// the served lengths and the fixed budget window, for arbitrary inputs.
func TestChallengeFor_Ranges(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lengths := rapid.SliceOfN(rapid.IntRange(2, 12), 1, 8).Draw(rt, "lengths")
		salt := rapid.String().Draw(rt, "salt")
		day := rapid.Int64Range(0, 4_000_000_000).Draw(rt, "unix")

		ch := daily.ChallengeFor(time.Unix(day, 0), salt, lengths)
		assert.Contains(rt, lengths, ch.Length)
		assert.GreaterOrEqual(rt, ch.MaxGuesses, 8)
		assert.LessOrEqual(rt, ch.MaxGuesses, 12)
	})
}
