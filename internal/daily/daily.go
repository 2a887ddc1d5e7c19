package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// Guess budget bounds for a daily challenge.
const (
	minBudget = 8
	maxBudget = 12
)

// Challenge is the deterministic configuration for one day's game.
// Everyone playing the same date under the same salt gets the same
// word length and guess budget, which is what makes the leaderboard fair.
type Challenge struct {
	Date       string `json:"date"`
	Length     int    `json:"length"`
	MaxGuesses int    `json:"maxGuesses"`
}

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ChallengeFor derives the day's configuration from HMAC-SHA256(salt, date).
// lengths is the set of word lengths the dictionary can serve; an empty set
// yields a zero Challenge.
func ChallengeFor(date time.Time, salt string, lengths []int) Challenge {
	dk := DateKey(date)
	if len(lengths) == 0 {
		return Challenge{Date: dk}
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(dk))
	sum := h.Sum(nil)
	// First 8 bytes pick the length, next 8 pick the budget.
	ln := binary.BigEndian.Uint64(sum[:8])
	bn := binary.BigEndian.Uint64(sum[8:16])
	return Challenge{
		Date:       dk,
		Length:     lengths[ln%uint64(len(lengths))],
		MaxGuesses: minBudget + int(bn%uint64(maxBudget-minBudget+1)),
	}
}
