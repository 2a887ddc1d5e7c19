// internal/game/engine.go
//
// Core engine for a single evil hangman session.
// Responsibilities:
//   - Construct sessions from a dictionary, word length, and guess budget.
//   - Record letter guesses adversarially: partition the surviving words by
//     the pattern each would reveal, then keep the largest partition — the
//     branch that concedes the least information to the player.
//   - Track state transitions via candidate words, guessed letters, the
//     reveal pattern, and remaining wrong guesses.
//
// Notes:
//   - Partition selection ties break to the lexicographically smallest
//     pattern, so a given sequence of guesses always replays identically.
//   - The surviving list is shuffled after selection. That shuffle is
//     presentation only; it never influences which partition wins.
//   - Win/loss is the caller's call: the pattern having no placeholders is
//     a win, a zero guess budget with placeholders left is a loss.

package game

import (
	"math/rand"
	"sort"
	"strings"
	"unicode"

	"github.com/evil-hangman/go-server/internal/cryptorand"
)

// Placeholder marks an unrevealed position in a pattern.
const Placeholder = '-'

// New constructs a session over the words in dictionary of exactly length
// runes. Words are lowercased; duplicates are kept. Returns ErrInvalidConfig
// if length < 1 or maxGuesses < 0 (a zero budget is allowed — the game is
// simply on its last life). A dictionary with no word of the requested
// length is NOT a construction error; it yields a session whose Pattern()
// and Record() fail with ErrEmptyState.
func New(dictionary []string, length, maxGuesses int) (*Session, error) {
	if length < 1 || maxGuesses < 0 {
		return nil, ErrInvalidConfig
	}
	var kept []string
	for _, w := range dictionary {
		w = strings.ToLower(strings.TrimSpace(w))
		if len([]rune(w)) == length {
			kept = append(kept, w)
		}
	}
	return &Session{
		length:      length,
		candidates:  kept,
		pattern:     allHidden(length),
		guessed:     make(map[rune]bool),
		guessesLeft: maxGuesses,
		rng:         rand.New(cryptorand.NewSource()),
	}, nil
}

// Length reports the fixed word length for this session.
func (s *Session) Length() int { return s.length }

// GuessesLeft reports the remaining wrong-guess budget.
func (s *Session) GuessesLeft() int { return s.guessesLeft }

// Words returns the surviving candidate words with duplicates collapsed.
// Order is arbitrary; callers must not rely on it.
func (s *Session) Words() []string {
	seen := make(map[string]struct{}, len(s.candidates))
	out := make([]string, 0, len(s.candidates))
	for _, w := range s.candidates {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// Guesses returns the letters guessed so far in ascending order.
func (s *Session) Guesses() []rune {
	out := make([]rune, 0, len(s.guessed))
	for r := range s.guessed {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Pattern returns the current reveal string: one token per position, the
// letter if revealed or the placeholder otherwise, joined by single spaces.
// Returns ErrEmptyState if no candidate word survives.
func (s *Session) Pattern() (string, error) {
	if len(s.candidates) == 0 {
		return "", ErrEmptyState
	}
	return s.pattern, nil
}

// Record applies one letter guess and returns how many positions of the new
// pattern reveal that letter. A zero count costs one guess from the budget.
//
// Validation, in order:
//   - ErrEmptyState if the budget is below 1 or no candidate survives.
//   - ErrDuplicateGuess if the (case-normalized) letter was already guessed.
//
// This is the only mutator: the candidate list and pattern are both replaced
// with the largest partition produced by the guess.
func (s *Session) Record(letter rune) (int, error) {
	if s.guessesLeft < 1 || len(s.candidates) == 0 {
		return 0, ErrEmptyState
	}
	letter = unicode.ToLower(letter)
	if s.guessed[letter] {
		return 0, ErrDuplicateGuess
	}

	groups := partition(s.candidates, s.guessed, letter)
	chosen := selectLargest(groups)

	s.pattern = chosen
	s.candidates = groups[chosen]
	s.rng.Shuffle(len(s.candidates), func(i, j int) {
		s.candidates[i], s.candidates[j] = s.candidates[j], s.candidates[i]
	})

	occurrences := strings.Count(s.pattern, string(letter))
	if occurrences == 0 {
		s.guessesLeft--
	}
	s.guessed[letter] = true
	return occurrences, nil
}

// Solved reports whether pattern has no unrevealed positions left.
func Solved(pattern string) bool {
	return !strings.ContainsRune(pattern, Placeholder)
}

// partition groups words by the pattern each would reveal if it were the
// secret, scored against every previously guessed letter plus the new one.
// Words landing in the same group are indistinguishable to the player, so
// each group is a branch the game may still claim to have been playing.
func partition(words []string, guessed map[rune]bool, letter rune) map[string][]string {
	groups := make(map[string][]string)
	for _, w := range words {
		p := reveal(w, guessed, letter)
		groups[p] = append(groups[p], w)
	}
	return groups
}

// selectLargest picks the pattern whose group keeps the most words alive —
// the adversarial step. Keys are visited in sorted order and only a strictly
// larger group displaces the current best, which realizes the documented
// smallest-pattern tie-break.
func selectLargest(groups map[string][]string) string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best, bestN := "", -1
	for _, k := range keys {
		if n := len(groups[k]); n > bestN {
			best, bestN = k, n
		}
	}
	return best
}

// reveal renders one word's pattern: positions whose letter is guessed (or
// is the letter being guessed right now) show it, the rest show the
// placeholder, tokens joined by single spaces.
func reveal(word string, guessed map[rune]bool, letter rune) string {
	var b strings.Builder
	for i, r := range []rune(word) {
		if i > 0 {
			b.WriteByte(' ')
		}
		if r == letter || guessed[r] {
			b.WriteRune(r)
		} else {
			b.WriteRune(Placeholder)
		}
	}
	return b.String()
}

// allHidden builds the initial all-placeholder pattern for n positions.
func allHidden(n int) string {
	tokens := make([]string, n)
	for i := range tokens {
		tokens[i] = string(Placeholder)
	}
	return strings.Join(tokens, " ")
}
