// internal/game/types.go
//
// Core type definitions for the evil hangman engine.
// Defines:
//   - Session: state for a single adversarial hangman game.
//   - Sentinel errors surfaced to callers.

package game

import (
	"errors"
	"math/rand"
)

// Sentinel errors. Callers match with errors.Is.
var (
	// ErrInvalidConfig is returned by New when length < 1 or maxGuesses < 0.
	ErrInvalidConfig = errors.New("game: invalid configuration")

	// ErrEmptyState is returned when there is no active game to act on:
	// the candidate list is empty, or the guess budget is exhausted.
	ErrEmptyState = errors.New("game: no active game state")

	// ErrDuplicateGuess is returned by Record for a letter already guessed.
	ErrDuplicateGuess = errors.New("game: letter already guessed")
)

// Session holds the state of a single evil hangman game.
//
// The engine never commits to a secret word: candidates is the set of
// dictionary words still consistent with every guess made so far, and it
// plays the role the secret word plays in honest hangman. The candidate
// list and pattern are replaced wholesale on every Record call; guessed
// letters and the guess budget are updated in place.
//
// A Session is owned by exactly one caller. There is no internal locking;
// concurrent games are independent Sessions.
type Session struct {
	length      int           // fixed word length for the whole session
	candidates  []string      // surviving words (lowercased, may repeat)
	pattern     string        // current reveal string, e.g. "- - a - -"
	guessed     map[rune]bool // letters submitted so far
	guessesLeft int           // wrong guesses remaining
	rng         *rand.Rand    // presentation shuffle only, never selection
}
