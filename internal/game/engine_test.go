package game_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/evil-hangman/go-server/internal/game"
)

// revealFor renders the pattern word would produce under the guessed set.
// Mirror of the engine's reveal rule, used to check partition consistency.
func revealFor(word string, guessed []rune) string {
	set := make(map[rune]bool, len(guessed))
	for _, r := range guessed {
		set[r] = true
	}
	tokens := make([]string, 0, len(word))
	for _, r := range word {
		if set[r] {
			tokens = append(tokens, string(r))
		} else {
			tokens = append(tokens, "-")
		}
	}
	return strings.Join(tokens, " ")
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	for _, tc := range []struct {
		name       string
		length     int
		maxGuesses int
	}{
		{"zero length", 0, 8},
		{"negative length", -3, 8},
		{"negative guesses", 5, -1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s, err := game.New([]string{"bear", "lion"}, tc.length, tc.maxGuesses)
			require.ErrorIs(t, err, game.ErrInvalidConfig)
			assert.Nil(t, s)
		})
	}
}

func TestNew_ZeroBudgetAllowed(t *testing.T) {
	s, err := game.New([]string{"bear"}, 4, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, s.GuessesLeft())

	// On its last life already: any guess is refused.
	_, err = s.Record('b')
	assert.ErrorIs(t, err, game.ErrEmptyState)
}

func TestNew_FiltersByLength(t *testing.T) {
	s, err := game.New([]string{"bear", "lion", "mouse", "ox", "WOLF"}, 4, 8)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bear", "lion", "wolf"}, s.Words())
	assert.Equal(t, 4, s.Length())

	p, err := s.Pattern()
	require.NoError(t, err)
	assert.Equal(t, "- - - -", p)
}

func TestNew_NoWordsOfLength(t *testing.T) {
	s, err := game.New([]string{"bear", "lion"}, 9, 8)
	require.NoError(t, err, "an empty candidate set is not a construction error")
	assert.Empty(t, s.Words())

	_, err = s.Pattern()
	assert.ErrorIs(t, err, game.ErrEmptyState)

	_, err = s.Record('a')
	assert.ErrorIs(t, err, game.ErrEmptyState)
}

// TestRecord_TieBreaksToSmallestPattern pins the documented tie rule: with
// {bear, lion} both branches of a 'b' guess have size 1, and "- - - -"
// sorts before "b - - -", so the engine claims the letter missed.
func TestRecord_TieBreaksToSmallestPattern(t *testing.T) {
	s, err := game.New([]string{"bear", "lion"}, 4, 8)
	require.NoError(t, err)

	occ, err := s.Record('b')
	require.NoError(t, err)
	assert.Equal(t, 0, occ)
	assert.Equal(t, 7, s.GuessesLeft())

	p, err := s.Pattern()
	require.NoError(t, err)
	assert.Equal(t, "- - - -", p)
	assert.Equal(t, []string{"lion"}, s.Words())
}

// TestRecord_KeepsLargestPartition walks the classic example: of eight
// 4-letter words, guessing 'e' leaves {ally, cool, good} as the biggest
// branch, so the player is told there is no e.
func TestRecord_KeepsLargestPartition(t *testing.T) {
	dict := []string{"ally", "beta", "cool", "deal", "else", "flew", "good", "hope"}
	s, err := game.New(dict, 4, 8)
	require.NoError(t, err)

	occ, err := s.Record('e')
	require.NoError(t, err)
	assert.Equal(t, 0, occ)
	assert.Equal(t, 7, s.GuessesLeft())
	assert.ElementsMatch(t, []string{"ally", "cool", "good"}, s.Words())

	p, err := s.Pattern()
	require.NoError(t, err)
	assert.Equal(t, "- - - -", p)

	// 'o' now splits {ally} from {cool, good}; the engine keeps the pair
	// and must reveal both o positions.
	occ, err = s.Record('o')
	require.NoError(t, err)
	assert.Equal(t, 2, occ)
	assert.Equal(t, 7, s.GuessesLeft(), "a revealing guess is free")
	assert.ElementsMatch(t, []string{"cool", "good"}, s.Words())

	p, err = s.Pattern()
	require.NoError(t, err)
	assert.Equal(t, "- o o -", p)
}

func TestRecord_DuplicateGuess(t *testing.T) {
	s, err := game.New([]string{"bear", "lion"}, 4, 8)
	require.NoError(t, err)

	_, err = s.Record('a')
	require.NoError(t, err)

	_, err = s.Record('a')
	assert.ErrorIs(t, err, game.ErrDuplicateGuess)

	// Case-normalized: 'A' is the same guess.
	_, err = s.Record('A')
	assert.ErrorIs(t, err, game.ErrDuplicateGuess)
}

func TestRecord_EmptyStateBeatsDuplicate(t *testing.T) {
	s, err := game.New([]string{"xyzq"}, 4, 1)
	require.NoError(t, err)

	_, err = s.Record('a')
	require.NoError(t, err)
	require.Equal(t, 0, s.GuessesLeft())

	// Budget exhausted AND 'a' already guessed: the dead-game check wins.
	_, err = s.Record('a')
	assert.ErrorIs(t, err, game.ErrEmptyState)
}

func TestGuesses_SortedAscending(t *testing.T) {
	s, err := game.New([]string{"bear", "lion"}, 4, 26)
	require.NoError(t, err)

	for _, r := range "zqam" {
		_, err := s.Record(r)
		require.NoError(t, err)
	}
	assert.Equal(t, []rune{'a', 'm', 'q', 'z'}, s.Guesses())
}

func TestWords_CollapsesDuplicates(t *testing.T) {
	s, err := game.New([]string{"bear", "bear", "lion"}, 4, 8)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bear", "lion"}, s.Words())
}

func TestSolved(t *testing.T) {
	assert.False(t, game.Solved("- - - -"))
	assert.False(t, game.Solved("b e - r"))
	assert.True(t, game.Solved("b e a r"))
}

// TestRecord_FullGameToWin plays a single-candidate game to completion.
func TestRecord_FullGameToWin(t *testing.T) {
	s, err := game.New([]string{"echo"}, 4, 2)
	require.NoError(t, err)

	for _, r := range "echo" {
		if _, err := s.Record(r); err != nil {
			// 'e','c','h','o' each appear in the only word.
			t.Fatalf("Record(%q): %v", r, err)
		}
	}
	p, err := s.Pattern()
	require.NoError(t, err)
	assert.Equal(t, "e c h o", p)
	assert.True(t, game.Solved(p))
	assert.Equal(t, 2, s.GuessesLeft(), "no wrong guesses were spent")
}

// TestRecord_Invariants drives random games and checks every property the
// engine promises after each guess:
//   - the pattern always has exactly L tokens,
//   - every surviving word re-reveals to exactly the current pattern,
//   - the returned count matches the pattern and every surviving word,
//   - the budget drops by one exactly when the count is zero,
//   - the candidate set never grows.
func TestRecord_Invariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		const length = 4

		dict := rapid.SliceOfN(rapid.StringMatching(`[abcde]{4}`), 1, 30).Draw(rt, "dict")
		budget := rapid.IntRange(1, 10).Draw(rt, "budget")

		s, err := game.New(dict, length, budget)
		require.NoError(rt, err)

		letters := rapid.StringMatching(`[a-f]{1,10}`).Draw(rt, "letters")
		for _, letter := range letters {
			prevWords := len(s.Words())
			prevLeft := s.GuessesLeft()

			occ, err := s.Record(letter)
			if errors.Is(err, game.ErrDuplicateGuess) {
				continue
			}
			if err != nil {
				require.ErrorIs(rt, err, game.ErrEmptyState)
				require.Less(rt, prevLeft, 1)
				break
			}

			p, err := s.Pattern()
			require.NoError(rt, err)
			require.Len(rt, strings.Split(p, " "), length)

			require.Equal(rt, occ, strings.Count(p, string(letter)),
				"returned count must match the pattern")
			if occ == 0 {
				require.Equal(rt, prevLeft-1, s.GuessesLeft())
			} else {
				require.Equal(rt, prevLeft, s.GuessesLeft())
			}

			words := s.Words()
			require.NotEmpty(rt, words, "the largest partition is never empty")
			require.LessOrEqual(rt, len(words), prevWords)
			for _, w := range words {
				require.Equal(rt, p, revealFor(w, s.Guesses()),
					"surviving word %q must match the pattern", w)
				require.Equal(rt, occ, strings.Count(w, string(letter)),
					"surviving word %q must agree on the count", w)
			}
		}
	})
}
