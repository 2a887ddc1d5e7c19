// internal/words/words.go
//
// Dictionary management for the hangman engine.
//
// Responsibilities:
//   - Load the dictionary from an environment-provided file or fall back to
//     the embedded default list.
//   - Index words by length so a session of any length can be served.
//   - Supply utility functions like ByLength, Lengths, and Stats.
//
// Initialization behavior (Init):
//   1. If WORDS_FILE is set, load that file (one word per line).
//   2. Otherwise, fall back to the embedded default dictionary from the
//      assets package.
//
// Environment variables:
//   WORDS_FILE=/path/to/dictionary.txt
//
// Constraints:
//   • Words must be alphabetic a–z; anything else is skipped.
//   • Blank lines and #-comments are skipped.
//   • Words are normalized to lowercase; duplicates are kept (the engine
//     tolerates them and the adversarial partition is unaffected).
//   • Initialization is run once (sync.Once).

package words

import (
	"bufio"
	"errors"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/evil-hangman/go-server/assets"
)

var (
	initOnce   sync.Once
	byLength   map[int][]string // words indexed by rune count
	total      int              // total words loaded
	initialErr error
)

// Init loads the dictionary exactly once.
// Returns an error if the dictionary ends up empty.
func Init() error {
	initOnce.Do(func() {
		var list []string

		if path := os.Getenv("WORDS_FILE"); path != "" {
			var err error
			list, err = LoadFile(path)
			if err != nil {
				initialErr = err
				return
			}
		} else {
			var err error
			list, err = assets.DictionaryList()
			if err != nil {
				initialErr = err
				return
			}
		}

		byLength = buildIndex(list)
		total = len(list)
		if total == 0 {
			initialErr = errors.New("words: dictionary is empty")
		}
	})
	return initialErr
}

// LoadFile reads one word per line from path, lowercased and trimmed,
// keeping only alphabetic words. Blank lines and #-comments are skipped.
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		w := strings.TrimSpace(strings.ToLower(sc.Text()))
		if w == "" || strings.HasPrefix(w, "#") || !isAlpha(w) {
			continue
		}
		out = append(out, w)
	}
	return out, sc.Err()
}

// buildIndex groups a word list by rune count.
func buildIndex(list []string) map[int][]string {
	idx := make(map[int][]string)
	for _, w := range list {
		n := len([]rune(w))
		idx[n] = append(idx[n], w)
	}
	return idx
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// ByLength returns the loaded words of exactly n letters.
// The returned slice is shared; callers must not modify it.
func ByLength(n int) []string {
	return byLength[n]
}

// Lengths returns the word lengths the dictionary can serve, ascending.
func Lengths() []int {
	out := make([]int, 0, len(byLength))
	for n := range byLength {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// Stats returns counts of loaded words: (words, distinct lengths).
func Stats() (wordCount int, lengthCount int) {
	return total, len(byLength)
}
