// cmd/hangman-cli/main.go
//
// Console front end for the evil hangman engine. Plays one game per run
// against the adversarial dictionary: the program never picks a secret word,
// it just keeps whichever branch of your guesses leaves it the most outs.
//
// Flags double as environment variables (namsral/flag):
//   -dict    path to a dictionary file, one word per line (default: embedded)
//   -length  word length to play (default 5)
//   -guesses wrong guesses allowed (default 8)
//   -cheat   show how many candidate words survive each round

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/namsral/flag"

	"github.com/evil-hangman/go-server/assets"
	"github.com/evil-hangman/go-server/internal/game"
	"github.com/evil-hangman/go-server/internal/words"
)

func main() {
	var (
		dictPath = flag.String("dict", "", "dictionary file, one word per line (embedded list when empty)")
		length   = flag.Int("length", 5, "word length")
		guesses  = flag.Int("guesses", 8, "wrong guesses allowed")
		cheat    = flag.Bool("cheat", false, "show surviving candidate count")
	)
	flag.Parse()

	dict, err := loadDictionary(*dictPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	sess, err := game.New(dict, *length, *guesses)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: length must be at least 1 and guesses cannot be negative")
		os.Exit(1)
	}
	if len(sess.Words()) == 0 {
		fmt.Fprintf(os.Stderr, "error: no %d-letter words in the dictionary\n", *length)
		os.Exit(1)
	}

	if err := play(sess, *cheat); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadDictionary reads the word list from path, or the embedded default.
func loadDictionary(path string) ([]string, error) {
	if path != "" {
		return words.LoadFile(path)
	}
	return assets.DictionaryList()
}

// play runs the guess loop on stdin until the player wins or runs out.
func play(sess *game.Session, cheat bool) error {
	in := bufio.NewScanner(os.Stdin)

	fmt.Println("Welcome to hangman. I'm thinking of a word... probably.")
	for {
		pattern, err := sess.Pattern()
		if err != nil {
			return err
		}

		fmt.Println()
		fmt.Println("  word:    ", pattern)
		fmt.Println("  guessed: ", letterString(sess.Guesses()))
		fmt.Println("  left:    ", sess.GuessesLeft())
		if cheat {
			fmt.Println("  cheat:   ", len(sess.Words()), "candidate words")
		}

		letter, ok := prompt(in, sess)
		if !ok {
			fmt.Println("bye")
			return nil
		}

		occ, err := sess.Record(letter)
		if err != nil {
			// Inputs are filtered before Record, so only a dead game lands here.
			return err
		}
		if occ == 0 {
			fmt.Printf("sorry, no %c's\n", letter)
		} else {
			fmt.Printf("yes! %d %c's\n", occ, letter)
		}

		pattern, err = sess.Pattern()
		if err != nil {
			return err
		}
		if game.Solved(pattern) {
			fmt.Printf("\nyou win! the word was %q\n", strings.ReplaceAll(pattern, " ", ""))
			return nil
		}
		if sess.GuessesLeft() == 0 {
			ws := sess.Words()
			fmt.Printf("\nyou lose! the word was %q\n", ws[0])
			return nil
		}
	}
}

// prompt reads letters until it gets a fresh a-z one. ok=false means EOF.
func prompt(in *bufio.Scanner, sess *game.Session) (rune, bool) {
	guessed := make(map[rune]bool)
	for _, r := range sess.Guesses() {
		guessed[r] = true
	}
	for {
		fmt.Print("guess a letter: ")
		if !in.Scan() {
			return 0, false
		}
		s := strings.ToLower(strings.TrimSpace(in.Text()))
		rs := []rune(s)
		if len(rs) != 1 || rs[0] < 'a' || rs[0] > 'z' {
			fmt.Println("one letter, a-z")
			continue
		}
		if guessed[rs[0]] {
			fmt.Printf("you already guessed %c\n", rs[0])
			continue
		}
		return rs[0], true
	}
}

// letterString renders guessed letters as "a, d, q" or "(none)".
func letterString(letters []rune) string {
	if len(letters) == 0 {
		return "(none)"
	}
	parts := make([]string, len(letters))
	for i, r := range letters {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}
