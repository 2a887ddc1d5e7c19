package words

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_Normalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.txt")
	content := "# a comment\nBear\n  lion \n\nmo-use\nwolf3\ncamel\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"bear", "lion", "camel"}, got,
		"comments, blanks, and non-alphabetic entries are skipped")
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestBuildIndex(t *testing.T) {
	idx := buildIndex([]string{"bear", "lion", "ox", "camel", "wolf"})
	assert.Equal(t, []string{"ox"}, idx[2])
	assert.Equal(t, []string{"bear", "lion", "wolf"}, idx[4])
	assert.Equal(t, []string{"camel"}, idx[5])
	assert.Nil(t, idx[9])
}

func TestInit_EmbeddedDefaults(t *testing.T) {
	// No WORDS_FILE: Init falls back to the embedded dictionary.
	require.NoError(t, os.Unsetenv("WORDS_FILE"))
	require.NoError(t, Init())

	words, lengths := Stats()
	assert.Greater(t, words, 0)
	assert.Greater(t, lengths, 1, "the default list spans several lengths")

	for _, n := range Lengths() {
		list := ByLength(n)
		require.NotEmpty(t, list)
		for _, w := range list {
			assert.Len(t, w, n)
		}
	}
}
