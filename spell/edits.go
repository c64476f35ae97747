package spell

import (
	"github.com/homier/probemap"
)

// DefaultAlphabet is the set of letters edits are built from.
const DefaultAlphabet = "abcdefghijklmnopqrstuvwxyz"

// Generator produces the single-edit variants of a word: deletions,
// substitutions and insertions over a fixed alphabet. Words are treated as
// bytes, so only single-byte alphabets make sense.
type Generator struct {
	alphabet string
}

type GeneratorOption func(g *Generator)

// Override the default alphabet. Letters should be unique.
func WithAlphabet(alphabet string) GeneratorOption {
	return func(g *Generator) {
		g.alphabet = alphabet
	}
}

func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{alphabet: DefaultAlphabet}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

func (g *Generator) Alphabet() string {
	return g.alphabet
}

// Returns the n variants of word with one character removed.
func (g *Generator) Deletions(word string) []string {
	out := make([]string, 0, len(word))
	g.deletions(word, func(v string) { out = append(out, v) })

	return out
}

// Returns the variants of word with one character replaced by a different
// letter of the alphabet, n*(A-1) of them for a word over the alphabet.
func (g *Generator) Substitutions(word string) []string {
	out := make([]string, 0, len(word)*len(g.alphabet))
	g.substitutions(word, func(v string) { out = append(out, v) })

	return out
}

// Returns the (n+1)*A variants of word with one letter inserted.
func (g *Generator) Insertions(word string) []string {
	out := make([]string, 0, (len(word)+1)*len(g.alphabet))
	g.insertions(word, func(v string) { out = append(out, v) })

	return out
}

// Number of raw variants before deduplication, for a word over the alphabet.
func (g *Generator) RawCount(word string) int {
	n, a := len(word), len(g.alphabet)

	return n + n*(a-1) + (n+1)*a
}

// Adds every distinct edit-distance-1 variant of word to set.
// The empty string is not a valid key and is skipped.
func (g *Generator) Edits1Into(word string, set *probemap.Set[string]) error {
	var err error

	add := func(v string) {
		if err != nil || v == "" {
			return
		}

		_, err = set.Add(v)
	}

	g.deletions(word, add)
	g.substitutions(word, add)
	g.insertions(word, add)

	return err
}

// Returns the deduplicated edit-distance-1 variants of word.
func (g *Generator) Edits1(word string) (*probemap.Set[string], error) {
	set := probemap.NewSet[string](probemap.CapacityFor(g.RawCount(word)))
	if err := g.Edits1Into(word, set); err != nil {
		return nil, err
	}

	return set, nil
}

// Same as Edits1, materialized as a slice in unspecified order.
func (g *Generator) Edits1List(word string) ([]string, error) {
	set, err := g.Edits1(word)
	if err != nil {
		return nil, err
	}

	return set.Values(), nil
}

func (g *Generator) deletions(word string, emit func(string)) {
	for i := range len(word) {
		emit(word[:i] + word[i+1:])
	}
}

func (g *Generator) substitutions(word string, emit func(string)) {
	buf := []byte(word)

	for i := range buf {
		orig := buf[i]

		for j := range len(g.alphabet) {
			// Replacing a letter with itself gives back the word.
			if c := g.alphabet[j]; c != orig {
				buf[i] = c
				emit(string(buf))
			}
		}

		buf[i] = orig
	}
}

func (g *Generator) insertions(word string, emit func(string)) {
	buf := make([]byte, len(word)+1)

	for i := 0; i <= len(word); i++ {
		copy(buf, word[:i])
		copy(buf[i+1:], word[i:])

		for j := range len(g.alphabet) {
			buf[i] = g.alphabet[j]
			emit(string(buf))
		}
	}
}
