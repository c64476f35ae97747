package spell

import (
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/homier/probemap"
)

// DefaultCapacity is the initial dictionary capacity, sized for a typical
// English word list so loading it doesn't rehash.
const DefaultCapacity = 120000

type Suggestion struct {
	Word     string
	Distance int
}

// Engine checks words against a dictionary and suggests corrections within
// edit distance 2.
//
// The dictionary may be loaded and queried from multiple goroutines: loads
// are exclusive, queries share it. Candidate sets are private to a query.
type Engine struct {
	mu   sync.RWMutex
	dict *probemap.Set[string]

	gen      *Generator
	logger   *zap.Logger
	capacity int
	workers  int
}

type Option func(e *Engine)

func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// Initial dictionary capacity, rounded up to a prime.
func WithCapacity(capacity int) Option {
	return func(e *Engine) {
		e.capacity = capacity
	}
}

// Number of goroutines generating edit-distance-2 candidates.
// 1 keeps everything on the calling goroutine, 0 means runtime.NumCPU().
func WithWorkers(workers int) Option {
	return func(e *Engine) {
		e.workers = workers
	}
}

func WithGenerator(gen *Generator) Option {
	return func(e *Engine) {
		e.gen = gen
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		capacity: DefaultCapacity,
		workers:  1,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = zap.NewNop()
	}

	if e.gen == nil {
		e.gen = NewGenerator()
	}

	if e.workers <= 0 {
		e.workers = runtime.NumCPU()
	}

	e.dict = probemap.NewSet[string](e.capacity)

	return e
}

// Adds a single word to the dictionary.
// Returns false if it was already there.
func (e *Engine) Add(word string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.dict.Add(word)
}

// Reports whether word is in the dictionary.
func (e *Engine) Check(word string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.dict.Contains(word)
}

// Number of distinct dictionary words.
func (e *Engine) Size() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.dict.Len()
}

// Returns dictionary words within edit distance 2 of a misspelled word.
// Distance 1 words come first, each word appears once. Correct words have
// no suggestions.
func (e *Engine) Suggest(word string) ([]string, error) {
	suggestions, err := e.SuggestDetailed(word)
	if err != nil {
		return nil, err
	}

	words := make([]string, len(suggestions))
	for i, s := range suggestions {
		words[i] = s.Word
	}

	return words, nil
}

// Same as Suggest, with the edit distance of each suggestion.
func (e *Engine) SuggestDetailed(word string) ([]Suggestion, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.dict.IsEmpty() || e.dict.Contains(word) {
		return nil, nil
	}

	start := time.Now()

	edits1, err := e.gen.Edits1(word)
	if err != nil {
		return nil, err
	}

	var (
		suggestions []Suggestion
		recorded    = probemap.NewSet[string](0)
	)

	record := func(candidates *probemap.Set[string], distance int) error {
		for c := range candidates.All() {
			if !e.dict.Contains(c) {
				continue
			}

			added, err := recorded.Add(c)
			if err != nil {
				return err
			}

			if added {
				suggestions = append(suggestions, Suggestion{Word: c, Distance: distance})
			}
		}

		return nil
	}

	if err := record(edits1, 1); err != nil {
		return nil, err
	}

	edits2, err := e.edits2(edits1)
	if err != nil {
		return nil, err
	}

	if err := record(edits2, 2); err != nil {
		return nil, err
	}

	e.logger.Debug("suggestions generated",
		zap.String("word", word),
		zap.Int("edits1", edits1.Len()),
		zap.Int("edits2", edits2.Len()),
		zap.Int("suggestions", len(suggestions)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return suggestions, nil
}

// edits2 merges the edit-distance-1 variants of every candidate in edits1,
// whether or not the candidate is a word itself.
func (e *Engine) edits2(edits1 *probemap.Set[string]) (*probemap.Set[string], error) {
	capacity := probemap.CapacityFor(edits1.Len() * len(e.gen.Alphabet()))

	if e.workers == 1 || edits1.Len() < e.workers {
		edits2 := probemap.NewSet[string](capacity)

		for c := range edits1.All() {
			if err := e.gen.Edits1Into(c, edits2); err != nil {
				return nil, err
			}
		}

		return edits2, nil
	}

	candidates := edits1.Values()
	parts := make([]*probemap.Set[string], e.workers)

	var g errgroup.Group

	q := len(candidates) / e.workers
	r := len(candidates) % e.workers

	start := 0
	for i := range e.workers {
		size := q
		if i < r {
			size++
		}

		end := start + size
		chunk := candidates[start:end]
		g.Go(func() error {
			part := probemap.NewSet[string](capacity / e.workers)
			for _, c := range chunk {
				if err := e.gen.Edits1Into(c, part); err != nil {
					return err
				}
			}

			parts[i] = part

			return nil
		})

		start = end
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Merged in chunk order so the result doesn't depend on scheduling.
	edits2 := probemap.NewSet[string](capacity)
	for _, part := range parts {
		for c := range part.All() {
			if _, err := edits2.Add(c); err != nil {
				return nil, err
			}
		}
	}

	return edits2, nil
}
