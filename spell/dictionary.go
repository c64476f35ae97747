package spell

import (
	"bufio"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const maxLineSize = 1 << 20

type LoadStats struct {
	Lines      int
	Words      int
	Duplicates int
	Skipped    int
	Elapsed    time.Duration
}

// Loads one word per line into the dictionary. Lines are trimmed, blank
// lines are skipped. On a read error the words before it stay loaded.
func (e *Engine) Load(r io.Reader) (LoadStats, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var (
		stats LoadStats
		start = time.Now()
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		stats.Lines++

		word := strings.TrimSpace(scanner.Text())
		if word == "" {
			stats.Skipped++
			continue
		}

		added, err := e.dict.Add(word)
		if err != nil {
			return stats, errors.Wrapf(err, "line %d", stats.Lines)
		}

		if added {
			stats.Words++
		} else {
			stats.Duplicates++
		}
	}

	stats.Elapsed = time.Since(start)

	if err := scanner.Err(); err != nil {
		e.logger.Error("dictionary load interrupted",
			zap.Int("lines", stats.Lines),
			zap.Int("words", stats.Words),
			zap.Error(err),
		)

		return stats, errors.Wrapf(err, "read dictionary after line %d", stats.Lines)
	}

	e.logger.Info("dictionary loaded",
		zap.Int("lines", stats.Lines),
		zap.Int("words", stats.Words),
		zap.Int("duplicates", stats.Duplicates),
		zap.Int("skipped", stats.Skipped),
		zap.Int("size", e.dict.Len()),
		zap.Int("capacity", e.dict.Capacity()),
		zap.Duration("elapsed", stats.Elapsed),
	)

	return stats, nil
}

// Loads the dictionary from a file, see Load.
func (e *Engine) LoadFile(path string) (LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return LoadStats{}, errors.Wrapf(err, "open dictionary %s", path)
	}
	defer f.Close()

	stats, err := e.Load(f)
	if err != nil {
		return stats, errors.Wrapf(err, "load dictionary %s", path)
	}

	return stats, nil
}
