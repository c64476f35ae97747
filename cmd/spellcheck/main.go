package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/homier/probemap/internal/config"
	"github.com/homier/probemap/internal/logutil"
	"github.com/homier/probemap/spell"
)

func main() {
	var (
		configFlag   = flag.String("config", "", "path to a TOML config file")
		dictFlag     = flag.String("dict", "", "dictionary file, one word per line")
		workersFlag  = flag.Int("workers", -1, "goroutines generating distance 2 candidates, 0 for one per CPU")
		logLevelFlag = flag.String("log-level", "", "log level: debug, info, warn, error")
	)

	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	if *dictFlag != "" {
		cfg.Dictionary = *dictFlag
	}

	if *workersFlag >= 0 {
		cfg.Workers = *workersFlag
	}

	if *logLevelFlag != "" {
		cfg.Log.Level = *logLevelFlag
	}

	logger, err := logutil.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(2)
	}
	defer logger.Sync()

	engine := spell.NewEngine(
		spell.WithLogger(logger),
		spell.WithCapacity(cfg.Capacity),
		spell.WithWorkers(cfg.Workers),
	)

	fmt.Fprintln(os.Stdout, "Loading dictionary...")

	stats, err := engine.LoadFile(cfg.Dictionary)
	if err != nil {
		logger.Error("failed to load dictionary", zap.String("path", cfg.Dictionary), zap.Error(err))
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Dictionary loaded with %d words in %.2f ms.\n",
		stats.Lines, float64(stats.Elapsed.Microseconds())/1e3)

	if words := flag.Args(); len(words) > 0 {
		for _, w := range words {
			if err := report(engine, os.Stdout, normalize(w)); err != nil {
				logger.Error("suggest failed", zap.String("word", w), zap.Error(err))
				os.Exit(1)
			}
		}

		return
	}

	if err := repl(engine, os.Stdin, os.Stdout); err != nil {
		logger.Error("input failed", zap.Error(err))
		os.Exit(1)
	}
}
