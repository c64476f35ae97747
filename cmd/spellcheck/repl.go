package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/homier/probemap/spell"
)

const prompt = "\nEnter a word (or type 'exit' to quit): "

func normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// repl reads words from in until EOF or "exit", reporting on each.
func repl(engine *spell.Engine, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, prompt)

		if !scanner.Scan() {
			break
		}

		word := normalize(scanner.Text())
		if word == "exit" {
			break
		}

		if word == "" {
			continue
		}

		if err := report(engine, out, word); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, "Spell checker terminated.")

	return scanner.Err()
}

func report(engine *spell.Engine, out io.Writer, word string) error {
	start := time.Now()

	if engine.Check(word) {
		fmt.Fprintf(out, "'%s' is spelled correctly.\n", word)
	} else {
		fmt.Fprintf(out, "'%s' is misspelled.\n", word)

		suggestions, err := engine.Suggest(word)
		if err != nil {
			return err
		}

		if len(suggestions) == 0 {
			fmt.Fprintln(out, "Suggestions: No suggestions found.")
		} else {
			fmt.Fprintf(out, "Suggestions: [%s]\n", strings.Join(suggestions, ", "))
		}
	}

	fmt.Fprintf(out, "Lookup and suggestion generation took %.2f ms.\n",
		float64(time.Since(start).Microseconds())/1e3)

	return nil
}
