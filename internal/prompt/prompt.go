// Package prompt supplies the default interactive confirmation capability.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/pantrylens/enricher/internal/domain"
)

// Terminal returns a ConfirmFunc that asks a yes/no question on the given
// streams. When in is not a terminal there is nobody to answer, so every
// question is declined rather than blocking the pipeline.
func Terminal(in *os.File, out io.Writer) domain.ConfirmFunc {
	if !isatty.IsTerminal(in.Fd()) && !isatty.IsCygwinTerminal(in.Fd()) {
		return func(prompt string) bool {
			log.Printf("[prompt] stdin is not a terminal, declining: %s", firstLine(prompt))
			return false
		}
	}

	reader := bufio.NewReader(in)
	return func(prompt string) bool {
		fmt.Fprintf(out, "%s [y/n]: ", prompt)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		return strings.EqualFold(strings.TrimSpace(answer), "y")
	}
}

// AlwaysYes returns a ConfirmFunc that accepts every question
func AlwaysYes() domain.ConfirmFunc {
	return func(string) bool { return true }
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
