package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// printKeyValues writes pairs as a table on terminals and as "Label: value"
// lines otherwise, so piped output stays grep-friendly.
func printKeyValues(w io.Writer, pairs [][2]string) {
	if isTerminal(w) {
		fmt.Fprintln(w, renderKeyValues(pairs))
		return
	}
	for _, pair := range pairs {
		fmt.Fprintf(w, "%s: %s\n", pair[0], pair[1])
	}
}

// sourceTextNotice is printed before output that contains unredacted tokens.
const sourceTextNotice = "note: output contains unredacted source text; keep it local"

func warnSourceText(w io.Writer) {
	fmt.Fprintln(w, sourceTextNotice)
}

func shortID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
