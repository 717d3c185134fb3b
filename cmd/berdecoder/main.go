// Package main provides the entry point for berdecoder, the BER
// pretty-printer CLI.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/obaber/berd/internal/filemap"
	"github.com/obaber/berd/internal/printer"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run decodes the single file named in args and prints it. Separated
// from main for testability; it returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "usage: berdecoder <filename>")
		return 1
	}

	f, err := filemap.Open(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "berdecoder: %v\n", err)
		return 1
	}
	defer f.Close()

	p := printer.New(stdout)
	if err := p.Print(f.Data()); err != nil {
		fmt.Fprintf(stderr, "berdecoder: %v\n", err)
		return 1
	}
	return 0
}
