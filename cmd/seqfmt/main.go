// Command seqfmt reformats a .seq file to its canonical layout, in the
// spirit of gofmt: read, parse, pretty-print, write back (or print to
// stdout without -w), grounded on internal/prettyprinter's adaptation of
// the teacher's CodePrinter.
package main

import (
	"fmt"
	"os"

	"github.com/funvibe/seqc/internal/config"
	"github.com/funvibe/seqc/internal/prettyprinter"
	"github.com/funvibe/seqc/internal/testsource"
)

func main() {
	args := os.Args[1:]
	write := false
	var paths []string
	for _, a := range args {
		if a == "-w" {
			write = true
			continue
		}
		paths = append(paths, a)
	}
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: seqfmt [-w] <file.seq> [file2.seq ...]")
		os.Exit(config.ExitInternalCompiler)
	}

	exitCode := config.ExitSuccess
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "seqfmt: %s\n", err)
			exitCode = config.ExitInternalCompiler
			continue
		}
		prog, err := testsource.Read(path, string(src))
		if err != nil {
			fmt.Fprintf(os.Stderr, "seqfmt: %s\n", err)
			exitCode = config.ExitInternalCompiler
			continue
		}
		out := prettyprinter.PrintProgram(prog)
		if write {
			if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "seqfmt: writing %s: %s\n", path, err)
				exitCode = config.ExitInternalCompiler
			}
			continue
		}
		fmt.Print(out)
	}
	os.Exit(exitCode)
}
