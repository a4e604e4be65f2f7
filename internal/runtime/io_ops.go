package runtime

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/funvibe/seqc/internal/sched"
	"github.com/funvibe/seqc/internal/stack"
	"github.com/funvibe/seqc/internal/value"
)

var stdinReader = bufio.NewReader(os.Stdin)

const readNMaxBytes = 10 * 1024 * 1024

// WriteLine implements io.write-line: ( str -- ). Stdout access is
// serialised through the scheduler's coroutine-aware mutex (spec.md 5),
// grounded on original_source's STDOUT_MUTEX-guarded patch_seq_write_line.
func WriteLine(s *stack.Stack) {
	v := s.Pop()
	m := defaultScheduler.Stdout()
	m.Lock()
	defer m.Unlock()
	os.Stdout.WriteString(v.Str.Value())
	os.Stdout.WriteString("\n")
}

func normalizeLineEnding(line string) string {
	return strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r") + lineEndingSuffix(line)
}

func lineEndingSuffix(line string) string {
	if strings.HasSuffix(line, "\r\n") || strings.HasSuffix(line, "\n") {
		return "\n"
	}
	return ""
}

// ReadLine implements io.read-line: ( -- str ). Returns "" at EOF; line
// endings are normalized to \n regardless of platform.
func ReadLine(s *stack.Stack) {
	line, _ := stdinReader.ReadString('\n')
	pushGlobal(s, normalizeLineEnding(line))
}

// ReadLinePlus implements io.read-line+: ( -- String Int ), an explicit
// EOF-detecting variant: ( line 1 ) on success, ( "" 0 ) at EOF.
func ReadLinePlus(s *stack.Stack) {
	line, err := stdinReader.ReadString('\n')
	status := int64(1)
	if len(line) == 0 && err != nil {
		status = 0
	}
	pushGlobal(s, normalizeLineEnding(line))
	s.Push(value.IntVal(status))
}

// Exit implements os.exit: ( Int -- ), terminating the process
// immediately with the popped exit code, per spec.md 6.5's "user
// programs pass exit codes through os.exit (valid range 0..=255)".
// Delegates to internal/sched.Exit rather than os.Exit so every other
// strand stops too, through the platform-specific immediate-termination
// call a compiled module's own os.exit primitive would use.
func Exit(s *stack.Stack) {
	v := s.Pop()
	code := v.Int
	if code < 0 || code > 255 {
		panic("os.exit: exit code out of range 0..=255")
	}
	sched.Exit(int(code))
}

// ReadN implements io.read-n: ( Int -- String Int ), reading exactly n
// bytes (or fewer at EOF) as UTF-8, invalid sequences replaced per Go's
// standard string-from-bytes conversion behavior.
func ReadN(s *stack.Stack) {
	nv := s.Pop()
	n := nv.Int
	if n < 0 || n > readNMaxBytes {
		panic("io.read-n: byte count out of range")
	}
	buf := make([]byte, n)
	read, err := io.ReadFull(stdinReader, buf)
	status := int64(1)
	if err != nil {
		status = 0
	}
	pushGlobal(s, string(buf[:read]))
	s.Push(value.IntVal(status))
}
