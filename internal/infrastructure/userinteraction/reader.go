package userinteraction

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const prompt = "You > "

// maxLineSize bounds a single piped input line.
const maxLineSize = 16 << 20

var commands = []string{"/exit", "/quit", "/help", "/clear", "/cls", "/color", "/mono"}

// LineReader yields one input line per call and io.EOF when input ends.
type LineReader interface {
	ReadLine() (string, error)
	// Interactive reports whether input is echoed by a terminal.
	Interactive() bool
}

type scannerReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewScannerReader reads lines from r, printing the prompt to out first.
func NewScannerReader(r io.Reader, out io.Writer) LineReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &scannerReader{scanner: scanner, out: out}
}

func (s *scannerReader) ReadLine() (string, error) {
	if s.out != nil {
		fmt.Fprint(s.out, prompt)
	}
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

func (s *scannerReader) Interactive() bool { return false }

// terminalReader edits lines in raw mode with in-memory history and tab
// completion of shell commands. Raw mode is held only while reading.
type terminalReader struct {
	fd   int
	term *term.Terminal
}

func newTerminalReader(in *os.File, out io.Writer) *terminalReader {
	t := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{in, out}, prompt)
	t.AutoCompleteCallback = completeCommand
	return &terminalReader{fd: int(in.Fd()), term: t}
}

func (r *terminalReader) ReadLine() (string, error) {
	state, err := term.MakeRaw(r.fd)
	if err != nil {
		return "", fmt.Errorf("failed to enter raw mode: %w", err)
	}
	defer term.Restore(r.fd, state)

	return r.term.ReadLine()
}

func (r *terminalReader) Interactive() bool { return true }

// NewStdinReader picks line editing when stdin is a terminal and plain
// scanning otherwise.
func NewStdinReader() LineReader {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return newTerminalReader(os.Stdin, os.Stdout)
	}
	return NewScannerReader(os.Stdin, os.Stdout)
}

// completeCommand completes a slash command on Tab, case-insensitively.
func completeCommand(line string, pos int, key rune) (string, int, bool) {
	if key != '\t' || pos != len(line) || !strings.HasPrefix(line, "/") {
		return "", 0, false
	}

	prefix := strings.ToLower(line)
	var matches []string
	for _, cmd := range commands {
		if strings.HasPrefix(cmd, prefix) {
			matches = append(matches, cmd)
		}
	}
	if len(matches) == 0 {
		return "", 0, false
	}

	completed := commonPrefix(matches)
	if len(completed) <= len(line) {
		return "", 0, false
	}
	return completed, len(completed), true
}

func commonPrefix(words []string) string {
	prefix := words[0]
	for _, w := range words[1:] {
		for !strings.HasPrefix(w, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	return prefix
}
