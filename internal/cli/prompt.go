package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"
)

// LineReader reads one line of user input after showing a prompt.
// It returns io.EOF when input ends or the user aborts.
type LineReader interface {
	Prompt(prompt string) (string, error)
	Close() error
}

// NewLineReader returns a line-editing reader when stdin is a terminal and a plain reader otherwise
func NewLineReader(in *os.File, out io.Writer) LineReader {
	if term.IsTerminal(int(in.Fd())) && liner.TerminalSupported() {
		state := liner.NewLiner()
		state.SetCtrlCAborts(true)
		return &termReader{state: state}
	}
	return NewPlainReader(in, out)
}

type termReader struct {
	state *liner.State
}

func (r *termReader) Prompt(prompt string) (string, error) {
	line, err := r.state.Prompt(prompt)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", io.EOF
		}
		return "", err
	}
	if strings.TrimSpace(line) != "" {
		r.state.AppendHistory(line)
	}
	return line, nil
}

func (r *termReader) Close() error {
	return r.state.Close()
}

// PlainReader reads lines from any reader, writing prompts to out
type PlainReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewPlainReader creates a reader without line editing
func NewPlainReader(in io.Reader, out io.Writer) *PlainReader {
	return &PlainReader{scanner: bufio.NewScanner(in), out: out}
}

// Prompt writes prompt and reads the next line without its line ending
func (r *PlainReader) Prompt(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimRight(r.scanner.Text(), "\r"), nil
}

// Close is a no-op
func (r *PlainReader) Close() error {
	return nil
}
