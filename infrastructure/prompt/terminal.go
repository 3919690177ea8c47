package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Terminal asks for the note on an interactive reader/writer pair. It
// blocks until a line arrives, the way the CLI's select step wants it.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal creates a Terminal prompter reading from in and prompting
// on out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// RequestNote prints the candidate and reads one line. An empty line
// means "no note"; end of input is not an error.
func (t *Terminal) RequestNote(_ context.Context, candidate string) (string, bool, error) {
	fmt.Fprintf(t.out, "note for %q (enter to skip): ", candidate)

	line, err := t.in.ReadString('\n')
	note := strings.TrimSpace(line)
	if err != nil && note == "" {
		if errors.Is(err, io.EOF) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read note: %w", err)
	}
	return note, note != "", nil
}

var _ NotePrompter = (*Terminal)(nil)
