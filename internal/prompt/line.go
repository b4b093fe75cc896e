package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tacogips/tpick/internal/catalog"
	"github.com/tacogips/tpick/internal/debug"
)

// LinePrompter reads one line per answer. It works with pipes and dumb terminals.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
	// eof is set once input is exhausted or a read was abandoned.
	eof bool
}

// NewLinePrompter creates a LinePrompter reading from in and writing prompts to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// Select implements Prompter.
func (p *LinePrompter) Select(ctx context.Context, entries []catalog.Entry) (catalog.Entry, error) {
	if len(entries) == 0 {
		return catalog.Entry{}, fmt.Errorf("catalog has no templates")
	}

	fmt.Fprintln(p.out, "Available templates:")
	for i, e := range entries {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, e.Label())
	}

	for {
		fmt.Fprintf(p.out, "Select a template [1-%d or id]: ", len(entries))
		line, err := p.readLine(ctx)
		if err != nil {
			return catalog.Entry{}, err
		}
		if line == "" {
			return catalog.Entry{}, ErrNoSelection
		}

		if e, ok := pick(entries, line); ok {
			debug.Debug("[prompt] Selected %s", e.ID)
			return e, nil
		}
		if p.eof {
			return catalog.Entry{}, ErrNoSelection
		}
		fmt.Fprintf(p.out, "Invalid selection %q, enter a number between 1 and %d or a template id.\n", line, len(entries))
	}
}

// pick resolves a 1-based index or an entry id.
func pick(entries []catalog.Entry, answer string) (catalog.Entry, bool) {
	if n, err := strconv.Atoi(answer); err == nil {
		if n >= 1 && n <= len(entries) {
			return entries[n-1], true
		}
		return catalog.Entry{}, false
	}
	for _, e := range entries {
		if e.ID == answer {
			return e, true
		}
	}
	return catalog.Entry{}, false
}

// ConfirmDestination implements Prompter.
func (p *LinePrompter) ConfirmDestination(ctx context.Context, def string) (string, error) {
	fmt.Fprintf(p.out, "Destination directory [%s]: ", def)
	line, err := p.readLine(ctx)
	if err != nil {
		return "", err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

// ConfirmOverwrite implements Prompter.
func (p *LinePrompter) ConfirmOverwrite(ctx context.Context, path string) (bool, error) {
	for {
		fmt.Fprintf(p.out, "Overwrite %s? [y/N]: ", path)
		line, err := p.readLine(ctx)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "y", "yes":
			return true, nil
		case "", "n", "no":
			return false, nil
		}
		if p.eof {
			return false, ErrNoSelection
		}
		fmt.Fprintln(p.out, "Please answer y or n.")
	}
}

type lineResult struct {
	line string
	err  error
}

// readLine returns the next trimmed line. A final unterminated line is
// returned once; after that EOF becomes ErrNoSelection. Cancellation of ctx
// abandons the pending read, and every later call returns ErrNoSelection
// since the abandoned read still owns the input.
func (p *LinePrompter) readLine(ctx context.Context) (string, error) {
	if p.eof {
		return "", ErrNoSelection
	}

	ch := make(chan lineResult, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		ch <- lineResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		p.eof = true
		fmt.Fprintln(p.out)
		return "", ErrNoSelection
	case r := <-ch:
		if r.err != nil {
			if !errors.Is(r.err, io.EOF) {
				return "", r.err
			}
			p.eof = true
			if strings.TrimSpace(r.line) == "" {
				fmt.Fprintln(p.out)
				return "", ErrNoSelection
			}
		}
		return strings.TrimSpace(r.line), nil
	}
}
