package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	dnderr "github.com/KirkDiggler/dnd-sheet/internal/errors"
)

// Console is a line oriented Chooser over a reader and writer
type Console struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewConsole creates a console chooser, typically over stdin and stdout
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

func (c *Console) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", io.ErrUnexpectedEOF
	}
	return c.in.Text(), nil
}

// Choose prints a numbered menu and re-prompts until the answer is in range
func (c *Console) Choose(ctx context.Context, title string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, dnderr.InvalidArgument("no options to choose from")
	}
	for {
		fmt.Fprintln(c.out, title)
		for i, opt := range options {
			fmt.Fprintf(c.out, "  %2d) %s\n", i+1, opt)
		}
		fmt.Fprint(c.out, "> ")

		line, err := c.readLine(ctx)
		if err != nil {
			return 0, err
		}
		idx, err := ParseChoice(line, len(options))
		if err != nil {
			c.Warn(ctx, err)
			continue
		}
		return idx, nil
	}
}

// Number re-prompts until an integer in range is entered
func (c *Console) Number(ctx context.Context, title string, min, max int) (int, error) {
	for {
		fmt.Fprintf(c.out, "%s [%d-%d]: ", title, min, max)
		line, err := c.readLine(ctx)
		if err != nil {
			return 0, err
		}
		n, err := ParseNumber(line, min, max)
		if err != nil {
			c.Warn(ctx, err)
			continue
		}
		return n, nil
	}
}

// Text re-prompts until a non-blank line is entered
func (c *Console) Text(ctx context.Context, title string) (string, error) {
	for {
		fmt.Fprintf(c.out, "%s: ", title)
		line, err := c.readLine(ctx)
		if err != nil {
			return "", err
		}
		if s := strings.TrimSpace(line); s != "" {
			return s, nil
		}
		c.Warn(ctx, dnderr.InvalidSelection("a value is required"))
	}
}

// Warn prints the rejection reason
func (c *Console) Warn(_ context.Context, reason error) {
	fmt.Fprintf(c.out, "! %v\n", reason)
}
