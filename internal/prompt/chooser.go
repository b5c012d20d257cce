// Package prompt is the boundary between the rules engine and the person driving it.
// The engine only ever asks for a pick from a bounded list, a bounded number or a name.
package prompt

//go:generate mockgen -destination=mock/mock_chooser.go -package=mockprompt -source=chooser.go

import (
	"context"
	"strconv"
	"strings"

	dnderr "github.com/KirkDiggler/dnd-sheet/internal/errors"
)

// Chooser collects validated input. Every method blocks until a valid answer is
// given, the context is cancelled or the input is exhausted.
type Chooser interface {
	// Choose presents options and returns a 1-based index into them
	Choose(ctx context.Context, title string, options []string) (int, error)

	// Number asks for an integer in [min, max]
	Number(ctx context.Context, title string, min, max int) (int, error)

	// Text asks for a non-empty line of free text
	Text(ctx context.Context, title string) (string, error)

	// Warn tells the user why their last answer was rejected
	Warn(ctx context.Context, reason error)
}

// ParseChoice validates a typed menu answer against an option count
func ParseChoice(raw string, count int) (int, error) {
	return ParseNumber(raw, 1, count)
}

// ParseNumber validates a typed integer against inclusive bounds
func ParseNumber(raw string, min, max int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, dnderr.InvalidSelectionf("invalid selection: %q is not a number", strings.TrimSpace(raw))
	}
	if n < min || n > max {
		return 0, dnderr.InvalidSelectionf("invalid selection: choose between %d and %d", min, max).
			WithMeta("value", n)
	}
	return n, nil
}
