package mockprompt

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/KirkDiggler/dnd-sheet/internal/prompt"
)

// ManualChooser implements prompt.Chooser for testing with a script of answers.
//
// Each answer is matched against the option labels first: exactly, or as the label
// text before a trailing " (...)". Anything else is treated as typed input and
// validated with prompt.ParseChoice, so invalid answers are warned about and the
// next answer is consumed, the same way the console re-prompts.
type ManualChooser struct {
	mu       sync.Mutex
	answers  []string
	index    int
	Titles   []string
	Warnings []error
}

// NewManualChooser creates a chooser that replays the given answers in order
func NewManualChooser(answers ...string) *ManualChooser {
	return &ManualChooser{answers: answers}
}

// Add appends answers to the script
func (m *ManualChooser) Add(answers ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers = append(m.answers, answers...)
}

// Remaining returns the answers that have not been consumed
func (m *ManualChooser) Remaining() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.answers[m.index:]...)
}

func (m *ManualChooser) next(title string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Titles = append(m.Titles, title)
	if m.index >= len(m.answers) {
		return "", fmt.Errorf("no more scripted answers available for %q (used %d of %d)", title, m.index, len(m.answers))
	}
	answer := m.answers[m.index]
	m.index++
	return answer, nil
}

// Choose implements prompt.Chooser.Choose
func (m *ManualChooser) Choose(ctx context.Context, title string, options []string) (int, error) {
	for {
		answer, err := m.next(title)
		if err != nil {
			return 0, err
		}
		for i, opt := range options {
			if opt == answer || strings.HasPrefix(opt, answer+" (") {
				return i + 1, nil
			}
		}
		idx, err := prompt.ParseChoice(answer, len(options))
		if err != nil {
			m.Warn(ctx, err)
			continue
		}
		return idx, nil
	}
}

// Number implements prompt.Chooser.Number
func (m *ManualChooser) Number(ctx context.Context, title string, min, max int) (int, error) {
	for {
		answer, err := m.next(title)
		if err != nil {
			return 0, err
		}
		n, err := prompt.ParseNumber(answer, min, max)
		if err != nil {
			m.Warn(ctx, err)
			continue
		}
		return n, nil
	}
}

// Text implements prompt.Chooser.Text
func (m *ManualChooser) Text(_ context.Context, title string) (string, error) {
	return m.next(title)
}

// Warn implements prompt.Chooser.Warn
func (m *ManualChooser) Warn(_ context.Context, reason error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Warnings = append(m.Warnings, reason)
}
