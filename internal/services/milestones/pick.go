package milestones

import (
	"context"
	"fmt"

	dnderr "github.com/KirkDiggler/dnd-sheet/internal/errors"
	"github.com/KirkDiggler/dnd-sheet/internal/prompt"
)

// pickDistinct asks for n different options and returns their 0-based indexes.
// accept may reject a pick with a recoverable error; the chooser is warned and
// asked again. Picking an option twice in one sitting is always rejected.
func pickDistinct(ctx context.Context, chooser prompt.Chooser, title string, options []string, n int, accept func(i int) error) ([]int, error) {
	picked := make([]int, 0, n)
	chosen := make(map[int]bool, n)

	for len(picked) < n {
		heading := title
		if n > 1 {
			heading = fmt.Sprintf("%s (%d of %d)", title, len(picked)+1, n)
		}
		idx, err := chooser.Choose(ctx, heading, options)
		if err != nil {
			return nil, err
		}
		i := idx - 1
		if i < 0 || i >= len(options) {
			chooser.Warn(ctx, dnderr.InvalidSelectionf("invalid selection: choose between 1 and %d", len(options)))
			continue
		}
		if chosen[i] {
			chooser.Warn(ctx, dnderr.InvalidSelectionf("invalid selection: %s already chosen", options[i]))
			continue
		}
		if accept != nil {
			if err := accept(i); err != nil {
				if dnderr.IsRecoverable(err) {
					chooser.Warn(ctx, err)
					continue
				}
				return nil, err
			}
		}
		chosen[i] = true
		picked = append(picked, i)
	}
	return picked, nil
}
