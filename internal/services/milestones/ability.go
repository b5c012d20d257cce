package milestones

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/dnd-sheet/internal/domain/character"
	"github.com/KirkDiggler/dnd-sheet/internal/domain/shared"
	dnderr "github.com/KirkDiggler/dnd-sheet/internal/errors"
	"github.com/KirkDiggler/dnd-sheet/internal/prompt"
)

// IncreasesPerImprovement is the number of +1 increases granted by one improvement
const IncreasesPerImprovement = 2

// AbilityScoreImprovement asks for two separate +1 increases. Each is checked
// against the cap when applied; the same ability may be picked twice.
func AbilityScoreImprovement(ctx context.Context, c *character.Character, chooser prompt.Chooser) error {
	for n := 1; n <= IncreasesPerImprovement; n++ {
		if !anyIncreasable(c) {
			chooser.Warn(ctx, dnderr.AbilityCapExceededf("every ability score is already %d, increase %d of %d skipped",
				character.MaxAbilityScore, n, IncreasesPerImprovement))
			return nil
		}
		if err := increaseOne(ctx, c, chooser, fmt.Sprintf("Increase an ability score (%d of %d)", n, IncreasesPerImprovement)); err != nil {
			return err
		}
	}
	return nil
}

func increaseOne(ctx context.Context, c *character.Character, chooser prompt.Chooser, title string) error {
	for {
		options := make([]string, len(shared.Attributes))
		for i, attr := range shared.Attributes {
			options[i] = fmt.Sprintf("%s (%d)", attr, c.Scores[attr])
		}

		idx, err := chooser.Choose(ctx, title, options)
		if err != nil {
			return err
		}
		if idx < 1 || idx > len(options) {
			chooser.Warn(ctx, dnderr.InvalidSelectionf("invalid selection: choose between 1 and %d", len(options)))
			continue
		}

		err = c.IncreaseScore(shared.Attributes[idx-1])
		if err == nil {
			return nil
		}
		if !dnderr.IsRecoverable(err) {
			return err
		}
		chooser.Warn(ctx, err)
	}
}

func anyIncreasable(c *character.Character) bool {
	for _, attr := range shared.Attributes {
		if c.CanIncrease(attr) {
			return true
		}
	}
	return false
}
