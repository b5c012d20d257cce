package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/KirkDiggler/dnd-sheet/internal/domain/character"
	"github.com/KirkDiggler/dnd-sheet/internal/domain/rulebook"
	dnderr "github.com/KirkDiggler/dnd-sheet/internal/errors"
	charService "github.com/KirkDiggler/dnd-sheet/internal/services/character"
)

var (
	mainOptions      = []string{"Create a character", "Open a character", "Quit"}
	characterOptions = []string{"Level up", "Level up to a chosen level", "Redo setup", "Delete", "Back"}
)

// runMenu is the interactive loop used when sheet is started without a command.
// It ends on Quit or when the input runs out.
func (a *app) runMenu(ctx context.Context) error {
	for {
		idx, err := a.chooser.Choose(ctx, "Main menu", mainOptions)
		if err != nil {
			return endOfSession(err)
		}

		switch idx {
		case 1:
			err = a.runNew(ctx)
		case 2:
			err = a.openMenu(ctx)
		default:
			return nil
		}
		if err = a.report(err); err != nil {
			return endOfSession(err)
		}
	}
}

func (a *app) openMenu(ctx context.Context) error {
	entries, err := a.svc.List(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No saved characters.")
		return nil
	}

	options := make([]string, 0, len(entries)+1)
	for _, e := range entries {
		options = append(options, entryLabel(e))
	}
	options = append(options, "Back")

	idx, err := a.chooser.Choose(ctx, "Open a character", options)
	if err != nil || idx == len(options) {
		return err
	}

	entry := entries[idx-1]
	if entry.Err != nil {
		return a.recoverCorrupt(ctx, entry.Slug, entry.Err)
	}
	return a.characterMenu(ctx, entry.Character)
}

func (a *app) characterMenu(ctx context.Context, c *character.Character) error {
	for {
		if err := writeSheet(a.out, c); err != nil {
			return err
		}
		idx, err := a.chooser.Choose(ctx, describe(c), characterOptions)
		if err != nil {
			return err
		}

		var next *character.Character
		switch idx {
		case 1:
			next, err = a.svc.LevelUp(ctx, c.Slug, a.chooser)
		case 2:
			next, err = a.advance(ctx, c)
		case 3:
			next, err = a.svc.Reset(ctx, c.Slug, a.chooser)
		case 4:
			return a.confirmDelete(ctx, c.Slug)
		default:
			return nil
		}

		if dnderr.IsCorruptRecord(err) {
			return a.recoverCorrupt(ctx, c.Slug, err)
		}
		if err = a.report(err); err != nil {
			return err
		}
		if next != nil {
			c = next
		}
	}
}

// advance levels a copy so a failed run leaves the shown sheet as it was
func (a *app) advance(ctx context.Context, c *character.Character) (*character.Character, error) {
	if c.Level >= rulebook.MaxLevel {
		return nil, dnderr.InvalidArgumentf("%s is already level %d", c.Name, rulebook.MaxLevel)
	}
	target, err := a.chooser.Number(ctx, "Target level", c.Level+1, rulebook.MaxLevel)
	if err != nil {
		return nil, err
	}

	next := c.Clone()
	if err := a.svc.Advance(ctx, next, target, a.chooser, true); err != nil {
		return nil, err
	}
	return next, nil
}

func (a *app) confirmDelete(ctx context.Context, slug string) error {
	idx, err := a.chooser.Choose(ctx, fmt.Sprintf("Delete %s?", slug), []string{"Delete", "Keep"})
	if err != nil || idx != 1 {
		return err
	}
	return a.runDelete(ctx, slug)
}

// report prints errors the user can recover from and passes the rest on
func (a *app) report(err error) error {
	if err == nil {
		return nil
	}
	switch dnderr.GetCode(err) {
	case dnderr.CodeInvalidArgument, dnderr.CodeNotFound, dnderr.CodeInvalidSelection, dnderr.CodeAbilityCapExceeded:
		fmt.Fprintln(a.out, "Error:", err)
		return nil
	}
	return err
}

// endOfSession treats running out of input or an interrupt as a normal exit
func endOfSession(err error) error {
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func entryLabel(e *charService.Entry) string {
	if e.Err != nil {
		return fmt.Sprintf("%s (unreadable)", e.Slug)
	}
	return describe(e.Character)
}
