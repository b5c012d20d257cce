package character

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/dnd-sheet/internal/domain/character"
	dnderr "github.com/KirkDiggler/dnd-sheet/internal/errors"
)

// listConcurrency bounds parallel record reads in List
const listConcurrency = 8

// Load retrieves a character by path name. Records written before IDs existed
// get a fresh ID, kept once the character is saved again.
func (s *service) Load(ctx context.Context, slug string) (*character.Character, error) {
	rec, err := s.repository.Get(ctx, slug)
	if err != nil {
		return nil, err
	}

	c, err := character.FromRecord(s.rules, rec)
	if err != nil {
		s.logger.Warn("corrupt character record",
			zap.String("slug", slug),
			zap.Error(err))
		return nil, err
	}
	if c.ID == "" {
		c.ID = s.uuidGenerator.New()
	}
	return c, nil
}

// Save stores a character
func (s *service) Save(ctx context.Context, c *character.Character) error {
	if c == nil {
		return dnderr.InvalidArgument("character cannot be nil")
	}
	if err := c.CheckInvariants(); err != nil {
		return err
	}

	rec, err := c.ToRecord()
	if err != nil {
		return err
	}
	if err := s.repository.Save(ctx, rec); err != nil {
		return dnderr.Wrapf(err, "failed to save %s", c.Slug)
	}

	s.logger.Debug("character saved",
		zap.String("slug", c.Slug),
		zap.Int("level", c.Level))
	return nil
}

// Delete removes a character
func (s *service) Delete(ctx context.Context, slug string) error {
	if err := s.repository.Delete(ctx, slug); err != nil {
		return err
	}

	s.logger.Info("character deleted", zap.String("slug", slug))
	return nil
}

// List loads every stored character. Records that are corrupt or vanish
// while listing are reported on their entry instead of failing the listing.
func (s *service) List(ctx context.Context) ([]*Entry, error) {
	slugs, err := s.repository.List(ctx)
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to list characters")
	}

	entries := make([]*Entry, len(slugs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(listConcurrency)
	for i, slug := range slugs {
		g.Go(func() error {
			c, err := s.Load(ctx, slug)
			if err != nil && !dnderr.IsCorruptRecord(err) && !dnderr.IsNotFound(err) {
				return dnderr.Wrapf(err, "failed to load %s", slug)
			}
			entries[i] = &Entry{Slug: slug, Character: c, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}
