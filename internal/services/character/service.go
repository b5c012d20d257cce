package character

//go:generate mockgen -destination=mock/mock_service.go -package=mockcharacter -source=service.go

import (
	"context"

	"go.uber.org/zap"

	"github.com/KirkDiggler/dnd-sheet/internal/dice"
	"github.com/KirkDiggler/dnd-sheet/internal/domain/character"
	"github.com/KirkDiggler/dnd-sheet/internal/domain/rulebook"
	dnderr "github.com/KirkDiggler/dnd-sheet/internal/errors"
	"github.com/KirkDiggler/dnd-sheet/internal/prompt"
	"github.com/KirkDiggler/dnd-sheet/internal/repositories/characters"
	"github.com/KirkDiggler/dnd-sheet/internal/services/progression"
	"github.com/KirkDiggler/dnd-sheet/internal/uuid"
)

// Repository is an alias for the character repository interface
type Repository = characters.Repository

// Service defines the character service interface
type Service interface {
	// Setup walks through creating a new character and saves it once
	Setup(ctx context.Context, chooser prompt.Chooser) (*character.Character, error)

	// LevelUp loads a character, advances it one level and saves it
	LevelUp(ctx context.Context, slug string, chooser prompt.Chooser) (*character.Character, error)

	// Advance levels a character up to target, saving only when persist is set
	Advance(ctx context.Context, c *character.Character, target int, chooser prompt.Chooser, persist bool) error

	// Load retrieves a character by path name
	Load(ctx context.Context, slug string) (*character.Character, error)

	// Save stores a character
	Save(ctx context.Context, c *character.Character) error

	// Delete removes a character
	Delete(ctx context.Context, slug string) error

	// List loads every stored character
	List(ctx context.Context) ([]*Entry, error)

	// Reset reruns setup on an existing character, keeping its ID and name
	Reset(ctx context.Context, slug string, chooser prompt.Chooser) (*character.Character, error)
}

// Entry is one listed record. Err is set when the record could not be loaded.
type Entry struct {
	Slug      string
	Character *character.Character
	Err       error
}

// service implements the Service interface
type service struct {
	repository    Repository
	rules         *rulebook.Rulebook
	machine       *progression.Machine
	uuidGenerator uuid.Generator
	roller        dice.Roller
	logger        *zap.Logger
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Repository    Repository           // Required
	Rules         *rulebook.Rulebook   // Optional, defaults to the bundled tables
	Machine       *progression.Machine // Optional
	UUIDGenerator uuid.Generator       // Optional
	Roller        dice.Roller          // Optional, enables rolled score suggestions during setup
	Logger        *zap.Logger          // Optional
}

// NewService creates a new character service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Repository == nil {
		panic("repository is required")
	}

	svc := &service{
		repository:    cfg.Repository,
		rules:         cfg.Rules,
		machine:       cfg.Machine,
		uuidGenerator: cfg.UUIDGenerator,
		roller:        cfg.Roller,
		logger:        cfg.Logger,
	}
	if svc.rules == nil {
		svc.rules = rulebook.MustDefault()
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if svc.machine == nil {
		svc.machine = progression.NewMachine(&progression.Config{Logger: svc.logger})
	}
	if svc.uuidGenerator == nil {
		svc.uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}

	return svc
}

// LevelUp loads a character, advances it one level and saves it
func (s *service) LevelUp(ctx context.Context, slug string, chooser prompt.Chooser) (*character.Character, error) {
	c, err := s.Load(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.machine.LevelUp(ctx, c, chooser); err != nil {
		return nil, dnderr.Wrapf(err, "failed to level up %s", slug)
	}
	if err := s.Save(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("character levelled up",
		zap.String("slug", c.Slug),
		zap.Int("level", c.Level))
	return c, nil
}

// Advance levels a character up to target, saving only when persist is set
func (s *service) Advance(ctx context.Context, c *character.Character, target int, chooser prompt.Chooser, persist bool) error {
	if err := s.machine.LevelTo(ctx, c, target, chooser); err != nil {
		return dnderr.Wrapf(err, "failed to advance %s to level %d", c.Slug, target)
	}
	if !persist {
		return nil
	}
	return s.Save(ctx, c)
}
