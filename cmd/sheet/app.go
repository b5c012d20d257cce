package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/KirkDiggler/dnd-sheet/internal/config"
	"github.com/KirkDiggler/dnd-sheet/internal/dice"
	"github.com/KirkDiggler/dnd-sheet/internal/domain/character"
	"github.com/KirkDiggler/dnd-sheet/internal/domain/events"
	"github.com/KirkDiggler/dnd-sheet/internal/domain/rulebook"
	dnderr "github.com/KirkDiggler/dnd-sheet/internal/errors"
	"github.com/KirkDiggler/dnd-sheet/internal/prompt"
	"github.com/KirkDiggler/dnd-sheet/internal/repositories/characters"
	charService "github.com/KirkDiggler/dnd-sheet/internal/services/character"
	"github.com/KirkDiggler/dnd-sheet/internal/services/milestones"
	"github.com/KirkDiggler/dnd-sheet/internal/services/progression"
)

const (
	optionDeleteRecord = "Delete the record"
	optionKeepFile     = "Keep the file"
)

// app ties the character service to a console. svc is nil until openStorage runs.
type app struct {
	svc      charService.Service
	rules    *rulebook.Rulebook
	registry *milestones.Registry
	bus      events.Bus
	roller   dice.Roller
	chooser  prompt.Chooser
	out      io.Writer
	logger   *zap.Logger
	closers  []func() error
}

// newApp loads the rule tables and wires the console. Storage is opened
// separately so commands that never touch characters do not depend on it.
func newApp(cfg *config.Config, in io.Reader, out io.Writer, logger *zap.Logger) (*app, error) {
	rules, err := loadRules(cfg)
	if err != nil {
		return nil, err
	}

	registry := milestones.Default()
	if err := registry.Check(rules); err != nil {
		return nil, fmt.Errorf("rule tables do not match the milestone handlers: %w", err)
	}

	a := &app{
		rules:    rules,
		registry: registry,
		bus:      events.NewEventBus(),
		roller:   dice.NewRandomRoller(),
		chooser:  prompt.NewConsole(in, out),
		out:      out,
		logger:   logger,
	}
	a.subscribeProgress(a.bus)
	return a, nil
}

// openStorage connects the configured backend and builds the character service
func (a *app) openStorage(ctx context.Context, cfg *config.Config) error {
	repo, closer, err := openRepository(ctx, cfg, a.logger)
	if err != nil {
		return err
	}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}

	svcCfg := &charService.ServiceConfig{
		Repository: repo,
		Rules:      a.rules,
		Machine: progression.NewMachine(&progression.Config{
			Registry: a.registry,
			Events:   a.bus,
			Logger:   a.logger,
		}),
		Logger: a.logger,
	}
	if cfg.Roll {
		svcCfg.Roller = a.roller
	}
	a.svc = charService.NewService(svcCfg)
	return nil
}

// subscribeProgress prints a line for every level and class feature gained
func (a *app) subscribeProgress(bus events.Bus) {
	bus.Subscribe(events.OnMilestoneResolved, events.NewFuncListener(0, func(e *events.Event) error {
		class, _ := e.GetStringContext(events.ContextClass)
		fmt.Fprintf(a.out, "Level %d %s feature applied.\n", e.Level, displayName(a.rules, class, classKind))
		return nil
	}))
	bus.Subscribe(events.OnLevelGained, events.NewFuncListener(0, func(e *events.Event) error {
		fmt.Fprintf(a.out, "%s reached level %d.\n", e.Character.Name, e.Level)
		return nil
	}))
}

func loadRules(cfg *config.Config) (*rulebook.Rulebook, error) {
	if cfg.RulesPath == "" {
		return rulebook.Default()
	}
	return rulebook.Load(cfg.RulesPath)
}

// openRepository builds the configured storage backend. The returned closer may be nil.
func openRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (characters.Repository, func() error, error) {
	switch cfg.Storage.Kind {
	case config.StorageMemory:
		logger.Warn("using in-memory storage, characters are lost on exit")
		return characters.NewInMemoryRepository(), nil, nil

	case config.StorageSQLite:
		repo, err := characters.OpenSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("using sqlite storage", zap.String("path", cfg.Storage.SQLitePath))
		return repo, repo.Close, nil

	case config.StorageRedis:
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		client := redis.NewClient(opts)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		logger.Debug("using redis storage", zap.String("addr", opts.Addr))
		return characters.NewRedisRepository(&characters.RedisRepoConfig{Client: client}), client.Close, nil

	default:
		logger.Debug("using file storage", zap.String("dir", cfg.Storage.DataDir))
		return characters.NewFileRepository(cfg.Storage.DataDir), nil, nil
	}
}

// Close releases the storage backend
func (a *app) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *app) runNew(ctx context.Context) error {
	c, err := a.svc.Setup(ctx, a.chooser)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %s.\n\n", c.Slug)
	return writeSheet(a.out, c)
}

func (a *app) runLevelUp(ctx context.Context, slug string) error {
	c, err := a.svc.LevelUp(ctx, slug, a.chooser)
	if err != nil {
		return a.recoverCorrupt(ctx, slug, err)
	}
	fmt.Fprintf(a.out, "%s is now level %d.\n\n", c.Name, c.Level)
	return writeSheet(a.out, c)
}

func (a *app) runShow(ctx context.Context, slug string) error {
	c, err := a.svc.Load(ctx, slug)
	if err != nil {
		return a.recoverCorrupt(ctx, slug, err)
	}
	return writeSheet(a.out, c)
}

func (a *app) runList(ctx context.Context) error {
	entries, err := a.svc.List(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No saved characters.")
		return nil
	}
	return writeList(a.out, entries)
}

func (a *app) runDelete(ctx context.Context, slug string) error {
	if err := a.svc.Delete(ctx, slug); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s.\n", slug)
	return nil
}

func (a *app) runReset(ctx context.Context, slug string) error {
	c, err := a.svc.Reset(ctx, slug, a.chooser)
	if err != nil {
		return a.recoverCorrupt(ctx, slug, err)
	}
	fmt.Fprintf(a.out, "Reset %s.\n\n", c.Slug)
	return writeSheet(a.out, c)
}

func (a *app) runRoll(notation string) error {
	result, err := dice.RollString(a.roller, notation)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, result)
	return nil
}

func (a *app) runRollScores() error {
	results, err := dice.RollAbilityScores(a.roller)
	if err != nil {
		return err
	}
	for _, r := range results {
		fmt.Fprintln(a.out, r)
	}
	return nil
}

// recoverCorrupt lets the user decide what happens to a record that cannot be
// read. Other errors pass through untouched.
func (a *app) recoverCorrupt(ctx context.Context, slug string, err error) error {
	if !dnderr.IsCorruptRecord(err) {
		return err
	}

	fmt.Fprintf(a.out, "The saved record for %s is damaged: %s\n", slug, err)
	idx, cerr := a.chooser.Choose(ctx, "What should happen to it?", []string{optionDeleteRecord, optionKeepFile})
	if cerr != nil {
		return cerr
	}
	if idx != 1 {
		fmt.Fprintf(a.out, "Kept %s untouched.\n", slug)
		return nil
	}
	if derr := a.svc.Delete(ctx, slug); derr != nil {
		return derr
	}
	fmt.Fprintf(a.out, "Deleted %s.\n", slug)
	return nil
}

func describe(c *character.Character) string {
	return fmt.Sprintf("%s, level %d %s", c.Name, c.Level, displayName(c.Rules(), c.Class, classKind))
}
