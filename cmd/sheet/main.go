package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KirkDiggler/dnd-sheet/internal/config"
)

// Commands annotated with storageUnused run without opening the storage backend
const (
	annotationStorage = "storage"
	storageUnused     = "unused"
)

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

// codeError returns an exitErr for the given code.
func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, cleanup := newRootCommand()
	err := root.ExecuteContext(ctx)
	cleanup()
	if err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, "Error:", ee.msg)
			os.Exit(ee.code)
		}
		// cobra already printed the error
		os.Exit(1)
	}
}

// newRootCommand builds the command tree. cleanup releases whatever storage
// the invoked command opened.
func newRootCommand() (root *cobra.Command, cleanup func()) {
	var a *app
	cleanup = func() {
		if a == nil {
			return
		}
		if err := a.Close(); err != nil {
			fmt.Fprintln(os.Stderr, "Error closing storage:", err)
		}
	}

	root = &cobra.Command{
		Use:   "sheet",
		Short: "Create and level D&D character sheets",
		Long:  "sheet walks through character setup, levels characters up and keeps their derived stats in step.",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return codeError(3, "invalid configuration: %s", err)
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return codeError(3, "failed to build logger: %s", err)
			}
			a, err = newApp(cfg, cmd.InOrStdin(), cmd.OutOrStdout(), logger)
			if err != nil {
				return codeError(2, "%s", err)
			}
			if cmd.Annotations[annotationStorage] == storageUnused {
				return nil
			}
			if err := a.openStorage(cmd.Context(), cfg); err != nil {
				return codeError(2, "%s", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runMenu(cmd.Context())
		},
		SilenceUsage: true,
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "new",
			Short: "Create a character",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.runNew(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "levelup <path-name>",
			Short: "Advance a character one level",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runLevelUp(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "show <path-name>",
			Short: "Print a character sheet",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runShow(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List saved characters",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.runList(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "delete <path-name>",
			Short: "Delete a saved character",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runDelete(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "reset <path-name>",
			Short: "Redo setup for a character, keeping its name",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runReset(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:         "roll [notation]",
			Short:       "Roll dice, or a set of ability scores when no notation is given",
			Args:        cobra.MaximumNArgs(1),
			Annotations: map[string]string{annotationStorage: storageUnused},
			RunE: func(_ *cobra.Command, args []string) error {
				if len(args) == 0 {
					return a.runRollScores()
				}
				return a.runRoll(args[0])
			},
		},
	)

	return root, cleanup
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{"stderr"}
	return zcfg.Build()
}
