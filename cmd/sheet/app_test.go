package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	mockdice "github.com/KirkDiggler/dnd-sheet/internal/dice/mock"
	"github.com/KirkDiggler/dnd-sheet/internal/domain/events"
	"github.com/KirkDiggler/dnd-sheet/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-sheet/internal/prompt"
	mockprompt "github.com/KirkDiggler/dnd-sheet/internal/prompt/mock"
	"github.com/KirkDiggler/dnd-sheet/internal/repositories/characters"
	charService "github.com/KirkDiggler/dnd-sheet/internal/services/character"
	"github.com/KirkDiggler/dnd-sheet/internal/testutils"
)

func newTestApp(t *testing.T, repo characters.Repository, chooser prompt.Chooser) (*app, *bytes.Buffer) {
	t.Helper()

	rules := rulebook.MustDefault()
	logger := zaptest.NewLogger(t)
	out := &bytes.Buffer{}
	return &app{
		svc: charService.NewService(&charService.ServiceConfig{
			Repository: repo,
			Rules:      rules,
			Logger:     logger,
		}),
		rules:   rules,
		roller:  mockdice.NewManualMockRoller(),
		chooser: chooser,
		out:     out,
		logger:  logger,
	}, out
}

func writeCorruptFile(t *testing.T, dir, slug string) string {
	t.Helper()
	path := filepath.Join(dir, slug+".csv")
	require.NoError(t, os.WriteFile(path, []byte("garbage\n"), 0o644))
	return path
}

func TestRunShow(t *testing.T) {
	ctx := context.Background()
	repo := characters.NewInMemoryRepository()
	require.NoError(t, repo.Save(ctx, testutils.CreateTestRecord(t, "id-1", "Tordek")))

	a, out := newTestApp(t, repo, mockprompt.NewManualChooser())
	require.NoError(t, a.runShow(ctx, "Tordek"))

	sheet := out.String()
	assert.Contains(t, sheet, "Level 1 Fighter")
	assert.Contains(t, sheet, "Human, Soldier")
	assert.Contains(t, sheet, "Proficiency bonus  +2")
	assert.Contains(t, sheet, "+5 *")
}

func TestRunShow_CorruptRecord(t *testing.T) {
	tests := []struct {
		name      string
		answer    string
		wantFile  bool
		wantPrint string
	}{
		{name: "delete", answer: optionDeleteRecord, wantFile: false, wantPrint: "Deleted Broken."},
		{name: "keep", answer: optionKeepFile, wantFile: true, wantPrint: "Kept Broken untouched."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeCorruptFile(t, dir, "Broken")

			a, out := newTestApp(t, characters.NewFileRepository(dir), mockprompt.NewManualChooser(tt.answer))
			require.NoError(t, a.runShow(context.Background(), "Broken"))

			assert.Contains(t, out.String(), "damaged")
			assert.Contains(t, out.String(), tt.wantPrint)
			_, err := os.Stat(path)
			assert.Equal(t, tt.wantFile, err == nil)
		})
	}
}

func TestRunList(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo := characters.NewFileRepository(dir)
	require.NoError(t, repo.Save(ctx, testutils.CreateTestRecord(t, "id-1", "Tordek")))
	writeCorruptFile(t, dir, "Broken")

	a, out := newTestApp(t, repo, mockprompt.NewManualChooser())
	require.NoError(t, a.runList(ctx))

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "PATH NAME"))
	assert.True(t, strings.HasPrefix(lines[1], "Broken"))
	assert.Contains(t, lines[1], "unreadable")
	assert.True(t, strings.HasPrefix(lines[2], "Tordek"))
	assert.Contains(t, lines[2], "Fighter")
}

func TestRunList_Empty(t *testing.T) {
	a, out := newTestApp(t, characters.NewInMemoryRepository(), mockprompt.NewManualChooser())
	require.NoError(t, a.runList(context.Background()))
	assert.Equal(t, "No saved characters.\n", out.String())
}

func TestRunRoll(t *testing.T) {
	a, out := newTestApp(t, characters.NewInMemoryRepository(), mockprompt.NewManualChooser())
	a.roller.(*mockdice.ManualMockRoller).SetRolls([]int{3, 4})

	require.NoError(t, a.runRoll("2d6+1"))
	assert.Equal(t, "8 [3,4] +1\n", out.String())

	assert.Error(t, a.runRoll("d"))
}

func TestRunMenu_LevelUpThenQuit(t *testing.T) {
	ctx := context.Background()
	repo := characters.NewInMemoryRepository()
	require.NoError(t, repo.Save(ctx, testutils.CreateTestRecord(t, "id-1", "Tordek")))

	// open, first character, level up, back, quit
	in := strings.NewReader("2\n1\n1\n5\n3\n")
	out := &bytes.Buffer{}
	a, _ := newTestApp(t, repo, prompt.NewConsole(in, out))
	a.out = out

	require.NoError(t, a.runMenu(ctx))

	rec, err := repo.Get(ctx, "Tordek")
	require.NoError(t, err)
	assert.Equal(t, "2", rec["Level"])
	assert.Contains(t, out.String(), "Tordek, level 2 Fighter")
}

func TestRunMenu_EndsOnEOF(t *testing.T) {
	out := &bytes.Buffer{}
	a, _ := newTestApp(t, characters.NewInMemoryRepository(), prompt.NewConsole(strings.NewReader(""), out))
	a.out = out

	assert.NoError(t, a.runMenu(context.Background()))
}

func TestRunMenu_ReportsRecoverableErrors(t *testing.T) {
	ctx := context.Background()
	repo := characters.NewInMemoryRepository()
	char := testutils.CreateTestCharacter(t, "id-1", "Tordek")
	char.Level = rulebook.MaxLevel
	require.NoError(t, char.Recalculate())
	rec, err := char.ToRecord()
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, rec))

	// open, first character, level up past 20, back, quit
	in := strings.NewReader("2\n1\n1\n5\n3\n")
	out := &bytes.Buffer{}
	a, _ := newTestApp(t, repo, prompt.NewConsole(in, out))
	a.out = out

	require.NoError(t, a.runMenu(ctx))
	assert.Contains(t, out.String(), "Error:")
}

func TestSubscribeProgress(t *testing.T) {
	a, out := newTestApp(t, characters.NewInMemoryRepository(), mockprompt.NewManualChooser())
	bus := events.NewEventBus()
	a.subscribeProgress(bus)

	char := testutils.CreateTestCharacter(t, "id-1", "Tordek")
	require.NoError(t, bus.Emit(events.NewEvent(events.OnMilestoneResolved, char, 6).
		WithContext(events.ContextClass, "fighter")))
	require.NoError(t, bus.Emit(events.NewEvent(events.OnLevelGained, char, 6)))

	assert.Equal(t, "Level 6 Fighter feature applied.\nTordek reached level 6.\n", out.String())
}

func TestRootCommand_RollWithoutStorage(t *testing.T) {
	// nothing listens on port 1, so any attempt to open redis fails
	t.Setenv("SHEET_STORAGE", "redis")
	t.Setenv("REDIS_URL", "redis://127.0.0.1:1/0")

	root, cleanup := newRootCommand()
	defer cleanup()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"roll", "1d1"})

	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Equal(t, "1 [1]\n", out.String())
}

func TestRootCommand_StorageFailure(t *testing.T) {
	t.Setenv("SHEET_STORAGE", "redis")
	t.Setenv("REDIS_URL", "redis://127.0.0.1:1/0")

	root, cleanup := newRootCommand()
	defer cleanup()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"list"})

	err := root.ExecuteContext(context.Background())
	var ee *exitErr
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 2, ee.code)
	assert.Contains(t, ee.msg, "failed to connect to Redis")
}
