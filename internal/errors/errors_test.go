package errors_test

import (
	"errors"
	"fmt"
	"testing"

	dnderr "github.com/KirkDiggler/dnd-sheet/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_PreservesCode(t *testing.T) {
	base := dnderr.CorruptRecordf("field %q is missing", "Stats").WithMeta("field", "Stats")

	wrapped := dnderr.Wrap(base, "failed to load character")

	require.NotNil(t, wrapped)
	assert.Equal(t, dnderr.CodeCorruptRecord, wrapped.Code)
	assert.True(t, dnderr.IsCorruptRecord(wrapped))
	assert.Equal(t, "Stats", dnderr.GetMeta(wrapped)["field"])
	assert.Equal(t, `failed to load character: field "Stats" is missing`, wrapped.Error())
	assert.True(t, errors.Is(wrapped, base))
}

func TestWrap_ForeignErrorIsUnknown(t *testing.T) {
	wrapped := dnderr.Wrap(errors.New("disk full"), "failed to save")
	assert.Equal(t, dnderr.CodeUnknown, dnderr.GetCode(wrapped))
	assert.Nil(t, dnderr.Wrap(nil, "nothing"))
}

func TestIsRecoverable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"invalid selection", dnderr.InvalidSelection("invalid selection"), true},
		{"cap exceeded", dnderr.AbilityCapExceededf("Strength cannot exceed 20"), true},
		{"wrapped selection", fmt.Errorf("prompt: %w", dnderr.InvalidSelectionf("pick 1-%d", 3)), true},
		{"corrupt record", dnderr.CorruptRecordf("bad"), false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dnderr.IsRecoverable(tt.err))
		})
	}
}

func TestWrapWithCode(t *testing.T) {
	err := dnderr.WrapWithCode(errors.New("no such file"), dnderr.CodeNotFound, "character not found")
	assert.True(t, dnderr.IsNotFound(err))
}
