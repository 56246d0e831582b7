package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lingodeck/internal/config"
	"github.com/vytor/lingodeck/internal/flashcard"
	"github.com/vytor/lingodeck/internal/models"
)

func TestLoadPresets_Builtin(t *testing.T) {
	presets, err := config.LoadPresets("")
	require.NoError(t, err)

	assert.Equal(t, []string{"default", "intensive", "relaxed", "vocabulary"}, presets.Names())

	def, ok := presets.Get("default")
	require.True(t, ok)
	assert.Equal(t, models.DefaultDeckPolicy(), def)

	relaxed, ok := presets.Get("relaxed")
	require.True(t, ok)
	assert.Equal(t, 10, relaxed.NewPerDay)
	assert.Equal(t, []float64{10}, relaxed.LearningSteps)
	assert.Equal(t, models.LeechSuspend, relaxed.LeechAction)
	assert.True(t, relaxed.BuryNewSiblings)
	assert.Equal(t, 36500, relaxed.MaxInterval, "unset fields keep the default")
}

func TestLoadPresets_FileOverridesBuiltin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
relaxed:
  new_per_day: 5
exam:
  max_interval: 30
  easy_interval: 3
`), 0o600))

	presets, err := config.LoadPresets(path)
	require.NoError(t, err)

	relaxed, _ := presets.Get("relaxed")
	assert.Equal(t, 5, relaxed.NewPerDay)
	assert.Equal(t, models.LeechTag, relaxed.LeechAction, "a file preset replaces the builtin one entirely")

	exam, ok := presets.Get("exam")
	require.True(t, ok)
	assert.Equal(t, 30, exam.MaxInterval)
	assert.Contains(t, presets.Names(), "intensive")
}

func TestParsePresets_InvalidPolicy(t *testing.T) {
	_, err := config.ParsePresets([]byte(`
broken:
  max_interval: 2
  easy_interval: 4
`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, flashcard.ErrInvalidPolicy))
	assert.Contains(t, err.Error(), `preset "broken"`)
}

func TestParsePresets_MalformedYAML(t *testing.T) {
	_, err := config.ParsePresets([]byte("default: [unclosed"))
	assert.Error(t, err)
}

func TestLoadPresets_MissingFile(t *testing.T) {
	_, err := config.LoadPresets(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
