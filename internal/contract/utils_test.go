package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/teampulse/schema"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, CriticalValue},
		{49, CriticalValue},
		{50, NeedsHelpValue},
		{64, NeedsHelpValue},
		{65, WatchValue},
		{74, WatchValue},
		{75, HealthyValue},
		{100, HealthyValue},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GetPlainLabel(tt.score), "score=%d", tt.score)
	}
}

func TestGetColorLabel(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	assert.Equal(t, CriticalValue, GetColorLabel(10))
	assert.Equal(t, HealthyValue, GetColorLabel(90))
	assert.Equal(t, WatchColor, GetSeverityColor(schema.SeverityWarning))
	assert.Equal(t, CriticalColor, GetSeverityColor(schema.SeverityCritical))
	assert.Equal(t, HealthyColor, GetSeverityColor(schema.SeverityPositive))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"", "yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v, s)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

func TestSelectOutputFile(t *testing.T) {
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, f)

	path := filepath.Join(t.TempDir(), "out.json")
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	assert.NoError(t, f.Close())
	assert.FileExists(t, path)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = NewLogger("loud")
	assert.Error(t, err)
}

func TestGetHistoryDBFilePath(t *testing.T) {
	assert.Contains(t, GetHistoryDBFilePath(), ".teampulse_history.db")
}
