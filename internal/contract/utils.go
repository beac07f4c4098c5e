package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/huangsam/teampulse/schema"
)

// Health label constants.
const (
	CriticalValue  = "Critical"   // overall < 50
	NeedsHelpValue = "Needs Help" // overall < 65
	WatchValue     = "Watch"      // overall < 75
	HealthyValue   = "Healthy"    // overall >= 75
)

// Color variables for console output.
var (
	CriticalColor  = color.New(color.FgRed, color.Bold)
	NeedsHelpColor = color.New(color.FgMagenta, color.Bold)
	WatchColor     = color.New(color.FgYellow)
	HealthyColor   = color.New(color.FgGreen)
)

// GetPlainLabel returns a plain text label for an overall score. This is the
// core logic used for CSV, JSON, and table printing.
func GetPlainLabel(score int) string {
	switch {
	case score < schema.CriticalThreshold:
		return CriticalValue
	case score < schema.NeedsSupportThreshold:
		return NeedsHelpValue
	case score < schema.HealthyThreshold:
		return WatchValue
	default:
		return HealthyValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(score int) string {
	text := GetPlainLabel(score)
	switch text {
	case CriticalValue:
		return CriticalColor.Sprint(text)
	case NeedsHelpValue:
		return NeedsHelpColor.Sprint(text)
	case WatchValue:
		return WatchColor.Sprint(text)
	default:
		return HealthyColor.Sprint(text)
	}
}

// GetSeverityColor returns the console color for an alert severity.
func GetSeverityColor(s schema.Severity) *color.Color {
	switch s {
	case schema.SeverityCritical:
		return CriticalColor
	case schema.SeverityWarning:
		return WatchColor
	default:
		return HealthyColor
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// NewLogger builds the shared structured logger writing to stderr.
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log-level %q. must be debug, info, warn, error", level)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for snapshot history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".teampulse_history.db"
	}
	return filepath.Join(homeDir, ".teampulse_history.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// An empty string is treated as true.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "", "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
