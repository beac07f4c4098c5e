// Package agg turns raw Git logs into change records for the analyzers.
package agg

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/huangsam/teampulse/internal/contract"
	"github.com/huangsam/teampulse/schema"
)

// GitHistory implements contract.HistoryProvider on top of a GitClient.
type GitHistory struct {
	client   contract.GitClient
	repoPath string

	mu       sync.Mutex
	repoLogs map[int64][]schema.ChangeRecord // keyed by since (unix seconds)
}

var _ contract.HistoryProvider = &GitHistory{} // Compile-time check

// maxRepoLogs bounds the memoized repository logs.
const maxRepoLogs = 8

// NewGitHistory creates a history provider for the repository at repoPath.
func NewGitHistory(client contract.GitClient, repoPath string) *GitHistory {
	return &GitHistory{
		client:   client,
		repoPath: repoPath,
		repoLogs: make(map[int64][]schema.ChangeRecord),
	}
}

// Commits implements the HistoryProvider interface.
func (h *GitHistory) Commits(ctx context.Context, identity string, since time.Time) ([]schema.ChangeRecord, error) {
	out, err := h.client.GetChangeLog(ctx, h.repoPath, identity, since)
	if err != nil {
		return nil, err
	}
	return parseChangeLog(out), nil
}

// RepositoryLog implements the HistoryProvider interface.
// Every engineer of a team run asks for the same window, so the parsed log is
// memoized per start time.
func (h *GitHistory) RepositoryLog(ctx context.Context, since time.Time) ([]schema.ChangeRecord, error) {
	key := since.Unix()
	h.mu.Lock()
	if records, ok := h.repoLogs[key]; ok {
		h.mu.Unlock()
		return records, nil
	}
	h.mu.Unlock()

	out, err := h.client.GetChangeLog(ctx, h.repoPath, "", since)
	if err != nil {
		return nil, err
	}
	records := parseChangeLog(out)

	h.mu.Lock()
	if len(h.repoLogs) >= maxRepoLogs {
		// long-running servers see a new start time on every request
		clear(h.repoLogs)
	}
	h.repoLogs[key] = records
	h.mu.Unlock()
	return records, nil
}

// parseChangeLog processes the git log output into one record per commit.
func parseChangeLog(out []byte) []schema.ChangeRecord {
	lines := strings.Split(string(out), "\n")
	var records []schema.ChangeRecord
	current := -1 // index into records

	for _, l := range lines {
		l = strings.TrimRight(l, " \r")

		if strings.HasPrefix(l, "--") {
			// Commit header line
			record, ok := parseCommitHeader(l)
			if !ok {
				current = -1
				continue
			}
			records = append(records, record)
			current = len(records) - 1
			continue
		}
		if l == "" || current < 0 {
			continue
		}

		// File stats line
		path, add, del, ok := parseFileStatsLine(l)
		if !ok {
			continue
		}
		records[current].Added += add
		records[current].Removed += del
		records[current].Files = append(records[current].Files, path)
	}

	return records
}

// parseCommitHeader extracts hash, author, date and subject from a commit header line.
func parseCommitHeader(line string) (schema.ChangeRecord, bool) {
	if !strings.HasPrefix(line, "--") || len(line) < 7 { // --a|b|c|d minimum
		return schema.ChangeRecord{}, false
	}
	parts := strings.SplitN(line[2:], "|", 4) // hash|email|date|subject
	if len(parts) != 4 {
		return schema.ChangeRecord{}, false
	}
	date, err := time.Parse(time.RFC3339, parts[2])
	if err != nil {
		return schema.ChangeRecord{}, false
	}
	return schema.ChangeRecord{
		Hash:      parts[0],
		Author:    strings.ToLower(parts[1]),
		Timestamp: date,
		Message:   parts[3],
	}, true
}

// parseFileStatsLine parses a numstat line into the path and churn values.
func parseFileStatsLine(line string) (string, int, int, bool) {
	parts := strings.SplitN(line, "\t", 3)
	if len(parts) < 3 {
		return "", 0, 0, false
	}
	path := resolveRenamePath(parts[2])
	if path == "" {
		return "", 0, 0, false
	}
	return path, parseChurnValue(parts[0]), parseChurnValue(parts[1]), true
}

// parseChurnValue converts a churn string to int, handling "-" (binary files) as 0.
func parseChurnValue(s string) int {
	if s == "-" {
		return 0
	}
	if val, err := strconv.Atoi(s); err == nil && val >= 0 {
		return val
	}
	return 0
}

// resolveRenamePath returns the post-rename path of a numstat entry.
func resolveRenamePath(path string) string {
	if !strings.Contains(path, " => ") {
		return path
	}

	if !strings.Contains(path, "{") {
		// Simple format: "old => new"
		parts := strings.SplitN(path, " => ", 2)
		return parts[1]
	}

	// Braced format: prefix{old => new}suffix
	braceStart := strings.Index(path, "{")
	braceEnd := strings.Index(path, "}")
	if braceStart == -1 || braceEnd == -1 || braceStart >= braceEnd {
		return ""
	}

	prefix := path[:braceStart]
	renamePart := path[braceStart+1 : braceEnd]
	suffix := path[braceEnd+1:]

	renameParts := strings.SplitN(renamePart, " => ", 2)
	if len(renameParts) != 2 {
		return ""
	}
	return strings.ReplaceAll(prefix+renameParts[1]+suffix, "//", "/")
}
