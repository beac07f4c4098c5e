package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"
)

// ChangeLogFormat is the header format of every commit in GetChangeLog output.
const ChangeLogFormat = "--%H|%ae|%aI|%s"

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct {
	sem *semaphore.Weighted
}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a local Git client allowing at most maxConcurrent
// git processes at once.
func NewLocalGitClient(maxConcurrent int) *LocalGitClient {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultGitConcurrency
	}
	return &LocalGitClient{sem: semaphore.NewWeighted(int64(maxConcurrent))}
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for git slot: %w", err)
	}
	defer c.sem.Release(1)

	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s. If this is not a Git repository, verify repo-path or run 'git init'", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// GetRepoRoot implements the GitClient interface.
func (c *LocalGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetChangeLog implements the GitClient interface.
func (c *LocalGitClient) GetChangeLog(ctx context.Context, repoPath string, author string, since time.Time) ([]byte, error) {
	args := []string{
		"log",
		"--no-merges",
		"--numstat",
		"--pretty=format:" + ChangeLogFormat,
		"--regexp-ignore-case",
	}
	if author != "" {
		// match the full address, not a substring of another one
		args = append(args, "--author=<"+author+">")
	}
	if !since.IsZero() {
		args = append(args, "--since="+since.Format(DateTimeFormat))
	}
	return c.Run(ctx, repoPath, args...)
}
