package contract

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// skipIfGitNotAvailable skips the test if git binary is not found in PATH
func skipIfGitNotAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skipf("git binary not found in PATH: %v", err)
	}
}

// initTestRepo creates a repository with one commit per author.
func initTestRepo(t *testing.T, authors ...string) string {
	t.Helper()
	dir := t.TempDir()
	git := func(env []string, args ...string) {
		cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
		cmd.Env = append(os.Environ(), env...)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	git(nil, "init", "-q")
	for i, email := range authors {
		name := filepath.Join(dir, email+".txt")
		require.NoError(t, os.WriteFile(name, []byte("line\n"), 0o644))
		git(nil, "add", ".")
		date := time.Now().Add(-time.Duration(i+1) * time.Hour).Format(time.RFC3339)
		git([]string{
			"GIT_AUTHOR_NAME=" + email, "GIT_AUTHOR_EMAIL=" + email, "GIT_AUTHOR_DATE=" + date,
			"GIT_COMMITTER_NAME=" + email, "GIT_COMMITTER_EMAIL=" + email, "GIT_COMMITTER_DATE=" + date,
		}, "-c", "commit.gpgsign=false", "commit", "-q", "-m", "fix: change by "+email)
	}
	return dir
}

func TestNewLocalGitClient(t *testing.T) {
	client := NewLocalGitClient(0)
	assert.NotNil(t, client)
	assert.IsType(t, &LocalGitClient{}, client)

	// a non-positive bound falls back to the configured default
	assert.True(t, client.sem.TryAcquire(DefaultGitConcurrency))
	assert.False(t, client.sem.TryAcquire(1))
	client.sem.Release(DefaultGitConcurrency)

	bounded := NewLocalGitClient(2)
	assert.True(t, bounded.sem.TryAcquire(2))
	assert.False(t, bounded.sem.TryAcquire(1))
}

func TestLocalGitClient_Run(t *testing.T) {
	skipIfGitNotAvailable(t)
	client := NewLocalGitClient(1)
	ctx := context.Background()

	_, err := client.Run(ctx, "/nonexistent/path", "status")
	assert.Error(t, err)

	repo := initTestRepo(t, "a@corp.com")
	_, err = client.Run(ctx, repo, "invalid-command")
	assert.Error(t, err)

	out, err := client.Run(ctx, repo, "rev-parse", "HEAD")
	assert.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestLocalGitClient_GetRepoRoot(t *testing.T) {
	skipIfGitNotAvailable(t)
	client := NewLocalGitClient(1)
	ctx := context.Background()
	repo := initTestRepo(t, "a@corp.com")

	root, err := client.GetRepoRoot(ctx, repo)
	require.NoError(t, err)
	expected, _ := filepath.EvalSymlinks(repo)
	actual, _ := filepath.EvalSymlinks(root)
	assert.Equal(t, expected, actual)

	_, err = client.GetRepoRoot(ctx, "/nonexistent/path")
	assert.Error(t, err)
}

func TestLocalGitClient_GetChangeLog(t *testing.T) {
	skipIfGitNotAvailable(t)
	client := NewLocalGitClient(2)
	ctx := context.Background()
	repo := initTestRepo(t, "a@corp.com", "b@corp.com", "ba@corp.com")
	since := time.Now().AddDate(0, 0, -1)

	all, err := client.GetChangeLog(ctx, repo, "", since)
	require.NoError(t, err)
	for _, email := range []string{"a@corp.com", "b@corp.com", "ba@corp.com"} {
		assert.Contains(t, string(all), "|"+email+"|")
	}

	onlyA, err := client.GetChangeLog(ctx, repo, "a@corp.com", since)
	require.NoError(t, err)
	assert.Contains(t, string(onlyA), "|a@corp.com|")
	assert.NotContains(t, string(onlyA), "|ba@corp.com|", "author filter must match the whole address")

	future, err := client.GetChangeLog(ctx, repo, "", time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, string(future))
}

func TestLocalGitClient_ContextCanceled(t *testing.T) {
	client := NewLocalGitClient(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Run(ctx, ".", "status")
	assert.Error(t, err)
}
