package agg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/teampulse/internal/contract"
)

const sampleLog = `--a1|Alice@Corp.com|2024-06-20T10:00:00Z|fix: handle nil config
10	2	core/config.go
3	0	core/config_test.go

--b2|bob@corp.com|2024-06-18T09:30:00+02:00|feat: add | pipe in subject
120	40	api/server.go
-	-	assets/logo.png

--c3|alice@corp.com|2024-06-10T08:00:00Z|refactor: move files
5	5	{old => new}/handler.go
1	1	docs/a.md => docs/b.md
`

func TestParseChangeLog(t *testing.T) {
	records := parseChangeLog([]byte(sampleLog))
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, "a1", first.Hash)
	assert.Equal(t, "alice@corp.com", first.Author, "author is lower-cased")
	assert.Equal(t, "fix: handle nil config", first.Message)
	assert.Equal(t, 13, first.Added)
	assert.Equal(t, 2, first.Removed)
	assert.Equal(t, []string{"core/config.go", "core/config_test.go"}, first.Files)
	assert.Equal(t, time.Date(2024, 6, 20, 10, 0, 0, 0, time.UTC), first.Timestamp.UTC())

	second := records[1]
	assert.Equal(t, "feat: add | pipe in subject", second.Message)
	assert.Equal(t, 160, second.LinesChanged(), "binary numstat counts as zero")
	assert.Equal(t, []string{"api/server.go", "assets/logo.png"}, second.Files)

	assert.Equal(t, []string{"new/handler.go", "docs/b.md"}, records[2].Files)
}

func TestParseChangeLog_Malformed(t *testing.T) {
	out := "--bad-header\n1\t1\tlost.go\n--x|a@b.c|not-a-date|msg\n2\t2\tlost2.go\n\ngarbage line\n"
	assert.Empty(t, parseChangeLog([]byte(out)))
	assert.Empty(t, parseChangeLog(nil))
}

func TestParseChurnValue(t *testing.T) {
	assert.Equal(t, 0, parseChurnValue("-"))
	assert.Equal(t, 0, parseChurnValue("abc"))
	assert.Equal(t, 0, parseChurnValue("-5"))
	assert.Equal(t, 42, parseChurnValue("42"))
}

func TestResolveRenamePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain/file.go", "plain/file.go"},
		{"old.go => new.go", "new.go"},
		{"pkg/{a => b}/file.go", "pkg/b/file.go"},
		{"pkg/{ => sub}/file.go", "pkg/sub/file.go"},
		{"pkg/{sub => }/file.go", "pkg/file.go"},
		{"pkg/{broken => x/file.go", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resolveRenamePath(tt.in), tt.in)
	}
}

func TestGitHistory_Commits(t *testing.T) {
	client := &contract.MockGitClient{}
	since := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	client.On("GetChangeLog", mock.Anything, "/repo", "alice@corp.com", since).Return([]byte(sampleLog), nil).Once()
	client.On("GetChangeLog", mock.Anything, "/repo", "bob@corp.com", since).Return(nil, errors.New("boom")).Once()

	h := NewGitHistory(client, "/repo")
	records, err := h.Commits(context.Background(), "alice@corp.com", since)
	require.NoError(t, err)
	assert.Len(t, records, 3)

	_, err = h.Commits(context.Background(), "bob@corp.com", since)
	assert.EqualError(t, err, "boom")
	client.AssertExpectations(t)
}

func TestGitHistory_RepositoryLogMemoized(t *testing.T) {
	client := &contract.MockGitClient{}
	since := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	client.On("GetChangeLog", mock.Anything, "/repo", "", since).Return([]byte(sampleLog), nil).Once()

	h := NewGitHistory(client, "/repo")
	first, err := h.RepositoryLog(context.Background(), since)
	require.NoError(t, err)
	second, err := h.RepositoryLog(context.Background(), since)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	client.AssertExpectations(t)
}

func TestGitHistory_RepositoryLogBounded(t *testing.T) {
	client := &contract.MockGitClient{}
	client.On("GetChangeLog", mock.Anything, "/repo", "", mock.Anything).Return([]byte(sampleLog), nil)

	h := NewGitHistory(client, "/repo")
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := range maxRepoLogs * 3 {
		_, err := h.RepositoryLog(context.Background(), start.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}
	assert.LessOrEqual(t, len(h.repoLogs), maxRepoLogs)
}
