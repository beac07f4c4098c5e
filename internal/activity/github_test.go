package activity

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/teampulse/internal/contract"
)

type fakeGitHub struct {
	mu      sync.Mutex
	queries []string
	totals  map[string]int
	status  int

	// prsCreated are creation times of pull requests by any author, matched
	// against the created bounds of submission queries.
	prsCreated []time.Time
}

var (
	createdFrom  = regexp.MustCompile(`created:>=(\S+)`)
	createdUntil = regexp.MustCompile(`created:<(\S+)`)
)

// countCreated counts prsCreated inside the [from, until) bounds of q.
func (f *fakeGitHub) countCreated(q string) int {
	from, until := createdFrom.FindStringSubmatch(q), createdUntil.FindStringSubmatch(q)
	if from == nil || until == nil {
		return 0
	}
	start, err1 := time.Parse(time.RFC3339, from[1])
	end, err2 := time.Parse(time.RFC3339, until[1])
	if err1 != nil || err2 != nil {
		return 0
	}
	n := 0
	for _, at := range f.prsCreated {
		if !at.Before(start) && at.Before(end) {
			n++
		}
	}
	return n
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = fmt.Fprint(w, `{"message":"boom"}`)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/user":
		_, _ = fmt.Fprint(w, `{"login":"octocat"}`)
	case "/search/issues":
		q := r.URL.Query().Get("q")
		f.mu.Lock()
		f.queries = append(f.queries, q)
		f.mu.Unlock()
		total := 0
		if strings.Contains(q, "is:pr author:") {
			total += f.countCreated(q)
		}
		for marker, n := range f.totals {
			if strings.Contains(q, marker) {
				total += n
			}
		}
		_, _ = fmt.Fprintf(w, `{"total_count":%d,"incomplete_results":false,"items":[]}`, total)
	default:
		http.NotFound(w, r)
	}
}

func newTestProvider(t *testing.T, fake *fakeGitHub, opts Options) *GitHubProvider {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	p := NewGitHubProvider(opts, nil)
	base, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	p.client.BaseURL = base
	return p
}

func TestNewGitHubProvider_Defaults(t *testing.T) {
	p := NewGitHubProvider(Options{Owner: "acme", Timeout: time.Second}, nil)
	assert.Equal(t, MinTimeout, p.opts.Timeout)
	assert.Equal(t, []string{"main", "develop"}, p.opts.ProtectedBranches)

	p = NewGitHubProvider(Options{Owner: "acme", Timeout: time.Minute}, nil)
	assert.Equal(t, MaxTimeout, p.opts.Timeout)

	p = NewGitHubProvider(Options{Owner: "acme"}, nil)
	assert.Equal(t, DefaultTimeout, p.opts.Timeout)
}

func TestAvailable(t *testing.T) {
	ok, reason := NewGitHubProvider(Options{Owner: "acme"}, nil).Available(context.Background())
	assert.False(t, ok)
	assert.Contains(t, reason, "token")

	p := newTestProvider(t, &fakeGitHub{}, Options{Owner: "acme", Token: "t"})
	ok, reason = p.Available(context.Background())
	assert.True(t, ok)
	assert.Empty(t, reason)

	p = newTestProvider(t, &fakeGitHub{status: http.StatusUnauthorized}, Options{Owner: "acme", Token: "bad"})
	ok, reason = p.Available(context.Background())
	assert.False(t, ok)
	assert.Contains(t, reason, "unreachable")
}

func TestActivity_Counts(t *testing.T) {
	fake := &fakeGitHub{totals: map[string]int{
		"is:pr author:dev base:main":    3,
		"is:pr author:dev base:develop": 1,
		"reviewed-by:dev":               4,
		"is:pr commenter:dev":           7,
		"is:issue author:dev":           2,
		"is:issue commenter:dev":        5,
	}}
	p := newTestProvider(t, fake, Options{Owner: "acme", Repo: "api", Token: "t", ProtectedBranches: []string{"main", "develop"}})

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	counts, err := p.Activity(context.Background(), "dev", start, end)
	require.NoError(t, err)

	assert.Equal(t, 4, counts.Submissions)
	assert.Equal(t, 4, counts.ReviewsGiven)
	assert.Equal(t, 7, counts.ReviewComments)
	assert.Equal(t, 2, counts.IssuesCreated)
	assert.Equal(t, 5, counts.IssueComments)

	require.Len(t, fake.queries, 6)
	for _, q := range fake.queries {
		assert.True(t, strings.HasPrefix(q, "repo:acme/api "), q)
	}
	assert.Contains(t, fake.queries[0], "created:>=2024-06-01T00:00:00Z created:<2024-06-30T00:00:00Z")
}

func TestActivity_OrgScope(t *testing.T) {
	fake := &fakeGitHub{}
	p := newTestProvider(t, fake, Options{Owner: "acme", Token: "t", ProtectedBranches: []string{"main"}})
	_, err := p.Activity(context.Background(), "dev", time.Now().AddDate(0, 0, -7), time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, fake.queries)
	assert.True(t, strings.HasPrefix(fake.queries[0], "org:acme "))
}

func TestActivity_ErrorsWrapUnavailable(t *testing.T) {
	p := newTestProvider(t, &fakeGitHub{status: http.StatusInternalServerError}, Options{Owner: "acme", Token: "t"})
	_, err := p.Activity(context.Background(), "dev", time.Now().AddDate(0, 0, -7), time.Now())
	assert.ErrorIs(t, err, contract.ErrProviderUnavailable)

	_, err = p.Activity(context.Background(), "", time.Now(), time.Now())
	assert.ErrorIs(t, err, contract.ErrProviderUnavailable)
}

func TestTimeRange(t *testing.T) {
	start := time.Date(2024, 1, 2, 23, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 9, 1, 30, 0, 0, time.FixedZone("CEST", 2*60*60))
	assert.Equal(t, "created:>=2024-01-02T23:00:00Z created:<2024-01-08T23:30:00Z", timeRange("created", start, end))
}

func TestActivity_AdjacentRangesDoNotOverlap(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	start := now.AddDate(0, 0, -30)
	mid := start.Add(now.Sub(start) / 2) // 2024-06-15T12:00Z

	tests := []struct {
		name          string
		created       time.Time
		older, recent int
	}{
		{"same day before midpoint", time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC), 1, 0},
		{"exactly at midpoint", mid, 0, 1},
		{"same day after midpoint", time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC), 0, 1},
		{"window start day before start", time.Date(2024, 5, 31, 6, 0, 0, 0, time.UTC), 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeGitHub{prsCreated: []time.Time{tt.created}}
			p := newTestProvider(t, fake, Options{Owner: "acme", Repo: "api", Token: "t", ProtectedBranches: []string{"main"}})

			older, err := p.Activity(context.Background(), "dev", start, mid)
			require.NoError(t, err)
			recent, err := p.Activity(context.Background(), "dev", mid, now)
			require.NoError(t, err)

			assert.Equal(t, tt.older, older.Submissions)
			assert.Equal(t, tt.recent, recent.Submissions)
			assert.LessOrEqual(t, older.Submissions+recent.Submissions, 1)
		})
	}
}
