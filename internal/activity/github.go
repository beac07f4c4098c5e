// Package activity fetches remote review and issue activity from GitHub.
package activity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/huangsam/teampulse/internal/contract"
	"github.com/huangsam/teampulse/schema"
)

// Timeout bounds accepted for a single API call.
const (
	MinTimeout     = 10 * time.Second
	MaxTimeout     = 30 * time.Second
	DefaultTimeout = 20 * time.Second
)

const searchTimeFormat = time.RFC3339

// Options configures a GitHubProvider.
type Options struct {
	Owner             string
	Repo              string
	Token             string
	ProtectedBranches []string
	Timeout           time.Duration
	RequestsPerSecond float64
}

// GitHubProvider implements contract.ActivityProvider with the search API.
type GitHubProvider struct {
	client   *github.Client
	opts     Options
	limiter  *rate.Limiter
	logger   *zap.Logger
	hasToken bool
}

// NewGitHubProvider builds a provider. A missing token yields a provider that reports itself unavailable.
func NewGitHubProvider(opts Options, logger *zap.Logger) *GitHubProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	opts.Timeout = min(max(opts.Timeout, MinTimeout), MaxTimeout)
	if len(opts.ProtectedBranches) == 0 {
		opts.ProtectedBranches = []string{"main", "develop"}
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	client := github.NewClient(nil)
	if opts.Token != "" {
		client = client.WithAuthToken(opts.Token)
	}
	return &GitHubProvider{
		client:   client,
		opts:     opts,
		limiter:  rate.NewLimiter(limit, 1),
		logger:   logger,
		hasToken: opts.Token != "",
	}
}

// Available reports whether an authenticated call succeeds within the timeout.
func (p *GitHubProvider) Available(ctx context.Context) (bool, string) {
	if !p.hasToken {
		return false, "no GitHub token configured"
	}
	if p.opts.Owner == "" {
		return false, "no GitHub owner configured"
	}
	ctx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()
	if _, _, err := p.client.Users.Get(ctx, ""); err != nil {
		return false, fmt.Sprintf("GitHub API unreachable: %v", err)
	}
	return true, ""
}

// Activity counts pull requests, reviews and issues of the handle in [start, end).
func (p *GitHubProvider) Activity(ctx context.Context, handle string, start, end time.Time) (schema.ActivityCounts, error) {
	var counts schema.ActivityCounts
	if handle == "" {
		return counts, fmt.Errorf("%w: empty handle", contract.ErrProviderUnavailable)
	}
	created := timeRange("created", start, end)
	updated := timeRange("updated", start, end)

	for _, base := range p.opts.ProtectedBranches {
		n, err := p.count(ctx, "is:pr", "author:"+handle, "base:"+base, created)
		if err != nil {
			return schema.ActivityCounts{}, err
		}
		counts.Submissions += n
	}

	queries := []struct {
		target *int
		terms  []string
	}{
		{&counts.ReviewsGiven, []string{"is:pr", "reviewed-by:" + handle, "-author:" + handle, updated}},
		{&counts.ReviewComments, []string{"is:pr", "commenter:" + handle, "-author:" + handle, updated}},
		{&counts.IssuesCreated, []string{"is:issue", "author:" + handle, created}},
		{&counts.IssueComments, []string{"is:issue", "commenter:" + handle, updated}},
	}
	for _, q := range queries {
		n, err := p.count(ctx, q.terms...)
		if err != nil {
			return schema.ActivityCounts{}, err
		}
		*q.target = n
	}
	p.logger.Debug("Fetched GitHub activity",
		zap.String("handle", handle),
		zap.Time("start", start),
		zap.Time("end", end),
		zap.Any("counts", counts))
	return counts, nil
}

// count runs one throttled search and returns its total.
func (p *GitHubProvider) count(ctx context.Context, terms ...string) (int, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("%w: %v", contract.ErrProviderUnavailable, err)
	}
	ctx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	query := strings.Join(append([]string{p.scope()}, terms...), " ")
	result, _, err := p.client.Search.Issues(ctx, query, &github.SearchOptions{
		ListOptions: github.ListOptions{PerPage: 1},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return 0, fmt.Errorf("%w: search timed out after %v", contract.ErrProviderUnavailable, p.opts.Timeout)
		}
		return 0, fmt.Errorf("%w: %v", contract.ErrProviderUnavailable, err)
	}
	return result.GetTotal(), nil
}

func (p *GitHubProvider) scope() string {
	if p.opts.Repo != "" {
		return fmt.Sprintf("repo:%s/%s", p.opts.Owner, p.opts.Repo)
	}
	return "org:" + p.opts.Owner
}

// timeRange bounds a qualifier to [start, end) so adjacent ranges never share a match.
func timeRange(qualifier string, start, end time.Time) string {
	return fmt.Sprintf("%s:>=%s %s:<%s",
		qualifier, start.UTC().Format(searchTimeFormat),
		qualifier, end.UTC().Format(searchTimeFormat))
}
