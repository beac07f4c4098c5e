// Package schema has models and constants for all parts of teampulse.
package schema

import (
	"math"
	"strings"
	"time"
)

// Engineer is the identity record for one team member.
// Commits may originate from the primary email or any alias.
type Engineer struct {
	Name    string   `json:"name" mapstructure:"name"`
	Email   string   `json:"email" mapstructure:"email"`
	Aliases []string `json:"aliases,omitempty" mapstructure:"aliases"`
	GitHub  string   `json:"github,omitempty" mapstructure:"github"`
}

// Identities returns the primary email followed by its aliases, without duplicates.
func (e Engineer) Identities() []string {
	seen := make(map[string]struct{}, len(e.Aliases)+1)
	var out []string
	for _, id := range append([]string{e.Email}, e.Aliases...) {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		key := strings.ToLower(id)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Window is a trailing analysis period anchored at Now.
type Window struct {
	Days int       `json:"days"`
	Now  time.Time `json:"now"`
}

// NewWindow builds a window of the given size ending at now.
func NewWindow(days int, now time.Time) Window {
	return Window{Days: days, Now: now}
}

// Start is the inclusive beginning of the window.
func (w Window) Start() time.Time {
	return w.Now.Add(-time.Duration(w.Days) * 24 * time.Hour)
}

// Midpoint splits the window into an older and a recent half.
func (w Window) Midpoint() time.Time {
	return w.Now.Add(-time.Duration(w.Days) * 12 * time.Hour)
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start()) && !t.After(w.Now)
}

// IsRecent reports whether t falls in the recent half of the window.
func (w Window) IsRecent(t time.Time) bool {
	return !t.Before(w.Midpoint())
}

// Weeks is the number of (possibly partial) weeks covered by the window.
func (w Window) Weeks() int {
	weeks := int(math.Ceil(float64(w.Days) / 7))
	if weeks < 1 {
		return 1
	}
	return weeks
}

// ChangeRecord is one commit as reported by the history provider.
type ChangeRecord struct {
	Hash      string    `json:"hash"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Added     int       `json:"lines_added"`
	Removed   int       `json:"lines_removed"`
	Files     []string  `json:"files,omitempty"`
}

// LinesChanged is the sum of added and removed lines.
func (c ChangeRecord) LinesChanged() int {
	return c.Added + c.Removed
}

// Observation is one entry of the shared knowledge log.
type Observation struct {
	Content    string    `json:"content" yaml:"content"`
	Author     string    `json:"author" yaml:"author"`
	Scope      string    `json:"scope" yaml:"scope"`
	Confidence *float64  `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
}

// ConfidenceOrDefault returns the recorded confidence or DefaultConfidence.
func (o Observation) ConfidenceOrDefault() float64 {
	if o.Confidence == nil {
		return DefaultConfidence
	}
	return *o.Confidence
}

// IsOrgWide reports whether the observation applies to the whole organization.
func (o Observation) IsOrgWide() bool {
	switch strings.ToLower(strings.TrimSpace(o.Scope)) {
	case ScopeOrg, "organization", "organization-wide", "global":
		return true
	}
	return false
}

// ActivityCounts are the remote collaboration counts for one handle.
type ActivityCounts struct {
	Submissions    int `json:"submissions"`
	ReviewsGiven   int `json:"reviews_given"`
	ReviewComments int `json:"review_comments"`
	IssuesCreated  int `json:"issues_created"`
	IssueComments  int `json:"issue_comments"`
}

// Add returns the element-wise sum of two counts.
func (a ActivityCounts) Add(b ActivityCounts) ActivityCounts {
	return ActivityCounts{
		Submissions:    a.Submissions + b.Submissions,
		ReviewsGiven:   a.ReviewsGiven + b.ReviewsGiven,
		ReviewComments: a.ReviewComments + b.ReviewComments,
		IssuesCreated:  a.IssuesCreated + b.IssuesCreated,
		IssueComments:  a.IssueComments + b.IssueComments,
	}
}
