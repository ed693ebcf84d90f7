// Package gitrecency provides the optional recency signal named in
// spec.md §6.2: a path -> commits_last_90d reader. It is shaped as the
// external-collaborator contract the core defines but does not own — the
// core imposes no git invocation policy, it only consumes a Provider's
// output when one is supplied. Modeled on the teacher's git history
// provider (internal/git/frequency_provider.go's GetRecentCommitCount),
// adapted from ad hoc `time.Duration` windows to the fixed 90-day window
// the scoring engine expects.
package gitrecency

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const recencyWindow = 90 * 24 * time.Hour

// Provider answers commits_last_90d for a path. A nil Provider means the
// signal is dropped entirely (spec.md §6.2).
type Provider interface {
	CommitsLast90d(ctx context.Context, path string) (int, error)
}

// GitProvider shells out to `git rev-list --count` the same way the
// teacher's HistoryProvider does, scoped to one repository root.
type GitProvider struct {
	repoRoot string
}

// NewGitProvider returns a Provider backed by the git CLI, or nil if
// repoRoot is not a git working tree (checked via `git rev-parse`).
func NewGitProvider(ctx context.Context, repoRoot string) (*GitProvider, error) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = repoRoot
	if err := cmd.Run(); err != nil {
		return nil, err
	}
	return &GitProvider{repoRoot: repoRoot}, nil
}

// CommitsLast90d returns the number of commits touching path within the
// last 90 days, via `git rev-list --count --since=<cutoff> HEAD -- path`.
func (g *GitProvider) CommitsLast90d(ctx context.Context, path string) (int, error) {
	since := time.Now().Add(-recencyWindow).Format("2006-01-02T15:04:05")
	cmd := exec.CommandContext(ctx, "git", "rev-list", "--count", "--since="+since, "HEAD", "--", path)
	cmd.Dir = g.repoRoot

	out, err := cmd.Output()
	if err != nil {
		return 0, err
	}
	count, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return 0, err
	}
	return count, nil
}

// BatchCommitsLast90d resolves the signal for every path, skipping any
// path a provider fails on (a failed lookup drops that file's recency
// contribution, it never aborts the batch).
func BatchCommitsLast90d(ctx context.Context, p Provider, paths []string) map[string]int {
	if p == nil {
		return nil
	}
	out := make(map[string]int, len(paths))
	for _, path := range paths {
		if n, err := p.CommitsLast90d(ctx, path); err == nil {
			out[path] = n
		}
	}
	return out
}
