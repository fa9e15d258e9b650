package gitrepo

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// StashCreate captures the working tree's uncommitted modifications as an
// unreferenced stash commit and returns its SHA. A clean tree yields an
// empty SHA and no error. The working tree is left untouched.
func (r *Repository) StashCreate(ctx context.Context, message string) (string, error) {
	out, err := r.runGit(ctx, "stash", "create", message)
	if err != nil {
		return "", fmt.Errorf("stash create: %w", err)
	}
	sha := strings.TrimSpace(out)
	if sha != "" {
		r.logger.Debug("stash snapshot created", zap.String("sha", sha))
	}
	return sha, nil
}

// StashApply reapplies a stash commit on top of the current tree without
// creating a commit or dropping the stash.
func (r *Repository) StashApply(ctx context.Context, sha string) error {
	if _, err := r.runGit(ctx, "stash", "apply", sha); err != nil {
		return fmt.Errorf("stash apply %s: %w", sha, err)
	}
	return nil
}

// Commit records the staged changes with the given message. body may be
// empty.
func (r *Repository) Commit(ctx context.Context, subject, body string) error {
	args := []string{"commit", "-m", subject}
	if body != "" {
		args = append(args, "-m", body)
	}
	if _, err := r.runGit(ctx, args...); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	r.logger.Info("commit created", zap.String("subject", subject))
	return nil
}

// StagedDiff returns the diff of staged changes against HEAD.
func (r *Repository) StagedDiff(ctx context.Context) (string, error) {
	out, err := r.runGit(ctx, "diff", "--cached")
	if err != nil {
		return "", fmt.Errorf("staged diff: %w", err)
	}
	return out, nil
}

// Diff returns the diff of the working tree (staged and unstaged) against
// HEAD.
func (r *Repository) Diff(ctx context.Context) (string, error) {
	out, err := r.runGit(ctx, "diff", "HEAD")
	if err != nil {
		return "", fmt.Errorf("diff: %w", err)
	}
	return out, nil
}

// runGit runs one git plumbing invocation in the repository root.
func (r *Repository) runGit(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, r.gitBin, args...)
	cmd.Dir = r.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), msg)
	}
	return stdout.String(), nil
}
