// Package checkpoint creates and restores recovery points around risky
// git operations. A checkpoint is a backup branch reference pinned at the
// current HEAD, plus an optional stash snapshot of uncommitted changes,
// recorded in the repository's checkpoint ledger.
package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/gitguard/internal/gitrepo"
	"github.com/fyrsmithlabs/gitguard/internal/ledger"
	"github.com/fyrsmithlabs/gitguard/internal/prompt"
	"github.com/fyrsmithlabs/gitguard/internal/render"
)

// maxNameProbes bounds the collision suffixes tried when two checkpoints
// land in the same second.
const maxNameProbes = 10

// GitRepo is the slice of repository behavior the manager needs.
type GitRepo interface {
	HasCommits() bool
	CreateBackupRef(name string) error
	HardResetTo(name string) error
	StashCreate(ctx context.Context, message string) (string, error)
	StashApply(ctx context.Context, sha string) error
}

// Ledger persists the ordered checkpoint history.
type Ledger interface {
	Load() ([]ledger.Checkpoint, error)
	Prepend(cp ledger.Checkpoint) error
	PopFront() (ledger.Checkpoint, error)
}

// Manager creates and restores checkpoints for one repository.
type Manager struct {
	repo      GitRepo
	store     Ledger
	prompter  prompt.Prompter
	out       io.Writer
	logger    *zap.Logger
	now       func() time.Time
	refPrefix string
}

// Option customizes a Manager.
type Option func(*Manager)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithOutput overrides where user-facing messages are written.
func WithOutput(w io.Writer) Option {
	return func(m *Manager) { m.out = w }
}

// NewManager creates a checkpoint manager.
func NewManager(repo GitRepo, store Ledger, prompter prompt.Prompter, refPrefix string, logger *zap.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		repo:      repo,
		store:     store,
		prompter:  prompter,
		out:       os.Stdout,
		logger:    logger,
		now:       time.Now,
		refPrefix: refPrefix,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create records a checkpoint at the current HEAD and returns it. Creation
// is advisory: when the repository has no commits yet, or any step fails,
// the user is warned and nil is returned so the caller can proceed without
// a safety net.
func (m *Manager) Create(ctx context.Context) *ledger.Checkpoint {
	if !m.repo.HasCommits() {
		fmt.Fprintln(m.out, "Warning: repository has no commits yet; skipping checkpoint.")
		m.logger.Info("checkpoint skipped, unborn HEAD")
		return nil
	}

	stamp := m.now().Format(ledger.TimestampLayout)
	name, err := m.createRef(stamp)
	if err != nil {
		fmt.Fprintf(m.out, "Warning: could not create checkpoint: %v\n", err)
		m.logger.Warn("checkpoint creation failed", zap.Error(err))
		return nil
	}

	cp := ledger.Checkpoint{Ref: name, CreatedAt: stamp}

	sha, err := m.repo.StashCreate(ctx, "gitguard checkpoint "+stamp)
	if err != nil {
		fmt.Fprintf(m.out, "Warning: could not snapshot uncommitted changes: %v\n", err)
		m.logger.Warn("stash snapshot failed", zap.Error(err))
	} else if sha != "" {
		cp.Stash = &sha
	}

	if err := m.store.Prepend(cp); err != nil {
		// An unrecorded checkpoint must not be handed to callers: a later
		// Restore would pop someone else's ledger entry. The ref stays
		// behind for manual recovery.
		fmt.Fprintf(m.out, "Warning: checkpoint %s created but not recorded: %v\n", name, err)
		m.logger.Warn("ledger update failed", zap.String("ref", name), zap.Error(err))
		return nil
	}

	fmt.Fprintf(m.out, "Checkpoint created: %s\n", name)
	m.logger.Info("checkpoint created",
		zap.String("ref", name),
		zap.Bool("stashed", cp.Stash != nil))
	return &cp
}

// createRef tries prefix-stamp, then prefix-stamp-2 and so on until a free
// reference name is found.
func (m *Manager) createRef(stamp string) (string, error) {
	base := m.refPrefix + "-" + stamp
	name := base
	for probe := 2; ; probe++ {
		err := m.repo.CreateBackupRef(name)
		if err == nil {
			return name, nil
		}
		if !errors.Is(err, gitrepo.ErrRefExists) || probe > maxNameProbes {
			return "", err
		}
		name = fmt.Sprintf("%s-%d", base, probe)
	}
}

// RollbackLast restores the most recent checkpoint after confirmation. A
// missing, empty, or unreadable ledger is reported but not an error; only
// a failed hard reset is, and then the ledger is left untouched.
func (m *Manager) RollbackLast(ctx context.Context) error {
	checkpoints, err := m.store.Load()
	if err != nil {
		fmt.Fprintln(m.out, "No usable checkpoints found.")
		m.logger.Warn("ledger unreadable", zap.Error(err))
		return nil
	}
	if len(checkpoints) == 0 {
		fmt.Fprintln(m.out, "No checkpoints found.")
		return nil
	}

	cp := checkpoints[0]
	fmt.Fprintf(m.out, "Most recent checkpoint: %s\n", render.Checkpoint(cp))

	ok, err := m.prompter.Confirm("Restore this checkpoint? All changes since will be discarded.", false)
	if err != nil {
		return fmt.Errorf("reading confirmation: %w", err)
	}
	if !ok {
		fmt.Fprintln(m.out, "Rollback cancelled.")
		return nil
	}

	return m.Restore(ctx, cp)
}

// Restore resets the repository to a checkpoint without asking. The ledger
// entry is only consumed once the hard reset has succeeded; a failed stash
// reapply is a warning since the stash commit survives for manual recovery.
func (m *Manager) Restore(ctx context.Context, cp ledger.Checkpoint) error {
	if err := m.repo.HardResetTo(cp.Ref); err != nil {
		return fmt.Errorf("restoring checkpoint %s: %w", cp.Ref, err)
	}

	if cp.Stash != nil {
		if err := m.repo.StashApply(ctx, *cp.Stash); err != nil {
			fmt.Fprintf(m.out, "Warning: could not restore uncommitted changes: %v\n", err)
			fmt.Fprintf(m.out, "They are preserved in stash commit %s.\n", *cp.Stash)
			m.logger.Warn("stash apply failed", zap.String("sha", *cp.Stash), zap.Error(err))
		}
	}

	if _, err := m.store.PopFront(); err != nil {
		fmt.Fprintf(m.out, "Warning: could not update checkpoint ledger: %v\n", err)
		m.logger.Warn("ledger pop failed", zap.Error(err))
	}

	fmt.Fprintf(m.out, "Restored checkpoint %s.\n", cp.Ref)
	m.logger.Info("checkpoint restored", zap.String("ref", cp.Ref))
	return nil
}
