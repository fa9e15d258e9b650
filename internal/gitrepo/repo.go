package gitrepo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"go.uber.org/zap"
)

// Common repository errors.
var (
	// ErrNotARepository indicates the directory is not a git repository.
	ErrNotARepository = errors.New("not a git repository")

	// ErrNoCommits indicates HEAD is unborn (no commits yet).
	ErrNoCommits = errors.New("repository has no commits")

	// ErrRefExists indicates a backup reference name is already taken.
	ErrRefExists = errors.New("reference already exists")
)

// Repository is a handle to one local working copy.
type Repository struct {
	dir    string
	repo   *git.Repository
	gitBin string
	logger *zap.Logger
}

// IsRepo reports whether dir is the root of a git working copy.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// Open opens the repository rooted at dir.
func Open(dir string, logger *zap.Logger) (*Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	repo, err := git.PlainOpen(dir)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotARepository, dir)
		}
		return nil, fmt.Errorf("opening repository %s: %w", dir, err)
	}
	return &Repository{
		dir:    dir,
		repo:   repo,
		gitBin: "git",
		logger: logger,
	}, nil
}

// Dir returns the working tree root.
func (r *Repository) Dir() string {
	return r.dir
}

// GitDir returns the repository metadata directory (.git). The checkpoint
// ledger lives underneath it.
func (r *Repository) GitDir() string {
	return filepath.Join(r.dir, ".git")
}

// HasCommits reports whether HEAD resolves to a commit.
func (r *Repository) HasCommits() bool {
	_, err := r.repo.Head()
	return err == nil
}

// CreateBackupRef creates a branch reference named name pointing at the
// current HEAD commit without checking it out. Returns ErrRefExists when
// the name is taken and ErrNoCommits when HEAD is unborn.
func (r *Repository) CreateBackupRef(name string) error {
	refName := plumbing.NewBranchReferenceName(name)
	if _, err := r.repo.Reference(refName, false); err == nil {
		return fmt.Errorf("%w: %s", ErrRefExists, name)
	}

	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoCommits, err)
	}

	ref := plumbing.NewHashReference(refName, head.Hash())
	if err := r.repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("creating reference %s: %w", name, err)
	}

	r.logger.Debug("backup reference created",
		zap.String("ref", name),
		zap.String("commit", head.Hash().String()))
	return nil
}

// HardResetTo forces the working tree and HEAD to the commit a branch
// reference points at. Anything committed since is discarded.
func (r *Repository) HardResetTo(name string) error {
	ref, err := r.repo.Reference(plumbing.NewBranchReferenceName(name), true)
	if err != nil {
		return fmt.Errorf("resolving reference %s: %w", name, err)
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("opening worktree: %w", err)
	}
	if err := wt.Reset(&git.ResetOptions{
		Commit: ref.Hash(),
		Mode:   git.HardReset,
	}); err != nil {
		return fmt.Errorf("hard reset to %s: %w", name, err)
	}

	r.logger.Info("hard reset complete",
		zap.String("ref", name),
		zap.String("commit", ref.Hash().String()))
	return nil
}

// ListRefs returns the names of branch references starting with prefix, in
// the iteration order of the ref store.
func (r *Repository) ListRefs(prefix string) ([]string, error) {
	iter, err := r.repo.References()
	if err != nil {
		return nil, fmt.Errorf("listing references: %w", err)
	}

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if !ref.Name().IsBranch() {
			return nil
		}
		short := ref.Name().Short()
		if strings.HasPrefix(short, prefix) {
			names = append(names, short)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating references: %w", err)
	}
	return names, nil
}

// DeleteRef removes a branch reference.
func (r *Repository) DeleteRef(name string) error {
	refName := plumbing.NewBranchReferenceName(name)
	if _, err := r.repo.Reference(refName, false); err != nil {
		return fmt.Errorf("resolving reference %s: %w", name, err)
	}
	if err := r.repo.Storer.RemoveReference(refName); err != nil {
		return fmt.Errorf("deleting reference %s: %w", name, err)
	}
	r.logger.Debug("reference deleted", zap.String("ref", name))
	return nil
}
