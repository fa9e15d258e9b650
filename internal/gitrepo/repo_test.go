package gitrepo

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func initRepo(t *testing.T) (*Repository, *git.Repository) {
	t.Helper()
	dir := t.TempDir()
	raw, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	// The git binary needs an identity for stash commits.
	cfg, err := raw.Config()
	require.NoError(t, err)
	cfg.User.Name = "test"
	cfg.User.Email = "test@example.com"
	require.NoError(t, raw.SetConfig(cfg))

	repo, err := Open(dir, zap.NewNop())
	require.NoError(t, err)
	return repo, raw
}

func commitFile(t *testing.T, raw *git.Repository, dir, name, content, msg string) plumbing.Hash {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))

	wt, err := raw.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)

	hash, err := wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return hash
}

func TestOpenNotARepository(t *testing.T) {
	_, err := Open(t.TempDir(), zap.NewNop())
	require.ErrorIs(t, err, ErrNotARepository)
}

func TestIsRepo(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, IsRepo(dir))

	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	assert.True(t, IsRepo(dir))
}

func TestHasCommits(t *testing.T) {
	repo, raw := initRepo(t)
	assert.False(t, repo.HasCommits())

	commitFile(t, raw, repo.Dir(), "a.txt", "one", "initial")
	assert.True(t, repo.HasCommits())
}

func TestCreateBackupRef(t *testing.T) {
	repo, raw := initRepo(t)
	head := commitFile(t, raw, repo.Dir(), "a.txt", "one", "initial")

	require.NoError(t, repo.CreateBackupRef("gitguard-backup-20240101_120000"))

	ref, err := raw.Reference(plumbing.NewBranchReferenceName("gitguard-backup-20240101_120000"), false)
	require.NoError(t, err)
	assert.Equal(t, head, ref.Hash())
}

func TestCreateBackupRefCollision(t *testing.T) {
	repo, raw := initRepo(t)
	commitFile(t, raw, repo.Dir(), "a.txt", "one", "initial")

	require.NoError(t, repo.CreateBackupRef("gitguard-backup-20240101_120000"))
	err := repo.CreateBackupRef("gitguard-backup-20240101_120000")
	require.ErrorIs(t, err, ErrRefExists)
}

func TestCreateBackupRefNoCommits(t *testing.T) {
	repo, _ := initRepo(t)

	err := repo.CreateBackupRef("gitguard-backup-20240101_120000")
	require.ErrorIs(t, err, ErrNoCommits)
}

func TestHardResetTo(t *testing.T) {
	repo, raw := initRepo(t)
	commitFile(t, raw, repo.Dir(), "a.txt", "one", "initial")
	require.NoError(t, repo.CreateBackupRef("gitguard-backup-20240101_120000"))

	commitFile(t, raw, repo.Dir(), "a.txt", "two", "second")

	require.NoError(t, repo.HardResetTo("gitguard-backup-20240101_120000"))

	content, err := os.ReadFile(filepath.Join(repo.Dir(), "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "one", string(content))
}

func TestHardResetToMissingRef(t *testing.T) {
	repo, raw := initRepo(t)
	commitFile(t, raw, repo.Dir(), "a.txt", "one", "initial")

	err := repo.HardResetTo("gitguard-backup-19990101_000000")
	require.Error(t, err)
}

func TestListAndDeleteRefs(t *testing.T) {
	repo, raw := initRepo(t)
	commitFile(t, raw, repo.Dir(), "a.txt", "one", "initial")

	require.NoError(t, repo.CreateBackupRef("gitguard-backup-20240101_120000"))
	require.NoError(t, repo.CreateBackupRef("gitguard-backup-20240102_120000"))

	refs, err := repo.ListRefs("gitguard-backup-")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"gitguard-backup-20240101_120000",
		"gitguard-backup-20240102_120000",
	}, refs)

	require.NoError(t, repo.DeleteRef("gitguard-backup-20240101_120000"))

	refs, err = repo.ListRefs("gitguard-backup-")
	require.NoError(t, err)
	assert.Equal(t, []string{"gitguard-backup-20240102_120000"}, refs)
}

func TestDeleteRefMissing(t *testing.T) {
	repo, raw := initRepo(t)
	commitFile(t, raw, repo.Dir(), "a.txt", "one", "initial")

	require.Error(t, repo.DeleteRef("gitguard-backup-19990101_000000"))
}

// Stash and diff go through the git binary; skip when it is unavailable.
func requireGitBinary(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

func TestStashCreateCleanTree(t *testing.T) {
	requireGitBinary(t)
	repo, raw := initRepo(t)
	commitFile(t, raw, repo.Dir(), "a.txt", "one", "initial")

	sha, err := repo.StashCreate(context.Background(), "gitguard checkpoint")
	require.NoError(t, err)
	assert.Empty(t, sha)
}

func TestStashCreateAndApply(t *testing.T) {
	requireGitBinary(t)
	repo, raw := initRepo(t)
	commitFile(t, raw, repo.Dir(), "a.txt", "one", "initial")

	// Dirty the tracked file, snapshot it, then lose and restore the edit.
	path := filepath.Join(repo.Dir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("dirty"), 0o644))

	sha, err := repo.StashCreate(context.Background(), "gitguard checkpoint")
	require.NoError(t, err)
	require.NotEmpty(t, sha)

	// Snapshot creation must not touch the working tree.
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "dirty", string(content))

	require.NoError(t, os.WriteFile(path, []byte("one"), 0o644))
	require.NoError(t, repo.StashApply(context.Background(), sha))

	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "dirty", string(content))
}

func TestCommit(t *testing.T) {
	requireGitBinary(t)
	repo, raw := initRepo(t)
	commitFile(t, raw, repo.Dir(), "a.txt", "one\n", "initial")

	require.NoError(t, os.WriteFile(filepath.Join(repo.Dir(), "b.txt"), []byte("two\n"), 0o644))
	wt, err := raw.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("b.txt")
	require.NoError(t, err)

	require.NoError(t, repo.Commit(context.Background(), "feat: add b", "adds the second file"))

	head, err := raw.Head()
	require.NoError(t, err)
	commit, err := raw.CommitObject(head.Hash())
	require.NoError(t, err)
	assert.Contains(t, commit.Message, "feat: add b")
}

func TestStagedDiff(t *testing.T) {
	requireGitBinary(t)
	repo, raw := initRepo(t)
	commitFile(t, raw, repo.Dir(), "a.txt", "one\n", "initial")

	require.NoError(t, os.WriteFile(filepath.Join(repo.Dir(), "a.txt"), []byte("two\n"), 0o644))
	wt, err := raw.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("a.txt")
	require.NoError(t, err)

	diff, err := repo.StagedDiff(context.Background())
	require.NoError(t, err)
	assert.Contains(t, diff, "-one")
	assert.Contains(t, diff, "+two")
}
