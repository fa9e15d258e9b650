package executor

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestExecutor(t *testing.T) (*Executor, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	e := New(Config{Dir: t.TempDir(), Stdout: &out}, zap.NewNop())
	return e, &out
}

func TestRunAllSucceed(t *testing.T) {
	e, out := newTestExecutor(t)

	err := e.Run(context.Background(), []string{"echo first", "echo second"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "first")
	assert.Contains(t, out.String(), "second")
}

func TestRunEmptySequence(t *testing.T) {
	e, _ := newTestExecutor(t)

	require.NoError(t, e.Run(context.Background(), nil))
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	e, out := newTestExecutor(t)

	err := e.Run(context.Background(), []string{
		"echo before",
		"echo oops >&2; exit 3",
		"echo after",
	})

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 1, cmdErr.Index)
	assert.Equal(t, "echo oops >&2; exit 3", cmdErr.Command)
	assert.Equal(t, "oops", cmdErr.Stderr)

	assert.Contains(t, out.String(), "before")
	assert.NotContains(t, out.String(), "after")
}

func TestRunCommandsSeeWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	e := New(Config{Dir: dir, Stdout: &bytes.Buffer{}}, zap.NewNop())

	require.NoError(t, e.Run(context.Background(), []string{"echo made-by-test > marker.txt"}))

	content, err := os.ReadFile(filepath.Join(dir, "marker.txt"))
	require.NoError(t, err)
	assert.Equal(t, "made-by-test\n", string(content))
}

func TestRunFailureWithoutStderr(t *testing.T) {
	e, _ := newTestExecutor(t)

	err := e.Run(context.Background(), []string{"exit 1"})

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Empty(t, cmdErr.Stderr)
	assert.Contains(t, cmdErr.Error(), "exit 1")
}

func TestRunCancelledContext(t *testing.T) {
	e, _ := newTestExecutor(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := e.Run(ctx, []string{"echo never"})
	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 0, cmdErr.Index)
}
