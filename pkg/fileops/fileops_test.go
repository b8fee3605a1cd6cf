package fileops

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/lares/pkg/errors"
	"github.com/arthur-debert/lares/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFileCreatesParentDirs(t *testing.T) {
	tmp := t.TempDir()
	src := testutil.CreateFile(t, tmp, "foo", "contents of foo")
	dst := filepath.Join(tmp, "dir1", "dir2", "bar")

	require.NoError(t, CopyFile(src, dst))
	assert.Equal(t, "contents of foo", testutil.ReadFile(t, dst))
}

func TestCopyFileSameFileIsNoop(t *testing.T) {
	tmp := t.TempDir()
	src := testutil.CreateFile(t, tmp, "foo", "contents of foo")

	require.NoError(t, CopyFile(src, src))
	assert.Equal(t, "contents of foo", testutil.ReadFile(t, src))
}

func TestCopyFileOverwritesExisting(t *testing.T) {
	tmp := t.TempDir()
	src := testutil.CreateFile(t, tmp, "foo", "new contents")
	dst := testutil.CreateFile(t, tmp, "bar", "old contents")

	require.NoError(t, CopyFile(src, dst))
	assert.Equal(t, "new contents", testutil.ReadFile(t, dst))
}

func TestCopyFileOverwritesDanglingSymlink(t *testing.T) {
	testutil.SkipOnWindows(t)
	tmp := t.TempDir()
	src := testutil.CreateFile(t, tmp, "foo", "contents of foo")
	dst := filepath.Join(tmp, "bar")
	require.NoError(t, os.Symlink(filepath.Join(tmp, "missing"), dst))

	require.NoError(t, CopyFile(src, dst))
	assert.Equal(t, "contents of foo", testutil.ReadFile(t, dst))
}

func TestCopyFileExpandsTilde(t *testing.T) {
	home := testutil.TempHome(t)
	tmp := t.TempDir()
	src := testutil.CreateFile(t, tmp, "foo", "contents of foo")

	require.NoError(t, CopyFile(src, "~/dir/bar"))
	assert.Equal(t, "contents of foo", testutil.ReadFile(t, filepath.Join(home, "dir", "bar")))
}

func TestCopyFileMissingSource(t *testing.T) {
	tmp := t.TempDir()
	err := CopyFile(filepath.Join(tmp, "missing"), filepath.Join(tmp, "bar"))

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCopy))
}

func TestCopyFilePreservesMode(t *testing.T) {
	testutil.SkipOnWindows(t)
	tmp := t.TempDir()
	src := filepath.Join(tmp, "script.sh")
	require.NoError(t, os.WriteFile(src, []byte("exit 0"), 0755))
	dst := filepath.Join(tmp, "out", "script.sh")

	require.NoError(t, CopyFile(src, dst))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestLinkFilePointsAtAbsoluteSource(t *testing.T) {
	testutil.SkipOnWindows(t)
	tmp := t.TempDir()
	src := testutil.CreateFile(t, tmp, "vimrc", "set number")
	dst := filepath.Join(tmp, "dir", ".vimrc")

	require.NoError(t, LinkFile(src, dst))

	target, err := os.Readlink(dst)
	require.NoError(t, err)
	resolved, err := filepath.EvalSymlinks(src)
	require.NoError(t, err)
	assert.Equal(t, resolved, target)
	assert.True(t, filepath.IsAbs(target))
}

func TestLinkFileSeesSourceUpdates(t *testing.T) {
	testutil.SkipOnWindows(t)
	tmp := t.TempDir()
	src := testutil.CreateFile(t, tmp, "foo", "old contents")
	dst := filepath.Join(tmp, "bar")

	require.NoError(t, LinkFile(src, dst))
	testutil.CreateFile(t, tmp, "foo", "new contents")

	assert.Equal(t, "new contents", testutil.ReadFile(t, dst))
}

func TestLinkFileOverwritesExisting(t *testing.T) {
	testutil.SkipOnWindows(t)
	tmp := t.TempDir()
	src := testutil.CreateFile(t, tmp, "foo", "linked contents")
	dst := testutil.CreateFile(t, tmp, "bar", "old contents")

	require.NoError(t, LinkFile(src, dst))
	assert.Equal(t, "linked contents", testutil.ReadFile(t, dst))
}

func TestLinkFileMissingSource(t *testing.T) {
	tmp := t.TempDir()
	err := LinkFile(filepath.Join(tmp, "missing"), filepath.Join(tmp, "bar"))

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrLink))
	// No dangling link must be left behind
	_, lerr := os.Lstat(filepath.Join(tmp, "bar"))
	assert.True(t, os.IsNotExist(lerr))
}

func TestRunCommandSuccess(t *testing.T) {
	testutil.SkipOnWindows(t)
	tmp := t.TempDir()
	testutil.CreateFile(t, tmp, "foo.sh", "exit 0")

	var out, errOut bytes.Buffer
	assert.NoError(t, RunCommand("sh foo.sh", tmp, &out, &errOut))
}

func TestRunCommandFailure(t *testing.T) {
	testutil.SkipOnWindows(t)
	tmp := t.TempDir()
	testutil.CreateFile(t, tmp, "foo.sh", "exit 2")

	var out, errOut bytes.Buffer
	err := RunCommand("sh foo.sh", tmp, &out, &errOut)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrRun))
	assert.Contains(t, err.Error(), "exit status 2")
}

func TestRunCommandArguments(t *testing.T) {
	testutil.SkipOnWindows(t)
	tmp := t.TempDir()
	out := filepath.Join(tmp, "bar")
	testutil.CreateFile(t, tmp, "foo.sh", fmt.Sprintf("echo $@ > %s", out))

	var stdout, stderr bytes.Buffer
	require.NoError(t, RunCommand("sh foo.sh arg1 arg2", tmp, &stdout, &stderr))
	assert.Equal(t, "arg1 arg2\n", testutil.ReadFile(t, out))
}

func TestRunCommandRunsInDir(t *testing.T) {
	testutil.SkipOnWindows(t)
	tmp := t.TempDir()
	testutil.CreateFile(t, tmp, "foo.sh", "pwd")

	var stdout, stderr bytes.Buffer
	require.NoError(t, RunCommand("sh foo.sh", tmp, &stdout, &stderr))

	resolved, err := filepath.EvalSymlinks(tmp)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), resolved)
}
