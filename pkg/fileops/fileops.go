// Package fileops provides the local copy, link and run primitives used by
// the installer.
//
// Destinations are overwritten unconditionally and parent directories are
// created as needed, so repeated installs are idempotent. Copying or
// linking a file onto itself is a no-op.
package fileops

import (
	stderrors "errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/arthur-debert/lares/pkg/errors"
	"github.com/mitchellh/go-homedir"
)

// CopyFile copies the contents of src to dst, expanding a leading tilde in
// dst. The destination keeps the source's permission bits so staged
// scripts stay executable.
func CopyFile(src, dst string) error {
	target, err := homedir.Expand(dst)
	if err != nil {
		return errors.Wrapf(err, errors.ErrCopy, "failed to expand %s", dst)
	}

	if sameEntry(src, target) {
		return nil
	}
	if err := prepareDestination(target); err != nil {
		return errors.Wrapf(err, errors.ErrCopy, "failed to prepare %s", target)
	}

	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrCopy, "failed to open %s", src)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return errors.Wrapf(err, errors.ErrCopy, "failed to stat %s", src)
	}

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errors.Wrapf(err, errors.ErrCopy, "failed to create %s", target)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return errors.Wrapf(err, errors.ErrCopy, "failed to copy %s to %s", src, target)
	}
	return nil
}

// LinkFile creates a symbolic link at dst pointing at the resolved
// absolute path of src, expanding a leading tilde in dst. Where symlinks
// are unavailable a hard link is created instead.
func LinkFile(src, dst string) error {
	target, err := homedir.Expand(dst)
	if err != nil {
		return errors.Wrapf(err, errors.ErrLink, "failed to expand %s", dst)
	}

	if sameEntry(src, target) {
		return nil
	}

	// Resolving the source also surfaces a missing file as a soft error
	// instead of leaving a dangling link behind.
	source, err := filepath.Abs(src)
	if err == nil {
		source, err = filepath.EvalSymlinks(source)
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrLink, "failed to resolve %s", src)
	}

	if err := prepareDestination(target); err != nil {
		return errors.Wrapf(err, errors.ErrLink, "failed to prepare %s", target)
	}

	if err := os.Symlink(source, target); err != nil {
		if linkErr := os.Link(source, target); linkErr != nil {
			return errors.Wrapf(err, errors.ErrLink, "failed to link %s to %s", src, target)
		}
	}
	return nil
}

// RunCommand executes command with the platform shell (sh on Unix, cmd.exe
// on Windows) in dir, streaming output to the given writers.
func RunCommand(command, dir string, stdout, stderr io.Writer) error {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd.exe", "/C", command)
	} else {
		cmd = exec.Command("sh", "-c", command)
	}
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			return errors.Newf(errors.ErrRun, "process exited with %s", exitErr.ProcessState)
		}
		return errors.Wrapf(err, errors.ErrRun, "failed to execute %q", command)
	}
	return nil
}

// sameEntry reports whether two paths resolve to the same absolute path
func sameEntry(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// prepareDestination creates dst's parent directories and removes any
// existing entry at dst, including dangling symlinks that os.Stat misses.
func prepareDestination(dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	if _, err := os.Lstat(dst); err == nil {
		return os.Remove(dst)
	}
	return nil
}
