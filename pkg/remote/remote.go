// Package remote transfers staged files to another machine and runs
// commands there, using the system scp and ssh programs.
//
// Files are first staged via the staging tree, then flushed in one batch:
//
//	tree, _ := staging.New()
//	client := remote.New("user@hostname", tree)
//	_ = client.Stage("foo.sh", "~/foo.sh")
//	_ = client.Flush()
//	_ = client.Run("sh foo.sh")
package remote

import (
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/lares/pkg/errors"
	"github.com/arthur-debert/lares/pkg/logging"
	"github.com/arthur-debert/lares/pkg/staging"
	"github.com/rs/zerolog"
)

// InstallDir is the well-known directory under the remote home used as the
// destination for staged run scripts and as the working directory for
// remote commands.
const InstallDir = ".lares"

// ExecFunc runs an external program to completion. It is injectable so
// transport behavior can be tested without spawning ssh or scp.
type ExecFunc func(name string, args ...string) error

// Client stages files locally and talks to one remote host. Host may be an
// SSH alias or a user@hostname string.
type Client struct {
	host    string
	tree    *staging.Tree
	sshArgs []string
	scpArgs []string
	exec    ExecFunc
	logger  zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithSSHArgs prepends extra arguments to every ssh invocation.
func WithSSHArgs(args []string) Option {
	return func(c *Client) { c.sshArgs = args }
}

// WithSCPArgs prepends extra arguments to every scp invocation.
func WithSCPArgs(args []string) Option {
	return func(c *Client) { c.scpArgs = args }
}

// WithExec replaces the process runner.
func WithExec(exec ExecFunc) Option {
	return func(c *Client) { c.exec = exec }
}

// New creates a Client for host, staging files in tree.
func New(host string, tree *staging.Tree, opts ...Option) *Client {
	c := &Client{
		host:   host,
		tree:   tree,
		exec:   runProcess,
		logger: logging.GetLogger("remote"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ResolveDst anchors a relative destination under the remote install
// directory. Tilde-prefixed and absolute destinations pass through.
func ResolveDst(dst string) string {
	if strings.HasPrefix(dst, "~") || filepath.IsAbs(dst) {
		return dst
	}
	return path.Join("~", InstallDir, dst)
}

// Stage copies src into the staging location resolved for dst.
func (c *Client) Stage(src, dst string) error {
	return c.tree.Stage(src, dst)
}

// Flush transfers the staged files to the remote host, merging them into
// the remote home directory and filesystem root, then deletes the local
// subtrees. Flushing an empty tree is a no-op.
func (c *Client) Flush() error {
	subtrees := []struct {
		dir string
		dst string
	}{
		{c.tree.HomeDir(), "~"},
		{c.tree.RootDir(), "/"},
	}

	for _, sub := range subtrees {
		if _, err := os.Stat(sub.dir); os.IsNotExist(err) {
			continue
		}
		if err := c.sendDir(sub.dir, sub.dst); err != nil {
			return err
		}
		if err := os.RemoveAll(sub.dir); err != nil {
			return errors.Wrapf(err, errors.ErrTransfer,
				"failed to remove staging dir %s after use", sub.dir)
		}
	}
	return nil
}

// sendDir transfers the contents of dir item by item so the directory
// itself does not end up nested one level deep on the remote side.
func (c *Client) sendDir(dir, dst string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrTransfer, "failed to list contents of %s", dir)
	}

	for _, entry := range entries {
		args := append([]string{}, c.scpArgs...)
		args = append(args, "-r", filepath.Join(dir, entry.Name()),
			fmt.Sprintf("%s:%s", c.host, dst))

		c.logger.Debug().Strs("args", args).Msg("Running scp")
		if err := c.exec("scp", args...); err != nil {
			return errors.Newf(errors.ErrTransfer,
				"scp %s terminated unsuccessfully: %v", entry.Name(), err)
		}
	}
	return nil
}

// Run executes command on the remote host inside the install directory.
func (c *Client) Run(command string) error {
	remoteCmd := fmt.Sprintf("cd %s && %s", InstallDir, command)

	args := append([]string{}, c.sshArgs...)
	args = append(args, c.host, remoteCmd)

	c.logger.Debug().Strs("args", args).Msg("Running ssh")
	if err := c.exec("ssh", args...); err != nil {
		return errors.Newf(errors.ErrRemoteRun,
			"ssh %q terminated unsuccessfully: %v", command, err)
	}
	return nil
}

// runProcess executes an external program with inherited output. scp and
// ssh progress goes to the user's terminal, not the logger.
func runProcess(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
