// Package staging implements the local staging tree used to batch files
// before a remote transfer.
//
// Remote copies work file-by-file or directory-by-directory, so mixed
// destinations are first materialized inside a local tree whose two
// top-level subtrees mirror the remote namespace split:
//
//	staging/
//	├── home/   # ~/.vimrc -> home/.vimrc, dir/foo -> home/dir/foo
//	└── root/   # /etc/motd -> root/etc/motd
//
// Everything under home/ is transferred into the remote home directory,
// everything under root/ into the remote filesystem root.
package staging

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/lares/pkg/errors"
	"github.com/arthur-debert/lares/pkg/fileops"
)

// Tree is a staging tree on the local filesystem. It has no identity
// beyond a single run and is owned exclusively by the installer.
type Tree struct {
	root string
}

// New creates a staging tree rooted at a fresh temporary directory.
func New() (*Tree, error) {
	dir, err := os.MkdirTemp("", "lares-staging-")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrStagingCreate, "failed to create staging directory")
	}
	return &Tree{root: dir}, nil
}

// NewAt returns a staging tree rooted at an existing directory.
func NewAt(root string) *Tree {
	return &Tree{root: root}
}

// Root returns the tree's root directory.
func (t *Tree) Root() string {
	return t.root
}

// HomeDir returns the subtree holding files destined for the remote home.
func (t *Tree) HomeDir() string {
	return filepath.Join(t.root, "home")
}

// RootDir returns the subtree holding files destined for the remote
// filesystem root.
func (t *Tree) RootDir() string {
	return filepath.Join(t.root, "root")
}

// Resolve maps a destination path to its location inside the tree. Tilde
// and relative destinations land under home/; other absolute destinations
// land under root/ with their filesystem root stripped. Resolution is
// total: every legal destination maps to exactly one staging location.
func (t *Tree) Resolve(dst string) (string, error) {
	home := t.HomeDir()

	path := dst
	if path == "~" {
		path = home
	} else if strings.HasPrefix(path, "~/") {
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		return filepath.Join(home, path), nil
	}

	if path == home || strings.HasPrefix(path, home+string(os.PathSeparator)) {
		return path, nil
	}

	// An absolute path unrelated to the home expansion: strip its
	// filesystem root ("/" on POSIX, a drive like "C:\" elsewhere) and
	// re-root the remainder under root/.
	root := filepath.VolumeName(path) + string(os.PathSeparator)
	rest := strings.TrimPrefix(path, root)
	if rest == path {
		return "", errors.Newf(errors.ErrPathResolve, "cannot determine filesystem root of %s", path)
	}
	return filepath.Join(t.RootDir(), rest), nil
}

// Stage copies src into the staging location resolved for dst, creating
// parent directories as needed.
func (t *Tree) Stage(src, dst string) error {
	resolved, err := t.Resolve(dst)
	if err != nil {
		return err
	}
	if err := fileops.CopyFile(src, resolved); err != nil {
		return errors.Wrapf(err, errors.ErrStage, "failed to copy %s to staging directory", src)
	}
	return nil
}

// Remove deletes the tree and anything still staged in it.
func (t *Tree) Remove() error {
	return os.RemoveAll(t.root)
}
