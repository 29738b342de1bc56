package profiles

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// ErrInvalidName is returned for names that would escape the profile directory.
var ErrInvalidName = errors.New("invalid profile file name")

// Store reads profile files by bare file name.
type Store interface {
	ReadFile(name string) ([]byte, error)
}

// DirStore is a Store over a single flat directory.
type DirStore struct {
	fsys fs.FS
	root string
}

// NewDirStore returns a Store reading from dir on the local filesystem.
func NewDirStore(dir string) *DirStore {
	return &DirStore{fsys: os.DirFS(dir), root: dir}
}

// NewFSStore returns a Store over an arbitrary fs.FS.
func NewFSStore(fsys fs.FS) *DirStore {
	return &DirStore{fsys: fsys}
}

// ReadFile returns the contents of name. Names containing path separators
// are rejected so player names cannot reach outside the directory.
func (s *DirStore) ReadFile(name string) ([]byte, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." || !fs.ValidPath(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return fs.ReadFile(s.fsys, name)
}

// String returns the directory the store reads from, if known.
func (s *DirStore) String() string {
	return s.root
}
