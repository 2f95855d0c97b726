package local

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/mwantia/modtree/backend"
)

// DirStore is the container hook of a single local directory.
type DirStore struct {
	name   string
	dir    string
	parent *DirStore
}

func (s *DirStore) Name() string {
	return s.name
}

func (s *DirStore) Path() string {
	return "file://" + filepath.ToSlash(s.dir) + "/"
}

func (s *DirStore) Exists(ctx context.Context) (bool, error) {
	info, err := os.Stat(s.dir)
	if err != nil {
		if isAbsent(err) {
			return false, nil
		}
		return false, err
	}

	return info.IsDir(), nil
}

func (s *DirStore) LookupResource(ctx context.Context, name string) (*backend.ResourceInfo, error) {
	info := &backend.ResourceInfo{
		Name: name,
		Path: s.Path() + name,
	}

	if !backend.ValidName(name) {
		return info, nil
	}

	stat, err := os.Stat(filepath.Join(s.dir, name))
	if err != nil {
		if isAbsent(err) {
			return info, nil
		}
		return nil, err
	}

	info.Exists = !stat.IsDir()
	return info, nil
}

func (s *DirStore) CreateChild(ctx context.Context, name string) (backend.Store, error) {
	if !backend.ValidName(name) {
		return nil, nil
	}

	return &DirStore{
		name:   name,
		dir:    filepath.Join(s.dir, name),
		parent: s,
	}, nil
}

func (s *DirStore) Enumerate(ctx context.Context) (*backend.Listing, error) {
	listing := &backend.Listing{}

	// ReadDir returns entries sorted by filename
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if isAbsent(err) {
			return listing, nil
		}
		return nil, err
	}

	for _, entry := range entries {
		isDir := entry.IsDir()
		if entry.Type()&os.ModeSymlink != 0 {
			// Follow links the same way lookups do
			stat, err := os.Stat(filepath.Join(s.dir, entry.Name()))
			if err != nil {
				if isAbsent(err) {
					continue
				}
				return nil, err
			}

			isDir = stat.IsDir()
			if isDir {
				// A link back to this directory or one above it would recurse forever
				cycle, err := s.reaches(stat)
				if err != nil {
					return nil, err
				}
				if cycle {
					continue
				}
			}
		}

		if isDir {
			listing.Children = append(listing.Children, entry.Name())
			continue
		}

		listing.Resources = append(listing.Resources, &backend.ResourceInfo{
			Name:   entry.Name(),
			Path:   s.Path() + entry.Name(),
			Exists: true,
		})
	}

	return listing, nil
}

// reaches reports whether target is the directory of s or of one of its parents.
func (s *DirStore) reaches(target os.FileInfo) (bool, error) {
	for store := s; store != nil; store = store.parent {
		info, err := os.Stat(store.dir)
		if err != nil {
			return false, err
		}
		if os.SameFile(info, target) {
			return true, nil
		}
	}

	return false, nil
}

func (s *DirStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if !backend.ValidName(name) {
		return nil, backend.ErrInvalidName
	}

	file, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if isAbsent(err) {
			return nil, backend.ErrNotExist
		}
		return nil, err
	}

	return file, nil
}
