package billy

import (
	"context"
	"errors"
	"io"
	"os"
	"path"
	"slices"
	"strings"
	"syscall"

	gobilly "github.com/go-git/go-billy/v5"
	"github.com/mwantia/modtree/backend"
)

// FilesystemStore is the container hook of a single billy directory.
type FilesystemStore struct {
	fs    gobilly.Filesystem
	label string
	name  string
	dir   string
}

func (s *FilesystemStore) Name() string {
	return s.name
}

func (s *FilesystemStore) Path() string {
	return "billy:" + s.label + "!" + strings.TrimSuffix(s.dir, "/") + "/"
}

func (s *FilesystemStore) Exists(ctx context.Context) (bool, error) {
	if s.dir == "/" {
		return true, nil
	}

	info, err := s.fs.Stat(s.dir)
	if err != nil {
		if isAbsent(err) {
			return false, nil
		}
		return false, err
	}

	return info.IsDir(), nil
}

func (s *FilesystemStore) LookupResource(ctx context.Context, name string) (*backend.ResourceInfo, error) {
	info := &backend.ResourceInfo{
		Name: name,
		Path: s.Path() + name,
	}

	if !backend.ValidName(name) {
		return info, nil
	}

	stat, err := s.fs.Stat(path.Join(s.dir, name))
	if err != nil {
		if isAbsent(err) {
			return info, nil
		}
		return nil, err
	}

	info.Exists = !stat.IsDir()
	return info, nil
}

func (s *FilesystemStore) CreateChild(ctx context.Context, name string) (backend.Store, error) {
	if !backend.ValidName(name) {
		return nil, nil
	}

	return &FilesystemStore{
		fs:    s.fs,
		label: s.label,
		name:  name,
		dir:   cleanDir(path.Join(s.dir, name)),
	}, nil
}

func (s *FilesystemStore) Enumerate(ctx context.Context) (*backend.Listing, error) {
	listing := &backend.Listing{}

	entries, err := s.fs.ReadDir(s.dir)
	if err != nil {
		if isAbsent(err) {
			return listing, nil
		}
		return nil, err
	}

	slices.SortFunc(entries, func(a, b os.FileInfo) int {
		return strings.Compare(a.Name(), b.Name())
	})

	for _, entry := range entries {
		if entry.IsDir() {
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

func (s *FilesystemStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if !backend.ValidName(name) {
		return nil, backend.ErrInvalidName
	}

	file, err := s.fs.Open(path.Join(s.dir, name))
	if err != nil {
		if isAbsent(err) {
			return nil, backend.ErrNotExist
		}
		return nil, err
	}

	return file, nil
}

func isAbsent(err error) bool {
	return errors.Is(err, os.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
