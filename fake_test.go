package modtree

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/mwantia/modtree/backend"
)

var errBoom = errors.New("boom")

// fakeTree is a static backing store that counts how often children are created.
type fakeTree struct {
	mu sync.Mutex

	files   map[string]bool
	dirs    map[string]bool
	rejects map[string]bool
	fails   map[string]bool
	creates map[string]int

	enumerates map[string]int
}

func newFakeTree(paths ...string) *fakeTree {
	tree := &fakeTree{
		files:   make(map[string]bool),
		dirs:    make(map[string]bool),
		rejects: make(map[string]bool),
		fails:   make(map[string]bool),
		creates: make(map[string]int),

		enumerates: make(map[string]int),
	}

	for _, p := range paths {
		segments := strings.Split(p, "/")
		for i := 1; i < len(segments); i++ {
			tree.dirs[strings.Join(segments[:i], "/")+"/"] = true
		}
		tree.files[p] = true
	}

	return tree
}

func (t *fakeTree) root() *fakeStore {
	return &fakeStore{tree: t}
}

func (t *fakeTree) createCount(prefix string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.creates[prefix]
}

type fakeStore struct {
	tree   *fakeTree
	name   string
	prefix string
}

func (s *fakeStore) Name() string {
	return s.name
}

func (s *fakeStore) Path() string {
	return "fake:/" + s.prefix
}

func (s *fakeStore) Exists(ctx context.Context) (bool, error) {
	return s.prefix == "" || s.tree.dirs[s.prefix], nil
}

func (s *fakeStore) LookupResource(ctx context.Context, name string) (*backend.ResourceInfo, error) {
	if s.tree.fails[name] {
		return nil, errBoom
	}

	return &backend.ResourceInfo{
		Name:   name,
		Path:   s.Path() + name,
		Exists: s.tree.files[s.prefix+name],
	}, nil
}

func (s *fakeStore) CreateChild(ctx context.Context, name string) (backend.Store, error) {
	prefix := s.prefix + name + "/"

	s.tree.mu.Lock()
	s.tree.creates[prefix]++
	s.tree.mu.Unlock()

	if s.tree.fails[name] {
		return nil, errBoom
	}
	if s.tree.rejects[name] {
		return nil, nil
	}

	return &fakeStore{tree: s.tree, name: name, prefix: prefix}, nil
}

func (t *fakeTree) enumerateCount(prefix string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.enumerates[prefix]
}

func (s *fakeStore) Enumerate(ctx context.Context) (*backend.Listing, error) {
	s.tree.mu.Lock()
	s.tree.enumerates[s.prefix]++
	s.tree.mu.Unlock()

	if s.tree.fails[s.name] {
		return nil, errBoom
	}

	listing := &backend.Listing{}
	for file := range s.tree.files {
		if rel, ok := strings.CutPrefix(file, s.prefix); ok && !strings.Contains(rel, "/") {
			listing.Resources = append(listing.Resources, &backend.ResourceInfo{
				Name:   rel,
				Path:   s.Path() + rel,
				Exists: true,
			})
		}
	}
	for dir := range s.tree.dirs {
		if rel, ok := strings.CutPrefix(dir, s.prefix); ok && strings.Count(rel, "/") == 1 {
			listing.Children = append(listing.Children, strings.TrimSuffix(rel, "/"))
		}
	}

	slices.SortFunc(listing.Resources, func(a, b *backend.ResourceInfo) int {
		return strings.Compare(a.Name, b.Name)
	})
	slices.Sort(listing.Children)

	return listing, nil
}
