package modtree

import (
	"context"
	"runtime"
	"sync"
	"testing"

	"github.com/mwantia/modtree/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T, tree *fakeTree, opts ...RepositoryOption) *Repository {
	t.Helper()

	opts = append([]RepositoryOption{WithLogger(log.NewDiscardLogger())}, opts...)
	repo, err := NewRepository(tree.root(), opts...)
	require.NoError(t, err)

	return repo
}

func TestFindSeparator(t *testing.T) {
	cases := []struct {
		path       string
		start      int
		separators string
		want       int
	}{
		{"", 0, "/", -1},
		{"abc", 0, "/", -1},
		{"/abc", 0, "/", 0},
		{"a/b/c", 0, "/", 1},
		{"a/b/c", 2, "/", 3},
		{"a/b/c", 4, "/", -1},
		{"a/b/c", 10, "/", -1},
		{"a:b/c", 0, "/:", 1},
		{"a/b:c", 2, "/:", 3},
		{"ab\\c/d", 0, "/\\", 2},
	}

	for _, tc := range cases {
		got := findSeparator(tc.path, tc.start, tc.separators)
		assert.Equal(t, tc.want, got, "findSeparator(%q, %d, %q)", tc.path, tc.start, tc.separators)
	}
}

func TestStripExtension(t *testing.T) {
	assert.Equal(t, "util", stripExtension("util.js"))
	assert.Equal(t, "archive.tar", stripExtension("archive.tar.gz"))
	assert.Equal(t, ".profile", stripExtension(".profile"))
	assert.Equal(t, "plain", stripExtension("plain"))
}

func TestRepository_ChildIdentity(t *testing.T) {
	ctx := t.Context()
	tree := newFakeTree("a/b/x.txt")
	root := newTestRepository(t, tree)

	first, err := root.GetRepository(ctx, "a")
	require.NoError(t, err)
	second, err := root.GetRepository(ctx, "a")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, tree.createCount("a/"))

	nested, err := root.GetRepository(ctx, "a/b")
	require.NoError(t, err)
	viaChild, err := first.GetRepository(ctx, "b")
	require.NoError(t, err)

	assert.Same(t, nested, viaChild)
	assert.Equal(t, 1, tree.createCount("a/b/"))
}

func TestRepository_ChildEviction(t *testing.T) {
	ctx := t.Context()
	tree := newFakeTree("a/x.txt")
	root := newTestRepository(t, tree)

	func() {
		child, err := root.GetRepository(ctx, "a")
		require.NoError(t, err)
		require.NotNil(t, child)
	}()
	require.Equal(t, 1, tree.createCount("a/"))

	runtime.GC()
	runtime.GC()

	child, err := root.GetRepository(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, child)

	assert.Equal(t, 2, tree.createCount("a/"))
	assert.Equal(t, 1, root.children.len())
}

func TestRepository_ResourcesAreNotEvicted(t *testing.T) {
	ctx := t.Context()
	tree := newFakeTree("x.txt")
	root := newTestRepository(t, tree)

	res, err := root.GetResource(ctx, "x.txt")
	require.NoError(t, err)
	first := res.Path()

	runtime.GC()

	assert.Equal(t, 1, root.resources.len())
	again, err := root.GetResource(ctx, "x.txt")
	require.NoError(t, err)
	assert.Equal(t, first, again.Path())
	assert.Same(t, root.resources.get("x.txt"), again)
}

func TestRepository_ConcurrentResolution(t *testing.T) {
	ctx := t.Context()
	tree := newFakeTree("a/b/c/x.txt")
	root := newTestRepository(t, tree)

	const workers = 32

	var wg sync.WaitGroup
	repos := make([]*Repository, workers)
	resources := make([]*Resource, workers)
	errs := make([]error, workers)

	for i := range workers {
		wg.Go(func() {
			repos[i], errs[i] = root.GetRepository(ctx, "a/b/c")
			if errs[i] != nil {
				return
			}
			resources[i], errs[i] = root.GetResource(ctx, "a/b/c/x.txt")
		})
	}
	wg.Wait()

	for i := range workers {
		require.NoError(t, errs[i])
		assert.Same(t, repos[0], repos[i])
		assert.Same(t, resources[0], resources[i])
	}

	assert.Equal(t, 1, root.children.len())
	assert.GreaterOrEqual(t, tree.createCount("a/"), 1)
	assert.True(t, resources[0].Exists())
}

func TestRepository_RejectedChildIsAbsent(t *testing.T) {
	ctx := t.Context()
	tree := newFakeTree("a/x.txt")
	tree.rejects["a"] = true
	root := newTestRepository(t, tree)

	repo, err := root.GetRepository(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, repo)

	res, err := root.GetResource(ctx, "a/x.txt")
	require.NoError(t, err)
	assert.Nil(t, res)

	// Later segments are not attempted once a hop fails
	_, err = root.GetResource(ctx, "a/b/c/x.txt")
	require.NoError(t, err)
	assert.Equal(t, 0, tree.createCount("a/b/"))

	list, err := root.GetResourcesAt(ctx, "a", true)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestRepository_BackingStoreErrorsPropagate(t *testing.T) {
	ctx := t.Context()
	tree := newFakeTree("a/x.txt", "b/y.txt")
	tree.fails["b"] = true
	tree.fails["broken.txt"] = true
	root := newTestRepository(t, tree)

	_, err := root.GetRepository(ctx, "b")
	assert.ErrorIs(t, err, errBoom)

	_, err = root.GetResource(ctx, "b/y.txt")
	assert.ErrorIs(t, err, errBoom)

	_, err = root.GetResource(ctx, "a/broken.txt")
	assert.ErrorIs(t, err, errBoom)

	_, err = root.GetResources(ctx, true)
	assert.ErrorIs(t, err, errBoom)

	_, err = root.GetResourcesAt(ctx, "b", false)
	assert.ErrorIs(t, err, errBoom)
}

func TestRepository_EnumerationStopsOnError(t *testing.T) {
	tree := newFakeTree("a/x.txt", "b/y.txt", "c/z.txt")
	tree.fails["a"] = true
	root := newTestRepository(t, tree, WithConcurrency(1))

	_, err := root.GetResources(t.Context(), true)
	require.ErrorIs(t, err, errBoom)

	assert.Zero(t, tree.enumerateCount("b/"), "siblings are not listed after a failure")
	assert.Zero(t, tree.enumerateCount("c/"))
}

func TestRepository_EnumerationHonorsContext(t *testing.T) {
	tree := newFakeTree("a/x.txt")
	root := newTestRepository(t, tree)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := root.GetResources(ctx, true)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, tree.enumerateCount(""))
}

func TestRepository_RecursiveEnumerationOrder(t *testing.T) {
	ctx := t.Context()
	tree := newFakeTree("top.js", "a/x.txt", "a/b/y.txt", "c/z.txt")
	root := newTestRepository(t, tree, WithConcurrency(1))

	list, err := root.GetResources(ctx, true)
	require.NoError(t, err)

	names := make([]string, 0, len(list))
	for _, res := range list {
		names = append(names, res.RelativePath())
	}
	assert.Equal(t, []string{"top.js", "a/x.txt", "a/b/y.txt", "c/z.txt"}, names)
}

func TestNewRepository_Validation(t *testing.T) {
	_, err := NewRepository(nil)
	assert.ErrorIs(t, err, ErrNilStore)

	_, err = NewRepository(newFakeTree().root(), WithSeparators(""))
	assert.ErrorIs(t, err, ErrInvalidSeparators)
}
