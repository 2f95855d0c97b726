package backend

import (
	"context"
	"errors"
	"io"
	"maps"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUnavailable = errors.New("keyspace unavailable")

// mapKeyspace is a Keyspace over a plain map, optionally failing every call.
type mapKeyspace struct {
	keys map[string]string
	fail bool
}

func (m *mapKeyspace) Stat(ctx context.Context, key string) (bool, error) {
	if m.fail {
		return false, errUnavailable
	}
	_, ok := m.keys[key]
	return ok, nil
}

func (m *mapKeyspace) HasPrefix(ctx context.Context, prefix string) (bool, error) {
	if m.fail {
		return false, errUnavailable
	}
	for key := range m.keys {
		if strings.HasPrefix(key, prefix) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mapKeyspace) List(ctx context.Context, prefix string) ([]string, []string, error) {
	if m.fail {
		return nil, nil, errUnavailable
	}
	objects, prefixes := SplitListing(prefix, maps.Keys(m.keys))
	return objects, prefixes, nil
}

func (m *mapKeyspace) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if m.fail {
		return nil, errUnavailable
	}
	content, ok := m.keys[key]
	if !ok {
		return nil, ErrNotExist
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

func TestKeyspaceStore_Hooks(t *testing.T) {
	ctx := t.Context()
	ks := &mapKeyspace{keys: map[string]string{
		"top.js":    "top",
		"a/x.txt":   "x",
		"a/b/y.txt": "y",
	}}

	root := NewKeyspaceStore(ks, "map:/")
	assert.Equal(t, "", root.Name())
	assert.Equal(t, "map:/", root.Path())

	exists, err := root.Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	child, err := root.CreateChild(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, child)
	assert.Equal(t, "a", child.Name())
	assert.Equal(t, "map:/a/", child.Path())
	assert.Equal(t, "a/", child.(*KeyspaceStore).Prefix())

	exists, err = child.Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	info, err := child.LookupResource(ctx, "x.txt")
	require.NoError(t, err)
	assert.Equal(t, &ResourceInfo{Name: "x.txt", Path: "map:/a/x.txt", Exists: true}, info)

	info, err = child.LookupResource(ctx, "y.txt")
	require.NoError(t, err)
	assert.False(t, info.Exists)

	listing, err := child.Enumerate(ctx)
	require.NoError(t, err)
	require.Len(t, listing.Resources, 1)
	assert.Equal(t, "map:/a/x.txt", listing.Resources[0].Path)
	assert.True(t, listing.Resources[0].Exists)
	assert.Equal(t, []string{"b"}, listing.Children)

	rc, err := child.(Opener).Open(ctx, "x.txt")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestKeyspaceStore_InvalidNames(t *testing.T) {
	ctx := t.Context()
	root := NewKeyspaceStore(&mapKeyspace{keys: map[string]string{}}, "map:/")

	for _, name := range []string{"..", ".", "a/b"} {
		child, err := root.CreateChild(ctx, name)
		require.NoError(t, err)
		assert.Nil(t, child, name)
	}

	info, err := root.LookupResource(ctx, "")
	require.NoError(t, err)
	assert.False(t, info.Exists)

	_, err = root.Open(ctx, "..")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestKeyspaceStore_ErrorsPropagate(t *testing.T) {
	ctx := t.Context()
	root := NewKeyspaceStore(&mapKeyspace{fail: true}, "map:/")

	_, err := root.LookupResource(ctx, "x.txt")
	assert.ErrorIs(t, err, errUnavailable)

	_, err = root.Enumerate(ctx)
	assert.ErrorIs(t, err, errUnavailable)

	child, err := root.CreateChild(ctx, "a")
	require.NoError(t, err)
	_, err = child.Exists(ctx)
	assert.ErrorIs(t, err, errUnavailable)
}
