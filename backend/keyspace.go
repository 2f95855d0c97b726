package backend

import (
	"context"
	"io"
)

// Keyspace is a flat key-value store whose keys use KeySeparator to form a hierarchy.
// Containers are implicit: any key prefix ending in KeySeparator is a container.
type Keyspace interface {
	// Stat reports whether key names a stored object.
	Stat(ctx context.Context, key string) (bool, error)

	// HasPrefix reports whether at least one key starts with prefix.
	HasPrefix(ctx context.Context, prefix string) (bool, error)

	// List returns the direct object names and direct sub-prefix names below prefix.
	List(ctx context.Context, prefix string) (objects []string, prefixes []string, err error)

	// Get opens the content stored under key.
	// Returns ErrNotExist if key is not stored.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// KeyspaceStore adapts a Keyspace into the Store hooks of a single container.
type KeyspaceStore struct {
	ks     Keyspace
	base   string
	name   string
	prefix string
}

// NewKeyspaceStore returns the root container of ks.
// Base is prepended to every key to form globally unique paths (e.g. "sqlite:/tmp/db.sqlite!/").
func NewKeyspaceStore(ks Keyspace, base string) *KeyspaceStore {
	return &KeyspaceStore{
		ks:   ks,
		base: base,
	}
}

func (s *KeyspaceStore) Name() string {
	return s.name
}

func (s *KeyspaceStore) Path() string {
	return s.base + s.prefix
}

// Prefix returns the key prefix of this container ("" for the root).
func (s *KeyspaceStore) Prefix() string {
	return s.prefix
}

func (s *KeyspaceStore) Exists(ctx context.Context) (bool, error) {
	if s.prefix == "" {
		return true, nil
	}
	return s.ks.HasPrefix(ctx, s.prefix)
}

func (s *KeyspaceStore) LookupResource(ctx context.Context, name string) (*ResourceInfo, error) {
	key := s.prefix + name
	info := &ResourceInfo{
		Name: name,
		Path: s.base + key,
	}

	if !ValidName(name) {
		return info, nil
	}

	exists, err := s.ks.Stat(ctx, key)
	if err != nil {
		return nil, err
	}

	info.Exists = exists
	return info, nil
}

func (s *KeyspaceStore) CreateChild(ctx context.Context, name string) (Store, error) {
	if !ValidName(name) {
		return nil, nil
	}

	return &KeyspaceStore{
		ks:     s.ks,
		base:   s.base,
		name:   name,
		prefix: ContainerKey(s.prefix, name),
	}, nil
}

func (s *KeyspaceStore) Enumerate(ctx context.Context) (*Listing, error) {
	objects, prefixes, err := s.ks.List(ctx, s.prefix)
	if err != nil {
		return nil, err
	}

	listing := &Listing{
		Resources: make([]*ResourceInfo, 0, len(objects)),
		Children:  prefixes,
	}
	for _, name := range objects {
		listing.Resources = append(listing.Resources, &ResourceInfo{
			Name:   name,
			Path:   s.base + s.prefix + name,
			Exists: true,
		})
	}

	return listing, nil
}

func (s *KeyspaceStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if !ValidName(name) {
		return nil, ErrInvalidName
	}
	return s.ks.Get(ctx, s.prefix+name)
}
