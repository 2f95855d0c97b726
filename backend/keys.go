package backend

import (
	"iter"
	"slices"
	"strings"
)

// KeySeparator delimits container segments inside flat key spaces.
const KeySeparator = "/"

// ValidName reports whether name can be used as a single key segment.
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.Contains(name, KeySeparator)
}

// NormalizeKey trims surrounding separators from key and validates every segment.
func NormalizeKey(key string) (string, error) {
	key = strings.Trim(key, KeySeparator)
	if key == "" {
		return "", ErrInvalidName
	}

	for segment := range strings.SplitSeq(key, KeySeparator) {
		if !ValidName(segment) {
			return "", ErrInvalidName
		}
	}

	return key, nil
}

// JoinKey appends name to a container prefix. Returns "prefix/name" format when the
// prefix lacks a trailing separator, or "name" for the root prefix.
func JoinKey(prefix, name string) string {
	if prefix == "" {
		return name
	}
	if strings.HasSuffix(prefix, KeySeparator) {
		return prefix + name
	}
	return prefix + KeySeparator + name
}

// ContainerKey returns the prefix under which the children of name live.
func ContainerKey(prefix, name string) string {
	return JoinKey(prefix, name) + KeySeparator
}

// SplitListing reduces all keys below prefix to its direct objects and the names of
// its direct sub-prefixes. Keys outside prefix and the prefix marker itself are skipped.
// Both results are sorted and free of duplicates.
func SplitListing(prefix string, keys iter.Seq[string]) (objects []string, prefixes []string) {
	seenObjects := make(map[string]struct{})
	seenPrefixes := make(map[string]struct{})

	for key := range keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}

		rel := key[len(prefix):]
		if rel == "" {
			continue
		}

		if idx := strings.Index(rel, KeySeparator); idx >= 0 {
			if idx == 0 {
				continue
			}
			seenPrefixes[rel[:idx]] = struct{}{}
			continue
		}

		seenObjects[rel] = struct{}{}
	}

	for name := range seenObjects {
		objects = append(objects, name)
	}
	for name := range seenPrefixes {
		prefixes = append(prefixes, name)
	}

	slices.Sort(objects)
	slices.Sort(prefixes)
	return objects, prefixes
}
