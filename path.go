package modtree

import "strings"

// findSeparator returns the index of the earliest byte at or after start that is
// contained in separators, or -1 if the remainder holds none.
func findSeparator(path string, start int, separators string) int {
	if start >= len(path) {
		return -1
	}

	idx := strings.IndexAny(path[start:], separators)
	if idx < 0 {
		return -1
	}

	return start + idx
}

// stripExtension removes the final extension of a single path segment.
// Leading dots (".profile") are not treated as extensions.
func stripExtension(name string) string {
	if idx := strings.LastIndexByte(name, '.'); idx > 0 {
		return name[:idx]
	}
	return name
}
