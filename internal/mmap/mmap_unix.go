//go:build unix

// Package mmap reserves and releases anonymous private mappings.
package mmap

import (
	"golang.org/x/sys/unix"
)

// Supported reports whether anonymous mappings are available here.
const Supported = true

// Map returns a zero-filled, read-write anonymous mapping of n bytes.
// The mapping is page aligned.
func Map(n int) ([]byte, error) {
	return unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
}

// Unmap releases a mapping returned by Map. b must be the exact slice Map
// returned.
func Unmap(b []byte) error {
	return unix.Munmap(b)
}
