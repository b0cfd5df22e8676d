//go:build !unix

package mmap

import "errors"

// Supported reports whether anonymous mappings are available here.
const Supported = false

var errUnsupported = errors.New("mmap: anonymous mappings are not supported on this platform")

func Map(n int) ([]byte, error) {
	return nil, errUnsupported
}

func Unmap(b []byte) error {
	return errUnsupported
}
