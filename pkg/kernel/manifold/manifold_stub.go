//go:build !manifold

package manifold

import "errors"

// New reports that the kernel was not compiled in.
func New() (Kernel, error) {
	return nil, errors.New(unavailable)
}
