// Package blob defines the key-value substrate the persistence bridge writes
// serialized stores to, plus an in-process implementation.
package blob

import (
	"context"
	"errors"
)

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("blob store closed")

// Store is a string-keyed, string-valued persistent map. Get reports a
// missing key with ok=false and a nil error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}
