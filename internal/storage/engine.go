package storage

import "errors"

// ErrNotExist is returned by Engine.Read when nothing has been stored
// under the requested name yet.
var ErrNotExist = errors.New("collection does not exist")

// Engine stores opaque whole-collection blobs by name. Write replaces the
// previous blob in full.
type Engine interface {
	Read(name string) ([]byte, error)
	Write(name string, data []byte) error
	Close() error
}
