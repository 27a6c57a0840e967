// Package storage provides the media blob store for uploaded images.
//
// The service layer only sees the Store interface: save bytes under a
// relative path and get back a public URL, or remove a blob given that URL.
// DiskStore is the only implementation — a bucket-backed one would slot in
// behind the same interface without touching the services.
package storage

import (
	"context"
	"io"
)

// Store is the opaque upload / public-URL / remove surface for media blobs.
type Store interface {
	// Save writes the blob under the given relative path (e.g.
	// "posts/1234/1700000000000_cat.jpg") and returns its public URL.
	Save(ctx context.Context, path string, r io.Reader) (string, error)

	// Remove deletes the blob a previously returned public URL points at.
	// Removing a URL this store never issued is an error.
	Remove(ctx context.Context, publicURL string) error
}
