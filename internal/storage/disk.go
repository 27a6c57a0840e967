package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// publicPrefix is where the server mounts the media file server. Public URLs
// look like <baseURL>/media/<relative path>, and Remove recovers the relative
// path by splitting on this prefix — the same trick the delete handler needs
// regardless of which store backs the URLs.
const publicPrefix = "/media/"

// DiskStore keeps blobs under a root directory on the local filesystem and
// issues URLs served by the app's own file server.
type DiskStore struct {
	root    string
	baseURL string
}

var _ Store = (*DiskStore)(nil)

// NewDiskStore creates the root directory if needed.
// baseURL is the externally visible origin, e.g. "http://localhost:8080".
func NewDiskStore(root, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: creating media root %s: %w", root, err)
	}
	return &DiskStore{
		root:    root,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Root returns the directory blobs live under, for mounting the file server.
func (s *DiskStore) Root() string {
	return s.root
}

// Save writes the blob and returns its public URL.
func (s *DiskStore) Save(_ context.Context, relPath string, r io.Reader) (string, error) {
	cleaned, err := s.cleanPath(relPath)
	if err != nil {
		return "", err
	}

	dst := filepath.Join(s.root, filepath.FromSlash(cleaned))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("storage: creating blob directory: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("storage: creating blob %s: %w", cleaned, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		// A half-written blob is worse than no blob.
		os.Remove(dst)
		return "", fmt.Errorf("storage: writing blob %s: %w", cleaned, err)
	}

	return s.baseURL + publicPrefix + cleaned, nil
}

// Remove deletes the blob behind a public URL issued by Save.
func (s *DiskStore) Remove(_ context.Context, publicURL string) error {
	parts := strings.SplitN(publicURL, publicPrefix, 2)
	if len(parts) != 2 || parts[1] == "" {
		return fmt.Errorf("storage: %q is not a media URL", publicURL)
	}

	cleaned, err := s.cleanPath(parts[1])
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.root, filepath.FromSlash(cleaned))); err != nil {
		return fmt.Errorf("storage: removing blob %s: %w", cleaned, err)
	}
	return nil
}

// cleanPath normalises a relative blob path and rejects anything that would
// escape the root.
func (s *DiskStore) cleanPath(p string) (string, error) {
	cleaned := path.Clean("/" + strings.ReplaceAll(p, "\\", "/"))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("storage: invalid blob path %q", p)
	}
	return cleaned, nil
}
