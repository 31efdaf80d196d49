package filesystem

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"transcriptome/app/internal/domain/asset"
)

// Store keeps the team photo as a file in a local directory served under URLPrefix.
type Store struct {
	root      string
	urlPrefix string
}

var _ asset.Store = (*Store)(nil)

// New returns a filesystem store rooted at dir, creating the directory if needed.
func New(dir, urlPrefix string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, eris.New("upload directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "creating upload directory %s", dir)
	}
	if !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}
	return &Store{root: dir, urlPrefix: urlPrefix}, nil
}

// Root returns the directory holding the photo.
func (s *Store) Root() string {
	return s.root
}

// Current scans the directory and returns the first image in name order.
func (s *Store) Current(_ context.Context) (*asset.Photo, error) {
	names, err := s.imageNames()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, nil
	}
	return s.photo(names[0]), nil
}

// Replace deletes every image in the directory and saves r as name. The new content is staged in
// a temporary file first so a failed copy leaves the previous photo in place.
func (s *Store) Replace(_ context.Context, name string, r io.Reader, _ string) (*asset.Photo, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return nil, eris.Errorf("invalid photo name %q", name)
	}

	tmp, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return nil, eris.Wrap(err, "creating temporary upload file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return nil, eris.Wrap(err, "writing upload")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return nil, eris.Wrap(err, "syncing upload")
	}
	if err := tmp.Close(); err != nil {
		return nil, eris.Wrap(err, "closing upload")
	}

	existing, err := s.imageNames()
	if err != nil {
		return nil, err
	}
	for _, old := range existing {
		if err := os.Remove(filepath.Join(s.root, old)); err != nil && !os.IsNotExist(err) {
			return nil, eris.Wrapf(err, "removing previous photo %s", old)
		}
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.root, name)); err != nil {
		return nil, eris.Wrapf(err, "saving photo %s", name)
	}

	return s.photo(name), nil
}

func (s *Store) imageNames() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, eris.Wrapf(err, "reading upload directory %s", s.root)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !asset.IsImageName(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

func (s *Store) photo(name string) *asset.Photo {
	return &asset.Photo{Name: name, URL: s.urlPrefix + name}
}
