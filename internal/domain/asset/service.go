package asset

import (
	"context"
	"crypto/subtle"
	"io"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

var (
	// ErrInvalidToken indicates the admin token did not match.
	ErrInvalidToken = eris.New("invalid admin token")
	// ErrNoFile indicates the upload carried no file.
	ErrNoFile = eris.New("no file selected")
	// ErrUnsupportedExtension indicates the file is not a PNG, JPG or GIF image.
	ErrUnsupportedExtension = eris.New("unsupported image extension")
)

// Upload is a team photo submission from the admin form.
type Upload struct {
	Token    string
	Filename string
	Content  io.Reader
}

// Service validates admin uploads and keeps exactly one team photo in the store.
type Service struct {
	store      Store
	adminToken string
}

// NewService wires the upload service with its store and the shared admin token.
func NewService(store Store, adminToken string) (*Service, error) {
	if store == nil {
		return nil, eris.New("asset store is required")
	}
	if adminToken == "" {
		return nil, eris.New("admin token is required")
	}

	return &Service{store: store, adminToken: adminToken}, nil
}

// TeamPhoto returns the current team photo or nil when none has been uploaded.
func (s *Service) TeamPhoto(ctx context.Context) (*Photo, error) {
	photo, err := s.store.Current(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "locating team photo")
	}
	return photo, nil
}

// ReplaceTeamPhoto validates the upload and stores it as team<ext>. Validation failures return
// ErrInvalidToken, ErrNoFile or ErrUnsupportedExtension and leave the store untouched.
func (s *Service) ReplaceTeamPhoto(ctx context.Context, upload Upload) (*Photo, error) {
	token := strings.TrimSpace(upload.Token)
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
		return nil, ErrInvalidToken
	}

	if upload.Content == nil || upload.Filename == "" {
		return nil, ErrNoFile
	}

	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if !IsImageName(ext) {
		return nil, eris.Wrapf(ErrUnsupportedExtension, "extension %q", ext)
	}

	name := TeamPhotoBaseName + ext
	photo, err := s.store.Replace(ctx, name, upload.Content, ContentType(ext))
	if err != nil {
		return nil, eris.Wrap(err, "storing team photo")
	}

	return photo, nil
}
