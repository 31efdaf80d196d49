package http

import (
	"context"

	"transcriptome/app/internal/presentation/http/templates"
)

// layout builds the shared page chrome. The flash cookie value, when present, is consumed: the
// returned Set-Cookie header clears it so the message is shown once.
func (s *Server) layout(ctx context.Context, title, nav, flashCookie string) (templates.LayoutData, string) {
	data := templates.LayoutData{
		Title:     title + " • " + templates.SiteName,
		ActiveNav: nav,
		Credits:   s.credits,
	}

	photo, err := s.assets.TeamPhoto(ctx)
	if err != nil {
		s.recordError(ctx, err, "locating team photo", nil)
	} else if photo != nil {
		data.TeamPhotoURL = photo.URL
	}

	if flashCookie == "" {
		return data, ""
	}

	if message, ok := s.flash.decode(flashCookie); ok {
		data.Flash = &message
	}

	return data, clearFlashCookie()
}
