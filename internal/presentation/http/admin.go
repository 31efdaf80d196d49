package http

import (
	"context"
	"mime/multipart"
	stdhttp "net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rotisserie/eris"

	"transcriptome/app/internal/domain/asset"
	"transcriptome/app/internal/presentation/http/templates"
)

const uploadFormPath = "/admin/upload-author"

type uploadInput struct {
	Flash   string         `cookie:"flash"`
	RawBody multipart.Form `contentType:"multipart/form-data"`
}

func (s *Server) registerUploadRoutes() {
	huma.Get(s.api, uploadFormPath, s.uploadFormHandler, htmlOperation("Team photo upload form", stdhttp.StatusInternalServerError))
	huma.Post(s.api, uploadFormPath, s.uploadHandler, func(op *huma.Operation) {
		htmlOperation("Replace the team photo", stdhttp.StatusFound, stdhttp.StatusInternalServerError)(op)
		op.MaxBodyBytes = s.uploadMaxBytes
		op.Middlewares = append(op.Middlewares, limitBodyMiddleware(s.uploadMaxBytes))
	})
}

func (s *Server) uploadFormHandler(ctx context.Context, input *flashInput) (*pageResponse, error) {
	layout, setCookie := s.layout(ctx, "Upload team photo", "", input.Flash)

	resp := s.renderPage(ctx, stdhttp.StatusOK, templates.UploadPage(templates.UploadPageData{
		Layout:        layout,
		MaxUploadSize: templates.FormatBytes(s.uploadMaxBytes),
	}), "upload form")
	resp.SetCookie = setCookie

	return resp, nil
}

func (s *Server) uploadHandler(ctx context.Context, input *uploadInput) (*pageResponse, error) {
	upload := asset.Upload{Token: formValue(input.RawBody, "token")}

	if files := input.RawBody.File["author_image"]; len(files) > 0 && files[0].Filename != "" {
		file, err := files[0].Open()
		if err != nil {
			s.recordError(ctx, err, "opening uploaded file", nil)
			return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, errorFallbackMessage), nil
		}
		defer file.Close()

		upload.Filename = files[0].Filename
		upload.Content = file
	}

	photo, err := s.assets.ReplaceTeamPhoto(ctx, upload)
	switch {
	case err == nil:
		if s.logger != nil {
			s.logger.WithField("name", photo.Name).Info("team photo replaced")
		}
		return s.redirectWithFlash(ctx, "/", templates.FlashMessage{Level: "success", Text: "Author image updated successfully!"}), nil
	case eris.Is(err, asset.ErrInvalidToken):
		return s.redirectWithFlash(ctx, uploadFormPath, templates.FlashMessage{Level: "danger", Text: "Invalid admin token. Access denied."}), nil
	case eris.Is(err, asset.ErrNoFile):
		return s.redirectWithFlash(ctx, uploadFormPath, templates.FlashMessage{Level: "warning", Text: "No file selected."}), nil
	case eris.Is(err, asset.ErrUnsupportedExtension):
		return s.redirectWithFlash(ctx, uploadFormPath, templates.FlashMessage{Level: "warning", Text: "Please upload a PNG/JPG/GIF image."}), nil
	default:
		s.recordError(ctx, err, "replacing team photo", nil)
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, "We couldn't store the image right now."), nil
	}
}

func (s *Server) redirectWithFlash(ctx context.Context, location string, message templates.FlashMessage) *pageResponse {
	resp := newRedirectResponse(location)

	cookie, err := s.flash.setCookie(message)
	if err != nil {
		s.recordError(ctx, err, "encoding flash message", nil)
		return resp
	}
	resp.SetCookie = cookie

	return resp
}

func formValue(form multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}
