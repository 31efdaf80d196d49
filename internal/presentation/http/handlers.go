package http

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/danielgtaylor/huma/v2"
	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"transcriptome/app/internal/domain/transcript"
	"transcriptome/app/internal/presentation/http/templates"
)

const (
	htmlContentType      = "text/html; charset=utf-8"
	fastaContentType     = "text/plain; charset=utf-8"
	errorFallbackMessage = "We couldn't process your request right now."
)

// pageResponse is the output of every page operation: an HTML page, a file attachment or a
// redirect.
type pageResponse struct {
	Status             int
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Location           string `header:"Location"`
	SetCookie          string `header:"Set-Cookie"`
	Body               []byte
}

func newHTMLResponse(status int, body []byte) *pageResponse {
	return &pageResponse{
		Status:      status,
		ContentType: htmlContentType,
		Body:        body,
	}
}

func newRedirectResponse(location string) *pageResponse {
	return &pageResponse{
		Status:   stdhttp.StatusFound,
		Location: location,
	}
}

func htmlOperation(summary string, statuses ...int) func(op *huma.Operation) {
	return func(op *huma.Operation) {
		if summary != "" {
			op.Summary = summary
		}
		if op.Responses == nil {
			op.Responses = map[string]*huma.Response{}
		}

		statusCodes := append([]int{stdhttp.StatusOK}, statuses...)
		for _, status := range statusCodes {
			code := strconv.Itoa(status)
			op.Responses[code] = &huma.Response{
				Description: stdhttp.StatusText(status),
				Content: map[string]*huma.MediaType{
					htmlContentType: {
						Schema: &huma.Schema{Type: "string"},
					},
				},
			}
		}
	}
}

func classifyError(err error) (int, string) {
	switch {
	case err == nil:
		return stdhttp.StatusInternalServerError, errorFallbackMessage
	case eris.Is(err, transcript.ErrNotFound):
		return stdhttp.StatusNotFound, "We couldn't find that transcript."
	case eris.Is(err, transcript.ErrInvalidPage):
		return stdhttp.StatusInternalServerError, "The page number must be a whole number."
	default:
		return stdhttp.StatusInternalServerError, errorFallbackMessage
	}
}

// renderPage executes a page component, falling back to the error page when rendering fails.
func (s *Server) renderPage(ctx context.Context, status int, component templ.Component, what string) *pageResponse {
	body, err := renderComponent(ctx, component)
	if err != nil {
		s.recordError(ctx, err, "rendering "+what, nil)
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, errorFallbackMessage)
	}
	return newHTMLResponse(status, body)
}

// failure maps a service error onto an error page. Only server-side failures are reported.
func (s *Server) failure(ctx context.Context, err error, message string, fields logrus.Fields) *pageResponse {
	status, text := classifyError(err)
	if status >= stdhttp.StatusInternalServerError {
		s.recordError(ctx, err, message, fields)
	}
	return s.renderErrorResponse(ctx, status, text)
}

func (s *Server) renderErrorResponse(ctx context.Context, status int, message string) *pageResponse {
	label := fmt.Sprintf("%d %s", status, stdhttp.StatusText(status))
	layout, _ := s.layout(ctx, label, "", "")

	body, err := renderComponent(ctx, templates.ErrorPage(templates.ErrorPageData{
		Layout:      layout,
		StatusLabel: label,
		Message:     message,
	}))
	if err != nil {
		s.recordError(ctx, err, "rendering error page", logrus.Fields{"status": status})
		fallback := []byte(fmt.Sprintf("<html><body><h1>%s</h1><p>%s</p></body></html>", label, message))
		return newHTMLResponse(status, fallback)
	}

	return newHTMLResponse(status, body)
}

func (s *Server) recordError(ctx context.Context, err error, message string, fields logrus.Fields) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if fields != nil {
			entry = entry.WithFields(fields)
		}
		if requestID := RequestIDFromContext(ctx); requestID != "" {
			entry = entry.WithField("request_id", requestID)
		}
		entry.Error(message)
	}

	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.CaptureException(err)
		return
	}
	if s.sentry != nil {
		s.sentry.CaptureException(err)
	}
}
