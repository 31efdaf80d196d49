package http

import (
	"bytes"
	"embed"
	"io/fs"
	stdhttp "net/http"
	"time"

	"github.com/rotisserie/eris"
)

//go:embed static/*
var staticFiles embed.FS

var favicon []byte

func init() {
	data, err := staticFiles.ReadFile("static/favicon.svg")
	if err != nil {
		return
	}
	favicon = data
}

func faviconHandler(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	if len(favicon) == 0 {
		w.WriteHeader(stdhttp.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	stdhttp.ServeContent(w, r, "favicon.svg", time.Time{}, bytes.NewReader(favicon))
}

func newStaticAssetHandler() (stdhttp.Handler, error) {
	assets, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, eris.Wrap(err, "preparing static assets filesystem")
	}

	return stdhttp.StripPrefix("/static/", stdhttp.FileServer(stdhttp.FS(assets))), nil
}

func (s *Server) registerStaticRoute() {
	handler, err := newStaticAssetHandler()
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).Error("registering static assets handler failed")
		}
		return
	}

	s.mux.Handle("GET /static/", handler)
	s.mux.Handle("HEAD /static/", handler)
}

// registerUploadsRoute serves the team photo written by the filesystem asset store.
func (s *Server) registerUploadsRoute() {
	if s.uploadDir == "" {
		return
	}

	handler := stdhttp.StripPrefix("/uploads/", stdhttp.FileServer(stdhttp.Dir(s.uploadDir)))
	s.mux.Handle("GET /uploads/", handler)
	s.mux.Handle("HEAD /uploads/", handler)
}

// registerCreditsRoute serves the creator and supervisor photos. The directory is separate from
// the upload directory so team photo replacement never touches it.
func (s *Server) registerCreditsRoute() {
	if s.creditsDir == "" {
		return
	}

	handler := stdhttp.StripPrefix("/credits/", stdhttp.FileServer(stdhttp.Dir(s.creditsDir)))
	s.mux.Handle("GET /credits/", handler)
	s.mux.Handle("HEAD /credits/", handler)
}
