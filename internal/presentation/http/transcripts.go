package http

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"

	"transcriptome/app/internal/domain/transcript"
	"transcriptome/app/internal/presentation/http/templates"
)

// flashInput reads the one-shot message left by a previous redirect.
type flashInput struct {
	Flash string `cookie:"flash"`
}

type searchInput struct {
	Query     string `query:"query"`
	Cultivar  string `query:"cultivar"`
	MinGC     string `query:"min_gc"`
	MaxGC     string `query:"max_gc"`
	MinLength string `query:"min_len"`
	MaxLength string `query:"max_len"`
	Page      string `query:"page"`
	Flash     string `cookie:"flash"`
}

type searchFormInput struct {
	RawBody []byte `contentType:"application/x-www-form-urlencoded"`
}

type transcriptInput struct {
	ID    string `path:"id"`
	Flash string `cookie:"flash"`
}

type downloadInput struct {
	File string `path:"file"`
}

func (s *Server) registerDashboardRoute() {
	huma.Get(s.api, "/", s.dashboardHandler, htmlOperation("Transcriptome dashboard", stdhttp.StatusInternalServerError))
}

func (s *Server) registerSearchRoutes() {
	huma.Get(s.api, "/search", s.searchHandler, htmlOperation(
		"Search transcripts",
		stdhttp.StatusInternalServerError,
	))
	huma.Post(s.api, "/search", s.searchFormHandler, htmlOperation(
		"Submit the search form",
		stdhttp.StatusFound,
		stdhttp.StatusBadRequest,
	))
}

func (s *Server) registerTranscriptRoute() {
	huma.Get(s.api, "/transcript/{id}", s.transcriptHandler, htmlOperation(
		"Fetch transcript detail",
		stdhttp.StatusNotFound,
		stdhttp.StatusInternalServerError,
	))
}

func (s *Server) registerDownloadRoute() {
	huma.Get(s.api, "/download/{file}", s.downloadHandler, func(op *huma.Operation) {
		htmlOperation("Download transcript sequence", stdhttp.StatusNotFound, stdhttp.StatusInternalServerError)(op)
		op.Description = "Serves {id}.fasta as a plain text attachment."
		op.Responses["200"].Content = map[string]*huma.MediaType{
			fastaContentType: {Schema: &huma.Schema{Type: "string"}},
		}
	})
}

func (s *Server) registerAboutRoute() {
	huma.Get(s.api, "/about", s.aboutHandler, htmlOperation("About the dashboard", stdhttp.StatusInternalServerError))
}

func (s *Server) dashboardHandler(ctx context.Context, input *flashInput) (*pageResponse, error) {
	stats, err := s.transcripts.Dashboard(ctx)
	if err != nil {
		return s.failure(ctx, err, "loading dashboard statistics", nil), nil
	}

	layout, setCookie := s.layout(ctx, "Dashboard", "dashboard", input.Flash)

	chart := stats.Chart()
	rows := make([]templates.CultivarRow, 0, len(stats.Cultivars))
	for _, stat := range stats.Cultivars {
		rows = append(rows, templates.CultivarRow{
			Name:  stat.Cultivar,
			Count: templates.FormatCount(stat.Count),
			AvgGC: templates.FormatDecimal(stat.AvgGC, 2),
		})
	}

	resp := s.renderPage(ctx, stdhttp.StatusOK, templates.DashboardPage(templates.DashboardPageData{
		Layout:           layout,
		TotalTranscripts: templates.FormatCount(stats.TotalTranscripts),
		AvgLength:        templates.FormatDecimal(stats.AvgLength, 1),
		AvgGC:            templates.FormatDecimal(stats.AvgGC, 2),
		MinLength:        templates.FormatCount(stats.MinLength),
		MaxLength:        templates.FormatCount(stats.MaxLength),
		Cultivars:        rows,
		Chart: templates.ChartData{
			Labels: chart.Labels,
			Counts: chart.Counts,
			AvgGC:  chart.AvgGC,
		},
	}), "dashboard")
	resp.SetCookie = setCookie

	return resp, nil
}

// searchFormHandler turns a submitted form into a bookmarkable GET URL.
func (s *Server) searchFormHandler(_ context.Context, input *searchFormInput) (*pageResponse, error) {
	values, err := url.ParseQuery(string(input.RawBody))
	if err != nil {
		return nil, huma.Error400BadRequest("malformed search form", err)
	}

	filters := transcript.Filters{
		Query:     values.Get("query"),
		Cultivar:  values.Get("cultivar"),
		MinGC:     values.Get("min_gc"),
		MaxGC:     values.Get("max_gc"),
		MinLength: values.Get("min_len"),
		MaxLength: values.Get("max_len"),
	}.Trimmed()

	return newRedirectResponse("/search?" + filters.QueryString(0)), nil
}

func (s *Server) searchHandler(ctx context.Context, input *searchInput) (*pageResponse, error) {
	filters := transcript.Filters{
		Query:     input.Query,
		Cultivar:  input.Cultivar,
		MinGC:     input.MinGC,
		MaxGC:     input.MaxGC,
		MinLength: input.MinLength,
		MaxLength: input.MaxLength,
	}

	result, err := s.transcripts.Search(ctx, filters, input.Page)
	if err != nil {
		return s.failure(ctx, err, "search request failed", logrus.Fields{
			"query": strings.TrimSpace(input.Query),
			"page":  input.Page,
		}), nil
	}

	layout, setCookie := s.layout(ctx, "Search", "search", input.Flash)

	echo := result.Criteria.Filters
	data := templates.SearchPageData{
		Layout: layout,
		Filters: templates.SearchFilters{
			Query:     echo.Query,
			Cultivar:  echo.Cultivar,
			MinGC:     echo.MinGC,
			MaxGC:     echo.MaxGC,
			MinLength: echo.MinLength,
			MaxLength: echo.MaxLength,
		},
		Cultivars:    result.Cultivars,
		Results:      make([]templates.SearchResultView, 0, len(result.Hits)),
		TotalResults: templates.FormatCount(result.TotalResults),
		Page:         result.Page,
		TotalPages:   result.TotalPages,
	}

	for _, hit := range result.Hits {
		data.Results = append(data.Results, templates.SearchResultView{
			ID:          hit.ID,
			Header:      hit.Header,
			Cultivar:    hit.Cultivar,
			Length:      templates.FormatCount(int64(hit.Length)),
			GCContent:   templates.FormatDecimal(hit.GCContent, 2),
			DetailURL:   transcriptURL(hit.ID),
			DownloadURL: downloadURL(hit.ID),
		})
	}

	if result.HasPrevious() {
		data.PreviousURL = "/search?" + echo.QueryString(result.Page-1)
	}
	if result.HasNext() {
		data.NextURL = "/search?" + echo.QueryString(result.Page+1)
	}

	resp := s.renderPage(ctx, stdhttp.StatusOK, templates.SearchPage(data), "search page")
	resp.SetCookie = setCookie

	return resp, nil
}

func (s *Server) transcriptHandler(ctx context.Context, input *transcriptInput) (*pageResponse, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(input.ID), 10, 64)
	if err != nil {
		return s.renderErrorResponse(ctx, stdhttp.StatusNotFound, "We couldn't find that transcript."), nil
	}

	record, err := s.transcripts.Get(ctx, id)
	if err != nil {
		return s.failure(ctx, err, "loading transcript", logrus.Fields{"transcript_id": id}), nil
	}

	layout, setCookie := s.layout(ctx, record.Header, "search", input.Flash)

	resp := s.renderPage(ctx, stdhttp.StatusOK, templates.TranscriptPage(templates.TranscriptPageData{
		Layout:      layout,
		ID:          record.ID,
		Header:      record.Header,
		Cultivar:    record.Cultivar,
		Length:      templates.FormatCount(int64(record.Length)),
		GCContent:   templates.FormatDecimal(record.GCContent, 2),
		Description: record.Description,
		Sequence:    record.Sequence,
		DownloadURL: downloadURL(record.ID),
	}), "transcript page")
	resp.SetCookie = setCookie

	return resp, nil
}

func (s *Server) downloadHandler(ctx context.Context, input *downloadInput) (*pageResponse, error) {
	raw, ok := strings.CutSuffix(input.File, ".fasta")
	if !ok {
		return s.renderErrorResponse(ctx, stdhttp.StatusNotFound, "We couldn't find that transcript."), nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return s.renderErrorResponse(ctx, stdhttp.StatusNotFound, "We couldn't find that transcript."), nil
	}

	fasta, err := s.transcripts.Download(ctx, id)
	if err != nil {
		return s.failure(ctx, err, "building fasta download", logrus.Fields{"transcript_id": id}), nil
	}

	return &pageResponse{
		Status:             stdhttp.StatusOK,
		ContentType:        fastaContentType,
		ContentDisposition: "attachment; filename=" + fasta.Filename,
		Body:               fasta.Body,
	}, nil
}

func (s *Server) aboutHandler(ctx context.Context, input *flashInput) (*pageResponse, error) {
	cultivars, err := s.transcripts.Cultivars(ctx)
	if err != nil {
		return s.failure(ctx, err, "listing cultivars", nil), nil
	}

	layout, setCookie := s.layout(ctx, "About", "about", input.Flash)

	resp := s.renderPage(ctx, stdhttp.StatusOK, templates.AboutPage(templates.AboutPageData{
		Layout:    layout,
		Cultivars: cultivars,
	}), "about page")
	resp.SetCookie = setCookie

	return resp, nil
}

func transcriptURL(id int64) string {
	return fmt.Sprintf("/transcript/%d", id)
}

func downloadURL(id int64) string {
	return fmt.Sprintf("/download/%d.fasta", id)
}
