package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryPageRendersWithinLayout(t *testing.T) {
	layout := LayoutData{
		Title:        "Test • " + SiteName,
		TeamPhotoURL: "/uploads/team.png",
		Credits:      Credits{CreatorName: "Ada", SupervisorName: "Grace", Institute: "Institute"},
		Flash:        &FlashMessage{Level: "success", Text: "Saved"},
	}

	components := map[string]templ.Component{
		"dashboard":  DashboardPage(DashboardPageData{Layout: layout, Chart: ChartData{Labels: []string{"CoC671"}, Counts: []int64{3}, AvgGC: []float64{45.5}}}),
		"search":     SearchPage(SearchPageData{Layout: layout, Page: 1, TotalPages: 1}),
		"transcript": TranscriptPage(TranscriptPageData{Layout: layout, Header: "TX1", Sequence: "ATGC"}),
		"about":      AboutPage(AboutPageData{Layout: layout, Cultivars: []string{"CoC671"}}),
		"upload":     UploadPage(UploadPageData{Layout: layout, MaxUploadSize: "10.0 MiB"}),
		"error":      ErrorPage(ErrorPageData{Layout: layout, StatusLabel: "404 Not Found", Message: "missing"}),
	}

	for name, component := range components {
		var buf bytes.Buffer
		require.NoError(t, component.Render(context.Background(), &buf), name)

		body := buf.String()
		assert.True(t, strings.HasPrefix(body, "<!DOCTYPE html>"), name)
		assert.Contains(t, body, "Created by Ada", name)
		assert.Contains(t, body, `src="/uploads/team.png"`, name)
		assert.Contains(t, body, "alert-success", name)
	}
}

func TestDashboardEmbedsChartJSON(t *testing.T) {
	var buf bytes.Buffer
	err := DashboardPage(DashboardPageData{
		Chart: ChartData{Labels: []string{"Co 86032", "CoC671"}, Counts: []int64{2, 5}, AvgGC: []float64{41.5, 47}},
	}).Render(context.Background(), &buf)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `{"labels":["Co 86032","CoC671"],"counts":[2,5],"avg_gc":[41.5,47]}`)
}

func TestRenderHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := AboutPage(AboutPageData{}).Render(ctx, &buf)
	require.Error(t, err)
	assert.Zero(t, buf.Len())
}
