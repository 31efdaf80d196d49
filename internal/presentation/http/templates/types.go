package templates

// SiteName is shown in the navigation bar and page titles.
const SiteName = "Sugarcane Transcriptome Explorer"

// Credits are the people and institute acknowledged on every page.
type Credits struct {
	CreatorName     string
	SupervisorName  string
	Institute       string
	CreatorPhoto    string
	SupervisorPhoto string
}

// FlashMessage is a one-shot notice carried across a redirect. Level is a Bootstrap alert
// variant such as "success", "warning" or "danger".
type FlashMessage struct {
	Level string
	Text  string
}

// LayoutData feeds the shared page chrome.
type LayoutData struct {
	Title        string
	ActiveNav    string
	TeamPhotoURL string
	Credits      Credits
	Flash        *FlashMessage
}

// CultivarRow is one line of the per-cultivar dashboard table.
type CultivarRow struct {
	Name  string
	Count string
	AvgGC string
}

// ChartData holds parallel per-cultivar series for the dashboard chart.
type ChartData struct {
	Labels []string  `json:"labels"`
	Counts []int64   `json:"counts"`
	AvgGC  []float64 `json:"avg_gc"`
}

// DashboardPageData contains the summary statistics shown on the landing page.
type DashboardPageData struct {
	Layout           LayoutData
	TotalTranscripts string
	AvgLength        string
	AvgGC            string
	MinLength        string
	MaxLength        string
	Cultivars        []CultivarRow
	Chart            ChartData
}

// SearchFilters echoes the submitted search form values.
type SearchFilters struct {
	Query     string
	Cultivar  string
	MinGC     string
	MaxGC     string
	MinLength string
	MaxLength string
}

// SearchResultView represents an individual search result row.
type SearchResultView struct {
	ID          int64
	Header      string
	Cultivar    string
	Length      string
	GCContent   string
	DetailURL   string
	DownloadURL string
}

// SearchPageData bundles template data for the search page.
type SearchPageData struct {
	Layout       LayoutData
	Filters      SearchFilters
	Cultivars    []string
	Results      []SearchResultView
	TotalResults string
	Page         int
	TotalPages   int
	PreviousURL  string
	NextURL      string
}

// TranscriptPageData contains every field of a single transcript.
type TranscriptPageData struct {
	Layout      LayoutData
	ID          int64
	Header      string
	Cultivar    string
	Length      string
	GCContent   string
	Description string
	Sequence    string
	DownloadURL string
}

// AboutPageData lists the cultivars covered by the dataset.
type AboutPageData struct {
	Layout    LayoutData
	Cultivars []string
}

// UploadPageData renders the admin team photo form.
type UploadPageData struct {
	Layout        LayoutData
	MaxUploadSize string
}

// ErrorPageData holds information for rendering an error view.
type ErrorPageData struct {
	Layout      LayoutData
	StatusLabel string
	Message     string
}
