package transcript

// Transcript is a single sequenced RNA transcript record.
type Transcript struct {
	ID          int64
	Header      string
	Cultivar    string
	Length      int
	GCContent   float64
	Sequence    string
	Description string
}

// Hit is the subset of a transcript listed on a search results page.
type Hit struct {
	ID        int64
	Header    string
	Cultivar  string
	Length    int
	GCContent float64
}

// SequenceRecord carries the fields needed to build a FASTA download.
type SequenceRecord struct {
	ID       int64
	Header   string
	Sequence string
}

// CultivarStat aggregates the transcripts of one cultivar.
type CultivarStat struct {
	Cultivar string
	Count    int64
	AvgGC    float64
}

// Stats is the dashboard summary over the whole table. Aggregates over an empty table are zero.
type Stats struct {
	TotalTranscripts int64
	AvgLength        float64
	AvgGC            float64
	MinLength        int64
	MaxLength        int64
	Cultivars        []CultivarStat
}

// Chart holds parallel per-cultivar series ready for a bar chart.
type Chart struct {
	Labels []string  `json:"labels"`
	Counts []int64   `json:"counts"`
	AvgGC  []float64 `json:"avg_gc"`
}

// Chart returns the per-cultivar series in cultivar order.
func (s Stats) Chart() Chart {
	chart := Chart{
		Labels: make([]string, 0, len(s.Cultivars)),
		Counts: make([]int64, 0, len(s.Cultivars)),
		AvgGC:  make([]float64, 0, len(s.Cultivars)),
	}

	for _, stat := range s.Cultivars {
		chart.Labels = append(chart.Labels, stat.Cultivar)
		chart.Counts = append(chart.Counts, stat.Count)
		chart.AvgGC = append(chart.AvgGC, stat.AvgGC)
	}

	return chart
}

// SearchResult is one page of search hits with pagination metadata.
type SearchResult struct {
	Criteria     Criteria
	Page         int
	TotalPages   int
	TotalResults int64
	Hits         []Hit
	Cultivars    []string
}

// HasPrevious reports whether a page precedes the current one.
func (r SearchResult) HasPrevious() bool {
	return r.Page > 1
}

// HasNext reports whether a page follows the current one.
func (r SearchResult) HasNext() bool {
	return r.Page < r.TotalPages
}
