package transcript

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// PageSize is the number of hits shown per search results page.
const PageSize = 20

// maxPage is the largest page whose row offset still fits in an int.
const maxPage = math.MaxInt/PageSize + 1

// DialectPostgres names the PostgreSQL gorm dialector. Any other dialect gets the portable
// LOWER(header) LIKE predicate.
const DialectPostgres = "postgres"

// ErrInvalidPage indicates the requested page number is not an integer.
var ErrInvalidPage = eris.New("page must be an integer")

// likeEscaper escapes LIKE metacharacters so the query fragment matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Filters are the raw search form values, echoed back to the form unchanged apart from trimming.
type Filters struct {
	Query     string
	Cultivar  string
	MinGC     string
	MaxGC     string
	MinLength string
	MaxLength string
}

// Trimmed returns a copy with surrounding whitespace removed from every value.
func (f Filters) Trimmed() Filters {
	return Filters{
		Query:     strings.TrimSpace(f.Query),
		Cultivar:  strings.TrimSpace(f.Cultivar),
		MinGC:     strings.TrimSpace(f.MinGC),
		MaxGC:     strings.TrimSpace(f.MaxGC),
		MinLength: strings.TrimSpace(f.MinLength),
		MaxLength: strings.TrimSpace(f.MaxLength),
	}
}

// QueryString encodes the filters as a /search query string with keys in form order. A page
// below one is omitted.
func (f Filters) QueryString(page int) string {
	pairs := [][2]string{
		{"query", f.Query},
		{"cultivar", f.Cultivar},
		{"min_gc", f.MinGC},
		{"max_gc", f.MaxGC},
		{"min_len", f.MinLength},
		{"max_len", f.MaxLength},
	}
	if page > 0 {
		pairs = append(pairs, [2]string{"page", strconv.Itoa(page)})
	}

	var b strings.Builder
	for i, pair := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(pair[0])
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(pair[1]))
	}
	return b.String()
}

// Criteria is the typed form of Filters. Bounds that failed to parse are nil and do not filter.
type Criteria struct {
	Filters   Filters
	Dialect   string
	Query     string
	Cultivar  string
	MinGC     *float64
	MaxGC     *float64
	MinLength *int
	MaxLength *int
}

// Predicate is one SQL condition with its single bound parameter.
type Predicate struct {
	Clause string
	Arg    any
}

// NewCriteria parses the filters, silently dropping numeric bounds that are not numbers.
func NewCriteria(filters Filters) Criteria {
	trimmed := filters.Trimmed()

	return Criteria{
		Filters:   trimmed,
		Query:     trimmed.Query,
		Cultivar:  trimmed.Cultivar,
		MinGC:     parseFloat(trimmed.MinGC),
		MaxGC:     parseFloat(trimmed.MaxGC),
		MinLength: parseInt(trimmed.MinLength),
		MaxLength: parseInt(trimmed.MaxLength),
	}
}

// ForDialect returns a copy whose predicates are written for the named SQL dialect.
func (c Criteria) ForDialect(name string) Criteria {
	c.Dialect = name
	return c
}

// Predicates lists the conditions implied by the criteria in a fixed order.
func (c Criteria) Predicates() []Predicate {
	var predicates []Predicate

	if c.Query != "" {
		// SQLite's LOWER folds ASCII only; PostgreSQL's ILIKE folds every letter.
		if c.Dialect == DialectPostgres {
			pattern := "%" + likeEscaper.Replace(c.Query) + "%"
			predicates = append(predicates, Predicate{Clause: `header ILIKE ? ESCAPE '\'`, Arg: pattern})
		} else {
			pattern := "%" + likeEscaper.Replace(strings.ToLower(c.Query)) + "%"
			predicates = append(predicates, Predicate{Clause: `LOWER(header) LIKE ? ESCAPE '\'`, Arg: pattern})
		}
	}
	if c.Cultivar != "" {
		predicates = append(predicates, Predicate{Clause: "cultivar = ?", Arg: c.Cultivar})
	}
	if c.MinGC != nil {
		predicates = append(predicates, Predicate{Clause: "gc_content >= ?", Arg: *c.MinGC})
	}
	if c.MaxGC != nil {
		predicates = append(predicates, Predicate{Clause: "gc_content <= ?", Arg: *c.MaxGC})
	}
	if c.MinLength != nil {
		predicates = append(predicates, Predicate{Clause: "length >= ?", Arg: *c.MinLength})
	}
	if c.MaxLength != nil {
		predicates = append(predicates, Predicate{Clause: "length <= ?", Arg: *c.MaxLength})
	}

	return predicates
}

// Where joins the predicates into a WHERE clause with ? placeholders. It returns an empty
// clause when no filter applies.
func (c Criteria) Where() (string, []any) {
	predicates := c.Predicates()
	if len(predicates) == 0 {
		return "", nil
	}

	clauses := make([]string, 0, len(predicates))
	args := make([]any, 0, len(predicates))
	for _, predicate := range predicates {
		clauses = append(clauses, predicate.Clause)
		args = append(args, predicate.Arg)
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

// CountQuery returns the statement counting every transcript that satisfies the criteria.
func (c Criteria) CountQuery() (string, []any) {
	where, args := c.Where()
	return joinSQL("SELECT COUNT(*) FROM transcripts", where), args
}

// PageQuery returns the statement selecting one page of hits, longest transcripts first. The
// id tiebreaker keeps pages stable when lengths repeat.
func (c Criteria) PageQuery(limit, offset int) (string, []any) {
	where, args := c.Where()
	query := joinSQL("SELECT id, header, cultivar, length, gc_content FROM transcripts", where) +
		" ORDER BY length DESC, id ASC LIMIT ? OFFSET ?"
	return query, append(args, limit, offset)
}

func joinSQL(base, where string) string {
	if where == "" {
		return base
	}
	return base + " " + where
}

// Matches evaluates the criteria against a hit in memory using the same semantics as the SQL
// predicates.
func (c Criteria) Matches(hit Hit) bool {
	if c.Query != "" && !strings.Contains(strings.ToLower(hit.Header), strings.ToLower(c.Query)) {
		return false
	}
	if c.Cultivar != "" && hit.Cultivar != c.Cultivar {
		return false
	}
	if c.MinGC != nil && hit.GCContent < *c.MinGC {
		return false
	}
	if c.MaxGC != nil && hit.GCContent > *c.MaxGC {
		return false
	}
	if c.MinLength != nil && hit.Length < *c.MinLength {
		return false
	}
	if c.MaxLength != nil && hit.Length > *c.MaxLength {
		return false
	}
	return true
}

// ParsePage converts the page parameter. An absent or empty value means the first page.
func ParsePage(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 1, nil
	}

	page, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, eris.Wrapf(ErrInvalidPage, "parsing page %q", raw)
	}

	return page, nil
}

// Offset returns the row offset of a 1-based page. Pages below one start at the first row and
// pages past maxPage are clamped so the offset never overflows.
func Offset(page int) int {
	if page < 1 {
		return 0
	}
	return (min(page, maxPage) - 1) * PageSize
}

// TotalPages returns ceil(total / PageSize), never less than one.
func TotalPages(total int64) int {
	pages := int(math.Ceil(float64(total) / float64(PageSize)))
	if pages < 1 {
		return 1
	}
	return pages
}

func parseFloat(raw string) *float64 {
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil
	}
	return &value
}

func parseInt(raw string) *int {
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &value
}
