package transcripts

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	domain "transcriptome/app/internal/domain/transcript"
)

// Repository reads transcripts using a Gorm database connection.
type Repository struct {
	db      *gorm.DB
	logger  *logrus.Logger
	dialect string
}

// NewRepository constructs a Gorm-backed repository implementation.
func NewRepository(db *gorm.DB, logger *logrus.Logger) (*Repository, error) {
	if db == nil {
		return nil, eris.New("gorm DB is required")
	}

	return &Repository{db: db, logger: logger, dialect: db.Dialector.Name()}, nil
}

var _ domain.Repository = (*Repository)(nil)

type totalsRow struct {
	Total     int64   `gorm:"column:total"`
	AvgLength float64 `gorm:"column:avg_length"`
	AvgGC     float64 `gorm:"column:avg_gc"`
	MinLength int64   `gorm:"column:min_length"`
	MaxLength int64   `gorm:"column:max_length"`
}

type cultivarRow struct {
	Cultivar string  `gorm:"column:cultivar"`
	Count    int64   `gorm:"column:transcript_count"`
	AvgGC    float64 `gorm:"column:avg_gc"`
}

// Stats aggregates the whole table and each cultivar. Aggregates of an empty table are zero.
func (r *Repository) Stats(ctx context.Context) (*domain.Stats, error) {
	var totals totalsRow
	err := r.db.WithContext(ctx).
		Model(&TranscriptRecord{}).
		Select("COUNT(*) AS total, " +
			"COALESCE(AVG(length), 0) AS avg_length, " +
			"COALESCE(AVG(gc_content), 0) AS avg_gc, " +
			"COALESCE(MIN(length), 0) AS min_length, " +
			"COALESCE(MAX(length), 0) AS max_length").
		Scan(&totals).Error
	if err != nil {
		r.logError(nil, err, "aggregating transcripts")
		return nil, eris.Wrap(err, "aggregating transcripts")
	}

	var rows []cultivarRow
	err = r.db.WithContext(ctx).
		Model(&TranscriptRecord{}).
		Select("cultivar, COUNT(*) AS transcript_count, COALESCE(AVG(gc_content), 0) AS avg_gc").
		Group("cultivar").
		Order("cultivar ASC").
		Scan(&rows).Error
	if err != nil {
		r.logError(nil, err, "aggregating transcripts by cultivar")
		return nil, eris.Wrap(err, "aggregating transcripts by cultivar")
	}

	stats := &domain.Stats{
		TotalTranscripts: totals.Total,
		AvgLength:        totals.AvgLength,
		AvgGC:            totals.AvgGC,
		MinLength:        totals.MinLength,
		MaxLength:        totals.MaxLength,
		Cultivars:        make([]domain.CultivarStat, 0, len(rows)),
	}
	for _, row := range rows {
		stats.Cultivars = append(stats.Cultivars, domain.CultivarStat{
			Cultivar: row.Cultivar,
			Count:    row.Count,
			AvgGC:    row.AvgGC,
		})
	}

	return stats, nil
}

// Count returns the number of transcripts matching the criteria.
func (r *Repository) Count(ctx context.Context, criteria domain.Criteria) (int64, error) {
	query, args := criteria.ForDialect(r.dialect).CountQuery()

	var count int64
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&count).Error; err != nil {
		r.logError(logrus.Fields{"query": query}, err, "counting transcripts")
		return 0, eris.Wrap(err, "counting transcripts")
	}

	return count, nil
}

// Search returns one page of matching transcripts ordered by length descending.
func (r *Repository) Search(ctx context.Context, criteria domain.Criteria, limit, offset int) ([]domain.Hit, error) {
	query, args := criteria.ForDialect(r.dialect).PageQuery(limit, offset)

	var records []TranscriptRecord
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&records).Error; err != nil {
		r.logError(logrus.Fields{"query": query, "offset": offset}, err, "searching transcripts")
		return nil, eris.Wrap(err, "searching transcripts")
	}

	hits := make([]domain.Hit, 0, len(records))
	for _, record := range records {
		hits = append(hits, domain.Hit{
			ID:        record.ID,
			Header:    record.Header,
			Cultivar:  record.Cultivar,
			Length:    record.Length,
			GCContent: record.GCContent,
		})
	}

	return hits, nil
}

// GetByID returns the full transcript or nil when not found.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Transcript, error) {
	var record TranscriptRecord
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"transcript_id": id}, err, "fetching transcript by id")
		return nil, eris.Wrapf(err, "fetching transcript by id: %d", id)
	}

	return toDomainTranscript(&record), nil
}

// GetSequence returns the header and sequence of a transcript or nil when not found.
func (r *Repository) GetSequence(ctx context.Context, id int64) (*domain.SequenceRecord, error) {
	var record TranscriptRecord
	err := r.db.WithContext(ctx).
		Select("id", "header", "sequence").
		First(&record, "id = ?", id).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"transcript_id": id}, err, "fetching transcript sequence")
		return nil, eris.Wrapf(err, "fetching transcript sequence: %d", id)
	}

	return &domain.SequenceRecord{ID: record.ID, Header: record.Header, Sequence: record.Sequence}, nil
}

// Cultivars returns the distinct cultivar names in ascending order.
func (r *Repository) Cultivars(ctx context.Context) ([]string, error) {
	cultivars := []string{}

	err := r.db.WithContext(ctx).
		Model(&TranscriptRecord{}).
		Distinct().
		Order("cultivar ASC").
		Pluck("cultivar", &cultivars).Error
	if err != nil {
		r.logError(nil, err, "listing cultivars")
		return nil, eris.Wrap(err, "listing cultivars")
	}

	return cultivars, nil
}

func (r *Repository) logError(fields logrus.Fields, err error, message string) {
	if r.logger == nil || err == nil {
		return
	}

	entry := r.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}

func toDomainTranscript(record *TranscriptRecord) *domain.Transcript {
	if record == nil {
		return nil
	}

	return &domain.Transcript{
		ID:          record.ID,
		Header:      record.Header,
		Cultivar:    record.Cultivar,
		Length:      record.Length,
		GCContent:   record.GCContent,
		Sequence:    record.Sequence,
		Description: record.Description,
	}
}
