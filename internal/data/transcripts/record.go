package transcripts

// TranscriptRecord is a row of the transcripts table. Rows are written by an external ingestion
// process; this application only reads them.
type TranscriptRecord struct {
	ID          int64   `gorm:"primaryKey"`
	Header      string  `gorm:"type:text;not null"`
	Cultivar    string  `gorm:"size:255;not null;index:idx_transcripts_cultivar"`
	Length      int     `gorm:"not null;index:idx_transcripts_length"`
	GCContent   float64 `gorm:"column:gc_content;not null"`
	Sequence    string  `gorm:"type:text;not null"`
	Description string  `gorm:"type:text"`
}

// TableName defines the table name for the transcript model.
func (TranscriptRecord) TableName() string {
	return "transcripts"
}
