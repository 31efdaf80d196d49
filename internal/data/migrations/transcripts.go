package migrations

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"transcriptome/app/internal/data/transcripts"
)

// MigrateTranscripts creates the transcripts table when it is missing. The production schema is
// owned by the ingestion pipeline; this exists for local SQLite databases and tests.
func MigrateTranscripts(ctx context.Context, db *gorm.DB, logger *logrus.Logger) error {
	if db == nil {
		return eris.New("gorm DB is required")
	}

	logFields := logrus.Fields{"component": "transcripts.migrate"}
	if logger != nil {
		logger.WithFields(logFields).Info("applying transcripts schema")
	}

	if err := db.WithContext(ctx).AutoMigrate(&transcripts.TranscriptRecord{}); err != nil {
		if logger != nil {
			logger.WithFields(logFields).WithField("error", err.Error()).Error("transcripts schema migration failed")
		}
		return eris.Wrap(err, "auto migrating transcripts schema")
	}

	if logger != nil {
		logger.WithFields(logFields).Info("transcripts schema migration complete")
	}

	return nil
}
