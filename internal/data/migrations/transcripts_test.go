package migrations

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"transcriptome/app/internal/data/database"
)

func TestMigrateTranscriptsRequiresDatabase(t *testing.T) {
	t.Parallel()

	if err := MigrateTranscripts(context.Background(), nil, nil); err == nil {
		t.Fatalf("expected error when database is nil")
	}
}

func TestMigrateTranscriptsIsIdempotent(t *testing.T) {
	t.Parallel()

	db, err := database.Open(database.Options{Path: filepath.Join(t.TempDir(), "migrate.db")})
	if err != nil {
		t.Fatalf("database.Open returned error: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := database.Close(db); closeErr != nil {
			t.Errorf("closing database failed: %v", closeErr)
		}
	})

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	for i := 0; i < 2; i++ {
		if err := MigrateTranscripts(context.Background(), db, logger); err != nil {
			t.Fatalf("run %d: MigrateTranscripts returned error: %v", i+1, err)
		}
	}

	if !db.Migrator().HasTable("transcripts") {
		t.Fatalf("expected transcripts table to exist")
	}
	for _, column := range []string{"id", "header", "cultivar", "length", "gc_content", "sequence", "description"} {
		if !db.Migrator().HasColumn("transcripts", column) {
			t.Fatalf("expected column %q", column)
		}
	}
}
