package transcripts

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"transcriptome/app/internal/data/database"
	domain "transcriptome/app/internal/domain/transcript"
)

func TestNewRepositoryRequiresDatabase(t *testing.T) {
	t.Parallel()

	if _, err := NewRepository(nil, nil); err == nil {
		t.Fatalf("expected error when database is nil")
	}
}

func TestStatsOnEmptyTableAreZero(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t, nil)

	stats, err := repo.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}

	if stats.TotalTranscripts != 0 || stats.AvgLength != 0 || stats.AvgGC != 0 || stats.MinLength != 0 || stats.MaxLength != 0 {
		t.Fatalf("expected zeroed aggregates, got %+v", stats)
	}

	if len(stats.Cultivars) != 0 {
		t.Fatalf("expected no cultivar stats, got %v", stats.Cultivars)
	}
}

func TestStatsAggregatesTableAndCultivars(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t, []TranscriptRecord{
		{ID: 1, Header: "TX1 a", Cultivar: "CoC671", Length: 100, GCContent: 40, Sequence: "A"},
		{ID: 2, Header: "TX2 b", Cultivar: "Co 86032", Length: 300, GCContent: 50, Sequence: "A"},
		{ID: 3, Header: "TX3 c", Cultivar: "CoC671", Length: 200, GCContent: 60, Sequence: "A"},
	})

	stats, err := repo.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}

	if stats.TotalTranscripts != 3 {
		t.Fatalf("expected 3 transcripts, got %d", stats.TotalTranscripts)
	}
	if stats.AvgLength != 200 || stats.AvgGC != 50 {
		t.Fatalf("unexpected averages %v / %v", stats.AvgLength, stats.AvgGC)
	}
	if stats.MinLength != 100 || stats.MaxLength != 300 {
		t.Fatalf("unexpected length range %d-%d", stats.MinLength, stats.MaxLength)
	}

	if len(stats.Cultivars) != 2 {
		t.Fatalf("expected 2 cultivars, got %v", stats.Cultivars)
	}

	first, second := stats.Cultivars[0], stats.Cultivars[1]
	if first.Cultivar != "Co 86032" || first.Count != 1 || first.AvgGC != 50 {
		t.Fatalf("unexpected first cultivar stat %+v", first)
	}
	if second.Cultivar != "CoC671" || second.Count != 2 || second.AvgGC != 50 {
		t.Fatalf("unexpected second cultivar stat %+v", second)
	}

	if first.Count+second.Count != stats.TotalTranscripts {
		t.Fatalf("cultivar counts do not sum to total")
	}
}

func TestSearchAppliesEveryPredicate(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t, seedRecords(120))
	ctx := context.Background()

	filterSets := []domain.Filters{
		{},
		{Query: "ACTIN"},
		{Cultivar: "CoC671"},
		{MinGC: "40", MaxGC: "50"},
		{MinLength: "500", MaxLength: "1500"},
		{Query: "actin", Cultivar: "Co 86032", MinGC: "35", MaxLength: "1900"},
		{Query: "actin", MinGC: "not-a-number"},
	}

	for _, filters := range filterSets {
		criteria := domain.NewCriteria(filters)

		total, err := repo.Count(ctx, criteria)
		if err != nil {
			t.Fatalf("Count returned error for %+v: %v", filters, err)
		}

		var collected []domain.Hit
		for page := 1; page <= domain.TotalPages(total); page++ {
			hits, err := repo.Search(ctx, criteria, domain.PageSize, domain.Offset(page))
			if err != nil {
				t.Fatalf("Search returned error for %+v: %v", filters, err)
			}
			collected = append(collected, hits...)
		}

		if int64(len(collected)) != total {
			t.Fatalf("filters %+v: expected %d hits across pages, got %d", filters, total, len(collected))
		}

		seen := map[int64]bool{}
		for i, hit := range collected {
			if !criteria.Matches(hit) {
				t.Fatalf("filters %+v: hit %+v violates a predicate", filters, hit)
			}
			if seen[hit.ID] {
				t.Fatalf("filters %+v: hit %d returned twice", filters, hit.ID)
			}
			seen[hit.ID] = true

			if i > 0 {
				prev := collected[i-1]
				if prev.Length < hit.Length || (prev.Length == hit.Length && prev.ID > hit.ID) {
					t.Fatalf("filters %+v: hits out of order at %d", filters, i)
				}
			}
		}
	}
}

func TestSearchMatchesLikeMetacharactersLiterally(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t, []TranscriptRecord{
		{ID: 1, Header: "TX1 50% identity", Cultivar: "A", Length: 10, GCContent: 1, Sequence: "A"},
		{ID: 2, Header: "TX2 500 identity", Cultivar: "A", Length: 20, GCContent: 1, Sequence: "A"},
		{ID: 3, Header: "TX3 snake_case", Cultivar: "A", Length: 30, GCContent: 1, Sequence: "A"},
		{ID: 4, Header: "TX4 snakeXcase", Cultivar: "A", Length: 40, GCContent: 1, Sequence: "A"},
	})
	ctx := context.Background()

	for query, want := range map[string]int64{"50%": 1, "snake_case": 3} {
		hits, err := repo.Search(ctx, domain.NewCriteria(domain.Filters{Query: query}), domain.PageSize, 0)
		if err != nil {
			t.Fatalf("Search returned error: %v", err)
		}
		if len(hits) != 1 || hits[0].ID != want {
			t.Fatalf("query %q: expected only transcript %d, got %+v", query, want, hits)
		}
	}
}

func TestGetByIDReturnsNilForMissingTranscript(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t, seedRecords(3))

	record, err := repo.GetByID(context.Background(), 999999)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if record != nil {
		t.Fatalf("expected nil record, got %#v", record)
	}
}

func TestGetByIDAndSequence(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t, []TranscriptRecord{{
		ID:          1,
		Header:      "TX1 putative sucrose synthase",
		Cultivar:    "CoC671",
		Length:      4,
		GCContent:   50,
		Sequence:    "ATGC",
		Description: "Sucrose synthase transcript",
	}})
	ctx := context.Background()

	record, err := repo.GetByID(ctx, 1)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if record == nil || record.Description != "Sucrose synthase transcript" || record.Sequence != "ATGC" {
		t.Fatalf("unexpected record %#v", record)
	}

	sequence, err := repo.GetSequence(ctx, 1)
	if err != nil {
		t.Fatalf("GetSequence returned error: %v", err)
	}
	if sequence == nil || sequence.Header != "TX1 putative sucrose synthase" || sequence.Sequence != "ATGC" {
		t.Fatalf("unexpected sequence record %#v", sequence)
	}

	missing, err := repo.GetSequence(ctx, 2)
	if err != nil || missing != nil {
		t.Fatalf("expected nil sequence without error, got %#v / %v", missing, err)
	}
}

func TestCultivarsAreDistinctAndSorted(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t, seedRecords(40))

	cultivars, err := repo.Cultivars(context.Background())
	if err != nil {
		t.Fatalf("Cultivars returned error: %v", err)
	}

	expected := []string{"Co 0238", "Co 86032", "CoC671", "CoM 0265"}
	if len(cultivars) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, cultivars)
	}
	for i := range expected {
		if cultivars[i] != expected[i] {
			t.Fatalf("expected %v, got %v", expected, cultivars)
		}
	}
}

func seedRecords(n int) []TranscriptRecord {
	cultivars := []string{"CoC671", "Co 86032", "Co 0238", "CoM 0265"}
	records := make([]TranscriptRecord, 0, n)
	for i := 1; i <= n; i++ {
		header := fmt.Sprintf("TX%d hypothetical protein", i)
		if i%4 == 0 {
			header = fmt.Sprintf("TX%d Actin-related protein", i)
		}
		records = append(records, TranscriptRecord{
			ID:        int64(i),
			Header:    header,
			Cultivar:  cultivars[i%len(cultivars)],
			Length:    100 + (i%9)*200,
			GCContent: 30 + float64(i%25),
			Sequence:  "ATGC",
		})
	}
	return records
}

func setupRepository(t *testing.T, records []TranscriptRecord) *Repository {
	t.Helper()

	path := filepath.Join(t.TempDir(), "transcripts.db")
	gormDB, err := database.Open(database.Options{Path: path})
	if err != nil {
		t.Fatalf("database.Open returned error: %v", err)
	}

	t.Cleanup(func() {
		if closeErr := database.Close(gormDB); closeErr != nil {
			t.Fatalf("closing database failed: %v", closeErr)
		}
	})

	if err := gormDB.AutoMigrate(&TranscriptRecord{}); err != nil {
		t.Fatalf("AutoMigrate returned error: %v", err)
	}

	if len(records) > 0 {
		if err := gormDB.Create(&records).Error; err != nil {
			t.Fatalf("seeding transcripts failed: %v", err)
		}
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	repo, err := NewRepository(gormDB, logger)
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}

	return repo
}
