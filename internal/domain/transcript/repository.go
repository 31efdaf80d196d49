package transcript

import "context"

// Repository defines the read operations the transcript domain needs from the data store.
// Lookups return nil without error when no row matches.
type Repository interface {
	Stats(ctx context.Context) (*Stats, error)
	Count(ctx context.Context, criteria Criteria) (int64, error)
	Search(ctx context.Context, criteria Criteria, limit, offset int) ([]Hit, error)
	GetByID(ctx context.Context, id int64) (*Transcript, error)
	GetSequence(ctx context.Context, id int64) (*SequenceRecord, error)
	Cultivars(ctx context.Context) ([]string, error)
}
