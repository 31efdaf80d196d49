package transcript

import (
	"context"

	"github.com/rotisserie/eris"
)

// ErrNotFound indicates no transcript exists for the requested identifier.
var ErrNotFound = eris.New("transcript not found")

// Service exposes the read operations behind the dashboard pages.
type Service interface {
	Dashboard(ctx context.Context) (*Stats, error)
	Search(ctx context.Context, filters Filters, page string) (*SearchResult, error)
	Get(ctx context.Context, id int64) (*Transcript, error)
	Download(ctx context.Context, id int64) (*FASTA, error)
	Cultivars(ctx context.Context) ([]string, error)
}

type service struct {
	repo Repository
}

var _ Service = (*service)(nil)

// NewService wires the transcript service with its repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, eris.New("transcript repository is required")
	}

	return &service{repo: repo}, nil
}

func (s *service) Dashboard(ctx context.Context) (*Stats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "computing dashboard statistics")
	}

	if stats == nil {
		return &Stats{}, nil
	}

	return stats, nil
}

func (s *service) Search(ctx context.Context, filters Filters, rawPage string) (*SearchResult, error) {
	page, err := ParsePage(rawPage)
	if err != nil {
		return nil, err
	}

	criteria := NewCriteria(filters)

	total, err := s.repo.Count(ctx, criteria)
	if err != nil {
		return nil, eris.Wrap(err, "counting search results")
	}

	hits, err := s.repo.Search(ctx, criteria, PageSize, Offset(page))
	if err != nil {
		return nil, eris.Wrap(err, "loading search results")
	}

	cultivars, err := s.repo.Cultivars(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "listing cultivars")
	}

	return &SearchResult{
		Criteria:     criteria,
		Page:         page,
		TotalPages:   TotalPages(total),
		TotalResults: total,
		Hits:         hits,
		Cultivars:    cultivars,
	}, nil
}

func (s *service) Get(ctx context.Context, id int64) (*Transcript, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, eris.Wrapf(err, "loading transcript %d", id)
	}

	if record == nil {
		return nil, eris.Wrapf(ErrNotFound, "loading transcript %d", id)
	}

	return record, nil
}

func (s *service) Download(ctx context.Context, id int64) (*FASTA, error) {
	record, err := s.repo.GetSequence(ctx, id)
	if err != nil {
		return nil, eris.Wrapf(err, "loading sequence for transcript %d", id)
	}

	if record == nil {
		return nil, eris.Wrapf(ErrNotFound, "loading sequence for transcript %d", id)
	}

	fasta := NewFASTA(*record)
	return &fasta, nil
}

func (s *service) Cultivars(ctx context.Context) ([]string, error) {
	cultivars, err := s.repo.Cultivars(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "listing cultivars")
	}

	return cultivars, nil
}
