package categorization

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Service wraps the classifier with per-user override lookup. Override
// loading fails open: a storage error classifies with the built-in
// dictionaries alone.
type Service struct {
	repo       *Repository
	classifier *Classifier

	overrideCache map[uuid.UUID][]Override
	cacheMu       sync.RWMutex
}

// NewService creates the categorization service. repo may be nil when no
// database is configured; overrides are then skipped entirely.
func NewService(repo *Repository) *Service {
	return &Service{
		repo:          repo,
		classifier:    NewClassifier(),
		overrideCache: make(map[uuid.UUID][]Override),
	}
}

// WithSearchIndex attaches the bleve fallback to the inner classifier.
func (s *Service) WithSearchIndex(si *SearchIndex) *Service {
	s.classifier.WithSearchIndex(si)
	return s
}

// Categorize classifies one transaction for a user.
func (s *Service) Categorize(ctx context.Context, userID uuid.UUID, in Input) Mapping {
	overrides := s.userOverrides(ctx, userID)
	if len(overrides) == 0 {
		return s.classifier.Classify(in)
	}

	scoped := &Classifier{
		engine: s.classifier.engine,
		fuzzy:  s.classifier.fuzzy,
		search: s.classifier.search,
	}
	scoped.WithOverrides(overrides)
	return scoped.Classify(in)
}

// CategorizeBatch classifies many transactions with one override fetch.
func (s *Service) CategorizeBatch(ctx context.Context, userID uuid.UUID, inputs []Input) []Mapping {
	overrides := s.userOverrides(ctx, userID)
	scoped := &Classifier{
		engine: s.classifier.engine,
		fuzzy:  s.classifier.fuzzy,
		search: s.classifier.search,
	}
	scoped.WithOverrides(overrides)

	mappings := make([]Mapping, len(inputs))
	for i, in := range inputs {
		mappings[i] = scoped.Classify(in)
	}
	return mappings
}

// RefreshOverrides drops the cached overrides for a user, forcing a
// reload on the next classification.
func (s *Service) RefreshOverrides(userID uuid.UUID) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	delete(s.overrideCache, userID)
}

func (s *Service) userOverrides(ctx context.Context, userID uuid.UUID) []Override {
	if s.repo == nil {
		return nil
	}

	s.cacheMu.RLock()
	cached, ok := s.overrideCache[userID]
	s.cacheMu.RUnlock()
	if ok {
		return cached
	}

	overrides, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil
	}

	s.cacheMu.Lock()
	s.overrideCache[userID] = overrides
	s.cacheMu.Unlock()
	return overrides
}
