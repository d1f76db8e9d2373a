package catalog

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/greenharvest/catalog/internal/domain"
)

// ProductSource is where the Store loads its snapshot from.
type ProductSource interface {
	GetAllProducts(ctx context.Context) ([]domain.Product, error)
}

// Store holds the immutable product snapshot for a session. It loads
// lazily on first use; concurrent first readers share a single load
// via singleflight. Once loaded, the snapshot only changes through an
// explicit Refresh — the filter/sort pipeline never re-fetches.
type Store struct {
	source ProductSource
	sfg    singleflight.Group

	mu       sync.RWMutex
	products []domain.Product
	loaded   bool
}

func NewStore(source ProductSource) *Store {
	return &Store{source: source}
}

// All returns the snapshot in catalog order. The returned slice is a
// copy; callers may reorder or trim it freely.
func (s *Store) All(ctx context.Context) ([]domain.Product, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

// Find returns the product with the given ID from the snapshot.
func (s *Store) Find(ctx context.Context, id string) (domain.Product, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return domain.Product{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, ErrProductNotFound
}

// Refresh replaces the snapshot with a fresh read from the source.
func (s *Store) Refresh(ctx context.Context) error {
	products, err := s.source.GetAllProducts(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = products
	s.loaded = true
	return nil
}

func (s *Store) ensureLoaded(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}

	_, err, _ := s.sfg.Do("snapshot", func() (interface{}, error) {
		s.mu.RLock()
		loaded := s.loaded
		s.mu.RUnlock()
		if loaded {
			return nil, nil
		}
		return nil, s.Refresh(ctx)
	})
	return err
}
