package cache

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Clark-Hu/figure-collector/internal/apiclient"
	"github.com/Clark-Hu/figure-collector/internal/domain"
)

// CatalogAPI is the subset of apiclient.Client used by CatalogStore.
type CatalogAPI interface {
	Catalog(ctx context.Context) (apiclient.Catalog, error)
}

// CatalogStore caches every series name and figure.
type CatalogStore struct {
	api    CatalogAPI
	logger *slog.Logger

	mu      sync.RWMutex
	series  []string
	figures []domain.Figure
	byID    map[string]int
	loaded  bool
}

func NewCatalogStore(api CatalogAPI, logger *slog.Logger) *CatalogStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogStore{api: api, logger: logger.With("component", "catalog-store")}
}

// Refresh replaces the cache with the server's catalog. On error the previous
// state is kept.
func (s *CatalogStore) Refresh(ctx context.Context) error {
	catalog, err := s.api.Catalog(ctx)
	if err != nil {
		return err
	}

	index := make(map[string]int, len(catalog.Figures))
	for i, f := range catalog.Figures {
		index[f.ID] = i
	}

	s.mu.Lock()
	s.series = catalog.Series
	s.figures = catalog.Figures
	s.byID = index
	s.loaded = true
	s.mu.Unlock()

	s.logger.Debug("catalog refreshed", "series", len(catalog.Series), "figures", len(catalog.Figures))
	return nil
}

func (s *CatalogStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *CatalogStore) Figures() []domain.Figure {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Figure(nil), s.figures...)
}

func (s *CatalogStore) Series() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.series...)
}

func (s *CatalogStore) ByID(id string) (domain.Figure, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return domain.Figure{}, false
	}
	return s.figures[i], true
}

// Watch refreshes the store each time CatalogChanged is published on n. It
// returns when ctx is done.
func (s *CatalogStore) Watch(ctx context.Context, n *Notifier) {
	events, cancel := n.Subscribe()
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if e != CatalogChanged {
				continue
			}
			if err := s.Refresh(ctx); err != nil {
				s.logger.Warn("catalog refresh failed", "err", err)
			}
		}
	}
}
