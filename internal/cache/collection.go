package cache

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/gammazero/workerpool"

	"github.com/Clark-Hu/figure-collector/internal/apiclient"
	"github.com/Clark-Hu/figure-collector/internal/domain"
	"github.com/Clark-Hu/figure-collector/internal/stats"
)

// CollectionAPI is the subset of apiclient.Client used by CollectionStore.
type CollectionAPI interface {
	ListOwned(ctx context.Context) ([]domain.Owned, error)
	CreateOwned(ctx context.Context, in apiclient.OwnedInput) (domain.Owned, error)
	UpdateOwned(ctx context.Context, id string, patch apiclient.OwnedPatch) (domain.Owned, error)
	DeleteOwned(ctx context.Context, id string) error
	ListWishlist(ctx context.Context) ([]domain.Wish, error)
	UpsertWish(ctx context.Context, in apiclient.WishInput) (domain.Wish, error)
	DeleteWish(ctx context.Context, id string) error
}

// CollectionStore caches the caller's owned and wishlist rows. Mutations go
// to the API first; the cache only changes when the API call succeeds.
type CollectionStore struct {
	api      CollectionAPI
	notifier *Notifier
	pool     *workerpool.WorkerPool
	logger   *slog.Logger

	mu       sync.RWMutex
	owned    []domain.Owned
	wishlist []domain.Wish
}

// NewCollectionStore constructs the store. notifier may be nil. Close must be
// called to release the refresh workers.
func NewCollectionStore(api CollectionAPI, notifier *Notifier, logger *slog.Logger) *CollectionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CollectionStore{
		api:      api,
		notifier: notifier,
		pool:     workerpool.New(2),
		logger:   logger.With("component", "collection-store"),
	}
}

func (s *CollectionStore) Close() {
	s.pool.StopWait()
}

// Refresh fetches owned and wishlist rows concurrently and swaps both in
// together. If either request fails nothing changes.
func (s *CollectionStore) Refresh(ctx context.Context) error {
	var (
		wg       sync.WaitGroup
		owned    []domain.Owned
		wishlist []domain.Wish
		ownedErr error
		wishErr  error
	)
	wg.Add(2)
	s.pool.Submit(func() {
		defer wg.Done()
		owned, ownedErr = s.api.ListOwned(ctx)
	})
	s.pool.Submit(func() {
		defer wg.Done()
		wishlist, wishErr = s.api.ListWishlist(ctx)
	})
	wg.Wait()

	if err := errors.Join(ownedErr, wishErr); err != nil {
		return err
	}

	s.mu.Lock()
	s.owned = owned
	s.wishlist = wishlist
	s.mu.Unlock()
	return nil
}

func (s *CollectionStore) Owned() []domain.Owned {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Owned(nil), s.owned...)
}

func (s *CollectionStore) Wishlist() []domain.Wish {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Wish(nil), s.wishlist...)
}

// OwnedCount is the number of cached copies of figureID.
func (s *CollectionStore) OwnedCount(figureID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return stats.PerFigureOwnedCount(s.owned, figureID)
}

func (s *CollectionStore) Summary() stats.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return stats.Summarize(s.owned)
}

func (s *CollectionStore) AddOwned(ctx context.Context, in apiclient.OwnedInput) (domain.Owned, error) {
	created, err := s.api.CreateOwned(ctx, in)
	if err != nil {
		return domain.Owned{}, err
	}
	s.mu.Lock()
	s.owned = append(s.owned, created)
	s.mu.Unlock()
	s.notifier.Publish(OwnedChanged)
	return created, nil
}

func (s *CollectionStore) UpdateOwned(ctx context.Context, id string, patch apiclient.OwnedPatch) (domain.Owned, error) {
	updated, err := s.api.UpdateOwned(ctx, id, patch)
	if err != nil {
		return domain.Owned{}, err
	}
	s.mu.Lock()
	s.owned = replaceOwned(s.owned, updated)
	s.mu.Unlock()
	s.notifier.Publish(OwnedChanged)
	return updated, nil
}

func (s *CollectionStore) DeleteOwned(ctx context.Context, id string) error {
	if err := s.api.DeleteOwned(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	s.owned = removeOwned(s.owned, id)
	s.mu.Unlock()
	s.notifier.Publish(OwnedChanged)
	return nil
}

// AddWish upserts; an existing entry for the same figure is replaced.
func (s *CollectionStore) AddWish(ctx context.Context, in apiclient.WishInput) (domain.Wish, error) {
	wish, err := s.api.UpsertWish(ctx, in)
	if err != nil {
		return domain.Wish{}, err
	}
	s.mu.Lock()
	s.wishlist = replaceWish(s.wishlist, wish)
	s.mu.Unlock()
	s.notifier.Publish(WishlistChanged)
	return wish, nil
}

func (s *CollectionStore) RemoveWish(ctx context.Context, id string) error {
	if err := s.api.DeleteWish(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	out := s.wishlist[:0:0]
	for _, w := range s.wishlist {
		if w.ID != id {
			out = append(out, w)
		}
	}
	s.wishlist = out
	s.mu.Unlock()
	s.notifier.Publish(WishlistChanged)
	return nil
}

// The helpers below build new slices so copies handed to readers never alias
// the cache.

func replaceOwned(rows []domain.Owned, row domain.Owned) []domain.Owned {
	out := make([]domain.Owned, 0, len(rows)+1)
	found := false
	for _, o := range rows {
		if o.ID == row.ID {
			o = row
			found = true
		}
		out = append(out, o)
	}
	if !found {
		out = append(out, row)
	}
	return out
}

func removeOwned(rows []domain.Owned, id string) []domain.Owned {
	out := make([]domain.Owned, 0, len(rows))
	for _, o := range rows {
		if o.ID != id {
			out = append(out, o)
		}
	}
	return out
}

func replaceWish(rows []domain.Wish, wish domain.Wish) []domain.Wish {
	out := make([]domain.Wish, 0, len(rows)+1)
	found := false
	for _, w := range rows {
		if w.ID == wish.ID || w.FigureID == wish.FigureID {
			if found {
				continue
			}
			w = wish
			found = true
		}
		out = append(out, w)
	}
	if !found {
		out = append(out, wish)
	}
	return out
}
