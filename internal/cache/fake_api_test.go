package cache

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/Clark-Hu/figure-collector/internal/apiclient"
	"github.com/Clark-Hu/figure-collector/internal/currency"
	"github.com/Clark-Hu/figure-collector/internal/domain"
)

// fakeAPI is an in-memory stand-in for the API server.
type fakeAPI struct {
	mu       sync.Mutex
	catalog  apiclient.Catalog
	figures  map[string]bool
	owned    []domain.Owned
	wishlist []domain.Wish
	nextID   int

	catalogCalls int
	fxCalls      int
	fx           currency.DailyRates
	fxErr        error
	listErr      error
	wishErr      error
}

func newFakeAPI(figureIDs ...string) *fakeAPI {
	f := &fakeAPI{figures: map[string]bool{}}
	for _, id := range figureIDs {
		f.figures[id] = true
		f.catalog.Figures = append(f.catalog.Figures, domain.Figure{ID: id, Name: "Figure " + id, Series: "X-Men"})
	}
	f.catalog.Series = []string{"X-Men"}
	return f
}

func (f *fakeAPI) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func notFound() error {
	return &apiclient.Error{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: "not found"}
}

func (f *fakeAPI) Catalog(ctx context.Context) (apiclient.Catalog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.catalogCalls++
	if f.listErr != nil {
		return apiclient.Catalog{}, f.listErr
	}
	return apiclient.Catalog{
		Series:  append([]string(nil), f.catalog.Series...),
		Figures: append([]domain.Figure(nil), f.catalog.Figures...),
	}, nil
}

func (f *fakeAPI) FX(ctx context.Context) (currency.DailyRates, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fxCalls++
	return f.fx, f.fxErr
}

func (f *fakeAPI) ListOwned(ctx context.Context) ([]domain.Owned, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.Owned(nil), f.owned...), nil
}

func (f *fakeAPI) CreateOwned(ctx context.Context, in apiclient.OwnedInput) (domain.Owned, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.figures[in.FigureID] {
		return domain.Owned{}, notFound()
	}
	ccy := in.Currency
	if ccy == "" {
		ccy = "EUR"
	}
	o := domain.Owned{
		ID:             f.id("own"),
		FigureID:       in.FigureID,
		PricePaidCents: in.PricePaidCents,
		TaxCents:       in.TaxCents,
		ShippingCents:  in.ShippingCents,
		Currency:       ccy,
		FxPerEUR:       in.FxPerEUR,
		Note:           in.Note,
	}
	f.owned = append(f.owned, o)
	return o, nil
}

func (f *fakeAPI) UpdateOwned(ctx context.Context, id string, patch apiclient.OwnedPatch) (domain.Owned, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, o := range f.owned {
		if o.ID != id {
			continue
		}
		if patch.PricePaidCents != nil {
			o.PricePaidCents = *patch.PricePaidCents
		}
		if patch.Note != nil {
			o.Note = patch.Note
		}
		f.owned[i] = o
		return o, nil
	}
	return domain.Owned{}, notFound()
}

func (f *fakeAPI) DeleteOwned(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, o := range f.owned {
		if o.ID == id {
			f.owned = append(f.owned[:i], f.owned[i+1:]...)
			return nil
		}
	}
	return notFound()
}

func (f *fakeAPI) ListWishlist(ctx context.Context) ([]domain.Wish, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.wishErr != nil {
		return nil, f.wishErr
	}
	return append([]domain.Wish(nil), f.wishlist...), nil
}

func (f *fakeAPI) UpsertWish(ctx context.Context, in apiclient.WishInput) (domain.Wish, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.figures[in.FigureID] {
		return domain.Wish{}, notFound()
	}
	for i, w := range f.wishlist {
		if w.FigureID == in.FigureID {
			w.WantAnother = in.WantAnother
			w.Note = in.Note
			f.wishlist[i] = w
			return w, nil
		}
	}
	w := domain.Wish{ID: f.id("wish"), FigureID: in.FigureID, WantAnother: in.WantAnother, Note: in.Note}
	f.wishlist = append(f.wishlist, w)
	return w, nil
}

func (f *fakeAPI) DeleteWish(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, w := range f.wishlist {
		if w.ID == id {
			f.wishlist = append(f.wishlist[:i], f.wishlist[i+1:]...)
			return nil
		}
	}
	return notFound()
}
