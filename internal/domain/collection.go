package domain

import "time"

// Owned is a single purchased copy of a figure. Money is stored in minor units
// of Currency; FxPerEUR, when set, is the rate captured at purchase time as
// units of Currency per 1 EUR.
type Owned struct {
	ID             string    `json:"id"`
	UserID         string    `json:"-"`
	FigureID       string    `json:"figureId"`
	PricePaidCents int64     `json:"pricePaidCents"`
	TaxCents       int64     `json:"taxCents"`
	ShippingCents  int64     `json:"shippingCents"`
	Currency       string    `json:"currency"`
	FxPerEUR       *float64  `json:"fxPerEUR"`
	Note           *string   `json:"note"`
	CreatedAt      time.Time `json:"createdAt"`
}

// LineTotal is price + tax + shipping in the row's currency.
func (o Owned) LineTotal() int64 {
	return o.PricePaidCents + o.TaxCents + o.ShippingCents
}

// Wish marks a figure a user wants. WantAnother means the user still wants a
// copy even though one is already owned.
type Wish struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	FigureID    string    `json:"figureId"`
	WantAnother bool      `json:"wantAnother"`
	Note        *string   `json:"note"`
	CreatedAt   time.Time `json:"createdAt"`
}
