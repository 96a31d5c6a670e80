package stats

import (
	"github.com/Clark-Hu/figure-collector/internal/domain"
)

// UserCollection is one row of the admin collection report.
type UserCollection struct {
	UserID         string  `json:"userId"`
	Email          string  `json:"email"`
	Name           *string `json:"name"`
	OwnedCopies    int     `json:"ownedCopies"`
	OwnedUnique    int     `json:"ownedUnique"`
	SpendCentsBase int64   `json:"spendCentsEUR"`
}

// SpendByUser groups owned rows by user. Rows of unknown users are ignored.
func SpendByUser(users []domain.User, owned []domain.Owned, conv Converter) []UserCollection {
	byUser := make(map[string][]domain.Owned, len(users))
	for _, u := range users {
		byUser[u.ID] = nil
	}
	for _, o := range owned {
		if _, ok := byUser[o.UserID]; ok {
			byUser[o.UserID] = append(byUser[o.UserID], o)
		}
	}

	rows := make([]UserCollection, 0, len(users))
	for _, u := range users {
		rowsForUser := byUser[u.ID]
		summary := Summarize(rowsForUser)
		rows = append(rows, UserCollection{
			UserID:         u.ID,
			Email:          u.Email,
			Name:           u.Name,
			OwnedCopies:    summary.Copies,
			OwnedUnique:    summary.Unique,
			SpendCentsBase: spendBase(rowsForUser, conv),
		})
	}
	return rows
}
