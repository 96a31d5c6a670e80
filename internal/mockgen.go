package internal

//go:generate mockgen -destination=./mocks/rate_source_mock.go -package=mocks github.com/Clark-Hu/figure-collector/internal/currency RateSource
