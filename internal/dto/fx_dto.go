package dto

import (
	"github.com/shopspring/decimal"
	"github.com/triptally/fx_backend/internal/core/domain"
)

// ConvertAmountRequest defines the payload for converting a monetary amount.
type ConvertAmountRequest struct {
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	FromCurrency string          `json:"fromCurrency" binding:"required,currency"`
	ToCurrency   string          `json:"toCurrency" binding:"required,currency"`
}

// ConvertAmountResponse carries the converted value plus rate provenance so
// callers can persist fx_rate/fx_source/fx_warning alongside the record.
type ConvertAmountResponse struct {
	Value   decimal.Decimal `json:"value"`
	Rate    float64         `json:"rate"`
	Source  string          `json:"source"`
	Warning string          `json:"warning,omitempty"`
}

// RateResponse defines the API response for a single rate lookup.
type RateResponse struct {
	FromCurrency string  `json:"fromCurrency"`
	ToCurrency   string  `json:"toCurrency"`
	Rate         float64 `json:"rate"`
	Source       string  `json:"source"`
	Base         string  `json:"base,omitempty"`
	Warning      string  `json:"warning,omitempty"`
}

// CurrencyPairRequest is one from/to direction inside a prefetch request.
type CurrencyPairRequest struct {
	From string `json:"from" binding:"required,currency"`
	To   string `json:"to" binding:"required,currency"`
}

// PrefetchRequest defines the payload for warming the rate cache.
type PrefetchRequest struct {
	Pairs []CurrencyPairRequest `json:"pairs" binding:"required,min=1,dive"`
}

// ToConvertAmountResponse converts a domain.Conversion to its response DTO.
func ToConvertAmountResponse(conv domain.Conversion) ConvertAmountResponse {
	return ConvertAmountResponse{
		Value:   conv.Value,
		Rate:    conv.Meta.Rate,
		Source:  string(conv.Meta.Source),
		Warning: conv.Meta.Warning,
	}
}

// ToCurrencyPairs converts prefetch request pairs to domain pairs.
func ToCurrencyPairs(pairs []CurrencyPairRequest) []domain.CurrencyPair {
	out := make([]domain.CurrencyPair, len(pairs))
	for i, p := range pairs {
		out[i] = domain.CurrencyPair{From: p.From, To: p.To}
	}
	return out
}
