package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateSource communicates where a resolved rate came from. Callers persist it
// alongside converted amounts so degraded conversions can be reconciled later.
type RateSource string

const (
	RateSourceIdentity   RateSource = "identity"
	RateSourceCache      RateSource = "cache"
	RateSourceLive       RateSource = "live"
	RateSourceDailyCache RateSource = "daily-cache"
	RateSourceFallback   RateSource = "fallback"
)

// FxRateResult is the outcome of a rate resolution. Rate is always finite and
// positive; when Source is RateSourceFallback the rate is exactly 1 and
// Warning explains the degradation.
type FxRateResult struct {
	Rate    float64    `json:"rate"`
	Source  RateSource `json:"source"`
	Warning string     `json:"warning,omitempty"`
}

// Conversion pairs a converted amount with the rate metadata that produced it.
type Conversion struct {
	Value decimal.Decimal `json:"value"`
	Meta  FxRateResult    `json:"meta"`
}

// PivotedRate is a rate derived by triangulating through a common base currency.
type PivotedRate struct {
	Rate float64 `json:"rate"`
	Base string  `json:"base"`
}

// CurrencyPair identifies a from/to conversion direction.
type CurrencyPair struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// DailySnapshot is one persisted row of base-relative quotes for a UTC day.
// Quotes keys are concatenated currency codes (e.g. "USDPLN") mapping to
// positive finite rates.
type DailySnapshot struct {
	SnapshotID   string             `json:"snapshotID"`
	BaseCurrency string             `json:"baseCurrency"`
	RateDate     time.Time          `json:"rateDate"`
	Provider     string             `json:"provider"`
	Quotes       map[string]float64 `json:"quotes"`
	FetchedAt    time.Time          `json:"fetchedAt"`
	SourceAPI    string             `json:"sourceAPI,omitempty"`
}
