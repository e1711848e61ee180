package fxcalc_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/triptally/fx_backend/internal/utils/fxcalc"
)

func TestPivotRate_CrossViaBase(t *testing.T) {
	quotes := map[string]float64{"USDPLN": 3.6, "USDTRY": 40}

	// from TRY to PLN: USDPLN / USDTRY = 3.6 / 40 = 0.09
	rate, ok := fxcalc.PivotRate(quotes, "USD", "TRY", "PLN")

	assert.True(t, ok)
	assert.InDelta(t, 0.09, rate, 1e-5)
}

func TestPivotRate_MissingLeg(t *testing.T) {
	quotes := map[string]float64{"USDPLN": 3.6}

	_, ok := fxcalc.PivotRate(quotes, "USD", "TRY", "PLN")

	assert.False(t, ok)
}

func TestPivotRate_IdentityPair(t *testing.T) {
	rate, ok := fxcalc.PivotRate(map[string]float64{}, "USD", "eur", "EUR")

	assert.True(t, ok)
	assert.Equal(t, 1.0, rate)
}

func TestPivotRate_ZeroDivisorLeg(t *testing.T) {
	quotes := map[string]float64{"USDTRY": 0, "USDPLN": 3.6}

	_, ok := fxcalc.PivotRate(quotes, "USD", "TRY", "PLN")

	assert.False(t, ok)
}

func TestPivotRate_RoundsToSixDecimals(t *testing.T) {
	quotes := map[string]float64{"USDEUR": 3, "USDGBP": 1}

	rate, ok := fxcalc.PivotRate(quotes, "USD", "EUR", "GBP")

	assert.True(t, ok)
	assert.Equal(t, 0.333333, rate)
}

func TestPivotRate_RateRoundingToZeroIsMiss(t *testing.T) {
	// IDR->BTC through USD is ~1e-9, which rounds to 0 at 6 decimals. A zero
	// rate must read as a miss, never as a usable conversion rate.
	quotes := map[string]float64{"USDIDR": 16000, "USDBTC": 0.000016}

	_, ok := fxcalc.PivotRate(quotes, "USD", "IDR", "BTC")

	assert.False(t, ok)
}

func TestPivotRate_LowercaseInputs(t *testing.T) {
	quotes := map[string]float64{"USDPLN": 3.6, "USDTRY": 40}

	rate, ok := fxcalc.PivotRate(quotes, "usd", "try", "pln")

	assert.True(t, ok)
	assert.InDelta(t, 0.09, rate, 1e-5)
}

func TestIsUsableRate(t *testing.T) {
	assert.True(t, fxcalc.IsUsableRate(3.75))
	assert.False(t, fxcalc.IsUsableRate(0))
	assert.False(t, fxcalc.IsUsableRate(-1))
	assert.False(t, fxcalc.IsUsableRate(math.NaN()))
	assert.False(t, fxcalc.IsUsableRate(math.Inf(1)))
}
