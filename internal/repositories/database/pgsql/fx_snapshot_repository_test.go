package pgsql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeQuotes_UnionKeepsExistingKeys(t *testing.T) {
	existing := map[string]float64{"USDPLN": 3.6}
	incoming := map[string]float64{"USDTRY": 40}

	merged := mergeQuotes(existing, incoming)

	assert.Equal(t, map[string]float64{"USDPLN": 3.6, "USDTRY": 40}, merged)
}

func TestMergeQuotes_IncomingWinsOnConflict(t *testing.T) {
	existing := map[string]float64{"USDPLN": 3.6, "USDTRY": 40}
	incoming := map[string]float64{"USDPLN": 3.8}

	merged := mergeQuotes(existing, incoming)

	assert.Equal(t, map[string]float64{"USDPLN": 3.8, "USDTRY": 40}, merged)
}

func TestMergeQuotes_DoesNotMutateInputs(t *testing.T) {
	existing := map[string]float64{"USDPLN": 3.6}
	incoming := map[string]float64{"USDPLN": 3.8}

	_ = mergeQuotes(existing, incoming)

	assert.Equal(t, 3.6, existing["USDPLN"])
}

func TestNullableString(t *testing.T) {
	assert.Nil(t, nullableString(""))
	if got := nullableString("live-snapshot"); assert.NotNil(t, got) {
		assert.Equal(t, "live-snapshot", *got)
	}
}
