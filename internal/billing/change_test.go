package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuvan-fsdev/billing-system/internal/model"
)

func TestNormalizeDenominationMap(t *testing.T) {
	cleaned, err := NormalizeDenominationMap(map[string]int{"200": 2, "100": 1, "50": 0})
	require.NoError(t, err)
	assert.Equal(t, model.DenominationMap{200: 2, 100: 1}, cleaned)
}

func TestNormalizeDenominationMapRejectsInvalidEntries(t *testing.T) {
	cases := map[string]map[string]int{
		"zero denomination":     {"0": 1},
		"negative denomination": {"-5": 1},
		"negative count":        {"100": -1},
		"non-integer key":       {"ten": 1},
	}
	for name, raw := range cases {
		_, err := NormalizeDenominationMap(raw)
		assert.Equal(t, KindInvalidDenomination, KindOf(err), name)
	}
}

func stock(value, count int) model.DenominationStock {
	return model.DenominationStock{Value: value, AvailableCount: count}
}

func TestComputeChangeRespectsStock(t *testing.T) {
	inventory := []model.DenominationStock{stock(100, 1), stock(50, 2), stock(20, 0)}

	changeMap, remainder := ComputeChange(180, inventory)
	assert.Equal(t, model.DenominationMap{100: 1, 50: 1}, changeMap)
	assert.Equal(t, int64(30), remainder)
}

func TestComputeChangeGreedyLargestFirst(t *testing.T) {
	inventory := []model.DenominationStock{stock(100, 1), stock(50, 2), stock(20, 2), stock(10, 5)}

	changeMap, remainder := ComputeChange(90, inventory)
	assert.Equal(t, model.DenominationMap{50: 1, 20: 2}, changeMap)
	assert.Equal(t, int64(0), remainder)
}

func TestComputeChangeValueConservation(t *testing.T) {
	inventory := []model.DenominationStock{stock(500, 1), stock(200, 3), stock(50, 4), stock(10, 2), stock(2, 7)}

	for _, due := range []int64{1, 37, 90, 180, 643, 1500, 2000} {
		changeMap, remainder := ComputeChange(due, inventory)
		assert.Equal(t, due, changeMap.Total()+remainder, "change due %d", due)
		for _, denom := range inventory {
			assert.LessOrEqual(t, changeMap[denom.Value], denom.AvailableCount,
				"change due %d overdraws denomination %d", due, denom.Value)
		}
	}
}

func TestComputeChangeNothingDue(t *testing.T) {
	inventory := []model.DenominationStock{stock(100, 5)}

	changeMap, remainder := ComputeChange(0, inventory)
	assert.Empty(t, changeMap)
	assert.Equal(t, int64(0), remainder)

	changeMap, remainder = ComputeChange(-10, inventory)
	assert.Empty(t, changeMap)
	assert.Equal(t, int64(-10), remainder)
}

func TestNetDelta(t *testing.T) {
	deltas := NetDelta(model.DenominationMap{200: 1, 50: 2}, model.DenominationMap{50: 1, 20: 2})
	assert.Equal(t, map[int]int{200: 1, 50: 1, 20: -2}, deltas)
}
