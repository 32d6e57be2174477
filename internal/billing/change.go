package billing

import (
	"strconv"

	"github.com/yuvan-fsdev/billing-system/internal/model"
)

// NormalizeDenominationMap coerces raw string-keyed counts into a
// DenominationMap. Denomination values must be positive integers and counts
// non-negative; zero counts are dropped.
func NormalizeDenominationMap(raw map[string]int) (model.DenominationMap, error) {
	cleaned := make(model.DenominationMap, len(raw))
	for rawKey, count := range raw {
		value, err := strconv.Atoi(rawKey)
		if err != nil {
			return nil, Errorf(KindInvalidDenomination, "denomination %q is not an integer", rawKey)
		}
		if value <= 0 || count < 0 {
			return nil, Errorf(KindInvalidDenomination, "denominations must be positive and counts non-negative")
		}
		if count == 0 {
			continue
		}
		cleaned[value] = count
	}
	return cleaned, nil
}

// ComputeChange walks the denomination inventory from the largest value down,
// taking from each denomination the smaller of its available count and what
// the remaining amount still needs. The inventory must already be ordered by
// descending value. The returned remainder is zero when exact change was
// made, or the positive shortfall when stock ran out; a shortfall is not an
// error, the caller reports it to the customer.
//
// Greedy largest-first is not guaranteed to minimize note count under
// constrained stock, but it is deterministic and matches what the register
// dispenses.
func ComputeChange(changeDue int64, inventory []model.DenominationStock) (model.DenominationMap, int64) {
	if changeDue <= 0 {
		return model.DenominationMap{}, changeDue
	}

	result := model.DenominationMap{}
	remaining := changeDue

	for _, denom := range inventory {
		if remaining <= 0 {
			break
		}
		if denom.Value <= 0 {
			continue
		}
		take := remaining / int64(denom.Value)
		if take > int64(denom.AvailableCount) {
			take = int64(denom.AvailableCount)
		}
		if take > 0 {
			result[denom.Value] = int(take)
			remaining -= int64(denom.Value) * take
		}
	}

	return result, remaining
}

// NetDelta folds the received and dispensed maps into one per-denomination
// stock delta: received counts credit, given counts debit.
func NetDelta(received, given model.DenominationMap) map[int]int {
	deltas := make(map[int]int, len(received)+len(given))
	for value, count := range received {
		deltas[value] += count
	}
	for value, count := range given {
		deltas[value] -= count
	}
	return deltas
}
