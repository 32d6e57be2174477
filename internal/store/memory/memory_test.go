package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuvan-fsdev/billing-system/internal/billing"
	"github.com/yuvan-fsdev/billing-system/internal/model"
	"github.com/yuvan-fsdev/billing-system/internal/store"
)

func TestApplyDeltaCreditsAndDebits(t *testing.T) {
	st := New()
	st.SetDenomination(50, 5)

	err := st.Denominations().ApplyDelta(context.Background(),
		model.DenominationMap{50: 2}, model.DenominationMap{50: 1})
	require.NoError(t, err)
	assert.Equal(t, 6, st.DenominationCount(50))
}

func TestApplyDeltaCreatesAbsentDenominationOnCredit(t *testing.T) {
	st := New()

	err := st.Denominations().ApplyDelta(context.Background(),
		model.DenominationMap{200: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, st.DenominationCount(200))
}

func TestApplyDeltaFloorsAtZero(t *testing.T) {
	st := New()
	st.SetDenomination(100, 1)
	st.SetDenomination(50, 3)

	err := st.Denominations().ApplyDelta(context.Background(),
		nil, model.DenominationMap{100: 2, 50: 1})
	assert.Equal(t, billing.KindInsufficientDenominationStock, billing.KindOf(err))

	// The failing delta left every count untouched.
	assert.Equal(t, 1, st.DenominationCount(100))
	assert.Equal(t, 3, st.DenominationCount(50))
}

func TestInTransactionRollsBackOnError(t *testing.T) {
	st := New()
	product := st.AddProduct(model.Product{ProductCode: "P-1", Name: "P", AvailableStock: 4})
	st.SetDenomination(10, 2)

	boom := billing.Errorf(billing.KindPersistence, "boom")
	err := st.InTransaction(context.Background(), func(tx store.Store) error {
		if err := tx.Catalog().TakeStock(context.Background(), product.ID, 3); err != nil {
			return err
		}
		if err := tx.Denominations().ApplyDelta(context.Background(),
			model.DenominationMap{10: 5}, nil); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.Equal(t, 4, st.ProductStock("P-1"))
	assert.Equal(t, 2, st.DenominationCount(10))
}

func TestInTransactionCommitsOnSuccess(t *testing.T) {
	st := New()
	product := st.AddProduct(model.Product{ProductCode: "P-1", Name: "P", AvailableStock: 4})

	err := st.InTransaction(context.Background(), func(tx store.Store) error {
		return tx.Catalog().TakeStock(context.Background(), product.ID, 3)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, st.ProductStock("P-1"))
}
