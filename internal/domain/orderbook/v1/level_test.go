package orderbookv1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceLevel_Enqueue(t *testing.T) {
	lvl := &PriceLevel{Price: 100.0}

	o1 := NewOrder(1, Buy, 100.0, 5, 1)
	o2 := NewOrder(2, Buy, 100.0, 3, 2)
	lvl.Enqueue(o1)
	lvl.Enqueue(o2)

	assert.Equal(t, 2, lvl.OrderCount)
	assert.Equal(t, int64(8), lvl.TotalQuantity)
	assert.Same(t, o1, lvl.Front())
	assert.Same(t, lvl, o1.Level())
	assert.Same(t, lvl, o2.Level())
}

func TestPriceLevel_FIFOOrder(t *testing.T) {
	lvl := &PriceLevel{Price: 50.0}

	for id := int64(1); id <= 5; id++ {
		lvl.Enqueue(NewOrder(id, Sell, 50.0, 1, id))
	}

	orders := lvl.Orders()
	require.Len(t, orders, 5)
	for i, o := range orders {
		assert.Equal(t, int64(i+1), o.ID)
	}
}

func TestPriceLevel_FillReducesTotal(t *testing.T) {
	lvl := &PriceLevel{Price: 100.0}
	o1 := NewOrder(1, Buy, 100.0, 10, 1)
	o2 := NewOrder(2, Buy, 100.0, 3, 2)
	lvl.Enqueue(o1)
	lvl.Enqueue(o2)

	o1.Fill(4)
	assert.Equal(t, int64(6), o1.Quantity)
	assert.Equal(t, int64(9), lvl.TotalQuantity)

	// Filling the rest and unlinking must leave only o2's quantity.
	o1.Fill(6)
	require.True(t, o1.IsFilled())
	lvl.Unlink(o1)
	assert.Equal(t, int64(3), lvl.TotalQuantity)
	assert.Equal(t, 1, lvl.OrderCount)
}

func TestPriceLevel_Unlink(t *testing.T) {
	t.Run("middle order", func(t *testing.T) {
		lvl := &PriceLevel{Price: 100.0}
		o1 := NewOrder(1, Buy, 100.0, 5, 1)
		o2 := NewOrder(2, Buy, 100.0, 3, 2)
		o3 := NewOrder(3, Buy, 100.0, 2, 3)
		lvl.Enqueue(o1)
		lvl.Enqueue(o2)
		lvl.Enqueue(o3)

		lvl.Unlink(o2)

		require.Equal(t, 2, lvl.OrderCount)
		assert.Equal(t, int64(7), lvl.TotalQuantity)
		orders := lvl.Orders()
		assert.Equal(t, int64(1), orders[0].ID)
		assert.Equal(t, int64(3), orders[1].ID)
		assert.Nil(t, o2.Level())
	})

	t.Run("head order", func(t *testing.T) {
		lvl := &PriceLevel{Price: 100.0}
		o1 := NewOrder(1, Buy, 100.0, 5, 1)
		o2 := NewOrder(2, Buy, 100.0, 3, 2)
		lvl.Enqueue(o1)
		lvl.Enqueue(o2)

		lvl.Unlink(o1)

		assert.Same(t, o2, lvl.Front())
		assert.Equal(t, int64(3), lvl.TotalQuantity)
	})

	t.Run("last order empties the level", func(t *testing.T) {
		lvl := &PriceLevel{Price: 100.0}
		o1 := NewOrder(1, Buy, 100.0, 5, 1)
		lvl.Enqueue(o1)

		lvl.Unlink(o1)

		assert.True(t, lvl.IsEmpty())
		assert.Nil(t, lvl.Front())
		assert.Equal(t, int64(0), lvl.TotalQuantity)
		assert.Equal(t, 0, lvl.OrderCount)
	})
}
