package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hoodie(qty int, size string) CartLine {
	return CartLine{
		ProductID: 1,
		Name:      "Oversized Hoodie",
		Price:     15000,
		Category:  "hoodies",
		Size:      size,
		Quantity:  qty,
	}
}

func TestCart_AddLine_MergesSameProductAndSize(t *testing.T) {
	cart := NewCart()

	cart.AddLine(hoodie(1, "M"))
	cart.AddLine(hoodie(2, "M"))

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 3, cart.Lines[0].Quantity)
}

func TestCart_AddLine_DifferentSizesStayDistinct(t *testing.T) {
	cart := NewCart()

	cart.AddLine(hoodie(1, "M"))
	cart.AddLine(hoodie(1, "L"))

	require.Len(t, cart.Lines, 2)
	assert.Equal(t, "M", cart.Lines[0].Size)
	assert.Equal(t, "L", cart.Lines[1].Size)
}

func TestCart_AddLine_NonPositiveQuantityTreatedAsOne(t *testing.T) {
	cart := NewCart()

	cart.AddLine(hoodie(0, "M"))
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 1, cart.Lines[0].Quantity)

	cart.AddLine(hoodie(-5, "M"))
	assert.Equal(t, 2, cart.Lines[0].Quantity)
}

func TestCart_SetQuantity_ZeroRemovesLine(t *testing.T) {
	cart := NewCart()
	cart.AddLine(hoodie(2, "M"))

	cart.SetQuantity(CartLineKey(1, "M"), 0)
	assert.True(t, cart.IsEmpty())

	cart.AddLine(hoodie(2, "M"))
	cart.SetQuantity(CartLineKey(1, "M"), -3)
	assert.True(t, cart.IsEmpty())
}

func TestCart_SetQuantity_UnknownKeyIsNoOp(t *testing.T) {
	cart := NewCart()
	cart.AddLine(hoodie(2, "M"))

	cart.SetQuantity(CartLineKey(99, "XL"), 5)

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
}

func TestCart_RemoveLine_UnknownKeyIsNoOp(t *testing.T) {
	cart := NewCart()
	cart.AddLine(hoodie(1, "M"))

	cart.RemoveLine(CartLineKey(1, "L"))
	require.Len(t, cart.Lines, 1)

	cart.RemoveLine(CartLineKey(1, "M"))
	assert.True(t, cart.IsEmpty())
}

func TestCart_TotalPriceAndItemCount(t *testing.T) {
	cart := NewCart()
	cart.AddLine(CartLine{ProductID: 1, Price: 15000, Size: "M", Quantity: 2})
	cart.AddLine(CartLine{ProductID: 2, Name: "Logo Cap", Price: 5000, Quantity: 1})

	assert.Equal(t, float64(35000), cart.TotalPrice())
	assert.Equal(t, 3, cart.ItemCount())
}

func TestCart_Clear(t *testing.T) {
	cart := NewCart()
	cart.AddLine(hoodie(2, "M"))
	cart.AddLine(hoodie(1, "L"))

	cart.Clear()

	assert.True(t, cart.IsEmpty())
	assert.Equal(t, 0, cart.ItemCount())
	assert.Equal(t, float64(0), cart.TotalPrice())
}

func TestCart_JSONRoundTrip_PreservesOrderAndVersion(t *testing.T) {
	cart := NewCart()
	cart.AddLine(hoodie(2, "M"))
	cart.AddLine(CartLine{ProductID: 2, Name: "Logo Cap", Price: 5000, Quantity: 1})
	cart.AddLine(hoodie(1, "L"))

	payload, err := json.Marshal(cart)
	require.NoError(t, err)

	var restored Cart
	require.NoError(t, json.Unmarshal(payload, &restored))

	assert.Equal(t, CartPayloadVersion, restored.Version)
	require.Len(t, restored.Lines, 3)
	assert.Equal(t, cart.Lines[0].Key(), restored.Lines[0].Key())
	assert.Equal(t, cart.Lines[1].Key(), restored.Lines[1].Key())
	assert.Equal(t, cart.Lines[2].Key(), restored.Lines[2].Key())
	assert.Equal(t, cart.TotalPrice(), restored.TotalPrice())
}

func TestCartLineKey_IncludesSize(t *testing.T) {
	assert.Equal(t, "7-M", CartLineKey(7, "M"))
	assert.Equal(t, "7-", CartLineKey(7, ""))
	assert.NotEqual(t, CartLineKey(7, "M"), CartLineKey(7, "L"))
}
