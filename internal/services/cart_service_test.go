// internal/services/cart_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soukhub/marketplace-backend/internal/models"
)

func TestCartAddItem(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db, nil)
	ctx := context.Background()

	seller := createTestSeller(t, db)
	client := createTestClient(t, db)
	product := createTestProduct(t, db, seller.ID, 10.0, 5)

	result, err := svc.AddItem(ctx, client.ID, &AddCartItemRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, CartAddAdded, result.Status)
	assert.Equal(t, int64(1), result.CartCount)

	items, err := svc.List(client.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestCartAddItemMergesExistingLine(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db, nil)
	ctx := context.Background()

	seller := createTestSeller(t, db)
	client := createTestClient(t, db)
	product := createTestProduct(t, db, seller.ID, 10.0, 5)

	_, err := svc.AddItem(ctx, client.ID, &AddCartItemRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	result, err := svc.AddItem(ctx, client.ID, &AddCartItemRequest{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, CartAddAdded, result.Status)
	assert.Equal(t, int64(1), result.CartCount)

	items, err := svc.List(client.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestCartRejectsSecondSeller(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db, nil)
	ctx := context.Background()

	sellerA := createTestSeller(t, db)
	sellerB := createTestSeller(t, db)
	client := createTestClient(t, db)
	productA := createTestProduct(t, db, sellerA.ID, 10.0, 5)
	productB := createTestProduct(t, db, sellerB.ID, 20.0, 5)

	_, err := svc.AddItem(ctx, client.ID, &AddCartItemRequest{ProductID: productA.ID, Quantity: 1})
	require.NoError(t, err)

	result, err := svc.AddItem(ctx, client.ID, &AddCartItemRequest{ProductID: productB.ID, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, CartAddRejectedDifferentSeller, result.Status)

	// The rejection leaves the cart untouched.
	items, err := svc.List(client.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, productA.ID, items[0].ProductID)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestCartSameSellerSecondProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db, nil)
	ctx := context.Background()

	seller := createTestSeller(t, db)
	client := createTestClient(t, db)
	productA := createTestProduct(t, db, seller.ID, 10.0, 5)
	productB := createTestProduct(t, db, seller.ID, 20.0, 5)

	_, err := svc.AddItem(ctx, client.ID, &AddCartItemRequest{ProductID: productA.ID, Quantity: 1})
	require.NoError(t, err)

	result, err := svc.AddItem(ctx, client.ID, &AddCartItemRequest{ProductID: productB.ID, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, CartAddAdded, result.Status)
	assert.Equal(t, int64(2), result.CartCount)
}

func TestCartAddUnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db, nil)

	client := createTestClient(t, db)

	_, err := svc.AddItem(context.Background(), client.ID, &AddCartItemRequest{ProductID: uuid.New(), Quantity: 1})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartRemoveItem(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db, nil)
	ctx := context.Background()

	seller := createTestSeller(t, db)
	client := createTestClient(t, db)
	product := createTestProduct(t, db, seller.ID, 10.0, 5)

	_, err := svc.AddItem(ctx, client.ID, &AddCartItemRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	items, err := svc.List(client.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	count, err := svc.RemoveItem(ctx, client.ID, items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// Removing again reports not found.
	_, err = svc.RemoveItem(ctx, client.ID, items[0].ID)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartRemoveItemScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db, nil)
	ctx := context.Background()

	seller := createTestSeller(t, db)
	owner := createTestClient(t, db)
	other := createTestClient(t, db)
	product := createTestProduct(t, db, seller.ID, 10.0, 5)

	_, err := svc.AddItem(ctx, owner.ID, &AddCartItemRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	items, err := svc.List(owner.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, err = svc.RemoveItem(ctx, other.ID, items[0].ID)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartSetQuantity(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db, nil)
	ctx := context.Background()

	seller := createTestSeller(t, db)
	client := createTestClient(t, db)
	product := createTestProduct(t, db, seller.ID, 10.0, 2)

	_, err := svc.AddItem(ctx, client.ID, &AddCartItemRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	items, err := svc.List(client.ID)
	require.NoError(t, err)

	// Quantities above the available stock are accepted; checkout
	// clamps at that point.
	require.NoError(t, svc.SetQuantity(ctx, client.ID, items[0].ID, &UpdateCartItemRequest{Quantity: 9}))

	items, err = svc.List(client.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, items[0].Quantity)
}

func TestCartClearAndCount(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db, nil)
	ctx := context.Background()

	seller := createTestSeller(t, db)
	client := createTestClient(t, db)
	productA := createTestProduct(t, db, seller.ID, 10.0, 5)
	productB := createTestProduct(t, db, seller.ID, 20.0, 5)

	_, err := svc.AddItem(ctx, client.ID, &AddCartItemRequest{ProductID: productA.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, client.ID, &AddCartItemRequest{ProductID: productB.ID, Quantity: 4})
	require.NoError(t, err)

	count, err := svc.Count(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, svc.Clear(ctx, client.ID))

	count, err = svc.Count(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	var remaining int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("client_id = ?", client.ID).Count(&remaining).Error)
	assert.Equal(t, int64(0), remaining)
}
