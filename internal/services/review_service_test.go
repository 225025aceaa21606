// internal/services/review_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soukhub/marketplace-backend/internal/models"
)

func TestProductReviewAggregates(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db)

	seller := createTestSeller(t, db)
	clientA := createTestClient(t, db)
	clientB := createTestClient(t, db)
	product := createTestProduct(t, db, seller.ID, 10.0, 5)

	_, err := svc.ReviewProduct(clientA.ID, product.ID, &SubmitReviewRequest{Rating: 5, Comment: "great"})
	require.NoError(t, err)

	_, err = svc.ReviewProduct(clientB.ID, product.ID, &SubmitReviewRequest{Rating: 4})
	require.NoError(t, err)

	var updated models.Product
	require.NoError(t, db.First(&updated, "id = ?", product.ID).Error)
	assert.InDelta(t, 4.5, updated.Rating, 0.001)
}

func TestProductReviewUpsertRecomputesMean(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db)

	seller := createTestSeller(t, db)
	clientA := createTestClient(t, db)
	clientB := createTestClient(t, db)
	product := createTestProduct(t, db, seller.ID, 10.0, 5)

	_, err := svc.ReviewProduct(clientA.ID, product.ID, &SubmitReviewRequest{Rating: 5})
	require.NoError(t, err)
	_, err = svc.ReviewProduct(clientB.ID, product.ID, &SubmitReviewRequest{Rating: 4})
	require.NoError(t, err)

	// Reviewing again replaces the existing review instead of adding a
	// second one.
	_, err = svc.ReviewProduct(clientB.ID, product.ID, &SubmitReviewRequest{Rating: 2, Comment: "changed my mind"})
	require.NoError(t, err)

	reviews, err := svc.ProductReviews(product.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)

	var updated models.Product
	require.NoError(t, db.First(&updated, "id = ?", product.ID).Error)
	assert.InDelta(t, 3.5, updated.Rating, 0.001)
}

func TestDeleteProductReviewRefreshesAggregate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db)

	seller := createTestSeller(t, db)
	clientA := createTestClient(t, db)
	clientB := createTestClient(t, db)
	product := createTestProduct(t, db, seller.ID, 10.0, 5)

	_, err := svc.ReviewProduct(clientA.ID, product.ID, &SubmitReviewRequest{Rating: 5})
	require.NoError(t, err)
	_, err = svc.ReviewProduct(clientB.ID, product.ID, &SubmitReviewRequest{Rating: 1})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProductReview(clientB.ID, product.ID))

	var updated models.Product
	require.NoError(t, db.First(&updated, "id = ?", product.ID).Error)
	assert.InDelta(t, 5.0, updated.Rating, 0.001)

	// A removed review can be deleted only once.
	assert.ErrorIs(t, svc.DeleteProductReview(clientB.ID, product.ID), ErrReviewNotFound)
}

func TestSellerReviewAggregates(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db)

	seller := createTestSeller(t, db)
	clientA := createTestClient(t, db)
	clientB := createTestClient(t, db)

	_, err := svc.ReviewSeller(clientA.ID, seller.ID, &SubmitReviewRequest{Rating: 3})
	require.NoError(t, err)
	_, err = svc.ReviewSeller(clientB.ID, seller.ID, &SubmitReviewRequest{Rating: 4})
	require.NoError(t, err)

	var updated models.Seller
	require.NoError(t, db.First(&updated, "id = ?", seller.ID).Error)
	assert.InDelta(t, 3.5, updated.Rating, 0.001)

	_, err = svc.ReviewSeller(clientA.ID, seller.ID, &SubmitReviewRequest{Rating: 5})
	require.NoError(t, err)

	require.NoError(t, db.First(&updated, "id = ?", seller.ID).Error)
	assert.InDelta(t, 4.5, updated.Rating, 0.001)
}

func TestReviewValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db)

	seller := createTestSeller(t, db)
	client := createTestClient(t, db)
	product := createTestProduct(t, db, seller.ID, 10.0, 5)

	_, err := svc.ReviewProduct(client.ID, product.ID, &SubmitReviewRequest{Rating: 6})
	assert.Error(t, err)

	_, err = svc.ReviewProduct(client.ID, product.ID, &SubmitReviewRequest{Rating: 0})
	assert.Error(t, err)
}
