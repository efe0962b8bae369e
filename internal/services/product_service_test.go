// internal/services/product_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytemart/bytemart-backend/internal/apperrors"
	"github.com/bytemart/bytemart-backend/internal/docstore"
	"github.com/bytemart/bytemart-backend/internal/models"
)

func testFiles() []models.ProductFile {
	return []models.ProductFile{{
		ID:           "f1",
		OriginalName: "asset.zip",
		StoredName:   "0011223344556677889900112233445566778899001122334455667788990011.zip",
		Size:         1024,
		MimeType:     "application/zip",
		Path:         "/tmp/asset.zip",
	}}
}

func createTestProduct(t *testing.T, db *docstore.DB, seller *models.User, title string) *models.Product {
	t.Helper()
	product, err := NewProductService(db, newTestStorage(t)).CreateProduct(seller, &CreateProductRequest{
		Title:       title,
		Description: "A description long enough to validate.",
		Price:       "1.5",
		Category:    "graphics",
		Tags:        "icons, ui",
	}, testFiles())
	require.NoError(t, err)
	return product
}

func TestCreateProductRequiresStore(t *testing.T) {
	db := newTestDB(t)
	user := registerTestUser(t, db, "alice@example.com")

	_, err := NewProductService(db, newTestStorage(t)).CreateProduct(user, &CreateProductRequest{
		Title:       "Icon Pack",
		Description: "A description long enough to validate.",
		Price:       "1.5",
	}, testFiles())
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindPrecondition))
}

func TestCreateProductRegistersInStore(t *testing.T) {
	db := newTestDB(t)
	seller, store := sellerWithStore(t, db, "alice@example.com", "Pixel Goods")

	product := createTestProduct(t, db, seller, "Icon Pack")
	assert.Equal(t, 1.5, product.Price)
	assert.Equal(t, int64(0), product.Views)
	assert.Equal(t, int64(0), product.Sales)
	assert.Equal(t, "Pixel Goods", product.StoreName)
	assert.Equal(t, []string{"icons", "ui"}, product.Tags)

	fresh, err := NewStoreService(db).GetStore(store.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{product.ID}, fresh.ProductIDs)
}

func TestCreateProductRejectsBadPrice(t *testing.T) {
	db := newTestDB(t)
	seller, _ := sellerWithStore(t, db, "alice@example.com", "Pixel Goods")

	for _, price := range []string{"free", "-1"} {
		_, err := NewProductService(db, newTestStorage(t)).CreateProduct(seller, &CreateProductRequest{
			Title:       "Icon Pack",
			Description: "A description long enough to validate.",
			Price:       price,
		}, testFiles())
		require.Error(t, err, "price %q", price)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	}
}

func TestGetProductIncrementsViews(t *testing.T) {
	db := newTestDB(t)
	seller, _ := sellerWithStore(t, db, "alice@example.com", "Pixel Goods")
	product := createTestProduct(t, db, seller, "Icon Pack")

	svc := NewProductService(db, newTestStorage(t))
	for i := int64(1); i <= 3; i++ {
		got, err := svc.GetProduct(product.ID)
		require.NoError(t, err)
		assert.Equal(t, i, got.Views)
	}

	// FindProduct is the quiet read used by downloads.
	got, err := svc.FindProduct(product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Views)
}

func TestSearchMatchesTitleDescriptionAndTags(t *testing.T) {
	db := newTestDB(t)
	seller, _ := sellerWithStore(t, db, "alice@example.com", "Pixel Goods")
	createTestProduct(t, db, seller, "Icon Pack")

	svc := NewProductService(db, newTestStorage(t))

	for _, query := range []string{"ICON", "validate", "ui"} {
		results, err := svc.Search(query)
		require.NoError(t, err)
		assert.Len(t, results, 1, "query %q", query)
	}

	results, err := svc.Search("")
	require.NoError(t, err)
	assert.Empty(t, results, "empty query returns nothing, not everything")

	results, err = svc.Search("zzz")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestListProductsFiltersAndSorts(t *testing.T) {
	db := newTestDB(t)
	seller, _ := sellerWithStore(t, db, "alice@example.com", "Pixel Goods")
	svc := NewProductService(db, newTestStorage(t))

	cheap, err := svc.CreateProduct(seller, &CreateProductRequest{
		Title: "Cheap Pack", Description: "A description long enough to validate.", Price: "1", Category: "graphics",
	}, testFiles())
	require.NoError(t, err)
	dear, err := svc.CreateProduct(seller, &CreateProductRequest{
		Title: "Dear Pack", Description: "A description long enough to validate.", Price: "9", Category: "audio",
	}, testFiles())
	require.NoError(t, err)

	byCategory, err := svc.ListProducts(ListParams{Category: "audio"})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, dear.ID, byCategory[0].ID)

	byPrice, err := svc.ListProducts(ListParams{Sort: "price_asc"})
	require.NoError(t, err)
	require.Len(t, byPrice, 2)
	assert.Equal(t, cheap.ID, byPrice[0].ID)
}

func TestUpdateProductOwnershipAndFields(t *testing.T) {
	db := newTestDB(t)
	seller, _ := sellerWithStore(t, db, "alice@example.com", "Pixel Goods")
	stranger := registerTestUser(t, db, "mallory@example.com")
	product := createTestProduct(t, db, seller, "Icon Pack")

	svc := NewProductService(db, newTestStorage(t))

	_, err := svc.UpdateProduct(product.ID, stranger.ID, &UpdateProductRequest{Title: "Stolen"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	updated, err := svc.UpdateProduct(product.ID, seller.ID, &UpdateProductRequest{Price: "2.5"})
	require.NoError(t, err)
	assert.Equal(t, 2.5, updated.Price)
	assert.Equal(t, "Icon Pack", updated.Title, "unsupplied fields keep their value")
}

func TestDeleteProductPrunesStoreList(t *testing.T) {
	db := newTestDB(t)
	seller, store := sellerWithStore(t, db, "alice@example.com", "Pixel Goods")
	stranger := registerTestUser(t, db, "mallory@example.com")
	product := createTestProduct(t, db, seller, "Icon Pack")

	svc := NewProductService(db, newTestStorage(t))

	err := svc.DeleteProduct(product.ID, stranger.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	require.NoError(t, svc.DeleteProduct(product.ID, seller.ID))

	_, err = svc.FindProduct(product.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	fresh, err := NewStoreService(db).GetStore(store.ID)
	require.NoError(t, err)
	assert.Empty(t, fresh.ProductIDs)
}

func TestStoreProductsUnknownStore(t *testing.T) {
	db := newTestDB(t)

	_, err := NewProductService(db, newTestStorage(t)).StoreProducts("missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
