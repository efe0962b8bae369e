// internal/services/store_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytemart/bytemart-backend/internal/apperrors"
	"github.com/bytemart/bytemart-backend/internal/models"
)

func TestCreateStorePromotesOwnerToSeller(t *testing.T) {
	db := newTestDB(t)
	user := registerTestUser(t, db, "alice@example.com")

	store, err := NewStoreService(db).CreateStore(user.ID, &CreateStoreRequest{
		StoreName:        "Alice's Assets",
		StoreDescription: "Game-ready models",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, store.OwnerID)
	assert.Empty(t, store.ProductIDs)

	owner, err := NewAuthService(db).GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, store.ID, owner.StoreID)
	assert.Equal(t, models.RoleSeller, owner.Role)
}

func TestOneStorePerUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewStoreService(db)
	user := registerTestUser(t, db, "alice@example.com")

	_, err := svc.CreateStore(user.ID, &CreateStoreRequest{StoreName: "First"})
	require.NoError(t, err)

	_, err = svc.CreateStore(user.ID, &CreateStoreRequest{StoreName: "Second"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestStoreNamesUniqueIgnoringCase(t *testing.T) {
	db := newTestDB(t)
	svc := NewStoreService(db)
	alice := registerTestUser(t, db, "alice@example.com")
	bob := registerTestUser(t, db, "bob@example.com")

	_, err := svc.CreateStore(alice.ID, &CreateStoreRequest{StoreName: "Pixel Goods"})
	require.NoError(t, err)

	_, err = svc.CreateStore(bob.ID, &CreateStoreRequest{StoreName: "PIXEL GOODS"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestMyStoreNilWhenNoneExists(t *testing.T) {
	db := newTestDB(t)
	user := registerTestUser(t, db, "alice@example.com")

	store, err := NewStoreService(db).MyStore(user.ID)
	require.NoError(t, err)
	assert.Nil(t, store)
}

func TestGetStoreUnknownID(t *testing.T) {
	db := newTestDB(t)

	_, err := NewStoreService(db).GetStore("missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
