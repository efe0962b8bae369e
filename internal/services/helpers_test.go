// internal/services/helpers_test.go
package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bytemart/bytemart-backend/internal/config"
	"github.com/bytemart/bytemart-backend/internal/docstore"
	"github.com/bytemart/bytemart-backend/internal/models"
)

func newTestDB(t *testing.T) *docstore.DB {
	t.Helper()
	db, err := docstore.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestStorage(t *testing.T) *StorageService {
	t.Helper()
	storage, err := NewStorageService(&config.Config{
		Data: config.DataConfig{UploadDir: t.TempDir()},
	})
	require.NoError(t, err)
	return storage
}

func registerTestUser(t *testing.T, db *docstore.DB, email string) *models.User {
	t.Helper()
	user, err := NewAuthService(db).Register(&RegisterRequest{
		Name:     "Test User",
		Email:    email,
		Password: "secret1",
	})
	require.NoError(t, err)
	return user
}

// sellerWithStore registers a user and creates their store, returning the
// user re-read so StoreID is populated.
func sellerWithStore(t *testing.T, db *docstore.DB, email, storeName string) (*models.User, *models.Store) {
	t.Helper()
	user := registerTestUser(t, db, email)

	store, err := NewStoreService(db).CreateStore(user.ID, &CreateStoreRequest{StoreName: storeName})
	require.NoError(t, err)

	fresh, err := NewAuthService(db).GetUserByID(user.ID)
	require.NoError(t, err)
	return fresh, store
}
