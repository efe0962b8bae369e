// internal/services/store_service.go
package services

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bytemart/bytemart-backend/internal/apperrors"
	"github.com/bytemart/bytemart-backend/internal/docstore"
	"github.com/bytemart/bytemart-backend/internal/models"
	"github.com/bytemart/bytemart-backend/internal/utils"
)

type StoreService struct {
	db *docstore.DB
}

type CreateStoreRequest struct {
	StoreName        string `json:"storeName" validate:"required,min=2,max=80"`
	StoreDescription string `json:"storeDescription,omitempty"`
}

func NewStoreService(db *docstore.DB) *StoreService {
	return &StoreService{db: db}
}

// CreateStore creates the owner's single store. One store per user; names
// are unique case-insensitively.
func (s *StoreService) CreateStore(ownerID string, req *CreateStoreRequest) (*models.Store, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("invalid input", utils.GetValidationErrors(err))
	}

	store := &models.Store{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(req.StoreName),
		Description: req.StoreDescription,
		ProductIDs:  []string{},
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	err := s.db.Update(func(tx *docstore.Tx) error {
		owner, err := docstore.TxGet[models.User](tx, docstore.Users, ownerID)
		if err != nil {
			return err
		}
		if owner.StoreID != "" {
			return apperrors.Conflict("user already owns a store")
		}

		stores, err := docstore.TxAll[models.Store](tx, docstore.Stores)
		if err != nil {
			return err
		}
		for _, existing := range stores {
			if strings.EqualFold(existing.Name, store.Name) {
				return apperrors.Conflict("store name already taken")
			}
		}

		if err := docstore.TxPut(tx, docstore.Stores, store.ID, *store); err != nil {
			return err
		}

		// Back-fill the owner's store reference in the same transaction.
		owner.StoreID = store.ID
		owner.Role = models.RoleSeller
		owner.UpdatedAt = time.Now().UTC()
		return docstore.TxPut(tx, docstore.Users, owner.ID, owner)
	})
	if err != nil {
		return nil, err
	}

	return store, nil
}

// MyStore returns the owner's store, or nil when none exists.
func (s *StoreService) MyStore(ownerID string) (*models.Store, error) {
	owner, err := docstore.Get[models.User](s.db, docstore.Users, ownerID)
	if err != nil {
		return nil, err
	}
	if owner.StoreID == "" {
		return nil, nil
	}

	store, err := docstore.Get[models.Store](s.db, docstore.Stores, owner.StoreID)
	if err != nil {
		return nil, err
	}
	return &store, nil
}

func (s *StoreService) GetStore(id string) (*models.Store, error) {
	store, err := docstore.Get[models.Store](s.db, docstore.Stores, id)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return nil, apperrors.NotFound("store")
		}
		return nil, err
	}
	return &store, nil
}
