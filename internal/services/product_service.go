// internal/services/product_service.go
package services

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/bytemart/bytemart-backend/internal/apperrors"
	"github.com/bytemart/bytemart-backend/internal/docstore"
	"github.com/bytemart/bytemart-backend/internal/models"
	"github.com/bytemart/bytemart-backend/internal/utils"
)

type ProductService struct {
	db      *docstore.DB
	storage *StorageService
}

type CreateProductRequest struct {
	Title       string `form:"title" validate:"required,min=3,max=255"`
	Description string `form:"description" validate:"required,min=10"`
	Price       string `form:"price" validate:"required"`
	Category    string `form:"category"`
	Tags        string `form:"tags"` // comma-separated
}

type UpdateProductRequest struct {
	Title       string `json:"title,omitempty" validate:"omitempty,min=3,max=255"`
	Description string `json:"description,omitempty" validate:"omitempty,min=10"`
	Price       string `json:"price,omitempty"`
	Category    string `json:"category,omitempty"`
	Tags        string `json:"tags,omitempty"`
}

// ListParams narrows and orders the public product listing.
type ListParams struct {
	Category string
	Sort     string // "price_asc", "price_desc", "sales", default newest first
	Query    string
}

func NewProductService(db *docstore.DB, storage *StorageService) *ProductService {
	return &ProductService{db: db, storage: storage}
}

func parsePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || price < 0 {
		return 0, apperrors.Validation("price must be a non-negative number", nil)
	}
	return price, nil
}

func splitTags(raw string) []string {
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// CreateProduct registers a product under the seller's store. Files must
// already be written to storage; descriptors are recorded as-is. If the
// transaction fails the stored files are orphaned (no compensation).
func (s *ProductService) CreateProduct(seller *models.User, req *CreateProductRequest, files []models.ProductFile) (*models.Product, error) {
	if seller.StoreID == "" {
		return nil, apperrors.Precondition("you must create a store before selling products")
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("invalid input", utils.GetValidationErrors(err))
	}
	price, err := parsePrice(req.Price)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &models.Product{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Price:       price,
		Category:    req.Category,
		Tags:        splitTags(req.Tags),
		SellerID:    seller.ID,
		StoreID:     seller.StoreID,
		Files:       files,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.db.Update(func(tx *docstore.Tx) error {
		store, err := docstore.TxGet[models.Store](tx, docstore.Stores, seller.StoreID)
		if err != nil {
			return err
		}
		product.StoreName = store.Name

		if err := docstore.TxPut(tx, docstore.Products, product.ID, *product); err != nil {
			return err
		}

		store.ProductIDs = append(store.ProductIDs, product.ID)
		store.UpdatedAt = now
		return docstore.TxPut(tx, docstore.Stores, store.ID, store)
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

// GetProduct returns a product and bumps its view counter. The increment
// happens inside the same transaction as the read, so it is exact per
// committed request; the public contract only promises monotonicity.
func (s *ProductService) GetProduct(id string) (*models.Product, error) {
	var product models.Product
	err := s.db.Update(func(tx *docstore.Tx) error {
		var err error
		product, err = docstore.TxGet[models.Product](tx, docstore.Products, id)
		if err != nil {
			if apperrors.IsKind(err, apperrors.KindNotFound) {
				return apperrors.NotFound("product")
			}
			return err
		}
		product.Views++
		return docstore.TxPut(tx, docstore.Products, id, product)
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindProduct reads a product without touching the view counter. Downloads
// and payment lookups use this; only the public product view counts.
func (s *ProductService) FindProduct(id string) (*models.Product, error) {
	product, err := docstore.Get[models.Product](s.db, docstore.Products, id)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return nil, apperrors.NotFound("product")
		}
		return nil, err
	}
	return &product, nil
}

func (s *ProductService) ListProducts(params ListParams) ([]models.Product, error) {
	products, err := docstore.All[models.Product](s.db, docstore.Products)
	if err != nil {
		return nil, err
	}

	filtered := products[:0]
	for _, p := range products {
		if params.Category != "" && !strings.EqualFold(p.Category, params.Category) {
			continue
		}
		if params.Query != "" && !matches(p, params.Query) {
			continue
		}
		filtered = append(filtered, p)
	}

	switch params.Sort {
	case "price_asc":
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price < filtered[j].Price })
	case "price_desc":
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price > filtered[j].Price })
	case "sales":
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Sales > filtered[j].Sales })
	default:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].CreatedAt.After(filtered[j].CreatedAt) })
	}

	if filtered == nil {
		filtered = []models.Product{}
	}
	return filtered, nil
}

// Search matches a case-insensitive substring over title, description and
// tags. An empty query returns an empty result set.
func (s *ProductService) Search(query string) ([]models.Product, error) {
	if strings.TrimSpace(query) == "" {
		return []models.Product{}, nil
	}

	products, err := docstore.All[models.Product](s.db, docstore.Products)
	if err != nil {
		return nil, err
	}

	results := []models.Product{}
	for _, p := range products {
		if matches(p, query) {
			results = append(results, p)
		}
	}
	return results, nil
}

func matches(p models.Product, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Description), q) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func (s *ProductService) StoreProducts(storeID string) ([]models.Product, error) {
	if _, err := docstore.Get[models.Store](s.db, docstore.Stores, storeID); err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return nil, apperrors.NotFound("store")
		}
		return nil, err
	}

	products, err := docstore.All[models.Product](s.db, docstore.Products)
	if err != nil {
		return nil, err
	}

	results := []models.Product{}
	for _, p := range products {
		if p.StoreID == storeID {
			results = append(results, p)
		}
	}
	return results, nil
}

// UpdateProduct applies only the supplied fields. Only the seller of record
// may update.
func (s *ProductService) UpdateProduct(id, callerID string, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("invalid input", utils.GetValidationErrors(err))
	}

	var price float64
	if req.Price != "" {
		var err error
		if price, err = parsePrice(req.Price); err != nil {
			return nil, err
		}
	}

	var product models.Product
	err := s.db.Update(func(tx *docstore.Tx) error {
		var err error
		product, err = docstore.TxGet[models.Product](tx, docstore.Products, id)
		if err != nil {
			if apperrors.IsKind(err, apperrors.KindNotFound) {
				return apperrors.NotFound("product")
			}
			return err
		}
		if product.SellerID != callerID {
			return apperrors.Forbidden("you do not own this product")
		}

		if req.Title != "" {
			product.Title = req.Title
		}
		if req.Description != "" {
			product.Description = req.Description
		}
		if req.Price != "" {
			product.Price = price
		}
		if req.Category != "" {
			product.Category = req.Category
		}
		if req.Tags != "" {
			product.Tags = splitTags(req.Tags)
		}
		product.UpdatedAt = time.Now().UTC()

		return docstore.TxPut(tx, docstore.Products, id, product)
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes the product and prunes it from its store's product
// list in one transaction, so no caller can observe one without the other.
func (s *ProductService) DeleteProduct(id, callerID string) error {
	var removed models.Product
	err := s.db.Update(func(tx *docstore.Tx) error {
		product, err := docstore.TxGet[models.Product](tx, docstore.Products, id)
		if err != nil {
			if apperrors.IsKind(err, apperrors.KindNotFound) {
				return apperrors.NotFound("product")
			}
			return err
		}
		if product.SellerID != callerID {
			return apperrors.Forbidden("you do not own this product")
		}
		removed = product

		if err := docstore.TxDelete(tx, docstore.Products, id); err != nil {
			return err
		}

		store, err := docstore.TxGet[models.Store](tx, docstore.Stores, product.StoreID)
		if err != nil {
			return err
		}
		kept := store.ProductIDs[:0]
		for _, pid := range store.ProductIDs {
			if pid != id {
				kept = append(kept, pid)
			}
		}
		store.ProductIDs = kept
		store.UpdatedAt = time.Now().UTC()
		return docstore.TxPut(tx, docstore.Stores, store.ID, store)
	})
	if err != nil {
		return err
	}

	// Stored binaries go best-effort after the record is gone.
	for _, f := range removed.Files {
		if err := s.storage.Remove(f); err != nil {
			logrus.WithError(err).WithField("file", f.StoredName).Warn("Failed to remove stored file")
		}
	}
	return nil
}
