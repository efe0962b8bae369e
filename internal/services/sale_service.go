// internal/services/sale_service.go
package services

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/bytemart/bytemart-backend/internal/apperrors"
	"github.com/bytemart/bytemart-backend/internal/docstore"
	"github.com/bytemart/bytemart-backend/internal/models"
)

type SaleService struct {
	db *docstore.DB
}

func NewSaleService(db *docstore.DB) *SaleService {
	return &SaleService{db: db}
}

// RecordSale appends a Sale with a price snapshot and bumps the product's
// sales counter and the seller's balances, all in one transaction. The
// transaction hash is recorded untouched; nothing verifies it.
func (s *SaleService) RecordSale(productID, buyer, transactionHash string) (*models.Sale, error) {
	sale := &models.Sale{
		ID:              uuid.NewString(),
		ProductID:       productID,
		Buyer:           buyer,
		TransactionHash: transactionHash,
		CreatedAt:       time.Now().UTC(),
	}

	err := s.db.Update(func(tx *docstore.Tx) error {
		product, err := docstore.TxGet[models.Product](tx, docstore.Products, productID)
		if err != nil {
			if apperrors.IsKind(err, apperrors.KindNotFound) {
				return apperrors.NotFound("product")
			}
			return err
		}

		sale.SellerID = product.SellerID
		sale.Price = product.Price

		if err := docstore.TxPut(tx, docstore.Sales, sale.ID, *sale); err != nil {
			return err
		}

		product.Sales++
		product.UpdatedAt = time.Now().UTC()
		if err := docstore.TxPut(tx, docstore.Products, productID, product); err != nil {
			return err
		}

		// Credit the seller. Sellers created through the API always
		// resolve; a missing record would mean external tampering.
		seller, err := docstore.TxGet[models.User](tx, docstore.Users, product.SellerID)
		if err == nil {
			seller.Balance += product.Price
			if err := docstore.TxPut(tx, docstore.Users, seller.ID, seller); err != nil {
				return err
			}
		}
		store, err := docstore.TxGet[models.Store](tx, docstore.Stores, product.StoreID)
		if err == nil {
			store.Balance += product.Price
			if err := docstore.TxPut(tx, docstore.Stores, store.ID, store); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sale, nil
}

// CanDownload reports whether requester may fetch the product's files: the
// seller of record always, otherwise only a buyer present in the sales log.
func (s *SaleService) CanDownload(product *models.Product, requester string) (bool, error) {
	if requester == "" {
		return false, nil
	}
	if product.SellerID == requester {
		return true, nil
	}

	sales, err := docstore.All[models.Sale](s.db, docstore.Sales)
	if err != nil {
		return false, err
	}
	for _, sale := range sales {
		if sale.ProductID == product.ID && sale.Buyer == requester {
			return true, nil
		}
	}
	return false, nil
}

type GlobalStats struct {
	TotalProducts    int                `json:"totalProducts"`
	TotalSellers     int                `json:"totalSellers"`
	TotalSales       int                `json:"totalSales"`
	EarningsBySeller map[string]float64 `json:"earningsBySeller"`
	RecentSales      []models.Sale      `json:"recentSales"`
}

func (s *SaleService) Stats() (*GlobalStats, error) {
	products, err := docstore.All[models.Product](s.db, docstore.Products)
	if err != nil {
		return nil, err
	}
	sales, err := docstore.All[models.Sale](s.db, docstore.Sales)
	if err != nil {
		return nil, err
	}

	sellers := make(map[string]struct{})
	for _, p := range products {
		sellers[p.SellerID] = struct{}{}
	}

	earnings := make(map[string]float64)
	for _, sale := range sales {
		earnings[sale.SellerID] += sale.Price
	}

	sort.Slice(sales, func(i, j int) bool { return sales[i].CreatedAt.After(sales[j].CreatedAt) })
	recent := sales
	if len(recent) > 10 {
		recent = recent[:10]
	}

	return &GlobalStats{
		TotalProducts:    len(products),
		TotalSellers:     len(sellers),
		TotalSales:       len(sales),
		EarningsBySeller: earnings,
		RecentSales:      recent,
	}, nil
}

type UserStats struct {
	Products       int              `json:"products"`
	TotalDownloads int              `json:"totalDownloads"`
	TotalEarnings  float64          `json:"totalEarnings"`
	TotalViews     int64            `json:"totalViews"`
	ProductsList   []models.Product `json:"productsList"`
	SalesList      []models.Sale    `json:"salesList"`
	PurchasesList  []models.Sale    `json:"purchasesList"`
}

// StatsForUser aggregates activity for one identity (a user id, or the
// external wallet string a purchase was recorded under).
func (s *SaleService) StatsForUser(identity string) (*UserStats, error) {
	products, err := docstore.All[models.Product](s.db, docstore.Products)
	if err != nil {
		return nil, err
	}
	sales, err := docstore.All[models.Sale](s.db, docstore.Sales)
	if err != nil {
		return nil, err
	}

	stats := &UserStats{
		ProductsList:  []models.Product{},
		SalesList:     []models.Sale{},
		PurchasesList: []models.Sale{},
	}
	for _, p := range products {
		if p.SellerID == identity {
			stats.ProductsList = append(stats.ProductsList, p)
			stats.TotalViews += p.Views
		}
	}
	for _, sale := range sales {
		if sale.SellerID == identity {
			stats.SalesList = append(stats.SalesList, sale)
			stats.TotalEarnings += sale.Price
		}
		if sale.Buyer == identity {
			stats.PurchasesList = append(stats.PurchasesList, sale)
		}
	}
	stats.Products = len(stats.ProductsList)
	stats.TotalDownloads = len(stats.SalesList)
	return stats, nil
}
