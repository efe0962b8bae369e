// internal/models/sale.go
package models

import "time"

// Sale is an append-only record of a completed purchase. The transaction
// hash is whatever the client supplied; it is never verified against an
// external ledger.
type Sale struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"product_id"`
	Buyer           string    `json:"buyer"`
	SellerID        string    `json:"seller_id"`
	Price           float64   `json:"price"`
	TransactionHash string    `json:"transaction_hash,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
