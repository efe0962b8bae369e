// internal/models/product.go
package models

import "time"

type Product struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Price       float64       `json:"price"`
	Category    string        `json:"category,omitempty"`
	Tags        []string      `json:"tags"`
	SellerID    string        `json:"seller_id"`
	StoreID     string        `json:"store_id"`
	StoreName   string        `json:"store_name"`
	Files       []ProductFile `json:"files"`
	Views       int64         `json:"views"`
	Sales       int64         `json:"sales"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ProductFile describes one uploaded binary belonging to a product.
type ProductFile struct {
	ID           string `json:"id"`
	OriginalName string `json:"original_name"`
	StoredName   string `json:"stored_name"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mime_type"`
	Path         string `json:"path"`
}
