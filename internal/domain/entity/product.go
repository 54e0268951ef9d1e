package entity

import "time"

// Product statuses
const (
	ProductDraft    = "draft"
	ProductActive   = "active"
	ProductInactive = "inactive"
)

// Product is a digital good listed by a seller. FileURL points at the
// stored deliverable (GCS object); ThumbnailURL is optional.
type Product struct {
	ID           string    `json:"id"`
	SellerID     string    `json:"seller_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Category     string    `json:"category"`
	Tags         []string  `json:"tags"`
	FileURL      string    `json:"file_url"`
	FileName     string    `json:"file_name"`
	FileSize     int64     `json:"file_size"`
	FileType     string    `json:"file_type"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
