package repository

import (
	"context"

	"digicommerce/internal/domain/entity"
)

// ProductRepository persists seller listings.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, p *entity.Product) error
	Delete(ctx context.Context, id string) error
	ListActive(ctx context.Context, page, limit int) ([]*entity.Product, error)
	ListBySeller(ctx context.Context, sellerID string, page, limit int) ([]*entity.Product, error)
}
