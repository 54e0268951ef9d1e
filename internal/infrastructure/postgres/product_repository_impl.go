package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"digicommerce/internal/domain/entity"
	"digicommerce/internal/domain/repository"
)

const productColumns = `id, seller_id, title, description, price, category, tags,
	file_url, file_name, file_size, file_type, thumbnail_url, status, created_at, updated_at`

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	p := &entity.Product{}
	if err := row.Scan(&p.ID, &p.SellerID, &p.Title, &p.Description, &p.Price, &p.Category, &p.Tags,
		&p.FileURL, &p.FileName, &p.FileSize, &p.FileType, &p.ThumbnailURL, &p.Status,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO products (seller_id, title, description, price, category, tags,
			file_url, file_name, file_size, file_type, thumbnail_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`, p.SellerID, p.Title, p.Description, p.Price, p.Category, p.Tags,
		p.FileURL, p.FileName, p.FileSize, p.FileType, p.ThumbnailURL, p.Status)
	return row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = $1
	`, id)
	return scanProduct(row)
}

func (r *ProductRepository) Update(ctx context.Context, p *entity.Product) error {
	p.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE products
		SET title = $1, description = $2, price = $3, category = $4, tags = $5,
			thumbnail_url = $6, status = $7, updated_at = $8
		WHERE id = $9
	`, p.Title, p.Description, p.Price, p.Category, p.Tags,
		p.ThumbnailURL, p.Status, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) ListActive(ctx context.Context, page, limit int) ([]*entity.Product, error) {
	return r.list(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE status = 'active'
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, page, limit)
}

func (r *ProductRepository) ListBySeller(ctx context.Context, sellerID string, page, limit int) ([]*entity.Product, error) {
	return r.list(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE seller_id = $3
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, page, limit, sellerID)
}

func (r *ProductRepository) list(ctx context.Context, query string, page, limit int, args ...any) ([]*entity.Product, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	qargs := append([]any{limit, (page - 1) * limit}, args...)
	rows, err := r.pool.Query(ctx, query, qargs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

var _ repository.ProductRepository = (*ProductRepository)(nil)
