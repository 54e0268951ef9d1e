package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"digicommerce/internal/domain/entity"
	"digicommerce/internal/domain/repository"
	"digicommerce/pkg/helpers"
)

// ProductService owns seller listings: CRUD, deliverable upload to GCS
// and search indexing in Elasticsearch.
type ProductService struct {
	Repo      repository.ProductRepository
	GCS       *storage.Client
	GCSBucket string
	ES        *elasticsearch.Client
	ESIndex   string
	Logger    *logrus.Logger
}

func NewProductService(repo repository.ProductRepository, gcs *storage.Client, gcsBucket string, es *elasticsearch.Client, esIndex string, logger *logrus.Logger) *ProductService {
	return &ProductService{Repo: repo, GCS: gcs, GCSBucket: gcsBucket, ES: es, ESIndex: esIndex, Logger: logger}
}

type CreateProductInput struct {
	Title        string
	Description  string
	Price        float64
	Category     string
	Tags         []string
	FileURL      string
	FileName     string
	FileSize     int64
	FileType     string
	ThumbnailURL string
}

func (s *ProductService) Create(ctx context.Context, sellerID string, in CreateProductInput) (*entity.Product, error) {
	p := &entity.Product{
		SellerID:     sellerID,
		Title:        in.Title,
		Description:  in.Description,
		Price:        in.Price,
		Category:     in.Category,
		Tags:         in.Tags,
		FileURL:      in.FileURL,
		FileName:     in.FileName,
		FileSize:     in.FileSize,
		FileType:     in.FileType,
		ThumbnailURL: in.ThumbnailURL,
		Status:       entity.ProductDraft,
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, err
	}
	_ = s.indexProduct(ctx, p)
	return p, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*entity.Product, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

type UpdateProductInput struct {
	Title        string
	Description  string
	Price        *float64
	Category     string
	Tags         []string
	ThumbnailURL string
	Status       string
}

// Update applies partial changes. Only the owning seller (or an admin
// acting through the handler's role gate) may mutate a listing.
func (s *ProductService) Update(ctx context.Context, sellerID, id string, in UpdateProductInput) (*entity.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.SellerID != sellerID {
		return nil, ErrNotProductOwner
	}
	if in.Title != "" {
		p.Title = in.Title
	}
	if in.Description != "" {
		p.Description = in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Category != "" {
		p.Category = in.Category
	}
	if in.Tags != nil {
		p.Tags = in.Tags
	}
	if in.ThumbnailURL != "" {
		p.ThumbnailURL = in.ThumbnailURL
	}
	if in.Status != "" {
		p.Status = in.Status
	}
	if err := s.Repo.Update(ctx, p); err != nil {
		return nil, err
	}
	_ = s.indexProduct(ctx, p)
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, sellerID, id string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.SellerID != sellerID {
		return ErrNotProductOwner
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.deleteFromIndex(ctx, id)
	return nil
}

func (s *ProductService) ListActive(ctx context.Context, page, limit int) ([]*entity.Product, error) {
	return s.Repo.ListActive(ctx, page, limit)
}

func (s *ProductService) ListBySeller(ctx context.Context, sellerID string, page, limit int) ([]*entity.Product, error) {
	return s.Repo.ListBySeller(ctx, sellerID, page, limit)
}

// UploadFile stores a product deliverable or thumbnail in GCS and
// returns its public URL.
func (s *ProductService) UploadFile(ctx context.Context, sellerID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("products", sellerID, id+ext))
	return helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
}

func (s *ProductService) indexProduct(ctx context.Context, p *entity.Product) error {
	if s.ES == nil || s.ESIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":          p.ID,
		"seller_id":   p.SellerID,
		"title":       p.Title,
		"description": p.Description,
		"price":       p.Price,
		"category":    p.Category,
		"tags":        p.Tags,
		"status":      p.Status,
		"created_at":  p.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":  p.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: p.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("product_id", p.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("product_id", p.ID).Warn("es index response error")
	}
	return nil
}

func (s *ProductService) deleteFromIndex(ctx context.Context, id string) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("product_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search performs a multi_match query over title, description, category
// and tags, restricted to active listings.
func (s *ProductService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"title^2", "description", "category", "tags"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"status": entity.ProductActive},
				},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
