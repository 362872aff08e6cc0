package application

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"path"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/novamart/storefront-api/internal/domain/apperr"
	"github.com/novamart/storefront-api/internal/domain/entity"
	repo "github.com/novamart/storefront-api/internal/domain/repository"
)

// ImageStore is the external image storage collaborator. Upload returns
// the public URL; Remove releases a previously stored object.
type ImageStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
	Remove(ctx context.Context, objectPath string) error
}

// CatalogService owns product CRUD and the filtered, paginated listing.
// Elasticsearch indexing is best effort, the way a search convenience
// should be: a failed index never fails the catalog mutation.
type CatalogService struct {
	Products        repo.ProductRepository
	Images          ImageStore
	Logger          *logrus.Logger
	ES              *elasticsearch.Client
	ESProductsIndex string
	ResultPerPage   int
}

func NewCatalogService(products repo.ProductRepository, images ImageStore, logger *logrus.Logger, es *elasticsearch.Client, esIndex string, resultPerPage int) *CatalogService {
	if resultPerPage <= 0 {
		resultPerPage = 4
	}
	return &CatalogService{
		Products:        products,
		Images:          images,
		Logger:          logger,
		ES:              es,
		ESProductsIndex: esIndex,
		ResultPerPage:   resultPerPage,
	}
}

// ImageUpload is a decoded image payload waiting to be stored.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CreateProductInput carries an admin's new product.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Stock       int
	Images      []ImageUpload
}

func (s *CatalogService) Create(ctx context.Context, in CreateProductInput, ownerID primitive.ObjectID) (*entity.Product, error) {
	if in.Price < 0 {
		return nil, apperr.Validation("price cannot be negative")
	}
	if in.Stock < 0 {
		return nil, apperr.Validation("stock cannot be negative")
	}
	images, err := s.storeImages(ctx, in.Images)
	if err != nil {
		return nil, err
	}
	product := &entity.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Stock:       in.Stock,
		Images:      images,
		Reviews:     []entity.Review{},
		User:        ownerID,
	}
	if err := s.Products.Create(ctx, product); err != nil {
		s.releaseImages(ctx, images)
		return nil, err
	}
	s.indexProduct(ctx, product)
	return product, nil
}

// UpdateProductInput carries an admin edit. Nil pointers leave the field
// alone; Images, when non-nil, replaces the stored set.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	Stock       *int
	Images      []ImageUpload
}

func (s *CatalogService) Update(ctx context.Context, id primitive.ObjectID, in UpdateProductInput) (*entity.Product, error) {
	product, err := s.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, apperr.Validation("price cannot be negative")
		}
		product.Price = *in.Price
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, apperr.Validation("stock cannot be negative")
		}
		product.Stock = *in.Stock
	}

	var replaced, stored []entity.Image
	if in.Images != nil {
		replaced = product.Images
		stored, err = s.storeImages(ctx, in.Images)
		if err != nil {
			return nil, err
		}
		product.Images = stored
	}

	if err := s.Products.Update(ctx, product); err != nil {
		s.releaseImages(ctx, stored)
		return nil, err
	}
	s.releaseImages(ctx, replaced)
	s.indexProduct(ctx, product)
	return product, nil
}

// Delete removes a product, releasing its stored images first. An empty
// image list is fine.
func (s *CatalogService) Delete(ctx context.Context, id primitive.ObjectID) error {
	product, err := s.Products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	s.releaseImages(ctx, product.Images)
	if err := s.Products.Delete(ctx, id); err != nil {
		return err
	}
	s.deindexProduct(ctx, id)
	return nil
}

func (s *CatalogService) Get(ctx context.Context, id primitive.ObjectID) (*entity.Product, error) {
	return s.Products.GetByID(ctx, id)
}

// ListAllAdmin returns the full unpaged catalog.
func (s *CatalogService) ListAllAdmin(ctx context.Context) ([]entity.Product, error) {
	return s.Products.ListAll(ctx)
}

// ProductPage is everything a client needs to render one page of the
// catalog plus its pagination controls.
type ProductPage struct {
	Products      []entity.Product `json:"products"`
	ProductCount  int64            `json:"productCount"`
	ResultPerPage int              `json:"resultPerPage"`
	TotalPages    int64            `json:"totalPages"`
	CurrentPage   int              `json:"currentPage"`
}

// List produces a stable page of the filtered catalog. A page past the
// end of a non-empty result set and an empty result set are distinct
// failures, both absent-resource errors.
func (s *CatalogService) List(ctx context.Context, q repo.ProductQuery, page int) (*ProductPage, error) {
	if page < 1 {
		page = 1
	}
	count, err := s.Products.Count(ctx, q)
	if err != nil {
		return nil, err
	}
	perPage := int64(s.ResultPerPage)
	totalPages := int64(math.Ceil(float64(count) / float64(perPage)))
	if int64(page) > totalPages && count > 0 {
		return nil, apperr.NotFound("page not found")
	}

	skip := int64(page-1) * perPage
	products, err := s.Products.List(ctx, q, skip, perPage)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, apperr.NotFound("no products found")
	}
	return &ProductPage{
		Products:      products,
		ProductCount:  count,
		ResultPerPage: s.ResultPerPage,
		TotalPages:    totalPages,
		CurrentPage:   page,
	}, nil
}

func (s *CatalogService) storeImages(ctx context.Context, uploads []ImageUpload) ([]entity.Image, error) {
	images := make([]entity.Image, 0, len(uploads))
	for _, up := range uploads {
		ext := strings.ToLower(path.Ext(up.Filename))
		objectPath := path.Join("products", uuid.NewString()+ext)
		url, err := s.Images.Upload(ctx, objectPath, up.ContentType, bytes.NewReader(up.Data))
		if err != nil {
			s.releaseImages(ctx, images)
			return nil, apperr.Internal("image upload failed", err)
		}
		images = append(images, entity.Image{PublicID: objectPath, URL: url})
	}
	return images, nil
}

func (s *CatalogService) releaseImages(ctx context.Context, images []entity.Image) {
	for _, img := range images {
		if img.PublicID == "" {
			continue
		}
		if err := s.Images.Remove(ctx, img.PublicID); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("public_id", img.PublicID).Warn("image release failed")
		}
	}
}

func (s *CatalogService) indexProduct(ctx context.Context, p *entity.Product) {
	if s.ES == nil || s.ESProductsIndex == "" {
		return
	}
	doc := map[string]any{
		"id":          p.ID.Hex(),
		"name":        p.Name,
		"description": p.Description,
		"category":    p.Category,
		"price":       p.Price,
		"ratings":     p.Ratings,
		"created_at":  p.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESProductsIndex, DocumentID: p.ID.Hex(), Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("product_id", p.ID.Hex()).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("product_id", p.ID.Hex()).Warn("es index response error")
	}
}

func (s *CatalogService) deindexProduct(ctx context.Context, id primitive.ObjectID) {
	if s.ES == nil || s.ESProductsIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESProductsIndex, DocumentID: id.Hex()}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("product_id", id.Hex()).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search performs a multi_match query against the product index.
func (s *CatalogService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESProductsIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "description", "category"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESProductsIndex),
		s.ES.Search.WithBody(bytes.NewReader(b)),
	)
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
