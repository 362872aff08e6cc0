package handlers

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/novamart/storefront-api/internal/application"
	repo "github.com/novamart/storefront-api/internal/domain/repository"
	"github.com/novamart/storefront-api/pkg/response"
	"github.com/novamart/storefront-api/pkg/validation"
)

type ProductHandler struct {
	Svc    *application.CatalogService
	Logger *logrus.Logger
}

func NewProductHandler(svc *application.CatalogService, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{Svc: svc, Logger: logger}
}

type productRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Price       float64  `json:"price" binding:"gte=0"`
	Category    string   `json:"category" binding:"required"`
	Stock       int      `json:"stock" binding:"gte=0"`
	Images      []string `json:"images"`
}

type productUpdateRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Stock       *int     `json:"stock"`
	Images      []string `json:"images"`
}

// decodeImages turns base64 data URLs ("data:image/png;base64,...")
// into upload payloads.
func decodeImages(images []string) ([]application.ImageUpload, error) {
	uploads := make([]application.ImageUpload, 0, len(images))
	for i, img := range images {
		meta, data, ok := strings.Cut(img, ",")
		if !ok || !strings.HasPrefix(meta, "data:") {
			return nil, fmt.Errorf("image %d is not a data url", i)
		}
		contentType := strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64")
		raw, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		ext := "bin"
		if _, sub, ok := strings.Cut(contentType, "/"); ok && sub != "" {
			ext = sub
		}
		uploads = append(uploads, application.ImageUpload{
			Filename:    fmt.Sprintf("%d.%s", i, ext),
			ContentType: contentType,
			Data:        raw,
		})
	}
	return uploads, nil
}

// queryOf builds a catalog query from the request's query string.
// Anything that is not keyword/page/limit is treated as a filter, so
// price[gte]=100&ratings[gte]=4 flows straight through.
func queryOf(c *gin.Context) repo.ProductQuery {
	q := repo.ProductQuery{Filters: map[string]string{}}
	for key, vals := range c.Request.URL.Query() {
		if len(vals) == 0 {
			continue
		}
		switch key {
		case "keyword":
			q.Keyword = vals[0]
		case "page", "limit":
			// pagination state, handled separately
		default:
			q.Filters[key] = vals[0]
		}
	}
	return q
}

// List GET /products
func (h *ProductHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageData, err := h.Svc.List(c.Request.Context(), queryOf(c), page)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, pageData, "products", nil)
}

// Get GET /product/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid product id", nil)
		return
	}
	product, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, product, "product", nil)
}

// AdminList GET /admin/products
func (h *ProductHandler) AdminList(c *gin.Context) {
	products, err := h.Svc.ListAllAdmin(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, products, "products", map[string]any{"count": len(products)})
}

// AdminCreate POST /admin/product
func (h *ProductHandler) AdminCreate(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uploads, err := decodeImages(req.Images)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid image payload", err.Error())
		return
	}
	ownerID, err := primitive.ObjectIDFromHex(c.GetString("userID"))
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	product, err := h.Svc.Create(c.Request.Context(), application.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
		Images:      uploads,
	}, ownerID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, product, "product created", nil)
}

// AdminUpdate PUT /admin/product/:id
func (h *ProductHandler) AdminUpdate(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid product id", nil)
		return
	}
	var req productUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	in := application.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
	}
	// an absent images field keeps the stored set; an explicit [] clears it
	if req.Images != nil {
		uploads, err := decodeImages(req.Images)
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid image payload", err.Error())
			return
		}
		in.Images = uploads
	}
	product, err := h.Svc.Update(c.Request.Context(), id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, product, "product updated", nil)
}

// AdminDelete DELETE /admin/product/:id
func (h *ProductHandler) AdminDelete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid product id", nil)
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "product deleted", nil)
}

// AdminSearch GET /admin/products/search?q=...
func (h *ProductHandler) AdminSearch(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}
