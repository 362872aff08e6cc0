package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/novamart/storefront-api/internal/application"
	"github.com/novamart/storefront-api/pkg/response"
	"github.com/novamart/storefront-api/pkg/validation"
)

type ReviewHandler struct {
	Svc *application.ReviewService
}

func NewReviewHandler(svc *application.ReviewService) *ReviewHandler {
	return &ReviewHandler{Svc: svc}
}

type reviewRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

// Submit PUT /review. A second submission by the same user replaces
// their earlier review instead of adding another one.
func (h *ReviewHandler) Submit(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid product id", nil)
		return
	}
	userID, err := primitive.ObjectIDFromHex(c.GetString("userID"))
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	product, err := h.Svc.Submit(c.Request.Context(), productID, userID, c.GetString("userName"), req.Rating, req.Comment)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, product, "review saved", nil)
}

// List GET /reviews?id=<productID>
func (h *ReviewHandler) List(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Query("id"))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid product id", nil)
		return
	}
	reviews, err := h.Svc.List(c.Request.Context(), productID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, reviews, "reviews", map[string]any{"count": len(reviews)})
}

// Delete DELETE /reviews?productId=<productID>&id=<reviewID>
func (h *ReviewHandler) Delete(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Query("productId"))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid product id", nil)
		return
	}
	reviewID, err := primitive.ObjectIDFromHex(c.Query("id"))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid review id", nil)
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), productID, reviewID); err != nil {
		writeError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "review deleted", nil)
}
