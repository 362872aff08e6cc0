package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/novamart/storefront-api/internal/application"
	"github.com/novamart/storefront-api/pkg/response"
	"github.com/novamart/storefront-api/pkg/validation"
)

type PaymentHandler struct {
	Svc *application.PaymentService
}

func NewPaymentHandler(svc *application.PaymentService) *PaymentHandler {
	return &PaymentHandler{Svc: svc}
}

type paymentRequest struct {
	CardNumber string  `json:"cardNumber" binding:"required"`
	CardHolder string  `json:"cardHolder" binding:"required"`
	ExpiryDate string  `json:"expiryDate" binding:"required"`
	CVV        string  `json:"cvv" binding:"required"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
}

// Process POST /payment/process. Demo gateway, nothing is charged.
func (h *PaymentHandler) Process(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	result, err := h.Svc.Process(application.CardInput{
		CardNumber: req.CardNumber,
		CardHolder: req.CardHolder,
		ExpiryDate: req.ExpiryDate,
		CVV:        req.CVV,
		Amount:     req.Amount,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result, "payment processed", nil)
}
