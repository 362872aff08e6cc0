package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/novamart/storefront-api/config"
	"github.com/novamart/storefront-api/internal/application"
	"github.com/novamart/storefront-api/internal/domain/entity"
	"github.com/novamart/storefront-api/pkg/helpers"
	"github.com/novamart/storefront-api/pkg/mailer"
	"github.com/novamart/storefront-api/pkg/response"
	"github.com/novamart/storefront-api/pkg/validation"
)

type OrderHandler struct {
	Svc    *application.OrderService
	Cfg    *config.Config
	Pub    *helpers.RabbitPublisher
	Logger *logrus.Logger
}

func NewOrderHandler(svc *application.OrderService, cfg *config.Config, pub *helpers.RabbitPublisher, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{Svc: svc, Cfg: cfg, Pub: pub, Logger: logger}
}

type orderItemRequest struct {
	Product  string  `json:"product" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	Price    float64 `json:"price" binding:"gte=0"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity" binding:"required,min=1"`
}

type createOrderRequest struct {
	ShippingInfo  entity.ShippingInfo `json:"shippingInfo" binding:"required"`
	OrderItems    []orderItemRequest  `json:"orderItems" binding:"required,dive"`
	PaymentInfo   entity.PaymentInfo  `json:"paymentInfo" binding:"required"`
	ItemsPrice    float64             `json:"itemsPrice" binding:"gte=0"`
	TaxPrice      float64             `json:"taxPrice" binding:"gte=0"`
	ShippingPrice float64             `json:"shippingPrice" binding:"gte=0"`
	TotalPrice    float64             `json:"totalPrice" binding:"gte=0"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Create POST /order
func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	userID, err := primitive.ObjectIDFromHex(c.GetString("userID"))
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	items := make([]entity.OrderItem, 0, len(req.OrderItems))
	for _, it := range req.OrderItems {
		pid, err := primitive.ObjectIDFromHex(it.Product)
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid product id in order items", nil)
			return
		}
		items = append(items, entity.OrderItem{
			Product:  pid,
			Name:     it.Name,
			Price:    it.Price,
			Image:    it.Image,
			Quantity: it.Quantity,
		})
	}
	order, err := h.Svc.Create(c.Request.Context(), application.CreateOrderInput{
		ShippingInfo:  req.ShippingInfo,
		OrderItems:    items,
		PaymentInfo:   req.PaymentInfo,
		ItemsPrice:    req.ItemsPrice,
		TaxPrice:      req.TaxPrice,
		ShippingPrice: req.ShippingPrice,
		TotalPrice:    req.TotalPrice,
	}, userID)
	if err != nil {
		writeError(c, err)
		return
	}

	h.notifyOrderPlaced(c, order)
	response.Success(c, http.StatusCreated, order, "order placed", nil)
}

// notifyOrderPlaced enqueues a confirmation email. Failures are logged
// and swallowed, a missing email never blocks the order.
func (h *OrderHandler) notifyOrderPlaced(c *gin.Context, order *entity.Order) {
	if h.Pub == nil || h.Cfg == nil || !h.Cfg.MailSendEnabled {
		return
	}
	email := c.GetString("userEmail")
	if email == "" {
		return
	}
	job := mailer.EmailJob{
		To:       email,
		Template: mailer.TemplateOrderPlaced,
		Data: map[string]any{
			"Name":       c.GetString("userName"),
			"OrderID":    order.ID.Hex(),
			"TotalPrice": order.TotalPrice,
			"ItemCount":  len(order.OrderItems),
			"Company":    h.Cfg.CompanyName,
		},
	}
	if err := h.Pub.PublishJSON(c.Request.Context(), job); err != nil {
		h.Logger.WithError(err).Warn("failed to enqueue order confirmation email")
	}
}

// Get GET /order/:id, owner only
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid order id", nil)
		return
	}
	userID, err := primitive.ObjectIDFromHex(c.GetString("userID"))
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	order, err := h.Svc.Get(c.Request.Context(), id, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, order, "order", nil)
}

// ListMine GET /orders/user
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userID"))
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	orders, err := h.Svc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, orders, "orders", map[string]any{"count": len(orders)})
}

// AdminList GET /admin/orders
func (h *OrderHandler) AdminList(c *gin.Context) {
	orders, total, err := h.Svc.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, orders, "orders", map[string]any{
		"count":       len(orders),
		"totalAmount": total,
	})
}

// AdminGet GET /admin/order/:id
func (h *OrderHandler) AdminGet(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid order id", nil)
		return
	}
	order, err := h.Svc.GetAny(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, order, "order", nil)
}

// AdminUpdateStatus PUT /admin/order/:id
func (h *OrderHandler) AdminUpdateStatus(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid order id", nil)
		return
	}
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	order, err := h.Svc.UpdateStatus(c.Request.Context(), id, entity.OrderStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, order, "order status updated", nil)
}

// AdminDelete DELETE /admin/order/:id
func (h *OrderHandler) AdminDelete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid order id", nil)
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "order deleted", nil)
}
