package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/novamart/storefront-api/internal/domain/apperr"
	"github.com/novamart/storefront-api/internal/domain/entity"
	repo "github.com/novamart/storefront-api/internal/domain/repository"
)

// OrderService owns the order lifecycle: creation, the status state
// machine with its stock side effects, and the delete guard.
type OrderService struct {
	Orders   repo.OrderRepository
	Products repo.ProductRepository
	Logger   *logrus.Logger
}

func NewOrderService(orders repo.OrderRepository, products repo.ProductRepository, logger *logrus.Logger) *OrderService {
	return &OrderService{Orders: orders, Products: products, Logger: logger}
}

// CreateOrderInput carries the client-submitted order. Price fields are
// stored as received; nothing recomputes them from the items.
type CreateOrderInput struct {
	ShippingInfo  entity.ShippingInfo
	OrderItems    []entity.OrderItem
	PaymentInfo   entity.PaymentInfo
	ItemsPrice    float64
	TaxPrice      float64
	ShippingPrice float64
	TotalPrice    float64
}

func (s *OrderService) Create(ctx context.Context, in CreateOrderInput, userID primitive.ObjectID) (*entity.Order, error) {
	if len(in.OrderItems) == 0 {
		return nil, apperr.Validation("order has no items")
	}
	order := &entity.Order{
		ShippingInfo:  in.ShippingInfo,
		OrderItems:    in.OrderItems,
		PaymentInfo:   in.PaymentInfo,
		ItemsPrice:    in.ItemsPrice,
		TaxPrice:      in.TaxPrice,
		ShippingPrice: in.ShippingPrice,
		TotalPrice:    in.TotalPrice,
		OrderStatus:   entity.StatusProcessing,
		PaidAt:        time.Now(),
		User:          userID,
	}
	if err := s.Orders.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Get returns a single order for its owner. Admins use GetAny.
func (s *OrderService) Get(ctx context.Context, id, requester primitive.ObjectID) (*entity.Order, error) {
	order, err := s.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.User != requester {
		return nil, apperr.Forbidden("not your order")
	}
	return order, nil
}

// GetAny is the unrestricted admin fetch.
func (s *OrderService) GetAny(ctx context.Context, id primitive.ObjectID) (*entity.Order, error) {
	return s.Orders.GetByID(ctx, id)
}

func (s *OrderService) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]entity.Order, error) {
	return s.Orders.ListByUser(ctx, userID)
}

// ListAll returns every order together with the revenue sum across their
// total prices.
func (s *OrderService) ListAll(ctx context.Context) ([]entity.Order, float64, error) {
	orders, err := s.Orders.ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	var totalAmount float64
	for _, o := range orders {
		totalAmount += o.TotalPrice
	}
	return orders, totalAmount, nil
}

// UpdateStatus drives the state machine. A delivered order is immutable;
// any other move must be allowed by the transition table. Reaching
// Delivered decrements stock for every line item (floored at zero,
// missing products skipped) and stamps the delivery time. Only the
// lifecycle fields are persisted.
func (s *OrderService) UpdateStatus(ctx context.Context, id primitive.ObjectID, next entity.OrderStatus) (*entity.Order, error) {
	if !next.Valid() {
		return nil, apperr.Validation("unknown order status")
	}
	order, err := s.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.OrderStatus == entity.StatusDelivered {
		return nil, apperr.InvalidTransition("order has already been delivered")
	}
	if !order.OrderStatus.CanTransitionTo(next) {
		return nil, apperr.InvalidTransition("cannot move order from " + string(order.OrderStatus) + " to " + string(next))
	}

	var deliveredAt *time.Time
	if next == entity.StatusDelivered {
		now := time.Now()
		deliveredAt = &now
		for _, item := range order.OrderItems {
			err := s.Products.DecrementStock(ctx, item.Product, item.Quantity)
			if apperr.IsKind(err, apperr.KindNotFound) {
				// The catalog record was deleted after the sale; the
				// snapshot keeps the order itself intact.
				if s.Logger != nil {
					s.Logger.WithFields(logrus.Fields{
						"order_id":   id.Hex(),
						"product_id": item.Product.Hex(),
					}).Warn("skipping stock decrement for missing product")
				}
				continue
			}
			if err != nil {
				return nil, err
			}
		}
	}

	if err := s.Orders.UpdateStatus(ctx, id, next, deliveredAt); err != nil {
		return nil, err
	}
	order.OrderStatus = next
	order.DeliveredAt = deliveredAt
	return order, nil
}

// Delete removes an order. Orders still owed to the customer (anything
// short of Delivered) are refused.
func (s *OrderService) Delete(ctx context.Context, id primitive.ObjectID) error {
	order, err := s.Orders.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order.OrderStatus != entity.StatusDelivered {
		return apperr.InvalidState("order has not been delivered yet")
	}
	return s.Orders.Delete(ctx, id)
}
