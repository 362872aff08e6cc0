package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/novamart/storefront-api/internal/domain/apperr"
	"github.com/novamart/storefront-api/internal/domain/entity"
)

func seedProduct(t *testing.T, products *mockProductRepo, stock int) primitive.ObjectID {
	t.Helper()
	p := &entity.Product{Name: "Widget", Price: 10, Stock: stock}
	require.NoError(t, products.Create(context.Background(), p))
	return p.ID
}

func placedOrder(t *testing.T, svc *OrderService, items []entity.OrderItem, userID primitive.ObjectID) *entity.Order {
	t.Helper()
	order, err := svc.Create(context.Background(), CreateOrderInput{
		OrderItems: items,
		TotalPrice: 120,
	}, userID)
	require.NoError(t, err)
	return order
}

func TestOrderService_Create_EmptyItems(t *testing.T) {
	svc := NewOrderService(newMockOrderRepo(), newMockProductRepo(), testLogger())
	_, err := svc.Create(context.Background(), CreateOrderInput{}, primitive.NewObjectID())
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestOrderService_Create_Defaults(t *testing.T) {
	svc := NewOrderService(newMockOrderRepo(), newMockProductRepo(), testLogger())
	userID := primitive.NewObjectID()
	order := placedOrder(t, svc, []entity.OrderItem{{Product: primitive.NewObjectID(), Quantity: 1}}, userID)

	assert.Equal(t, entity.StatusProcessing, order.OrderStatus)
	assert.Equal(t, userID, order.User)
	assert.False(t, order.PaidAt.IsZero())
	assert.Nil(t, order.DeliveredAt)
	// totals are stored exactly as submitted
	assert.Equal(t, 120.0, order.TotalPrice)
}

func TestOrderService_Get_OwnerOnly(t *testing.T) {
	svc := NewOrderService(newMockOrderRepo(), newMockProductRepo(), testLogger())
	owner := primitive.NewObjectID()
	order := placedOrder(t, svc, []entity.OrderItem{{Product: primitive.NewObjectID(), Quantity: 1}}, owner)

	got, err := svc.Get(context.Background(), order.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = svc.Get(context.Background(), order.ID, primitive.NewObjectID())
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestOrderService_UpdateStatus_UnknownStatus(t *testing.T) {
	svc := NewOrderService(newMockOrderRepo(), newMockProductRepo(), testLogger())
	order := placedOrder(t, svc, []entity.OrderItem{{Product: primitive.NewObjectID(), Quantity: 1}}, primitive.NewObjectID())

	_, err := svc.UpdateStatus(context.Background(), order.ID, "Teleported")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestOrderService_UpdateStatus_DeliveredDecrementsStock(t *testing.T) {
	products := newMockProductRepo()
	svc := NewOrderService(newMockOrderRepo(), products, testLogger())

	plenty := seedProduct(t, products, 5)
	scarce := seedProduct(t, products, 1)

	order := placedOrder(t, svc, []entity.OrderItem{
		{Product: plenty, Quantity: 2},
		{Product: scarce, Quantity: 3},
	}, primitive.NewObjectID())

	updated, err := svc.UpdateStatus(context.Background(), order.ID, entity.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDelivered, updated.OrderStatus)
	require.NotNil(t, updated.DeliveredAt)

	p1, _ := products.GetByID(context.Background(), plenty)
	assert.Equal(t, 3, p1.Stock)
	// oversold stock floors at zero instead of going negative
	p2, _ := products.GetByID(context.Background(), scarce)
	assert.Equal(t, 0, p2.Stock)
}

func TestOrderService_UpdateStatus_SkipsMissingProduct(t *testing.T) {
	products := newMockProductRepo()
	svc := NewOrderService(newMockOrderRepo(), products, testLogger())

	existing := seedProduct(t, products, 4)
	order := placedOrder(t, svc, []entity.OrderItem{
		{Product: primitive.NewObjectID(), Quantity: 2}, // deleted from catalog
		{Product: existing, Quantity: 1},
	}, primitive.NewObjectID())

	updated, err := svc.UpdateStatus(context.Background(), order.ID, entity.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDelivered, updated.OrderStatus)

	p, _ := products.GetByID(context.Background(), existing)
	assert.Equal(t, 3, p.Stock)
}

func TestOrderService_UpdateStatus_DeliveredIsTerminal(t *testing.T) {
	svc := NewOrderService(newMockOrderRepo(), newMockProductRepo(), testLogger())
	order := placedOrder(t, svc, []entity.OrderItem{{Product: primitive.NewObjectID(), Quantity: 1}}, primitive.NewObjectID())

	_, err := svc.UpdateStatus(context.Background(), order.ID, entity.StatusDelivered)
	require.NoError(t, err)

	for _, next := range []entity.OrderStatus{entity.StatusProcessing, entity.StatusShipped, entity.StatusDelivered} {
		_, err = svc.UpdateStatus(context.Background(), order.ID, next)
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidTransition), "move to %s should be refused", next)
	}
}

func TestOrderService_UpdateStatus_NoBackwardsMove(t *testing.T) {
	svc := NewOrderService(newMockOrderRepo(), newMockProductRepo(), testLogger())
	order := placedOrder(t, svc, []entity.OrderItem{{Product: primitive.NewObjectID(), Quantity: 1}}, primitive.NewObjectID())

	_, err := svc.UpdateStatus(context.Background(), order.ID, entity.StatusShipped)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), order.ID, entity.StatusProcessing)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidTransition))
}

func TestOrderService_UpdateStatus_ShippedDoesNotTouchStock(t *testing.T) {
	products := newMockProductRepo()
	svc := NewOrderService(newMockOrderRepo(), products, testLogger())

	pid := seedProduct(t, products, 5)
	order := placedOrder(t, svc, []entity.OrderItem{{Product: pid, Quantity: 2}}, primitive.NewObjectID())

	updated, err := svc.UpdateStatus(context.Background(), order.ID, entity.StatusShipped)
	require.NoError(t, err)
	assert.Nil(t, updated.DeliveredAt)

	p, _ := products.GetByID(context.Background(), pid)
	assert.Equal(t, 5, p.Stock)
}

func TestOrderService_Delete_RequiresDelivered(t *testing.T) {
	orders := newMockOrderRepo()
	svc := NewOrderService(orders, newMockProductRepo(), testLogger())
	order := placedOrder(t, svc, []entity.OrderItem{{Product: primitive.NewObjectID(), Quantity: 1}}, primitive.NewObjectID())

	err := svc.Delete(context.Background(), order.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))

	_, err = svc.UpdateStatus(context.Background(), order.ID, entity.StatusDelivered)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), order.ID))
	_, err = svc.GetAny(context.Background(), order.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestOrderService_ListAll_SumsRevenue(t *testing.T) {
	svc := NewOrderService(newMockOrderRepo(), newMockProductRepo(), testLogger())
	item := []entity.OrderItem{{Product: primitive.NewObjectID(), Quantity: 1}}

	for _, total := range []float64{10.5, 20, 30} {
		_, err := svc.Create(context.Background(), CreateOrderInput{OrderItems: item, TotalPrice: total}, primitive.NewObjectID())
		require.NoError(t, err)
	}

	orders, totalAmount, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, orders, 3)
	assert.InDelta(t, 60.5, totalAmount, 1e-9)
}
