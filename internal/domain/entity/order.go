package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the order lifecycle state.
type OrderStatus string

const (
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
)

// transitions is the single place that defines which status changes are
// legal. Delivered is terminal; an order may skip Shipped entirely.
var transitions = map[OrderStatus][]OrderStatus{
	StatusProcessing: {StatusShipped, StatusDelivered},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo reports whether the move from s to next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ShippingInfo is the address snapshot captured when the order is placed.
type ShippingInfo struct {
	Address     string `bson:"address" json:"address"`
	City        string `bson:"city" json:"city"`
	State       string `bson:"state" json:"state"`
	Country     string `bson:"country" json:"country"`
	PinCode     string `bson:"pinCode" json:"pinCode"`
	PhoneNumber string `bson:"phoneNumber" json:"phoneNumber"`
}

// OrderItem is a point-in-time snapshot of a purchased product. Name,
// price and image are copied at purchase time; only Product still points
// at the live catalog record, and it may dangle if the product is later
// deleted.
type OrderItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Name     string             `bson:"name" json:"name"`
	Price    float64            `bson:"price" json:"price"`
	Image    string             `bson:"image" json:"image"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

// PaymentInfo records the gateway transaction reference for an order.
type PaymentInfo struct {
	ID     string `bson:"id" json:"id"`
	Status string `bson:"status" json:"status"`
}

// Order is the persisted order document. Price fields are stored as
// submitted by the client; DeliveredAt is set exactly when the status
// becomes Delivered.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ShippingInfo  ShippingInfo       `bson:"shippingInfo" json:"shippingInfo"`
	OrderItems    []OrderItem        `bson:"orderItems" json:"orderItems"`
	PaymentInfo   PaymentInfo        `bson:"paymentInfo" json:"paymentInfo"`
	ItemsPrice    float64            `bson:"itemsPrice" json:"itemsPrice"`
	TaxPrice      float64            `bson:"taxPrice" json:"taxPrice"`
	ShippingPrice float64            `bson:"shippingPrice" json:"shippingPrice"`
	TotalPrice    float64            `bson:"totalPrice" json:"totalPrice"`
	OrderStatus   OrderStatus        `bson:"orderStatus" json:"orderStatus"`
	PaidAt        time.Time          `bson:"paidAt" json:"paidAt"`
	DeliveredAt   *time.Time         `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	User          primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
