package domain

import "time"

// OrderStatus enumerates order lifecycle states in the ERP system.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusRefunded   OrderStatus = "refunded"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ShipmentStatus enumerates shipment states.
type ShipmentStatus string

const (
	ShipmentStatusProcessing     ShipmentStatus = "processing"
	ShipmentStatusInTransit      ShipmentStatus = "in_transit"
	ShipmentStatusOutForDelivery ShipmentStatus = "out_for_delivery"
	ShipmentStatusDelivered      ShipmentStatus = "delivered"
	ShipmentStatusFailed         ShipmentStatus = "failed"
)

// Product is ERP catalog reference data.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Category    string
}

// InventoryRecord maps one product to a non-negative on-hand quantity.
type InventoryRecord struct {
	ProductID        string
	Quantity         int
	WarehouseID      string
	Location         string
	ReorderThreshold int
	UpdatedAt        time.Time
}

// OrderItem is one line of an order.
type OrderItem struct {
	ProductID  string
	Quantity   int
	UnitPrice  float64
	TotalPrice float64
}

// Order references exactly one customer; items reference products.
type Order struct {
	ID          string
	CustomerID  string
	Status      OrderStatus
	Items       []OrderItem
	TotalAmount float64
	ShipmentID  *string
	CreatedAt   time.Time
}

// Item returns the order line for the given product, if present.
func (o Order) Item(productID string) (OrderItem, bool) {
	for _, item := range o.Items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return OrderItem{}, false
}

// TrackingEvent is one step of a shipment's tracking history.
type TrackingEvent struct {
	Timestamp   time.Time
	Location    string
	Status      ShipmentStatus
	Description string
}

// Shipment tracks delivery of an order (or a resend).
type Shipment struct {
	ID                string
	OrderID           string
	Carrier           string
	TrackingNumber    string
	Status            ShipmentStatus
	EstimatedDelivery time.Time
	ActualDelivery    *time.Time
	History           []TrackingEvent
}

// Customer is ERP customer reference data.
type Customer struct {
	ID    string
	Name  string
	Email string
}

// RefundRequest records an approved refund against an order.
type RefundRequest struct {
	ID        string
	OrderID   string
	Reason    string
	Status    string
	Amount    float64
	CreatedAt time.Time
}
