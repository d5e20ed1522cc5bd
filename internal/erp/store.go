// Package erp simulates the backend ERP system: products, inventory,
// orders and shipments. Reads fail only with NotFound; the two write
// operations (resend, refund) are atomic read-check-write units.
package erp

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/support-agent/internal/domain"
	apperrors "github.com/spec-kit/support-agent/pkg/util"
)

// Store holds the simulated ERP dataset. One mutex serializes all access;
// conflicting writes (two resends against the same inventory record) are
// therefore ordered and stock can never be oversold.
type Store struct {
	mu        sync.Mutex
	products  map[string]*domain.Product
	inventory map[string]*domain.InventoryRecord
	orders    map[string]*domain.Order
	shipments map[string]*domain.Shipment
	customers map[string]*domain.Customer
	refunds   map[string]*domain.RefundRequest
}

// NewStore returns a store populated with the sample dataset.
func NewStore() *Store {
	s := &Store{
		products:  make(map[string]*domain.Product),
		inventory: make(map[string]*domain.InventoryRecord),
		orders:    make(map[string]*domain.Order),
		shipments: make(map[string]*domain.Shipment),
		customers: make(map[string]*domain.Customer),
		refunds:   make(map[string]*domain.RefundRequest),
	}
	seed(s)
	return s
}

// GetProduct returns catalog data for the product.
func (s *Store) GetProduct(productID string) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[productID]
	if !ok {
		return domain.Product{}, apperrors.NewNotFound("product", map[string]any{"product_id": productID})
	}
	return *product, nil
}

// GetOrder returns a copy of the order.
func (s *Store) GetOrder(orderID string) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return domain.Order{}, apperrors.NewNotFound("order", map[string]any{"order_id": orderID})
	}
	return copyOrder(order), nil
}

// GetCustomer returns customer reference data.
func (s *Store) GetCustomer(customerID string) (domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	customer, ok := s.customers[customerID]
	if !ok {
		return domain.Customer{}, apperrors.NewNotFound("customer", map[string]any{"customer_id": customerID})
	}
	return *customer, nil
}

// GetInventory returns the inventory record for a product.
func (s *Store) GetInventory(productID string) (domain.InventoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[productID]; !ok {
		return domain.InventoryRecord{}, apperrors.NewNotFound("product", map[string]any{"product_id": productID})
	}
	record, ok := s.inventory[productID]
	if !ok {
		return domain.InventoryRecord{ProductID: productID}, nil
	}
	return *record, nil
}

// GetShipmentForOrder returns the shipment linked to the order.
func (s *Store) GetShipmentForOrder(orderID string) (domain.Shipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return domain.Shipment{}, apperrors.NewNotFound("order", map[string]any{"order_id": orderID})
	}
	if order.ShipmentID == nil {
		return domain.Shipment{}, apperrors.NewNotFound("shipment", map[string]any{"order_id": orderID})
	}
	shipment, ok := s.shipments[*order.ShipmentID]
	if !ok {
		return domain.Shipment{}, apperrors.NewNotFound("shipment", map[string]any{"order_id": orderID})
	}
	return copyShipment(shipment), nil
}

// CreateResend decrements stock for the product and creates a replacement
// shipment for the order. The stock check and decrement happen under the
// same lock; a rejected resend leaves inventory untouched.
func (s *Store) CreateResend(orderID, productID string) (domain.Shipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return domain.Shipment{}, apperrors.NewNotFound("order", map[string]any{"order_id": orderID})
	}
	if _, ok := order.Item(productID); !ok {
		return domain.Shipment{}, apperrors.NewInvalidState(
			fmt.Sprintf("product %s is not part of order %s", productID, orderID),
			map[string]any{"order_id": orderID, "product_id": productID})
	}

	record, ok := s.inventory[productID]
	if !ok || record.Quantity <= 0 {
		level := 0
		if ok {
			level = record.Quantity
		}
		return domain.Shipment{}, apperrors.NewInvalidState(
			fmt.Sprintf("insufficient stock for product %s", productID),
			map[string]any{"product_id": productID, "stock_level": level})
	}

	record.Quantity--
	record.UpdatedAt = time.Now()

	now := time.Now()
	shipment := &domain.Shipment{
		ID:                "SH" + strings.ToUpper(uuid.NewString()[:4]),
		OrderID:           orderID,
		Carrier:           "FedEx",
		TrackingNumber:    "RS" + strings.ToUpper(uuid.NewString()[:8]),
		Status:            domain.ShipmentStatusProcessing,
		EstimatedDelivery: now.AddDate(0, 0, 3+rand.Intn(3)),
		History: []domain.TrackingEvent{{
			Timestamp:   now,
			Location:    "Warehouse",
			Status:      domain.ShipmentStatusProcessing,
			Description: "Replacement order being processed",
		}},
	}
	s.shipments[shipment.ID] = shipment

	return copyShipment(shipment), nil
}

// CreateRefund marks the order refunded and records a refund request for
// the full order amount. Refunding twice fails with InvalidState.
func (s *Store) CreateRefund(orderID string) (domain.RefundRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return domain.RefundRequest{}, apperrors.NewNotFound("order", map[string]any{"order_id": orderID})
	}
	if order.Status == domain.OrderStatusRefunded {
		return domain.RefundRequest{}, apperrors.NewInvalidState(
			fmt.Sprintf("order %s is already refunded", orderID),
			map[string]any{"order_id": orderID})
	}

	order.Status = domain.OrderStatusRefunded

	refund := &domain.RefundRequest{
		ID:        "RET" + strings.ToUpper(uuid.NewString()[:4]),
		OrderID:   orderID,
		Reason:    "Customer service approved refund",
		Status:    "pending",
		Amount:    order.TotalAmount,
		CreatedAt: time.Now(),
	}
	s.refunds[refund.ID] = refund

	return *refund, nil
}

func copyOrder(order *domain.Order) domain.Order {
	clone := *order
	clone.Items = append([]domain.OrderItem(nil), order.Items...)
	if order.ShipmentID != nil {
		id := *order.ShipmentID
		clone.ShipmentID = &id
	}
	return clone
}

func copyShipment(shipment *domain.Shipment) domain.Shipment {
	clone := *shipment
	clone.History = append([]domain.TrackingEvent(nil), shipment.History...)
	if shipment.ActualDelivery != nil {
		t := *shipment.ActualDelivery
		clone.ActualDelivery = &t
	}
	return clone
}
