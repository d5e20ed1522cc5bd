package erp

import (
	"time"

	"github.com/spec-kit/support-agent/internal/domain"
)

func strptr(s string) *string { return &s }

// seed loads the sample ERP dataset. P1002 and P1006 are deliberately out
// of stock and P1005 is low so that out-of-stock resolution paths are
// reachable.
func seed(s *Store) {
	now := time.Now()

	products := []domain.Product{
		{ID: "P1001", Name: "Premium Wireless Headphones", Description: "Noise-cancelling over-ear wireless headphones with 30-hour battery life", Price: 199.99, Category: "electronics"},
		{ID: "P1002", Name: "Smart Fitness Watch", Description: "Waterproof fitness tracker with heart rate monitor and GPS", Price: 149.99, Category: "electronics"},
		{ID: "P1003", Name: "Organic Cotton T-Shirt", Description: "Soft, breathable 100% organic cotton t-shirt", Price: 29.99, Category: "clothing"},
		{ID: "P1004", Name: "Stainless Steel Water Bottle", Description: "Vacuum insulated water bottle that keeps drinks cold for 24 hours", Price: 34.99, Category: "home"},
		{ID: "P1005", Name: "Wireless Charging Pad", Description: "Fast-charging wireless charger compatible with all Qi-enabled devices", Price: 39.99, Category: "electronics"},
		{ID: "P1006", Name: "Premium Cotton Hoodie", Description: "Comfortable cotton hoodie with front pocket and adjustable hood", Price: 49.99, Category: "clothing"},
	}
	for i := range products {
		s.products[products[i].ID] = &products[i]
	}

	inventory := []domain.InventoryRecord{
		{ProductID: "P1001", Quantity: 45, WarehouseID: "W001", Location: "A12-B3", ReorderThreshold: 10, UpdatedAt: now},
		{ProductID: "P1002", Quantity: 0, WarehouseID: "W001", Location: "A14-C2", ReorderThreshold: 5, UpdatedAt: now},
		{ProductID: "P1003", Quantity: 120, WarehouseID: "W002", Location: "B22-D5", ReorderThreshold: 20, UpdatedAt: now},
		{ProductID: "P1004", Quantity: 78, WarehouseID: "W001", Location: "C05-A1", ReorderThreshold: 15, UpdatedAt: now},
		{ProductID: "P1005", Quantity: 3, WarehouseID: "W001", Location: "A10-D4", ReorderThreshold: 10, UpdatedAt: now},
		{ProductID: "P1006", Quantity: 0, WarehouseID: "W002", Location: "D15-E7", ReorderThreshold: 10, UpdatedAt: now},
	}
	for i := range inventory {
		s.inventory[inventory[i].ProductID] = &inventory[i]
	}

	customers := []domain.Customer{
		{ID: "C1001", Name: "John Smith", Email: "john.smith@example.com"},
		{ID: "C1002", Name: "Emily Johnson", Email: "emily.johnson@example.com"},
		{ID: "C1003", Name: "Michael Brown", Email: "michael.brown@example.com"},
		{ID: "C1004", Name: "Sarah Wilson", Email: "sarah.wilson@example.com"},
	}
	for i := range customers {
		s.customers[customers[i].ID] = &customers[i]
	}

	delivered := now.Add(-30 * time.Hour)
	deliveredEarlier := now.Add(-50 * time.Hour)
	deliveredOld := now.AddDate(0, 0, -3)

	shipments := []domain.Shipment{
		{
			ID: "SH1001", OrderID: "ORD12345", Carrier: "FedEx", TrackingNumber: "FDX123456789",
			Status: domain.ShipmentStatusDelivered, EstimatedDelivery: now.AddDate(0, 0, -1), ActualDelivery: &delivered,
			History: trackingHistory(now, 5, domain.ShipmentStatusDelivered),
		},
		{
			ID: "SH1002", OrderID: "ORD67890", Carrier: "UPS", TrackingNumber: "UPS987654321",
			Status: domain.ShipmentStatusDelivered, EstimatedDelivery: now.AddDate(0, 0, -2), ActualDelivery: &deliveredEarlier,
			History: trackingHistory(now, 4, domain.ShipmentStatusDelivered),
		},
		{
			ID: "SH1003", OrderID: "ORD54321", Carrier: "USPS", TrackingNumber: "USPS567891234",
			Status: domain.ShipmentStatusInTransit, EstimatedDelivery: now.AddDate(0, 0, 1),
			History: trackingHistory(now, 2, domain.ShipmentStatusInTransit),
		},
		{
			ID: "SH1004", OrderID: "ORD13579", Carrier: "DHL", TrackingNumber: "DHL246813579",
			Status: domain.ShipmentStatusOutForDelivery, EstimatedDelivery: now,
			History: trackingHistory(now, 3, domain.ShipmentStatusOutForDelivery),
		},
		{
			ID: "SH1005", OrderID: "ORD98765", Carrier: "FedEx", TrackingNumber: "FDX987654321",
			Status: domain.ShipmentStatusInTransit, EstimatedDelivery: now.AddDate(0, 0, 2),
			History: trackingHistory(now, 3, domain.ShipmentStatusInTransit),
		},
		{
			ID: "SH1006", OrderID: "ORD87654", Carrier: "UPS", TrackingNumber: "UPS567891234",
			Status: domain.ShipmentStatusFailed, EstimatedDelivery: now.AddDate(0, 0, -2),
			History: failedDeliveryHistory(now),
		},
		{
			ID: "SH1007", OrderID: "ORD76543", Carrier: "USPS", TrackingNumber: "USPS987654321",
			Status: domain.ShipmentStatusInTransit, EstimatedDelivery: now.AddDate(0, 0, 1),
			History: trackingHistory(now, 2, domain.ShipmentStatusInTransit),
		},
		{
			ID: "SH1008", OrderID: "ORD24680", Carrier: "UPS", TrackingNumber: "UPS135792468",
			Status: domain.ShipmentStatusDelivered, EstimatedDelivery: deliveredOld, ActualDelivery: &deliveredOld,
			History: trackingHistory(now, 6, domain.ShipmentStatusDelivered),
		},
	}
	for i := range shipments {
		s.shipments[shipments[i].ID] = &shipments[i]
	}

	price := func(id string) float64 { return s.products[id].Price }

	orders := []domain.Order{
		{
			ID: "ORD12345", CustomerID: "C1001", Status: domain.OrderStatusDelivered,
			Items: []domain.OrderItem{
				{ProductID: "P1001", Quantity: 1, UnitPrice: price("P1001"), TotalPrice: price("P1001")},
				{ProductID: "P1004", Quantity: 2, UnitPrice: price("P1004"), TotalPrice: price("P1004") * 2},
			},
			TotalAmount: price("P1001") + price("P1004")*2,
			ShipmentID:  strptr("SH1001"), CreatedAt: now.AddDate(0, 0, -6),
		},
		{
			ID: "ORD67890", CustomerID: "C1002", Status: domain.OrderStatusDelivered,
			Items:       []domain.OrderItem{{ProductID: "P1002", Quantity: 1, UnitPrice: price("P1002"), TotalPrice: price("P1002")}},
			TotalAmount: price("P1002"),
			ShipmentID:  strptr("SH1002"), CreatedAt: now.AddDate(0, 0, -5),
		},
		{
			ID: "ORD54321", CustomerID: "C1003", Status: domain.OrderStatusShipped,
			Items: []domain.OrderItem{
				{ProductID: "P1003", Quantity: 3, UnitPrice: price("P1003"), TotalPrice: price("P1003") * 3},
				{ProductID: "P1005", Quantity: 1, UnitPrice: price("P1005"), TotalPrice: price("P1005")},
			},
			TotalAmount: price("P1003")*3 + price("P1005"),
			ShipmentID:  strptr("SH1003"), CreatedAt: now.AddDate(0, 0, -3),
		},
		{
			ID: "ORD13579", CustomerID: "C1001", Status: domain.OrderStatusShipped,
			Items:       []domain.OrderItem{{ProductID: "P1005", Quantity: 2, UnitPrice: price("P1005"), TotalPrice: price("P1005") * 2}},
			TotalAmount: price("P1005") * 2,
			ShipmentID:  strptr("SH1004"), CreatedAt: now.AddDate(0, 0, -4),
		},
		{
			ID: "ORD98765", CustomerID: "C1001", Status: domain.OrderStatusShipped,
			Items:       []domain.OrderItem{{ProductID: "P1001", Quantity: 1, UnitPrice: price("P1001"), TotalPrice: price("P1001")}},
			TotalAmount: price("P1001"),
			ShipmentID:  strptr("SH1005"), CreatedAt: now.AddDate(0, 0, -4),
		},
		{
			ID: "ORD87654", CustomerID: "C1002", Status: domain.OrderStatusShipped,
			Items:       []domain.OrderItem{{ProductID: "P1004", Quantity: 1, UnitPrice: price("P1004"), TotalPrice: price("P1004")}},
			TotalAmount: price("P1004"),
			ShipmentID:  strptr("SH1006"), CreatedAt: now.AddDate(0, 0, -5),
		},
		{
			ID: "ORD76543", CustomerID: "C1003", Status: domain.OrderStatusShipped,
			Items:       []domain.OrderItem{{ProductID: "P1002", Quantity: 1, UnitPrice: price("P1002"), TotalPrice: price("P1002")}},
			TotalAmount: price("P1002"),
			ShipmentID:  strptr("SH1007"), CreatedAt: now.AddDate(0, 0, -3),
		},
		{
			ID: "ORD24680", CustomerID: "C1004", Status: domain.OrderStatusDelivered,
			Items:       []domain.OrderItem{{ProductID: "P1006", Quantity: 1, UnitPrice: price("P1006"), TotalPrice: price("P1006")}},
			TotalAmount: price("P1006"),
			ShipmentID:  strptr("SH1008"), CreatedAt: now.AddDate(0, 0, -7),
		},
	}
	for i := range orders {
		s.orders[orders[i].ID] = &orders[i]
	}
}

func trackingHistory(now time.Time, daysAgoShipped int, status domain.ShipmentStatus) []domain.TrackingEvent {
	start := now.AddDate(0, 0, -daysAgoShipped)
	history := []domain.TrackingEvent{{
		Timestamp:   start,
		Location:    "Warehouse #1, Springfield, IL",
		Status:      domain.ShipmentStatusProcessing,
		Description: "Package processed at shipping facility",
	}}

	if daysAgoShipped > 1 {
		history = append(history, domain.TrackingEvent{
			Timestamp:   start.Add(12 * time.Hour),
			Location:    "Springfield Distribution Center, IL",
			Status:      domain.ShipmentStatusInTransit,
			Description: "Package in transit to next facility",
		})
	}
	if daysAgoShipped > 2 {
		history = append(history, domain.TrackingEvent{
			Timestamp:   start.AddDate(0, 0, 1),
			Location:    "Chicago Sorting Center, IL",
			Status:      domain.ShipmentStatusInTransit,
			Description: "Package arrived at sorting facility",
		})
	}

	switch status {
	case domain.ShipmentStatusOutForDelivery:
		history = append(history, domain.TrackingEvent{
			Timestamp:   now.Add(-8 * time.Hour),
			Location:    "Local Delivery Facility",
			Status:      domain.ShipmentStatusOutForDelivery,
			Description: "Package out for delivery",
		})
	case domain.ShipmentStatusDelivered:
		history = append(history,
			domain.TrackingEvent{
				Timestamp:   now.AddDate(0, 0, -1),
				Location:    "Local Delivery Facility",
				Status:      domain.ShipmentStatusOutForDelivery,
				Description: "Package out for delivery",
			},
			domain.TrackingEvent{
				Timestamp:   now.Add(-3 * time.Hour),
				Location:    "Destination",
				Status:      domain.ShipmentStatusDelivered,
				Description: "Package delivered",
			})
	}

	return history
}

func failedDeliveryHistory(now time.Time) []domain.TrackingEvent {
	start := now.AddDate(0, 0, -5)
	return []domain.TrackingEvent{
		{Timestamp: start, Location: "Warehouse #1, Springfield, IL", Status: domain.ShipmentStatusProcessing, Description: "Package processed at shipping facility"},
		{Timestamp: start.Add(12 * time.Hour), Location: "Springfield Distribution Center, IL", Status: domain.ShipmentStatusInTransit, Description: "Package in transit to next facility"},
		{Timestamp: start.AddDate(0, 0, 3), Location: "Destination", Status: domain.ShipmentStatusFailed, Description: "Delivery attempt failed: No one available to receive package"},
		{Timestamp: start.AddDate(0, 0, 4), Location: "Destination", Status: domain.ShipmentStatusFailed, Description: "Delivery attempt failed: No one available to receive package. Package will be returned to sender."},
	}
}
