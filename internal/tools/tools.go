package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/spec-kit/support-agent/internal/erp"
)

const (
	ToolCheckOrderStatus = "check_order_status"
	ToolTrackOrder       = "track_order"
	ToolCheckStock       = "check_stock"
	ToolInitializeResend = "initialize_resend"
	ToolInitializeRefund = "initialize_refund"
)

// NewRegistry wires the five support tools over the ERP store.
func NewRegistry(store *erp.Store) *Registry {
	r := newRegistry()

	r.register(Spec{
		Name:        ToolCheckOrderStatus,
		Description: "Check order status, items and dates by order ID. Example order ID: ORD12345.",
		Required:    []string{"order_id"},
	}, checkOrderStatus(store))

	r.register(Spec{
		Name:        ToolTrackOrder,
		Description: "Track the shipment linked to an order by order ID.",
		Required:    []string{"order_id"},
	}, trackOrder(store))

	r.register(Spec{
		Name:        ToolCheckStock,
		Description: "Check stock availability by product ID. Product IDs look like P1001.",
		Required:    []string{"product_id"},
	}, checkStock(store))

	r.register(Spec{
		Name:        ToolInitializeResend,
		Description: "Ship a replacement of a product from an order. Requires order_id and product_id; fails when stock is insufficient.",
		Required:    []string{"order_id", "product_id"},
	}, initializeResend(store))

	r.register(Spec{
		Name:        ToolInitializeRefund,
		Description: "Refund the customer for an order by order_id. Fails when the order is already refunded.",
		Required:    []string{"order_id"},
	}, initializeRefund(store))

	return r
}

func checkOrderStatus(store *erp.Store) Handler {
	return func(ctx context.Context, args map[string]string) (Result, error) {
		order, err := store.GetOrder(args["order_id"])
		if err != nil {
			return Result{}, err
		}

		customerName := "Unknown"
		if customer, err := store.GetCustomer(order.CustomerID); err == nil {
			customerName = customer.Name
		}

		items := make([]map[string]any, 0, len(order.Items))
		var lines []string
		for _, item := range order.Items {
			name := item.ProductID
			if product, err := store.GetProduct(item.ProductID); err == nil {
				name = product.Name
			}
			items = append(items, map[string]any{
				"product_id":   item.ProductID,
				"product_name": name,
				"quantity":     item.Quantity,
				"total_price":  item.TotalPrice,
			})
			lines = append(lines, fmt.Sprintf("%s x%d ($%.2f)", name, item.Quantity, item.TotalPrice))
		}

		return Result{
			Summary: fmt.Sprintf("Order %s is %s for %s; items: %s; total $%.2f",
				order.ID, strings.ToUpper(string(order.Status)), customerName,
				strings.Join(lines, ", "), order.TotalAmount),
			Payload: map[string]any{
				"order_id":     order.ID,
				"status":       string(order.Status),
				"customer":     customerName,
				"items":        items,
				"total_amount": order.TotalAmount,
				"created_at":   order.CreatedAt.Format("2006-01-02 15:04:05"),
			},
		}, nil
	}
}

func trackOrder(store *erp.Store) Handler {
	return func(ctx context.Context, args map[string]string) (Result, error) {
		shipment, err := store.GetShipmentForOrder(args["order_id"])
		if err != nil {
			return Result{}, err
		}

		history := make([]map[string]any, 0, len(shipment.History))
		for _, event := range shipment.History {
			history = append(history, map[string]any{
				"timestamp":   event.Timestamp.Format("2006-01-02 15:04:05"),
				"location":    event.Location,
				"status":      string(event.Status),
				"description": event.Description,
			})
		}

		payload := map[string]any{
			"order_id":           shipment.OrderID,
			"carrier":            shipment.Carrier,
			"tracking_number":    shipment.TrackingNumber,
			"status":             string(shipment.Status),
			"estimated_delivery": shipment.EstimatedDelivery.Format("2006-01-02"),
			"history":            history,
		}
		summary := fmt.Sprintf("Shipment for order %s via %s (%s): %s, estimated delivery %s",
			shipment.OrderID, shipment.Carrier, shipment.TrackingNumber,
			strings.ToUpper(string(shipment.Status)), shipment.EstimatedDelivery.Format("2006-01-02"))
		if shipment.ActualDelivery != nil {
			payload["actual_delivery"] = shipment.ActualDelivery.Format("2006-01-02")
			summary += fmt.Sprintf(", delivered on %s", shipment.ActualDelivery.Format("2006-01-02"))
		}

		return Result{Summary: summary, Payload: payload}, nil
	}
}

func checkStock(store *erp.Store) Handler {
	return func(ctx context.Context, args map[string]string) (Result, error) {
		record, err := store.GetInventory(args["product_id"])
		if err != nil {
			return Result{}, err
		}
		product, err := store.GetProduct(args["product_id"])
		if err != nil {
			return Result{}, err
		}

		available := record.Quantity > 0
		status := "OUT OF STOCK"
		if available {
			status = "IN STOCK"
		}

		return Result{
			Summary: fmt.Sprintf("%s (%s): %d units, %s", product.Name, product.ID, record.Quantity, status),
			Payload: map[string]any{
				"product_id":   product.ID,
				"product_name": product.Name,
				"stock_level":  record.Quantity,
				"available":    available,
				"warehouse":    record.WarehouseID,
				"location":     record.Location,
			},
		}, nil
	}
}

func initializeResend(store *erp.Store) Handler {
	return func(ctx context.Context, args map[string]string) (Result, error) {
		shipment, err := store.CreateResend(args["order_id"], args["product_id"])
		if err != nil {
			return Result{}, err
		}

		return Result{
			Summary: fmt.Sprintf("Resend initiated for order %s, product %s; new shipment %s, tracking %s, estimated delivery %s",
				args["order_id"], args["product_id"], shipment.ID, shipment.TrackingNumber,
				shipment.EstimatedDelivery.Format("2006-01-02")),
			Payload: map[string]any{
				"order_id":           args["order_id"],
				"product_id":         args["product_id"],
				"shipment_id":        shipment.ID,
				"tracking_number":    shipment.TrackingNumber,
				"estimated_delivery": shipment.EstimatedDelivery.Format("2006-01-02"),
			},
		}, nil
	}
}

func initializeRefund(store *erp.Store) Handler {
	return func(ctx context.Context, args map[string]string) (Result, error) {
		refund, err := store.CreateRefund(args["order_id"])
		if err != nil {
			return Result{}, err
		}

		return Result{
			Summary: fmt.Sprintf("Refund initiated for order %s; reference %s, amount $%.2f",
				refund.OrderID, refund.ID, refund.Amount),
			Payload: map[string]any{
				"order_id":      refund.OrderID,
				"refund_id":     refund.ID,
				"status":        refund.Status,
				"refund_amount": refund.Amount,
			},
		}, nil
	}
}
