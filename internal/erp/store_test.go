package erp

import (
	"testing"

	"github.com/spec-kit/support-agent/internal/domain"
	apperrors "github.com/spec-kit/support-agent/pkg/util"
)

func TestGetOrderUnknown(t *testing.T) {
	store := NewStore()

	_, err := store.GetOrder("ORD00000")
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestCreateRefundOnce(t *testing.T) {
	store := NewStore()

	refund, err := store.CreateRefund("ORD12345")
	if err != nil {
		t.Fatalf("first refund failed: %v", err)
	}
	if refund.OrderID != "ORD12345" {
		t.Errorf("refund order id = %q, want ORD12345", refund.OrderID)
	}
	if refund.Amount <= 0 {
		t.Errorf("refund amount = %v, want > 0", refund.Amount)
	}

	order, err := store.GetOrder("ORD12345")
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if order.Status != domain.OrderStatusRefunded {
		t.Errorf("order status = %q, want refunded", order.Status)
	}

	_, err = store.CreateRefund("ORD12345")
	if !apperrors.HasCode(err, apperrors.CodeInvalidState) {
		t.Fatalf("second refund: expected INVALID_STATE, got %v", err)
	}
}

func TestCreateResendDecrementsStock(t *testing.T) {
	store := NewStore()

	before, err := store.GetInventory("P1005")
	if err != nil {
		t.Fatalf("GetInventory: %v", err)
	}

	shipment, err := store.CreateResend("ORD54321", "P1005")
	if err != nil {
		t.Fatalf("CreateResend: %v", err)
	}
	if shipment.OrderID != "ORD54321" {
		t.Errorf("shipment order id = %q, want ORD54321", shipment.OrderID)
	}
	if shipment.TrackingNumber == "" {
		t.Error("shipment has no tracking number")
	}

	after, err := store.GetInventory("P1005")
	if err != nil {
		t.Fatalf("GetInventory: %v", err)
	}
	if after.Quantity != before.Quantity-1 {
		t.Errorf("stock level = %d, want %d", after.Quantity, before.Quantity-1)
	}
}

func TestCreateResendInsufficientStock(t *testing.T) {
	store := NewStore()

	// P1002 is seeded with zero stock.
	_, err := store.CreateResend("ORD67890", "P1002")
	if !apperrors.HasCode(err, apperrors.CodeInvalidState) {
		t.Fatalf("expected INVALID_STATE, got %v", err)
	}

	after, err := store.GetInventory("P1002")
	if err != nil {
		t.Fatalf("GetInventory: %v", err)
	}
	if after.Quantity != 0 {
		t.Errorf("stock level = %d, want 0 after rejected resend", after.Quantity)
	}
}

func TestCreateResendProductNotInOrder(t *testing.T) {
	store := NewStore()

	_, err := store.CreateResend("ORD12345", "P1003")
	if !apperrors.HasCode(err, apperrors.CodeInvalidState) {
		t.Fatalf("expected INVALID_STATE, got %v", err)
	}
}

func TestGetOrderReturnsCopy(t *testing.T) {
	store := NewStore()

	order, err := store.GetOrder("ORD54321")
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	order.Items[0].Quantity = 999

	again, err := store.GetOrder("ORD54321")
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if again.Items[0].Quantity == 999 {
		t.Error("mutating a returned order leaked into the store")
	}
}
