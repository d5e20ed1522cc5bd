package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/spec-kit/support-agent/internal/erp"
	apperrors "github.com/spec-kit/support-agent/pkg/util"
)

func TestSpecsOrderAndNames(t *testing.T) {
	registry := NewRegistry(erp.NewStore())

	want := []string{
		ToolCheckOrderStatus,
		ToolTrackOrder,
		ToolCheckStock,
		ToolInitializeResend,
		ToolInitializeRefund,
	}
	specs := registry.Specs()
	if len(specs) != len(want) {
		t.Fatalf("got %d specs, want %d", len(specs), len(want))
	}
	for i, spec := range specs {
		if spec.Name != want[i] {
			t.Errorf("spec[%d] = %q, want %q", i, spec.Name, want[i])
		}
		if spec.Description == "" {
			t.Errorf("spec %q has no description", spec.Name)
		}
	}
}

func TestValidateMissingArgs(t *testing.T) {
	registry := NewRegistry(erp.NewStore())

	tests := []struct {
		name    string
		tool    string
		args    map[string]string
		wantErr bool
	}{
		{name: "all present", tool: ToolInitializeResend, args: map[string]string{"order_id": "ORD54321", "product_id": "P1005"}},
		{name: "missing product", tool: ToolInitializeResend, args: map[string]string{"order_id": "ORD54321"}, wantErr: true},
		{name: "empty value", tool: ToolCheckStock, args: map[string]string{"product_id": ""}, wantErr: true},
		{name: "nil args", tool: ToolTrackOrder, args: nil, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := registry.Validate(tc.tool, tc.args)
			if tc.wantErr {
				if !apperrors.HasCode(err, apperrors.CodeValidation) {
					t.Fatalf("expected VALIDATION_FAILED, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCheckStockPayload(t *testing.T) {
	registry := NewRegistry(erp.NewStore())

	result, err := registry.Execute(context.Background(), ToolCheckStock, map[string]string{"product_id": "P1002"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if available, ok := result.Payload["available"].(bool); !ok || available {
		t.Errorf("available = %v, want false", result.Payload["available"])
	}
	if level, ok := result.Payload["stock_level"].(int); !ok || level != 0 {
		t.Errorf("stock_level = %v, want 0", result.Payload["stock_level"])
	}
	if !strings.Contains(result.Summary, "OUT OF STOCK") {
		t.Errorf("summary %q does not mention OUT OF STOCK", result.Summary)
	}
}

func TestCheckOrderStatusNotFound(t *testing.T) {
	registry := NewRegistry(erp.NewStore())

	_, err := registry.Execute(context.Background(), ToolCheckOrderStatus, map[string]string{"order_id": "ORD00000"})
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestTrackOrderSummary(t *testing.T) {
	registry := NewRegistry(erp.NewStore())

	result, err := registry.Execute(context.Background(), ToolTrackOrder, map[string]string{"order_id": "ORD54321"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(result.Summary, "ORD54321") {
		t.Errorf("summary %q does not mention the order", result.Summary)
	}
	if result.Payload["tracking_number"] == "" {
		t.Error("payload has no tracking number")
	}
}
