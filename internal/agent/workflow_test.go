package agent

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/support-agent/internal/domain"
	"github.com/spec-kit/support-agent/internal/erp"
	"github.com/spec-kit/support-agent/internal/oracle"
	"github.com/spec-kit/support-agent/internal/tools"
)

func newWorkflow(o oracle.Oracle, store *erp.Store) *Workflow {
	logger := zap.NewNop()
	loop := NewLoop(o, tools.NewRegistry(store), 6, logger)
	return NewWorkflow(o, domain.DefaultPolicyCatalog(), loop, logger)
}

func TestWorkflowClassifyFailureIsTerminal(t *testing.T) {
	o := &scriptedOracle{classifyErr: errors.New("model unavailable")}
	wf := newWorkflow(o, erp.NewStore())
	state := domain.NewAgentState("my package is broken", nil)

	err := wf.Run(context.Background(), state)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var failure *StageFailure
	if !errors.As(err, &failure) {
		t.Fatalf("error %T is not a StageFailure", err)
	}
	if failure.Stage != StageClassify {
		t.Errorf("failed stage = %q, want classify", failure.Stage)
	}
}

func TestWorkflowNoApplicablePolicy(t *testing.T) {
	o := &scriptedOracle{classification: oracle.Classification{
		Problems:    []string{"telepathy"},
		Description: "an issue outside the catalog",
		Reasoning:   "no known category matches",
	}}
	wf := newWorkflow(o, erp.NewStore())
	state := domain.NewAgentState("strange request", nil)

	err := wf.Run(context.Background(), state)
	var failure *StageFailure
	if !errors.As(err, &failure) {
		t.Fatalf("expected StageFailure, got %v", err)
	}
	if failure.Stage != StageSelectPolicy {
		t.Errorf("failed stage = %q, want select_policy", failure.Stage)
	}
}

func TestWorkflowSingleCandidateSkipsOracle(t *testing.T) {
	o := &scriptedOracle{
		classification: oracle.Classification{
			Problems:    []string{"account"},
			Description: "customer cannot log in",
			Reasoning:   "login problem",
		},
		selectErr: errors.New("should not be consulted"),
		decisions: []oracle.Decision{
			finishDecision("Please use the password reset link; your account is otherwise in good standing."),
		},
	}
	wf := newWorkflow(o, erp.NewStore())
	state := domain.NewAgentState("I can't log into my account", nil)

	if err := wf.Run(context.Background(), state); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if o.selectCalled {
		t.Error("SelectPolicy was consulted for a single-candidate set")
	}
	if state.Policy == nil || state.Policy.PolicyID != "account-security" {
		t.Errorf("policy = %+v, want account-security", state.Policy)
	}
	if state.Policy.Fallback {
		t.Error("direct selection must not be marked as a fallback")
	}
}

func TestWorkflowFallbackOnAmbiguousChoice(t *testing.T) {
	o := &scriptedOracle{
		classification: oracle.Classification{
			Problems:    []string{"wrong-item"},
			Description: "received a different product",
			Reasoning:   "wrong item",
		},
		choice: oracle.PolicyChoice{PolicyID: ""},
		decisions: []oracle.Decision{
			finishDecision("We'll sort out the mixed-up delivery right away."),
		},
	}
	wf := newWorkflow(o, erp.NewStore())
	state := domain.NewAgentState("this is not what I ordered", nil)

	if err := wf.Run(context.Background(), state); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !o.selectCalled {
		t.Error("SelectPolicy was not consulted for multiple candidates")
	}
	if state.Policy == nil || !state.Policy.Fallback {
		t.Fatalf("policy = %+v, want fallback selection", state.Policy)
	}
	// First applicable policy in catalog declaration order.
	if state.Policy.PolicyID != "wrong-item-resolution" {
		t.Errorf("policy id = %q, want wrong-item-resolution", state.Policy.PolicyID)
	}
}

func TestWorkflowHonorsOracleChoice(t *testing.T) {
	o := &scriptedOracle{
		classification: oracle.Classification{
			Problems:    []string{"wrong-item"},
			Description: "received a different product",
			Reasoning:   "wrong item",
		},
		choice: oracle.PolicyChoice{
			PolicyID:  "premium-customer-service",
			Rationale: "customer is on the premium tier",
		},
		decisions: []oracle.Decision{
			finishDecision("As a premium customer you'll receive an expedited replacement."),
		},
	}
	wf := newWorkflow(o, erp.NewStore())
	state := domain.NewAgentState("this is not what I ordered", nil)

	if err := wf.Run(context.Background(), state); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if state.Policy == nil || state.Policy.PolicyID != "premium-customer-service" {
		t.Errorf("policy = %+v, want premium-customer-service", state.Policy)
	}
	if state.Policy.Fallback {
		t.Error("a valid oracle choice must not be marked as a fallback")
	}
}

func TestWorkflowResolvesWrongItemEndToEnd(t *testing.T) {
	store := erp.NewStore()
	finalText := "We've shipped a replacement Wireless Charging Pad for order ORD54321. " +
		"Tracking details will arrive by email shortly."
	o := &scriptedOracle{
		classification: oracle.Classification{
			Problems:    []string{"wrong-item"},
			OrderID:     "ORD54321",
			ProductID:   "P1005",
			Description: "customer received the wrong charging pad",
			Reasoning:   "order and product identifiers present in the complaint",
		},
		choice: oracle.PolicyChoice{
			PolicyID:  "wrong-item-resolution",
			Rationale: "a wrong item was delivered",
		},
		decisions: []oracle.Decision{
			invokeDecision(tools.ToolCheckOrderStatus, map[string]string{"order_id": "ORD54321"}),
			invokeDecision(tools.ToolInitializeResend, map[string]string{"order_id": "ORD54321", "product_id": "P1005"}),
			finishDecision(finalText),
		},
	}
	wf := newWorkflow(o, store)
	state := domain.NewAgentState("Order ORD54321 contained the wrong charging pad (P1005)", map[string]string{
		"ticket_id":   "TICKET-1",
		"customer_id": "C1003",
	})

	if err := wf.Run(context.Background(), state); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if state.Response != finalText {
		t.Errorf("response = %q", state.Response)
	}
	if state.OrderID == nil || *state.OrderID != "ORD54321" {
		t.Errorf("order id = %v, want ORD54321", state.OrderID)
	}
	if state.ActionResult == nil || state.ActionResult.Tool != tools.ToolInitializeResend {
		t.Errorf("action result = %+v, want initialize_resend", state.ActionResult)
	}

	if got := countKind(state.Trace, domain.TraceKindReasoning); got != 2 {
		t.Errorf("reasoning entries = %d, want 2 (classify and select_policy)", got)
	}
	if got := countKind(state.Trace, domain.TraceKindToolCall); got != 2 {
		t.Errorf("tool call entries = %d, want 2", got)
	}
	if got := countKind(state.Trace, domain.TraceKindFinal); got != 1 {
		t.Errorf("final entries = %d, want 1", got)
	}

	inventory, err := store.GetInventory("P1005")
	if err != nil {
		t.Fatalf("GetInventory: %v", err)
	}
	if inventory.Quantity != 2 {
		t.Errorf("stock level = %d, want 2 after the resend", inventory.Quantity)
	}
}
