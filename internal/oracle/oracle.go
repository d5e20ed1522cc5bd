// Package oracle talks to the reasoning model behind the pipeline:
// issue classification, policy selection and next-action decisions.
// Payloads returned by the model go through a strict decode step; a
// missing required field is an error, never a default-filled success.
package oracle

import (
	"context"

	"github.com/spec-kit/support-agent/internal/domain"
	"github.com/spec-kit/support-agent/internal/tools"
)

// Classification is the structured output of the classify stage.
type Classification struct {
	Problems    []string `json:"problem_types"`
	OrderID     string   `json:"order_id"`
	ProductID   string   `json:"product_id"`
	Description string   `json:"description"`
	Reasoning   string   `json:"reasoning"`
}

// PolicyChoice is the structured output of the select-policy stage. An
// empty PolicyID means the model could not disambiguate the candidates.
type PolicyChoice struct {
	PolicyID  string `json:"policy_id"`
	Rationale string `json:"rationale"`
}

// ToolInvocation asks for one tool call with string arguments.
type ToolInvocation struct {
	Tool string            `json:"tool"`
	Args map[string]string `json:"args"`
}

// Decision is the tagged next-action result: exactly one of Invoke or
// Finish is set.
type Decision struct {
	Invoke *ToolInvocation
	Finish *string
}

// Oracle is the reasoning collaborator consumed by the workflow. All
// failures are reported as OracleError domain errors.
type Oracle interface {
	Classify(ctx context.Context, query string, extra map[string]string) (Classification, error)
	SelectPolicy(ctx context.Context, query string, problems []domain.ProblemType, candidates []domain.Policy) (PolicyChoice, error)
	DecideNext(ctx context.Context, query string, policy domain.PolicySelection, transcript []domain.TraceEntry, specs []tools.Spec) (Decision, error)
}
