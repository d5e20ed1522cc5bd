// Package agent implements the ticket resolution pipeline: a linear
// three-stage state machine (classify, select_policy, resolve) whose
// final stage runs a bounded tool-invocation loop.
package agent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/support-agent/internal/domain"
	"github.com/spec-kit/support-agent/internal/oracle"
)

// Stage enumerates pipeline states. Transitions are unconditional and
// linear: classify -> select_policy -> resolve -> done.
type Stage string

const (
	StageClassify     Stage = "classify"
	StageSelectPolicy Stage = "select_policy"
	StageResolve      Stage = "resolve"
	StageDone         Stage = "done"
)

// StageFailure wraps an unrecovered stage-level error. It is terminal for
// the ticket: no further stage executes and the ticket moves to failed.
type StageFailure struct {
	Stage Stage
	Cause error
}

func (e *StageFailure) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Cause)
}

func (e *StageFailure) Unwrap() error {
	return e.Cause
}

// Workflow owns a ticket's evolving AgentState and sequences stage
// execution.
type Workflow struct {
	oracle  oracle.Oracle
	catalog *domain.PolicyCatalog
	loop    *Loop
	logger  *zap.Logger
}

// NewWorkflow constructs the pipeline. The catalog and the loop's tool
// registry are process-wide immutable configuration.
func NewWorkflow(o oracle.Oracle, catalog *domain.PolicyCatalog, loop *Loop, logger *zap.Logger) *Workflow {
	return &Workflow{oracle: o, catalog: catalog, loop: loop, logger: logger}
}

// Run drives the state machine to completion, mutating state in place.
// A non-nil error is always a *StageFailure.
func (w *Workflow) Run(ctx context.Context, state *domain.AgentState) error {
	stage := StageClassify
	for stage != StageDone {
		next, err := w.runStage(ctx, stage, state)
		if err != nil {
			w.logger.Warn("stage failed", zap.String("stage", string(stage)), zap.Error(err))
			return &StageFailure{Stage: stage, Cause: err}
		}
		stage = next
	}
	return nil
}

func (w *Workflow) runStage(ctx context.Context, stage Stage, state *domain.AgentState) (Stage, error) {
	switch stage {
	case StageClassify:
		if err := w.classify(ctx, state); err != nil {
			return stage, err
		}
		return StageSelectPolicy, nil
	case StageSelectPolicy:
		if err := w.selectPolicy(ctx, state); err != nil {
			return stage, err
		}
		return StageResolve, nil
	case StageResolve:
		if err := w.loop.Run(ctx, state); err != nil {
			return stage, err
		}
		return StageDone, nil
	default:
		return stage, fmt.Errorf("unknown stage %q", stage)
	}
}

func (w *Workflow) classify(ctx context.Context, state *domain.AgentState) error {
	classification, err := w.oracle.Classify(ctx, state.Query, state.Context)
	if err != nil {
		return err
	}

	problems := make([]domain.ProblemType, 0, len(classification.Problems))
	for _, tag := range classification.Problems {
		normalized := domain.ProblemType(strings.ToLower(strings.TrimSpace(tag)))
		if normalized != "" {
			problems = append(problems, normalized)
		}
	}

	state.Problems = problems
	state.Description = classification.Description
	if classification.OrderID != "" {
		id := classification.OrderID
		state.OrderID = &id
	}
	if classification.ProductID != "" {
		id := classification.ProductID
		state.ProductID = &id
	}

	state.Append(domain.TraceKindReasoning, string(StageClassify), classification.Reasoning, map[string]any{
		"problems":   problems,
		"order_id":   classification.OrderID,
		"product_id": classification.ProductID,
	})

	w.logger.Info("issue classified",
		zap.Any("problems", problems),
		zap.String("order_id", classification.OrderID),
		zap.String("product_id", classification.ProductID))
	return nil
}

func (w *Workflow) selectPolicy(ctx context.Context, state *domain.AgentState) error {
	candidates := w.catalog.ForProblems(state.Problems)
	if len(candidates) == 0 {
		return fmt.Errorf("no policy applies to problem types %v", state.Problems)
	}

	var selection domain.PolicySelection
	switch {
	case len(candidates) == 1:
		selection = domain.PolicySelection{
			PolicyID:    candidates[0].ID,
			Description: candidates[0].Description,
			Rationale:   "only applicable policy for the identified problem types",
		}
	default:
		choice, err := w.oracle.SelectPolicy(ctx, state.Query, state.Problems, candidates)
		if err != nil {
			return err
		}
		if picked, ok := findCandidate(candidates, choice.PolicyID); ok {
			selection = domain.PolicySelection{
				PolicyID:    picked.ID,
				Description: picked.Description,
				Rationale:   choice.Rationale,
			}
		} else {
			// Deterministic tie-break: first candidate in catalog
			// declaration order, recorded as a fallback.
			selection = domain.PolicySelection{
				PolicyID:    candidates[0].ID,
				Description: candidates[0].Description,
				Rationale:   "oracle could not disambiguate candidates; selected first applicable policy in catalog order",
				Fallback:    true,
			}
		}
	}

	state.Policy = &selection
	state.Append(domain.TraceKindReasoning, string(StageSelectPolicy), selection.Rationale, map[string]any{
		"policy_id": selection.PolicyID,
		"fallback":  selection.Fallback,
	})

	w.logger.Info("policy selected",
		zap.String("policy_id", selection.PolicyID),
		zap.Bool("fallback", selection.Fallback))
	return nil
}

func findCandidate(candidates []domain.Policy, id string) (domain.Policy, bool) {
	for _, candidate := range candidates {
		if candidate.ID == id {
			return candidate, true
		}
	}
	return domain.Policy{}, false
}
