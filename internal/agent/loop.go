package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/support-agent/internal/domain"
	"github.com/spec-kit/support-agent/internal/oracle"
	"github.com/spec-kit/support-agent/internal/tools"
	apperrors "github.com/spec-kit/support-agent/pkg/util"
)

// LoopStatus enumerates resolution-loop states.
type LoopStatus string

const (
	LoopStatusRunning   LoopStatus = "running"
	LoopStatusInvoking  LoopStatus = "invoking"
	LoopStatusFinished  LoopStatus = "finished"
	LoopStatusExhausted LoopStatus = "exhausted"
)

// DefaultMaxIterations bounds the resolution loop when no explicit cap is
// configured.
const DefaultMaxIterations = 6

// fallbackResponse is sent when the loop exhausts its iteration cap
// without a finish decision. The customer always receives a response.
const fallbackResponse = "We're sorry for the trouble with your order. We were unable to complete an " +
	"automated resolution, so your ticket has been escalated to a support specialist who will follow up shortly."

// Loop is the bounded ReAct-style controller of the resolve stage: it
// repeatedly asks the oracle for a next action, dispatches tool calls and
// appends every step to the transcript.
type Loop struct {
	oracle        oracle.Oracle
	registry      *tools.Registry
	maxIterations int
	logger        *zap.Logger
}

// NewLoop constructs the controller. maxIterations <= 0 selects the
// default cap.
func NewLoop(o oracle.Oracle, registry *tools.Registry, maxIterations int, logger *zap.Logger) *Loop {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return &Loop{oracle: o, registry: registry, maxIterations: maxIterations, logger: logger}
}

// Run executes the loop against the given state. Validation and
// tool-level failures are absorbed into the transcript; only oracle
// failures and contract violations (unknown tool) return an error.
func (l *Loop) Run(ctx context.Context, state *domain.AgentState) error {
	status := LoopStatusRunning
	stage := string(StageResolve)

	var lastCallKey string
	var lastResult *tools.Result

	for iteration := 1; iteration <= l.maxIterations; iteration++ {
		decision, err := l.oracle.DecideNext(ctx, state.Query, *state.Policy, state.Trace, l.registry.Specs())
		if err != nil {
			return err
		}

		if decision.Finish != nil {
			status = LoopStatusFinished
			state.Response = *decision.Finish
			state.Append(domain.TraceKindFinal, stage, state.Response, map[string]any{
				"loop_status": string(status),
				"iterations":  iteration,
			})
			return nil
		}

		invoke := decision.Invoke
		if !l.registry.Has(invoke.Tool) {
			// Programming-contract violation, not a recoverable tool error.
			return fmt.Errorf("oracle requested unknown tool %q", invoke.Tool)
		}

		if err := l.registry.Validate(invoke.Tool, invoke.Args); err != nil {
			state.Append(domain.TraceKindToolResult, stage, err.Error(), map[string]any{
				"tool":  invoke.Tool,
				"error": apperrors.CodeOf(err),
			})
			continue
		}

		status = LoopStatusInvoking
		callKey := canonicalCall(invoke.Tool, invoke.Args)

		state.Append(domain.TraceKindToolCall, stage, invoke.Tool, map[string]any{
			"tool": invoke.Tool,
			"args": invoke.Args,
		})

		// Identical consecutive calls replay the prior result instead of
		// re-invoking a side-effecting handler.
		if callKey == lastCallKey && lastResult != nil {
			state.Append(domain.TraceKindToolResult, stage, lastResult.Summary, map[string]any{
				"tool":     invoke.Tool,
				"payload":  lastResult.Payload,
				"replayed": true,
			})
			continue
		}

		result, err := l.registry.Execute(ctx, invoke.Tool, invoke.Args)
		if err != nil {
			domainErr := apperrors.ToDomainError(err)
			state.Append(domain.TraceKindToolResult, stage, domainErr.Message, map[string]any{
				"tool":    invoke.Tool,
				"error":   domainErr.Code,
				"details": domainErr.Details,
			})
			lastCallKey = ""
			lastResult = nil
			continue
		}

		state.Append(domain.TraceKindToolResult, stage, result.Summary, map[string]any{
			"tool":    invoke.Tool,
			"payload": result.Payload,
		})
		lastCallKey = callKey
		lastResult = &result

		l.noteOutcome(state, invoke.Tool, result)
	}

	status = LoopStatusExhausted
	state.LoopExhausted = true
	state.Response = fallbackResponse
	state.Append(domain.TraceKindFinal, stage, fallbackResponse, map[string]any{
		"loop_status": string(status),
		"iterations":  l.maxIterations,
	})
	l.logger.Warn("resolution loop exhausted", zap.Int("iterations", l.maxIterations))
	return nil
}

// noteOutcome copies tool side effects the pipeline cares about into
// working state: the stock-availability flag and the decisive action.
func (l *Loop) noteOutcome(state *domain.AgentState, tool string, result tools.Result) {
	switch tool {
	case tools.ToolCheckStock:
		if available, ok := result.Payload["available"].(bool); ok {
			state.StockAvailable = &available
		}
	case tools.ToolInitializeResend, tools.ToolInitializeRefund:
		state.ActionResult = &domain.ActionResult{
			Tool:    tool,
			Summary: result.Summary,
			Payload: result.Payload,
		}
	}
}

// canonicalCall renders tool + arguments into a stable comparison key.
func canonicalCall(tool string, args map[string]string) string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(tool)
	for _, k := range keys {
		encoded, _ := json.Marshal(args[k])
		fmt.Fprintf(&b, "|%s=%s", k, encoded)
	}
	return b.String()
}
