// Package tools exposes the backend operations the resolution loop may
// invoke: order status, tracking, stock, resend and refund. The registry
// (tool name -> spec + handler) is process-wide immutable configuration
// built once at startup.
package tools

import (
	"context"
	"fmt"
	"sort"

	apperrors "github.com/spec-kit/support-agent/pkg/util"
)

// Spec declares a tool's name, description and required arguments. Specs
// are surfaced to the reasoning oracle verbatim.
type Spec struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Required    []string `json:"required"`
}

// Result is a tool's structured success payload. Summary is the
// transcript-friendly rendering; Payload carries the typed fields.
type Result struct {
	Summary string         `json:"summary"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Handler executes one tool invocation. Arguments have already passed
// Validate.
type Handler func(ctx context.Context, args map[string]string) (Result, error)

type registration struct {
	spec    Spec
	handler Handler
}

// Registry maps tool names to specs and handlers.
type Registry struct {
	order   []string
	entries map[string]registration
}

func newRegistry() *Registry {
	return &Registry{entries: make(map[string]registration)}
}

func (r *Registry) register(spec Spec, handler Handler) {
	r.order = append(r.order, spec.Name)
	r.entries[spec.Name] = registration{spec: spec, handler: handler}
}

// Specs returns every tool spec in registration order.
func (r *Registry) Specs() []Spec {
	specs := make([]Spec, 0, len(r.order))
	for _, name := range r.order {
		specs = append(specs, r.entries[name].spec)
	}
	return specs
}

// Has reports whether the tool name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.entries[name]
	return ok
}

// Validate checks that every required argument of a known tool is present
// and non-empty. The caller must ensure the tool exists; validation
// failures are recoverable and fed back to the oracle.
func (r *Registry) Validate(name string, args map[string]string) error {
	entry, ok := r.entries[name]
	if !ok {
		return fmt.Errorf("unknown tool %q", name)
	}

	var missing []string
	for _, field := range entry.spec.Required {
		if args[field] == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return apperrors.NewValidationError(
			fmt.Sprintf("tool %s: missing required arguments", name),
			map[string]any{"missing": missing})
	}
	return nil
}

// Execute runs the named tool. Tool-level failures come back as
// DomainError values (NotFound, InvalidState) for the loop to absorb.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]string) (Result, error) {
	entry, ok := r.entries[name]
	if !ok {
		return Result{}, fmt.Errorf("unknown tool %q", name)
	}
	return entry.handler(ctx, args)
}
