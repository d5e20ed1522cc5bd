package oracle

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spec-kit/support-agent/internal/domain"
	"github.com/spec-kit/support-agent/internal/tools"
)

func classificationMessages(query string, extra map[string]string) []Message {
	var b strings.Builder
	b.WriteString("You are a customer support agent. Analyze the customer issue and identify the problem types.\n")
	b.WriteString("Select from the following categories:\n")
	for _, tag := range domain.ProblemTypeOrder {
		fmt.Fprintf(&b, "- %s: %s\n", tag, domain.ProblemTypeDescriptions[tag])
	}
	b.WriteString("Also extract the order ID (format ORD#####) and product ID (format P####) when present, ")
	b.WriteString("and write a short normalized description of the issue. ")
	b.WriteString("Leave order_id or product_id empty when the customer did not mention one.")

	var user strings.Builder
	fmt.Fprintf(&user, "Customer issue: %s", query)
	if len(extra) > 0 {
		keys := make([]string, 0, len(extra))
		for k := range extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		user.WriteString("\nAdditional context:")
		for _, k := range keys {
			fmt.Fprintf(&user, "\n- %s: %s", k, extra[k])
		}
	}

	return []Message{
		{Role: "system", Content: b.String()},
		{Role: "user", Content: user.String()},
	}
}

func classificationSchema() *Schema {
	return &Schema{
		Name: "issue_classification",
		Type: "object",
		Properties: map[string]SchemaProperty{
			"problem_types": {Type: "array", Description: "Identified problem type tags", Items: &SchemaProperty{Type: "string"}},
			"order_id":      {Type: "string", Description: "Order ID mentioned in the issue, or empty"},
			"product_id":    {Type: "string", Description: "Product ID mentioned in the issue, or empty"},
			"description":   {Type: "string", Description: "Normalized one-sentence description of the issue"},
			"reasoning":     {Type: "string", Description: "Reasoning for the classification"},
		},
		Required: []string{"problem_types", "description", "reasoning"},
	}
}

func policyMessages(query string, problems []domain.ProblemType, candidates []domain.Policy) []Message {
	system := "You are a customer support agent. Pick the single most appropriate company policy " +
		"for the customer's situation from the candidate list. Answer with the policy id exactly as given. " +
		"If no candidate clearly fits best, return an empty policy_id."

	tags := make([]string, 0, len(problems))
	for _, p := range problems {
		tags = append(tags, string(p))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Customer issue: %s\n", query)
	fmt.Fprintf(&b, "Problem types: %s\n\n", strings.Join(tags, ", "))
	b.WriteString("Candidate policies:\n")
	for _, policy := range candidates {
		fmt.Fprintf(&b, "## %s (%s)\n", policy.Name, policy.ID)
		fmt.Fprintf(&b, "Description: %s\n", policy.Description)
		fmt.Fprintf(&b, "When to use: %s\n\n", policy.WhenToUse)
	}

	return []Message{
		{Role: "system", Content: system},
		{Role: "user", Content: b.String()},
	}
}

func policySchema() *Schema {
	return &Schema{
		Name: "policy_selection",
		Type: "object",
		Properties: map[string]SchemaProperty{
			"policy_id": {Type: "string", Description: "ID of the selected policy, or empty when ambiguous"},
			"rationale": {Type: "string", Description: "Reasoning for selecting this policy"},
		},
		Required: []string{"policy_id", "rationale"},
	}
}

func decisionMessages(query string, policy domain.PolicySelection, transcript []domain.TraceEntry, specs []tools.Spec) []Message {
	var b strings.Builder
	b.WriteString("You are resolving a customer support ticket by investigating with backend tools.\n")
	b.WriteString("Available tools:\n")
	for _, spec := range specs {
		fmt.Fprintf(&b, "- %s (required args: %s): %s\n", spec.Name, strings.Join(spec.Required, ", "), spec.Description)
	}
	b.WriteString("\nDecide exactly one next step. Either invoke one tool with its arguments ")
	b.WriteString(`(action "invoke") or finish with the final customer-facing response (action "finish"). `)
	b.WriteString("Finish once you have enough information to resolve the issue under the policy.")

	var user strings.Builder
	fmt.Fprintf(&user, "Customer issue: %s\n", query)
	fmt.Fprintf(&user, "Selected policy %s: %s\n", policy.PolicyID, policy.Description)
	if len(transcript) > 0 {
		user.WriteString("\nTranscript so far:\n")
		for _, entry := range transcript {
			fmt.Fprintf(&user, "[%s/%s] %s\n", entry.Stage, entry.Kind, entry.Payload)
		}
	}

	return []Message{
		{Role: "system", Content: b.String()},
		{Role: "user", Content: user.String()},
	}
}

func decisionSchema() *Schema {
	return &Schema{
		Name: "next_action",
		Type: "object",
		Properties: map[string]SchemaProperty{
			"action":   {Type: "string", Description: `"invoke" or "finish"`},
			"tool":     {Type: "string", Description: "Tool name when action is invoke"},
			"args":     {Type: "object", Description: "Tool arguments when action is invoke"},
			"response": {Type: "string", Description: "Final customer-facing text when action is finish"},
		},
		Required: []string{"action"},
	}
}
