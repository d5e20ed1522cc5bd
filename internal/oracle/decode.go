package oracle

import (
	"encoding/json"
	"fmt"
	"strings"
)

// decodeClassification strictly decodes the classify payload. Empty
// problem_types or a missing description is a decode error.
func decodeClassification(raw string) (Classification, error) {
	var c Classification
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return Classification{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if len(c.Problems) == 0 {
		return Classification{}, fmt.Errorf("missing required field problem_types")
	}
	if strings.TrimSpace(c.Description) == "" {
		return Classification{}, fmt.Errorf("missing required field description")
	}
	return c, nil
}

// decodePolicyChoice strictly decodes the select-policy payload. An empty
// policy_id is valid: it means the model could not disambiguate.
func decodePolicyChoice(raw string) (PolicyChoice, error) {
	var choice PolicyChoice
	if err := json.Unmarshal([]byte(raw), &choice); err != nil {
		return PolicyChoice{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if choice.PolicyID != "" && strings.TrimSpace(choice.Rationale) == "" {
		return PolicyChoice{}, fmt.Errorf("missing required field rationale")
	}
	return choice, nil
}

type rawDecision struct {
	Action   string            `json:"action"`
	Tool     string            `json:"tool"`
	Args     map[string]string `json:"args"`
	Response string            `json:"response"`
}

// decodeDecision strictly decodes the next-action payload into the tagged
// Decision union. Anything other than a well-formed invoke or finish is a
// decode error.
func decodeDecision(raw string) (Decision, error) {
	var d rawDecision
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return Decision{}, fmt.Errorf("invalid JSON: %w", err)
	}

	switch d.Action {
	case "invoke":
		if strings.TrimSpace(d.Tool) == "" {
			return Decision{}, fmt.Errorf("invoke decision missing tool name")
		}
		args := d.Args
		if args == nil {
			args = map[string]string{}
		}
		return Decision{Invoke: &ToolInvocation{Tool: d.Tool, Args: args}}, nil
	case "finish":
		if strings.TrimSpace(d.Response) == "" {
			return Decision{}, fmt.Errorf("finish decision missing response text")
		}
		response := d.Response
		return Decision{Finish: &response}, nil
	default:
		return Decision{}, fmt.Errorf("unknown action %q", d.Action)
	}
}
