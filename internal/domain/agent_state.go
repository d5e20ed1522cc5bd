package domain

// ProblemType classifies a customer issue. The vocabulary is fixed; the
// classifier selects one or more tags per ticket.
type ProblemType string

const (
	ProblemNonDelivery ProblemType = "non-delivery"
	ProblemDelayed     ProblemType = "delayed"
	ProblemDamaged     ProblemType = "damaged"
	ProblemWrongItem   ProblemType = "wrong-item"
	ProblemQuality     ProblemType = "quality"
	ProblemFit         ProblemType = "fit"
	ProblemReturn      ProblemType = "return"
	ProblemRefund      ProblemType = "refund"
	ProblemAccount     ProblemType = "account"
	ProblemWebsite     ProblemType = "website"
	ProblemGeneral     ProblemType = "general"
)

// ProblemTypeDescriptions maps each tag to the definition shown to the
// classifier.
var ProblemTypeDescriptions = map[ProblemType]string{
	ProblemNonDelivery: "Customer hasn't received their order",
	ProblemDelayed:     "Order is taking longer than expected",
	ProblemDamaged:     "Product arrived damaged or defective",
	ProblemWrongItem:   "Customer received incorrect product",
	ProblemQuality:     "Product quality didn't meet expectations",
	ProblemFit:         "Size or fit issue with clothing/wearable",
	ProblemReturn:      "Customer wants to return an item",
	ProblemRefund:      "Customer is requesting a refund",
	ProblemAccount:     "Issues with customer's account",
	ProblemWebsite:     "Problems with the website",
	ProblemGeneral:     "Any other general inquiries",
}

// ProblemTypeOrder fixes the presentation order of the vocabulary.
var ProblemTypeOrder = []ProblemType{
	ProblemNonDelivery,
	ProblemDelayed,
	ProblemDamaged,
	ProblemWrongItem,
	ProblemQuality,
	ProblemFit,
	ProblemReturn,
	ProblemRefund,
	ProblemAccount,
	ProblemWebsite,
	ProblemGeneral,
}

// PolicySelection records the outcome of the select-policy stage.
// Fallback is true when the deterministic first-candidate rule was applied
// because the oracle could not disambiguate.
type PolicySelection struct {
	PolicyID    string `json:"policy_id"`
	Description string `json:"description"`
	Rationale   string `json:"rationale"`
	Fallback    bool   `json:"fallback"`
}

// ActionResult captures the structured outcome of the decisive tool call
// (resend or refund) taken during resolution.
type ActionResult struct {
	Tool    string         `json:"tool"`
	Summary string         `json:"summary"`
	Payload map[string]any `json:"payload,omitempty"`
}

// AgentState is the per-ticket working state threaded through the
// pipeline. It is created fresh per ticket, mutated in place by each
// stage, and discarded once its terminal fields are copied into the
// persisted Ticket record.
type AgentState struct {
	Query          string
	Context        map[string]string
	Trace          []TraceEntry
	Problems       []ProblemType
	OrderID        *string
	ProductID      *string
	Description    string
	Policy         *PolicySelection
	StockAvailable *bool
	ActionResult   *ActionResult
	Response       string
	LoopExhausted  bool
}

// NewAgentState seeds working state from the raw ticket description.
func NewAgentState(query string, context map[string]string) *AgentState {
	return &AgentState{Query: query, Context: context}
}

// Append adds one transcript entry and returns it.
func (s *AgentState) Append(kind TraceKind, stage, payload string, fields map[string]any) TraceEntry {
	entry := NewTraceEntry(kind, stage, payload, fields)
	s.Trace = append(s.Trace, entry)
	return entry
}
