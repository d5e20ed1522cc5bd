package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-agent/internal/domain"
	"github.com/spec-kit/support-agent/internal/tools"
	apperrors "github.com/spec-kit/support-agent/pkg/util"
)

// Message is one chat turn sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Schema describes the expected JSON output structure for structured
// responses.
type Schema struct {
	Name       string                    `json:"-"`
	Type       string                    `json:"type"`
	Properties map[string]SchemaProperty `json:"properties"`
	Required   []string                  `json:"required,omitempty"`
}

// SchemaProperty describes a single field within a Schema.
type SchemaProperty struct {
	Type        string          `json:"type"`
	Description string          `json:"description,omitempty"`
	Items       *SchemaProperty `json:"items,omitempty"`
}

// Client implements Oracle over an OpenAI-compatible chat-completions
// endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger
}

// NewClient builds a Client. timeout bounds each oracle call.
func NewClient(baseURL, apiKey, model string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{},
		timeout:    timeout,
		logger:     logger,
	}
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type       string         `json:"type"`
	JSONSchema jsonSchemaSpec `json:"json_schema"`
}

type jsonSchemaSpec struct {
	Name   string  `json:"name"`
	Strict bool    `json:"strict"`
	Schema *Schema `json:"schema"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// chat posts one completion request and returns the raw assistant content.
func (c *Client) chat(ctx context.Context, messages []Message, schema *Schema) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqBody := chatRequest{Model: c.model, Messages: messages}
	if schema != nil {
		reqBody.ResponseFormat = &responseFormat{
			Type:       "json_schema",
			JSONSchema: jsonSchemaSpec{Name: schema.Name, Strict: true, Schema: schema},
		}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("requesting completion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// Classify sends the customer issue and returns the structured
// classification.
func (c *Client) Classify(ctx context.Context, query string, extra map[string]string) (Classification, error) {
	messages := classificationMessages(query, extra)

	raw, err := c.chat(ctx, messages, classificationSchema())
	if err != nil {
		return Classification{}, apperrors.NewOracleError("classification call failed", err)
	}

	classification, err := decodeClassification(raw)
	if err != nil {
		c.logger.Warn("unparseable classification from oracle", zap.Error(err), zap.String("raw", raw))
		return Classification{}, apperrors.NewOracleError("unparseable classification", err)
	}
	return classification, nil
}

// SelectPolicy asks the model to pick one candidate policy.
func (c *Client) SelectPolicy(ctx context.Context, query string, problems []domain.ProblemType, candidates []domain.Policy) (PolicyChoice, error) {
	messages := policyMessages(query, problems, candidates)

	raw, err := c.chat(ctx, messages, policySchema())
	if err != nil {
		return PolicyChoice{}, apperrors.NewOracleError("policy selection call failed", err)
	}

	choice, err := decodePolicyChoice(raw)
	if err != nil {
		c.logger.Warn("unparseable policy choice from oracle", zap.Error(err), zap.String("raw", raw))
		return PolicyChoice{}, apperrors.NewOracleError("unparseable policy choice", err)
	}
	return choice, nil
}

// DecideNext asks the model for the next resolution action.
func (c *Client) DecideNext(ctx context.Context, query string, policy domain.PolicySelection, transcript []domain.TraceEntry, specs []tools.Spec) (Decision, error) {
	messages := decisionMessages(query, policy, transcript, specs)

	raw, err := c.chat(ctx, messages, decisionSchema())
	if err != nil {
		return Decision{}, apperrors.NewOracleError("decision call failed", err)
	}

	decision, err := decodeDecision(raw)
	if err != nil {
		c.logger.Warn("unparseable decision from oracle", zap.Error(err), zap.String("raw", raw))
		return Decision{}, apperrors.NewOracleError("unparseable decision", err)
	}
	return decision, nil
}
