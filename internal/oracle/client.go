package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/gitguard/internal/config"
)

// ErrMissingAPIKey indicates no API key was configured for the oracle.
var ErrMissingAPIKey = errors.New("oracle API key not configured (set GEMINI_API_KEY or oracle.api_key)")

// errEmptyResponse indicates the model returned no choices.
var errEmptyResponse = errors.New("empty model response")

// contentGenerator is the slice of langchaingo's llms.Model the client
// needs; narrowed so tests can fake it.
type contentGenerator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// LLMClient implements Client on top of a langchaingo model.
type LLMClient struct {
	model   contentGenerator
	timeout time.Duration
	logger  *zap.Logger
}

// NewGoogleAI creates a Client backed by Google's Gemini models.
func NewGoogleAI(ctx context.Context, cfg *config.OracleConfig, logger *zap.Logger) (*LLMClient, error) {
	if !cfg.APIKey.IsSet() {
		return nil, ErrMissingAPIKey
	}
	model, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.APIKey.Value()),
		googleai.WithDefaultModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("creating googleai client: %w", err)
	}
	return NewClient(model, cfg.Timeout.Duration(), logger), nil
}

// NewClient wraps an existing model. Used directly in tests.
func NewClient(model contentGenerator, timeout time.Duration, logger *zap.Logger) *LLMClient {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMClient{model: model, timeout: timeout, logger: logger}
}

// Plan implements Client. Oracle failure yields a sentinel plan.
func (c *LLMClient) Plan(ctx context.Context, intent string) (*Plan, error) {
	plan, err := c.generatePlan(ctx, planPrompt(intent))
	if err != nil {
		c.logger.Warn("plan generation failed", zap.Error(err))
		return sentinelPlan(err), nil
	}
	return plan, nil
}

// Fix implements Client. Oracle failure yields a sentinel plan.
func (c *LLMClient) Fix(ctx context.Context, req *FixRequest) (*Plan, error) {
	plan, err := c.generatePlan(ctx, fixPrompt(req))
	if err != nil {
		c.logger.Warn("fix generation failed", zap.Error(err))
		return sentinelPlan(err), nil
	}
	return plan, nil
}

// CommitMessage implements Client.
func (c *LLMClient) CommitMessage(ctx context.Context, diff string) (*CommitMessage, error) {
	var msg CommitMessage
	if err := c.generateJSON(ctx, fmt.Sprintf(commitPromptTemplate, diff), &msg); err != nil {
		return nil, fmt.Errorf("generating commit message: %w", err)
	}
	if msg.Subject == "" {
		return nil, fmt.Errorf("generating commit message: %w", errEmptyResponse)
	}
	return &msg, nil
}

// Audit implements Client.
func (c *LLMClient) Audit(ctx context.Context, diff string) (*AuditReport, error) {
	var report AuditReport
	if err := c.generateJSON(ctx, fmt.Sprintf(auditPromptTemplate, diff), &report); err != nil {
		return nil, fmt.Errorf("auditing diff: %w", err)
	}
	return &report, nil
}

// Explain implements Client.
func (c *LLMClient) Explain(ctx context.Context, diff string) (*Explanation, error) {
	var expl Explanation
	if err := c.generateJSON(ctx, fmt.Sprintf(explainPromptTemplate, diff), &expl); err != nil {
		return nil, fmt.Errorf("explaining diff: %w", err)
	}
	return &expl, nil
}

// generatePlan runs a prompt and decodes a Plan, normalizing the risk.
func (c *LLMClient) generatePlan(ctx context.Context, prompt string) (*Plan, error) {
	var raw struct {
		Risk               string   `json:"risk"`
		Summary            string   `json:"summary"`
		Commands           []string `json:"commands"`
		MissingInputPrompt string   `json:"missing_input_prompt"`
	}
	if err := c.generateJSON(ctx, prompt, &raw); err != nil {
		return nil, err
	}
	return &Plan{
		Risk:               ParseRisk(raw.Risk),
		Summary:            raw.Summary,
		Commands:           raw.Commands,
		MissingInputPrompt: raw.MissingInputPrompt,
	}, nil
}

// generateJSON runs one bounded model call and decodes the JSON object in
// its reply.
func (c *LLMClient) generateJSON(ctx context.Context, prompt string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.model.GenerateContent(ctx,
		[]llms.MessageContent{llms.TextParts(schema.ChatMessageTypeHuman, prompt)},
		llms.WithTemperature(0.2),
	)
	if err != nil {
		return fmt.Errorf("model call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return errEmptyResponse
	}

	payload, err := extractJSON(resp.Choices[0].Content)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("decoding model response: %w", err)
	}
	return nil
}

// extractJSON pulls the outermost JSON object out of a model reply,
// tolerating code fences and surrounding prose.
func extractJSON(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("no JSON object in model response")
	}
	return text[start : end+1], nil
}

// sentinelPlan is the response the rest of the system sees when the
// oracle is unreachable or malformed.
func sentinelPlan(err error) *Plan {
	return &Plan{
		Risk:    RiskUnknown,
		Summary: fmt.Sprintf("Failed to generate plan via AI: %v", err),
	}
}
