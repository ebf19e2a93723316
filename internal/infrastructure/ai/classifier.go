// Package ai implements the tier-2 classifier against a local Ollama
// instance speaking the OpenAI-compatible chat completions shape.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/doeshing/droidai/internal/domain"
	"github.com/doeshing/droidai/internal/infrastructure/match"
	"github.com/doeshing/droidai/internal/ports"
)

const (
	defaultEndpoint = "http://localhost:11434/v1/chat/completions"
	defaultModelID  = "qwen2.5:0.5b"
	probeTimeout    = 2 * time.Second
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c chatCompletionResponse) firstMessage() string {
	if len(c.Choices) == 0 {
		return ""
	}
	return strings.TrimSpace(c.Choices[0].Message.Content)
}

// jsonObjectPattern grabs a flat JSON object out of whatever prose the
// model wraps around it, used when the full-span extraction fails.
var jsonObjectPattern = regexp.MustCompile(`\{[^{}]+\}`)

// extractObject returns the most plausible JSON object in content: the
// span from the first opening to the last closing brace, falling back to
// the first flat object when that span does not parse.
func extractObject(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		span := content[start : end+1]
		if json.Valid([]byte(span)) {
			return span
		}
	}
	return jsonObjectPattern.FindString(content)
}

// OllamaClassifier implements ports.Classifier against a local model
// runtime. Availability is probed exactly once at construction; a machine
// without the runtime degrades to the lexical tiers for the whole session.
type OllamaClassifier struct {
	endpoint   string
	modelID    string
	maxTokens  int
	httpClient *http.Client
	logger     ports.Logger
	available  bool
}

var _ ports.Classifier = (*OllamaClassifier)(nil)

// NewOllamaClassifier builds the classifier and probes the runtime.
func NewOllamaClassifier(cfg domain.ClassifierConfig, logger ports.Logger) *OllamaClassifier {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	modelID := cfg.ModelID
	if modelID == "" {
		modelID = defaultModelID
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = domain.DefaultClassifierMaxTokens
	}
	timeout := domain.DefaultClassifierTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	c := &OllamaClassifier{
		endpoint:   endpoint,
		modelID:    modelID,
		maxTokens:  maxTokens,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
	c.available = c.probe()
	if !c.available {
		logger.Info("classifier unavailable, lexical tiers only", map[string]interface{}{
			"endpoint": endpoint,
		})
	}
	return c
}

// Available reports the construction-time probe result.
func (c *OllamaClassifier) Available() bool {
	return c.available
}

// probe hits the runtime's model listing. A short timeout keeps startup
// snappy on machines without the runtime.
func (c *OllamaClassifier) probe() bool {
	client := &http.Client{Timeout: probeTimeout}
	resp, err := client.Get(c.tagsURL())
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < 400
}

// tagsURL derives the Ollama /api/tags listing URL from the chat endpoint.
func (c *OllamaClassifier) tagsURL() string {
	base := strings.TrimSuffix(c.endpoint, "/v1/chat/completions")
	return strings.TrimSuffix(base, "/") + "/api/tags"
}

// Classify asks the model to label one utterance. A nil result with a nil
// error means the model produced nothing usable; the caller falls back to
// the lexical tiers.
func (c *OllamaClassifier) Classify(ctx context.Context, utterance string) (*ports.Classification, error) {
	payload := chatCompletionRequest{
		Model: c.modelID,
		Messages: []chatMessage{
			{Role: "system", Content: classifierSystemPrompt()},
			{Role: "user", Content: utterance},
		},
		MaxTokens:   c.maxTokens,
		Temperature: 0,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("content-type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classifier request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("classifier: %s", resp.Status)
	}

	var decoded chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode classifier response: %w", err)
	}

	return c.parseReply(decoded.firstMessage()), nil
}

// parseReply extracts and validates the {action, params} object. Small
// models wrap answers in markdown fences and chatter; tolerate both.
func (c *OllamaClassifier) parseReply(content string) *ports.Classification {
	if content == "" {
		return nil
	}
	content = stripFences(content)

	obj := extractObject(content)
	if obj == "" {
		c.logger.Debug("classifier reply had no JSON object", map[string]interface{}{"reply": content})
		return nil
	}

	var parsed struct {
		Action string       `json:"action"`
		Params domain.Slots `json:"params"`
	}
	if err := json.Unmarshal([]byte(obj), &parsed); err != nil {
		c.logger.Debug("classifier reply unparsable", map[string]interface{}{"reply": obj})
		return nil
	}

	action := domain.Action(strings.ToUpper(strings.TrimSpace(parsed.Action)))
	if !match.KnownLabel(action) {
		c.logger.Debug("classifier suggested unknown action", map[string]interface{}{"action": string(action)})
		return nil
	}

	return &ports.Classification{Action: action, Slots: parsed.Params}
}

func stripFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}
