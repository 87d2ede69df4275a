// Package mistral wraps the chat-completion endpoint used as the fallback
// enrichment source: SEO copy, expertise tags, a slogan and a low-confidence
// parent-organization guess.
package mistral

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/antonholmquist/jason"
	"github.com/google/uuid"

	"github.com/semantika/orgforge/internal/conf"
	"github.com/semantika/orgforge/internal/errors"
	"github.com/semantika/orgforge/internal/logging"
)

// Package-level logger specific to the mistral service
var (
	logger          *slog.Logger
	serviceLevelVar = new(slog.LevelVar)
	closeLogger     func() error
)

func init() {
	var err error
	logFilePath := filepath.Join("logs", "mistral.log")
	serviceLevelVar.Set(slog.LevelDebug)

	logger, closeLogger, err = logging.NewFileLogger(logFilePath, "mistral", serviceLevelVar)
	if err != nil {
		log.Printf("FATAL: Failed to initialize mistral file logger at %s: %v. Service logging disabled.", logFilePath, err)
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: serviceLevelVar})
		logger = slog.New(fbHandler).With("service", "mistral")
		closeLogger = func() error { return nil }
	}
}

// Config holds the assistant client configuration.
type Config struct {
	Endpoint    string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() Config {
	return Config{
		Endpoint:    "https://api.mistral.ai/v1/chat/completions",
		Model:       "mistral-small-latest",
		Temperature: 0.2,
		Timeout:     30 * time.Second,
	}
}

// ConfigFromSettings builds a client configuration from the application settings.
func ConfigFromSettings(settings *conf.Settings) Config {
	cfg := DefaultConfig()
	if settings == nil {
		return cfg
	}
	if settings.Mistral.Endpoint != "" {
		cfg.Endpoint = settings.Mistral.Endpoint
	}
	cfg.APIKey = settings.Mistral.APIKey
	if settings.Mistral.Model != "" {
		cfg.Model = settings.Mistral.Model
	}
	if settings.Mistral.Temperature > 0 {
		cfg.Temperature = settings.Mistral.Temperature
	}
	if settings.Mistral.Timeout > 0 {
		cfg.Timeout = settings.Mistral.Timeout
	}
	return cfg
}

// Facts are the known identity facts the prompt is built from.
type Facts struct {
	Name  string
	SIREN string
	QID   string
}

// Enrichment is the parsed constrained-JSON completion. An empty
// ParentOrgName/ParentOrgQID means "no known parent".
type Enrichment struct {
	DescriptionFR string `json:"description_fr"`
	DescriptionEN string `json:"description_en"`
	ExpertiseFR   string `json:"expertise_fr"`
	ExpertiseEN   string `json:"expertise_en"`
	Slogan        string `json:"slogan"`
	ParentOrgName string `json:"parent_org_name"`
	ParentOrgQID  string `json:"parent_org_qid"`
}

// Client provides the chat-completion enrichment call.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new assistant client. An empty API key is allowed;
// Enrich then becomes a local no-op.
func NewClient(config Config) *Client {
	defaults := DefaultConfig()
	if config.Endpoint == "" {
		config.Endpoint = defaults.Endpoint
	}
	if config.Model == "" {
		config.Model = defaults.Model
	}
	if config.Temperature == 0 {
		config.Temperature = defaults.Temperature
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}

	logger.Info("mistral client initialized",
		"endpoint", config.Endpoint,
		"model", config.Model,
		"temperature", config.Temperature,
		"api_key_configured", config.APIKey != "")

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Close cleans up client resources.
func (c *Client) Close() {
	if closeLogger != nil {
		if err := closeLogger(); err != nil {
			log.Printf("Error closing mistral logger: %v", err)
		}
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.config.APIKey != ""
}

// buildPrompt renders the deterministic single-turn prompt. The worked
// parent/subsidiary examples are advisory context to bias the model toward
// verifiable answers; the output is still treated as the lowest-confidence
// source.
func buildPrompt(facts Facts) string {
	siren := facts.SIREN
	if siren == "" {
		siren = "N/A"
	}
	qid := facts.QID
	if qid == "" {
		qid = "N/A"
	}

	return fmt.Sprintf(`Expert SEO. Analyse cette entreprise française:
NOM: %s
SIREN: %s
QID: %s

Exemples de filiations vérifiées:
- Boursorama → Société Générale (Q270618)
- BNP Paribas Suisse → BNP Paribas (Q499707)

Génère en JSON:
- description_fr: Description SEO (150-200 car)
- description_en: English translation
- expertise_fr: 3-5 domaines (virgules)
- expertise_en: English translation
- slogan: Slogan court
- parent_org_name: Maison mère (null si indépendant/inconnu)
- parent_org_qid: QID Wikidata du parent (Qxxxxx ou null)

RÉPONDS UNIQUEMENT EN JSON VALIDE:`, facts.Name, siren, qid)
}

// chatRequest is the completion request body.
type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat responseFmt   `json:"response_format"`
	Temperature    float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFmt struct {
	Type string `json:"type"`
}

// Enrich sends the structured prompt and parses the constrained JSON
// response. Returns nil when no API key is configured (local no-op, no
// network call) and nil on any transport or parse failure.
func (c *Client) Enrich(ctx context.Context, facts Facts) *Enrichment {
	if !c.Enabled() {
		logger.Debug("no API key configured, skipping enrichment")
		return nil
	}

	reqID := uuid.New().String()[:8]
	enrichLogger := logger.With("request_id", reqID, "name", facts.Name)
	enrichLogger.Info("requesting completion enrichment")

	body, err := json.Marshal(chatRequest{
		Model:          c.config.Model,
		Messages:       []chatMessage{{Role: "user", Content: buildPrompt(facts)}},
		ResponseFormat: responseFmt{Type: "json_object"},
		Temperature:    c.config.Temperature,
	})
	if err != nil {
		enrichLogger.Error("failed to marshal completion request", "error", err)
		return nil
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		enrichLogger.Error("failed to create completion request", "error", err)
		return nil
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		enhancedErr := errors.Newf("completion request failed: %w", err).
			Component("mistral").
			Category(errors.CategoryLLM).
			NetworkContext(c.config.Endpoint, c.config.Timeout).
			Context("request_id", reqID).
			Build()
		enrichLogger.Error("completion request failed", "error", enhancedErr)
		return nil
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			enrichLogger.Debug("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		preview, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		enrichLogger.Error("completion API error",
			"status_code", resp.StatusCode,
			"response_preview", string(preview))
		return nil
	}

	obj, err := jason.NewObjectFromReader(resp.Body)
	if err != nil {
		enrichLogger.Error("failed to parse completion envelope", "error", err)
		return nil
	}

	choices, err := obj.GetObjectArray("choices")
	if err != nil || len(choices) == 0 {
		enrichLogger.Error("completion response has no choices", "error", err)
		return nil
	}

	content, err := choices[0].GetString("message", "content")
	if err != nil {
		enrichLogger.Error("completion choice has no content", "error", err)
		return nil
	}

	enrichment, err := parseEnrichment(content)
	if err != nil {
		enhancedErr := errors.Newf("completion content is not the expected JSON: %w", err).
			Component("mistral").
			Category(errors.CategoryJSONParsing).
			Context("request_id", reqID).
			Build()
		enrichLogger.Error("unusable completion content", "error", enhancedErr)
		return nil
	}

	enrichLogger.Info("completion enrichment parsed",
		"has_parent_guess", enrichment.ParentOrgName != "",
		"duration_ms", time.Since(start).Milliseconds())
	return enrichment
}

// parseEnrichment decodes the constrained JSON content. JSON null values and
// the literal strings "null"/"N/A" both mean "not known" and collapse to "".
func parseEnrichment(content string) (*Enrichment, error) {
	obj, err := jason.NewObjectFromBytes([]byte(content))
	if err != nil {
		return nil, err
	}

	e := &Enrichment{}
	e.DescriptionFR = stringField(obj, "description_fr")
	e.DescriptionEN = stringField(obj, "description_en")
	e.ExpertiseFR = stringField(obj, "expertise_fr")
	e.ExpertiseEN = stringField(obj, "expertise_en")
	e.Slogan = stringField(obj, "slogan")
	e.ParentOrgName = stringField(obj, "parent_org_name")
	e.ParentOrgQID = stringField(obj, "parent_org_qid")
	return e, nil
}

// stringField reads an optional string field; null, absent or
// null-equivalent literal values collapse to "".
func stringField(obj *jason.Object, key string) string {
	value, err := obj.GetString(key)
	if err != nil {
		return ""
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "null", "none", "n/a":
		return ""
	}
	return strings.TrimSpace(value)
}
