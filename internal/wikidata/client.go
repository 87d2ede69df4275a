// Package wikidata wraps the public knowledge-base entity API: entity search,
// entity detail with per-property claim extraction, and label lookups.
package wikidata

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"runtime"
	"time"

	"github.com/antonholmquist/jason"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/semantika/orgforge/internal/errors"
	"github.com/semantika/orgforge/internal/logging"
)

// Package-level logger specific to the wikidata service
var (
	logger          *slog.Logger
	serviceLevelVar = new(slog.LevelVar) // Dynamic level control
	closeLogger     func() error
)

func init() {
	var err error
	logFilePath := filepath.Join("logs", "wikidata.log")
	serviceLevelVar.Set(slog.LevelDebug)

	logger, closeLogger, err = logging.NewFileLogger(logFilePath, "wikidata", serviceLevelVar)
	if err != nil {
		log.Printf("FATAL: Failed to initialize wikidata file logger at %s: %v. Service logging disabled.", logFilePath, err)
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: serviceLevelVar})
		logger = slog.New(fbHandler).With("service", "wikidata")
		closeLogger = func() error { return nil }
	}
}

// Client provides methods for interacting with the knowledge-base API.
type Client struct {
	config     Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new knowledge-base API client.
func NewClient(config Config) *Client {
	defaults := DefaultConfig()
	if config.Endpoint == "" {
		config.Endpoint = defaults.Endpoint
	}
	if config.Language == "" {
		config.Language = defaults.Language
	}
	if config.FallbackLanguage == "" {
		config.FallbackLanguage = defaults.FallbackLanguage
	}
	if config.SearchLimit == 0 {
		config.SearchLimit = defaults.SearchLimit
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}
	if config.LabelTimeout == 0 {
		config.LabelTimeout = defaults.LabelTimeout
	}
	if config.RateLimitPerSec == 0 {
		config.RateLimitPerSec = defaults.RateLimitPerSec
	}
	if config.UserAgent == "" {
		config.UserAgent = buildUserAgent()
	}

	client := &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(config.RateLimitPerSec), 2),
	}

	logger.Info("wikidata client initialized",
		"endpoint", config.Endpoint,
		"language", config.Language,
		"fallback_language", config.FallbackLanguage,
		"search_limit", config.SearchLimit,
		"rate_limit_per_sec", config.RateLimitPerSec)

	return client
}

// Close cleans up client resources.
func (c *Client) Close() {
	if closeLogger != nil {
		if err := closeLogger(); err != nil {
			log.Printf("Error closing wikidata logger: %v", err)
		}
	}
}

// buildUserAgent constructs a user-agent string compliant with the Wikimedia
// robot policy: <client>/<version> (<contact>) <library>/<version>.
func buildUserAgent() string {
	return fmt.Sprintf("orgforge/1.0 (https://github.com/semantika/orgforge) Go-HTTP-Client/%s", runtime.Version())
}

// Search queries the entity search endpoint and returns ranked candidates,
// capped at the configured limit. Any failure degrades to an empty slice;
// the error is logged, never surfaced to the caller.
func (c *Client) Search(ctx context.Context, query string) []SearchResult {
	reqID := uuid.New().String()[:8]
	searchLogger := logger.With("request_id", reqID, "query", query)
	searchLogger.Info("knowledge-base search")

	params := url.Values{
		"action":   {"wbsearchentities"},
		"search":   {query},
		"language": {c.config.Language},
		"uselang":  {c.config.Language},
		"format":   {"json"},
		"limit":    {fmt.Sprintf("%d", c.config.SearchLimit)},
		"type":     {"item"},
	}

	resp, err := c.doGet(ctx, reqID, params, c.config.Timeout)
	if err != nil {
		searchLogger.Error("knowledge-base search failed", "error", err)
		return []SearchResult{}
	}

	hits, err := resp.GetObjectArray("search")
	if err != nil {
		searchLogger.Error("knowledge-base search response missing 'search' array", "error", err)
		return []SearchResult{}
	}

	results := make([]SearchResult, 0, len(hits))
	for _, hit := range hits {
		qid, err := hit.GetString("id")
		if err != nil || qid == "" {
			continue
		}
		label, err := hit.GetString("label")
		if err != nil || label == "" {
			label = qid
		}
		// Description is optional on the wire.
		desc, _ := hit.GetString("description")
		results = append(results, SearchResult{QID: qid, Label: label, Description: desc})
	}

	searchLogger.Info("knowledge-base search completed", "results", len(results))
	return results
}

// GetEntity fetches labels, descriptions and claims for one entity. Each
// property is extracted independently; a missing or malformed property
// leaves only its own field empty.
func (c *Client) GetEntity(ctx context.Context, qid string) EntityDetail {
	reqID := uuid.New().String()[:8]
	entityLogger := logger.With("request_id", reqID, "qid", qid)
	entityLogger.Info("knowledge-base entity detail")

	var detail EntityDetail

	params := url.Values{
		"action":    {"wbgetentities"},
		"ids":       {qid},
		"languages": {c.config.Language + "|" + c.config.FallbackLanguage},
		"props":     {"labels|descriptions|claims"},
		"format":    {"json"},
	}

	resp, err := c.doGet(ctx, reqID, params, c.config.Timeout)
	if err != nil {
		entityLogger.Error("knowledge-base entity detail failed", "error", err)
		return detail
	}

	entityObj, err := resp.GetObject("entities", qid)
	if err != nil {
		entityLogger.Error("entity not found in response", "error", err)
		return detail
	}

	detail.LabelFR, _ = entityObj.GetString("labels", c.config.Language, "value")
	detail.LabelEN, _ = entityObj.GetString("labels", c.config.FallbackLanguage, "value")
	detail.DescriptionFR, _ = entityObj.GetString("descriptions", c.config.Language, "value")
	detail.DescriptionEN, _ = entityObj.GetString("descriptions", c.config.FallbackLanguage, "value")

	claims, err := entityObj.GetObject("claims")
	if err != nil {
		entityLogger.Debug("entity carries no claims")
		return detail
	}

	if v, ok := decodeClaimValue(claims, PropertySIREN); ok && v.Kind == claimScalar {
		detail.SIREN = v.Scalar
		entityLogger.Debug("extracted registry number", "siren", detail.SIREN)
	}
	if v, ok := decodeClaimValue(claims, PropertyLEI); ok && v.Kind == claimScalar {
		detail.LEI = v.Scalar
		entityLogger.Debug("extracted legal entity identifier", "lei", detail.LEI)
	}
	if v, ok := decodeClaimValue(claims, PropertyWebsite); ok && v.Kind == claimScalar {
		detail.Website = v.Scalar
		entityLogger.Debug("extracted website", "website", detail.Website)
	}
	if v, ok := decodeClaimValue(claims, PropertyInception); ok && v.Kind == claimScalar {
		detail.FoundingDate = v.Scalar
		entityLogger.Debug("extracted founding date", "founding_date", detail.FoundingDate)
	}

	// Parent signals keep both wire forms: a reference carries the id, a
	// scalar is already the id.
	if v, ok := decodeClaimValue(claims, PropertyParentOrg); ok {
		detail.ParentQID = claimID(v)
		entityLogger.Debug("extracted parent organization", "parent_qid", detail.ParentQID)
	} else {
		entityLogger.Debug("no parent organization claim")
	}
	if v, ok := decodeClaimValue(claims, PropertyOwnedBy); ok {
		detail.OwnedByQID = claimID(v)
		entityLogger.Debug("extracted owned-by", "owned_by_qid", detail.OwnedByQID)
	}

	entityLogger.Info("knowledge-base entity loaded", "label", detail.LabelFR)
	return detail
}

// claimID returns the entity id carried by a claim value of either form.
func claimID(v claimValue) string {
	if v.Kind == claimReference {
		return v.ID
	}
	return v.Scalar
}

// GetLabel returns the display label for an entity id: preferred language
// first, fallback language second, the raw id as last resort. Uses the
// short label timeout.
func (c *Client) GetLabel(ctx context.Context, qid string) string {
	reqID := uuid.New().String()[:8]

	params := url.Values{
		"action":    {"wbgetentities"},
		"ids":       {qid},
		"languages": {c.config.Language + "|" + c.config.FallbackLanguage},
		"props":     {"labels"},
		"format":    {"json"},
	}

	resp, err := c.doGet(ctx, reqID, params, c.config.LabelTimeout)
	if err != nil {
		logger.Warn("label lookup failed, falling back to raw id", "qid", qid, "error", err)
		return qid
	}

	labels, err := resp.GetObject("entities", qid, "labels")
	if err != nil {
		return qid
	}

	if label, err := labels.GetString(c.config.Language, "value"); err == nil && label != "" {
		return label
	}
	if label, err := labels.GetString(c.config.FallbackLanguage, "value"); err == nil && label != "" {
		return label
	}
	return qid
}

// GetRegistryNumber returns the registry-number property of an entity, or ""
// when the property is absent or the lookup fails.
func (c *Client) GetRegistryNumber(ctx context.Context, qid string) string {
	reqID := uuid.New().String()[:8]

	params := url.Values{
		"action": {"wbgetentities"},
		"ids":    {qid},
		"props":  {"claims"},
		"format": {"json"},
	}

	resp, err := c.doGet(ctx, reqID, params, c.config.LabelTimeout)
	if err != nil {
		logger.Warn("registry number lookup failed", "qid", qid, "error", err)
		return ""
	}

	claims, err := resp.GetObject("entities", qid, "claims")
	if err != nil {
		return ""
	}

	if v, ok := decodeClaimValue(claims, PropertySIREN); ok && v.Kind == claimScalar {
		return v.Scalar
	}
	return ""
}

// doGet performs a rate-limited GET against the API and parses the JSON body.
func (c *Client) doGet(ctx context.Context, reqID string, params url.Values, timeout time.Duration) (*jason.Object, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.New(err).
			Component("wikidata").
			Category(errors.CategoryNetwork).
			Context("request_id", reqID).
			Context("operation", "rate_limiter_wait").
			Build()
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fullURL := c.config.Endpoint + "?" + params.Encode()
	start := time.Now()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, fullURL, http.NoBody)
	if err != nil {
		return nil, errors.Newf("failed to create HTTP request: %w", err).
			Component("wikidata").
			Category(errors.CategoryNetwork).
			Context("request_id", reqID).
			Context("url", fullURL).
			Build()
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Newf("HTTP request failed: %w", err).
			Component("wikidata").
			Category(errors.CategoryNetwork).
			NetworkContext(fullURL, timeout).
			Context("request_id", reqID).
			Build()
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Debug("failed to close response body", "error", err)
		}
	}()

	logger.Debug("knowledge-base HTTP response",
		"request_id", reqID,
		"status_code", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.Newf("knowledge-base API error (status %d)", resp.StatusCode).
			Component("wikidata").
			Category(errors.CategoryHTTPResponse).
			Context("request_id", reqID).
			Context("status_code", resp.StatusCode).
			Context("response_preview", string(body)).
			Build()
	}

	obj, err := jason.NewObjectFromReader(resp.Body)
	if err != nil {
		return nil, errors.Newf("failed to parse response: %w", err).
			Component("wikidata").
			Category(errors.CategoryJSONParsing).
			Context("request_id", reqID).
			Build()
	}

	return obj, nil
}
