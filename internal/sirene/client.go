// Package sirene wraps the free-text company search of the national
// business registry API.
package sirene

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"time"

	"github.com/antonholmquist/jason"
	"github.com/google/uuid"

	"github.com/semantika/orgforge/internal/conf"
	"github.com/semantika/orgforge/internal/errors"
	"github.com/semantika/orgforge/internal/logging"
)

// Package-level logger specific to the sirene service
var (
	logger          *slog.Logger
	serviceLevelVar = new(slog.LevelVar)
	closeLogger     func() error
)

func init() {
	var err error
	logFilePath := filepath.Join("logs", "sirene.log")
	serviceLevelVar.Set(slog.LevelDebug)

	logger, closeLogger, err = logging.NewFileLogger(logFilePath, "sirene", serviceLevelVar)
	if err != nil {
		log.Printf("FATAL: Failed to initialize sirene file logger at %s: %v. Service logging disabled.", logFilePath, err)
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: serviceLevelVar})
		logger = slog.New(fbHandler).With("service", "sirene")
		closeLogger = func() error { return nil }
	}
}

// Config holds the registry client configuration.
type Config struct {
	Endpoint string
	PageSize int
	Timeout  time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() Config {
	return Config{
		Endpoint: "https://recherche-entreprises.api.gouv.fr/search",
		PageSize: 10,
		Timeout:  15 * time.Second,
	}
}

// ConfigFromSettings builds a client configuration from the application settings.
func ConfigFromSettings(settings *conf.Settings) Config {
	cfg := DefaultConfig()
	if settings == nil {
		return cfg
	}
	if settings.Registry.Endpoint != "" {
		cfg.Endpoint = settings.Registry.Endpoint
	}
	if settings.Registry.PageSize > 0 {
		cfg.PageSize = settings.Registry.PageSize
	}
	if settings.Registry.Timeout > 0 {
		cfg.Timeout = settings.Registry.Timeout
	}
	return cfg
}

// Company is one ranked record from a registry search.
type Company struct {
	SIREN        string `json:"siren"`
	SIRET        string `json:"siret"` // head-office establishment
	Name         string `json:"name"`
	LegalName    string `json:"legal_name"`
	NAF          string `json:"naf"`
	Street       string `json:"street"`
	PostalCode   string `json:"postal_code"`
	City         string `json:"city"`
	Active       bool   `json:"active"`
	CreationDate string `json:"creation_date"`
}

// Client provides methods for interacting with the registry API.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new registry API client.
func NewClient(config Config) *Client {
	defaults := DefaultConfig()
	if config.Endpoint == "" {
		config.Endpoint = defaults.Endpoint
	}
	if config.PageSize == 0 {
		config.PageSize = defaults.PageSize
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}

	logger.Info("sirene client initialized",
		"endpoint", config.Endpoint,
		"page_size", config.PageSize)

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
			log.Printf("Error closing sirene logger: %v", err)
		}
	}
}

// Search performs a free-text company search and returns ranked records,
// capped at the configured page size. Any failure degrades to an empty
// slice; the error is logged, never surfaced to the caller.
func (c *Client) Search(ctx context.Context, query string) []Company {
	return c.search(ctx, query, c.config.PageSize)
}

// ResolveSiren returns the registry number of the first (most relevant)
// search hit for a name, or "" when nothing matches. This is an approximate
// best-effort name match, not an exact lookup.
func (c *Client) ResolveSiren(ctx context.Context, name string) string {
	hits := c.search(ctx, name, 1)
	if len(hits) == 0 {
		logger.Info("no registry match for name", "name", name)
		return ""
	}
	logger.Info("resolved name to registry number",
		"name", name,
		"siren", hits[0].SIREN,
		"matched_name", hits[0].Name)
	return hits[0].SIREN
}

func (c *Client) search(ctx context.Context, query string, perPage int) []Company {
	reqID := uuid.New().String()[:8]
	searchLogger := logger.With("request_id", reqID, "query", query)
	searchLogger.Info("registry search")

	reqCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	params := url.Values{
		"q":        {query},
		"per_page": {fmt.Sprintf("%d", perPage)},
	}
	fullURL := c.config.Endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, fullURL, http.NoBody)
	if err != nil {
		searchLogger.Error("failed to create registry request", "error", err)
		return []Company{}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		enhancedErr := errors.Newf("HTTP request failed: %w", err).
			Component("sirene").
			Category(errors.CategoryNetwork).
			NetworkContext(fullURL, c.config.Timeout).
			Context("request_id", reqID).
			Build()
		searchLogger.Error("registry search failed", "error", enhancedErr)
		return []Company{}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			searchLogger.Debug("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		searchLogger.Error("registry API error",
			"status_code", resp.StatusCode,
			"duration_ms", time.Since(start).Milliseconds())
		return []Company{}
	}

	obj, err := jason.NewObjectFromReader(resp.Body)
	if err != nil {
		enhancedErr := errors.Newf("failed to parse registry response: %w", err).
			Component("sirene").
			Category(errors.CategoryJSONParsing).
			Context("request_id", reqID).
			Build()
		searchLogger.Error("registry response unreadable", "error", enhancedErr)
		return []Company{}
	}

	hits, err := obj.GetObjectArray("results")
	if err != nil {
		searchLogger.Error("registry response missing 'results' array", "error", err)
		return []Company{}
	}

	companies := make([]Company, 0, len(hits))
	for _, hit := range hits {
		companies = append(companies, decodeCompany(hit))
	}

	searchLogger.Info("registry search completed",
		"results", len(companies),
		"duration_ms", time.Since(start).Milliseconds())
	return companies
}

// decodeCompany extracts one company record. Each field is read
// independently; a missing field stays empty without affecting the rest.
func decodeCompany(hit *jason.Object) Company {
	var company Company

	company.SIREN, _ = hit.GetString("siren")
	company.Name, _ = hit.GetString("nom_complet")
	company.LegalName, _ = hit.GetString("nom_raison_sociale")
	company.NAF, _ = hit.GetString("activite_principale")
	company.CreationDate, _ = hit.GetString("date_creation")

	if etat, err := hit.GetString("etat_administratif"); err == nil {
		company.Active = etat == "A"
	}

	// Head-office details live in a nested object.
	company.SIRET, _ = hit.GetString("siege", "siret")
	company.Street, _ = hit.GetString("siege", "adresse")
	company.PostalCode, _ = hit.GetString("siege", "code_postal")
	company.City, _ = hit.GetString("siege", "commune")

	return company
}
