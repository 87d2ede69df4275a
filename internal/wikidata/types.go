package wikidata

import (
	"strings"
	"time"

	"github.com/antonholmquist/jason"

	"github.com/semantika/orgforge/internal/conf"
)

// Wikidata property codes consumed by the profiler.
const (
	PropertySIREN     = "P1616" // national registry number
	PropertyLEI       = "P1278" // legal entity identifier
	PropertyWebsite   = "P856"  // official website
	PropertyInception = "P571"  // founding date
	PropertyParentOrg = "P749"  // parent organization
	PropertyOwnedBy   = "P127"  // owned by, fallback parent signal
)

// Config holds the knowledge-base client configuration.
type Config struct {
	Endpoint         string
	Language         string
	FallbackLanguage string
	SearchLimit      int
	Timeout          time.Duration
	LabelTimeout     time.Duration
	RateLimitPerSec  float64
	UserAgent        string
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() Config {
	return Config{
		Endpoint:         "https://www.wikidata.org/w/api.php",
		Language:         "fr",
		FallbackLanguage: "en",
		SearchLimit:      12,
		Timeout:          20 * time.Second,
		LabelTimeout:     10 * time.Second,
		RateLimitPerSec:  2,
	}
}

// ConfigFromSettings builds a client configuration from the application settings.
func ConfigFromSettings(settings *conf.Settings) Config {
	cfg := DefaultConfig()
	if settings == nil {
		return cfg
	}
	if settings.Wikidata.Endpoint != "" {
		cfg.Endpoint = settings.Wikidata.Endpoint
	}
	if settings.Wikidata.Language != "" {
		cfg.Language = settings.Wikidata.Language
	}
	if settings.Wikidata.FallbackLanguage != "" {
		cfg.FallbackLanguage = settings.Wikidata.FallbackLanguage
	}
	if settings.Wikidata.SearchLimit > 0 {
		cfg.SearchLimit = settings.Wikidata.SearchLimit
	}
	if settings.Wikidata.Timeout > 0 {
		cfg.Timeout = settings.Wikidata.Timeout
	}
	if settings.Wikidata.LabelTimeout > 0 {
		cfg.LabelTimeout = settings.Wikidata.LabelTimeout
	}
	if settings.Wikidata.RateLimitPerSec > 0 {
		cfg.RateLimitPerSec = settings.Wikidata.RateLimitPerSec
	}
	return cfg
}

// SearchResult is one ranked candidate from an entity search.
type SearchResult struct {
	QID         string `json:"qid"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// EntityDetail carries the labels, descriptions and extracted properties of
// one entity. Extraction is per-property defensive: any field may be empty
// while its siblings are populated.
type EntityDetail struct {
	LabelFR       string `json:"label_fr"`
	LabelEN       string `json:"label_en"`
	DescriptionFR string `json:"description_fr"`
	DescriptionEN string `json:"description_en"`
	SIREN         string `json:"siren"`
	LEI           string `json:"lei"`
	Website       string `json:"website"`
	FoundingDate  string `json:"founding_date"`
	ParentQID     string `json:"parent_qid"`
	OwnedByQID    string `json:"owned_by_qid"`
}

// claimKind tags the two shapes a claim value can take on the wire.
type claimKind int

const (
	claimScalar claimKind = iota
	claimReference
)

// claimValue is the decoded form of a claim's mainsnak datavalue. A value is
// either a bare scalar (external ids, URLs, dates) or a reference object
// carrying the id of another entity. The union is resolved here at the
// boundary, never by type sniffing in business logic.
type claimValue struct {
	Kind   claimKind
	Scalar string
	ID     string
}

// decodeClaimValue extracts the first statement's value for one property.
// Missing keys or unexpected shapes yield ok=false without affecting other
// properties.
func decodeClaimValue(claims *jason.Object, property string) (claimValue, bool) {
	statements, err := claims.GetObjectArray(property)
	if err != nil || len(statements) == 0 {
		return claimValue{}, false
	}

	value, err := statements[0].GetValue("mainsnak", "datavalue", "value")
	if err != nil {
		return claimValue{}, false
	}

	// Bare scalar form: external identifiers, URLs.
	if s, err := value.String(); err == nil {
		return claimValue{Kind: claimScalar, Scalar: s}, true
	}

	obj, err := value.Object()
	if err != nil {
		return claimValue{}, false
	}

	// Reference form: an object carrying the id of another entity.
	if id, err := obj.GetString("id"); err == nil && id != "" {
		return claimValue{Kind: claimReference, ID: id}, true
	}

	// Time form: fold into a scalar ISO date.
	if t, err := obj.GetString("time"); err == nil && t != "" {
		return claimValue{Kind: claimScalar, Scalar: formatClaimTime(t)}, true
	}

	return claimValue{}, false
}

// formatClaimTime converts a Wikidata time value ("+1995-06-01T00:00:00Z")
// to an ISO date (1995-06-01).
func formatClaimTime(value string) string {
	value = strings.TrimPrefix(value, "+")
	if idx := strings.IndexByte(value, 'T'); idx > 0 {
		value = value[:idx]
	}
	return value
}
