package wikidata

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEndpoint = "https://wikidata.test/w/api.php"

func newTestClient(t *testing.T) *Client {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	return NewClient(Config{
		Endpoint:        testEndpoint,
		SearchLimit:     12,
		Timeout:         2 * time.Second,
		LabelTimeout:    time.Second,
		RateLimitPerSec: 1000, // keep tests fast
	})
}

func registerResponder(t *testing.T, status int, body string) {
	t.Helper()
	httpmock.RegisterResponder(http.MethodGet, `=~^https://wikidata\.test/w/api\.php`,
		httpmock.NewStringResponder(status, body))
}

func TestSearch_Success(t *testing.T) {
	client := newTestClient(t)
	registerResponder(t, http.StatusOK, `{
		"search": [
			{"id": "Q2110465", "label": "Boursorama", "description": "banque en ligne française"},
			{"id": "Q270618", "label": "Société Générale", "description": "banque française"},
			{"id": "Q99999"}
		]
	}`)

	results := client.Search(context.Background(), "Boursorama")

	require.Len(t, results, 3)
	assert.Equal(t, SearchResult{QID: "Q2110465", Label: "Boursorama", Description: "banque en ligne française"}, results[0])
	assert.Equal(t, "Q270618", results[1].QID)
	// A hit without a label falls back to its id.
	assert.Equal(t, SearchResult{QID: "Q99999", Label: "Q99999"}, results[2])
}

func TestSearch_FailuresDegradeToEmpty(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server_error", http.StatusInternalServerError, `{"error": "boom"}`},
		{"forbidden", http.StatusForbidden, `blocked`},
		{"malformed_json", http.StatusOK, `{not json`},
		{"missing_search_array", http.StatusOK, `{"warnings": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t)
			registerResponder(t, tt.status, tt.body)

			results := client.Search(context.Background(), "Boursorama")

			assert.Empty(t, results)
		})
	}
}

func TestSearch_NetworkErrorDegradesToEmpty(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, `=~^https://wikidata\.test/w/api\.php`,
		httpmock.NewErrorResponder(assert.AnError))

	assert.Empty(t, client.Search(context.Background(), "Boursorama"))
}

func TestGetEntity_FullClaims(t *testing.T) {
	client := newTestClient(t)
	registerResponder(t, http.StatusOK, `{
		"entities": {
			"Q2110465": {
				"labels": {
					"fr": {"value": "Boursorama"},
					"en": {"value": "Boursorama Banque"}
				},
				"descriptions": {
					"fr": {"value": "banque en ligne française"},
					"en": {"value": "French online bank"}
				},
				"claims": {
					"P1616": [{"mainsnak": {"datavalue": {"value": "351058151"}}}],
					"P1278": [{"mainsnak": {"datavalue": {"value": "969500UP76J52A9OXU27"}}}],
					"P856": [{"mainsnak": {"datavalue": {"value": "https://www.boursorama.com"}}}],
					"P571": [{"mainsnak": {"datavalue": {"value": {"time": "+1995-06-01T00:00:00Z"}}}}],
					"P749": [{"mainsnak": {"datavalue": {"value": {"entity-type": "item", "id": "Q270618"}}}}]
				}
			}
		}
	}`)

	detail := client.GetEntity(context.Background(), "Q2110465")

	assert.Equal(t, "Boursorama", detail.LabelFR)
	assert.Equal(t, "Boursorama Banque", detail.LabelEN)
	assert.Equal(t, "banque en ligne française", detail.DescriptionFR)
	assert.Equal(t, "French online bank", detail.DescriptionEN)
	assert.Equal(t, "351058151", detail.SIREN)
	assert.Equal(t, "969500UP76J52A9OXU27", detail.LEI)
	assert.Equal(t, "https://www.boursorama.com", detail.Website)
	assert.Equal(t, "1995-06-01", detail.FoundingDate)
	assert.Equal(t, "Q270618", detail.ParentQID)
	assert.Empty(t, detail.OwnedByQID)
}

func TestGetEntity_ScalarParentForm(t *testing.T) {
	client := newTestClient(t)
	registerResponder(t, http.StatusOK, `{
		"entities": {
			"Q1": {
				"labels": {"fr": {"value": "Filiale"}},
				"claims": {
					"P749": [{"mainsnak": {"datavalue": {"value": "Q270618"}}}],
					"P127": [{"mainsnak": {"datavalue": {"value": {"id": "Q499707"}}}}]
				}
			}
		}
	}`)

	detail := client.GetEntity(context.Background(), "Q1")

	assert.Equal(t, "Q270618", detail.ParentQID, "bare string claim form must decode")
	assert.Equal(t, "Q499707", detail.OwnedByQID, "reference object claim form must decode")
}

func TestGetEntity_MalformedPropertyDoesNotAbortSiblings(t *testing.T) {
	client := newTestClient(t)
	registerResponder(t, http.StatusOK, `{
		"entities": {
			"Q1": {
				"labels": {"fr": {"value": "Acme"}},
				"claims": {
					"P1616": [{"mainsnak": {}}],
					"P856": [{"mainsnak": {"datavalue": {"value": "https://acme.example"}}}],
					"P571": [{"mainsnak": {"datavalue": {"value": {"unexpected": true}}}}]
				}
			}
		}
	}`)

	detail := client.GetEntity(context.Background(), "Q1")

	assert.Empty(t, detail.SIREN, "malformed claim yields empty value")
	assert.Empty(t, detail.FoundingDate)
	assert.Equal(t, "https://acme.example", detail.Website, "sibling properties still populate")
	assert.Equal(t, "Acme", detail.LabelFR)
}

func TestGetEntity_TransportFailure(t *testing.T) {
	client := newTestClient(t)
	registerResponder(t, http.StatusServiceUnavailable, ``)

	detail := client.GetEntity(context.Background(), "Q1")

	assert.Equal(t, EntityDetail{}, detail)
}

func TestGetLabel_LanguageFallback(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			"preferred_language",
			`{"entities": {"Q270618": {"labels": {"fr": {"value": "Société Générale"}, "en": {"value": "Societe Generale"}}}}}`,
			"Société Générale",
		},
		{
			"fallback_language",
			`{"entities": {"Q270618": {"labels": {"en": {"value": "Societe Generale"}}}}}`,
			"Societe Generale",
		},
		{
			"raw_id_last_resort",
			`{"entities": {"Q270618": {"labels": {}}}}`,
			"Q270618",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t)
			registerResponder(t, http.StatusOK, tt.body)

			assert.Equal(t, tt.want, client.GetLabel(context.Background(), "Q270618"))
		})
	}
}

func TestGetLabel_FailureFallsBackToID(t *testing.T) {
	client := newTestClient(t)
	registerResponder(t, http.StatusBadGateway, ``)

	assert.Equal(t, "Q270618", client.GetLabel(context.Background(), "Q270618"))
}

func TestGetRegistryNumber(t *testing.T) {
	client := newTestClient(t)
	registerResponder(t, http.StatusOK, `{
		"entities": {
			"Q270618": {
				"claims": {
					"P1616": [{"mainsnak": {"datavalue": {"value": "552120222"}}}]
				}
			}
		}
	}`)

	assert.Equal(t, "552120222", client.GetRegistryNumber(context.Background(), "Q270618"))
}

func TestGetRegistryNumber_Absent(t *testing.T) {
	client := newTestClient(t)
	registerResponder(t, http.StatusOK, `{"entities": {"Q270618": {"claims": {}}}}`)

	assert.Empty(t, client.GetRegistryNumber(context.Background(), "Q270618"))
}

func TestFormatClaimTime(t *testing.T) {
	assert.Equal(t, "1995-06-01", formatClaimTime("+1995-06-01T00:00:00Z"))
	assert.Equal(t, "2004-05-12", formatClaimTime("2004-05-12T00:00:00Z"))
	assert.Equal(t, "1995", formatClaimTime("+1995"))
}
