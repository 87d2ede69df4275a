package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semantika/orgforge/internal/entity"
	"github.com/semantika/orgforge/internal/mistral"
	"github.com/semantika/orgforge/internal/wikidata"
)

// fakeKB is an in-memory knowledge base keyed by entity id.
type fakeKB struct {
	entities    map[string]wikidata.EntityDetail
	labels      map[string]string
	sirens      map[string]string
	searchHits  map[string][]wikidata.SearchResult
	entityCalls int
}

func (f *fakeKB) Search(_ context.Context, query string) []wikidata.SearchResult {
	return f.searchHits[query]
}

func (f *fakeKB) GetEntity(_ context.Context, qid string) wikidata.EntityDetail {
	f.entityCalls++
	return f.entities[qid]
}

func (f *fakeKB) GetLabel(_ context.Context, qid string) string {
	if label, ok := f.labels[qid]; ok {
		return label
	}
	return qid
}

func (f *fakeKB) GetRegistryNumber(_ context.Context, qid string) string {
	return f.sirens[qid]
}

type fakeRegistry struct {
	byName map[string]string
	calls  int
}

func (f *fakeRegistry) ResolveSiren(_ context.Context, name string) string {
	f.calls++
	return f.byName[name]
}

type fakeAssistant struct {
	enrichment *mistral.Enrichment
	calls      int
}

func (f *fakeAssistant) Enrich(_ context.Context, _ mistral.Facts) *mistral.Enrichment {
	f.calls++
	return f.enrichment
}

func TestResolveParentOrganizationClaim(t *testing.T) {
	kb := &fakeKB{
		entities: map[string]wikidata.EntityDetail{
			"Q2110465": {ParentQID: "Q270618"},
		},
		labels: map[string]string{"Q270618": "Société Générale"},
		sirens: map[string]string{"Q270618": "552120222"},
	}
	r := New(kb, &fakeRegistry{}, nil)

	record := entity.NewRecord()
	record.Name = "Boursorama"
	record.QID = "Q2110465"

	require.NoError(t, r.Resolve(context.Background(), record))
	assert.Equal(t, "Société Générale", record.ParentOrgName)
	assert.Equal(t, "Q270618", record.ParentOrgQID)
	assert.Equal(t, entity.SourceParentOrg, record.ParentOrgSource)
	assert.Equal(t, "552120222", record.ParentOrgSIREN)
}

func TestResolveOwnedByFallback(t *testing.T) {
	kb := &fakeKB{
		entities: map[string]wikidata.EntityDetail{
			"Q1": {OwnedByQID: "Q499707"},
		},
		labels: map[string]string{"Q499707": "BNP Paribas"},
	}
	registry := &fakeRegistry{byName: map[string]string{"BNP Paribas": "662042449"}}
	r := New(kb, registry, nil)

	record := entity.NewRecord()
	record.Name = "BNP Paribas Suisse"
	record.QID = "Q1"

	require.NoError(t, r.Resolve(context.Background(), record))
	assert.Equal(t, "BNP Paribas", record.ParentOrgName)
	assert.Equal(t, entity.SourceOwnedBy, record.ParentOrgSource)
	assert.Equal(t, "662042449", record.ParentOrgSIREN, "registry fallback when claims carry no siren")
}

func TestResolveParentOrgClaimWinsOverOwnedBy(t *testing.T) {
	kb := &fakeKB{
		entities: map[string]wikidata.EntityDetail{
			"Q1": {ParentQID: "Q2", OwnedByQID: "Q3"},
		},
		labels: map[string]string{"Q2": "Parent", "Q3": "Owner"},
	}
	r := New(kb, nil, nil)

	record := entity.NewRecord()
	record.QID = "Q1"

	require.NoError(t, r.Resolve(context.Background(), record))
	assert.Equal(t, "Q2", record.ParentOrgQID)
	assert.Equal(t, entity.SourceParentOrg, record.ParentOrgSource)
}

func TestResolveNoClaimsLeavesLinkageEmpty(t *testing.T) {
	kb := &fakeKB{entities: map[string]wikidata.EntityDetail{"Q1": {}}}
	r := New(kb, nil, nil)

	record := entity.NewRecord()
	record.QID = "Q1"

	require.NoError(t, r.Resolve(context.Background(), record))
	assert.Empty(t, record.ParentOrgName)
	assert.Empty(t, record.ParentOrgSource)
}

func TestResolveWithoutQIDIsNoOp(t *testing.T) {
	kb := &fakeKB{}
	r := New(kb, nil, nil)

	record := entity.NewRecord()
	record.Name = "Nameless SA"

	require.NoError(t, r.Resolve(context.Background(), record))
	assert.Zero(t, kb.entityCalls)
	assert.Empty(t, record.ParentOrgSource)
}

func TestResolveDoesNotClobberExistingProvenance(t *testing.T) {
	kb := &fakeKB{
		entities: map[string]wikidata.EntityDetail{"Q1": {ParentQID: "Q9"}},
		labels:   map[string]string{"Q9": "Other Parent"},
	}
	r := New(kb, nil, nil)

	record := entity.NewRecord()
	record.QID = "Q1"
	require.NoError(t, record.SetParent("Kept Parent", "Q5", entity.SourceAssistant))

	require.NoError(t, r.Resolve(context.Background(), record))
	assert.Equal(t, "Kept Parent", record.ParentOrgName)
	assert.Equal(t, entity.SourceAssistant, record.ParentOrgSource)
	assert.Zero(t, kb.entityCalls)
}

func TestResolveWithAssistantGuess(t *testing.T) {
	kb := &fakeKB{
		entities: map[string]wikidata.EntityDetail{"Q1": {}},
		labels:   map[string]string{"Q270618": "Société Générale"},
	}
	assistant := &fakeAssistant{enrichment: &mistral.Enrichment{
		ParentOrgName: "Société Générale",
		ParentOrgQID:  "Q270618",
	}}
	r := New(kb, &fakeRegistry{}, assistant)

	record := entity.NewRecord()
	record.Name = "Boursorama"
	record.QID = "Q1"

	require.NoError(t, r.ResolveWithAssistant(context.Background(), record))
	assert.Equal(t, "Société Générale", record.ParentOrgName)
	assert.Equal(t, "Q270618", record.ParentOrgQID)
	assert.Equal(t, entity.SourceAssistant, record.ParentOrgSource)
}

func TestResolveWithAssistantNameOnlyCompletesViaSearch(t *testing.T) {
	kb := &fakeKB{
		entities: map[string]wikidata.EntityDetail{"Q1": {}},
		searchHits: map[string][]wikidata.SearchResult{
			"Crédit Agricole": {{QID: "Q590952", Label: "Crédit Agricole"}},
		},
	}
	assistant := &fakeAssistant{enrichment: &mistral.Enrichment{ParentOrgName: "Crédit Agricole"}}
	r := New(kb, nil, assistant)

	record := entity.NewRecord()
	record.QID = "Q1"

	require.NoError(t, r.ResolveWithAssistant(context.Background(), record))
	assert.Equal(t, "Crédit Agricole", record.ParentOrgName)
	assert.Equal(t, "Q590952", record.ParentOrgQID)
	assert.Equal(t, entity.SourceAssistant, record.ParentOrgSource)
}

func TestResolveWithAssistantNameOnlyNoSearchHit(t *testing.T) {
	kb := &fakeKB{entities: map[string]wikidata.EntityDetail{"Q1": {}}}
	assistant := &fakeAssistant{enrichment: &mistral.Enrichment{ParentOrgName: "Obscure Holding"}}
	r := New(kb, nil, assistant)

	record := entity.NewRecord()
	record.QID = "Q1"

	require.NoError(t, r.ResolveWithAssistant(context.Background(), record))
	assert.Equal(t, "Obscure Holding", record.ParentOrgName)
	assert.Empty(t, record.ParentOrgQID)
	assert.Equal(t, entity.SourceAssistant, record.ParentOrgSource)
}

func TestResolveWithAssistantClaimsTakePriority(t *testing.T) {
	kb := &fakeKB{
		entities: map[string]wikidata.EntityDetail{"Q1": {ParentQID: "Q2"}},
		labels:   map[string]string{"Q2": "Claimed Parent"},
	}
	assistant := &fakeAssistant{enrichment: &mistral.Enrichment{ParentOrgName: "Guessed Parent"}}
	r := New(kb, nil, assistant)

	record := entity.NewRecord()
	record.QID = "Q1"

	require.NoError(t, r.ResolveWithAssistant(context.Background(), record))
	assert.Equal(t, "Claimed Parent", record.ParentOrgName)
	assert.Equal(t, entity.SourceParentOrg, record.ParentOrgSource)
	assert.Zero(t, assistant.calls, "assistant not consulted when claims answer")
}

func TestResolveWithAssistantNilEnrichment(t *testing.T) {
	kb := &fakeKB{entities: map[string]wikidata.EntityDetail{"Q1": {}}}
	assistant := &fakeAssistant{}
	r := New(kb, nil, assistant)

	record := entity.NewRecord()
	record.QID = "Q1"

	require.NoError(t, r.ResolveWithAssistant(context.Background(), record))
	assert.Empty(t, record.ParentOrgSource)
	assert.Equal(t, 1, assistant.calls)
}

func TestResolveIsIdempotent(t *testing.T) {
	kb := &fakeKB{
		entities: map[string]wikidata.EntityDetail{"Q1": {ParentQID: "Q2"}},
		labels:   map[string]string{"Q2": "Parent"},
		sirens:   map[string]string{"Q2": "123456789"},
	}
	r := New(kb, nil, nil)

	record := entity.NewRecord()
	record.QID = "Q1"

	require.NoError(t, r.Resolve(context.Background(), record))
	first := *record
	require.NoError(t, r.Resolve(context.Background(), record))
	assert.Equal(t, first, *record)
	assert.Equal(t, 1, kb.entityCalls, "second pass short-circuits on provenance")
}
