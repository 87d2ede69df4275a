package jsonld

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semantika/orgforge/internal/entity"
)

func TestBuildMinimalSirenOnly(t *testing.T) {
	record := &entity.Record{
		Name:    "Acme",
		OrgType: entity.TypeCorporation,
		SIREN:   "123456789",
	}

	doc := Build(record, nil)
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	want := `{"@context":"https://schema.org","@type":"Corporation","name":"Acme",` +
		`"taxID":"FR123456789","vatID":"FR123456789","iso6523Code":"0002:123456789",` +
		`"identifier":[{"@type":"PropertyValue","propertyID":"SIREN","value":"123456789"}]}`
	assert.JSONEq(t, want, string(raw))
}

func TestBuildOmitsEmptyKeys(t *testing.T) {
	record := entity.NewRecord()
	record.Name = "Acme"
	record.AreaServed = ""

	raw, err := json.Marshal(Build(record, &entity.SocialLinks{}))
	require.NoError(t, err)

	var keys map[string]any
	require.NoError(t, json.Unmarshal(raw, &keys))
	assert.NotContains(t, keys, "url")
	assert.NotContains(t, keys, "@id")
	assert.NotContains(t, keys, "sameAs")
	assert.NotContains(t, keys, "identifier")
	assert.NotContains(t, keys, "parentOrganization")
	assert.NotContains(t, keys, "logo")
}

func TestBuildWebsiteID(t *testing.T) {
	tests := []struct {
		website string
		wantID  string
	}{
		{"https://acme.example", "https://acme.example/#organization"},
		{"https://acme.example/", "https://acme.example/#organization"},
		{"https://acme.example//", "https://acme.example/#organization"},
	}

	for _, tt := range tests {
		record := entity.NewRecord()
		record.Name = "Acme"
		record.Website = tt.website

		doc := Build(record, nil)
		assert.Equal(t, tt.wantID, doc.ID)
		assert.Equal(t, tt.website, doc.URL, "url stays verbatim")
	}
}

func TestBuildAlternateNamesSplit(t *testing.T) {
	record := entity.NewRecord()
	record.Name = "BoursoBank"
	record.AlternateNames = "BoursoBank,  Bourso ,"

	doc := Build(record, nil)
	assert.Equal(t, []string{"BoursoBank", "Bourso"}, doc.AlternateName)
}

func TestBuildSameAsOrder(t *testing.T) {
	record := entity.NewRecord()
	record.Name = "Acme"
	record.QID = "Q42"
	links := &entity.SocialLinks{
		LinkedIn:  "https://linkedin.com/company/acme",
		Wikipedia: "https://fr.wikipedia.org/wiki/Acme",
		YouTube:   "https://youtube.com/@acme",
	}

	doc := Build(record, links)
	assert.Equal(t, []string{
		"https://www.wikidata.org/wiki/Q42",
		"https://fr.wikipedia.org/wiki/Acme",
		"https://linkedin.com/company/acme",
		"https://youtube.com/@acme",
	}, doc.SameAs)
}

func TestBuildIdentifierOrder(t *testing.T) {
	record := entity.NewRecord()
	record.Name = "Acme"
	record.SIREN = "123456789"
	record.SIRET = "12345678900011"
	record.LEI = "969500TJ5KRTCJQWXH05"

	doc := Build(record, nil)
	require.Len(t, doc.Identifier, 3)
	assert.Equal(t, "SIREN", doc.Identifier[0].PropertyID)
	assert.Equal(t, "SIRET", doc.Identifier[1].PropertyID)
	assert.Equal(t, "LEI", doc.Identifier[2].PropertyID)
}

func TestBuildAddressKeepsBlankSubFields(t *testing.T) {
	record := entity.NewRecord()
	record.Name = "Acme"
	record.City = "Paris"

	raw, err := json.Marshal(Build(record, nil))
	require.NoError(t, err)

	var keys map[string]any
	require.NoError(t, json.Unmarshal(raw, &keys))
	address, ok := keys["address"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "", address["streetAddress"], "blank sub-fields stay present inside address")
	assert.Equal(t, "", address["postalCode"])
	assert.Equal(t, "Paris", address["addressLocality"])
}

func TestBuildNoAddressWithoutStreetOrCity(t *testing.T) {
	record := entity.NewRecord()
	record.Name = "Acme"
	record.PostalCode = "75001"

	doc := Build(record, nil)
	assert.Nil(t, doc.Address, "postal code alone does not trigger the address object")
}

func TestBuildParentOrganization(t *testing.T) {
	record := entity.NewRecord()
	record.Name = "Boursorama"
	require.NoError(t, record.SetParent("Société Générale", "Q270618", entity.SourceParentOrg))
	require.NoError(t, record.SetParentSIREN("552120222"))

	doc := Build(record, nil)
	require.NotNil(t, doc.ParentOrganization)
	assert.Equal(t, "Organization", doc.ParentOrganization.Type)
	assert.Equal(t, "Société Générale", doc.ParentOrganization.Name)
	assert.Equal(t, "https://www.wikidata.org/wiki/Q270618", doc.ParentOrganization.SameAs)
	assert.Equal(t, "FR552120222", doc.ParentOrganization.TaxID)
}

func TestBuildAggregateRatingNeedsBothFields(t *testing.T) {
	record := entity.NewRecord()
	record.Name = "Acme"
	record.RatingValue = "4.6"

	assert.Nil(t, Build(record, nil).AggregateRating)

	record.ReviewCount = "1287"
	rating := Build(record, nil).AggregateRating
	require.NotNil(t, rating)
	assert.Equal(t, "5", rating.BestRating)
	assert.Equal(t, "1", rating.WorstRating)
}

func TestBuildPotentialAction(t *testing.T) {
	record := entity.NewRecord()
	record.Name = "Acme"
	record.SearchURLTemplate = "https://acme.example/search?q={search_term_string}"

	action := Build(record, nil).PotentialAction
	require.NotNil(t, action)
	assert.Equal(t, "SearchAction", action.Type)
	assert.Equal(t, record.SearchURLTemplate, action.Target.URLTemplate)
	assert.Equal(t, "required name=search_term_string", action.QueryInput)
}

func TestBuildIsDeterministic(t *testing.T) {
	record := entity.NewRecord()
	record.Name = "Boursorama"
	record.QID = "Q2110465"
	record.SIREN = "351058151"
	record.Website = "https://www.boursobank.com"
	record.ExpertiseFR = "banque en ligne, courtage"
	links := &entity.SocialLinks{LinkedIn: "https://linkedin.com/company/boursorama"}

	first, err := json.Marshal(Build(record, links))
	require.NoError(t, err)
	second, err := json.Marshal(Build(record, links))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestBuildRoundTripIdentityFields(t *testing.T) {
	record := entity.NewRecord()
	record.Name = "Acme"
	record.LegalName = "Acme SA"
	record.DescriptionFR = "Fabricant d'enclumes."
	record.Slogan = "Tout pour le coyote"
	record.Website = "https://acme.example"
	record.FoundingDate = "1951-03-01"

	doc := Build(record, nil)
	assert.Equal(t, record.Name, doc.Name)
	assert.Equal(t, record.LegalName, doc.LegalName)
	assert.Equal(t, record.DescriptionFR, doc.Description)
	assert.Equal(t, record.Slogan, doc.Slogan)
	assert.Equal(t, record.Website, doc.URL)
	assert.Equal(t, record.FoundingDate, doc.FoundingDate)
}
