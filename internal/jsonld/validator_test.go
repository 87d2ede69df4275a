package jsonld

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semantika/orgforge/internal/entity"
)

func TestValidateEmptyDocument(t *testing.T) {
	findings := Validate(&Document{})

	require.Len(t, findings, 8)
	wantKeys := []string{"name", "@type", "@context", "url", "logo", "sameAs", "description", "address"}
	for i, want := range wantKeys {
		assert.Equal(t, want, findings[i].Key)
	}
	assert.Len(t, Errors(findings), 3)
	assert.Len(t, Warnings(findings), 5)
}

func TestValidateNameOnlyRecord(t *testing.T) {
	record := entity.NewRecord()
	record.Name = "Acme"
	record.AreaServed = ""
	doc := Build(record, nil)

	findings := Validate(doc)
	assert.Empty(t, Errors(findings), "builder always supplies context and type")
	require.Len(t, Warnings(findings), 5)
	assert.Equal(t, "url", findings[0].Key)
	assert.Equal(t, "address", findings[4].Key)
}

func TestValidateErrorsPrecedeWarnings(t *testing.T) {
	doc := &Document{Name: "Acme"}
	findings := Validate(doc)

	require.NotEmpty(t, findings)
	seenWarning := false
	for _, f := range findings {
		if f.Severity == SeverityWarning {
			seenWarning = true
		}
		if seenWarning {
			assert.Equal(t, SeverityWarning, f.Severity, "no error after the first warning")
		}
	}
}

func TestValidateFullyPopulatedDocumentIsClean(t *testing.T) {
	record := entity.NewRecord()
	record.Name = "Boursorama"
	record.QID = "Q2110465"
	record.Website = "https://www.boursobank.com"
	record.LogoURL = "https://www.boursobank.com/logo.png"
	record.DescriptionFR = "Banque en ligne."
	record.Street = "44 rue Traversière"
	record.City = "Boulogne-Billancourt"

	findings := Validate(Build(record, &entity.SocialLinks{}))
	assert.Empty(t, findings)
}

func TestValidateNilDocument(t *testing.T) {
	findings := Validate(nil)
	assert.Len(t, findings, 8)
}
