package jsonld

import (
	"strings"

	"github.com/semantika/orgforge/internal/entity"
)

// WikidataEntityURL is the canonical knowledge-graph page prefix used for
// sameAs entries.
const WikidataEntityURL = "https://www.wikidata.org/wiki/"

// Build renders the record and social links into a Document. Pure and
// deterministic: the same inputs always produce the same document, and empty
// source fields leave their keys out entirely.
func Build(record *entity.Record, links *entity.SocialLinks) *Document {
	doc := &Document{
		Context: SchemaContext,
		Type:    string(record.OrgType),
		Name:    record.Name,
	}

	doc.LegalName = record.LegalName
	doc.AlternateName = splitList(record.AlternateNames)

	if record.Website != "" {
		doc.ID = strings.TrimRight(record.Website, "/") + "/#organization"
		doc.URL = record.Website
	}

	if record.LogoURL != "" {
		doc.Logo = &ImageObject{
			Type:   "ImageObject",
			URL:    record.LogoURL,
			Width:  record.LogoWidth,
			Height: record.LogoHeight,
		}
	}

	doc.Description = record.DescriptionFR
	doc.Slogan = record.Slogan

	if record.SIREN != "" {
		doc.TaxID = "FR" + record.SIREN
		doc.VatID = "FR" + record.SIREN
		doc.ISO6523Code = "0002:" + record.SIREN
	}

	doc.Identifier = buildIdentifiers(record)
	doc.SameAs = buildSameAs(record, links)
	doc.KnowsAbout = splitList(record.ExpertiseFR)

	if record.AreaServed != "" {
		doc.AreaServed = &Country{Type: "Country", Name: record.AreaServed}
	}

	if record.Street != "" || record.City != "" {
		doc.Address = &PostalAddress{
			Type:            "PostalAddress",
			StreetAddress:   record.Street,
			PostalCode:      record.PostalCode,
			AddressLocality: record.City,
			AddressCountry:  record.CountryCode,
		}
	}

	if record.Phone != "" || record.Email != "" {
		doc.ContactPoint = []ContactPoint{{
			Type:              "ContactPoint",
			Telephone:         record.Phone,
			Email:             record.Email,
			ContactType:       record.ContactType,
			AvailableLanguage: splitList(record.Languages),
		}}
	}

	doc.FoundingDate = record.FoundingDate

	if record.FounderName != "" {
		doc.Founders = []Person{{
			Type:   "Person",
			Name:   record.FounderName,
			SameAs: record.FounderProfile,
		}}
	}

	if record.ParentOrgName != "" {
		parent := &Organization{Type: "Organization", Name: record.ParentOrgName}
		if record.ParentOrgQID != "" {
			parent.SameAs = WikidataEntityURL + record.ParentOrgQID
		}
		if record.ParentOrgSIREN != "" {
			parent.TaxID = "FR" + record.ParentOrgSIREN
		}
		doc.ParentOrganization = parent
	}

	if record.RatingValue != "" && record.ReviewCount != "" {
		doc.AggregateRating = &AggregateRating{
			Type:        "AggregateRating",
			RatingValue: record.RatingValue,
			ReviewCount: record.ReviewCount,
			BestRating:  "5",
			WorstRating: "1",
		}
	}

	if record.SearchURLTemplate != "" {
		doc.PotentialAction = &SearchAction{
			Type:       "SearchAction",
			Target:     EntryPoint{Type: "EntryPoint", URLTemplate: record.SearchURLTemplate},
			QueryInput: "required name=search_term_string",
		}
	}

	return doc
}

// buildIdentifiers emits the present-only registry identifiers in fixed order.
func buildIdentifiers(record *entity.Record) []PropertyValue {
	var ids []PropertyValue
	if record.SIREN != "" {
		ids = append(ids, PropertyValue{Type: "PropertyValue", PropertyID: "SIREN", Value: record.SIREN})
	}
	if record.SIRET != "" {
		ids = append(ids, PropertyValue{Type: "PropertyValue", PropertyID: "SIRET", Value: record.SIRET})
	}
	if record.LEI != "" {
		ids = append(ids, PropertyValue{Type: "PropertyValue", PropertyID: "LEI", Value: record.LEI})
	}
	return ids
}

// buildSameAs orders the canonical knowledge-graph URL first, then the
// social links in their fixed emission order.
func buildSameAs(record *entity.Record, links *entity.SocialLinks) []string {
	var sameAs []string
	if record.QID != "" {
		sameAs = append(sameAs, WikidataEntityURL+record.QID)
	}
	if links != nil {
		sameAs = append(sameAs, links.InOrder()...)
	}
	return sameAs
}

// splitList splits a comma-joined field into trimmed non-empty tokens.
// Returns nil when nothing survives so the key is elided.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var tokens []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tokens = append(tokens, trimmed)
		}
	}
	return tokens
}
