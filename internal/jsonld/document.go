// Package jsonld renders an organization record into a schema.org JSON-LD
// document and checks the result against local validation rules.
package jsonld

// SchemaContext is the vocabulary context every document carries.
const SchemaContext = "https://schema.org"

// Document is a schema.org Organization structured-data document. Field
// order is the canonical emission order; empty keys are elided so the
// serialized form is stable and reproducible for the same inputs.
type Document struct {
	Context            string           `json:"@context,omitempty"`
	Type               string           `json:"@type,omitempty"`
	Name               string           `json:"name,omitempty"`
	LegalName          string           `json:"legalName,omitempty"`
	AlternateName      []string         `json:"alternateName,omitempty"`
	ID                 string           `json:"@id,omitempty"`
	URL                string           `json:"url,omitempty"`
	Logo               *ImageObject     `json:"logo,omitempty"`
	Description        string           `json:"description,omitempty"`
	Slogan             string           `json:"slogan,omitempty"`
	TaxID              string           `json:"taxID,omitempty"`
	VatID              string           `json:"vatID,omitempty"`
	ISO6523Code        string           `json:"iso6523Code,omitempty"`
	Identifier         []PropertyValue  `json:"identifier,omitempty"`
	SameAs             []string         `json:"sameAs,omitempty"`
	KnowsAbout         []string         `json:"knowsAbout,omitempty"`
	AreaServed         *Country         `json:"areaServed,omitempty"`
	Address            *PostalAddress   `json:"address,omitempty"`
	ContactPoint       []ContactPoint   `json:"contactPoint,omitempty"`
	FoundingDate       string           `json:"foundingDate,omitempty"`
	Founders           []Person         `json:"founders,omitempty"`
	ParentOrganization *Organization    `json:"parentOrganization,omitempty"`
	AggregateRating    *AggregateRating `json:"aggregateRating,omitempty"`
	PotentialAction    *SearchAction    `json:"potentialAction,omitempty"`
}

// ImageObject describes the organization logo.
type ImageObject struct {
	Type   string `json:"@type"`
	URL    string `json:"url"`
	Width  string `json:"width,omitempty"`
	Height string `json:"height,omitempty"`
}

// PropertyValue is one identifier entry (SIREN, SIRET, LEI).
type PropertyValue struct {
	Type       string `json:"@type"`
	PropertyID string `json:"propertyID"`
	Value      string `json:"value"`
}

// Country is the areaServed value.
type Country struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// PostalAddress is the nested address object. Unlike top-level keys its
// sub-fields are emitted even when blank; only the object as a whole is
// conditional.
type PostalAddress struct {
	Type            string `json:"@type"`
	StreetAddress   string `json:"streetAddress"`
	PostalCode      string `json:"postalCode"`
	AddressLocality string `json:"addressLocality"`
	AddressCountry  string `json:"addressCountry"`
}

// ContactPoint is one contact channel.
type ContactPoint struct {
	Type              string   `json:"@type"`
	Telephone         string   `json:"telephone,omitempty"`
	Email             string   `json:"email,omitempty"`
	ContactType       string   `json:"contactType,omitempty"`
	AvailableLanguage []string `json:"availableLanguage,omitempty"`
}

// Person is a founder entry.
type Person struct {
	Type   string `json:"@type"`
	Name   string `json:"name"`
	SameAs string `json:"sameAs,omitempty"`
}

// Organization is the nested parentOrganization object.
type Organization struct {
	Type   string `json:"@type"`
	Name   string `json:"name"`
	SameAs string `json:"sameAs,omitempty"`
	TaxID  string `json:"taxID,omitempty"`
}

// AggregateRating carries the review summary with fixed rating bounds.
type AggregateRating struct {
	Type        string `json:"@type"`
	RatingValue string `json:"ratingValue"`
	ReviewCount string `json:"reviewCount"`
	BestRating  string `json:"bestRating"`
	WorstRating string `json:"worstRating"`
}

// SearchAction is the potentialAction site-search entry.
type SearchAction struct {
	Type       string     `json:"@type"`
	Target     EntryPoint `json:"target"`
	QueryInput string     `json:"query-input"`
}

// EntryPoint holds the search URL template.
type EntryPoint struct {
	Type        string `json:"@type"`
	URLTemplate string `json:"urlTemplate"`
}
