package entity

import (
	"github.com/semantika/orgforge/internal/mistral"
	"github.com/semantika/orgforge/internal/sirene"
	"github.com/semantika/orgforge/internal/wikidata"
)

// ApplyWikidata merges a selected knowledge-base entity into the record.
// Identity fields follow the selection; siren and website are kept when
// already set, a selection never blanks them. Parent linkage is not touched
// here, that is the resolver's job.
func (r *Record) ApplyWikidata(qid, fallbackLabel string, detail wikidata.EntityDetail) {
	r.QID = qid
	r.Name = detail.LabelFR
	if r.Name == "" {
		r.Name = fallbackLabel
	}
	r.NameEN = detail.LabelEN
	r.DescriptionFR = detail.DescriptionFR
	r.DescriptionEN = detail.DescriptionEN
	if r.SIREN == "" {
		r.SIREN = detail.SIREN
	}
	r.LEI = detail.LEI
	if r.Website == "" {
		r.Website = detail.Website
	}
	if r.FoundingDate == "" {
		r.FoundingDate = detail.FoundingDate
	}
}

// ApplyRegistry merges a selected registry company into the record. The
// display name is kept when already set; the registry identifiers and the
// registered address always follow the selection.
func (r *Record) ApplyRegistry(company sirene.Company) {
	if r.Name == "" {
		r.Name = company.Name
	}
	r.LegalName = company.LegalName
	r.SIREN = company.SIREN
	r.SIRET = company.SIRET
	r.NAF = company.NAF
	r.Street = company.Street
	r.PostalCode = company.PostalCode
	r.City = company.City
	if r.FoundingDate == "" {
		r.FoundingDate = company.CreationDate
	}
}

// ApplyEnrichment merges an assistant completion into the record. Only
// non-empty completion fields overwrite; parent fields are handled by the
// resolver, never here.
func (r *Record) ApplyEnrichment(e *mistral.Enrichment) {
	if e == nil {
		return
	}
	if e.DescriptionFR != "" {
		r.DescriptionFR = e.DescriptionFR
	}
	if e.DescriptionEN != "" {
		r.DescriptionEN = e.DescriptionEN
	}
	if e.ExpertiseFR != "" {
		r.ExpertiseFR = e.ExpertiseFR
	}
	if e.ExpertiseEN != "" {
		r.ExpertiseEN = e.ExpertiseEN
	}
	if e.Slogan != "" {
		r.Slogan = e.Slogan
	}
}
