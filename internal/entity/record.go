// Package entity holds the mutable Organization profile being assembled.
package entity

import (
	"github.com/semantika/orgforge/internal/errors"
)

// OrgType is a schema.org Organization subtype tag.
type OrgType string

const (
	TypeOrganization      OrgType = "Organization"
	TypeCorporation       OrgType = "Corporation"
	TypeLocalBusiness     OrgType = "LocalBusiness"
	TypeBankOrCreditUnion OrgType = "BankOrCreditUnion"
	TypeInsuranceAgency   OrgType = "InsuranceAgency"
	TypeFinancialService  OrgType = "FinancialService"
)

// OrgTypes lists the selectable organization types in display order.
var OrgTypes = []OrgType{
	TypeOrganization,
	TypeCorporation,
	TypeLocalBusiness,
	TypeBankOrCreditUnion,
	TypeInsuranceAgency,
	TypeFinancialService,
}

// IsValid reports whether t is one of the known organization types.
func (t OrgType) IsValid() bool {
	for _, known := range OrgTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Parent linkage provenance tags. First successful source wins.
const (
	SourceParentOrg = "P749"    // knowledge-graph "parent organization" property
	SourceOwnedBy   = "P127"    // knowledge-graph "owned by" fallback property
	SourceAssistant = "Mistral" // language-model guess, lowest confidence
	SourceManual    = "manual"  // user-entered linkage
)

// Record is the single mutable aggregate representing one organization
// being profiled. All fields default to empty; enrichment steps fill them
// in place over the life of a session.
type Record struct {
	// Identity
	Name           string `json:"name"`
	NameEN         string `json:"name_en"`
	LegalName      string `json:"legal_name"`
	AlternateNames string `json:"alternate_names"` // comma-joined free text
	DescriptionFR  string `json:"description_fr"`
	DescriptionEN  string `json:"description_en"`
	ExpertiseFR    string `json:"expertise_fr"` // comma-joined domains
	ExpertiseEN    string `json:"expertise_en"`
	Slogan         string `json:"slogan"`

	// Classification
	OrgType OrgType `json:"org_type"`

	// Identifiers
	QID   string `json:"qid"`   // knowledge-graph id, Q<digits>
	SIREN string `json:"siren"` // 9-digit registry number
	SIRET string `json:"siret"` // 14-digit establishment number
	LEI   string `json:"lei"`   // 20-char legal entity identifier
	NAF   string `json:"naf"`   // activity code

	// Web presence
	Website    string `json:"website"`
	LogoURL    string `json:"logo_url"`
	LogoWidth  string `json:"logo_width"`
	LogoHeight string `json:"logo_height"`

	// Parent linkage. These four fields are a unit: a qid is never stored
	// without a name, and the source tag records which lookup supplied it.
	ParentOrgName   string `json:"parent_org_name"`
	ParentOrgQID    string `json:"parent_org_qid"`
	ParentOrgSIREN  string `json:"parent_org_siren"`
	ParentOrgSource string `json:"parent_org_source"`

	// Address
	Street      string `json:"street"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`
	CountryCode string `json:"country_code"`

	// Contact
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	ContactType string `json:"contact_type"`
	Languages   string `json:"languages"` // comma-separated

	// Provenance facts
	FoundingDate   string `json:"founding_date"` // ISO YYYY-MM-DD
	FounderName    string `json:"founder_name"`
	FounderProfile string `json:"founder_profile"`

	// Social proof
	RatingValue string `json:"rating_value"`
	ReviewCount string `json:"review_count"`

	// Site search template, contains {search_term_string}
	SearchURLTemplate string `json:"search_url_template"`

	// Area served, defaults to France at session start
	AreaServed string `json:"area_served"`
}

// NewRecord returns an empty record with defaults applied.
func NewRecord() *Record {
	return &Record{
		OrgType:    TypeOrganization,
		AreaServed: "France",
	}
}

// Reset restores the record to its initial empty state.
func (r *Record) Reset() {
	*r = *NewRecord()
}

// Score computes the completeness score, an additive weighted sum over a
// fixed subset of fields, capped at 100.
func (r *Record) Score() int {
	s := 0
	if r.QID != "" {
		s += 20
	}
	if r.SIREN != "" {
		s += 20
	}
	if r.LEI != "" {
		s += 15
	}
	if r.Website != "" {
		s += 15
	}
	if r.ParentOrgQID != "" {
		s += 15
	}
	if r.ExpertiseFR != "" {
		s += 15
	}
	return min(s, 100)
}

// HasParent reports whether a parent linkage has been established.
func (r *Record) HasParent() bool {
	return r.ParentOrgSource != ""
}

// SetParent stores the parent linkage as a unit. A qid without a label or an
// empty source violates the linkage invariant and is rejected. An already
// established linkage is never overwritten silently; callers must
// ClearParent first for an explicit re-resolution.
func (r *Record) SetParent(name, qid, source string) error {
	if source == "" {
		return errors.Newf("parent linkage requires a provenance source").
			Category(errors.CategoryValidation).
			Build()
	}
	if qid != "" && name == "" {
		return errors.Newf("parent qid %s requires a label", qid).
			Category(errors.CategoryValidation).
			Context("parent_qid", qid).
			Build()
	}
	if name == "" {
		return errors.Newf("parent linkage requires a name").
			Category(errors.CategoryValidation).
			Build()
	}
	if r.ParentOrgSource != "" {
		return errors.Newf("parent already resolved from %s", r.ParentOrgSource).
			Category(errors.CategoryState).
			Context("existing_source", r.ParentOrgSource).
			Build()
	}

	r.ParentOrgName = name
	r.ParentOrgQID = qid
	r.ParentOrgSource = source
	// A registry number from a previous enrichment belongs to a different
	// parent and must not survive the new linkage.
	r.ParentOrgSIREN = ""
	return nil
}

// SetParentSIREN attaches a registry number to the current parent linkage.
// Rejected when no parent is established, so a number can never outlive or
// precede the named parent it belongs to.
func (r *Record) SetParentSIREN(siren string) error {
	if r.ParentOrgSource == "" {
		return errors.Newf("no parent linkage to attach registry number to").
			Category(errors.CategoryState).
			Build()
	}
	r.ParentOrgSIREN = siren
	return nil
}

// ClearParent removes the parent linkage for an explicit re-resolution.
func (r *Record) ClearParent() {
	r.ParentOrgName = ""
	r.ParentOrgQID = ""
	r.ParentOrgSIREN = ""
	r.ParentOrgSource = ""
}
