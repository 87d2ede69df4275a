package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/semantika/orgforge/internal/entity"
	"github.com/semantika/orgforge/internal/session"
)

// GetLogs returns the session trace, oldest first.
func (c *Controller) GetLogs(ctx echo.Context) error {
	c.sessionMutex.Lock()
	defer c.sessionMutex.Unlock()
	return ctx.JSON(http.StatusOK, map[string]any{"logs": c.Session.Trace()})
}

// ResetSession clears the record, the social links and the trace.
func (c *Controller) ResetSession(ctx echo.Context) error {
	c.sessionMutex.Lock()
	defer c.sessionMutex.Unlock()

	c.Session.Reset()
	c.Session.Log(session.LevelInfo, "Session reset")
	return ctx.JSON(http.StatusOK, map[string]any{"reset": true})
}

// GetEntity returns the current record with its completeness score.
func (c *Controller) GetEntity(ctx echo.Context) error {
	c.sessionMutex.Lock()
	defer c.sessionMutex.Unlock()

	return ctx.JSON(http.StatusOK, map[string]any{
		"entity": c.Session.Record,
		"score":  c.Session.Record.Score(),
	})
}

// updateRequest is a partial record update; only present keys apply.
type updateRequest struct {
	OrgType        *string `json:"org_type"`
	Name           *string `json:"name"`
	NameEN         *string `json:"name_en"`
	LegalName      *string `json:"legal_name"`
	AlternateNames *string `json:"alternate_names"`
	DescriptionFR  *string `json:"description_fr"`
	DescriptionEN  *string `json:"description_en"`
	ExpertiseFR    *string `json:"expertise_fr"`
	ExpertiseEN    *string `json:"expertise_en"`
	Slogan         *string `json:"slogan"`

	QID   *string `json:"qid"`
	SIREN *string `json:"siren"`
	SIRET *string `json:"siret"`
	LEI   *string `json:"lei"`
	NAF   *string `json:"naf"`

	Website    *string `json:"website"`
	LogoURL    *string `json:"logo_url"`
	LogoWidth  *string `json:"logo_width"`
	LogoHeight *string `json:"logo_height"`

	ParentOrgName  *string `json:"parent_org_name"`
	ParentOrgQID   *string `json:"parent_org_qid"`
	ParentOrgSIREN *string `json:"parent_org_siren"`

	Street      *string `json:"street"`
	City        *string `json:"city"`
	PostalCode  *string `json:"postal_code"`
	CountryCode *string `json:"country_code"`

	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	ContactType *string `json:"contact_type"`
	Languages   *string `json:"languages"`

	FoundingDate   *string `json:"founding_date"`
	FounderName    *string `json:"founder_name"`
	FounderProfile *string `json:"founder_profile"`

	RatingValue *string `json:"rating_value"`
	ReviewCount *string `json:"review_count"`

	SearchURLTemplate *string `json:"search_url_template"`
	AreaServed        *string `json:"area_served"`
}

// touchesParent reports whether the update edits the parent linkage.
func (u *updateRequest) touchesParent() bool {
	return u.ParentOrgName != nil || u.ParentOrgQID != nil || u.ParentOrgSIREN != nil
}

// UpdateEntity applies a partial record update. Parent linkage edits go
// through the linkage invariant: the three fields are re-established as a
// unit with manual provenance.
func (c *Controller) UpdateEntity(ctx echo.Context) error {
	var req updateRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid entity update", http.StatusBadRequest)
	}

	c.sessionMutex.Lock()
	defer c.sessionMutex.Unlock()
	r := c.Session.Record

	if req.OrgType != nil {
		orgType := entity.OrgType(*req.OrgType)
		if !orgType.IsValid() {
			return c.HandleError(ctx, nil, "Unknown organization type", http.StatusBadRequest)
		}
		r.OrgType = orgType
	}

	setString(&r.Name, req.Name)
	setString(&r.NameEN, req.NameEN)
	setString(&r.LegalName, req.LegalName)
	setString(&r.AlternateNames, req.AlternateNames)
	setString(&r.DescriptionFR, req.DescriptionFR)
	setString(&r.DescriptionEN, req.DescriptionEN)
	setString(&r.ExpertiseFR, req.ExpertiseFR)
	setString(&r.ExpertiseEN, req.ExpertiseEN)
	setString(&r.Slogan, req.Slogan)
	setString(&r.QID, req.QID)
	setString(&r.SIREN, req.SIREN)
	setString(&r.SIRET, req.SIRET)
	setString(&r.LEI, req.LEI)
	setString(&r.NAF, req.NAF)
	setString(&r.Website, req.Website)
	setString(&r.LogoURL, req.LogoURL)
	setString(&r.LogoWidth, req.LogoWidth)
	setString(&r.LogoHeight, req.LogoHeight)
	setString(&r.Street, req.Street)
	setString(&r.City, req.City)
	setString(&r.PostalCode, req.PostalCode)
	setString(&r.CountryCode, req.CountryCode)
	setString(&r.Phone, req.Phone)
	setString(&r.Email, req.Email)
	setString(&r.ContactType, req.ContactType)
	setString(&r.Languages, req.Languages)
	setString(&r.FoundingDate, req.FoundingDate)
	setString(&r.FounderName, req.FounderName)
	setString(&r.FounderProfile, req.FounderProfile)
	setString(&r.RatingValue, req.RatingValue)
	setString(&r.ReviewCount, req.ReviewCount)
	setString(&r.SearchURLTemplate, req.SearchURLTemplate)
	setString(&r.AreaServed, req.AreaServed)

	if req.touchesParent() {
		name := r.ParentOrgName
		qid := r.ParentOrgQID
		siren := r.ParentOrgSIREN
		setString(&name, req.ParentOrgName)
		setString(&qid, req.ParentOrgQID)
		setString(&siren, req.ParentOrgSIREN)

		r.ClearParent()
		if name != "" {
			if err := r.SetParent(name, qid, entity.SourceManual); err != nil {
				return c.HandleError(ctx, err, "Invalid parent linkage", http.StatusBadRequest)
			}
			if siren != "" {
				if err := r.SetParentSIREN(siren); err != nil {
					return c.HandleError(ctx, err, "Invalid parent registry number", http.StatusBadRequest)
				}
			}
		} else if qid != "" {
			return c.HandleError(ctx, nil, "Parent QID requires a parent name", http.StatusBadRequest)
		}
	}

	c.Session.Log(session.LevelInfo, "Entity updated")
	return ctx.JSON(http.StatusOK, map[string]any{
		"entity": r,
		"score":  r.Score(),
	})
}

// GetScore returns the completeness score on its own.
func (c *Controller) GetScore(ctx echo.Context) error {
	c.sessionMutex.Lock()
	defer c.sessionMutex.Unlock()
	return ctx.JSON(http.StatusOK, map[string]any{"score": c.Session.Record.Score()})
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
