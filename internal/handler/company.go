package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/siren-services/internal/apperror"
	"github.com/iliyamo/siren-services/internal/model"
	"github.com/iliyamo/siren-services/internal/repository"
)

const (
	queryTimeout  = 5 * time.Second
	minSearchTerm = 3
)

// CompanyReader is the read side of the company table.
type CompanyReader interface {
	GetBySiren(ctx context.Context, siren string) (model.Company, error)
	ListByActivity(ctx context.Context, code string, p repository.Page) ([]model.Company, int64, error)
	SearchByName(ctx context.Context, term string, p repository.Page) ([]model.Company, int64, error)
}

type CompanyHandler struct {
	Repo CompanyReader
}

func NewCompanyHandler(r CompanyReader) *CompanyHandler { return &CompanyHandler{Repo: r} }

// Organization is a company rendered as a schema.org Organization.
type Organization struct {
	Context           []any   `json:"@context,omitempty" swaggertype:"array,object"`
	Type              string  `json:"@type"`
	ID                string  `json:"@id" example:"siren:552100554"`
	Identifier        string  `json:"identifier" example:"552100554"`
	Name              *string `json:"name"`
	LegalName         *string `json:"legalName"`
	AlternativeName   *string `json:"alternativeName"`
	FoundingDate      *string `json:"foundingDate" example:"1955-01-01"`
	NAICS             *string `json:"naics" example:"29.10Z"`
	NumberOfEmployees *string `json:"numberOfEmployees"`
	LegalForm         *string `json:"legalForm"`
	AdditionalType    *string `json:"additionalType"`
	SocialEnterprise  bool    `json:"socialEnterprise"`
	IsEmployer        bool    `json:"isEmployer"`
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toOrganization(co model.Company) Organization {
	o := Organization{
		Type:              "Organization",
		ID:                "siren:" + co.Siren,
		Identifier:        co.Siren,
		Name:              nullable(co.DisplayName()),
		LegalName:         nullable(co.Denomination),
		AlternativeName:   nullable(co.Sigle),
		NAICS:             nullable(co.ActivitePrincipale),
		NumberOfEmployees: nullable(co.TrancheEffectifs),
		LegalForm:         nullable(co.CategorieJuridique),
		AdditionalType:    nullable(co.CategorieEntreprise),
		SocialEnterprise:  co.EconomieSocialeSolaire == "O",
		IsEmployer:        co.CaractereEmployeur == "O",
	}
	if co.DateCreation != nil {
		o.FoundingDate = nullable(co.DateCreation.Format(time.DateOnly))
	}
	return o
}

func validSiren(s string) bool {
	if len(s) != 9 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// BySiren returns one company.
//
//	@Summary	Company by SIREN
//	@Tags		entreprises
//	@Produce	json
//	@Security	BearerAuth
//	@Param		siren	path		string	true	"9-digit SIREN"
//	@Success	200		{object}	Organization
//	@Failure	400		{object}	ErrorResponse
//	@Failure	401		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	503		{object}	ErrorResponse
//	@Router		/v1/entreprises/siren/{siren} [get]
func (h *CompanyHandler) BySiren(c echo.Context) error {
	siren := c.Param("siren")
	if !validSiren(siren) {
		return apperror.New(apperror.InvalidRequest, "SIREN must be 9 digits")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), queryTimeout)
	defer cancel()

	co, err := h.Repo.GetBySiren(ctx, siren)
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.New(apperror.NotFound, "company not found")
	}
	if err != nil {
		return fmt.Errorf("get company %s: %w", siren, err)
	}
	org := toOrganization(co)
	org.Context = schemaContext
	return jsonLD(c, http.StatusOK, org)
}

// ByActivity lists companies with the given main activity code.
//
//	@Summary	Companies by activity code
//	@Tags		entreprises
//	@Produce	json
//	@Security	BearerAuth
//	@Param		code	path		string	true	"NAF/APE code, e.g. 62.01Z"
//	@Param		page	query		int		false	"page number"	default(1)	minimum(1)
//	@Param		limit	query		int		false	"page size"		default(20)	minimum(1)	maximum(100)
//	@Success	200		{object}	ItemList[Organization]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	401		{object}	ErrorResponse
//	@Router		/v1/entreprises/activite/{code} [get]
func (h *CompanyHandler) ByActivity(c echo.Context) error {
	code := c.Param("code")
	if code == "" {
		return apperror.New(apperror.InvalidRequest, "activity code is required")
	}
	p, err := parsePage(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), queryTimeout)
	defer cancel()

	list, total, err := h.Repo.ListByActivity(ctx, code, p)
	if err != nil {
		return fmt.Errorf("list companies by activity %s: %w", code, err)
	}
	return h.respondList(c, list, total, nil, p)
}

// Search finds companies whose name or legal name contains nom.
//
//	@Summary	Search companies by name
//	@Tags		entreprises
//	@Produce	json
//	@Security	BearerAuth
//	@Param		nom		query		string	true	"name fragment, at least 3 characters"
//	@Param		page	query		int		false	"page number"	default(1)	minimum(1)
//	@Param		limit	query		int		false	"page size"		default(20)	minimum(1)	maximum(100)
//	@Success	200		{object}	ItemList[Organization]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	401		{object}	ErrorResponse
//	@Router		/v1/entreprises/search [get]
func (h *CompanyHandler) Search(c echo.Context) error {
	nom := strings.TrimSpace(c.QueryParam("nom"))
	if utf8.RuneCountInString(nom) < minSearchTerm {
		return apperror.New(apperror.InvalidRequest, fmt.Sprintf("nom must be at least %d characters", minSearchTerm))
	}
	p, err := parsePage(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), queryTimeout)
	defer cancel()

	list, total, err := h.Repo.SearchByName(ctx, nom, p)
	if err != nil {
		return fmt.Errorf("search companies: %w", err)
	}
	return h.respondList(c, list, total, [][2]string{{"nom", nom}}, p)
}

func (h *CompanyHandler) respondList(c echo.Context, list []model.Company, total int64, extra [][2]string, p repository.Page) error {
	items := make([]Organization, 0, len(list))
	for _, co := range list {
		items = append(items, toOrganization(co))
	}
	pg := newPagination(collectionURL(c), extra, p.Number, p.Limit, total)
	return jsonLD(c, http.StatusOK, newItemList(items, total, pg))
}
