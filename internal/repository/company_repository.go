package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/siren-services/internal/model"
)

// CompanyRepo reads legal units from the `unite_legale` table.
type CompanyRepo struct{ DB *sql.DB }

func NewCompanyRepo(db *sql.DB) *CompanyRepo { return &CompanyRepo{DB: db} }

const companyColumns = `siren,
	nom_unite_legale,
	denomination_unite_legale,
	sigle_unite_legale,
	activite_principale_unite_legale,
	nomenclature_activite_principale_unite_legale,
	tranche_effectifs_unite_legale,
	categorie_juridique_unite_legale,
	categorie_entreprise,
	economie_sociale_solidaire_unite_legale,
	caractere_employeur_unite_legale,
	date_creation_unite_legale`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(s rowScanner) (model.Company, error) {
	var (
		c                                       model.Company
		nom, denom, sigle, act, nomenclature    sql.NullString
		tranche, catJur, catEnt, ess, employeur sql.NullString
		created                                 sql.NullTime
	)
	if err := s.Scan(&c.Siren, &nom, &denom, &sigle, &act, &nomenclature,
		&tranche, &catJur, &catEnt, &ess, &employeur, &created); err != nil {
		return model.Company{}, err
	}
	c.Nom = nom.String
	c.Denomination = denom.String
	c.Sigle = sigle.String
	c.ActivitePrincipale = act.String
	c.NomenclatureActivite = nomenclature.String
	c.TrancheEffectifs = tranche.String
	c.CategorieJuridique = catJur.String
	c.CategorieEntreprise = catEnt.String
	c.EconomieSocialeSolaire = ess.String
	c.CaractereEmployeur = employeur.String
	if created.Valid {
		t := created.Time
		c.DateCreation = &t
	}
	return c, nil
}

// GetBySiren fetches one company by its 9-digit SIREN.
func (r *CompanyRepo) GetBySiren(ctx context.Context, siren string) (model.Company, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+companyColumns+" FROM unite_legale WHERE siren=? LIMIT 1", siren)
	c, err := scanCompany(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Company{}, ErrNotFound
	}
	return c, err
}

// ListByActivity returns the companies whose main activity code equals code,
// with the total number of matches.
func (r *CompanyRepo) ListByActivity(ctx context.Context, code string, p Page) ([]model.Company, int64, error) {
	return r.list(ctx, "activite_principale_unite_legale = ?", []any{code}, p)
}

// SearchByName matches term as a case-insensitive substring of either the
// person name or the legal name.
func (r *CompanyRepo) SearchByName(ctx context.Context, term string, p Page) ([]model.Company, int64, error) {
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	cond := "(LOWER(nom_unite_legale) LIKE ? OR LOWER(denomination_unite_legale) LIKE ?)"
	return r.list(ctx, cond, []any{pattern, pattern}, p)
}

func (r *CompanyRepo) list(ctx context.Context, cond string, args []any, p Page) ([]model.Company, int64, error) {
	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM unite_legale WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := "SELECT " + companyColumns + " FROM unite_legale WHERE " + cond +
		" ORDER BY siren ASC LIMIT ? OFFSET ?"
	argsData := append(append([]any{}, args...), p.Limit, p.Offset())

	rows, err := r.DB.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Company, 0, p.Limit)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// escapeLike escapes the LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
