package model

import "time"

// Company mirrors the columns of the `unite_legale` table read by the
// company lookup API. Nullable columns are plain strings; an empty value
// means NULL in the database.
type Company struct {
	Siren                  string
	Nom                    string
	Denomination           string
	Sigle                  string
	ActivitePrincipale     string
	NomenclatureActivite   string
	TrancheEffectifs       string
	CategorieJuridique     string
	CategorieEntreprise    string
	EconomieSocialeSolaire string
	CaractereEmployeur     string
	DateCreation           *time.Time
}

// DisplayName returns the person name when set, otherwise the legal name.
func (c Company) DisplayName() string {
	if c.Nom != "" {
		return c.Nom
	}
	return c.Denomination
}

// ActivityStat is the number of companies registered under one activity
// code (NAF/APE).
type ActivityStat struct {
	Code  string
	Count int64
}
