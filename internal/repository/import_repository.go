package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// ImportColumns lists the `unite_legale` columns written by the CSV import,
// in insertion order.
var ImportColumns = []string{
	"siren",
	"statut_diffusion_unite_legale",
	"unite_purgee_unite_legale",
	"date_creation_unite_legale",
	"sigle_unite_legale",
	"sexe_unite_legale",
	"prenom_1_unite_legale",
	"prenom_2_unite_legale",
	"prenom_3_unite_legale",
	"prenom_4_unite_legale",
	"prenom_usuel_unite_legale",
	"pseudonyme_unite_legale",
	"identifiant_association_unite_legale",
	"tranche_effectifs_unite_legale",
	"annee_effectifs_unite_legale",
	"date_dernier_traitement_unite_legale",
	"nombre_periodes_unite_legale",
	"categorie_entreprise",
	"annee_categorie_entreprise",
	"date_debut",
	"etat_administratif_unite_legale",
	"nom_unite_legale",
	"nom_usage_unite_legale",
	"denomination_unite_legale",
	"denomination_usuelle_1_unite_legale",
	"denomination_usuelle_2_unite_legale",
	"denomination_usuelle_3_unite_legale",
	"categorie_juridique_unite_legale",
	"activite_principale_unite_legale",
	"nomenclature_activite_principale_unite_legale",
	"nic_siege_unite_legale",
	"economie_sociale_solidaire_unite_legale",
	"societe_mission_unite_legale",
	"caractere_employeur_unite_legale",
}

// MaxImportBatch keeps a multi-row insert under MySQL's 65535 placeholder limit.
var MaxImportBatch = 65535 / len(ImportColumns)

// ImportRepo writes CSV rows into `unite_legale`.
type ImportRepo struct{ DB *sql.DB }

func NewImportRepo(db *sql.DB) *ImportRepo { return &ImportRepo{DB: db} }

// Truncate empties the table before a full reload.
func (r *ImportRepo) Truncate(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, "TRUNCATE TABLE unite_legale")
	return err
}

// InsertBatch inserts rows with INSERT IGNORE so duplicate SIRENs are
// skipped, and returns how many rows were actually inserted. Each row must
// hold len(ImportColumns) values; nil values are written as NULL.
func (r *ImportRepo) InsertBatch(ctx context.Context, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if len(rows) > MaxImportBatch {
		return 0, fmt.Errorf("batch of %d rows exceeds %d", len(rows), MaxImportBatch)
	}

	quoted := make([]string, len(ImportColumns))
	for i, c := range ImportColumns {
		quoted[i] = "`" + c + "`"
	}
	tuple := "(" + strings.TrimSuffix(strings.Repeat("?,", len(ImportColumns)), ",") + ")"

	var b strings.Builder
	b.WriteString("INSERT IGNORE INTO unite_legale (")
	b.WriteString(strings.Join(quoted, ", "))
	b.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*len(ImportColumns))
	for i, row := range rows {
		if len(row) != len(ImportColumns) {
			return 0, fmt.Errorf("row %d has %d values, want %d", i, len(row), len(ImportColumns))
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(tuple)
		args = append(args, row...)
	}

	res, err := r.DB.ExecContext(ctx, b.String(), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
