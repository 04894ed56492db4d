package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

var companyCols = []string{
	"siren", "nom_unite_legale", "denomination_unite_legale", "sigle_unite_legale",
	"activite_principale_unite_legale", "nomenclature_activite_principale_unite_legale",
	"tranche_effectifs_unite_legale", "categorie_juridique_unite_legale", "categorie_entreprise",
	"economie_sociale_solidaire_unite_legale", "caractere_employeur_unite_legale",
	"date_creation_unite_legale",
}

func TestCompanyRepo_GetBySiren(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCompanyRepo(db)
	created := time.Date(1998, 3, 12, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM unite_legale WHERE siren=? LIMIT 1")).
		WithArgs("552100554").
		WillReturnRows(sqlmock.NewRows(companyCols).AddRow(
			"552100554", nil, "ACME SA", "ACME", "62.01Z", "NAFRev2",
			"12", "5710", "PME", "N", "O", created))

	c, err := repo.GetBySiren(context.Background(), "552100554")
	require.NoError(t, err)
	assert.Equal(t, "ACME SA", c.DisplayName())
	assert.Equal(t, "", c.Nom)
	assert.Equal(t, "62.01Z", c.ActivitePrincipale)
	require.NotNil(t, c.DateCreation)
	assert.True(t, created.Equal(*c.DateCreation))
}

func TestCompanyRepo_GetBySirenNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCompanyRepo(db)

	mock.ExpectQuery("FROM unite_legale WHERE siren").
		WithArgs("000000000").
		WillReturnRows(sqlmock.NewRows(companyCols))

	_, err := repo.GetBySiren(context.Background(), "000000000")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCompanyRepo_SearchByNameEscapesWildcards(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCompanyRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM unite_legale WHERE (LOWER(nom_unite_legale) LIKE ?")).
		WithArgs(`%100\%\_bio%`, `%100\%\_bio%`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY siren ASC LIMIT ? OFFSET ?")).
		WithArgs(`%100\%\_bio%`, `%100\%\_bio%`, 20, 0).
		WillReturnRows(sqlmock.NewRows(companyCols).AddRow(
			"123456789", "DUPONT", nil, nil, "01.11Z", nil, nil, nil, nil, nil, nil, nil))

	out, total, err := repo.SearchByName(context.Background(), "100%_BIO", Page{Number: 1, Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, out, 1)
	assert.Equal(t, "DUPONT", out[0].DisplayName())
	assert.Nil(t, out[0].DateCreation)
}

func TestCompanyRepo_ListByActivityPaginates(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCompanyRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM unite_legale WHERE activite_principale_unite_legale = ?")).
		WithArgs("62.01Z").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(45))
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT ? OFFSET ?")).
		WithArgs("62.01Z", 20, 40).
		WillReturnRows(sqlmock.NewRows(companyCols))

	out, total, err := repo.ListByActivity(context.Background(), "62.01Z", Page{Number: 3, Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 45, total)
	assert.Empty(t, out)
}
