package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func importRow(siren string) []any {
	row := make([]any, len(ImportColumns))
	row[0] = siren
	return row
}

func TestImportRepo_InsertBatch(t *testing.T) {
	db, mock := newMock(t)
	repo := NewImportRepo(db)

	mock.ExpectExec("INSERT IGNORE INTO unite_legale \\(`siren`, `statut_diffusion_unite_legale`").
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.InsertBatch(context.Background(), [][]any{importRow("111111111"), importRow("111111111")})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n, "duplicates are ignored by the database")
}

func TestImportRepo_InsertBatchValidates(t *testing.T) {
	db, _ := newMock(t)
	repo := NewImportRepo(db)

	n, err := repo.InsertBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = repo.InsertBatch(context.Background(), [][]any{{"short"}})
	require.Error(t, err)

	big := make([][]any, MaxImportBatch+1)
	_, err = repo.InsertBatch(context.Background(), big)
	require.Error(t, err)
}

func TestImportRepo_Truncate(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("TRUNCATE TABLE unite_legale").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, NewImportRepo(db).Truncate(context.Background()))
}
