package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/siren-services/internal/model"
)

func statRows(pairs ...any) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"activite_principale_unite_legale", "siren_count"})
	for i := 0; i+1 < len(pairs); i += 2 {
		rows.AddRow(pairs[i], pairs[i+1])
	}
	return rows
}

func TestStatsRepo_CountByActivity(t *testing.T) {
	db, mock := newMock(t)
	repo := NewStatsRepo(db)

	mock.ExpectQuery("SELECT COUNT\\(DISTINCT activite_principale_unite_legale\\)").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(3))
	mock.ExpectQuery("ORDER BY siren_count DESC").
		WithArgs(2, 0).
		WillReturnRows(statRows("62.01Z", 10, "47.11F", 4))

	out, total, err := repo.CountByActivity(context.Background(), Page{Number: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, []model.ActivityStat{{Code: "62.01Z", Count: 10}, {Code: "47.11F", Count: 4}}, out)
}

func TestStatsRepo_ActivityCount(t *testing.T) {
	db, mock := newMock(t)
	repo := NewStatsRepo(db)

	mock.ExpectQuery("AND activite_principale_unite_legale = \\?").
		WithArgs("62.01Z").
		WillReturnRows(statRows("62.01Z", 10))
	mock.ExpectQuery("AND activite_principale_unite_legale = \\?").
		WithArgs("99.99Z").
		WillReturnRows(statRows())

	s, err := repo.ActivityCount(context.Background(), "62.01Z")
	require.NoError(t, err)
	assert.EqualValues(t, 10, s.Count)

	_, err = repo.ActivityCount(context.Background(), "99.99Z")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStatsRepo_TopAndBottom(t *testing.T) {
	db, mock := newMock(t)
	repo := NewStatsRepo(db)

	mock.ExpectQuery("ORDER BY siren_count DESC, activite_principale_unite_legale ASC\\s+LIMIT \\?").
		WithArgs(1).
		WillReturnRows(statRows("62.01Z", 10))
	mock.ExpectQuery("ORDER BY siren_count ASC").
		WithArgs(1).
		WillReturnRows(statRows("01.11Z", 1))

	top, err := repo.TopActivities(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "62.01Z", top[0].Code)

	bottom, err := repo.BottomActivities(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "01.11Z", bottom[0].Code)
}
