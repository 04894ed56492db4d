package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/siren-services/internal/model"
)

// StatsRepo aggregates `unite_legale` by main activity code.
type StatsRepo struct{ DB *sql.DB }

func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{DB: db} }

// Rows without an activity code are excluded from every statistic.
const activityGroup = `SELECT activite_principale_unite_legale, COUNT(*) AS siren_count
	FROM unite_legale
	WHERE activite_principale_unite_legale IS NOT NULL`

// CountByActivity returns one page of per-code counts ordered from the most
// to the least represented code, and the number of distinct codes.
func (r *StatsRepo) CountByActivity(ctx context.Context, p Page) ([]model.ActivityStat, int64, error) {
	var total int64
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT activite_principale_unite_legale)
		FROM unite_legale
		WHERE activite_principale_unite_legale IS NOT NULL`).Scan(&total); err != nil {
		return nil, 0, err
	}
	out, err := r.query(ctx, activityGroup+`
		GROUP BY activite_principale_unite_legale
		ORDER BY siren_count DESC, activite_principale_unite_legale ASC
		LIMIT ? OFFSET ?`, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ActivityCount returns the count for a single code, or ErrNotFound when no
// company uses it.
func (r *StatsRepo) ActivityCount(ctx context.Context, code string) (model.ActivityStat, error) {
	out, err := r.query(ctx, activityGroup+`
		AND activite_principale_unite_legale = ?
		GROUP BY activite_principale_unite_legale`, code)
	if err != nil {
		return model.ActivityStat{}, err
	}
	if len(out) == 0 {
		return model.ActivityStat{}, ErrNotFound
	}
	return out[0], nil
}

// TopActivities returns the limit most represented codes.
func (r *StatsRepo) TopActivities(ctx context.Context, limit int) ([]model.ActivityStat, error) {
	return r.query(ctx, activityGroup+`
		GROUP BY activite_principale_unite_legale
		ORDER BY siren_count DESC, activite_principale_unite_legale ASC
		LIMIT ?`, limit)
}

// BottomActivities returns the limit least represented codes.
func (r *StatsRepo) BottomActivities(ctx context.Context, limit int) ([]model.ActivityStat, error) {
	return r.query(ctx, activityGroup+`
		GROUP BY activite_principale_unite_legale
		ORDER BY siren_count ASC, activite_principale_unite_legale ASC
		LIMIT ?`, limit)
}

func (r *StatsRepo) query(ctx context.Context, q string, args ...any) ([]model.ActivityStat, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ActivityStat{}
	for rows.Next() {
		var s model.ActivityStat
		if err := rows.Scan(&s.Code, &s.Count); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
