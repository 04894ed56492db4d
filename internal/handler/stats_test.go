package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/siren-services/internal/model"
	"github.com/iliyamo/siren-services/internal/repository"
)

// fakeStats holds stats sorted by descending count.
type fakeStats struct {
	stats     []model.ActivityStat
	lastLimit int
}

func (f *fakeStats) CountByActivity(_ context.Context, p repository.Page) ([]model.ActivityStat, int64, error) {
	start := min(p.Offset(), len(f.stats))
	end := min(start+p.Limit, len(f.stats))
	return f.stats[start:end], int64(len(f.stats)), nil
}

func (f *fakeStats) ActivityCount(_ context.Context, code string) (model.ActivityStat, error) {
	for _, s := range f.stats {
		if s.Code == code {
			return s, nil
		}
	}
	return model.ActivityStat{}, repository.ErrNotFound
}

func (f *fakeStats) TopActivities(_ context.Context, limit int) ([]model.ActivityStat, error) {
	f.lastLimit = limit
	return f.stats[:min(limit, len(f.stats))], nil
}

func (f *fakeStats) BottomActivities(_ context.Context, limit int) ([]model.ActivityStat, error) {
	f.lastLimit = limit
	var out []model.ActivityStat
	for i := len(f.stats) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.stats[i])
	}
	return out, nil
}

func statsEcho(r StatsReader) *echo.Echo {
	h := NewStatsHandler(r)
	e := newEcho()
	g := e.Group("/v1/stats/activites")
	g.GET("/count", h.Count)
	g.GET("/filter", h.Filter)
	g.GET("/top", h.Top)
	g.GET("/bottom", h.Bottom)
	return e
}

func sampleStats() *fakeStats {
	return &fakeStats{stats: []model.ActivityStat{
		{Code: "68.20B", Count: 900},
		{Code: "70.10Z", Count: 500},
		{Code: "62.01Z", Count: 120},
		{Code: "01.11Z", Count: 3},
	}}
}

func TestStatsCount(t *testing.T) {
	e := statsEcho(sampleStats())
	rec := do(e, http.MethodGet, "/v1/stats/activites/count?limit=3", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, MIMEApplicationLDJSON, rec.Header().Get(echo.HeaderContentType))

	var body ItemList[AggregateRating]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(4), body.TotalItems)
	require.Len(t, body.ItemListElement, 3)
	assert.Equal(t, AggregateRating{Type: "AggregateRating", ID: "activity:68.20B", Identifier: "68.20B", RatingCount: 900}, body.ItemListElement[0])
	require.NotNil(t, body.Pagination)
	assert.Equal(t, 2, body.Pagination.TotalPages)
	assert.True(t, body.Pagination.HasNext)
}

func TestStatsFilter(t *testing.T) {
	e := statsEcho(sampleStats())

	rec := do(e, http.MethodGet, "/v1/stats/activites/filter?code=62.01Z", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body AggregateRating
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(120), body.RatingCount)
	assert.NotEmpty(t, body.Context)

	rec = do(e, http.MethodGet, "/v1/stats/activites/filter?code=99.99Z", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"not_found"`)

	rec = do(e, http.MethodGet, "/v1/stats/activites/filter", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatsTopAndBottom(t *testing.T) {
	repo := sampleStats()
	e := statsEcho(repo)

	rec := do(e, http.MethodGet, "/v1/stats/activites/top?limit=2", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var top ItemList[AggregateRating]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &top))
	assert.Equal(t, 2, repo.lastLimit)
	require.Len(t, top.ItemListElement, 2)
	assert.Equal(t, "68.20B", top.ItemListElement[0].Identifier)
	assert.Equal(t, int64(2), top.TotalItems)
	assert.Nil(t, top.Pagination)

	rec = do(e, http.MethodGet, "/v1/stats/activites/bottom", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var bottom ItemList[AggregateRating]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bottom))
	assert.Equal(t, defaultLimit, repo.lastLimit)
	require.Len(t, bottom.ItemListElement, 4)
	assert.Equal(t, "01.11Z", bottom.ItemListElement[0].Identifier)
}
