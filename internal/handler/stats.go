package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/siren-services/internal/apperror"
	"github.com/iliyamo/siren-services/internal/model"
	"github.com/iliyamo/siren-services/internal/repository"
)

// StatsReader aggregates companies by activity code.
type StatsReader interface {
	CountByActivity(ctx context.Context, p repository.Page) ([]model.ActivityStat, int64, error)
	ActivityCount(ctx context.Context, code string) (model.ActivityStat, error)
	TopActivities(ctx context.Context, limit int) ([]model.ActivityStat, error)
	BottomActivities(ctx context.Context, limit int) ([]model.ActivityStat, error)
}

type StatsHandler struct {
	Repo StatsReader
}

func NewStatsHandler(r StatsReader) *StatsHandler { return &StatsHandler{Repo: r} }

// AggregateRating is the number of companies under one activity code.
type AggregateRating struct {
	Context     []any  `json:"@context,omitempty" swaggertype:"array,object"`
	Type        string `json:"@type"`
	ID          string `json:"@id" example:"activity:62.01Z"`
	Identifier  string `json:"identifier" example:"62.01Z"`
	RatingCount int64  `json:"ratingCount" example:"1234"`
}

func toRating(s model.ActivityStat) AggregateRating {
	return AggregateRating{
		Type:        "AggregateRating",
		ID:          "activity:" + s.Code,
		Identifier:  s.Code,
		RatingCount: s.Count,
	}
}

func toRatings(stats []model.ActivityStat) []AggregateRating {
	out := make([]AggregateRating, 0, len(stats))
	for _, s := range stats {
		out = append(out, toRating(s))
	}
	return out
}

// Count lists per-code counts, most represented first.
//
//	@Summary	Companies per activity code
//	@Tags		stats
//	@Produce	json
//	@Security	BearerAuth
//	@Param		page	query		int	false	"page number"	default(1)	minimum(1)
//	@Param		limit	query		int	false	"page size"		default(20)	minimum(1)	maximum(100)
//	@Success	200		{object}	ItemList[AggregateRating]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	401		{object}	ErrorResponse
//	@Router		/v1/stats/activites/count [get]
func (h *StatsHandler) Count(c echo.Context) error {
	p, err := parsePage(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), queryTimeout)
	defer cancel()

	stats, total, err := h.Repo.CountByActivity(ctx, p)
	if err != nil {
		return fmt.Errorf("count by activity: %w", err)
	}
	pg := newPagination(collectionURL(c), nil, p.Number, p.Limit, total)
	return jsonLD(c, http.StatusOK, newItemList(toRatings(stats), total, pg))
}

// Filter returns the count of a single activity code.
//
//	@Summary	Companies for one activity code
//	@Tags		stats
//	@Produce	json
//	@Security	BearerAuth
//	@Param		code	query		string	true	"NAF/APE code"
//	@Success	200		{object}	AggregateRating
//	@Failure	400		{object}	ErrorResponse
//	@Failure	401		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/v1/stats/activites/filter [get]
func (h *StatsHandler) Filter(c echo.Context) error {
	code := c.QueryParam("code")
	if code == "" {
		return apperror.New(apperror.InvalidRequest, "code is required")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), queryTimeout)
	defer cancel()

	s, err := h.Repo.ActivityCount(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.New(apperror.NotFound, fmt.Sprintf("no data found for activity code %s", code))
	}
	if err != nil {
		return fmt.Errorf("activity count %s: %w", code, err)
	}
	r := toRating(s)
	r.Context = collectionContext
	return jsonLD(c, http.StatusOK, r)
}

// Top lists the most represented activity codes.
//
//	@Summary	Most represented activity codes
//	@Tags		stats
//	@Produce	json
//	@Security	BearerAuth
//	@Param		limit	query		int	false	"number of codes"	default(20)	minimum(1)	maximum(100)
//	@Success	200		{object}	ItemList[AggregateRating]
//	@Failure	401		{object}	ErrorResponse
//	@Router		/v1/stats/activites/top [get]
func (h *StatsHandler) Top(c echo.Context) error {
	return h.ranked(c, h.Repo.TopActivities)
}

// Bottom lists the least represented activity codes.
//
//	@Summary	Least represented activity codes
//	@Tags		stats
//	@Produce	json
//	@Security	BearerAuth
//	@Param		limit	query		int	false	"number of codes"	default(20)	minimum(1)	maximum(100)
//	@Success	200		{object}	ItemList[AggregateRating]
//	@Failure	401		{object}	ErrorResponse
//	@Router		/v1/stats/activites/bottom [get]
func (h *StatsHandler) Bottom(c echo.Context) error {
	return h.ranked(c, h.Repo.BottomActivities)
}

func (h *StatsHandler) ranked(c echo.Context, fetch func(context.Context, int) ([]model.ActivityStat, error)) error {
	limit, err := parseLimit(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), queryTimeout)
	defer cancel()

	stats, err := fetch(ctx, limit)
	if err != nil {
		return fmt.Errorf("ranked activities: %w", err)
	}
	items := toRatings(stats)
	return jsonLD(c, http.StatusOK, newItemList(items, int64(len(items)), nil))
}
