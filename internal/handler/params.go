package handler

import (
	"fmt"
	"math"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/siren-services/internal/apperror"
	"github.com/iliyamo/siren-services/internal/repository"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// queryInt reads an integer query parameter in [min, max], or def when it is
// absent.
func queryInt(c echo.Context, name string, def, min, max int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.New(apperror.InvalidRequest, fmt.Sprintf("%s must be an integer", name))
	}
	if n < min || n > max {
		return 0, apperror.New(apperror.InvalidRequest, fmt.Sprintf("%s must be between %d and %d", name, min, max))
	}
	return n, nil
}

func parseLimit(c echo.Context) (int, error) {
	return queryInt(c, "limit", defaultLimit, 1, maxLimit)
}

func parsePage(c echo.Context) (repository.Page, error) {
	page, err := queryInt(c, "page", 1, 1, math.MaxInt32)
	if err != nil {
		return repository.Page{}, err
	}
	limit, err := parseLimit(c)
	if err != nil {
		return repository.Page{}, err
	}
	return repository.Page{Number: page, Limit: limit}, nil
}
