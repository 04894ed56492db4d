package handler

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

// MIMEApplicationLDJSON is the media type of every JSON-LD response.
const MIMEApplicationLDJSON = "application/ld+json; charset=utf-8"

var (
	schemaContext = []any{
		"https://schema.org/",
		map[string]string{"hydra": "http://www.w3.org/ns/hydra/core#"},
	}
	collectionContext = []any{
		"https://schema.org/",
		map[string]string{
			"hydra":      "http://www.w3.org/ns/hydra/core#",
			"view":       "hydra:view",
			"first":      "hydra:first",
			"last":       "hydra:last",
			"next":       "hydra:next",
			"previous":   "hydra:previous",
			"totalItems": "hydra:totalItems",
		},
	}
)

// HydraView links the neighbouring pages of a collection.
type HydraView struct {
	ID       string `json:"@id"`
	Type     string `json:"@type"`
	First    string `json:"first,omitempty"`
	Previous string `json:"previous,omitempty"`
	Next     string `json:"next,omitempty"`
	Last     string `json:"last,omitempty"`
}

// Pagination describes the page of a collection being returned.
type Pagination struct {
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalItems int64      `json:"totalItems"`
	TotalPages int        `json:"total_pages"`
	HasNext    bool       `json:"has_next"`
	HasPrev    bool       `json:"has_prev"`
	View       *HydraView `json:"view,omitempty"`
}

// ItemList is a schema.org ItemList holding one page of results.
type ItemList[T any] struct {
	Context         []any       `json:"@context"`
	Type            string      `json:"@type"`
	NumberOfItems   int         `json:"numberOfItems"`
	TotalItems      int64       `json:"totalItems"`
	ItemListElement []T         `json:"itemListElement"`
	Pagination      *Pagination `json:"pagination,omitempty"`
}

func newItemList[T any](items []T, total int64, p *Pagination) ItemList[T] {
	if items == nil {
		items = []T{}
	}
	return ItemList[T]{
		Context:         collectionContext,
		Type:            "ItemList",
		NumberOfItems:   len(items),
		TotalItems:      total,
		ItemListElement: items,
		Pagination:      p,
	}
}

// totalPages is ceil(total/limit), and 1 for an empty collection.
func totalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 1
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// newPagination builds the pagination block. base is the collection URL
// without a query; extra holds the filter parameters that every link must
// repeat, already in the order they should appear.
func newPagination(base string, extra [][2]string, page, limit int, total int64) *Pagination {
	pages := totalPages(total, limit)
	link := func(n int) string {
		var b strings.Builder
		b.WriteString(base)
		b.WriteByte('?')
		for _, kv := range extra {
			b.WriteString(url.QueryEscape(kv[0]))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(kv[1]))
			b.WriteByte('&')
		}
		fmt.Fprintf(&b, "page=%d&limit=%d", n, limit)
		return b.String()
	}

	view := &HydraView{ID: link(page), Type: "hydra:PartialCollectionView"}
	if page > 1 {
		view.First = link(1)
		view.Previous = link(page - 1)
	}
	if page < pages {
		view.Next = link(page + 1)
		view.Last = link(pages)
	}
	return &Pagination{
		Page:       page,
		Limit:      limit,
		TotalItems: total,
		TotalPages: pages,
		HasNext:    page < pages,
		HasPrev:    page > 1,
		View:       view,
	}
}

// collectionURL is the absolute URL of the current request path.
func collectionURL(c echo.Context) string {
	return c.Scheme() + "://" + c.Request().Host + c.Request().URL.Path
}

func jsonLD(c echo.Context, status int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Blob(status, MIMEApplicationLDJSON, b)
}
