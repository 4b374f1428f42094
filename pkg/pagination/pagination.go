package pagination

import "strings"

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100
)

// Params holds page-based pagination inputs from controllers or services.
type Params struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// Result carries the page metadata returned alongside list payloads.
type Result struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// NormalizePage clamps the page number to at least 1.
func NormalizePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

// Offset returns the row offset for the normalized page/limit pair.
func (p Params) Offset() int {
	return (NormalizePage(p.Page) - 1) * NormalizeLimit(p.Limit)
}

// OrderClause builds a SQL ORDER BY fragment, accepting only whitelisted
// columns so callers cannot inject arbitrary SQL through sortBy.
func (p Params) OrderClause(allowed map[string]string, fallback string) string {
	column := fallback
	if mapped, ok := allowed[p.SortBy]; ok {
		column = mapped
	}
	direction := "ASC"
	if strings.EqualFold(p.SortOrder, "desc") {
		direction = "DESC"
	}
	return column + " " + direction
}

// NewResult computes page metadata from a total row count.
func NewResult(p Params, total int64) Result {
	limit := NormalizeLimit(p.Limit)
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return Result{
		Page:       NormalizePage(p.Page),
		Limit:      limit,
		Total:      total,
		TotalPages: pages,
	}
}
