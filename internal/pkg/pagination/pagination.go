package pagination

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Params represents pagination parameters. Page is 0-based to match the
// convention the web clients already use.
type Params struct {
	Page   int    `json:"page"`
	Size   int    `json:"size"`
	Sort   string `json:"-"` // "field,direction"
	Offset int    `json:"-"`
}

// DefaultSize is the default number of items per page
const DefaultSize = 20

// MaxSize is the maximum number of items per page
const MaxSize = 100

// GetParams extracts pagination parameters from the request query:
// page (0-based), size, and sort as "field,direction".
func GetParams(c *fiber.Ctx) *Params {
	page, _ := strconv.Atoi(c.Query("page", "0"))
	size, _ := strconv.Atoi(c.Query("size", strconv.Itoa(DefaultSize)))

	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}

	return &Params{
		Page:   page,
		Size:   size,
		Sort:   c.Query("sort", ""),
		Offset: page * size,
	}
}

// OrderClause converts the sort parameter into an ORDER BY clause restricted
// to a whitelist of sortable columns. Returns fallback when the parameter is
// absent or names a column outside the whitelist.
func (p *Params) OrderClause(allowed map[string]string, fallback string) string {
	if p.Sort == "" {
		return fallback
	}

	parts := strings.SplitN(p.Sort, ",", 2)
	column, ok := allowed[strings.TrimSpace(parts[0])]
	if !ok {
		return fallback
	}

	direction := "asc"
	if len(parts) == 2 && strings.EqualFold(strings.TrimSpace(parts[1]), "desc") {
		direction = "desc"
	}

	return column + " " + direction
}

// Page is the paginated response envelope.
type Page struct {
	Content       interface{} `json:"content"`
	Page          int         `json:"page"`
	Size          int         `json:"size"`
	TotalElements int64       `json:"totalElements"`
	TotalPages    int         `json:"totalPages"`
	HasNext       bool        `json:"hasNext"`
	HasPrev       bool        `json:"hasPrev"`
}

// NewPage builds a paginated response from content and total count.
func NewPage(content interface{}, params *Params, total int64) *Page {
	totalPages := int(total) / params.Size
	if int(total)%params.Size > 0 {
		totalPages++
	}

	return &Page{
		Content:       content,
		Page:          params.Page,
		Size:          params.Size,
		TotalElements: total,
		TotalPages:    totalPages,
		HasNext:       params.Page+1 < totalPages,
		HasPrev:       params.Page > 0,
	}
}
