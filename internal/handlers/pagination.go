package handlers

import (
	"math"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/smarttransit/station-booking/internal/models"
	"github.com/smarttransit/station-booking/internal/utils"
)

// PageResponse is the envelope of paginated list endpoints
type PageResponse struct {
	Count    int         `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// Paginator reads page and page_size query parameters
type Paginator struct {
	DefaultSize int
	MaxSize     int
	// Proxies decides whether X-Forwarded-Proto is honoured in page links
	Proxies utils.TrustedProxies
}

// Params parses the page query parameters. A missing or malformed page_size
// falls back to the default; a larger one is capped at MaxSize. A page whose
// offset does not fit an int is as invalid as a non-numeric one.
func (p Paginator) Params(c *gin.Context) (models.PageParams, bool) {
	params := models.PageParams{Page: 1, PageSize: p.DefaultSize}

	if raw := c.Query("page_size"); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil && size > 0 {
			params.PageSize = size
		}
	}
	if p.MaxSize > 0 && params.PageSize > p.MaxSize {
		params.PageSize = p.MaxSize
	}
	if params.PageSize < 1 {
		params.PageSize = 1
	}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 || page-1 > math.MaxInt/params.PageSize {
			notFound(c, "Invalid page.")
			return params, false
		}
		params.Page = page
	}

	return params, true
}

// Response builds the page envelope. It writes a 404 and returns false when
// the requested page lies past the last one.
func (p Paginator) Response(c *gin.Context, params models.PageParams, total int, results interface{}) (PageResponse, bool) {
	if params.Page > 1 && (params.Offset() < 0 || params.Offset() >= total) {
		notFound(c, "Invalid page.")
		return PageResponse{}, false
	}

	resp := PageResponse{Count: total, Results: results}
	if params.Offset()+params.PageSize < total {
		next := p.pageURL(c, params.Page+1)
		resp.Next = &next
	}
	if params.Page > 1 {
		previous := p.pageURL(c, params.Page-1)
		resp.Previous = &previous
	}
	return resp, true
}

func (p Paginator) pageURL(c *gin.Context, page int) string {
	scheme := p.Proxies.Scheme(c)

	query := c.Request.URL.Query()
	if page == 1 {
		query.Del("page")
	} else {
		query.Set("page", strconv.Itoa(page))
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: query.Encode(),
	}
	return u.String()
}
