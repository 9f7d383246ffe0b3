package pagination

import (
	"net/http"
	"strconv"
)

// Params holds pagination parameters extracted from query strings.
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Offset  int `json:"-"`
}

// DefaultParams returns sensible pagination defaults.
func DefaultParams() Params {
	return Params{
		Page:    1,
		PerPage: 20,
		Offset:  0,
	}
}

// FromRequest extracts pagination parameters from an HTTP request.
// Page defaults to 1, per_page defaults to 20 and is capped at 100.
func FromRequest(r *http.Request) Params {
	p := DefaultParams()

	if page := r.URL.Query().Get("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 0 {
			p.Page = v
		}
	}

	if perPage := r.URL.Query().Get("per_page"); perPage != "" {
		if v, err := strconv.Atoi(perPage); err == nil && v > 0 && v <= 100 {
			p.PerPage = v
		}
	}

	p.Offset = (p.Page - 1) * p.PerPage
	return p
}
