package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PerPage)
	assert.Equal(t, 0, p.Offset)
}

func TestFromRequest_ValidParams(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/services?page=3&per_page=10", nil)
	p := FromRequest(req)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 10, p.PerPage)
	assert.Equal(t, 20, p.Offset)
}

func TestFromRequest_InvalidParamsFallBackToDefaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/services?page=abc&per_page=-5", nil)
	p := FromRequest(req)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PerPage)
}

func TestFromRequest_PerPageCapped(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/services?per_page=500", nil)
	p := FromRequest(req)
	assert.Equal(t, 20, p.PerPage, "per_page above 100 should fall back to default")
}
