package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func paginationFor(t *testing.T, query string) *Pagination {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/admin/subscribers?"+query, nil)
	return NewPagination(c)
}

func TestNewPaginationDefaults(t *testing.T) {
	p := paginationFor(t, "")
	if p.Page != 1 || p.Limit != DefaultPaginationLimit || p.Offset != 0 {
		t.Fatalf("got page=%d limit=%d offset=%d", p.Page, p.Limit, p.Offset)
	}
}

func TestNewPaginationClampsLimit(t *testing.T) {
	p := paginationFor(t, "page=3&limit=5000")
	if p.Limit != MaxPaginationLimit {
		t.Fatalf("limit = %d, want %d", p.Limit, MaxPaginationLimit)
	}
	if p.Offset != 2*MaxPaginationLimit {
		t.Fatalf("offset = %d, want %d", p.Offset, 2*MaxPaginationLimit)
	}
}

func TestNewPaginationRejectsGarbage(t *testing.T) {
	p := paginationFor(t, "page=-1&limit=zero")
	if p.Page != 1 || p.Limit != DefaultPaginationLimit {
		t.Fatalf("got page=%d limit=%d", p.Page, p.Limit)
	}
}

func TestSetTotalComputesLastPage(t *testing.T) {
	p := &Pagination{Page: 1, Limit: 10}
	p.SetTotal(21)
	if p.LastPage != 3 {
		t.Fatalf("last page = %d, want 3", p.LastPage)
	}
}
