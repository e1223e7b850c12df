package helpers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestParseDuration(t *testing.T) {
	if got := ParseDuration("15m", time.Hour); got != 15*time.Minute {
		t.Fatalf("expected 15m, got %v", got)
	}
	if got := ParseDuration("soon", time.Hour); got != time.Hour {
		t.Fatalf("expected fallback, got %v", got)
	}
}

func TestCalculateOffsetLimit(t *testing.T) {
	tests := []struct {
		page, size   int
		offset, lim int
	}{
		{1, 10, 0, 10},
		{3, 10, 20, 10},
		{0, 0, 0, DefaultPageSize},
		{2, MaxPageSize + 1, DefaultPageSize, DefaultPageSize},
	}
	for _, tt := range tests {
		offset, limit := CalculateOffsetLimit(tt.page, tt.size)
		if offset != tt.offset || limit != tt.lim {
			t.Errorf("CalculateOffsetLimit(%d, %d) = %d, %d; want %d, %d", tt.page, tt.size, offset, limit, tt.offset, tt.lim)
		}
	}
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(42, 9, 10)
	if info.TotalPages != 5 || info.CurrentPage != 5 || info.TotalItems != 42 {
		t.Fatalf("unexpected pagination info: %+v", info)
	}

	empty := NewPaginationInfo(0, 1, 10)
	if empty.TotalPages != 1 {
		t.Fatalf("expected single empty page, got %+v", empty)
	}
}

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/registrations", nil)
	if _, _, ok := ParsePaginationParams(c); ok {
		t.Fatal("expected no pagination without query parameters")
	}

	c.Request = httptest.NewRequest("GET", "/api/registrations?page=2&size=500", nil)
	page, size, ok := ParsePaginationParams(c)
	if !ok || page != 2 || size != DefaultPageSize {
		t.Fatalf("unexpected params: page=%d size=%d ok=%v", page, size, ok)
	}
}
