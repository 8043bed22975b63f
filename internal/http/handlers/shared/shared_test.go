package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dawit-coffee/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
)

func TestNormalizePagination(t *testing.T) {
	cases := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{0, 0, 1, 20},
		{3, 50, 3, 50},
		{-1, 500, 1, 100},
	}
	for _, tc := range cases {
		page, size := NormalizePagination(tc.page, tc.size)
		if page != tc.wantPage || size != tc.wantSize {
			t.Fatalf("NormalizePagination(%d,%d) = %d,%d", tc.page, tc.size, page, size)
		}
	}
	if TotalPages(41, 20) != 3 || TotalPages(0, 20) != 0 {
		t.Fatalf("unexpected total pages")
	}
	if ParsePageQuery("x") != 0 || ParsePageQuery(" 4 ") != 4 {
		t.Fatalf("unexpected page query parsing")
	}
}

func TestRespondErrorTranslates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?lang=en", nil)
	RespondError(c, response.CodeBadRequest, "error.empty_cart", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status want 400 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Cart is empty") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestSessionID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if SessionID(c) != "" {
		t.Fatalf("missing session should be empty")
	}
	c.Set(SessionIDKey, "abc")
	if SessionID(c) != "abc" {
		t.Fatalf("session id want abc")
	}
}
