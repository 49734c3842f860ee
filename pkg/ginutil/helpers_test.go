package ginutil

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testContext(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return c
}

func TestPagination(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "/x", 1, DefaultPageSize},
		{"explicit", "/x?page=3&limit=5", 3, 5},
		{"per_page alias", "/x?per_page=7", 1, 7},
		{"clamped", "/x?page=-1&limit=1000", 1, MaxPageSize},
		{"garbage", "/x?page=abc&limit=0", 1, DefaultPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := Pagination(testContext(tt.target))
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestParamUint64(t *testing.T) {
	c := testContext("/x")
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	id, err := ParamUint64(c, "id")
	assert.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	c.Params = gin.Params{{Key: "id", Value: "x"}}
	_, err = ParamUint64(c, "id")
	assert.Error(t, err)
}
