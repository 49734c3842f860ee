package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"not found", ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("article 7: %w", ErrNotFound), http.StatusNotFound},
		{"slug conflict", ErrSlugConflict, http.StatusConflict},
		{"duplicate email", ErrEmailTaken, http.StatusConflict},
		{"duplicate username", ErrUsernameTaken, http.StatusConflict},
		{"circular wiki parent", ErrCircularReference, http.StatusBadRequest},
		{"wiki page with children", ErrHasChildren, http.StatusBadRequest},
		{"invalid file type", ErrInvalidFileType, http.StatusBadRequest},
		{"bad credentials", ErrInvalidCredentials, http.StatusUnauthorized},
		{"revoked token", ErrTokenRevoked, http.StatusUnauthorized},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestHandleError_HidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	HandleError(c, errors.New("dial tcp 10.0.0.1:3306: connection refused"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", resp.Error.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.1")
}

func TestHandleError_Conflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/x", nil)

	HandleError(c, fmt.Errorf("create article: %w", ErrSlugConflict))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "CONFLICT")
}

func TestNewMeta(t *testing.T) {
	m := NewMeta(2, 20, 41)
	assert.Equal(t, int64(3), m.TotalPages)

	m = NewMeta(1, 20, 0)
	assert.Equal(t, int64(0), m.TotalPages)
}
