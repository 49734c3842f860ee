package service

import (
	"strings"
	"testing"

	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestMakeSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Go 1.24 released!  ", "go-1-24-released"},
		{"Crème brûlée", "creme-brulee"},
		{"!!!", "untitled"},
		{"", "untitled"},
	}
	for _, tt := range tests {
		got := MakeSlug(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.True(t, domain.IsSlug(got), got)
	}

	long := MakeSlug(strings.Repeat("word ", 100))
	assert.LessOrEqual(t, len(long), maxSlugLength)
	assert.True(t, domain.IsSlug(long))
}
