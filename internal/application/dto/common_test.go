package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewListResponse(t *testing.T) {
	full := NewListResponse([]string{"a", "b"}, 2, 4)
	assert.Equal(t, PageResponse{Limit: 2, Offset: 4, Count: 2, HasMore: true}, full.Page)

	empty := NewListResponse[string](nil, 20, 0)
	assert.NotNil(t, empty.Items)
	assert.False(t, empty.Page.HasMore)
}

func TestPageRequest_DefaultPage(t *testing.T) {
	p := PageRequest{Offset: -3}
	p.DefaultPage()
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, 0, p.Offset)
}
