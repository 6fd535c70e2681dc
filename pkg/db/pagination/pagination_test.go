package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	p := Pagination{}.Normalize(5, 50)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 5, p.PageSize)

	p = Pagination{Page: -3, PageSize: 500}.Normalize(5, 50)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 50, p.PageSize)

	p = Pagination{Page: 3, PageSize: 10}.Normalize(5, 50)
	assert.Equal(t, 20, p.Offset())
	assert.Equal(t, 10, p.Limit())
}

func TestBuildPageInfo(t *testing.T) {
	info := BuildPageInfo(Pagination{Page: 1, PageSize: 5}, 12)
	assert.Equal(t, 3, info.TotalPages)
	assert.True(t, info.HasMore)

	info = BuildPageInfo(Pagination{Page: 3, PageSize: 5}, 12)
	assert.False(t, info.HasMore)

	info = BuildPageInfo(Pagination{Page: 1, PageSize: 5}, 0)
	assert.Equal(t, 0, info.TotalPages)
	assert.False(t, info.HasMore)
}
