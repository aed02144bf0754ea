package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeClamps(t *testing.T) {
	assert.Equal(t, Pagination{Page: 1, PerPage: 20}, Pagination{}.Normalize())
	assert.Equal(t, Pagination{Page: 1, PerPage: 100}, Pagination{Page: -3, PerPage: 1000}.Normalize())
	assert.Equal(t, Pagination{Page: 4, PerPage: 5}, Pagination{Page: 4, PerPage: 5}.Normalize())
}

func TestOffsetAndPageInfo(t *testing.T) {
	p := Pagination{Page: 3, PerPage: 10}
	assert.Equal(t, 20, p.Offset())
	assert.Equal(t, 10, p.Limit())

	info := BuildPageInfo(p, 41)
	assert.Equal(t, 5, info.TotalPages)
	assert.True(t, info.HasMore)

	last := BuildPageInfo(Pagination{Page: 5, PerPage: 10}, 41)
	assert.False(t, last.HasMore)

	empty := BuildPageInfo(Pagination{}, 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasMore)
}
