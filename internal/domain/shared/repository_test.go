package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Normalize(t *testing.T) {
	t.Run("fills defaults", func(t *testing.T) {
		f := Filter{}.Normalize(100)
		assert.Equal(t, 1, f.Page)
		assert.Equal(t, 20, f.PageSize)
		assert.Equal(t, "desc", f.OrderDir)
		assert.Equal(t, 0, f.Offset())
	})

	t.Run("caps page size", func(t *testing.T) {
		f := Filter{Page: 3, PageSize: 500, OrderDir: "asc"}.Normalize(100)
		assert.Equal(t, 100, f.PageSize)
		assert.Equal(t, "asc", f.OrderDir)
		assert.Equal(t, 200, f.Offset())
	})
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated([]int{1, 2}, 41, 1, 20)
	assert.Equal(t, 3, p.TotalPages)
	assert.Len(t, p.Items, 2)

	empty := NewPaginated([]int{}, 0, 1, 20)
	assert.Equal(t, 0, empty.TotalPages)
}
