package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/clause"
)

func TestSortSpec_Column(t *testing.T) {
	tests := []struct {
		name string
		spec sortSpec
		key  string
		want string
	}{
		{"empty key uses fallback", itemSort, "", "created_at"},
		{"whitelisted key", itemSort, "sell_price", "sell_price"},
		{"common column allowed everywhere", tenantSort, "updated_at", "updated_at"},
		{"surrounding whitespace trimmed", userSort, "  username ", "username"},
		{"keys are case sensitive", itemTypeSort, "NAME", "name"},
		{"column of another table rejected", tenantSort, "username", "created_at"},
		{"item types default to name", itemTypeSort, "bogus", "name"},
		{"injection attempt falls back", itemSort, "id; DROP TABLE items;--", "created_at"},
		{"subquery falls back", userSort, "(SELECT 1)", "created_at"},
		{"trailing clause falls back", itemSort, "id ORDER BY 1", "created_at"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.spec.column(tt.key))
		})
	}
}

func TestSortSpec_OrderBy(t *testing.T) {
	t.Run("ascending only when asked", func(t *testing.T) {
		for _, dir := range []string{"asc", "ASC", " Asc "} {
			assert.False(t, itemSort.orderBy("status", dir).Desc, dir)
		}
		for _, dir := range []string{"", "desc", "ASC; DROP TABLE items", "up"} {
			assert.True(t, itemSort.orderBy("status", dir).Desc, dir)
		}
	})

	t.Run("columns are table qualified", func(t *testing.T) {
		got := itemSort.orderBy("status", "asc")
		assert.Equal(t, clause.Column{Table: "items", Name: "status"}, got.Column)
	})

	t.Run("tiebreak is ascending id", func(t *testing.T) {
		assert.Equal(t, clause.OrderByColumn{Column: clause.Column{Table: "users", Name: "id"}}, userSort.tiebreak())
	})
}
