package persistence

import (
	"strings"

	"gorm.io/gorm/clause"
)

// sortSpec whitelists the columns a list endpoint may be ordered by.
// Unknown keys fall back to the default column so user input never reaches SQL.
type sortSpec struct {
	table    string
	columns  map[string]struct{}
	fallback string
}

func newSortSpec(table, fallback string, columns ...string) sortSpec {
	set := map[string]struct{}{"id": {}, "created_at": {}, "updated_at": {}}
	for _, c := range columns {
		set[c] = struct{}{}
	}
	return sortSpec{table: table, columns: set, fallback: fallback}
}

var (
	itemSort     = newSortSpec("items", "created_at", "status", "item_type_id", "sell_price")
	itemTypeSort = newSortSpec("item_types", "name", "name", "active")
	userSort     = newSortSpec("users", "created_at", "username", "display_name", "role", "active")
	tenantSort   = newSortSpec("tenants", "created_at", "code", "name", "active")
)

// column resolves a requested sort key, falling back to the default.
func (s sortSpec) column(key string) string {
	key = strings.TrimSpace(key)
	if _, ok := s.columns[key]; ok {
		return key
	}
	return s.fallback
}

// orderBy returns the primary ordering. Direction defaults to descending.
func (s sortSpec) orderBy(key, dir string) clause.OrderByColumn {
	return clause.OrderByColumn{
		Column: clause.Column{Table: s.table, Name: s.column(key)},
		Desc:   !strings.EqualFold(strings.TrimSpace(dir), "asc"),
	}
}

// tiebreak keeps pagination stable when the primary column has duplicates.
func (s sortSpec) tiebreak() clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Table: s.table, Name: "id"}}
}
