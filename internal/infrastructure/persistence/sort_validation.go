package persistence

import (
	"strings"

	"gorm.io/gorm/clause"
)

const defaultSortColumn = "created_at"

// sortColumns whitelists the columns a list query may order by.
// Anything else falls back to created_at, newest first.
type sortColumns map[string]struct{}

func newSortColumns(cols ...string) sortColumns {
	s := make(sortColumns, len(cols)+1)
	s[defaultSortColumn] = struct{}{}
	for _, c := range cols {
		s[c] = struct{}{}
	}
	return s
}

// orderBy returns a quoted ORDER BY column; direction defaults to descending
func (s sortColumns) orderBy(field, dir string) clause.OrderByColumn {
	col := strings.TrimSpace(field)
	if _, ok := s[col]; !ok {
		col = defaultSortColumn
	}
	return clause.OrderByColumn{
		Column: clause.Column{Name: col},
		Desc:   !strings.EqualFold(strings.TrimSpace(dir), "asc"),
	}
}

var accountSortColumns = newSortColumns("id", "updated_at", "name", "merchant_id", "marketplace_id")
