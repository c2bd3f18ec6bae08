package postgres

import (
	"fmt"
	"strings"

	"orgapi/pkg/common"
)

// orderClause builds a safe ORDER BY clause. The sort field must map to a
// known column and the direction must be asc or desc; anything else is a
// programming error in the calling service, which validates first.
func orderClause(columns map[string]string, q common.PageQuery) (string, error) {
	column, ok := columns[q.SortBy]
	if !ok {
		return "", fmt.Errorf("postgres: unsupported sort field %q", q.SortBy)
	}

	dir := strings.ToUpper(q.SortDir)
	if dir != "ASC" && dir != "DESC" {
		return "", fmt.Errorf("postgres: unsupported sort direction %q", q.SortDir)
	}

	return fmt.Sprintf("ORDER BY %s %s", column, dir), nil
}
