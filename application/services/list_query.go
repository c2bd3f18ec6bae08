package services

import (
	"fmt"

	"orgapi/pkg/common"
	"orgapi/pkg/errors"
)

// ListQuery carries raw paging input from the HTTP layer. Zero values mean
// "not provided" and fall back to the defaults here.
type ListQuery struct {
	Page     int
	PageSize int
	SortBy   string
	SortDir  string
}

// normalizeListQuery clamps paging values and checks the sort field and
// direction against the per-resource allow-list. Rejections carry the
// allowed values in the error details.
func normalizeListQuery(q ListQuery, allowedFields []string, defaultField string) (common.PageQuery, error) {
	page := q.Page
	if page == 0 {
		page = common.DefaultPage
	}
	pageSize := q.PageSize
	if pageSize == 0 {
		pageSize = common.DefaultPageSize
	}

	out := common.PageQuery{
		Page:     common.ClampInt(page, common.MinPage, common.MaxPage),
		PageSize: common.ClampInt(pageSize, common.MinPageSize, common.MaxPageSize),
		SortBy:   q.SortBy,
		SortDir:  q.SortDir,
	}

	if out.SortBy == "" {
		out.SortBy = defaultField
	}
	if !contains(allowedFields, out.SortBy) {
		return common.PageQuery{}, errors.NewBadRequestErrorf("Unsupported sortBy: %s", out.SortBy).
			WithDetails(map[string]interface{}{"allowed": allowedFields})
	}

	if out.SortDir == "" {
		out.SortDir = "asc"
	}
	if out.SortDir != "asc" && out.SortDir != "desc" {
		return common.PageQuery{}, errors.NewBadRequestError(fmt.Sprintf("Unsupported sortDir: %s", out.SortDir)).
			WithDetails(map[string]interface{}{"allowed": []string{"asc", "desc"}})
	}

	return out, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
