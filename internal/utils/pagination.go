package utils

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/dropoff-point-api/internal/constants"
)

// PaginationParams holds skip/limit pagination parameters.
type PaginationParams struct {
	Skip    int
	Limit   int
	Enabled bool
}

// DefaultPagination is the first page with the default size.
func DefaultPagination() PaginationParams {
	return PaginationParams{
		Skip:    0,
		Limit:   constants.DefaultPageSize,
		Enabled: true,
	}
}

// GetPaginationParams extracts and validates skip, limit and
// use_pagination from the query string.
func GetPaginationParams(c *gin.Context) (PaginationParams, error) {
	params := DefaultPagination()

	if raw, ok := c.GetQuery("skip"); ok {
		skip, err := strconv.Atoi(raw)
		if err != nil || skip < 0 {
			return params, fmt.Errorf("skip must be a non-negative integer")
		}
		params.Skip = skip
	}

	if raw, ok := c.GetQuery("limit"); ok {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return params, fmt.Errorf("limit must be a positive integer")
		}
		if limit > constants.MaxPageSize {
			limit = constants.MaxPageSize
		}
		params.Limit = limit
	}

	if raw, ok := c.GetQuery("use_pagination"); ok {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return params, fmt.Errorf("use_pagination must be a boolean")
		}
		params.Enabled = enabled
	}

	return params, nil
}
