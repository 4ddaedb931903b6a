package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edusupply/schola-api/internal/repository"
)

// BindNestedOrFlat binds the request body to obj, accepting both a nested
// payload ({"school": {...}}) and a flat one ({...}). Older clients wrap the
// entity under its name; newer ones post it flat.
func BindNestedOrFlat(c *gin.Context, key string, obj interface{}) error {
	var bodyBytes []byte
	if c.Request.Body != nil {
		bodyBytes, _ = io.ReadAll(c.Request.Body)
	}
	// Restore the body for any subsequent reads.
	c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

	var nestedMap map[string]json.RawMessage
	if err := json.Unmarshal(bodyBytes, &nestedMap); err == nil {
		if val, ok := nestedMap[key]; ok {
			return json.Unmarshal(val, obj)
		}
	}

	return json.Unmarshal(bodyBytes, obj)
}

// ParseListQuery reads pagination, sorting and filter params shared by the
// list endpoints
func ParseListQuery(c *gin.Context, filterKeys ...string) *repository.ListQuery {
	query := repository.NewListQuery()

	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		query.Page = page
	}
	if perPage, err := strconv.Atoi(c.DefaultQuery("per_page", "20")); err == nil {
		query.PerPage = perPage
	}
	query.SortBy = c.Query("sort_by")
	if dir := c.Query("sort_dir"); dir == "asc" || dir == "desc" {
		query.SortDir = dir
	}

	for _, key := range filterKeys {
		if value := c.Query(key); value != "" {
			query.Filters[key] = value
		}
	}

	return query
}

// uintParam parses a numeric path param, returning 0 when absent or invalid
func uintParam(c *gin.Context, name string) uint {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(value)
}
