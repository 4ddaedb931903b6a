package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type bindTarget struct {
	Name        string  `json:"name"`
	CreditLimit float64 `json:"credit_limit"`
}

func TestBindNestedOrFlat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		key         string
		body        string
		expected    bindTarget
		expectError bool
	}{
		{
			name:     "Nested payload",
			key:      "school",
			body:     `{"school": {"name": "Hilltop Academy", "credit_limit": 50000}}`,
			expected: bindTarget{Name: "Hilltop Academy", CreditLimit: 50000},
		},
		{
			name:     "Flat payload",
			key:      "school",
			body:     `{"name": "Green Valley", "credit_limit": 20000}`,
			expected: bindTarget{Name: "Green Valley", CreditLimit: 20000},
		},
		{
			name:     "Missing key falls back to flat",
			key:      "school",
			body:     `{"other": 1, "name": "St. Jude", "credit_limit": 0}`,
			expected: bindTarget{Name: "St. Jude"},
		},
		{
			name:        "Wrong field type",
			key:         "school",
			body:        `{"name": "Bad", "credit_limit": "lots"}`,
			expectError: true,
		},
		{
			name:        "Nested key with non-object value",
			key:         "school",
			body:        `{"school": "just a string"}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request, _ = http.NewRequest("POST", "/schools", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var target bindTarget
			err := BindNestedOrFlat(c, tt.key, &target)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, target)
		})
	}
}

func TestParseListQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/invoices?page=3&per_page=50&sort_by=invoice_date&sort_dir=asc&school_id=7&ignored=x", nil)

	query := ParseListQuery(c, "school_id")

	assert.Equal(t, 3, query.Page)
	assert.Equal(t, 50, query.PerPage)
	assert.Equal(t, "invoice_date", query.SortBy)
	assert.Equal(t, "asc", query.SortDir)
	assert.Equal(t, "7", query.Filters["school_id"])
	_, ok := query.Filters["ignored"]
	assert.False(t, ok, "filters not named by the handler should be dropped")
}

func TestParseListQueryDefaults(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/invoices", nil)

	query := ParseListQuery(c)

	assert.Equal(t, 1, query.Page)
	assert.Equal(t, 20, query.PerPage)
	assert.Equal(t, "desc", query.SortDir)
	assert.Empty(t, query.Filters)
}

func TestUintParam(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "school_id", Value: "42"}, {Key: "bad", Value: "abc"}}

	assert.Equal(t, uint(42), uintParam(c, "school_id"))
	assert.Equal(t, uint(0), uintParam(c, "bad"))
	assert.Equal(t, uint(0), uintParam(c, "missing"))
}
