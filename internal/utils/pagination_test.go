package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculatePagination(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		limit    int
		total    int64
		lastPage int
		from     int
		to       int
		hasMore  bool
	}{
		{"first of many", 1, 25, 120, 5, 1, 25, true},
		{"middle page", 3, 25, 120, 5, 51, 75, true},
		{"last partial page", 5, 25, 120, 5, 101, 120, false},
		{"empty set", 1, 25, 0, 0, 0, 0, false},
		{"single page", 1, 25, 10, 1, 1, 10, false},
		{"invalid page clamps to 1", 0, 25, 50, 2, 1, 25, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := CalculatePagination(tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.lastPage, meta.LastPage)
			assert.Equal(t, tt.from, meta.From)
			assert.Equal(t, tt.to, meta.To)
			assert.Equal(t, tt.hasMore, meta.HasMore)
			assert.Equal(t, tt.total, meta.Total)
		})
	}
}

func TestGetOffset(t *testing.T) {
	assert.Equal(t, 0, GetOffset(1, 25))
	assert.Equal(t, 25, GetOffset(2, 25))
	assert.Equal(t, 180, GetOffset(10, 20))
}
