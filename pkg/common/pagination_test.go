package common

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampInt(t *testing.T) {
	tests := []struct {
		name     string
		v        int
		min, max int
		want     int
	}{
		{"within range", 50, 1, 100, 50},
		{"below min", -5, 1, 100, 1},
		{"above max", 500, 1, 200, 200},
		{"at min", 1, 1, 100, 1},
		{"at max", 100, 1, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampInt(tt.v, tt.min, tt.max))
		})
	}
}

func TestParseClampedInt(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"absent uses default", "", 20},
		{"valid value", "50", 50},
		{"zero clamps to min", "0", 1},
		{"negative clamps to min", "-3", 1},
		{"above max clamps to max", "9999", 200},
		{"non-numeric falls to min", "abc", 1},
		{"fractional truncates toward zero", "12.7", 12},
		{"negative fractional truncates then clamps", "-0.9", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseClampedInt(tt.raw, 20, 1, 200))
		})
	}
}

func TestCalculateTotalPages(t *testing.T) {
	tests := []struct {
		totalItems, pageSize, want int
	}{
		{0, 20, 1},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{41, 20, 3},
		{200, 200, 1},
		{5, 0, 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d items size %d", tt.totalItems, tt.pageSize), func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateTotalPages(tt.totalItems, tt.pageSize))
		})
	}
}

func TestNewPagedResult(t *testing.T) {
	t.Run("nil items become empty slice", func(t *testing.T) {
		res := NewPagedResult[string](nil, 1, 20, 0)
		assert.NotNil(t, res.Items)
		assert.Empty(t, res.Items)
		assert.Equal(t, 1, res.TotalPages)
	})

	t.Run("totals carried through", func(t *testing.T) {
		res := NewPagedResult([]int{1, 2, 3}, 2, 3, 7)
		assert.Equal(t, 2, res.Page)
		assert.Equal(t, 3, res.PageSize)
		assert.Equal(t, 7, res.TotalItems)
		assert.Equal(t, 3, res.TotalPages)
	})
}

func TestPageQueryOffset(t *testing.T) {
	assert.Equal(t, 0, PageQuery{Page: 1, PageSize: 20}.Offset())
	assert.Equal(t, 40, PageQuery{Page: 3, PageSize: 20}.Offset())
}
