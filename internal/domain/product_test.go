package domain

import (
	"math"
	"testing"
)

func TestFilterOffset(t *testing.T) {
	cases := []struct {
		name     string
		page     int
		pageSize int
		want     int
	}{
		{"first page", 1, 10, 0},
		{"third page", 3, 25, 50},
		{"largest representable page", math.MaxInt, 100, math.MaxInt},
		{"overflow clamps instead of going negative", math.MaxInt / 2, 1000, math.MaxInt},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := ProductFilter{Page: tc.page, PageSize: tc.pageSize}
			got := f.Offset()
			if got != tc.want {
				t.Fatalf("Offset() = %d, want %d", got, tc.want)
			}
			if got < 0 {
				t.Fatalf("Offset() must never be negative, got %d", got)
			}
		})
	}
}
