package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSort(t *testing.T) {
	tests := []struct {
		raw  string
		want Sort
	}{
		{raw: "", want: Sort{}},
		{raw: "   ", want: Sort{}},
		{raw: "price", want: Sort{Field: "price"}},
		{raw: "-price", want: Sort{Field: "price", Desc: true}},
		{raw: "-order_date", want: Sort{Field: "order_date", Desc: true}},
		{raw: " created_at ", want: Sort{Field: "created_at"}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSort(tt.raw))
		})
	}
}
