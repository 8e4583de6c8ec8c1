package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/openshop/internal/model"
)

func TestParseProductOrdering(t *testing.T) {
	tests := []struct {
		name  string
		terms []string
		want  []model.ProductOrder
	}{
		{
			name: "no terms",
			want: model.DefaultProductOrdering,
		},
		{
			name:  "descending price",
			terms: []string{"-price"},
			want:  []model.ProductOrder{{Field: model.ProductOrderPrice, Desc: true}},
		},
		{
			name:  "comma separated and repeated",
			terms: []string{"stock, -created_at", "name", "stock"},
			want: []model.ProductOrder{
				{Field: model.ProductOrderStock},
				{Field: model.ProductOrderCreatedAt, Desc: true},
				{Field: model.ProductOrderName},
			},
		},
		{
			name:  "unknown fields only",
			terms: []string{"sku", "is_delete", ""},
			want:  model.DefaultProductOrdering,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.ParseProductOrdering(tt.terms...))
		})
	}
}
