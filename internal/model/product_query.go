package model

import "strings"

// ProductFilter narrows product listings. Empty fields are not applied.
// Soft-deleted products are always excluded by the store.
type ProductFilter struct {
	// Name matches products whose name contains it, ignoring case.
	Name string
	// Location matches products in exactly this location.
	Location string
}

type ProductOrderField string

const (
	ProductOrderName      ProductOrderField = "name"
	ProductOrderPrice     ProductOrderField = "price"
	ProductOrderDiscount  ProductOrderField = "discount"
	ProductOrderStock     ProductOrderField = "stock"
	ProductOrderCreatedAt ProductOrderField = "created_at"
	ProductOrderUpdatedAt ProductOrderField = "updated_at"
)

var productOrderFields = map[ProductOrderField]struct{}{
	ProductOrderName:      {},
	ProductOrderPrice:     {},
	ProductOrderDiscount:  {},
	ProductOrderStock:     {},
	ProductOrderCreatedAt: {},
	ProductOrderUpdatedAt: {},
}

type ProductOrder struct {
	Field ProductOrderField
	Desc  bool
}

// DefaultProductOrdering lists products by name.
var DefaultProductOrdering = []ProductOrder{{Field: ProductOrderName}}

// ParseProductOrdering parses terms such as "price" or "-created_at", each
// optionally holding several comma separated fields. Unknown and repeated
// fields are skipped; the default ordering is returned when nothing is left.
func ParseProductOrdering(terms ...string) []ProductOrder {
	var (
		ordering []ProductOrder
		seen     = map[ProductOrderField]struct{}{}
	)

	for _, term := range terms {
		for raw := range strings.SplitSeq(term, ",") {
			raw = strings.TrimSpace(raw)
			desc := strings.HasPrefix(raw, "-")
			field := ProductOrderField(strings.TrimPrefix(raw, "-"))

			if _, ok := productOrderFields[field]; !ok {
				continue
			}
			if _, dup := seen[field]; dup {
				continue
			}
			seen[field] = struct{}{}
			ordering = append(ordering, ProductOrder{Field: field, Desc: desc})
		}
	}

	if len(ordering) == 0 {
		return DefaultProductOrdering
	}
	return ordering
}
