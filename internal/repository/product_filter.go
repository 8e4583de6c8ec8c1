package repository

import (
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/openshop/internal/model"
)

// productWhereClause builds the WHERE condition for product listings.
// The soft-delete predicate is always present.
func productWhereClause(filter model.ProductFilter) (string, pgx.NamedArgs) {
	conditions := []string{"is_delete = FALSE"}
	args := pgx.NamedArgs{}

	if filter.Name != "" {
		// strpos keeps % and _ literal, unlike LIKE
		conditions = append(conditions, "strpos(lower(name), lower(@name)) > 0")
		args["name"] = filter.Name
	}

	if filter.Location != "" {
		conditions = append(conditions, "location = @location")
		args["location"] = filter.Location
	}

	return strings.Join(conditions, " AND "), args
}

var productOrderColumns = map[model.ProductOrderField]string{
	model.ProductOrderName:      "name",
	model.ProductOrderPrice:     "price",
	model.ProductOrderDiscount:  "discount",
	model.ProductOrderStock:     "stock",
	model.ProductOrderCreatedAt: "created_at",
	model.ProductOrderUpdatedAt: "updated_at",
}

// productOrderByClause renders ordering from a fixed column whitelist and
// appends id so pages are stable.
func productOrderByClause(ordering []model.ProductOrder) string {
	if len(ordering) == 0 {
		ordering = model.DefaultProductOrdering
	}

	terms := make([]string, 0, len(ordering)+1)
	for _, o := range ordering {
		column, ok := productOrderColumns[o.Field]
		if !ok {
			continue
		}

		direction := "ASC"
		if o.Desc {
			direction = "DESC"
		}
		terms = append(terms, column+" "+direction)
	}
	terms = append(terms, "id ASC")

	return strings.Join(terms, ", ")
}
