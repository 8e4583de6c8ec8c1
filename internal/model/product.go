package model

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID          uuid.UUID
	Name        string
	Sku         string
	Description *string
	Shop        string
	Location    string
	Price       int
	Discount    int
	Category    string
	Stock       int
	IsAvailable bool
	Picture     *string
	IsDelete    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductParams holds the client writable fields of a product.
type ProductParams struct {
	Name        string
	Sku         string
	Description *string
	Shop        string
	Location    string
	Price       int
	Discount    int
	Category    string
	Stock       int
	IsAvailable bool
	Picture     *string
}
