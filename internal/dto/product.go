// Package dto converts products to and from their JSON wire form.
package dto

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/openshop/internal/model"
)

const ContentTypeJSON = "application/json"

type Link struct {
	Rel    string   `json:"rel"`
	Href   string   `json:"href"`
	Action string   `json:"action"`
	Types  []string `json:"types"`
}

// ProductRepresentation is the wire form of a product. Timestamps are kept
// on the record only.
type ProductRepresentation struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Sku         string    `json:"sku"`
	Description *string   `json:"description"`
	Shop        string    `json:"shop"`
	Location    string    `json:"location"`
	Price       int       `json:"price"`
	Discount    int       `json:"discount"`
	Category    string    `json:"category"`
	Stock       int       `json:"stock"`
	IsAvailable bool      `json:"is_available"`
	Picture     *string   `json:"picture"`
	IsDelete    bool      `json:"is_delete"`
	Links       []Link    `json:"_links"`
}

// NewProductRepresentation renders product with links rooted at origin,
// e.g. "https://shop.example.com". An empty origin renders no links.
func NewProductRepresentation(product model.Product, origin string) ProductRepresentation {
	return ProductRepresentation{
		ID:          product.ID,
		Name:        product.Name,
		Sku:         product.Sku,
		Description: product.Description,
		Shop:        product.Shop,
		Location:    product.Location,
		Price:       product.Price,
		Discount:    product.Discount,
		Category:    product.Category,
		Stock:       product.Stock,
		IsAvailable: product.IsAvailable,
		Picture:     product.Picture,
		IsDelete:    product.IsDelete,
		Links:       ProductLinks(origin, product.ID),
	}
}

func NewProductRepresentations(products []model.Product, origin string) []ProductRepresentation {
	reps := make([]ProductRepresentation, 0, len(products))
	for _, product := range products {
		reps = append(reps, NewProductRepresentation(product, origin))
	}
	return reps
}

// ProductLinks lists the operations available on the product with id.
func ProductLinks(origin string, id uuid.UUID) []Link {
	if origin == "" {
		return []Link{}
	}

	collection := origin + "/products"
	detail := collection + "/" + id.String()

	return []Link{
		newLink(collection, http.MethodPost),
		newLink(detail, http.MethodGet),
		newLink(detail, http.MethodPut),
		newLink(detail, http.MethodDelete),
	}
}

func newLink(href, action string) Link {
	return Link{
		Rel:    "self",
		Href:   href,
		Action: action,
		Types:  []string{ContentTypeJSON},
	}
}

// ProductPage is one page of a paginated product listing.
type ProductPage struct {
	Count    int                     `json:"count"`
	Next     *string                 `json:"next"`
	Previous *string                 `json:"previous"`
	Products []ProductRepresentation `json:"products"`
}

// ProductList is a product listing returned without pagination.
type ProductList struct {
	Products []ProductRepresentation `json:"products"`
}
