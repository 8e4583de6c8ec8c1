package event

import (
	"github.com/tuanvumaihuynh/openshop/internal/dto"
)

const (
	TopicProductCreated = "product.created"
	TopicProductUpdated = "product.updated"
	TopicProductDeleted = "product.deleted"
)

// Topics lists every topic the product service publishes.
var Topics = []string{
	TopicProductCreated,
	TopicProductUpdated,
	TopicProductDeleted,
}

// ProductEvent is the payload of every product topic. Product is the state
// after the change, rendered without links.
type ProductEvent struct {
	ProductID string                    `json:"product_id"`
	Product   dto.ProductRepresentation `json:"product"`
}
