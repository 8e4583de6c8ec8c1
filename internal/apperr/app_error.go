package apperr

import "github.com/tuanvumaihuynh/openshop/pkg/zerror"

const (
	ValidationErrorCode    = "VALIDATION_FAILED"
	MalformedBodyCode      = "MALFORMED_BODY"
	ProductNotFoundCode    = "PRODUCT_NOT_FOUND"
	ProductSkuConflictCode = "PRODUCT_SKU_CONFLICT"
	InvalidPageCode        = "INVALID_PAGE"
	ServiceUnavailableCode = "SERVICE_UNAVAILABLE"
)

var (
	ValidationErr    = zerror.NewValidationFailed(ValidationErrorCode, "validation error")
	MalformedBodyErr = zerror.NewBadRequest(MalformedBodyCode, "malformed request body")

	// ProductNotFoundErr covers both missing and soft-deleted products.
	ProductNotFoundErr    = zerror.NewNotFound(ProductNotFoundCode, "not found")
	ProductSkuConflictErr = zerror.NewConflict(ProductSkuConflictCode, "product with this sku already exists")

	InvalidPageErr = zerror.NewNotFound(InvalidPageCode, "invalid page")

	ServiceUnavailableErr = zerror.NewServiceUnavailable(ServiceUnavailableCode, "service unavailable")
)
