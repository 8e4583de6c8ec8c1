package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"

	govalidator "github.com/go-playground/validator/v10"

	"github.com/tuanvumaihuynh/openshop/internal/apperr"
	"github.com/tuanvumaihuynh/openshop/pkg/validator"
	"github.com/tuanvumaihuynh/openshop/pkg/zerror"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the error response for the API.
type ErrorResponse struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details *[]FieldError `json:"details,omitempty"`

	// StatusCode is the status code for the error response.
	StatusCode int `json:"-"`
}

func New(err error) ErrorResponse {
	return errorToErrorResponse(err)
}

var InternalServerErr = ErrorResponse{
	Code:       "internalServerError",
	Message:    "an unknown error occurred",
	StatusCode: http.StatusInternalServerError,
}

func errorToErrorResponse(err error) ErrorResponse {
	var zErr zerror.ZError
	if errors.As(err, &zErr) {
		return ErrorResponse{
			Code:       zErr.Code(),
			Message:    zErr.Msg(),
			Details:    fieldErrors(zErr.Parent()),
			StatusCode: ZErrorStatusToHTTPStatus(zErr.Status()),
		}
	}

	if details := fieldErrors(err); details != nil {
		return ErrorResponse{
			Code:       apperr.ValidationErr.Code(),
			Message:    apperr.ValidationErr.Msg(),
			Details:    details,
			StatusCode: http.StatusBadRequest,
		}
	}

	return InternalServerErr
}

// fieldErrors extracts per field problems from validation and JSON type
// errors, or returns nil when err carries none.
func fieldErrors(err error) *[]FieldError {
	if err == nil {
		return nil
	}

	var validationErrs govalidator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]FieldError, len(validationErrs))
		for i, fe := range validationErrs {
			details[i] = FieldError{
				Field:   fe.Field(),
				Message: validator.ValidationErrorMessage(fe),
			}
		}
		return &details
	}

	var fieldErrs validator.FieldErrors
	if errors.As(err, &fieldErrs) {
		details := make([]FieldError, len(fieldErrs))
		for i, fe := range fieldErrs {
			details[i] = FieldError(fe)
		}
		return &details
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return &[]FieldError{{
			Field:   typeErr.Field,
			Message: typeErrorMessage(typeErr.Type),
		}}
	}

	return nil
}

func typeErrorMessage(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "a valid integer is required"
	case reflect.Bool:
		return "must be a valid boolean"
	case reflect.String:
		return "not a valid string"
	default:
		return fmt.Sprintf("must be of type %s", t.Kind())
	}
}

func ZErrorStatusToHTTPStatus(status zerror.Status) int {
	switch status {
	case zerror.StatusNotFound:
		return http.StatusNotFound
	case zerror.StatusConflict:
		return http.StatusConflict
	case zerror.StatusBadRequest:
		return http.StatusBadRequest
	case zerror.StatusValidationFailed:
		return http.StatusBadRequest
	case zerror.StatusServiceUnavailable:
		return http.StatusServiceUnavailable
	case zerror.StatusUnknown, zerror.StatusInternalServerError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
