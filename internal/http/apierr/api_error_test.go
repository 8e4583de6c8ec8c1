package apierr_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/openshop/internal/apperr"
	"github.com/tuanvumaihuynh/openshop/internal/http/apierr"
	"github.com/tuanvumaihuynh/openshop/pkg/validator"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", fmt.Errorf("get: %w", apperr.ProductNotFoundErr), http.StatusNotFound, apperr.ProductNotFoundCode},
		{"conflict", apperr.ProductSkuConflictErr.WrapParent(errors.New("23505")), http.StatusConflict, apperr.ProductSkuConflictCode},
		{"invalid page", apperr.InvalidPageErr, http.StatusNotFound, apperr.InvalidPageCode},
		{"malformed body", apperr.MalformedBodyErr, http.StatusBadRequest, apperr.MalformedBodyCode},
		{"unavailable", apperr.ServiceUnavailableErr, http.StatusServiceUnavailable, apperr.ServiceUnavailableCode},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internalServerError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := apierr.New(tt.err)

			assert.Equal(t, tt.wantStatus, res.StatusCode)
			assert.Equal(t, tt.wantCode, res.Code)
			assert.Nil(t, res.Details)
		})
	}
}

func TestNew_ValidationDetails(t *testing.T) {
	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	type payload struct {
		Name *string `json:"name" validate:"required"`
	}
	validationErr := v.Validate(payload{})
	require.Error(t, validationErr)

	res := apierr.New(apperr.ValidationErr.WrapParent(validationErr))

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, apperr.ValidationErrorCode, res.Code)
	require.NotNil(t, res.Details)
	assert.Equal(t, []apierr.FieldError{{Field: "name", Message: "field is required"}}, *res.Details)

	body, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":"VALIDATION_FAILED","message":"validation error","details":[{"field":"name","message":"field is required"}]}`, string(body))
}

func TestNew_FieldErrorDetails(t *testing.T) {
	fieldErrs := validator.FieldErrors{
		{Field: "stock", Message: "may not be null"},
		{Field: "description", Message: "may not be blank"},
	}

	res := apierr.New(apperr.ValidationErr.WrapParent(fieldErrs))

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.NotNil(t, res.Details)
	assert.Equal(t, []apierr.FieldError{
		{Field: "stock", Message: "may not be null"},
		{Field: "description", Message: "may not be blank"},
	}, *res.Details)
}

func TestNew_TypeErrorDetails(t *testing.T) {
	typeErr := &json.UnmarshalTypeError{Value: "string", Type: reflect.TypeFor[*int](), Field: "price"}

	res := apierr.New(apperr.ValidationErr.WrapParent(typeErr))

	require.NotNil(t, res.Details)
	assert.Equal(t, []apierr.FieldError{{Field: "price", Message: "a valid integer is required"}}, *res.Details)
}
