package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tuanvumaihuynh/openshop/internal/apperr"
	"github.com/tuanvumaihuynh/openshop/internal/model"
	"github.com/tuanvumaihuynh/openshop/pkg/validator"
)

// ProductPayload is the body accepted by create and update. Read-only fields
// such as id, is_delete and the timestamps are not decoded.
type ProductPayload struct {
	Name        *string `json:"name" validate:"required,notblank,max=255"`
	Sku         *string `json:"sku" validate:"required,notblank,max=100"`
	Description *string `json:"description"`
	Shop        *string `json:"shop" validate:"required,notblank,max=255"`
	Location    *string `json:"location" validate:"required,notblank,max=255"`
	Price       *int    `json:"price" validate:"required,min=-2147483648,max=2147483647"`
	Discount    *int    `json:"discount" validate:"omitempty,min=-2147483648,max=2147483647"`
	Category    *string `json:"category" validate:"required,notblank,max=100"`
	Stock       *int    `json:"stock" validate:"omitempty,min=-2147483648,max=2147483647"`
	IsAvailable *bool   `json:"is_available"`
	Picture     *string `json:"picture" validate:"omitempty,max=200,url"`
}

// nonNullable lists the body fields that may be omitted but never sent as null.
var nonNullable = []string{
	"name", "sku", "shop", "location", "price", "discount", "category", "stock", "is_available",
}

// DecodeProductPayload decodes and validates a full product body.
// Field level problems are reported as apperr.ValidationErr, unreadable
// bodies as apperr.MalformedBodyErr.
func DecodeProductPayload(r io.Reader, v validator.Validator) (model.ProductParams, error) {
	body, err := readObject(r)
	if err != nil {
		return model.ProductParams{}, apperr.MalformedBodyErr.WrapParent(err)
	}

	var payload ProductPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return model.ProductParams{}, apperr.ValidationErr.WrapParent(typeErr)
		}
		return model.ProductParams{}, apperr.MalformedBodyErr.WrapParent(fmt.Errorf("decode product payload: %w", err))
	}

	payload.trim()

	if fieldErrs := payload.checkPresence(body); len(fieldErrs) > 0 {
		return model.ProductParams{}, apperr.ValidationErr.WrapParent(fieldErrs)
	}

	if err := v.Validate(payload); err != nil {
		return model.ProductParams{}, apperr.ValidationErr.WrapParent(err)
	}

	return payload.params(), nil
}

// readObject reads exactly one JSON object from r.
func readObject(r io.Reader) (json.RawMessage, error) {
	dec := json.NewDecoder(r)

	var body json.RawMessage
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("decode product payload: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after product payload")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("product payload is not an object: %w", err)
	}

	return body, nil
}

// checkPresence reports explicit nulls on non-nullable fields and a blank
// description, which struct validation cannot tell apart from absent values.
func (p ProductPayload) checkPresence(body json.RawMessage) validator.FieldErrors {
	var (
		fields    map[string]json.RawMessage
		fieldErrs validator.FieldErrors
	)
	//nolint:errcheck
	json.Unmarshal(body, &fields)

	for _, name := range nonNullable {
		if value, ok := fields[name]; ok && bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			fieldErrs = append(fieldErrs, validator.FieldError{Field: name, Message: "may not be null"})
		}
	}

	if p.Description != nil && *p.Description == "" {
		fieldErrs = append(fieldErrs, validator.FieldError{Field: "description", Message: "may not be blank"})
	}

	return fieldErrs
}

func (p *ProductPayload) trim() {
	for _, s := range []*string{p.Name, p.Sku, p.Description, p.Shop, p.Location, p.Category, p.Picture} {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}

	if p.Picture != nil && *p.Picture == "" {
		p.Picture = nil
	}
}

// params applies defaults; it must only be called on a validated payload.
func (p ProductPayload) params() model.ProductParams {
	params := model.ProductParams{
		Name:        *p.Name,
		Sku:         *p.Sku,
		Description: p.Description,
		Shop:        *p.Shop,
		Location:    *p.Location,
		Price:       *p.Price,
		Category:    *p.Category,
		IsAvailable: true,
		Picture:     p.Picture,
	}

	if p.Discount != nil {
		params.Discount = *p.Discount
	}
	if p.Stock != nil {
		params.Stock = *p.Stock
	}
	if p.IsAvailable != nil {
		params.IsAvailable = *p.IsAvailable
	}

	return params
}
