package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tuanvumaihuynh/openshop/internal/dto"
	"github.com/tuanvumaihuynh/openshop/internal/model"
	"github.com/tuanvumaihuynh/openshop/internal/service"
	"github.com/tuanvumaihuynh/openshop/pkg/pagination"
	"github.com/tuanvumaihuynh/openshop/pkg/validator"
)

type route struct {
	method  string
	pattern string
	handle  handlerFunc
}

type productHandler struct {
	logger     *slog.Logger
	productSvc service.ProductService
	validator  validator.Validator
	paginator  pagination.Paginator
	origins    originResolver
}

func newProductHandler(
	logger *slog.Logger,
	productSvc service.ProductService,
	validator validator.Validator,
	paginator pagination.Paginator,
	origins originResolver,
) *productHandler {
	return &productHandler{
		logger:     logger,
		productSvc: productSvc,
		validator:  validator,
		paginator:  paginator,
		origins:    origins,
	}
}

func (h *productHandler) routes() []route {
	return []route{
		{http.MethodPost, "/products", h.createProduct},
		{http.MethodGet, "/products", h.listProducts},
		{http.MethodGet, "/products/{id}", h.getProduct},
		{http.MethodPut, "/products/{id}", h.updateProduct},
		{http.MethodDelete, "/products/{id}", h.deleteProduct},
	}
}

func (h *productHandler) createProduct(w http.ResponseWriter, r *http.Request) error {
	params, err := dto.DecodeProductPayload(r.Body, h.validator)
	if err != nil {
		return fmt.Errorf("decode product payload: %w", err)
	}

	product, err := h.productSvc.CreateProduct(r.Context(), params)
	if err != nil {
		return fmt.Errorf("product service create product: %w", err)
	}

	writeJSON(h.logger, w, r, http.StatusCreated, dto.NewProductRepresentation(product, h.origins.origin(r)))
	return nil
}

func (h *productHandler) listProducts(w http.ResponseWriter, r *http.Request) error {
	q, err := bindListProductsQuery(r)
	if err != nil {
		return err
	}

	result, err := h.productSvc.ListProducts(r.Context(), service.ListProductsParams{
		Filter:   q.filter(),
		Ordering: model.ParseProductOrdering(q.Ordering...),
		Page:     q.page(),
		PageSize: h.paginator.PageSize(deref(q.PageSize)),
	})
	if err != nil {
		return fmt.Errorf("product service list products: %w", err)
	}

	products := dto.NewProductRepresentations(result.Products, h.origins.origin(r))

	if result.Page == nil {
		writeJSON(h.logger, w, r, http.StatusOK, dto.ProductList{Products: products})
		return nil
	}

	current := h.origins.url(r)
	writeJSON(h.logger, w, r, http.StatusOK, dto.ProductPage{
		Count:    result.Page.Count,
		Next:     result.Page.NextURL(current),
		Previous: result.Page.PreviousURL(current),
		Products: products,
	})
	return nil
}

func (h *productHandler) getProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := bindProductID(chi.URLParam(r, "id"))
	if err != nil {
		return err
	}

	product, err := h.productSvc.GetProduct(r.Context(), id)
	if err != nil {
		return fmt.Errorf("product service get product: %w", err)
	}

	writeJSON(h.logger, w, r, http.StatusOK, dto.NewProductRepresentation(product, h.origins.origin(r)))
	return nil
}

// updateProduct replaces every writable field. A missing product is reported
// before the body is looked at.
func (h *productHandler) updateProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := bindProductID(chi.URLParam(r, "id"))
	if err != nil {
		return err
	}

	if _, err := h.productSvc.GetProduct(r.Context(), id); err != nil {
		return fmt.Errorf("product service get product: %w", err)
	}

	params, err := dto.DecodeProductPayload(r.Body, h.validator)
	if err != nil {
		return fmt.Errorf("decode product payload: %w", err)
	}

	product, err := h.productSvc.UpdateProduct(r.Context(), id, params)
	if err != nil {
		return fmt.Errorf("product service update product: %w", err)
	}

	writeJSON(h.logger, w, r, http.StatusOK, dto.NewProductRepresentation(product, h.origins.origin(r)))
	return nil
}

func (h *productHandler) deleteProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := bindProductID(chi.URLParam(r, "id"))
	if err != nil {
		return err
	}

	if err := h.productSvc.DeleteProduct(r.Context(), id); err != nil {
		return fmt.Errorf("product service delete product: %w", err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
