package http

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/tuanvumaihuynh/openshop/internal/apperr"
	"github.com/tuanvumaihuynh/openshop/internal/model"
	"github.com/tuanvumaihuynh/openshop/pkg/pagination"
)

// listProductsQuery holds the recognised query parameters of the product
// listing. Other parameters are ignored.
type listProductsQuery struct {
	Name     *string
	Location *string
	Ordering []string
	Page     *string
	PageSize *string
}

func bindListProductsQuery(r *http.Request) (listProductsQuery, error) {
	var (
		q     listProductsQuery
		query = lastValues(r.URL.Query(), "name", "location", pagination.PageParam, pagination.PageSizeParam)
	)

	for _, p := range []struct {
		name string
		dest any
	}{
		{"name", &q.Name},
		{"location", &q.Location},
		{"ordering", &q.Ordering},
		{pagination.PageParam, &q.Page},
		{pagination.PageSizeParam, &q.PageSize},
	} {
		if err := runtime.BindQueryParameter("form", true, false, p.name, query, p.dest); err != nil {
			return listProductsQuery{}, apperr.ValidationErr.WrapParent(fmt.Errorf("bind query parameter %s: %w", p.name, err))
		}
	}

	return q, nil
}

// lastValues returns a copy of query where each of the scalar params keeps
// only its last occurrence, so "?name=a&name=b" filters by "b".
func lastValues(query url.Values, scalar ...string) url.Values {
	out := make(url.Values, len(query))
	for name, values := range query {
		out[name] = values
	}
	for _, name := range scalar {
		if values := query[name]; len(values) > 1 {
			out[name] = values[len(values)-1:]
		}
	}
	return out
}

func (q listProductsQuery) filter() model.ProductFilter {
	return model.ProductFilter{
		Name:     deref(q.Name),
		Location: deref(q.Location),
	}
}

// page returns the requested page number, defaulting to the first page when
// the parameter is missing or empty.
func (q listProductsQuery) page() string {
	if page := deref(q.Page); page != "" {
		return page
	}
	return "1"
}

// bindProductID parses the {id} path parameter. A malformed id is reported
// as a missing product.
func bindProductID(raw string) (uuid.UUID, error) {
	var id uuid.UUID
	if err := runtime.BindStyledParameterWithOptions("simple", "id", raw, &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	}); err != nil {
		return uuid.Nil, apperr.ProductNotFoundErr.WrapParent(err)
	}
	return id, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
