// Package repositorytest provides in-memory repositories that follow the
// visibility, filtering, ordering and sku uniqueness rules of the
// PostgreSQL store.
package repositorytest

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tuanvumaihuynh/openshop/internal/apperr"
	"github.com/tuanvumaihuynh/openshop/internal/model"
	"github.com/tuanvumaihuynh/openshop/internal/repository"
	"github.com/tuanvumaihuynh/openshop/internal/storage/db"
)

var errNoSQL = errors.New("repositorytest: raw SQL is not supported")

// DB satisfies db.DB for code that only passes it to repositories.
// WithTx runs the function directly against itself.
type DB struct{}

var _ db.DB = DB{}

func (DB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errNoSQL
}

func (DB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errNoSQL
}

func (DB) QueryRow(context.Context, string, ...any) pgx.Row {
	return errRow{}
}

func (d DB) WithTx(_ context.Context, txFunc func(db.DB) error) error {
	return txFunc(d)
}

type errRow struct{}

func (errRow) Scan(...any) error { return errNoSQL }

type ProductRepository struct {
	mu       sync.RWMutex
	products map[uuid.UUID]model.Product
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		products: map[uuid.UUID]model.Product{},
	}
}

func (r *ProductRepository) WithDB(db.DB) repository.ProductRepository {
	return r
}

func (r *ProductRepository) CreateProduct(_ context.Context, product model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.skuTaken(product.Sku, product.ID) {
		return apperr.ProductSkuConflictErr
	}
	r.products[product.ID] = product
	return nil
}

func (r *ProductRepository) GetProduct(_ context.Context, id uuid.UUID) (model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok || product.IsDelete {
		return model.Product{}, apperr.ProductNotFoundErr
	}
	return product, nil
}

func (r *ProductRepository) ListProducts(_ context.Context, params repository.ListProductsParams) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := r.filter(params.Filter)
	sortProducts(products, params.Ordering)

	if params.Limit > 0 {
		start := min(params.Offset, len(products))
		end := min(start+params.Limit, len(products))
		products = products[start:end]
	}
	return products, nil
}

func (r *ProductRepository) CountProducts(_ context.Context, filter model.ProductFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.filter(filter)), nil
}

func (r *ProductRepository) UpdateProduct(_ context.Context, product model.Product) (model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.products[product.ID]
	if !ok || current.IsDelete {
		return model.Product{}, apperr.ProductNotFoundErr
	}
	if r.skuTaken(product.Sku, product.ID) {
		return model.Product{}, apperr.ProductSkuConflictErr
	}

	product.IsDelete = false
	product.CreatedAt = current.CreatedAt
	r.products[product.ID] = product
	return product, nil
}

func (r *ProductRepository) SoftDeleteProduct(_ context.Context, id uuid.UUID, deletedAt time.Time) (model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok || product.IsDelete {
		return model.Product{}, apperr.ProductNotFoundErr
	}
	product.IsDelete = true
	product.UpdatedAt = deletedAt
	r.products[id] = product
	return product, nil
}

// Stored returns a product regardless of its soft-delete flag.
func (r *ProductRepository) Stored(id uuid.UUID) (model.Product, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	return product, ok
}

func (r *ProductRepository) skuTaken(sku string, except uuid.UUID) bool {
	for id, p := range r.products {
		if id != except && p.Sku == sku {
			return true
		}
	}
	return false
}

func (r *ProductRepository) filter(filter model.ProductFilter) []model.Product {
	name := strings.ToLower(filter.Name)

	products := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		if p.IsDelete {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(p.Name), name) {
			continue
		}
		if filter.Location != "" && p.Location != filter.Location {
			continue
		}
		products = append(products, p)
	}
	return products
}

func sortProducts(products []model.Product, ordering []model.ProductOrder) {
	if len(ordering) == 0 {
		ordering = model.DefaultProductOrdering
	}

	slices.SortFunc(products, func(a, b model.Product) int {
		for _, o := range ordering {
			c := compareField(a, b, o.Field)
			if o.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
}

func compareField(a, b model.Product, field model.ProductOrderField) int {
	switch field {
	case model.ProductOrderName:
		return strings.Compare(a.Name, b.Name)
	case model.ProductOrderPrice:
		return cmp.Compare(a.Price, b.Price)
	case model.ProductOrderDiscount:
		return cmp.Compare(a.Discount, b.Discount)
	case model.ProductOrderStock:
		return cmp.Compare(a.Stock, b.Stock)
	case model.ProductOrderCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case model.ProductOrderUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return 0
	}
}

// OutboxMsgRepository records outbox messages in memory.
type OutboxMsgRepository struct {
	mu   sync.Mutex
	msgs []outboxMsg
}

type outboxMsg struct {
	repository.ListUnprocessedOutboxMsgsResult
	processed bool
	err       *string
}

var _ repository.OutboxMsgRepository = (*OutboxMsgRepository)(nil)

func NewOutboxMsgRepository() *OutboxMsgRepository {
	return &OutboxMsgRepository{}
}

func (r *OutboxMsgRepository) WithDB(db.DB) repository.OutboxMsgRepository {
	return r
}

func (r *OutboxMsgRepository) CreateOutboxMsg(_ context.Context, params repository.CreateOutboxMsgParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.msgs = append(r.msgs, outboxMsg{
		ListUnprocessedOutboxMsgsResult: repository.ListUnprocessedOutboxMsgsResult{
			ID:           uuid.New(),
			Topic:        params.Topic,
			Headers:      params.Headers,
			Payload:      params.Payload,
			PartitionKey: params.PartitionKey,
		},
	})
	return nil
}

func (r *OutboxMsgRepository) ListUnprocessedOutboxMsgs(_ context.Context, params repository.ListUnprocessedOutboxMsgsParams) ([]repository.ListUnprocessedOutboxMsgsResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var results []repository.ListUnprocessedOutboxMsgsResult
	for _, msg := range r.msgs {
		if len(results) == int(params.BatchSize) {
			break
		}
		if !msg.processed {
			results = append(results, msg.ListUnprocessedOutboxMsgsResult)
		}
	}
	return results, nil
}

func (r *OutboxMsgRepository) BulkUpdateOutboxMsgs(_ context.Context, params repository.BulkUpdateOutboxMsgsParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range params.Items {
		for i := range r.msgs {
			if r.msgs[i].ID == item.ID {
				r.msgs[i].processed = true
				r.msgs[i].err = item.Error
			}
		}
	}
	return nil
}

// Topics returns the topics of every recorded message in insertion order.
func (r *OutboxMsgRepository) Topics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	topics := make([]string, 0, len(r.msgs))
	for _, msg := range r.msgs {
		topics = append(topics, msg.Topic)
	}
	return topics
}

// Messages returns every recorded message, processed or not.
func (r *OutboxMsgRepository) Messages() []repository.ListUnprocessedOutboxMsgsResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	msgs := make([]repository.ListUnprocessedOutboxMsgsResult, 0, len(r.msgs))
	for _, msg := range r.msgs {
		msgs = append(msgs, msg.ListUnprocessedOutboxMsgsResult)
	}
	return msgs
}

// Failed returns the recorded error of a processed message, if any.
func (r *OutboxMsgRepository) Failed(id uuid.UUID) (*string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, msg := range r.msgs {
		if msg.ID == id {
			return msg.err, msg.processed
		}
	}
	return nil, false
}
