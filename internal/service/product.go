package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/openshop/internal/apperr"
	"github.com/tuanvumaihuynh/openshop/internal/dto"
	"github.com/tuanvumaihuynh/openshop/internal/event"
	"github.com/tuanvumaihuynh/openshop/internal/model"
	"github.com/tuanvumaihuynh/openshop/internal/repository"
	"github.com/tuanvumaihuynh/openshop/internal/storage/db"
	"github.com/tuanvumaihuynh/openshop/pkg/outbox"
	"github.com/tuanvumaihuynh/openshop/pkg/pagination"
)

type ListProductsParams struct {
	Filter   model.ProductFilter
	Ordering []model.ProductOrder
	// Page is the raw page number, or pagination.LastPage.
	Page string
	// PageSize of 0 returns every matching product.
	PageSize int
}

type ListProductsResult struct {
	Products []model.Product
	// Page is nil when the listing is not paginated.
	Page *pagination.Page
}

type ProductService interface {
	CreateProduct(ctx context.Context, params model.ProductParams) (model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error)
	ListProducts(ctx context.Context, params ListProductsParams) (ListProductsResult, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, params model.ProductParams) (model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	db            db.DB
	productRepo   repository.ProductRepository
	outboxMsgRepo repository.OutboxMsgRepository
	now           func() time.Time
}

func NewProductService(
	db db.DB,
	productRepo repository.ProductRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
) ProductService {
	return &productService{
		db:            db,
		productRepo:   productRepo,
		outboxMsgRepo: outboxMsgRepo,
		now:           time.Now,
	}
}

func (s *productService) CreateProduct(ctx context.Context, params model.ProductParams) (model.Product, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return model.Product{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	now := s.now()
	product := applyProductParams(model.Product{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
	}, params)

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		if err := s.productRepo.
			WithDB(db).
			CreateProduct(ctx, product); err != nil {
			return fmt.Errorf("product repository create product: %w", err)
		}

		return s.recordEvent(ctx, db, event.TopicProductCreated, product)
	}); err != nil {
		return model.Product{}, fmt.Errorf("db with tx: %w", err)
	}

	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	product, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		return model.Product{}, fmt.Errorf("product repository get product: %w", err)
	}

	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, params ListProductsParams) (ListProductsResult, error) {
	listParams := repository.ListProductsParams{
		Filter:   params.Filter,
		Ordering: params.Ordering,
	}

	var page *pagination.Page
	if params.PageSize > 0 {
		count, err := s.productRepo.CountProducts(ctx, params.Filter)
		if err != nil {
			return ListProductsResult{}, fmt.Errorf("product repository count products: %w", err)
		}

		p, err := pagination.NewPage(params.Page, count, params.PageSize)
		if err != nil {
			if errors.Is(err, pagination.ErrInvalidPage) {
				return ListProductsResult{}, apperr.InvalidPageErr.WrapParent(err)
			}
			return ListProductsResult{}, fmt.Errorf("new page: %w", err)
		}

		page = &p
		listParams.Limit = p.Size
		listParams.Offset = p.Offset()
	}

	products, err := s.productRepo.ListProducts(ctx, listParams)
	if err != nil {
		return ListProductsResult{}, fmt.Errorf("product repository list products: %w", err)
	}

	return ListProductsResult{
		Products: products,
		Page:     page,
	}, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, params model.ProductParams) (model.Product, error) {
	product := applyProductParams(model.Product{
		ID:        id,
		UpdatedAt: s.now(),
	}, params)

	var updated model.Product
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		var err error
		updated, err = s.productRepo.
			WithDB(db).
			UpdateProduct(ctx, product)
		if err != nil {
			return fmt.Errorf("product repository update product: %w", err)
		}

		return s.recordEvent(ctx, db, event.TopicProductUpdated, updated)
	}); err != nil {
		return model.Product{}, fmt.Errorf("db with tx: %w", err)
	}

	return updated, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		deleted, err := s.productRepo.
			WithDB(db).
			SoftDeleteProduct(ctx, id, s.now())
		if err != nil {
			return fmt.Errorf("product repository soft delete product: %w", err)
		}

		return s.recordEvent(ctx, db, event.TopicProductDeleted, deleted)
	}); err != nil {
		return fmt.Errorf("db with tx: %w", err)
	}

	return nil
}

// recordEvent stores the product event in the outbox as part of the
// transaction behind db.
func (s *productService) recordEvent(ctx context.Context, db db.DB, topic string, product model.Product) error {
	ev := event.ProductEvent{
		ProductID: product.ID.String(),
		Product:   dto.NewProductRepresentation(product, ""),
	}

	evBytes, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := s.outboxMsgRepo.
		WithDB(db).
		CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
			Topic:        topic,
			Headers:      outbox.BuildHeaders(ctx),
			Payload:      evBytes,
			PartitionKey: &ev.ProductID,
		}); err != nil {
		return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
	}

	return nil
}

func applyProductParams(product model.Product, params model.ProductParams) model.Product {
	product.Name = params.Name
	product.Sku = params.Sku
	product.Description = params.Description
	product.Shop = params.Shop
	product.Location = params.Location
	product.Price = params.Price
	product.Discount = params.Discount
	product.Category = params.Category
	product.Stock = params.Stock
	product.IsAvailable = params.IsAvailable
	product.Picture = params.Picture
	return product
}
