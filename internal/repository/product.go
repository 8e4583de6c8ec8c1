package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/openshop/internal/apperr"
	"github.com/tuanvumaihuynh/openshop/internal/model"
	"github.com/tuanvumaihuynh/openshop/internal/storage/db"
)

const productSkuConstraint = "products_sku_key"

type ListProductsParams struct {
	Filter   model.ProductFilter
	Ordering []model.ProductOrder
	// Limit of 0 returns every matching product.
	Limit  int
	Offset int
}

// ProductRepository stores products. Every read and mutation other than
// CreateProduct only sees products that are not soft-deleted, and reports
// apperr.ProductNotFoundErr otherwise.
type ProductRepository interface {
	WithDB(db db.DB) ProductRepository
	CreateProduct(ctx context.Context, product model.Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error)
	ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error)
	CountProducts(ctx context.Context, filter model.ProductFilter) (int, error)
	UpdateProduct(ctx context.Context, product model.Product) (model.Product, error)
	SoftDeleteProduct(ctx context.Context, id uuid.UUID, deletedAt time.Time) (model.Product, error)
}

type productRepository struct {
	db db.DB
}

func NewProductRepository(db db.DB) ProductRepository {
	return &productRepository{
		db: db,
	}
}

func (r productRepository) WithDB(db db.DB) ProductRepository {
	return &productRepository{
		db: db,
	}
}

const productColumns = `id, name, sku, description, shop, location, price, discount, category,
	stock, is_available, picture, is_delete, created_at, updated_at`

type productRow struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	Sku         string    `db:"sku"`
	Description *string   `db:"description"`
	Shop        string    `db:"shop"`
	Location    string    `db:"location"`
	Price       int       `db:"price"`
	Discount    int       `db:"discount"`
	Category    string    `db:"category"`
	Stock       int       `db:"stock"`
	IsAvailable bool      `db:"is_available"`
	Picture     *string   `db:"picture"`
	IsDelete    bool      `db:"is_delete"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r productRepository) CreateProduct(ctx context.Context, product model.Product) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES (
			@id, @name, @sku, @description, @shop, @location, @price, @discount, @category,
			@stock, @is_available, @picture, @is_delete, @created_at, @updated_at
		)
	`, productArgs(product))
	if err != nil {
		return fmt.Errorf("create product: %w", productWriteErr(err))
	}

	return nil
}

func (r productRepository) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = @id AND is_delete = FALSE
	`, pgx.NamedArgs{"id": id})
	if err != nil {
		return model.Product{}, fmt.Errorf("get product: %w", err)
	}

	product, err := collectOneProduct(rows)
	if err != nil {
		return model.Product{}, fmt.Errorf("get product: %w", err)
	}

	return product, nil
}

func (r productRepository) ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error) {
	where, args := productWhereClause(params.Filter)

	query := `SELECT ` + productColumns + ` FROM products WHERE ` + where +
		` ORDER BY ` + productOrderByClause(params.Ordering)
	if params.Limit > 0 {
		query += ` LIMIT @limit OFFSET @offset`
		args["limit"] = params.Limit
		args["offset"] = params.Offset
	}

	rows, err := r.db.Query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	productRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		return nil, fmt.Errorf("collect products: %w", err)
	}

	products := make([]model.Product, 0, len(productRows))
	for _, row := range productRows {
		products = append(products, productRowToModelProduct(row))
	}

	return products, nil
}

func (r productRepository) CountProducts(ctx context.Context, filter model.ProductFilter) (int, error) {
	where, args := productWhereClause(filter)

	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE `+where, args).Scan(&count); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}

	return count, nil
}

func (r productRepository) UpdateProduct(ctx context.Context, product model.Product) (model.Product, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE products
		SET
			name         = @name,
			sku          = @sku,
			description  = @description,
			shop         = @shop,
			location     = @location,
			price        = @price,
			discount     = @discount,
			category     = @category,
			stock        = @stock,
			is_available = @is_available,
			picture      = @picture,
			updated_at   = @updated_at
		WHERE id = @id AND is_delete = FALSE
		RETURNING `+productColumns,
		productArgs(product))
	if err != nil {
		return model.Product{}, fmt.Errorf("update product: %w", err)
	}

	updated, err := collectOneProduct(rows)
	if err != nil {
		return model.Product{}, fmt.Errorf("update product: %w", productWriteErr(err))
	}

	return updated, nil
}

func (r productRepository) SoftDeleteProduct(ctx context.Context, id uuid.UUID, deletedAt time.Time) (model.Product, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE products
		SET
			is_delete  = TRUE,
			updated_at = @updated_at
		WHERE id = @id AND is_delete = FALSE
		RETURNING `+productColumns,
		pgx.NamedArgs{
			"id":         id,
			"updated_at": deletedAt,
		})
	if err != nil {
		return model.Product{}, fmt.Errorf("soft delete product: %w", err)
	}

	deleted, err := collectOneProduct(rows)
	if err != nil {
		return model.Product{}, fmt.Errorf("soft delete product: %w", err)
	}

	return deleted, nil
}

func collectOneProduct(rows pgx.Rows) (model.Product, error) {
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, apperr.ProductNotFoundErr.WrapParent(err)
		}
		return model.Product{}, fmt.Errorf("collect product: %w", err)
	}

	return productRowToModelProduct(row), nil
}

func productWriteErr(err error) error {
	if constraint, ok := db.UniqueViolation(err); ok && constraint == productSkuConstraint {
		return apperr.ProductSkuConflictErr.WrapParent(err)
	}
	return err
}

func productArgs(product model.Product) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":           product.ID,
		"name":         product.Name,
		"sku":          product.Sku,
		"description":  product.Description,
		"shop":         product.Shop,
		"location":     product.Location,
		"price":        product.Price,
		"discount":     product.Discount,
		"category":     product.Category,
		"stock":        product.Stock,
		"is_available": product.IsAvailable,
		"picture":      product.Picture,
		"is_delete":    product.IsDelete,
		"created_at":   product.CreatedAt,
		"updated_at":   product.UpdatedAt,
	}
}

func productRowToModelProduct(row productRow) model.Product {
	return model.Product{
		ID:          row.ID,
		Name:        row.Name,
		Sku:         row.Sku,
		Description: row.Description,
		Shop:        row.Shop,
		Location:    row.Location,
		Price:       row.Price,
		Discount:    row.Discount,
		Category:    row.Category,
		Stock:       row.Stock,
		IsAvailable: row.IsAvailable,
		Picture:     row.Picture,
		IsDelete:    row.IsDelete,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
