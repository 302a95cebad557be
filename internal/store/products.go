package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kavish/inventory-insight/internal/database"
	"github.com/kavish/inventory-insight/internal/models"
)

type ProductParams struct {
	Name              string
	CategoryID        *int64
	Price             decimal.Decimal
	CostPrice         decimal.Decimal
	Quantity          int
	LowStockThreshold int
	Description       string
}

func (p ProductParams) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return database.NewValidationError("name", "product name is required")
	}
	if !p.Price.IsPositive() {
		return database.NewValidationError("price", "price must be greater than zero")
	}
	if p.Quantity < 0 {
		return database.NewValidationError("quantity", "quantity cannot be negative")
	}
	if p.LowStockThreshold < 0 {
		return database.NewValidationError("low_stock_threshold", "threshold cannot be negative")
	}
	return nil
}

type ProductFilter struct {
	CategoryID   *int64
	LowStockOnly bool
}

const productColumns = `p.id, p.name, p.category_id, COALESCE(c.name, ''),
	       p.price, p.cost_price, p.quantity, p.low_stock_threshold,
	       COALESCE(p.description, ''), p.created_at, p.updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	product := &models.Product{}
	var categoryID sql.NullInt64

	err := row.Scan(
		&product.ID,
		&product.Name,
		&categoryID,
		&product.CategoryName,
		&product.Price,
		&product.CostPrice,
		&product.Quantity,
		&product.LowStockThreshold,
		&product.Description,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if categoryID.Valid {
		product.CategoryID = &categoryID.Int64
	}

	return product, nil
}

func CreateProduct(ctx context.Context, db *sql.DB, params ProductParams) (*models.Product, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	query := `
		WITH inserted AS (
			INSERT INTO products (name, category_id, price, cost_price, quantity,
			                      low_stock_threshold, description, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
			RETURNING *
		)
		SELECT ` + productColumns + `
		FROM inserted p
		LEFT JOIN categories c ON c.id = p.category_id`

	product, err := scanProduct(db.QueryRowContext(ctx, query,
		params.Name, params.CategoryID, params.Price, params.CostPrice,
		params.Quantity, params.LowStockThreshold, nullableText(params.Description)))
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	return product, nil
}

func GetProduct(ctx context.Context, db *sql.DB, id int64) (*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1`

	product, err := scanProduct(db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return product, nil
}

func UpdateProduct(ctx context.Context, db *sql.DB, id int64, params ProductParams) (*models.Product, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	query := `
		WITH updated AS (
			UPDATE products
			SET name = $1, category_id = $2, price = $3, cost_price = $4,
			    quantity = $5, low_stock_threshold = $6, description = $7,
			    updated_at = NOW()
			WHERE id = $8
			RETURNING *
		)
		SELECT ` + productColumns + `
		FROM updated p
		LEFT JOIN categories c ON c.id = p.category_id`

	product, err := scanProduct(db.QueryRowContext(ctx, query,
		params.Name, params.CategoryID, params.Price, params.CostPrice,
		params.Quantity, params.LowStockThreshold, nullableText(params.Description), id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}

	return product, nil
}

// DeleteProduct removes a product and, through the ON DELETE CASCADE
// foreign key, every sale recorded against it.
func DeleteProduct(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return database.ErrProductNotFound
	}

	return nil
}

// RestockProduct adds stock to a product. A single guarded write; there is
// no companion ledger entry for restocks.
func RestockProduct(ctx context.Context, db *sql.DB, id int64, quantityToAdd int) (*models.Product, error) {
	if quantityToAdd < 1 {
		return nil, database.NewValidationError("quantity_to_add", "quantity to add must be at least 1")
	}

	query := `
		WITH updated AS (
			UPDATE products
			SET quantity = quantity + $1, updated_at = NOW()
			WHERE id = $2
			RETURNING *
		)
		SELECT ` + productColumns + `
		FROM updated p
		LEFT JOIN categories c ON c.id = p.category_id`

	product, err := scanProduct(db.QueryRowContext(ctx, query, quantityToAdd, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("restock product: %w", err)
	}

	return product, nil
}

func ListProducts(ctx context.Context, db *sql.DB, filter ProductFilter, page, pageSize int) (*OffsetPage, error) {
	where := []string{}
	args := []any{}

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		where = append(where, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if filter.LowStockOnly {
		where = append(where, "p.quantity <= p.low_stock_threshold")
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM products p %s`, whereClause)
	if err := db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	args = append(args, pageSize, (page-1)*pageSize)
	query := fmt.Sprintf(`
		SELECT `+productColumns+`
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		%s
		ORDER BY p.name
		LIMIT $%d OFFSET $%d`, whereClause, len(args)-1, len(args))

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return newOffsetPage(products, total, page, pageSize), nil
}

// ListAllProducts loads the full catalog, ordered by name. Used by the
// analytics engine for stock-level aggregates.
func ListAllProducts(ctx context.Context, db *sql.DB) ([]models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		ORDER BY p.name`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return products, nil
}

func nullableText(s string) any {
	if s == "" {
		return nil
	}
	return s
}
