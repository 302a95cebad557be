package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kavish/inventory-insight/internal/database"
	"github.com/kavish/inventory-insight/internal/models"
)

type RecordSaleRequest struct {
	ProductID    int64
	QuantitySold int
	SalePrice    decimal.Decimal
	Notes        string
}

// SaleResult is what a completed sale hands back to the caller: the ledger
// entry, the product after the decrement, and whether that decrement
// pushed the product to or below its low-stock threshold.
type SaleResult struct {
	Sale     models.Sale
	Product  models.Product
	LowStock bool
}

// RecordSale atomically appends a sale to the ledger and decrements the
// product's stock. Both writes commit together or not at all. The product
// row is locked for the duration of the transaction so concurrent sales of
// the same product serialize on the stock check.
func RecordSale(ctx context.Context, db *sql.DB, req RecordSaleRequest) (*SaleResult, error) {
	if req.QuantitySold < 1 {
		return nil, database.NewValidationError("quantity_sold", "quantity sold must be at least 1")
	}
	if !req.SalePrice.IsPositive() {
		return nil, database.NewValidationError("sale_price", "sale price must be greater than zero")
	}

	var result *SaleResult

	err := database.WithRetry(ctx, db, database.TxOptions{
		IsolationLevel: sql.LevelSerializable,
		MaxRetries:     3,
	}, func(tx *sql.Tx) error {
		var quantity int
		err := tx.QueryRowContext(ctx,
			`SELECT quantity
			 FROM products
			 WHERE id = $1
			 FOR UPDATE`,
			req.ProductID).Scan(&quantity)
		if err != nil {
			if err == sql.ErrNoRows {
				return database.ErrProductNotFound
			}
			return fmt.Errorf("lock product: %w", err)
		}

		if quantity < req.QuantitySold {
			return database.ErrInsufficientStock
		}

		sale := models.Sale{
			ProductID:    req.ProductID,
			QuantitySold: req.QuantitySold,
			SalePrice:    req.SalePrice,
			Notes:        req.Notes,
		}
		err = tx.QueryRowContext(ctx,
			`INSERT INTO sales (product_id, quantity_sold, sale_price, sale_date, notes)
			 VALUES ($1, $2, $3, NOW(), $4)
			 RETURNING id, sale_date`,
			req.ProductID, req.QuantitySold, req.SalePrice, nullableText(req.Notes)).Scan(
			&sale.ID,
			&sale.SaleDate,
		)
		if err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}

		updateResult, err := tx.ExecContext(ctx,
			`UPDATE products
			 SET quantity = quantity - $1,
			     updated_at = NOW()
			 WHERE id = $2
			   AND quantity >= $1`,
			req.QuantitySold, req.ProductID)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}

		rowsAffected, err := updateResult.RowsAffected()
		if err != nil {
			return fmt.Errorf("get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return database.ErrInsufficientStock
		}

		product := &models.Product{}
		var categoryID sql.NullInt64
		err = tx.QueryRowContext(ctx,
			`SELECT id, name, category_id, price, cost_price, quantity,
			        low_stock_threshold, COALESCE(description, ''), created_at, updated_at
			 FROM products WHERE id = $1`,
			req.ProductID).Scan(
			&product.ID,
			&product.Name,
			&categoryID,
			&product.Price,
			&product.CostPrice,
			&product.Quantity,
			&product.LowStockThreshold,
			&product.Description,
			&product.CreatedAt,
			&product.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("fetch product after sale: %w", err)
		}
		if categoryID.Valid {
			product.CategoryID = &categoryID.Int64
		}

		sale.ProductName = product.Name

		result = &SaleResult{
			Sale:     sale,
			Product:  *product,
			LowStock: product.IsLowStock(),
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}

// SaleFilter restricts a sale-history listing to a date range. Bounds are
// date-granular and inclusive on both ends.
type SaleFilter struct {
	Start *time.Time
	End   *time.Time
}

type SalesPage struct {
	OffsetPage
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

func ListSales(ctx context.Context, db *sql.DB, filter SaleFilter, page, pageSize int) (*SalesPage, error) {
	where := ""
	args := []any{}

	if filter.Start != nil {
		args = append(args, filter.Start.UTC().Truncate(24*time.Hour))
		where += fmt.Sprintf(" AND s.sale_date >= $%d", len(args))
	}
	if filter.End != nil {
		args = append(args, filter.End.UTC().Truncate(24*time.Hour).AddDate(0, 0, 1))
		where += fmt.Sprintf(" AND s.sale_date < $%d", len(args))
	}

	var total int64
	var totalRevenue decimal.Decimal
	summaryQuery := fmt.Sprintf(`
		SELECT COUNT(*), COALESCE(SUM(s.sale_price * s.quantity_sold), 0)
		FROM sales s
		WHERE TRUE%s`, where)
	if err := db.QueryRowContext(ctx, summaryQuery, args...).Scan(&total, &totalRevenue); err != nil {
		return nil, fmt.Errorf("summarize sales: %w", err)
	}

	args = append(args, pageSize, (page-1)*pageSize)
	query := fmt.Sprintf(`
		SELECT s.id, s.product_id, p.name, s.quantity_sold, s.sale_price,
		       s.sale_date, COALESCE(s.notes, '')
		FROM sales s
		JOIN products p ON p.id = s.product_id
		WHERE TRUE%s
		ORDER BY s.sale_date DESC, s.id DESC
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	sales, err := scanSales(rows)
	if err != nil {
		return nil, err
	}

	return &SalesPage{
		OffsetPage:   *newOffsetPage(sales, total, page, pageSize),
		TotalRevenue: totalRevenue,
	}, nil
}

// RecentSales returns the latest sales for the dashboard feed.
func RecentSales(ctx context.Context, db *sql.DB, limit int) ([]models.Sale, error) {
	query := `
		SELECT s.id, s.product_id, p.name, s.quantity_sold, s.sale_price,
		       s.sale_date, COALESCE(s.notes, '')
		FROM sales s
		JOIN products p ON p.id = s.product_id
		ORDER BY s.sale_date DESC, s.id DESC
		LIMIT $1`

	rows, err := db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("recent sales: %w", err)
	}
	defer rows.Close()

	return scanSales(rows)
}

// ListSalesForProduct returns a product's full sale history, newest first.
func ListSalesForProduct(ctx context.Context, db *sql.DB, productID int64) ([]models.Sale, error) {
	query := `
		SELECT s.id, s.product_id, p.name, s.quantity_sold, s.sale_price,
		       s.sale_date, COALESCE(s.notes, '')
		FROM sales s
		JOIN products p ON p.id = s.product_id
		WHERE s.product_id = $1
		ORDER BY s.sale_date DESC, s.id DESC`

	rows, err := db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list sales for product: %w", err)
	}
	defer rows.Close()

	return scanSales(rows)
}

func scanSales(rows *sql.Rows) ([]models.Sale, error) {
	var sales []models.Sale
	for rows.Next() {
		var sale models.Sale
		err := rows.Scan(
			&sale.ID,
			&sale.ProductID,
			&sale.ProductName,
			&sale.QuantitySold,
			&sale.SalePrice,
			&sale.SaleDate,
			&sale.Notes,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, sale)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return sales, nil
}
