package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// UncategorizedLabel stands in for a null category in every grouping.
const UncategorizedLabel = "Uncategorized"

// SaleRow is the canonical tabular projection of one sale that every
// aggregation consumes. SaleDate is always normalized to UTC so window
// comparisons never mix zones.
type SaleRow struct {
	SaleID       int64
	Product      string
	Category     string
	QuantitySold int
	SalePrice    decimal.Decimal
	Revenue      decimal.Decimal
	SaleDate     time.Time
}

// LoadSaleRows projects the whole sale ledger, joined with product and
// category names, into memory. Analytics reads are full scans; there is no
// caching layer in front of this.
func LoadSaleRows(ctx context.Context, db *sql.DB) ([]SaleRow, error) {
	query := `
		SELECT s.id, p.name, COALESCE(c.name, $1), s.quantity_sold,
		       s.sale_price, s.sale_date
		FROM sales s
		JOIN products p ON p.id = s.product_id
		LEFT JOIN categories c ON c.id = p.category_id
		ORDER BY s.sale_date, s.id`

	rows, err := db.QueryContext(ctx, query, UncategorizedLabel)
	if err != nil {
		return nil, fmt.Errorf("load sale rows: %w", err)
	}
	defer rows.Close()

	var result []SaleRow
	for rows.Next() {
		var row SaleRow
		err := rows.Scan(
			&row.SaleID,
			&row.Product,
			&row.Category,
			&row.QuantitySold,
			&row.SalePrice,
			&row.SaleDate,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sale row: %w", err)
		}

		row.SaleDate = row.SaleDate.UTC()
		row.Revenue = row.SalePrice.Mul(decimal.NewFromInt(int64(row.QuantitySold)))
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}
