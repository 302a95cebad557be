package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Product struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	CategoryID        *int64          `json:"category_id,omitempty"`
	CategoryName      string          `json:"category_name,omitempty"`
	Price             decimal.Decimal `json:"price"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	Quantity          int             `json:"quantity"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	Description       string          `json:"description,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// IsLowStock reports whether the stock is at or below the threshold.
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.LowStockThreshold
}

// StockValue is price times current quantity.
func (p *Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

type Sale struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"product_id"`
	ProductName  string          `json:"product_name,omitempty"`
	QuantitySold int             `json:"quantity_sold"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	SaleDate     time.Time       `json:"sale_date"`
	Notes        string          `json:"notes,omitempty"`
}

// TotalRevenue is sale price times quantity sold for this one sale.
func (s *Sale) TotalRevenue() decimal.Decimal {
	return s.SalePrice.Mul(decimal.NewFromInt(int64(s.QuantitySold)))
}
