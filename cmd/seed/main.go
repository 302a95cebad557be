// Seeds the database with sample categories, products and ~90 days of
// sales so the dashboard and charts have data to show. Run it after the
// migrations; it clears existing rows first.
package main

import (
	"context"
	"database/sql"
	"log"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kavish/inventory-insight/internal/config"
	"github.com/kavish/inventory-insight/internal/database"
)

type seedProduct struct {
	name      string
	category  string
	price     int64
	costPrice int64
	quantity  int
	threshold int
}

var seedProducts = []seedProduct{
	{"Laptop", "Electronics", 65000, 50000, 25, 5},
	{"Smartphone", "Electronics", 22000, 17000, 40, 8},
	{"Wireless Earbuds", "Electronics", 3500, 2500, 60, 15},
	{"USB Cable", "Electronics", 299, 150, 200, 30},
	{"Power Bank", "Electronics", 2499, 1800, 35, 10},
	{"T-Shirt", "Clothing", 499, 200, 150, 20},
	{"Jeans", "Clothing", 1299, 600, 80, 15},
	{"Jacket", "Clothing", 2499, 1200, 30, 5},
	{"Sports Shoes", "Clothing", 3499, 2000, 8, 10},
	{"Coffee Beans", "Food & Beverages", 799, 400, 100, 20},
	{"Green Tea", "Food & Beverages", 299, 150, 120, 25},
	{"Protein Bar", "Food & Beverages", 149, 80, 7, 15},
	{"Biscuit Pack", "Food & Beverages", 89, 40, 300, 50},
	{"Notebook A4", "Stationery", 99, 40, 500, 50},
	{"Ball Pen Pack", "Stationery", 49, 20, 400, 50},
	{"Geometry Box", "Stationery", 299, 150, 3, 10},
	{"Highlighters", "Stationery", 199, 90, 80, 15},
	{"Mixer Grinder", "Home Appliances", 3499, 2500, 15, 5},
	{"Table Fan", "Home Appliances", 1899, 1200, 20, 5},
	{"LED Desk Lamp", "Home Appliances", 899, 550, 6, 10},
}

// Sale frequency per product, so fast movers stand out in the reports.
var saleWeights = map[string]int{
	"USB Cable": 15, "Biscuit Pack": 12, "Ball Pen Pack": 10,
	"Notebook A4": 10, "Green Tea": 8, "Wireless Earbuds": 7,
	"Smartphone": 5, "T-Shirt": 5, "Coffee Beans": 5,
	"Protein Bar": 4, "Jeans": 3,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("Connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	log.Print("Clearing existing data...")
	for _, table := range []string{"sales", "products", "categories"} {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			log.Fatalf("Clear %s: %v", table, err)
		}
	}

	categoryIDs := make(map[string]int64)
	for _, name := range []string{"Electronics", "Clothing", "Food & Beverages", "Stationery", "Home Appliances"} {
		var id int64
		err := db.QueryRowContext(ctx,
			`INSERT INTO categories (name, created_at) VALUES ($1, NOW()) RETURNING id`,
			name).Scan(&id)
		if err != nil {
			log.Fatalf("Create category %s: %v", name, err)
		}
		categoryIDs[name] = id
	}
	log.Printf("Created %d categories", len(categoryIDs))

	type insertedProduct struct {
		id    int64
		name  string
		price decimal.Decimal
	}

	var products []insertedProduct
	for _, p := range seedProducts {
		var id int64
		err := db.QueryRowContext(ctx,
			`INSERT INTO products (name, category_id, price, cost_price, quantity,
			                       low_stock_threshold, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
			 RETURNING id`,
			p.name, categoryIDs[p.category], decimal.NewFromInt(p.price),
			decimal.NewFromInt(p.costPrice), p.quantity, p.threshold).Scan(&id)
		if err != nil {
			log.Fatalf("Create product %s: %v", p.name, err)
		}
		products = append(products, insertedProduct{id: id, name: p.name, price: decimal.NewFromInt(p.price)})
	}
	log.Printf("Created %d products", len(products))

	// Historical sales are inserted directly: the catalog quantities above
	// are current stock, not stock before these sales.
	now := time.Now().UTC()
	saleCount := 0
	for _, p := range products {
		weight := 2
		if w, ok := saleWeights[p.name]; ok {
			weight = w
		}

		for i := 0; i < weight*8; i++ {
			qty := rand.Intn(8) + 1
			daysAgo := rand.Intn(91)
			saleDate := now.AddDate(0, 0, -daysAgo)

			if err := insertSale(ctx, db, p.id, qty, p.price, saleDate); err != nil {
				log.Fatalf("Create sale for %s: %v", p.name, err)
			}
			saleCount++
		}
	}

	log.Printf("Created %d sales across the last 90 days", saleCount)
	log.Print("Sample data loaded successfully")
}

func insertSale(ctx context.Context, db *sql.DB, productID int64, qty int, price decimal.Decimal, saleDate time.Time) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO sales (product_id, quantity_sold, sale_price, sale_date)
		 VALUES ($1, $2, $3, $4)`,
		productID, qty, price, saleDate)
	return err
}
