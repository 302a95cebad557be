package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kavish/inventory-insight/internal/logging"
	"github.com/kavish/inventory-insight/internal/store"
)

type recordSaleRequest struct {
	ProductID    int64   `json:"product_id"`
	QuantitySold int     `json:"quantity_sold"`
	SalePrice    float64 `json:"sale_price"`
	Notes        string  `json:"notes"`
}

func (h *Handler) RecordSale(w http.ResponseWriter, r *http.Request) {
	var req recordSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := store.RecordSale(r.Context(), h.db, store.RecordSaleRequest{
		ProductID:    req.ProductID,
		QuantitySold: req.QuantitySold,
		SalePrice:    decimal.NewFromFloat(req.SalePrice),
		Notes:        req.Notes,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if result.LowStock {
		logging.Warn().
			Str("product", result.Product.Name).
			Int("quantity", result.Product.Quantity).
			Int("threshold", result.Product.LowStockThreshold).
			Msg("low stock after sale")
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"sale":            result.Sale,
		"product":         result.Product,
		"low_stock_alert": result.LowStock,
	})
}

func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	filter := store.SaleFilter{}

	if raw := r.URL.Query().Get("start_date"); raw != "" {
		start, err := time.Parse("2006-01-02", raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid start_date, expected YYYY-MM-DD")
			return
		}
		filter.Start = &start
	}
	if raw := r.URL.Query().Get("end_date"); raw != "" {
		end, err := time.Parse("2006-01-02", raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid end_date, expected YYYY-MM-DD")
			return
		}
		filter.End = &end
	}

	page, pageSize := pageParams(r)
	result, err := store.ListSales(r.Context(), h.db, filter, page, pageSize)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

type restockRequest struct {
	QuantityToAdd int    `json:"quantity_to_add"`
	Notes         string `json:"notes"`
}

func (h *Handler) RestockProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req restockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := store.RestockProduct(r.Context(), h.db, id, req.QuantityToAdd)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	event := logging.Info().
		Str("product", product.Name).
		Int("added", req.QuantityToAdd).
		Int("quantity", product.Quantity)
	if req.Notes != "" {
		event.Str("notes", req.Notes)
	}
	event.Msg("stock updated")

	WriteJSON(w, http.StatusOK, product)
}

// ProductPrice backs the sale form's auto-fill: price, current stock and
// name for one product, or a 404 payload when the id does not resolve.
func (h *Handler) ProductPrice(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("product_id"), 10, 64)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Product not found")
		return
	}

	product, err := store.GetProduct(r.Context(), h.db, id)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Product not found")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"price": product.Price.InexactFloat64(),
		"stock": product.Quantity,
		"name":  product.Name,
	})
}
