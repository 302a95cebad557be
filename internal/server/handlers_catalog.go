package server

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/kavish/inventory-insight/internal/models"
	"github.com/kavish/inventory-insight/internal/store"
)

type Handler struct {
	db *sql.DB
}

func NewHandler(db *sql.DB) *Handler {
	return &Handler{db: db}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		WriteError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func pageParams(r *http.Request) (page, pageSize int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := store.ListCategories(r.Context(), h.db)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	WriteJSON(w, http.StatusOK, categories)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	category, err := store.CreateCategory(r.Context(), h.db, req.Name, req.Description)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, category)
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	category, err := store.GetCategory(r.Context(), h.db, id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, category)
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	category, err := store.UpdateCategory(r.Context(), h.db, id, req.Name, req.Description)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, category)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	if err := store.DeleteCategory(r.Context(), h.db, id); err != nil {
		writeStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type productRequest struct {
	Name              string  `json:"name"`
	CategoryID        *int64  `json:"category_id"`
	Price             float64 `json:"price"`
	CostPrice         float64 `json:"cost_price"`
	Quantity          int     `json:"quantity"`
	LowStockThreshold int     `json:"low_stock_threshold"`
	Description       string  `json:"description"`
}

func (req productRequest) toParams() store.ProductParams {
	// Catalog default when the form leaves the threshold blank.
	threshold := req.LowStockThreshold
	if threshold == 0 {
		threshold = 10
	}
	return store.ProductParams{
		Name:              req.Name,
		CategoryID:        req.CategoryID,
		Price:             decimal.NewFromFloat(req.Price),
		CostPrice:         decimal.NewFromFloat(req.CostPrice),
		Quantity:          req.Quantity,
		LowStockThreshold: threshold,
		Description:       req.Description,
	}
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := store.ProductFilter{}

	if raw := r.URL.Query().Get("category"); raw != "" {
		categoryID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid category filter")
			return
		}
		filter.CategoryID = &categoryID
	}
	if r.URL.Query().Get("low_stock") != "" {
		filter.LowStockOnly = true
	}

	page, pageSize := pageParams(r)
	result, err := store.ListProducts(r.Context(), h.db, filter, page, pageSize)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := store.CreateProduct(r.Context(), h.db, req.toParams())
	if err != nil {
		writeStoreError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, product)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := store.GetProduct(r.Context(), h.db, id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	sales, err := store.ListSalesForProduct(r.Context(), h.db, id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if sales == nil {
		sales = []models.Sale{}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"product": product,
		"sales":   sales,
	})
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := store.UpdateProduct(r.Context(), h.db, id, req.toParams())
	if err != nil {
		writeStoreError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, product)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if err := store.DeleteProduct(r.Context(), h.db, id); err != nil {
		writeStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
