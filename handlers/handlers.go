// Package handlers provides the HTTP handlers of serve mode: paged product
// listings, code and ingredient lookups over the in-memory snapshot, and
// the health endpoint.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/giygas/pmda-datasets/entities"
	"github.com/giygas/pmda-datasets/interfaces"
	"github.com/giygas/pmda-datasets/logging"
	"github.com/giygas/pmda-datasets/textutil"
	"github.com/go-chi/chi/v5"
)

const pageSize = 25

var serverStartTime = time.Now()

// Handler serves the aggregated datasets with injected dependencies.
type Handler struct {
	dataStore interfaces.DataStore
	validator interfaces.DataValidator
}

// NewHandler creates a handler backed by the given store and validator.
func NewHandler(dataStore interfaces.DataStore, validator interfaces.DataValidator) *Handler {
	return &Handler{
		dataStore: dataStore,
		validator: validator,
	}
}

// RespondWithJSON writes a JSON response.
func (h *Handler) RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error response.
func (h *Handler) RespondWithError(w http.ResponseWriter, code int, message string) {
	h.RespondWithJSON(w, code, map[string]interface{}{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	})
}

// ServePagedOTCProducts returns one page of the OTC dataset.
func (h *Handler) ServePagedOTCProducts(w http.ResponseWriter, r *http.Request) {
	// Read the snapshot once so a concurrent swap cannot change the slice
	// between the length check and the page cut.
	products := h.dataStore.OTCProducts()
	h.servePage(w, r, len(products), func(start, end int) interface{} {
		return products[start:end]
	})
}

// ServePagedIyakuProducts returns one page of the prescription dataset.
func (h *Handler) ServePagedIyakuProducts(w http.ResponseWriter, r *http.Request) {
	products := h.dataStore.IyakuProducts()
	h.servePage(w, r, len(products), func(start, end int) interface{} {
		return products[start:end]
	})
}

func (h *Handler) servePage(w http.ResponseWriter, r *http.Request, totalItems int, slice func(start, end int) interface{}) {
	pageNumber := chi.URLParam(r, "pageNumber")
	page, err := strconv.Atoi(pageNumber)
	if err != nil || page < 1 {
		logging.Warn("Unusual user input", "pageNumber", pageNumber)
		h.RespondWithError(w, http.StatusBadRequest, "Invalid page number")
		return
	}

	start := (page - 1) * pageSize
	if start >= totalItems && totalItems > 0 {
		h.RespondWithError(w, http.StatusNotFound, "Page not found")
		return
	}
	if totalItems == 0 && page > 1 {
		h.RespondWithError(w, http.StatusNotFound, "Page not found")
		return
	}

	end := start + pageSize
	if end > totalItems {
		end = totalItems
	}

	h.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"data":       slice(start, end),
		"page":       page,
		"pageSize":   pageSize,
		"totalItems": totalItems,
		"maxPage":    (totalItems + pageSize - 1) / pageSize,
	})
}

// FindOTCProductByCode returns one OTC product by its catalog code.
func (h *Handler) FindOTCProductByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := h.validator.ValidateInput(code); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, found := h.dataStore.OTCProductByCode(code)
	if !found {
		h.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	h.RespondWithJSON(w, http.StatusOK, product)
}

// FindOTCIngredient looks up an ingredient in the OTC reverse index.
func (h *Handler) FindOTCIngredient(w http.ResponseWriter, r *http.Request) {
	h.findIngredient(w, r, h.dataStore.OTCIngredientIndex())
}

// FindIyakuIngredient looks up an ingredient in the prescription reverse
// index.
func (h *Handler) FindIyakuIngredient(w http.ResponseWriter, r *http.Request) {
	h.findIngredient(w, r, h.dataStore.IyakuIngredientIndex())
}

func (h *Handler) findIngredient(w http.ResponseWriter, r *http.Request, index map[string]*entities.IngredientIndexEntry) {
	name := chi.URLParam(r, "name")
	if err := h.validator.ValidateInput(name); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Index keys are normalized at build time, so normalize the query the
	// same way before the exact lookup.
	key := textutil.Normalize(name)
	if entry, ok := index[key]; ok {
		h.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"ingredient": key,
			"count":      entry.Count,
			"products":   entry.Products,
		})
		return
	}

	h.RespondWithError(w, http.StatusNotFound, "Ingredient not found")
}

// ServeHealth reports snapshot freshness and dataset sizes.
func (h *Handler) ServeHealth(w http.ResponseWriter, r *http.Request) {
	lastUpdated := h.dataStore.LastUpdated()

	status := "healthy"
	if lastUpdated.IsZero() {
		status = "empty"
	}

	dataAge := 0.0
	if !lastUpdated.IsZero() {
		dataAge = time.Since(lastUpdated).Hours()
	}

	h.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":         status,
		"updating":       h.dataStore.IsUpdating(),
		"last_update":    lastUpdated.UTC().Format(time.RFC3339),
		"data_age_hours": dataAge,
		"uptime_seconds": time.Since(serverStartTime).Seconds(),
		"data": map[string]interface{}{
			"otc_products":      len(h.dataStore.OTCProducts()),
			"iyaku_products":    len(h.dataStore.IyakuProducts()),
			"otc_ingredients":   len(h.dataStore.OTCIngredientIndex()),
			"iyaku_ingredients": len(h.dataStore.IyakuIngredientIndex()),
		},
	})
}
