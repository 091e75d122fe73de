package v1

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"catalog-backend/internal/domain"
	"catalog-backend/internal/usecase"
	"catalog-backend/pkg/utils"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

type CatalogHandler struct {
	catalogUC *usecase.CatalogUsecase
}

func NewCatalogHandler(uc *usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{catalogUC: uc}
}

// productRequest is the write body for create and full update. Price comes
// in as a fixed-point decimal string.
type productRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}

func writeDomainError(w http.ResponseWriter, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		utils.WriteFieldErrors(w, vErr.Fields)
	case errors.Is(err, domain.ErrNotFound):
		utils.WriteError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, domain.ErrStoreUnavailable):
		utils.WriteError(w, http.StatusServiceUnavailable, "store unavailable")
	default:
		utils.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

// parseListFilter translates query string parameters into a ProductFilter.
// Parameter errors are collected per field so the caller sees all of them at
// once.
func parseListFilter(q url.Values) (domain.ProductFilter, error) {
	var f domain.ProductFilter
	fields := map[string]string{}

	f.Search = q.Get("search")
	f.Ordering = q.Get("ordering")

	parsePositiveInt(q, "page", &f.Page, fields)
	parsePositiveInt(q, "page_size", &f.PageSize, fields)

	parseDecimalParam(q, "price__gte", &f.PriceGTE, fields)
	parseDecimalParam(q, "price__lte", &f.PriceLTE, fields)
	parseDecimalParam(q, "price__exact", &f.PriceEQ, fields)

	parseIntParam(q, "stock__gte", &f.StockGTE, fields)
	parseIntParam(q, "stock__lte", &f.StockLTE, fields)
	parseIntParam(q, "stock__exact", &f.StockEQ, fields)

	parseTimeParam(q, "created_at__exact", &f.CreatedAtEQ, fields)

	if len(fields) > 0 {
		return f, &domain.ValidationError{Fields: fields}
	}
	return f, nil
}

func parsePositiveInt(q url.Values, key string, dst *int, fields map[string]string) {
	s := q.Get(key)
	if s == "" {
		return
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		fields[key] = "must be a positive integer"
		return
	}
	*dst = n
}

func parseDecimalParam(q url.Values, key string, dst **decimal.Decimal, fields map[string]string) {
	s := q.Get(key)
	if s == "" {
		return
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		fields[key] = "must be a decimal number"
		return
	}
	*dst = &d
}

func parseIntParam(q url.Values, key string, dst **int, fields map[string]string) {
	s := q.Get(key)
	if s == "" {
		return
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		fields[key] = "must be an integer"
		return
	}
	*dst = &n
}

func parseTimeParam(q url.Values, key string, dst **time.Time, fields map[string]string) {
	s := q.Get(key)
	if s == "" {
		return
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		fields[key] = "must be an RFC 3339 timestamp"
		return
	}
	*dst = &ts
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, &domain.ValidationError{Fields: map[string]string{"id": "must be a positive integer"}}
	}
	return id, nil
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r.URL.Query())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	page, err := h.catalogUC.ListProducts(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"data": page.Items,
		"pagination": map[string]interface{}{
			"total":     page.TotalCount,
			"page":      page.Page,
			"page_size": page.PageSize,
		},
	})
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	product, err := h.catalogUC.GetProduct(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) GetProductCached(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	product, err := h.catalogUC.GetProductCached(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product := domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	}
	if err := h.catalogUC.CreateProduct(r.Context(), &product); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, product)
}

func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product := domain.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	}
	if err := h.catalogUC.UpdateProduct(r.Context(), &product); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) PatchProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var patch domain.ProductPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalogUC.PatchProduct(r.Context(), id, patch)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.catalogUC.DeleteProduct(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) NotifyUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	handle, err := h.catalogUC.NotifyUpdate(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusAccepted, map[string]string{
		"status":  "update notification queued",
		"task_id": string(handle),
	})
}
