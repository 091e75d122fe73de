package domain

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Product is the single catalog entity. IDs are assigned by the store on
// creation and never change.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Validate enforces entity invariants before a write reaches the store.
func (p *Product) Validate() error {
	fields := map[string]string{}
	if p.Name == "" {
		fields["name"] = "must not be empty"
	}
	if p.Price.IsNegative() {
		fields["price"] = "must not be negative"
	}
	if p.Stock < 0 {
		fields["stock"] = "must not be negative"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ProductPatch carries a partial update; nil fields keep their current value.
type ProductPatch struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
}

// ProductFilter is the full input of a list query. Search, filters, ordering
// and the pagination window are all pushed down to the store as a single
// bounded query.
type ProductFilter struct {
	Search      string
	PriceGTE    *decimal.Decimal
	PriceLTE    *decimal.Decimal
	PriceEQ     *decimal.Decimal
	StockGTE    *int
	StockLTE    *int
	StockEQ     *int
	CreatedAtEQ *time.Time
	Ordering    string // allow-listed field name, leading '-' for descending
	Page        int    // 1-based
	PageSize    int
}

// OrderingFields is the allow-list for ProductFilter.Ordering.
var OrderingFields = map[string]bool{
	"name":       true,
	"price":      true,
	"stock":      true,
	"created_at": true,
}

// Validate checks pagination and ordering after defaults have been applied.
// maxPageSize comes from configuration.
func (f *ProductFilter) Validate(maxPageSize int) error {
	fields := map[string]string{}
	if f.Page < 1 {
		fields["page"] = "must be a positive integer"
	}
	if f.PageSize < 1 {
		fields["page_size"] = "must be a positive integer"
	} else if f.PageSize > maxPageSize {
		fields["page_size"] = "must not exceed " + strconv.Itoa(maxPageSize)
	}
	if f.Ordering != "" {
		field := f.Ordering
		if field[0] == '-' {
			field = field[1:]
		}
		if !OrderingFields[field] {
			fields["ordering"] = "unknown ordering field: " + field
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Offset converts the 1-based page into a row offset. A page so large that
// the multiplication would overflow clamps to MaxInt, which the store treats
// as any other past-the-end window: empty items, real total.
func (f *ProductFilter) Offset() int {
	if f.PageSize > 0 && f.Page-1 > math.MaxInt/f.PageSize {
		return math.MaxInt
	}
	return (f.Page - 1) * f.PageSize
}

// ProductPage is the result of a bounded list query.
type ProductPage struct {
	Items      []Product `json:"items"`
	TotalCount int64     `json:"total_count"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
}

type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) ([]Product, int64, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id int64) error
}
