package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"catalog-backend/config"
	"catalog-backend/internal/domain"
	"catalog-backend/pkg/cache"

	"github.com/goccy/go-json"
)

type CatalogUsecase struct {
	repo  domain.ProductRepository
	cache cache.Service
	queue domain.NotificationQueue
	cfg   *config.Config
}

func NewCatalogUsecase(repo domain.ProductRepository, c cache.Service, queue domain.NotificationQueue, cfg *config.Config) *CatalogUsecase {
	return &CatalogUsecase{
		repo:  repo,
		cache: c,
		queue: queue,
		cfg:   cfg,
	}
}

// listCacheKey derives a canonical key from the full set of list parameters.
// url.Values encoding sorts and escapes, so distinct filter combinations
// never collide.
func listCacheKey(f domain.ProductFilter) string {
	v := url.Values{}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if f.PriceGTE != nil {
		v.Set("price__gte", f.PriceGTE.String())
	}
	if f.PriceLTE != nil {
		v.Set("price__lte", f.PriceLTE.String())
	}
	if f.PriceEQ != nil {
		v.Set("price__exact", f.PriceEQ.String())
	}
	if f.StockGTE != nil {
		v.Set("stock__gte", strconv.Itoa(*f.StockGTE))
	}
	if f.StockLTE != nil {
		v.Set("stock__lte", strconv.Itoa(*f.StockLTE))
	}
	if f.StockEQ != nil {
		v.Set("stock__exact", strconv.Itoa(*f.StockEQ))
	}
	if f.CreatedAtEQ != nil {
		v.Set("created_at__exact", f.CreatedAtEQ.UTC().Format(time.RFC3339Nano))
	}
	if f.Ordering != "" {
		v.Set("ordering", f.Ordering)
	}
	v.Set("page", strconv.Itoa(f.Page))
	v.Set("page_size", strconv.Itoa(f.PageSize))
	return "products:list:" + v.Encode()
}

func detailCacheKey(id int64) string {
	return fmt.Sprintf("products:detail:%d", id)
}

// ListProducts runs a bounded list query through the list cache. Identical
// parameter sets within the TTL window are served from cache without
// touching the store.
func (uc *CatalogUsecase) ListProducts(ctx context.Context, filter domain.ProductFilter) (*domain.ProductPage, error) {
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = uc.cfg.PageSizeDefault
	}
	if err := filter.Validate(uc.cfg.PageSizeMax); err != nil {
		return nil, err
	}

	raw, err := cache.GetOrCompute(ctx, uc.cache, listCacheKey(filter), uc.cfg.CacheListTTL, func() ([]byte, error) {
		items, total, err := uc.repo.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		page := domain.ProductPage{
			Items:      items,
			TotalCount: total,
			Page:       filter.Page,
			PageSize:   filter.PageSize,
		}
		return json.Marshal(page)
	})
	if err != nil {
		return nil, err
	}

	var page domain.ProductPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("decode cached page: %w", err)
	}
	if page.Items == nil {
		page.Items = []domain.Product{}
	}
	return &page, nil
}

func (uc *CatalogUsecase) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return uc.repo.GetByID(ctx, id)
}

// GetProductCached serves the detail lookup through the per-object cache.
// Mutations drop the entry immediately, so a hit is never stale.
func (uc *CatalogUsecase) GetProductCached(ctx context.Context, id int64) (*domain.Product, error) {
	raw, err := cache.GetOrCompute(ctx, uc.cache, detailCacheKey(id), uc.cfg.CacheDetailTTL, func() ([]byte, error) {
		product, err := uc.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return json.Marshal(product)
	})
	if err != nil {
		return nil, err
	}

	var product domain.Product
	if err := json.Unmarshal(raw, &product); err != nil {
		return nil, fmt.Errorf("decode cached product: %w", err)
	}
	return &product, nil
}

func (uc *CatalogUsecase) CreateProduct(ctx context.Context, product *domain.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}
	return uc.repo.Create(ctx, product)
}

// UpdateProduct replaces every mutable field and invalidates the entity's
// detail cache entry. List entries are left to expire by TTL.
func (uc *CatalogUsecase) UpdateProduct(ctx context.Context, product *domain.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}
	if err := uc.repo.Update(ctx, product); err != nil {
		return err
	}
	uc.cache.Delete(ctx, detailCacheKey(product.ID))
	return nil
}

// PatchProduct overlays the non-nil patch fields onto the current entity and
// writes the result back as a single atomic update.
func (uc *CatalogUsecase) PatchProduct(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	current, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		current.Name = *patch.Name
	}
	if patch.Description != nil {
		current.Description = *patch.Description
	}
	if patch.Price != nil {
		current.Price = *patch.Price
	}
	if patch.Stock != nil {
		current.Stock = *patch.Stock
	}

	if err := current.Validate(); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, current); err != nil {
		return nil, err
	}
	uc.cache.Delete(ctx, detailCacheKey(id))
	return current, nil
}

func (uc *CatalogUsecase) DeleteProduct(ctx context.Context, id int64) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.cache.Delete(ctx, detailCacheKey(id))
	return nil
}

// NotifyUpdate hands the product id to the notification boundary. The entity
// must exist; the queue itself is a placeholder for an external runtime.
func (uc *CatalogUsecase) NotifyUpdate(ctx context.Context, id int64) (domain.TaskHandle, error) {
	if _, err := uc.repo.GetByID(ctx, id); err != nil {
		return "", err
	}
	return uc.queue.EnqueueUpdateNotification(ctx, id)
}
