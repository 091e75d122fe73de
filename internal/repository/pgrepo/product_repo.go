package pgrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"catalog-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type productRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) domain.ProductRepository {
	return &productRepository{db: db}
}

// price is selected as text so it round-trips through decimal without any
// float step.
const productColumns = "id, name, description, price::text, stock, created_at, updated_at"

// buildWhere translates the filter predicates into parameterized SQL. All
// predicates combine with AND.
func buildWhere(f domain.ProductFilter) (string, []any) {
	var clauses []string
	var args []any

	add := func(format string, val any) {
		args = append(args, val)
		clauses = append(clauses, fmt.Sprintf(format, len(args)))
	}

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", n, n))
	}
	if f.PriceGTE != nil {
		add("price >= $%d::numeric", f.PriceGTE.String())
	}
	if f.PriceLTE != nil {
		add("price <= $%d::numeric", f.PriceLTE.String())
	}
	if f.PriceEQ != nil {
		add("price = $%d::numeric", f.PriceEQ.String())
	}
	if f.StockGTE != nil {
		add("stock >= $%d", *f.StockGTE)
	}
	if f.StockLTE != nil {
		add("stock <= $%d", *f.StockLTE)
	}
	if f.StockEQ != nil {
		add("stock = $%d", *f.StockEQ)
	}
	if f.CreatedAtEQ != nil {
		add("created_at = $%d", *f.CreatedAtEQ)
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// orderClause maps the validated ordering key onto a deterministic ORDER BY.
// Ties always break by id ASC so pagination is stable.
func orderClause(ordering string) string {
	if ordering == "" {
		return " ORDER BY id ASC"
	}
	dir := "ASC"
	field := ordering
	if strings.HasPrefix(field, "-") {
		dir = "DESC"
		field = field[1:]
	}
	// Ordering is validated upstream; the allow-list check here keeps raw
	// input out of the SQL text no matter what the caller did.
	if !domain.OrderingFields[field] {
		return " ORDER BY id ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, id ASC", field, dir)
}

func buildListQuery(f domain.ProductFilter) (string, []any) {
	where, args := buildWhere(f)
	query := "SELECT " + productColumns + " FROM products" + where + orderClause(f.Ordering)
	args = append(args, f.PageSize, f.Offset())
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	return query, args
}

func buildCountQuery(f domain.ProductFilter) (string, []any) {
	where, args := buildWhere(f)
	return "SELECT COUNT(*) FROM products" + where, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	var priceText string
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &priceText, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return domain.Product{}, err
	}
	price, err := decimal.NewFromString(priceText)
	if err != nil {
		return domain.Product{}, fmt.Errorf("parse price %q: %w", priceText, err)
	}
	p.Price = price
	return p, nil
}

func (r *productRepository) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error) {
	query, args := buildListQuery(filter)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, domain.StoreError(err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0, filter.PageSize)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, domain.StoreError(err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, domain.StoreError(err)
	}

	countQuery, countArgs := buildCountQuery(filter)
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, domain.StoreError(err)
	}

	return products, total, nil
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.db.QueryRow(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.StoreError(err)
	}
	return &p, nil
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO products (name, description, price, stock)
		 VALUES ($1, $2, $3::numeric, $4)
		 RETURNING id, created_at, updated_at`,
		product.Name, product.Description, product.Price.String(), product.Stock,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return domain.StoreError(err)
	}
	return nil
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	err := r.db.QueryRow(ctx,
		`UPDATE products
		 SET name = $1, description = $2, price = $3::numeric, stock = $4, updated_at = now()
		 WHERE id = $5
		 RETURNING created_at, updated_at`,
		product.Name, product.Description, product.Price.String(), product.Stock, product.ID,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return domain.StoreError(err)
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return domain.StoreError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
