package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cehpoint-official/bolpur-mart/internal/domain"
	apperrors "github.com/cehpoint-official/bolpur-mart/pkg/errors"
	"github.com/cehpoint-official/bolpur-mart/pkg/database"
)

// ProductRepository implements repository.ProductRepository using PostgreSQL.
// Tags and category references are stored as jsonb columns, mirroring the
// loosely-shaped documents the catalog was originally stored in while keeping
// a strict schema at this boundary.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `id, name, slug, description, tags, categories, available, price, currency, unit, stock, image_url, created_at, updated_at`

// Create inserts a new product into the database.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	tagsJSON, categoriesJSON, err := marshalProductCollections(p)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err = r.pool.Exec(ctx, query,
		p.ID,
		p.Name,
		p.Slug,
		p.Description,
		tagsJSON,
		categoriesJSON,
		p.Available,
		p.Price,
		p.Currency,
		p.Unit,
		p.Stock,
		p.ImageURL,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("product", "slug", p.Slug)
		}
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.scanProduct(ctx, query, "product", id)
}

// GetBySlug retrieves a product by its slug.
func (r *ProductRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE slug = $1`
	return r.scanProduct(ctx, query, "product", slug)
}

// ListAvailable returns all products flagged available, newest first. The
// ordering is stable so repeated filter passes over the snapshot produce
// identical output.
func (r *ProductRepository) ListAvailable(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE available = true
		ORDER BY created_at DESC, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list available products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProductRow(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

// Update modifies an existing product.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	tagsJSON, categoriesJSON, err := marshalProductCollections(p)
	if err != nil {
		return err
	}

	query := `
		UPDATE products
		SET name = $2, slug = $3, description = $4, tags = $5, categories = $6,
			available = $7, price = $8, currency = $9, unit = $10, stock = $11,
			image_url = $12, updated_at = $13
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		p.ID,
		p.Name,
		p.Slug,
		p.Description,
		tagsJSON,
		categoriesJSON,
		p.Available,
		p.Price,
		p.Currency,
		p.Unit,
		p.Stock,
		p.ImageURL,
		p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("product", "slug", p.Slug)
		}
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("product", p.ID)
	}

	return nil
}

// Delete removes a product by its ID.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}
	return nil
}

func (r *ProductRepository) scanProduct(ctx context.Context, query, resource, arg string) (*domain.Product, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", resource, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query %s: %w", resource, err)
		}
		return nil, apperrors.NotFound(resource, arg)
	}

	return scanProductRow(rows)
}

func scanProductRow(row pgx.Rows) (*domain.Product, error) {
	var (
		p              domain.Product
		tagsJSON       []byte
		categoriesJSON []byte
	)

	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&tagsJSON,
		&categoriesJSON,
		&p.Available,
		&p.Price,
		&p.Currency,
		&p.Unit,
		&p.Stock,
		&p.ImageURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}

	// Null or corrupt jsonb degrades to empty collections; the product then
	// simply never matches collection-based filters.
	if len(tagsJSON) > 0 {
		if err := json.Unmarshal(tagsJSON, &p.Tags); err != nil {
			p.Tags = nil
		}
	}
	if len(categoriesJSON) > 0 {
		if err := json.Unmarshal(categoriesJSON, &p.Categories); err != nil {
			p.Categories = nil
		}
	}

	return &p, nil
}

func marshalProductCollections(p *domain.Product) (tags, categories []byte, err error) {
	tags, err = json.Marshal(p.Tags)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal tags: %w", err)
	}
	categories, err = json.Marshal(p.Categories)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal categories: %w", err)
	}
	return tags, categories, nil
}

// isUniqueViolation reports whether the error is a PostgreSQL unique
// constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}