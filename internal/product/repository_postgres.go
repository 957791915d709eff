package product

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	productColumns   = `id, name, slug, COALESCE(description, ''), price, COALESCE(category, ''), COALESCE(image_url, ''), created_at, updated_at`
	listVariantQuery = `SELECT size, stock_quantity FROM product_variants WHERE product_id = $1 ORDER BY size`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(id string) (Product, error) {
	return r.getOne(`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

func (r *PostgresRepository) GetBySlug(slug string) (Product, error) {
	return r.getOne(`SELECT `+productColumns+` FROM products WHERE slug = $1`, slug)
}

func (r *PostgresRepository) getOne(query string, arg any) (Product, error) {
	var p Product
	err := r.db.QueryRow(query, arg).Scan(&p.ID, &p.Name, &p.Slug, &p.Description,
		&p.Price, &p.Category, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}

	rows, err := r.db.Query(listVariantQuery, p.ID)
	if err != nil {
		return Product{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var v Variant
		if err := rows.Scan(&v.Size, &v.StockQuantity); err != nil {
			return Product{}, err
		}
		p.Variants = append(p.Variants, v)
	}
	return p, rows.Err()
}

func (r *PostgresRepository) List(category string) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	args := []any{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.Description,
			&p.Price, &p.Category, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
