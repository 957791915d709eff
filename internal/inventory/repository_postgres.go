package inventory

import (
	"database/sql"
)

// Postgres repository over the product_variants table.
// Table layout expected:
//   id serial primary key,
//   product_id text not null,
//   size text not null,
//   stock_quantity int not null default 0,
//   unique (product_id, size)

type PostgresRepository struct {
	db *sql.DB
}

const (
	// The row is locked before the clamp, so prev.stock_quantity is the
	// committed value this update really started from and applied
	// (prev - new) stays exact when two checkouts hit the same variant
	// at once. A plain self-join reads prev from the statement snapshot,
	// which goes stale the moment a concurrent decrement commits first.
	decrementQuery = `
		WITH prev AS (
			SELECT id, stock_quantity FROM product_variants
			WHERE product_id = $1 AND size = $2
			FOR UPDATE
		)
		UPDATE product_variants v
		SET stock_quantity = GREATEST(0, prev.stock_quantity - $3)
		FROM prev
		WHERE v.id = prev.id
		RETURNING v.stock_quantity, prev.stock_quantity
	`
	restockQuery = `
		UPDATE product_variants
		SET stock_quantity = stock_quantity + $3
		WHERE product_id = $1 AND size = $2
		RETURNING stock_quantity
	`
	setStockQuery = `
		INSERT INTO product_variants (product_id, size, stock_quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_id, size) DO UPDATE SET stock_quantity = EXCLUDED.stock_quantity
		RETURNING id, product_id, size, stock_quantity
	`
	listStockQuery = `
		SELECT v.product_id, COALESCE(p.name, ''), v.size, v.stock_quantity
		FROM product_variants v
		LEFT JOIN products p ON p.id = v.product_id
		ORDER BY p.name, v.size
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Decrement(productID, size string, qty int) (int, int, error) {
	var newQty, oldQty int
	if err := r.db.QueryRow(decrementQuery, productID, size, qty).Scan(&newQty, &oldQty); err != nil {
		if err == sql.ErrNoRows {
			return 0, 0, ErrVariantNotFound
		}
		return 0, 0, err
	}
	return newQty, oldQty - newQty, nil
}

func (r *PostgresRepository) Restock(productID, size string, qty int) (int, error) {
	var newQty int
	if err := r.db.QueryRow(restockQuery, productID, size, qty).Scan(&newQty); err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrVariantNotFound
		}
		return 0, err
	}
	return newQty, nil
}

func (r *PostgresRepository) SetStock(productID, size string, qty int) (Variant, error) {
	var v Variant
	if err := r.db.QueryRow(setStockQuery, productID, size, qty).Scan(&v.ID, &v.ProductID, &v.Size, &v.StockQuantity); err != nil {
		return Variant{}, err
	}
	return v, nil
}

func (r *PostgresRepository) ListStock() ([]StockLevel, error) {
	rows, err := r.db.Query(listStockQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]StockLevel, 0)
	for rows.Next() {
		var s StockLevel
		if err := rows.Scan(&s.ProductID, &s.ProductName, &s.Size, &s.StockQuantity); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
