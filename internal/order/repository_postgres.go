package order

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Postgres repository over the orders and order_items tables. The shipping
// address snapshot is stored as jsonb on the order row.

type PostgresRepository struct {
	db *sql.DB
}

const (
	orderColumns = `id, order_number, customer_name, customer_email, customer_phone,
		shipping_address, subtotal, shipping_charge, total,
		payment_method, payment_status, status,
		razorpay_order_id, razorpay_payment_id, created_at, updated_at`

	insertOrderQuery = `
		INSERT INTO orders (id, order_number, customer_name, customer_email, customer_phone,
			shipping_address, subtotal, shipping_charge, total,
			payment_method, payment_status, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`
	insertItemQuery = `
		INSERT INTO order_items (order_id, product_id, product_name, product_image, size, quantity, price)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id
	`
	// The pending guard makes the flip atomic: concurrent verification
	// callbacks race on one UPDATE, and only the winner sees a row back.
	updatePaymentQuery = `
		UPDATE orders
		SET razorpay_order_id=$2, razorpay_payment_id=$3, payment_status='paid', status='processing', updated_at=$4
		WHERE order_number=$1 AND payment_status='pending'
		RETURNING ` + orderColumns + `
	`
	updateStatusQuery = `
		UPDATE orders SET status=$2, updated_at=$3 WHERE id=$1
		RETURNING ` + orderColumns + `
	`
	itemColumns = `id, order_id, product_id, product_name, product_image, size, quantity, price`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the order header and all line items in one transaction.
// If any item insert fails the whole transaction rolls back, so a zero-item
// order can never be observed.
func (r *PostgresRepository) Create(ord Order, items []Item) (Order, error) {
	addrJSON, err := json.Marshal(ord.ShippingAddress)
	if err != nil {
		return Order{}, err
	}

	ord.ID = uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)
	ord.CreatedAt, ord.UpdatedAt = now, now

	tx, err := r.db.Begin()
	if err != nil {
		return Order{}, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(insertOrderQuery,
		ord.ID, ord.OrderNumber, ord.CustomerName, ord.CustomerEmail, ord.CustomerPhone,
		addrJSON, ord.Subtotal, ord.ShippingCharge, ord.Total,
		ord.PaymentMethod, ord.PaymentStatus, ord.Status, ord.CreatedAt, ord.UpdatedAt); err != nil {
		return Order{}, err
	}

	ord.Items = make([]Item, len(items))
	for i, it := range items {
		it.OrderID = ord.ID
		if err := tx.QueryRow(insertItemQuery,
			ord.ID, it.ProductID, it.ProductName, it.ProductImage, it.Size, it.Quantity, it.Price).Scan(&it.ID); err != nil {
			return Order{}, err
		}
		ord.Items[i] = it
	}

	if err := tx.Commit(); err != nil {
		return Order{}, err
	}
	return ord, nil
}

func (r *PostgresRepository) Delete(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM order_items WHERE order_id=$1`, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	cnt, _ := res.RowsAffected()
	if cnt == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func (r *PostgresRepository) GetByID(id string) (Order, error) {
	return r.getOne(`SELECT `+orderColumns+` FROM orders WHERE id=$1`, id)
}

func (r *PostgresRepository) GetByNumber(number string) (Order, error) {
	return r.getOne(`SELECT `+orderColumns+` FROM orders WHERE order_number=$1`, number)
}

func (r *PostgresRepository) getOne(query string, arg any) (Order, error) {
	ord, err := scanOrder(r.db.QueryRow(query, arg))
	if err != nil {
		if err == sql.ErrNoRows {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	items, err := r.itemsFor([]string{ord.ID})
	if err != nil {
		return Order{}, err
	}
	ord.Items = items[ord.ID]
	return ord, nil
}

func (r *PostgresRepository) List(status string, limit int) ([]Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []any{}
	if status != "" {
		query += ` WHERE status=$1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += ` LIMIT ` + strconv.Itoa(limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]Order, 0)
	ids := make([]string, 0)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, ord)
		ids = append(ids, ord.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items, err := r.itemsFor(ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (r *PostgresRepository) UpdatePayment(orderNumber, gatewayOrderID, gatewayPaymentID string) (Order, bool, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	ord, err := scanOrder(r.db.QueryRow(updatePaymentQuery, orderNumber, gatewayOrderID, gatewayPaymentID, now))
	if err != nil {
		if err != sql.ErrNoRows {
			return Order{}, false, err
		}
		// no pending row matched: either the order does not exist or
		// another callback already flipped it; re-read to tell which
		ord, err := r.GetByNumber(orderNumber)
		if err != nil {
			return Order{}, false, err
		}
		return ord, false, nil
	}
	items, err := r.itemsFor([]string{ord.ID})
	if err != nil {
		return Order{}, false, err
	}
	ord.Items = items[ord.ID]
	return ord, true, nil
}

func (r *PostgresRepository) UpdateStatus(id, status string) (Order, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	ord, err := scanOrder(r.db.QueryRow(updateStatusQuery, id, status, now))
	if err != nil {
		if err == sql.ErrNoRows {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	return ord, nil
}

// itemsFor fetches line items for the given order ids in one query.
func (r *PostgresRepository) itemsFor(ids []string) (map[string][]Item, error) {
	out := make(map[string][]Item, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(
		`SELECT `+itemColumns+` FROM order_items WHERE order_id = ANY($1::text[]) ORDER BY id`,
		pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName,
			&it.ProductImage, &it.Size, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (Order, error) {
	var ord Order
	var addrJSON []byte
	var gwOrderID, gwPaymentID sql.NullString
	if err := row.Scan(&ord.ID, &ord.OrderNumber, &ord.CustomerName, &ord.CustomerEmail, &ord.CustomerPhone,
		&addrJSON, &ord.Subtotal, &ord.ShippingCharge, &ord.Total,
		&ord.PaymentMethod, &ord.PaymentStatus, &ord.Status,
		&gwOrderID, &gwPaymentID, &ord.CreatedAt, &ord.UpdatedAt); err != nil {
		return Order{}, err
	}
	if err := json.Unmarshal(addrJSON, &ord.ShippingAddress); err != nil {
		return Order{}, fmt.Errorf("shipping address snapshot: %w", err)
	}
	if gwOrderID.Valid {
		ord.RazorpayOrderID = &gwOrderID.String
	}
	if gwPaymentID.Valid {
		ord.RazorpayPaymentID = &gwPaymentID.String
	}
	return ord, nil
}
