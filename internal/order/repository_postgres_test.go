package order

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPostgresCreate_CommitsHeaderAndItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO order_items").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery("INSERT INTO order_items").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectCommit()

	ord := Order{OrderNumber: "ORD-20250307-00001", PaymentMethod: PaymentMethodCOD,
		PaymentStatus: PaymentPending, Status: StatusPending}
	items := []Item{
		{ProductID: "p1", ProductName: "Shirt", Size: "M", Quantity: 1, Price: 500},
		{ProductID: "p2", ProductName: "Chinos", Size: "32", Quantity: 1, Price: 900},
	}

	created, err := repo.Create(ord, items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated order id")
	}
	if len(created.Items) != 2 || created.Items[0].ID != 1 || created.Items[1].ID != 2 {
		t.Fatalf("unexpected items %+v", created.Items)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// Item-insert failure must roll the header back: no zero-item order can
// survive a partial create.
func TestPostgresCreate_ItemFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO order_items").WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	ord := Order{OrderNumber: "ORD-20250307-00002", PaymentMethod: PaymentMethodCOD}
	items := []Item{{ProductID: "p1", ProductName: "Shirt", Size: "M", Quantity: 1, Price: 500}}

	if _, err := repo.Create(ord, items); err == nil {
		t.Fatal("expected error from failed item insert")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("rollback not issued: %v", err)
	}
}

func TestPostgresUpdatePayment_SetsPaidProcessing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	cols := []string{"id", "order_number", "customer_name", "customer_email", "customer_phone",
		"shipping_address", "subtotal", "shipping_charge", "total",
		"payment_method", "payment_status", "status",
		"razorpay_order_id", "razorpay_payment_id", "created_at", "updated_at"}
	rows := sqlmock.NewRows(cols).AddRow(
		"id-1", "ORD-20250307-00001", "Asha", "asha@example.com", "9999999999",
		[]byte(`{"name":"Asha"}`), 1000.0, 0.0, 1000.0,
		"ONLINE", "paid", "processing",
		"order_gw1", "pay_gw1", "2025-03-07T10:00:00Z", "2025-03-07T10:05:00Z")
	mock.ExpectQuery("UPDATE orders").
		WithArgs("ORD-20250307-00001", "order_gw1", "pay_gw1", sqlmock.AnyArg()).
		WillReturnRows(rows)
	mock.ExpectQuery("FROM order_items").WillReturnRows(sqlmock.NewRows([]string{
		"id", "order_id", "product_id", "product_name", "product_image", "size", "quantity", "price"}).
		AddRow(1, "id-1", "p1", "Shirt", "img", "M", 2, 500.0))

	ord, transitioned, err := repo.UpdatePayment("ORD-20250307-00001", "order_gw1", "pay_gw1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !transitioned {
		t.Fatal("expected this call to perform the transition")
	}
	if ord.PaymentStatus != PaymentPaid || ord.Status != StatusProcessing {
		t.Fatalf("expected paid/processing, got %s/%s", ord.PaymentStatus, ord.Status)
	}
	if ord.RazorpayPaymentID == nil || *ord.RazorpayPaymentID != "pay_gw1" {
		t.Fatalf("gateway payment id not recorded: %+v", ord.RazorpayPaymentID)
	}
	if len(ord.Items) != 1 {
		t.Fatalf("expected items fetched, got %d", len(ord.Items))
	}
}

// A paid order no longer matches the pending guard; the repository re-reads
// it and reports that no transition happened.
func TestPostgresUpdatePayment_AlreadyPaidDoesNotTransition(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	cols := []string{"id", "order_number", "customer_name", "customer_email", "customer_phone",
		"shipping_address", "subtotal", "shipping_charge", "total",
		"payment_method", "payment_status", "status",
		"razorpay_order_id", "razorpay_payment_id", "created_at", "updated_at"}

	mock.ExpectQuery("UPDATE orders").
		WithArgs("ORD-20250307-00001", "order_gw1", "pay_gw1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(cols))
	mock.ExpectQuery("FROM orders").WithArgs("ORD-20250307-00001").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			"id-1", "ORD-20250307-00001", "Asha", "asha@example.com", "9999999999",
			[]byte(`{"name":"Asha"}`), 1000.0, 0.0, 1000.0,
			"ONLINE", "paid", "processing",
			"order_gw1", "pay_gw1", "2025-03-07T10:00:00Z", "2025-03-07T10:05:00Z"))
	mock.ExpectQuery("FROM order_items").WillReturnRows(sqlmock.NewRows([]string{
		"id", "order_id", "product_id", "product_name", "product_image", "size", "quantity", "price"}))

	ord, transitioned, err := repo.UpdatePayment("ORD-20250307-00001", "order_gw1", "pay_gw1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if transitioned {
		t.Fatal("replay must not report a transition")
	}
	if ord.RazorpayPaymentID == nil || *ord.RazorpayPaymentID != "pay_gw1" {
		t.Fatalf("expected stored payment id on the re-read order, got %+v", ord.RazorpayPaymentID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresUpdatePayment_UnknownNumber(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("UPDATE orders").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("FROM orders").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, _, err := repo.UpdatePayment("ORD-x", "o", "p"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// A corrupted address snapshot must surface as an error, not as an order
// with a zero-value shipping address.
func TestPostgresGetByID_CorruptAddressSnapshot(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	cols := []string{"id", "order_number", "customer_name", "customer_email", "customer_phone",
		"shipping_address", "subtotal", "shipping_charge", "total",
		"payment_method", "payment_status", "status",
		"razorpay_order_id", "razorpay_payment_id", "created_at", "updated_at"}
	mock.ExpectQuery("FROM orders WHERE id").WithArgs("id-1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			"id-1", "ORD-20250307-00001", "Asha", "asha@example.com", "9999999999",
			[]byte(`{"name":`), 1000.0, 0.0, 1000.0,
			"COD", "pending", "pending",
			nil, nil, "2025-03-07T10:00:00Z", "2025-03-07T10:00:00Z"))

	if _, err := repo.GetByID("id-1"); err == nil {
		t.Fatal("expected error for malformed address json")
	}
}

func TestPostgresDelete_RemovesItemsThenHeader(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM order_items").WithArgs("id-1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM orders").WithArgs("id-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Delete("id-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
