package inventory

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPostgresDecrement_ReturnsNewAndApplied(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	// old stock 5, requested 2 -> new 3
	rows := sqlmock.NewRows([]string{"stock_quantity", "stock_quantity"}).AddRow(3, 5)
	mock.ExpectQuery(`(?s)WITH prev AS.*FOR UPDATE.*UPDATE product_variants`).WithArgs("p1", "M", 2).WillReturnRows(rows)

	newQty, applied, err := repo.Decrement("p1", "M", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if newQty != 3 || applied != 2 {
		t.Fatalf("expected (3, 2), got (%d, %d)", newQty, applied)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresDecrement_ClampedApplied(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	// old stock 1, requested 4 -> clamped to 0, applied 1
	rows := sqlmock.NewRows([]string{"stock_quantity", "stock_quantity"}).AddRow(0, 1)
	mock.ExpectQuery(`(?s)WITH prev AS.*FOR UPDATE.*UPDATE product_variants`).WithArgs("p1", "M", 4).WillReturnRows(rows)

	newQty, applied, err := repo.Decrement("p1", "M", 4)
	if err != nil {
		t.Fatal(err)
	}
	if newQty != 0 || applied != 1 {
		t.Fatalf("expected (0, 1), got (%d, %d)", newQty, applied)
	}
}

func TestPostgresDecrement_MissingVariant(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(`(?s)WITH prev AS.*FOR UPDATE.*UPDATE product_variants`).WithArgs("ghost", "M", 1).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity", "stock_quantity"}))

	if _, _, err := repo.Decrement("ghost", "M", 1); err != ErrVariantNotFound {
		t.Fatalf("expected ErrVariantNotFound, got %v", err)
	}
}

func TestPostgresSetStock_Upserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	rows := sqlmock.NewRows([]string{"id", "product_id", "size", "stock_quantity"}).
		AddRow(7, "p1", "XL", 12)
	mock.ExpectQuery("INSERT INTO product_variants").WithArgs("p1", "XL", 12).WillReturnRows(rows)

	v, err := repo.SetStock("p1", "XL", 12)
	if err != nil {
		t.Fatal(err)
	}
	if v.ID != 7 || v.StockQuantity != 12 {
		t.Fatalf("unexpected variant %+v", v)
	}
}
