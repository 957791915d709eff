package address

import (
	"database/sql"
	"time"
)

// Postgres repository over the saved_addresses table.
// Table layout expected:
//   id serial primary key,
//   user_id text not null,
//   label text, name text, phone text,
//   address_line1 text, address_line2 text,
//   city text, state text, pincode text, landmark text,
//   is_default boolean not null default false,
//   created_at text, updated_at text

type PostgresRepository struct {
	db *sql.DB
}

const (
	addressColumns = `id, user_id, COALESCE(label,''), name, phone,
		address_line1, COALESCE(address_line2,''), city, state, pincode, COALESCE(landmark,''),
		is_default, created_at, updated_at`

	insertAddressQuery = `
		INSERT INTO saved_addresses (user_id, label, name, phone, address_line1, address_line2,
			city, state, pincode, landmark, is_default, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$12)
		RETURNING ` + addressColumns + `
	`
	updateAddressQuery = `
		UPDATE saved_addresses
		SET label=$3, name=$4, phone=$5, address_line1=$6, address_line2=$7,
			city=$8, state=$9, pincode=$10, landmark=$11, is_default=$12, updated_at=$13
		WHERE user_id=$1 AND id=$2
		RETURNING ` + addressColumns + `
	`
	clearDefaultQuery = `UPDATE saved_addresses SET is_default=false WHERE user_id=$1 AND is_default`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByUser(userID string) ([]SavedAddress, error) {
	rows, err := r.db.Query(`SELECT `+addressColumns+` FROM saved_addresses WHERE user_id=$1 ORDER BY is_default DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SavedAddress, 0)
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Add(addr SavedAddress) (SavedAddress, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := r.db.Begin()
	if err != nil {
		return SavedAddress{}, err
	}
	defer tx.Rollback()

	if addr.IsDefault {
		if _, err := tx.Exec(clearDefaultQuery, addr.UserID); err != nil {
			return SavedAddress{}, err
		}
	}

	a, err := scanAddress(tx.QueryRow(insertAddressQuery,
		addr.UserID, addr.Label, addr.Name, addr.Phone, addr.AddressLine1, addr.AddressLine2,
		addr.City, addr.State, addr.Pincode, addr.Landmark, addr.IsDefault, now))
	if err != nil {
		return SavedAddress{}, err
	}
	return a, tx.Commit()
}

func (r *PostgresRepository) Update(addr SavedAddress) (SavedAddress, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := r.db.Begin()
	if err != nil {
		return SavedAddress{}, err
	}
	defer tx.Rollback()

	if addr.IsDefault {
		if _, err := tx.Exec(clearDefaultQuery, addr.UserID); err != nil {
			return SavedAddress{}, err
		}
	}

	a, err := scanAddress(tx.QueryRow(updateAddressQuery,
		addr.UserID, addr.ID, addr.Label, addr.Name, addr.Phone, addr.AddressLine1, addr.AddressLine2,
		addr.City, addr.State, addr.Pincode, addr.Landmark, addr.IsDefault, now))
	if err != nil {
		if err == sql.ErrNoRows {
			return SavedAddress{}, ErrNotFound
		}
		return SavedAddress{}, err
	}
	return a, tx.Commit()
}

func (r *PostgresRepository) Delete(userID string, addressID int) error {
	res, err := r.db.Exec(`DELETE FROM saved_addresses WHERE user_id=$1 AND id=$2`, userID, addressID)
	if err != nil {
		return err
	}
	cnt, _ := res.RowsAffected()
	if cnt == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAddress(row rowScanner) (SavedAddress, error) {
	var a SavedAddress
	err := row.Scan(&a.ID, &a.UserID, &a.Label, &a.Name, &a.Phone,
		&a.AddressLine1, &a.AddressLine2, &a.City, &a.State, &a.Pincode, &a.Landmark,
		&a.IsDefault, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}
