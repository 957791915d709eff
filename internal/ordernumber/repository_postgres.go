package ordernumber

import (
	"database/sql"
	"time"
)

// Postgres repository backed by a (day, counter) table. The upsert both
// claims and returns the next sequence in a single statement, which is what
// keeps concurrent checkouts from reading the same value.
// Table layout expected:
//   day date primary key,
//   counter int not null

type PostgresRepository struct {
	db *sql.DB
}

const nextSequenceQuery = `
	INSERT INTO order_counters (day, counter)
	VALUES ($1, 1)
	ON CONFLICT (day) DO UPDATE SET counter = order_counters.counter + 1
	RETURNING counter
`

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) NextSequence(day time.Time) (int, error) {
	var seq int
	if err := r.db.QueryRow(nextSequenceQuery, day.Format("2006-01-02")).Scan(&seq); err != nil {
		return 0, err
	}
	return seq, nil
}
