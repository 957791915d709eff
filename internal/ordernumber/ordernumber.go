package ordernumber

import (
	"fmt"
	"time"
)

// Generator issues the human-readable order numbers printed on invoices
// and confirmation emails. Numbers are date-scoped: ORD-YYYYMMDD-NNNNN,
// where NNNNN restarts at 00001 each day.
type Generator struct {
	repo Repository
	now  func() time.Time
}

func NewGenerator(r Repository) *Generator {
	return &Generator{repo: r, now: time.Now}
}

// Next reserves the next sequence for today and formats it. The sequence
// comes from an atomically incremented per-day counter, so two concurrent
// checkouts can never be handed the same number. A counter failure fails
// the whole order creation; numbers are never fabricated.
func (g *Generator) Next() (string, error) {
	today := g.now().UTC()
	seq, err := g.repo.NextSequence(today)
	if err != nil {
		return "", fmt.Errorf("order number sequence: %w", err)
	}
	return Format(today, seq), nil
}

// Format renders an order number for the given day and sequence.
func Format(day time.Time, seq int) string {
	return fmt.Sprintf("ORD-%s-%05d", day.Format("20060102"), seq)
}
