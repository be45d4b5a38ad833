package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Document number kinds. RFQ numbers look like RFQ202501010001, quotation
// numbers like Q202501010001; both restart at 0001 each calendar day.
const (
	KindRFQ       = "RFQ"
	KindQuotation = "Q"
)

// Querier is satisfied by *sql.DB and *sql.Tx so numbers can be allocated
// inside the caller's transaction.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// NextDocumentNumber allocates the next number for kind on the given day.
// The counter lives in doc_sequence keyed by kind+date, bumped by a single
// atomic upsert, so concurrent submissions on the same day can never be
// handed the same number, even across server instances.
func NextDocumentNumber(ctx context.Context, q Querier, kind string, today time.Time) (string, error) {
	prefix := kind + today.Format("20060102")

	var n int
	err := q.QueryRowContext(ctx, `
		INSERT INTO doc_sequence (prefix, last_no) VALUES ($1, 1)
		ON CONFLICT (prefix) DO UPDATE SET last_no = doc_sequence.last_no + 1
		RETURNING last_no`, prefix).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("failed to allocate %s number: %w", kind, err)
	}

	return FormatDocumentNumber(prefix, n), nil
}

// FormatDocumentNumber zero-pads a counter value to the 4-digit suffix.
func FormatDocumentNumber(prefix string, n int) string {
	return fmt.Sprintf("%s%04d", prefix, n)
}
