package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextDocumentNumber(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	day := time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO doc_sequence`).
		WithArgs("RFQ20260901").
		WillReturnRows(sqlmock.NewRows([]string{"last_no"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO doc_sequence`).
		WithArgs("RFQ20260901").
		WillReturnRows(sqlmock.NewRows([]string{"last_no"}).AddRow(2))
	mock.ExpectQuery(`INSERT INTO doc_sequence`).
		WithArgs("Q20260901").
		WillReturnRows(sqlmock.NewRows([]string{"last_no"}).AddRow(1))

	first, err := NextDocumentNumber(context.Background(), db, KindRFQ, day)
	require.NoError(t, err)
	assert.Equal(t, "RFQ202609010001", first)

	second, err := NextDocumentNumber(context.Background(), db, KindRFQ, day)
	require.NoError(t, err)
	assert.Equal(t, "RFQ202609010002", second)

	// Quotation numbers count independently of RFQ numbers.
	q, err := NextDocumentNumber(context.Background(), db, KindQuotation, day)
	require.NoError(t, err)
	assert.Equal(t, "Q202609010001", q)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNextDocumentNumber_DateScopesCounter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// A new day means a new prefix row, so numbering restarts at 0001.
	mock.ExpectQuery(`INSERT INTO doc_sequence`).
		WithArgs("RFQ20260902").
		WillReturnRows(sqlmock.NewRows([]string{"last_no"}).AddRow(1))

	nextDay := time.Date(2026, 9, 2, 0, 0, 1, 0, time.UTC)
	n, err := NextDocumentNumber(context.Background(), db, KindRFQ, nextDay)
	require.NoError(t, err)
	assert.Equal(t, "RFQ202609020001", n)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFormatDocumentNumber(t *testing.T) {
	assert.Equal(t, "RFQ202609010001", FormatDocumentNumber("RFQ20260901", 1))
	assert.Equal(t, "Q202609010042", FormatDocumentNumber("Q20260901", 42))
	assert.Equal(t, "Q202609019999", FormatDocumentNumber("Q20260901", 9999))
	// Past four digits the suffix widens rather than wrapping.
	assert.Equal(t, "Q2026090110000", FormatDocumentNumber("Q20260901", 10000))
}
