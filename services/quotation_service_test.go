package services

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQuotationService(t *testing.T) (*QuotationService, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	renderer, err := NewPDFRenderer(t.TempDir())
	require.NoError(t, err)

	return NewQuotationService(db, renderer), mock
}

func rfqLineColumns() []string {
	return []string{"item", "valve_type", "valve_tag_no", "top_flange", "quantity", "auma_model", "customer"}
}

func TestBuildQuotation(t *testing.T) {
	svc, mock := newTestQuotationService(t)

	mock.ExpectQuery(`FROM rfqs WHERE rfq_no`).
		WithArgs("RFQ202609010001").
		WillReturnRows(sqlmock.NewRows(rfqLineColumns()).
			AddRow("1", "Gate", "GV-101", "F10", 2, "SA07.6-1000Nm [F10, Ratio: 52:1]", "National Water Board").
			AddRow("2", "Butterfly", "BV-202", "F07", 0, "", "National Water Board"))

	// Priced line resolves through the multiturn product table.
	mock.ExpectQuery(`FROM multiturn`).
		WithArgs("SA07.6-1000Nm [F10, Ratio: 52:1]").
		WillReturnRows(sqlmock.NewRows([]string{"model_code", "unit_price"}).AddRow("SA07.6", 45000.0))

	// No customer record: placeholder contact block.
	mock.ExpectQuery(`FROM customers`).
		WithArgs("National Water Board").
		WillReturnError(sql.ErrNoRows)

	doc, err := svc.BuildQuotation(context.Background(), "RFQ202609010001")
	require.NoError(t, err)

	require.Len(t, doc.Lines, 2)
	assert.Equal(t, "SA07.6", doc.Lines[0].ModelCode)
	assert.Equal(t, 2, doc.Lines[0].Quantity)
	assert.InDelta(t, 90000.0, doc.Lines[0].LineTotal, 1e-9)

	// Line without a selected model: quantity floors to 1, priced at zero.
	assert.Equal(t, "", doc.Lines[1].ModelCode)
	assert.Equal(t, 1, doc.Lines[1].Quantity)
	assert.InDelta(t, 0.0, doc.Lines[1].LineTotal, 1e-9)

	assert.InDelta(t, 90000.0, doc.GrandTotal, 1e-9)
	assert.Equal(t, "National Water Board", doc.CustomerName)
	assert.Equal(t, "Address on request", doc.CustomerAddress)
	assert.Equal(t, "Sales Desk", doc.ContactPerson)
	assert.Equal(t, doc.IssueDate.AddDate(0, 0, QuotationValidityDays), doc.ExpiryDate)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildQuotation_NotFound(t *testing.T) {
	svc, mock := newTestQuotationService(t)

	mock.ExpectQuery(`FROM rfqs WHERE rfq_no`).
		WithArgs("RFQ000000000000").
		WillReturnRows(sqlmock.NewRows(rfqLineColumns()))

	_, err := svc.BuildQuotation(context.Background(), "RFQ000000000000")
	assert.ErrorIs(t, err, ErrRFQNotFound)
}

func TestIssueQuotation_ReturnsExistingWithoutRerender(t *testing.T) {
	svc, mock := newTestQuotationService(t)
	issued := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM quotations WHERE rfq_no`).
		WithArgs("RFQ202609010001").
		WillReturnRows(sqlmock.NewRows([]string{
			"quotation_no", "rfq_no", "customer", "issue_date", "expiry_date", "grand_total", "pdf_path",
		}).AddRow("Q202609010001", "RFQ202609010001", "National Water Board",
			issued, issued.AddDate(0, 0, 10), 90000.0, "quotes/Q202609010001.pdf"))

	q, err := svc.IssueQuotation(context.Background(), "RFQ202609010001")
	require.NoError(t, err)
	assert.Equal(t, "Q202609010001", q.QuotationNo)
	assert.InDelta(t, 90000.0, q.GrandTotal, 1e-9)

	// No further queries: nothing was rebuilt or re-rendered.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIssueQuotation_AllocatesNumberAndRenders(t *testing.T) {
	svc, mock := newTestQuotationService(t)

	mock.ExpectQuery(`FROM quotations WHERE rfq_no`).
		WithArgs("RFQ202609010002").
		WillReturnError(sql.ErrNoRows)

	mock.ExpectQuery(`FROM rfqs WHERE rfq_no`).
		WithArgs("RFQ202609010002").
		WillReturnRows(sqlmock.NewRows(rfqLineColumns()).
			AddRow("1", "Ball", "BV-1", "F07", 1, "", "Acme Utilities"))

	mock.ExpectQuery(`FROM customers`).
		WithArgs("Acme Utilities").
		WillReturnError(sql.ErrNoRows)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO doc_sequence`).
		WillReturnRows(sqlmock.NewRows([]string{"last_no"}).AddRow(1))
	mock.ExpectExec(`INSERT INTO quotations`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	q, err := svc.IssueQuotation(context.Background(), "RFQ202609010002")
	require.NoError(t, err)

	prefix := "Q" + time.Now().Format("20060102")
	assert.True(t, strings.HasPrefix(q.QuotationNo, prefix), "got %s", q.QuotationNo)
	assert.True(t, strings.HasSuffix(q.QuotationNo, "0001"))

	// The artifact was rendered to its final path.
	info, err := os.Stat(q.PDFPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
	assert.Equal(t, q.QuotationNo+".pdf", filepath.Base(q.PDFPath))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIssueQuotation_RaceLoserReturnsWinner(t *testing.T) {
	svc, mock := newTestQuotationService(t)
	issued := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM quotations WHERE rfq_no`).
		WithArgs("RFQ202609010003").
		WillReturnError(sql.ErrNoRows)

	mock.ExpectQuery(`FROM rfqs WHERE rfq_no`).
		WithArgs("RFQ202609010003").
		WillReturnRows(sqlmock.NewRows(rfqLineColumns()).
			AddRow("1", "Ball", "BV-2", "F07", 1, "", "Acme Utilities"))

	mock.ExpectQuery(`FROM customers`).
		WithArgs("Acme Utilities").
		WillReturnError(sql.ErrNoRows)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO doc_sequence`).
		WillReturnRows(sqlmock.NewRows([]string{"last_no"}).AddRow(2))
	// Conflict on rfq_no: another request issued first.
	mock.ExpectExec(`INSERT INTO quotations`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	mock.ExpectQuery(`FROM quotations WHERE rfq_no`).
		WithArgs("RFQ202609010003").
		WillReturnRows(sqlmock.NewRows([]string{
			"quotation_no", "rfq_no", "customer", "issue_date", "expiry_date", "grand_total", "pdf_path",
		}).AddRow("Q202609010005", "RFQ202609010003", "Acme Utilities",
			issued, issued.AddDate(0, 0, 10), 0.0, "quotes/Q202609010005.pdf"))

	q, err := svc.IssueQuotation(context.Background(), "RFQ202609010003")
	require.NoError(t, err)
	assert.Equal(t, "Q202609010005", q.QuotationNo)

	// The loser's rendered artifact was discarded.
	loserPath := svc.Renderer.ArtifactPath("Q" + time.Now().Format("20060102") + "0002")
	_, statErr := os.Stat(loserPath)
	assert.True(t, os.IsNotExist(statErr))

	assert.NoError(t, mock.ExpectationsWereMet())
}
