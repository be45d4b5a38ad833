package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rsahana30/AUMA-DZ/models"
	"github.com/rsahana30/AUMA-DZ/repository"
)

var (
	// ErrRFQNotFound means the RFQ has no line items.
	ErrRFQNotFound = errors.New("rfq not found")
	// ErrQuotationNotFound means no quotation was issued under that number.
	ErrQuotationNotFound = errors.New("quotation not found")
)

// QuotationValidityDays is how long an issued quotation stays open.
const QuotationValidityDays = 10

// placeholder customer block used when no customer record exists for the RFQ.
const (
	placeholderAddress = "Address on request"
	placeholderContact = "Sales Desk"
)

// QuotationService assembles priced quotation documents and issues quotation
// numbers. Issued quotations are immutable snapshots: editing the RFQ
// afterwards does not touch the rendered artifact, a changed RFQ needs a new
// quotation.
type QuotationService struct {
	DB       *sql.DB
	Renderer *PDFRenderer
}

func NewQuotationService(db *sql.DB, renderer *PDFRenderer) *QuotationService {
	return &QuotationService{DB: db, Renderer: renderer}
}

// BuildQuotation loads the RFQ's line items, resolves unit prices for the
// selected models, and computes line and grand totals. A line with no
// selected model is priced at zero so draft previews still assemble.
func (s *QuotationService) BuildQuotation(ctx context.Context, rfqNo string) (*models.QuotationDocument, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT item, valve_type, valve_tag_no, top_flange, quantity, auma_model, customer
		FROM rfqs WHERE rfq_no = $1 ORDER BY id ASC`, rfqNo)
	if err != nil {
		return nil, fmt.Errorf("failed to load rfq lines: %w", err)
	}
	defer rows.Close()

	doc := &models.QuotationDocument{RFQNo: rfqNo}
	serial := 0
	for rows.Next() {
		var item, valveType, tagNo, topFlange, aumaModel, customer string
		var quantity int
		if err := rows.Scan(&item, &valveType, &tagNo, &topFlange, &quantity, &aumaModel, &customer); err != nil {
			return nil, fmt.Errorf("failed to scan rfq line: %w", err)
		}
		if doc.CustomerName == "" {
			doc.CustomerName = customer
		}
		if quantity <= 0 {
			quantity = 1
		}

		price := 0.0
		modelCode := ""
		if aumaModel != "" {
			modelCode, price = s.resolvePrice(ctx, valveType, aumaModel)
		}

		serial++
		line := models.QuotationLine{
			Serial:      serial,
			ModelCode:   modelCode,
			Description: lineDescription(valveType, tagNo, topFlange),
			Quantity:    quantity,
			UnitPrice:   price,
			LineTotal:   float64(quantity) * price,
		}
		doc.Lines = append(doc.Lines, line)
		doc.GrandTotal += line.LineTotal
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(doc.Lines) == 0 {
		return nil, ErrRFQNotFound
	}

	s.fillCustomer(ctx, doc)

	doc.IssueDate = time.Now()
	doc.ExpiryDate = doc.IssueDate.AddDate(0, 0, QuotationValidityDays)
	return doc, nil
}

// resolvePrice looks the selected model up in its family product table. The
// stored auma_model string starts with the model code, so a prefix match
// recovers the row. Unknown models price at zero.
func (s *QuotationService) resolvePrice(ctx context.Context, valveType, aumaModel string) (string, float64) {
	table := "partturn"
	if FamilyForValveType(valveType) == FamilyMultiturn {
		table = "multiturn"
	}

	var code string
	var price sql.NullFloat64
	query := fmt.Sprintf(`
		SELECT model_code, unit_price FROM %s
		WHERE $1 LIKE model_code || '%%'
		ORDER BY LENGTH(model_code) DESC LIMIT 1`, table)
	err := s.DB.QueryRowContext(ctx, query, aumaModel).Scan(&code, &price)
	if err != nil {
		// No catalog row: keep the raw selection string as the code.
		if i := strings.Index(aumaModel, "-"); i > 0 {
			return aumaModel[:i], 0
		}
		return aumaModel, 0
	}
	return code, price.Float64
}

func (s *QuotationService) fillCustomer(ctx context.Context, doc *models.QuotationDocument) {
	var address, contact string
	err := s.DB.QueryRowContext(ctx, `
		SELECT address, contact_person FROM customers WHERE name = $1`,
		doc.CustomerName).Scan(&address, &contact)
	if err != nil {
		doc.CustomerAddress = placeholderAddress
		doc.ContactPerson = placeholderContact
		return
	}
	if address == "" {
		address = placeholderAddress
	}
	if contact == "" {
		contact = placeholderContact
	}
	doc.CustomerAddress = address
	doc.ContactPerson = contact
}

func lineDescription(valveType, tagNo, topFlange string) string {
	parts := []string{}
	if valveType != "" {
		parts = append(parts, valveType+" valve actuation")
	}
	if tagNo != "" {
		parts = append(parts, "tag "+tagNo)
	}
	if topFlange != "" {
		parts = append(parts, "flange "+topFlange)
	}
	if len(parts) == 0 {
		return "Valve actuation package"
	}
	return strings.Join(parts, ", ")
}

// IssueQuotation returns the RFQ's quotation, allocating a number and
// rendering the PDF on first call. Repeat calls return the previously issued
// number without re-rendering (first request wins).
func (s *QuotationService) IssueQuotation(ctx context.Context, rfqNo string) (*models.Quotation, error) {
	if q, err := s.lookupByRFQ(ctx, rfqNo); err == nil {
		return q, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	doc, err := s.BuildQuotation(ctx, rfqNo)
	if err != nil {
		return nil, err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin quotation tx: %w", err)
	}
	defer tx.Rollback()

	quotationNo, err := repository.NextDocumentNumber(ctx, tx, repository.KindQuotation, doc.IssueDate)
	if err != nil {
		return nil, err
	}
	doc.QuotationNo = quotationNo

	pdfPath, err := s.Renderer.Render(doc)
	if err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO quotations (quotation_no, rfq_no, customer, issue_date, expiry_date, grand_total, pdf_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (rfq_no) DO NOTHING`,
		quotationNo, rfqNo, doc.CustomerName, doc.IssueDate, doc.ExpiryDate, doc.GrandTotal, pdfPath)
	if err != nil {
		s.Renderer.Discard(pdfPath)
		return nil, fmt.Errorf("failed to persist quotation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Lost the race: another request issued first. Their number wins;
		// the sequence value and artifact allocated here are abandoned.
		tx.Rollback()
		s.Renderer.Discard(pdfPath)
		return s.lookupByRFQ(ctx, rfqNo)
	}
	if err := tx.Commit(); err != nil {
		s.Renderer.Discard(pdfPath)
		return nil, fmt.Errorf("failed to commit quotation: %w", err)
	}

	return &models.Quotation{
		QuotationNo: quotationNo,
		RFQNo:       rfqNo,
		Customer:    doc.CustomerName,
		IssueDate:   doc.IssueDate,
		ExpiryDate:  doc.ExpiryDate,
		GrandTotal:  doc.GrandTotal,
		PDFPath:     pdfPath,
	}, nil
}

func (s *QuotationService) lookupByRFQ(ctx context.Context, rfqNo string) (*models.Quotation, error) {
	var q models.Quotation
	err := s.DB.QueryRowContext(ctx, `
		SELECT quotation_no, rfq_no, customer, issue_date, expiry_date, grand_total, pdf_path
		FROM quotations WHERE rfq_no = $1`, rfqNo).
		Scan(&q.QuotationNo, &q.RFQNo, &q.Customer, &q.IssueDate, &q.ExpiryDate, &q.GrandTotal, &q.PDFPath)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// LookupByNumber fetches an issued quotation by quotation number.
func (s *QuotationService) LookupByNumber(ctx context.Context, quotationNo string) (*models.Quotation, error) {
	var q models.Quotation
	err := s.DB.QueryRowContext(ctx, `
		SELECT quotation_no, rfq_no, customer, issue_date, expiry_date, grand_total, pdf_path
		FROM quotations WHERE quotation_no = $1`, quotationNo).
		Scan(&q.QuotationNo, &q.RFQNo, &q.Customer, &q.IssueDate, &q.ExpiryDate, &q.GrandTotal, &q.PDFPath)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQuotationNotFound
		}
		return nil, err
	}
	return &q, nil
}
