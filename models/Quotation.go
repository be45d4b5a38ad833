package models

import (
	"time"
)

// Quotation is the persisted record for an issued quotation number. A given
// RFQ produces at most one quotation; the rendered PDF is an immutable
// snapshot keyed by the quotation number.
type Quotation struct {
	QuotationNo string    `json:"quotation_no" example:"Q202501010001"`
	RFQNo       string    `json:"rfq_no" example:"RFQ202501010001"`
	Customer    string    `json:"customer" example:"National Water Board"`
	IssueDate   time.Time `json:"issue_date"`
	ExpiryDate  time.Time `json:"expiry_date"`
	GrandTotal  float64   `json:"grand_total" example:"418500"`
	PDFPath     string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// QuotationLine is one priced row of a quotation document.
type QuotationLine struct {
	Serial      int     `json:"serial" example:"1"`
	ModelCode   string  `json:"model_code" example:"GS 100.3"`
	Description string  `json:"description" example:"Butterfly BV-1201, F10"`
	Quantity    int     `json:"quantity" example:"2"`
	UnitPrice   float64 `json:"unit_price" example:"85000"`
	LineTotal   float64 `json:"line_total" example:"170000"`
}

// QuotationDocument is the structured document handed to the PDF renderer.
type QuotationDocument struct {
	QuotationNo     string          `json:"quotation_no"`
	RFQNo           string          `json:"rfq_no"`
	CustomerName    string          `json:"customer_name"`
	CustomerAddress string          `json:"customer_address"`
	ContactPerson   string          `json:"contact_person"`
	IssueDate       time.Time       `json:"issue_date"`
	ExpiryDate      time.Time       `json:"expiry_date"`
	Lines           []QuotationLine `json:"lines"`
	GrandTotal      float64         `json:"grand_total"`
}
