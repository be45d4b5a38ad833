package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rsahana30/AUMA-DZ/models"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrRenderFailure wraps any failure while producing the quotation PDF.
var ErrRenderFailure = errors.New("quotation render failed")

// PDFRenderer renders quotation documents to files under Dir, one per
// quotation number. Writes go to a temp file first and are renamed into
// place on success so a crashed render never leaves a partial artifact.
type PDFRenderer struct {
	Dir string
}

func NewPDFRenderer(dir string) (*PDFRenderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create quotation dir: %w", err)
	}
	return &PDFRenderer{Dir: dir}, nil
}

// ArtifactPath is where the rendered PDF for a quotation number lives.
func (r *PDFRenderer) ArtifactPath(quotationNo string) string {
	return filepath.Join(r.Dir, quotationNo+".pdf")
}

// Render writes the document's PDF and returns its final path.
func (r *PDFRenderer) Render(doc *models.QuotationDocument) (string, error) {
	final := r.ArtifactPath(doc.QuotationNo)
	tmp := final + ".tmp"

	if err := r.render(doc, tmp); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("%w: %v", ErrRenderFailure, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("%w: %v", ErrRenderFailure, err)
	}
	return final, nil
}

// Discard removes an artifact whose quotation record was never committed.
func (r *PDFRenderer) Discard(path string) {
	if path != "" {
		os.Remove(path)
	}
}

func (r *PDFRenderer) render(doc *models.QuotationDocument, path string) error {
	titleCaser := cases.Title(language.Und)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetMargins(10, 10, 10)

	// --- Header ---
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(190, 10, "QUOTATION")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(95, 6, "Quotation No: "+doc.QuotationNo)
	pdf.Cell(95, 6, "RFQ No: "+doc.RFQNo)
	pdf.Ln(6)
	pdf.Cell(95, 6, "Issue Date: "+doc.IssueDate.Format("02 Jan 2006"))
	pdf.Cell(95, 6, "Valid Until: "+doc.ExpiryDate.Format("02 Jan 2006"))
	pdf.Ln(10)

	// --- Customer ---
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(190, 8, "Customer")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(190, 6, titleCaser.String(doc.CustomerName))
	pdf.Ln(6)
	pdf.MultiCell(190, 5, doc.CustomerAddress, "", "L", false)
	pdf.Cell(190, 6, "Attn: "+doc.ContactPerson)
	pdf.Ln(10)

	// --- Line table header ---
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(12, 7, "S.No", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Model", "1", 0, "C", true, 0, "")
	pdf.CellFormat(73, 7, "Description", "1", 0, "C", true, 0, "")
	pdf.CellFormat(15, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(27, 7, "Unit Price", "1", 0, "C", true, 0, "")
	pdf.CellFormat(28, 7, "Total", "1", 0, "C", true, 0, "")
	pdf.Ln(-1)

	// --- Line rows ---
	pdf.SetFont("Arial", "", 9)
	for _, line := range doc.Lines {
		model := line.ModelCode
		if model == "" {
			model = "To be selected"
		}
		pdf.CellFormat(12, 7, fmt.Sprintf("%d", line.Serial), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 7, model, "1", 0, "L", false, 0, "")
		pdf.CellFormat(73, 7, line.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(15, 7, fmt.Sprintf("%d", line.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(27, 7, formatAmount(line.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(28, 7, formatAmount(line.LineTotal), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	// --- Grand total ---
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(135, 8, "", "", 0, "", false, 0, "")
	pdf.CellFormat(27, 8, "Grand Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(28, 8, formatAmount(doc.GrandTotal), "1", 0, "R", false, 0, "")
	pdf.Ln(12)

	pdf.SetFont("Arial", "I", 8)
	pdf.MultiCell(190, 4,
		fmt.Sprintf("Prices are valid for %d days from the issue date. Lines marked 'To be selected' are unpriced pending model selection.",
			QuotationValidityDays),
		"", "L", false)

	return pdf.OutputFileAndClose(path)
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// PurgeOrphanArtifacts deletes rendered PDFs in Dir that no quotation row
// references. keep reports whether a quotation number is still on record.
// Run by the daily maintenance cron.
func (r *PDFRenderer) PurgeOrphanArtifacts(keep func(quotationNo string) bool) (int, error) {
	entries, err := os.ReadDir(r.Dir)
	if err != nil {
		return 0, err
	}
	removed := 0
	cutoff := time.Now().Add(-time.Hour)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(name) {
		case ".pdf":
			if keep(name[:len(name)-len(".pdf")]) {
				continue
			}
		case ".tmp":
			// A crash between write and rename strands the temp file.
			if !strings.HasSuffix(name, ".pdf.tmp") {
				continue
			}
		default:
			continue
		}
		// Skip very fresh files: a render may be mid-commit.
		if info, err := entry.Info(); err == nil && info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(r.Dir, name)); err == nil {
			removed++
		}
	}
	return removed, nil
}
