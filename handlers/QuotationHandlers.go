package handlers

import (
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/rsahana30/AUMA-DZ/models"
	"github.com/rsahana30/AUMA-DZ/services"
	"github.com/rsahana30/AUMA-DZ/utils"

	"github.com/gin-gonic/gin"
)

// CreateQuotation godoc
// @Summary      Issue a quotation for an RFQ
// @Description  Idempotent: the first request allocates a quotation number and renders the PDF; repeats return the previously issued number. The rendered document is an immutable snapshot of the RFQ at issue time.
// @Tags         quotations
// @Produce      json
// @Param        rfqNo  path      string  true  "RFQ number"
// @Success      200    {object}  models.QuotationCreatedResponse
// @Failure      404    {object}  models.ErrorResponse
// @Failure      500    {object}  models.ErrorResponse
// @Router       /api/quotations/{rfqNo} [post]
func CreateQuotation(svc *services.QuotationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		rfqNo := c.Param("rfqNo")

		ctx, cancel := utils.GetSlowQueryContext(c.Request.Context())
		defer cancel()

		q, err := svc.IssueQuotation(ctx, rfqNo)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrRFQNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "RFQ not found or has no line items"})
			case errors.Is(err, services.ErrRenderFailure):
				log.Printf("quotation render failed for %s: %v", rfqNo, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Quotation rendering failed"})
			default:
				log.Printf("quotation issue failed for %s: %v", rfqNo, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			}
			return
		}

		c.JSON(http.StatusOK, models.QuotationCreatedResponse{
			QuotationNo: q.QuotationNo,
			GrandTotal:  q.GrandTotal,
		})
	}
}

// PreviewQuotation godoc
// @Summary      Assemble a draft quotation without issuing it
// @Description  Computes the priced document for an RFQ without allocating a number or rendering a PDF. Unselected lines carry zero price.
// @Tags         quotations
// @Produce      json
// @Param        rfqNo  path      string  true  "RFQ number"
// @Success      200    {object}  models.QuotationDocument
// @Failure      404    {object}  models.ErrorResponse
// @Router       /api/quotation-preview/{rfqNo} [get]
func PreviewQuotation(svc *services.QuotationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		rfqNo := c.Param("rfqNo")

		ctx, cancel := utils.GetDefaultQueryContext(c.Request.Context())
		defer cancel()

		doc, err := svc.BuildQuotation(ctx, rfqNo)
		if err != nil {
			if errors.Is(err, services.ErrRFQNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "RFQ not found or has no line items"})
				return
			}
			log.Printf("quotation preview failed for %s: %v", rfqNo, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}

		c.JSON(http.StatusOK, doc)
	}
}

// GetQuotationPDF godoc
// @Summary      Download a quotation PDF
// @Tags         quotations
// @Param        quotationNo  path  string  true  "Quotation number"
// @Success      200  "PDF file"
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/quotation/{quotationNo}/pdf [get]
func GetQuotationPDF(svc *services.QuotationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		quotationNo := c.Param("quotationNo")

		ctx, cancel := utils.GetDefaultQueryContext(c.Request.Context())
		defer cancel()

		q, err := svc.LookupByNumber(ctx, quotationNo)
		if err != nil {
			if errors.Is(err, services.ErrQuotationNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Quotation not found"})
				return
			}
			log.Printf("quotation lookup failed for %s: %v", quotationNo, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}

		if q.PDFPath == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Quotation PDF not generated"})
			return
		}
		if _, err := os.Stat(q.PDFPath); err != nil {
			log.Printf("quotation artifact missing for %s: %v", quotationNo, err)
			c.JSON(http.StatusNotFound, gin.H{"error": "Quotation PDF not generated"})
			return
		}

		c.Header("Content-Disposition", "attachment; filename="+quotationNo+".pdf")
		c.Header("Content-Type", "application/pdf")
		c.File(q.PDFPath)
	}
}
