package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"log"
	"net/http"
	"os"

	"github.com/rsahana30/AUMA-DZ/services"
	"github.com/rsahana30/AUMA-DZ/utils"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
)

// addLabel draws a caption under the QR code.
func addLabel(img *image.RGBA, x, y int, label string) {
	col := color.RGBA{30, 30, 30, 255}
	face := inconsolata.Bold8x16

	point := fixed.Point26_6{
		X: fixed.Int26_6(x * 64),
		Y: fixed.Int26_6(y * 64),
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  point,
	}
	d.DrawString(label)
}

// GetQuotationQR godoc
// @Summary      QR code for a quotation download link
// @Description  Renders a labelled QR JPEG encoding the quotation's PDF download URL, for stamping on printed copies.
// @Tags         quotations
// @Param        quotationNo  path  string  true  "Quotation number"
// @Success      200  "JPEG image"
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/quotation/{quotationNo}/qr [get]
func GetQuotationQR(svc *services.QuotationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		quotationNo := c.Param("quotationNo")

		ctx, cancel := utils.GetDefaultQueryContext(c.Request.Context())
		defer cancel()

		if _, err := svc.LookupByNumber(ctx, quotationNo); err != nil {
			if errors.Is(err, services.ErrQuotationNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Quotation not found"})
				return
			}
			log.Printf("quotation lookup failed for %s: %v", quotationNo, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}

		baseURL := os.Getenv("PUBLIC_BASE_URL")
		if baseURL == "" {
			baseURL = "http://localhost:9000"
		}
		target := fmt.Sprintf("%s/api/quotation/%s/pdf", baseURL, quotationNo)

		qr, err := qrcode.New(target, qrcode.Medium)
		if err != nil {
			log.Printf("qr generation failed for %s: %v", quotationNo, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "QR generation failed"})
			return
		}

		const qrSize = 256
		const labelHeight = 28
		qrImg := qr.Image(qrSize)

		canvas := image.NewRGBA(image.Rect(0, 0, qrSize, qrSize+labelHeight))
		draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
		draw.Draw(canvas, image.Rect(0, 0, qrSize, qrSize), qrImg, image.Point{}, draw.Over)

		labelX := (qrSize - len(quotationNo)*8) / 2
		if labelX < 0 {
			labelX = 0
		}
		addLabel(canvas, labelX, qrSize+18, quotationNo)

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: 90}); err != nil {
			log.Printf("qr encode failed for %s: %v", quotationNo, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "QR generation failed"})
			return
		}

		c.Header("Content-Type", "image/jpeg")
		c.Data(http.StatusOK, "image/jpeg", buf.Bytes())
	}
}
