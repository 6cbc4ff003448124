// Package render draws certificates and fetches their backgrounds.
package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-pdf/fpdf"
	"github.com/skip2/go-qrcode"

	"github.com/example/certbatch/internal/ports/secondary"
)

const (
	fontFamily = "Helvetica"
	fontStyle  = "B"

	backgroundImage = "background"
	codeImage       = "code"

	// Pixel size of the generated code bitmap before it is scaled onto the page.
	codePixels = 320
)

// PDFRenderer implements secondary.DocumentRenderer with fpdf.
type PDFRenderer struct {
	codeLevel qrcode.RecoveryLevel
}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{codeLevel: qrcode.Medium}
}

// Render produces a single-page PDF.
func (r *PDFRenderer) Render(ctx context.Context, req secondary.RenderRequest) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bgType, err := imageType(req.Background)
	if err != nil {
		return nil, fmt.Errorf("Failed to embed template image: %w", err)
	}

	code, err := qrcode.Encode(req.ShareableReference, r.codeLevel, codePixels)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "L",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: PageHeight, Ht: PageWidth},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("certbatch", true)
	pdf.AddPage()

	pdf.RegisterImageOptionsReader(backgroundImage, fpdf.ImageOptions{ImageType: bgType}, bytes.NewReader(req.Background))
	pdf.RegisterImageOptionsReader(codeImage, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(code))
	if pdf.Err() {
		return nil, fmt.Errorf("Failed to embed template image: %w", pdf.Error())
	}

	pdf.ImageOptions(backgroundImage, 0, 0, PageWidth, PageHeight, false, fpdf.ImageOptions{ImageType: bgType}, 0, "")

	// Core fonts are cp1252.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	name := tr(req.RecipientName)
	serial := tr(req.SerialNumber)

	measure := func(text string, size float64) float64 {
		pdf.SetFont(fontFamily, fontStyle, size)
		return pdf.GetStringWidth(text)
	}
	p := layout(measure, name, serial)

	pdf.SetFont(fontFamily, fontStyle, p.NameSize)
	pdf.SetTextColor(NameColor[0], NameColor[1], NameColor[2])
	pdf.Text(p.NameX, p.NameY, name)

	pdf.SetFont(fontFamily, fontStyle, p.SerialSize)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(p.SerialX, p.SerialY, serial)

	pdf.ImageOptions(codeImage, p.CodeX, p.CodeY, p.CodeSide, p.CodeSide, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// imageType maps sniffed content to the image type names fpdf accepts.
func imageType(data []byte) (string, error) {
	mt := mimetype.Detect(data)
	switch {
	case mt.Is("image/png"):
		return "PNG", nil
	case mt.Is("image/jpeg"):
		return "JPG", nil
	default:
		return "", fmt.Errorf("unsupported background type %s", mt.String())
	}
}

// Ensure PDFRenderer implements the interface.
var _ secondary.DocumentRenderer = (*PDFRenderer)(nil)
