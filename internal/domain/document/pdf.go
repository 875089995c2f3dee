package document

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// PDFExporter renders a signed consent document as a PDF with the captured
// signature image and a QR code pointing at the verification URL.
type PDFExporter struct {
	baseURL string
}

func NewPDFExporter(baseURL string) *PDFExporter {
	return &PDFExporter{baseURL: strings.TrimRight(baseURL, "/")}
}

// Export renders the document. Only signed documents can be exported.
func (e *PDFExporter) Export(d *Document) ([]byte, error) {
	if d.Status != "assinado" {
		return nil, fmt.Errorf("apenas documentos assinados podem ser exportados")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(170, 8, tr(d.Title), "", "C", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(170, 5, tr(fmt.Sprintf("Documento %s", d.ID)), "", 1, "C", false, 0, "")
	if d.SignedAt != nil {
		pdf.CellFormat(170, 5, tr("Assinado em "+d.SignedAt.Format("02/01/2006 15:04")), "", 1, "C", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 11)
	if d.Content != nil {
		pdf.MultiCell(170, 6, tr(*d.Content), "", "J", false)
	}
	pdf.Ln(10)

	if d.Signature != nil {
		if sig, err := decodeDataURLPNG(*d.Signature); err == nil {
			opts := fpdf.ImageOptions{ImageType: "PNG"}
			pdf.RegisterImageOptionsReader("assinatura", opts, bytes.NewReader(sig))
			pdf.ImageOptions("assinatura", 20, pdf.GetY(), 60, 0, false, opts, 0, "")
			pdf.SetY(pdf.GetY() + 25)
		}
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(170, 5, tr("Assinatura do paciente"), "", 1, "L", false, 0, "")
	}

	verifyURL := fmt.Sprintf("%s/documentos/%s/verificar", e.baseURL, d.ID)
	qr, err := qrcode.Encode(verifyURL, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("gerar qr code: %w", err)
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("verificacao", opts, bytes.NewReader(qr))
	pdf.ImageOptions("verificacao", 160, 250, 30, 30, false, opts, 0, "")
	pdf.SetY(282)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(170, 4, tr("Verifique a autenticidade em "+verifyURL), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("gerar pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeDataURLPNG(dataURL string) ([]byte, error) {
	const prefix = "base64,"
	idx := strings.Index(dataURL, prefix)
	if idx < 0 {
		return nil, fmt.Errorf("data URL sem conteúdo base64")
	}
	return base64.StdEncoding.DecodeString(dataURL[idx+len(prefix):])
}
