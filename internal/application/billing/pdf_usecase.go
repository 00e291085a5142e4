package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/recepcion-activa/internal/domain"
	"github.com/jhoicas/recepcion-activa/internal/domain/aeat"
	"github.com/jhoicas/recepcion-activa/internal/domain/repository"
)

// PDFUseCase genera la representación gráfica (PDF) de una factura guardada.
type PDFUseCase struct {
	invoiceRepo repository.InvoiceRepository
	generator   InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(invoiceRepo repository.InvoiceRepository, generator InvoicePDFGenerator) *PDFUseCase {
	return &PDFUseCase{invoiceRepo: invoiceRepo, generator: generator}
}

// DownloadInvoicePDF devuelve el PDF y el nombre de archivo sugerido.
//
// Retorna domain.ErrNotFound si la factura no existe.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, invoiceID string) (pdfBytes []byte, filename string, err error) {
	f, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if f == nil {
		return nil, "", domain.ErrNotFound
	}

	pdfBytes, err = uc.generator.Generate(f, aeat.LegalMentions(f))
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar documento: %w", err)
	}
	return pdfBytes, "factura-" + safeFilename(f.NumeroCompleto()) + ".pdf", nil
}

func safeFilename(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
	if s == "" {
		return "sin-numero"
	}
	return s
}
