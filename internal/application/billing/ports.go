package billing

import (
	"context"

	"github.com/jhoicas/recepcion-activa/internal/domain/entity"
	"github.com/jhoicas/recepcion-activa/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción; el repositorio recibido opera sobre ella.
// Si fn devuelve error no se confirma nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error
}

// InvoicePDFGenerator representación gráfica de una factura con sus menciones legales.
type InvoicePDFGenerator interface {
	Generate(f *entity.Factura, menciones []string) ([]byte, error)
}

// RegisterExporter libro registro de facturas expedidas.
type RegisterExporter interface {
	Export(facturas []*entity.Factura, desde, hasta entity.Fecha) ([]byte, error)
}
