package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/recepcion-activa/internal/domain"
	"github.com/jhoicas/recepcion-activa/internal/domain/entity"
	"github.com/jhoicas/recepcion-activa/internal/domain/repository"
)

// RegisterUseCase exporta el libro registro de facturas expedidas de un periodo.
type RegisterUseCase struct {
	invoiceRepo repository.InvoiceRepository
	exporter    RegisterExporter
}

// NewRegisterUseCase construye el caso de uso.
func NewRegisterUseCase(invoiceRepo repository.InvoiceRepository, exporter RegisterExporter) *RegisterUseCase {
	return &RegisterUseCase{invoiceRepo: invoiceRepo, exporter: exporter}
}

// Export genera el libro para [desde, hasta]; una fecha vacía deja el extremo abierto.
// Las facturas anuladas no se incluyen.
func (uc *RegisterUseCase) Export(ctx context.Context, desde, hasta entity.Fecha) ([]byte, string, error) {
	if !desde.IsZero() && !hasta.IsZero() && hasta.Before(desde) {
		return nil, "", fmt.Errorf("%w: el periodo termina antes de empezar", domain.ErrInvalidInput)
	}
	facturas, err := uc.invoiceRepo.ListByPeriod(ctx, desde, hasta)
	if err != nil {
		return nil, "", fmt.Errorf("libro registro: listar facturas: %w", err)
	}
	data, err := uc.exporter.Export(facturas, desde, hasta)
	if err != nil {
		return nil, "", fmt.Errorf("libro registro: exportar: %w", err)
	}
	return data, registerFilename(desde, hasta), nil
}

func registerFilename(desde, hasta entity.Fecha) string {
	name := "libro-registro-expedidas"
	if !desde.IsZero() {
		name += "_" + desde.String()
	}
	if !hasta.IsZero() {
		name += "_" + hasta.String()
	}
	return name + ".xlsx"
}
