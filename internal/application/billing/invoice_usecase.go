package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/recepcion-activa/internal/application/dto"
	"github.com/jhoicas/recepcion-activa/internal/domain"
	"github.com/jhoicas/recepcion-activa/internal/domain/aeat"
	"github.com/jhoicas/recepcion-activa/internal/domain/entity"
	"github.com/jhoicas/recepcion-activa/internal/domain/repository"
	catalogo "github.com/jhoicas/recepcion-activa/pkg/aeat"
	"github.com/jhoicas/recepcion-activa/pkg/logger"
)

// Defaults valores que se aplican a las facturas nuevas cuando no los traen.
type Defaults struct {
	Serie  func(now time.Time) string
	Moneda string
}

// InvoiceUseCase alta, edición, consulta y ciclo de vida de facturas.
type InvoiceUseCase struct {
	invoiceRepo repository.InvoiceRepository
	txRunner    TxRunner
	defaults    Defaults
	log         *logger.Logger
	now         func() time.Time
}

// NewInvoiceUseCase construye el caso de uso. log puede ser nil.
func NewInvoiceUseCase(invoiceRepo repository.InvoiceRepository, txRunner TxRunner, defaults Defaults, log *logger.Logger) *InvoiceUseCase {
	if log == nil {
		log = logger.Nop()
	}
	if defaults.Moneda == "" {
		defaults.Moneda = "EUR"
	}
	return &InvoiceUseCase{
		invoiceRepo: invoiceRepo,
		txRunner:    txRunner,
		defaults:    defaults,
		log:         log.WithComponent("billing"),
		now:         time.Now,
	}
}

// WithClock sustituye el reloj usado para la serie por defecto (pruebas).
func (uc *InvoiceUseCase) WithClock(now func() time.Time) *InvoiceUseCase {
	uc.now = now
	return uc
}

// Calculate recalcula la factura y devuelve menciones y violaciones. No persiste nada.
func (uc *InvoiceUseCase) Calculate(_ context.Context, in dto.FacturaRequest) *dto.CalculoResponse {
	f := uc.build(in)
	violaciones := aeat.ValidateInvoice(f)
	return &dto.CalculoResponse{
		Factura:     f,
		Menciones:   aeat.LegalMentions(f),
		Violaciones: violaciones,
		Valida:      len(violaciones) == 0,
	}
}

// Create valida y guarda la factura en estado DRAFT. El número lo asigna el almacén.
func (uc *InvoiceUseCase) Create(ctx context.Context, userID string, in dto.FacturaRequest) (*dto.FacturaResponse, error) {
	f := uc.build(in)
	if v := aeat.ValidateInvoice(f); len(v) > 0 {
		return nil, domain.NewValidationError(v)
	}
	f.ID = ""
	f.Status = entity.FacturaStatusDraft
	f.CreadoPor = userID

	if err := uc.invoiceRepo.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("crear factura: %w", err)
	}
	uc.log.Info().
		Str("factura_id", f.ID).
		Str("numero", f.NumeroCompleto()).
		Str("tipo", string(f.TipoFactura)).
		Str("total", f.Totales.TotalFactura.String()).
		Msg("factura creada")
	return toResponse(f), nil
}

// Update sustituye el contenido de un borrador. Las facturas ya emitidas no se editan.
func (uc *InvoiceUseCase) Update(ctx context.Context, id string, in dto.FacturaRequest) (*dto.FacturaResponse, error) {
	var out *entity.Factura
	err := uc.txRunner.Run(ctx, func(invoiceRepo repository.InvoiceRepository) error {
		prev, err := invoiceRepo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("obtener factura: %w", err)
		}
		if prev == nil {
			return domain.ErrNotFound
		}
		if prev.Status != entity.FacturaStatusDraft {
			return fmt.Errorf("%w: solo se pueden editar borradores (estado %s)", domain.ErrConflict, prev.Status)
		}
		if in.TipoFactura == "" {
			in.TipoFactura = prev.TipoFactura
		}
		if entity.SecuenciaDe(prev.TipoFactura) != entity.SecuenciaDe(in.TipoFactura) {
			return fmt.Errorf("%w: el tipo de factura no puede cambiar de secuencia de numeración", domain.ErrConflict)
		}

		in.Serie = prev.Serie
		f := uc.build(in)
		if v := aeat.ValidateInvoice(f); len(v) > 0 {
			return domain.NewValidationError(v)
		}
		f.ID = prev.ID
		if err := invoiceRepo.Update(ctx, f); err != nil {
			return fmt.Errorf("actualizar factura: %w", err)
		}
		out = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("factura_id", out.ID).Str("numero", out.NumeroCompleto()).Msg("factura actualizada")
	return toResponse(out), nil
}

// Get devuelve la factura con sus menciones.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.FacturaResponse, error) {
	f, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener factura: %w", err)
	}
	if f == nil {
		return nil, domain.ErrNotFound
	}
	return toResponse(f), nil
}

// List pagina las facturas; status vacío o ALL no filtra.
func (uc *InvoiceUseCase) List(ctx context.Context, in dto.PageRequest) (*dto.ListResponse, error) {
	status := strings.ToUpper(strings.TrimSpace(in.Status))
	if status != "" && status != repository.StatusAll && !entity.ValidStatus(status) {
		return nil, fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, in.Status)
	}
	page, err := uc.invoiceRepo.List(ctx, repository.InvoiceFilter{
		Page:   in.Page,
		Limit:  in.Limit,
		Status: status,
		Search: in.Search,
	})
	if err != nil {
		return nil, fmt.Errorf("listar facturas: %w", err)
	}
	out := &dto.ListResponse{
		Items: make([]dto.FacturaResumen, 0, len(page.Facturas)),
		PageResponse: dto.PageResponse{
			Page:  page.Page,
			Limit: page.Limit,
			Total: page.Total,
			Pages: page.Pages,
		},
	}
	for _, f := range page.Facturas {
		out.Items = append(out.Items, dto.NewFacturaResumen(f))
	}
	return out, nil
}

// UpdateStatus aplica una transición de estado permitida.
func (uc *InvoiceUseCase) UpdateStatus(ctx context.Context, id, status string) (*dto.FacturaResponse, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if !entity.ValidStatus(status) {
		return nil, fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, status)
	}
	var out *entity.Factura
	err := uc.txRunner.Run(ctx, func(invoiceRepo repository.InvoiceRepository) error {
		f, err := invoiceRepo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("obtener factura: %w", err)
		}
		if f == nil {
			return domain.ErrNotFound
		}
		if !entity.CanTransition(f.Status, status) {
			return fmt.Errorf("%w: transición %s -> %s no permitida", domain.ErrConflict, f.Status, status)
		}
		if err := invoiceRepo.UpdateStatus(ctx, id, status); err != nil {
			return fmt.Errorf("actualizar estado: %w", err)
		}
		uc.log.Info().Str("factura_id", id).Str("desde", f.Status).Str("hasta", status).Msg("estado de factura actualizado")
		f.Status = status
		out = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toResponse(out), nil
}

// Delete elimina un borrador. El número asignado no se reutiliza.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(invoiceRepo repository.InvoiceRepository) error {
		f, err := invoiceRepo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("obtener factura: %w", err)
		}
		if f == nil {
			return domain.ErrNotFound
		}
		if f.Status != entity.FacturaStatusDraft {
			return fmt.Errorf("%w: solo se pueden eliminar borradores; anule la factura", domain.ErrConflict)
		}
		if err := invoiceRepo.Delete(ctx, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return err
			}
			return fmt.Errorf("eliminar factura: %w", err)
		}
		uc.log.Info().Str("factura_id", id).Str("numero", f.NumeroCompleto()).Msg("factura eliminada")
		return nil
	})
}

// build aplica los valores por defecto y pasa la petición por el builder.
func (uc *InvoiceUseCase) build(in dto.FacturaRequest) *entity.Factura {
	f := in.ToEntity()
	if f.TipoFactura == "" {
		f.TipoFactura = catalogo.FacturaOrdinaria
	}
	if strings.TrimSpace(f.Serie) == "" {
		f.Serie = uc.serieDefecto()
	}
	if f.Moneda == "" {
		f.Moneda = uc.defaults.Moneda
	}
	b := aeat.NewBuilder(f)
	if f.TipoFactura != catalogo.FacturaRectificativa {
		b.Tipo(f.TipoFactura)
	}
	return b.Build()
}

func (uc *InvoiceUseCase) serieDefecto() string {
	now := uc.now()
	if uc.defaults.Serie != nil {
		return uc.defaults.Serie(now)
	}
	return fmt.Sprintf("%d-A", now.Year())
}

func toResponse(f *entity.Factura) *dto.FacturaResponse {
	return &dto.FacturaResponse{
		Factura:        f,
		NumeroCompleto: f.NumeroCompleto(),
		Menciones:      aeat.LegalMentions(f),
	}
}
