package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/recepcion-activa/internal/application/billing"
	"github.com/jhoicas/recepcion-activa/internal/application/dto"
	"github.com/jhoicas/recepcion-activa/internal/domain"
	"github.com/jhoicas/recepcion-activa/internal/domain/entity"
	"github.com/jhoicas/recepcion-activa/internal/domain/repository"
	"github.com/jhoicas/recepcion-activa/internal/infrastructure/memory"
	"github.com/jhoicas/recepcion-activa/pkg/aeat"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func iva(t aeat.TipoIVA) *aeat.TipoIVA { return &t }

func facturaValida() dto.FacturaRequest {
	return dto.FacturaRequest{
		TipoFactura:     aeat.FacturaOrdinaria,
		FechaExpedicion: entity.NewFecha(2024, time.March, 15),
		Emisor: &entity.Emisor{
			NombreORazonSocial: "Taller Martínez S.L.",
			NIF:                "B12345674",
			Domicilio:          &entity.Domicilio{Calle: "Calle Mayor 3", CodigoPostal: "28013", Municipio: "Madrid"},
		},
		Cliente: &entity.Cliente{
			Tipo:               aeat.ClienteEmpresario,
			NombreORazonSocial: "Ferretería Peña",
			NIF:                "12345678Z",
			Domicilio:          &entity.Domicilio{Calle: "Mayor 1", CodigoPostal: "28001", Municipio: "Madrid"},
			Pais:               "España",
		},
		Lineas: []entity.LineaFactura{{
			Descripcion:    "Revisión anual",
			Cantidad:       dec("2"),
			PrecioUnitario: dec("100"),
			TipoIVA:        iva(aeat.IVAGeneral),
		}},
	}
}

func domainFilter() repository.InvoiceFilter {
	return repository.InvoiceFilter{Status: repository.StatusAll}
}

func newUseCase(t *testing.T) (*billing.InvoiceUseCase, *memory.InvoiceRepo) {
	t.Helper()
	repo := memory.NewInvoiceRepository()
	uc := billing.NewInvoiceUseCase(repo, memory.NewTxRunner(repo), billing.Defaults{}, nil).
		WithClock(func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) })
	return uc, repo
}

// ──────────────────────────────────────────────────────────────────────────────
// Calculate
// ──────────────────────────────────────────────────────────────────────────────

func TestCalculate_RecalculaSinPersistir(t *testing.T) {
	uc, repo := newUseCase(t)

	res := uc.Calculate(context.Background(), facturaValida())

	require.NotNil(t, res)
	assert.True(t, res.Valida)
	assert.Empty(t, res.Violaciones)
	assert.True(t, dec("200").Equal(res.Factura.Totales.BaseImponibleTotal))
	assert.True(t, dec("242").Equal(res.Factura.Totales.TotalFactura))
	assert.Equal(t, "2024-A", res.Factura.Serie)
	assert.Equal(t, "EUR", res.Factura.Moneda)

	page, err := repo.List(context.Background(), domainFilter())
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
}

func TestCalculate_DevuelveTodasLasViolaciones(t *testing.T) {
	uc, _ := newUseCase(t)
	in := facturaValida()
	in.Emisor.NIF = ""
	in.Lineas[0].Descripcion = ""

	res := uc.Calculate(context.Background(), in)

	assert.False(t, res.Valida)
	assert.Contains(t, res.Violaciones, "El NIF del emisor es obligatorio")
	assert.Contains(t, res.Violaciones, "La descripción de la línea 1 es obligatoria")
}

// ──────────────────────────────────────────────────────────────────────────────
// Create / Get
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_AsignaNumeroYBorrador(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	a, err := uc.Create(ctx, "u-1", facturaValida())
	require.NoError(t, err)
	b, err := uc.Create(ctx, "u-1", facturaValida())
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "2024-A-00001", a.NumeroCompleto)
	assert.Equal(t, "2024-A-00002", b.NumeroCompleto)
	assert.Equal(t, entity.FacturaStatusDraft, a.Status)
	assert.Equal(t, "u-1", a.CreadoPor)
	assert.NotNil(t, a.Menciones)

	got, err := uc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.NumeroCompleto, got.NumeroCompleto)
}

func TestCreate_Rectificativa_SecuenciaPropia(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	orig, err := uc.Create(ctx, "u-1", facturaValida())
	require.NoError(t, err)

	in := facturaValida()
	in.TipoFactura = aeat.FacturaRectificativa
	in.CausaRectificacion = aeat.CausaDevolucion
	in.ReferenciasFacturasRectificadas = []string{orig.NumeroCompleto}
	in.Lineas[0].PrecioUnitario = dec("-100")

	rect, err := uc.Create(ctx, "u-1", in)
	require.NoError(t, err)
	assert.Equal(t, "2024-A-R00001", rect.NumeroCompleto)
	assert.True(t, rect.EsRectificativa)
	assert.Equal(t, aeat.MencionRectificativa, rect.Menciones[0])
}

func TestCreate_Invalida_RetornaValidationError(t *testing.T) {
	uc, repo := newUseCase(t)
	in := facturaValida()
	in.Lineas = nil

	_, err := uc.Create(context.Background(), "u-1", in)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Violaciones, "Debe incluir al menos una línea de factura")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	page, _ := repo.List(context.Background(), domainFilter())
	assert.Equal(t, 0, page.Total)
}

func TestCreate_SerieExplicitaYDefaults(t *testing.T) {
	repo := memory.NewInvoiceRepository()
	uc := billing.NewInvoiceUseCase(repo, memory.NewTxRunner(repo), billing.Defaults{
		Serie:  func(time.Time) string { return "TALLER" },
		Moneda: "EUR",
	}, nil)

	a, err := uc.Create(context.Background(), "u-1", facturaValida())
	require.NoError(t, err)
	assert.Equal(t, "TALLER-00001", a.NumeroCompleto)

	in := facturaValida()
	in.Serie = "B"
	b, err := uc.Create(context.Background(), "u-1", in)
	require.NoError(t, err)
	assert.Equal(t, "B-00001", b.NumeroCompleto)
}

func TestGet_NoExiste_RetornaErrNotFound(t *testing.T) {
	uc, _ := newUseCase(t)
	_, err := uc.Get(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_BorradorConservaNumeracion(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()
	created, err := uc.Create(ctx, "u-1", facturaValida())
	require.NoError(t, err)

	in := facturaValida()
	in.Serie = "OTRA"
	in.Lineas[0].Cantidad = dec("3")
	updated, err := uc.Update(ctx, created.ID, in)

	require.NoError(t, err)
	assert.Equal(t, created.NumeroCompleto, updated.NumeroCompleto)
	assert.True(t, dec("363").Equal(updated.Totales.TotalFactura))
	assert.Equal(t, "u-1", updated.CreadoPor)
}

func TestUpdate_FacturaEmitida_RetornaConflict(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()
	created, err := uc.Create(ctx, "u-1", facturaValida())
	require.NoError(t, err)
	_, err = uc.UpdateStatus(ctx, created.ID, entity.FacturaStatusSent)
	require.NoError(t, err)

	_, err = uc.Update(ctx, created.ID, facturaValida())
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUpdate_CambioDeSecuencia_RetornaConflict(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()
	created, err := uc.Create(ctx, "u-1", facturaValida())
	require.NoError(t, err)

	in := facturaValida()
	in.TipoFactura = aeat.FacturaRectificativa
	in.CausaRectificacion = aeat.CausaError
	in.ReferenciasFacturasRectificadas = []string{"2023-A-00001"}
	_, err = uc.Update(ctx, created.ID, in)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUpdate_Invalida_NoModifica(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()
	created, err := uc.Create(ctx, "u-1", facturaValida())
	require.NoError(t, err)

	in := facturaValida()
	in.Cliente.NombreORazonSocial = ""
	_, err = uc.Update(ctx, created.ID, in)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))

	got, err := uc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ferretería Peña", got.Cliente.NombreORazonSocial)
}

// ──────────────────────────────────────────────────────────────────────────────
// Estado / borrado / listado
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateStatus_Transiciones(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()
	created, err := uc.Create(ctx, "u-1", facturaValida())
	require.NoError(t, err)

	_, err = uc.UpdateStatus(ctx, created.ID, entity.FacturaStatusPaid)
	assert.ErrorIs(t, err, domain.ErrConflict, "DRAFT no pasa directamente a PAID")

	res, err := uc.UpdateStatus(ctx, created.ID, "sent")
	require.NoError(t, err)
	assert.Equal(t, entity.FacturaStatusSent, res.Status)

	res, err = uc.UpdateStatus(ctx, created.ID, entity.FacturaStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, entity.FacturaStatusPaid, res.Status)

	_, err = uc.UpdateStatus(ctx, created.ID, entity.FacturaStatusCancelled)
	assert.ErrorIs(t, err, domain.ErrConflict, "PAID es final")

	_, err = uc.UpdateStatus(ctx, created.ID, "ARCHIVADA")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.UpdateStatus(ctx, "no-existe", entity.FacturaStatusSent)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_SoloBorradores(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()
	a, err := uc.Create(ctx, "u-1", facturaValida())
	require.NoError(t, err)
	b, err := uc.Create(ctx, "u-1", facturaValida())
	require.NoError(t, err)
	_, err = uc.UpdateStatus(ctx, b.ID, entity.FacturaStatusSent)
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, a.ID))
	_, err = uc.Get(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, uc.Delete(ctx, b.ID), domain.ErrConflict)
	assert.ErrorIs(t, uc.Delete(ctx, a.ID), domain.ErrNotFound)

	c, err := uc.Create(ctx, "u-1", facturaValida())
	require.NoError(t, err)
	assert.Equal(t, "2024-A-00003", c.NumeroCompleto, "el número borrado no se reutiliza")
}

func TestList_FiltrosYPaginacion(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := uc.Create(ctx, "u-1", facturaValida())
		require.NoError(t, err)
	}
	otra := facturaValida()
	otra.Cliente.NombreORazonSocial = "Óptica Núñez"
	otra.Cliente.NIF = "X1234567L"
	_, err := uc.Create(ctx, "u-1", otra)
	require.NoError(t, err)

	res, err := uc.List(ctx, dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 2, res.Pages)
	assert.Len(t, res.Items, 2)
	assert.Equal(t, "Óptica Núñez", res.Items[0].ClienteNombre)

	res, err = uc.List(ctx, dto.PageRequest{Search: "optica nunez"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)

	res, err = uc.List(ctx, dto.PageRequest{Status: "paid"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Total)
	assert.NotNil(t, res.Items)

	_, err = uc.List(ctx, dto.PageRequest{Status: "ARCHIVADA"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
