package repository

import (
	"context"

	"github.com/jhoicas/recepcion-activa/internal/domain/entity"
)

// StatusAll valor del filtro de estado que no filtra.
const StatusAll = "ALL"

// Límites de paginación.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// InvoiceFilter criterios de listado. Search busca en "serie-numero", nombre y NIF del cliente.
type InvoiceFilter struct {
	Page   int
	Limit  int
	Status string
	Search string
}

// Normalize aplica valores por defecto: página 1, límite 10 (máximo 100), estado ALL.
func (f InvoiceFilter) Normalize() InvoiceFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Status == "" {
		f.Status = StatusAll
	}
	return f
}

// Offset filas a saltar para la página pedida.
func (f InvoiceFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// InvoicePage página de resultados con sus metadatos.
type InvoicePage struct {
	Facturas []*entity.Factura
	Page     int
	Limit    int
	Total    int
	Pages    int
}

// NewInvoicePage calcula el número de páginas a partir del total.
func NewInvoicePage(items []*entity.Factura, f InvoiceFilter, total int) *InvoicePage {
	pages := 0
	if f.Limit > 0 {
		pages = (total + f.Limit - 1) / f.Limit
	}
	if items == nil {
		items = make([]*entity.Factura, 0)
	}
	return &InvoicePage{Facturas: items, Page: f.Page, Limit: f.Limit, Total: total, Pages: pages}
}

// InvoiceRepository puerto de persistencia de facturas.
type InvoiceRepository interface {
	// Create asigna ID y número dentro de la serie y persiste la factura.
	// Rectificativas: "R" + 5 dígitos con contador propio; resto: 5 dígitos.
	Create(ctx context.Context, f *entity.Factura) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Factura, error)
	// Update sustituye el contenido editable; conserva ID, serie, número, estado y creación.
	// domain.ErrNotFound si no existe.
	Update(ctx context.Context, f *entity.Factura) error
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	// List ordena de la más reciente a la más antigua.
	List(ctx context.Context, filter InvoiceFilter) (*InvoicePage, error)
	// ListByPeriod facturas no anuladas con fecha de expedición en [desde, hasta], por serie y número.
	ListByPeriod(ctx context.Context, desde, hasta entity.Fecha) ([]*entity.Factura, error)
}
