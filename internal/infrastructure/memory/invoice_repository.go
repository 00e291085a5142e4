// Package memory implementa los puertos de persistencia en memoria, para
// desarrollo local y pruebas.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/recepcion-activa/internal/domain"
	"github.com/jhoicas/recepcion-activa/internal/domain/entity"
	"github.com/jhoicas/recepcion-activa/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

type registro struct {
	f     *entity.Factura
	orden int64
}

// InvoiceRepo almacén de facturas en memoria. Seguro para uso concurrente.
type InvoiceRepo struct {
	mu         sync.RWMutex
	facturas   map[string]*registro
	contadores map[string]int64 // serie + "|" + secuencia
	secuencia  int64
	now        func() time.Time
}

// NewInvoiceRepository construye el almacén vacío.
func NewInvoiceRepository() *InvoiceRepo {
	return &InvoiceRepo{
		facturas:   make(map[string]*registro),
		contadores: make(map[string]int64),
		now:        time.Now,
	}
}

// WithClock sustituye el reloj (pruebas).
func (r *InvoiceRepo) WithClock(now func() time.Time) *InvoiceRepo {
	r.now = now
	return r
}

// Create asigna ID, número y marcas de tiempo y guarda una copia.
func (r *InvoiceRepo) Create(_ context.Context, f *entity.Factura) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if _, ok := r.facturas[f.ID]; ok {
		return domain.ErrDuplicate
	}
	key := f.Serie + "|" + entity.SecuenciaDe(f.TipoFactura)
	r.contadores[key]++
	f.Numero = entity.FormatNumero(f.TipoFactura, r.contadores[key])
	if f.Status == "" {
		f.Status = entity.FacturaStatusDraft
	}
	now := r.now().UTC()
	f.CreatedAt, f.UpdatedAt = now, now

	r.secuencia++
	r.facturas[f.ID] = &registro{f: f.Clone(), orden: r.secuencia}
	return nil
}

// GetByID devuelve una copia de la factura o nil si no existe.
func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Factura, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.facturas[id]
	if !ok {
		return nil, nil
	}
	return reg.f.Clone(), nil
}

// Update sustituye el contenido conservando identidad, numeración, estado y creación.
func (r *InvoiceRepo) Update(_ context.Context, f *entity.Factura) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.facturas[f.ID]
	if !ok {
		return domain.ErrNotFound
	}
	prev := reg.f
	f.Serie = prev.Serie
	f.Numero = prev.Numero
	f.Status = prev.Status
	f.CreadoPor = prev.CreadoPor
	f.CreatedAt = prev.CreatedAt
	f.UpdatedAt = r.now().UTC()
	reg.f = f.Clone()
	return nil
}

// UpdateStatus cambia solo el estado.
func (r *InvoiceRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.facturas[id]
	if !ok {
		return domain.ErrNotFound
	}
	reg.f.Status = status
	reg.f.UpdatedAt = r.now().UTC()
	return nil
}

// Delete elimina la factura. Los contadores no retroceden.
func (r *InvoiceRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.facturas[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.facturas, id)
	return nil
}

// List filtra por estado y texto (sin distinguir mayúsculas ni tildes) y pagina.
func (r *InvoiceRepo) List(_ context.Context, filter repository.InvoiceFilter) (*repository.InvoicePage, error) {
	filter = filter.Normalize()
	search := fold(strings.TrimSpace(filter.Search))

	r.mu.RLock()
	matches := make([]*registro, 0, len(r.facturas))
	for _, reg := range r.facturas {
		if filter.Status != repository.StatusAll && reg.f.Status != filter.Status {
			continue
		}
		if search != "" && !coincide(reg.f, search) {
			continue
		}
		matches = append(matches, reg)
	}
	r.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if !a.f.CreatedAt.Equal(b.f.CreatedAt) {
			return a.f.CreatedAt.After(b.f.CreatedAt)
		}
		return a.orden > b.orden
	})

	total := len(matches)
	from := filter.Offset()
	if from > total {
		from = total
	}
	to := from + filter.Limit
	if to > total {
		to = total
	}
	items := make([]*entity.Factura, 0, to-from)
	for _, reg := range matches[from:to] {
		items = append(items, reg.f.Clone())
	}
	return repository.NewInvoicePage(items, filter, total), nil
}

// ListByPeriod facturas no anuladas expedidas en el periodo, ordenadas por serie y número.
// Una fecha cero deja ese extremo abierto.
func (r *InvoiceRepo) ListByPeriod(_ context.Context, desde, hasta entity.Fecha) ([]*entity.Factura, error) {
	r.mu.RLock()
	out := make([]*entity.Factura, 0, len(r.facturas))
	for _, reg := range r.facturas {
		f := reg.f
		if f.Status == entity.FacturaStatusCancelled {
			continue
		}
		if !desde.IsZero() && f.FechaExpedicion.Before(desde) {
			continue
		}
		if !hasta.IsZero() && hasta.Before(f.FechaExpedicion) {
			continue
		}
		out = append(out, f.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Serie != out[j].Serie {
			return out[i].Serie < out[j].Serie
		}
		return out[i].Numero < out[j].Numero
	})
	return out, nil
}

func coincide(f *entity.Factura, search string) bool {
	if strings.Contains(fold(f.Serie+"-"+f.Numero), search) {
		return true
	}
	if f.Cliente == nil {
		return false
	}
	return strings.Contains(fold(f.Cliente.NombreORazonSocial), search) ||
		(f.Cliente.NIF != "" && strings.Contains(fold(f.Cliente.NIF), search))
}

// fold pasa a minúsculas y elimina marcas diacríticas ("Peña" -> "pena").
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
