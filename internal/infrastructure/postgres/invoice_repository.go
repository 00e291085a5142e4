package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/recepcion-activa/internal/domain"
	"github.com/jhoicas/recepcion-activa/internal/domain/entity"
	"github.com/jhoicas/recepcion-activa/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
// La factura completa se guarda en JSONB; las columnas sueltas sirven para
// numerar, filtrar y sumar. Al leer, las columnas prevalecen sobre el documento.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const selectFactura = `
	SELECT id, serie, numero, status, creado_por, created_at, updated_at, documento
	FROM facturas`

// Create reserva el siguiente número de la serie y persiste la factura en la misma transacción.
func (r *InvoiceRepo) Create(ctx context.Context, f *entity.Factura) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.Status == "" {
		f.Status = entity.FacturaStatusDraft
	}
	now := time.Now().UTC()
	f.CreatedAt, f.UpdatedAt = now, now

	tx, err := r.q.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create invoice: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var ultimo int64
	err = tx.QueryRow(ctx, `
		INSERT INTO factura_contadores (serie, secuencia, ultimo)
		VALUES ($1, $2, 1)
		ON CONFLICT (serie, secuencia) DO UPDATE SET ultimo = factura_contadores.ultimo + 1
		RETURNING ultimo`,
		f.Serie, entity.SecuenciaDe(f.TipoFactura),
	).Scan(&ultimo)
	if err != nil {
		return fmt.Errorf("next invoice number: %w", err)
	}
	f.Numero = entity.FormatNumero(f.TipoFactura, ultimo)

	doc, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode invoice: %w", err)
	}
	nombre, nif := clienteCols(f)
	_, err = tx.Exec(ctx, `
		INSERT INTO facturas (id, tipo_factura, serie, numero, fecha_expedicion, status,
		                      cliente_nombre, cliente_nif, base_imponible, cuota_iva, cuota_re, total,
		                      documento, creado_por, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		f.ID, string(f.TipoFactura), f.Serie, f.Numero, dateOrNil(f.FechaExpedicion), f.Status,
		nombre, nif, f.Totales.BaseImponibleTotal, f.Totales.CuotaIVATotal, f.Totales.CuotaRETotal, f.Totales.TotalFactura,
		doc, f.CreadoPor, f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice %s already exists: %w", f.NumeroCompleto(), domain.ErrDuplicate)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una factura completa por ID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Factura, error) {
	if !validID(id) {
		return nil, nil
	}
	f, err := scanFactura(r.q.QueryRow(ctx, selectFactura+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return f, nil
}

// Update reescribe documento y columnas derivadas; serie, número, estado,
// autor y creación se conservan.
func (r *InvoiceRepo) Update(ctx context.Context, f *entity.Factura) error {
	if !validID(f.ID) {
		return domain.ErrNotFound
	}
	tx, err := r.q.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update invoice: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		SELECT serie, numero, status, creado_por, created_at
		FROM facturas WHERE id = $1 FOR UPDATE`, f.ID,
	).Scan(&f.Serie, &f.Numero, &f.Status, &f.CreadoPor, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("lock invoice: %w", err)
	}
	f.UpdatedAt = time.Now().UTC()

	doc, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode invoice: %w", err)
	}
	nombre, nif := clienteCols(f)
	_, err = tx.Exec(ctx, `
		UPDATE facturas
		SET tipo_factura     = $2,
		    fecha_expedicion = $3,
		    cliente_nombre   = $4,
		    cliente_nif      = $5,
		    base_imponible   = $6,
		    cuota_iva        = $7,
		    cuota_re         = $8,
		    total            = $9,
		    documento        = $10,
		    updated_at       = $11
		WHERE id = $1`,
		f.ID, string(f.TipoFactura), dateOrNil(f.FechaExpedicion), nombre, nif,
		f.Totales.BaseImponibleTotal, f.Totales.CuotaIVATotal, f.Totales.CuotaRETotal, f.Totales.TotalFactura,
		doc, f.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit update invoice: %w", err)
	}
	return nil
}

// UpdateStatus cambia solo el estado.
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, id, status string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx,
		`UPDATE facturas SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la factura. El contador de la serie no retrocede.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM facturas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const listWhere = `
	WHERE ($1 = 'ALL' OR status = $1)
	  AND ($2 = '' OR (serie || '-' || numero) ILIKE $3
	               OR cliente_nombre ILIKE $3
	               OR cliente_nif ILIKE $3)`

// List filtra por estado y texto (ILIKE) y pagina, de la más reciente a la más antigua.
func (r *InvoiceRepo) List(ctx context.Context, filter repository.InvoiceFilter) (*repository.InvoicePage, error) {
	filter = filter.Normalize()
	pattern := containsPattern(filter.Search)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM facturas`+listWhere,
		filter.Status, filter.Search, pattern,
	).Scan(&total); err != nil {
		return nil, fmt.Errorf("count invoices: %w", err)
	}

	rows, err := r.q.Query(ctx, selectFactura+listWhere+`
		ORDER BY created_at DESC, id DESC
		LIMIT $4 OFFSET $5`,
		filter.Status, filter.Search, pattern, filter.Limit, filter.Offset(),
	)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	list, err := collect(rows)
	if err != nil {
		return nil, err
	}
	return repository.NewInvoicePage(list, filter, total), nil
}

// ListByPeriod facturas no anuladas del periodo. Fecha cero = extremo abierto.
func (r *InvoiceRepo) ListByPeriod(ctx context.Context, desde, hasta entity.Fecha) ([]*entity.Factura, error) {
	rows, err := r.q.Query(ctx, selectFactura+`
		WHERE status <> 'CANCELLED'
		  AND ($1::date IS NULL OR fecha_expedicion >= $1)
		  AND ($2::date IS NULL OR fecha_expedicion <= $2)
		ORDER BY serie, numero`,
		dateOrNil(desde), dateOrNil(hasta),
	)
	if err != nil {
		return nil, fmt.Errorf("list invoices by period: %w", err)
	}
	return collect(rows)
}

func collect(rows pgx.Rows) ([]*entity.Factura, error) {
	defer rows.Close()
	list := make([]*entity.Factura, 0)
	for rows.Next() {
		f, err := scanFactura(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, f)
	}
	return list, rows.Err()
}

func scanFactura(row pgx.Row) (*entity.Factura, error) {
	var (
		f   entity.Factura
		doc []byte
	)
	var id, serie, numero, status, creadoPor string
	var createdAt, updatedAt time.Time
	if err := row.Scan(&id, &serie, &numero, &status, &creadoPor, &createdAt, &updatedAt, &doc); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(doc, &f); err != nil {
		return nil, fmt.Errorf("decode invoice %s: %w", id, err)
	}
	f.ID = id
	f.Serie, f.Numero, f.Status, f.CreadoPor = serie, numero, status, creadoPor
	f.CreatedAt, f.UpdatedAt = createdAt, updatedAt
	return &f, nil
}

func clienteCols(f *entity.Factura) (nombre, nif string) {
	if f.Cliente == nil {
		return "", ""
	}
	return f.Cliente.NombreORazonSocial, f.Cliente.NIF
}

// validID evita enviar a PostgreSQL identificadores que no son UUID.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
