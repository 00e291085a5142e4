package aeat

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/recepcion-activa/internal/domain/entity"
	"github.com/jhoicas/recepcion-activa/pkg/aeat"
)

// Builder editor tipado de un borrador de factura. Cada operación sobre las
// líneas recalcula los campos derivados y los totales. Los índices fuera de
// rango se ignoran. No es seguro para uso concurrente.
type Builder struct {
	f *entity.Factura
}

// NewBuilder parte de una copia de base (nil = factura ordinaria vacía).
// Asigna ID a las líneas que no lo tengan y les aplica el régimen de recargo del cliente.
func NewBuilder(base *entity.Factura) *Builder {
	f := base.Clone()
	if f == nil {
		f = &entity.Factura{TipoFactura: aeat.FacturaOrdinaria}
	}
	b := &Builder{f: f}
	lineas := f.Lineas
	f.Lineas = make([]entity.LineaFactura, 0, len(lineas))
	for _, l := range lineas {
		b.agregar(l)
	}
	f.EsRectificativa = f.TipoFactura == aeat.FacturaRectificativa
	recalcular(f)
	return b
}

// LineaPorDefecto línea nueva tal como la ofrece el formulario: una unidad al tipo general.
func LineaPorDefecto() entity.LineaFactura {
	iva := aeat.IVAGeneral
	return entity.LineaFactura{
		Cantidad:       decimal.NewFromInt(1),
		PrecioUnitario: decimal.Zero,
		DescuentoPct:   decimal.Zero,
		TipoIVA:        &iva,
	}
}

// Tipo cambia el tipo de factura. Fuera de rectificativa se descartan causa y referencias.
func (b *Builder) Tipo(t aeat.TipoFactura) *Builder {
	b.f.TipoFactura = t
	b.f.EsRectificativa = t == aeat.FacturaRectificativa
	if !b.f.EsRectificativa {
		b.f.CausaRectificacion = ""
		b.f.ReferenciasFacturasRectificadas = nil
	}
	return b
}

// Serie fija la serie de numeración.
func (b *Builder) Serie(serie string) *Builder {
	b.f.Serie = serie
	return b
}

// Fechas fija expedición, operación y vencimiento.
func (b *Builder) Fechas(expedicion, operacion, vencimiento entity.Fecha) *Builder {
	b.f.FechaExpedicion = expedicion
	b.f.FechaOperacion = operacion
	b.f.FechaVencimiento = vencimiento
	return b
}

// Emisor sustituye los datos del emisor.
func (b *Builder) Emisor(e entity.Emisor) *Builder {
	if e.Domicilio != nil {
		d := *e.Domicilio
		e.Domicilio = &d
	}
	b.f.Emisor = &e
	return b
}

// Cliente edita los datos del cliente. Si cambia su régimen de recargo de
// equivalencia, el nuevo valor se copia a todas las líneas y sustituye al que
// se hubiera marcado a mano en cada una. Para un recargo por línea que no
// dependa del cliente, usar RecargoEquivalenciaPct. Si el régimen no cambia,
// las líneas no se tocan.
func (b *Builder) Cliente(fn func(*entity.Cliente)) *Builder {
	if b.f.Cliente == nil {
		b.f.Cliente = &entity.Cliente{}
	}
	antes := b.f.Cliente.RecargoEquivalencia
	fn(b.f.Cliente)
	if ahora := b.f.Cliente.RecargoEquivalencia; ahora != antes {
		for i := range b.f.Lineas {
			b.f.Lineas[i].RecargoEquivalencia = ahora
		}
		recalcular(b.f)
	}
	return b
}

// AddLinea añade una línea al final.
func (b *Builder) AddLinea(l entity.LineaFactura) *Builder {
	b.agregar(l)
	recalcular(b.f)
	return b
}

// UpdateLinea edita la línea i (base 0). El ID de la línea no se puede cambiar.
func (b *Builder) UpdateLinea(i int, fn func(*entity.LineaFactura)) *Builder {
	if i < 0 || i >= len(b.f.Lineas) {
		return b
	}
	l := &b.f.Lineas[i]
	id := l.ID
	fn(l)
	l.ID = id
	recalcular(b.f)
	return b
}

// RemoveLinea elimina la línea i. La última línea restante no se elimina.
func (b *Builder) RemoveLinea(i int) *Builder {
	if len(b.f.Lineas) <= 1 || i < 0 || i >= len(b.f.Lineas) {
		return b
	}
	b.f.Lineas = append(b.f.Lineas[:i], b.f.Lineas[i+1:]...)
	recalcular(b.f)
	return b
}

// Rectificacion fija causa y facturas rectificadas. Convierte la factura en rectificativa.
func (b *Builder) Rectificacion(causa aeat.CausaRectificacion, refs ...string) *Builder {
	b.Tipo(aeat.FacturaRectificativa)
	b.f.CausaRectificacion = causa
	b.f.ReferenciasFacturasRectificadas = referencias(refs)
	return b
}

// Pago fija forma y medio de pago.
func (b *Builder) Pago(formaPago, medioPago string) *Builder {
	b.f.FormaPago = formaPago
	b.f.MedioPago = medioPago
	return b
}

// Notas fija las observaciones libres.
func (b *Builder) Notas(notas string) *Builder {
	b.f.Notas = notas
	return b
}

// Build devuelve una copia del borrador con totales al día.
func (b *Builder) Build() *entity.Factura {
	c := b.f.Clone()
	recalcular(c)
	return c
}

// agregar asigna ID único y el régimen del cliente sin recalcular.
func (b *Builder) agregar(l entity.LineaFactura) {
	l = l.Clone()
	maxID := 0
	usado := false
	for _, x := range b.f.Lineas {
		if x.ID > maxID {
			maxID = x.ID
		}
		if x.ID == l.ID {
			usado = true
		}
	}
	if l.ID <= 0 || usado {
		l.ID = maxID + 1
	}
	if b.f.Cliente != nil && b.f.Cliente.RecargoEquivalencia {
		l.RecargoEquivalencia = true
	}
	b.f.Lineas = append(b.f.Lineas, l)
}
