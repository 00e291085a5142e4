// Package aeat contiene las reglas de facturación española: cálculo de bases y
// cuotas por línea y por tipo, validación por tipo de factura y de cliente y
// generación de menciones obligatorias. Todo el paquete es puro: sin E/S, sin
// estado compartido y sin redondeos internos.
package aeat

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/recepcion-activa/internal/domain/entity"
	"github.com/jhoicas/recepcion-activa/pkg/aeat"
)

// lineaNormalizada entradas de una línea con los valores por defecto ya aplicados.
type lineaNormalizada struct {
	cantidad  decimal.Decimal
	precio    decimal.Decimal
	descuento decimal.Decimal
	tipoIVA   aeat.TipoIVA
	sinCuota  bool // exenta o inversión del sujeto pasivo
	rePct     decimal.Decimal
}

// normalizar es el único punto donde se aplican los valores por defecto.
// Un importe ausente llega como decimal.Decimal cero, que ya opera como 0;
// solo los campos puntero (tipo de IVA, recargo explícito) necesitan resolverse.
func normalizar(l entity.LineaFactura) lineaNormalizada {
	n := lineaNormalizada{
		cantidad:  l.Cantidad,
		precio:    l.PrecioUnitario,
		descuento: l.DescuentoPct,
		sinCuota:  l.Exenta || l.InversionSujetoPasivo,
		rePct:     decimal.Zero,
	}
	if l.TipoIVA != nil {
		n.tipoIVA = *l.TipoIVA
	}
	if n.sinCuota {
		return n
	}
	switch {
	case l.RecargoEquivalenciaPct != nil:
		n.rePct = *l.RecargoEquivalenciaPct
	case l.RecargoEquivalencia:
		n.rePct = n.tipoIVA.RecargoEquivalencia()
	}
	return n
}

// pct aplica un porcentaje: v × p / 100, sin pérdida de precisión.
func pct(v, p decimal.Decimal) decimal.Decimal {
	return v.Mul(p).Shift(-2)
}

func (n lineaNormalizada) base() decimal.Decimal {
	bruto := n.cantidad.Mul(n.precio)
	return bruto.Sub(pct(bruto, n.descuento))
}

func (n lineaNormalizada) cuotaIVA(base decimal.Decimal) decimal.Decimal {
	if n.sinCuota {
		return decimal.Zero
	}
	return pct(base, n.tipoIVA.Pct())
}

func (n lineaNormalizada) cuotaRE(base decimal.Decimal) decimal.Decimal {
	if n.sinCuota {
		return decimal.Zero
	}
	return pct(base, n.rePct)
}

// LineBase base imponible de la línea: cantidad × precio × (1 − descuento/100).
func LineBase(l entity.LineaFactura) decimal.Decimal {
	return normalizar(l).base()
}

// LineVAT cuota de IVA de la línea. Cero si la línea es exenta o con inversión del sujeto pasivo.
func LineVAT(l entity.LineaFactura) decimal.Decimal {
	n := normalizar(l)
	return n.cuotaIVA(n.base())
}

// LineRE cuota de recargo de equivalencia de la línea. Cero si la línea es exenta
// o con inversión del sujeto pasivo.
func LineRE(l entity.LineaFactura) decimal.Decimal {
	n := normalizar(l)
	return n.cuotaRE(n.base())
}

// LineTotal base + IVA + recargo de la línea.
func LineTotal(l entity.LineaFactura) decimal.Decimal {
	n := normalizar(l)
	b := n.base()
	return b.Add(n.cuotaIVA(b)).Add(n.cuotaRE(b))
}

// EffectiveREPct porcentaje de recargo que se aplica a la línea:
// el explícito si existe; si no, el de la tabla cuando la línea está sujeta al
// régimen; si no, 0. Las líneas exentas o con ISP siempre devuelven 0.
func EffectiveREPct(l entity.LineaFactura) decimal.Decimal {
	return normalizar(l).rePct
}

// CalculateLine devuelve la línea con BaseLinea, CuotaIVA, CuotaRE y TotalLinea recalculados.
func CalculateLine(l entity.LineaFactura) entity.LineaFactura {
	n := normalizar(l)
	l.BaseLinea = n.base()
	l.CuotaIVA = n.cuotaIVA(l.BaseLinea)
	l.CuotaRE = n.cuotaRE(l.BaseLinea)
	l.TotalLinea = l.BaseLinea.Add(l.CuotaIVA).Add(l.CuotaRE)
	return l
}

// InvoiceTotals agrupa las líneas por tipo de IVA (ausente = 0) y suma base, IVA
// y recargo por grupo. Los grupos salen en el orden en que aparece cada tipo.
// Se recalcula desde cero en cada llamada.
func InvoiceTotals(lineas []entity.LineaFactura) entity.Totales {
	grupos := make([]entity.BasePorTipo, 0, len(aeat.TiposIVA))
	idx := make(map[aeat.TipoIVA]int, len(aeat.TiposIVA))

	for _, l := range lineas {
		n := normalizar(l)
		b := n.base()
		i, ok := idx[n.tipoIVA]
		if !ok {
			i = len(grupos)
			idx[n.tipoIVA] = i
			grupos = append(grupos, entity.BasePorTipo{
				TipoIVA:             n.tipoIVA,
				Base:                decimal.Zero,
				CuotaIVA:            decimal.Zero,
				RecargoEquivalencia: decimal.Zero,
			})
		}
		g := &grupos[i]
		g.Base = g.Base.Add(b)
		g.CuotaIVA = g.CuotaIVA.Add(n.cuotaIVA(b))
		g.RecargoEquivalencia = g.RecargoEquivalencia.Add(n.cuotaRE(b))
	}

	t := entity.Totales{
		BasesPorTipo:       grupos,
		BaseImponibleTotal: decimal.Zero,
		CuotaIVATotal:      decimal.Zero,
		CuotaRETotal:       decimal.Zero,
	}
	for _, g := range grupos {
		t.BaseImponibleTotal = t.BaseImponibleTotal.Add(g.Base)
		t.CuotaIVATotal = t.CuotaIVATotal.Add(g.CuotaIVA)
		t.CuotaRETotal = t.CuotaRETotal.Add(g.RecargoEquivalencia)
	}
	t.TotalFactura = t.BaseImponibleTotal.Add(t.CuotaIVATotal).Add(t.CuotaRETotal)
	return t
}

// Recalculate devuelve una copia de la factura con las líneas y los totales
// recalculados. Los campos de retención IRPF se conservan sin cambios.
func Recalculate(f *entity.Factura) *entity.Factura {
	if f == nil {
		return nil
	}
	c := f.Clone()
	recalcular(c)
	return c
}

// recalcular actualiza f en el sitio.
func recalcular(f *entity.Factura) {
	for i := range f.Lineas {
		f.Lineas[i] = CalculateLine(f.Lineas[i])
	}
	t := InvoiceTotals(f.Lineas)
	t.RetencionIRPFPct = f.Totales.RetencionIRPFPct
	t.ImporteRetencionIRPF = f.Totales.ImporteRetencionIRPF
	f.Totales = t
}
