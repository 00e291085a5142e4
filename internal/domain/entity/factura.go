package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/recepcion-activa/pkg/aeat"
)

// Estados de la factura en el ciclo de cobro.
const (
	FacturaStatusDraft     = "DRAFT"     // Borrador, editable
	FacturaStatusSent      = "SENT"      // Enviada al cliente
	FacturaStatusPaid      = "PAID"      // Cobrada
	FacturaStatusOverdue   = "OVERDUE"   // Vencida sin cobrar
	FacturaStatusCancelled = "CANCELLED" // Anulada
)

// FacturaStatuses lista de estados válidos.
var FacturaStatuses = []string{
	FacturaStatusDraft, FacturaStatusSent, FacturaStatusPaid, FacturaStatusOverdue, FacturaStatusCancelled,
}

var statusTransitions = map[string][]string{
	FacturaStatusDraft:   {FacturaStatusSent, FacturaStatusCancelled},
	FacturaStatusSent:    {FacturaStatusPaid, FacturaStatusOverdue, FacturaStatusCancelled},
	FacturaStatusOverdue: {FacturaStatusPaid, FacturaStatusCancelled},
}

// ValidStatus indica si s es un estado conocido.
func ValidStatus(s string) bool {
	for _, st := range FacturaStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// CanTransition indica si una factura puede pasar de from a to.
// PAID y CANCELLED son estados finales.
func CanTransition(from, to string) bool {
	for _, st := range statusTransitions[from] {
		if st == to {
			return true
		}
	}
	return false
}

// Domicilio dirección postal de emisor o cliente.
type Domicilio struct {
	Calle        string `json:"calle"`
	CodigoPostal string `json:"codigoPostal"`
	Municipio    string `json:"municipio"`
	Provincia    string `json:"provincia"`
	Pais         string `json:"pais"`
}

// Emisor datos del expedidor de la factura.
type Emisor struct {
	NombreORazonSocial string     `json:"nombreORazonSocial"`
	NIF                string     `json:"NIF"`
	Domicilio          *Domicilio `json:"domicilio,omitempty"`
	IBAN               string     `json:"iban,omitempty"`
}

// Cliente destinatario de la factura.
// RecargoEquivalencia marca a un minorista acogido al régimen especial (LIVA art. 154).
type Cliente struct {
	Tipo                aeat.TipoCliente `json:"tipo"`
	NombreORazonSocial  string           `json:"nombreORazonSocial"`
	NIF                 string           `json:"NIF,omitempty"`
	Domicilio           *Domicilio       `json:"domicilio,omitempty"`
	Pais                string           `json:"pais"`
	RecargoEquivalencia bool             `json:"recargoEquivalencia,omitempty"`
}

// LineaFactura línea de detalle. Los campos BaseLinea, CuotaIVA, CuotaRE y
// TotalLinea son derivados: se recalculan siempre a partir del resto.
type LineaFactura struct {
	ID             int             `json:"id"`
	Descripcion    string          `json:"descripcion"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precioUnitario"`
	DescuentoPct   decimal.Decimal `json:"descuentoPct"`

	TipoIVA                *aeat.TipoIVA       `json:"tipoIVA,omitempty"`
	Exenta                 bool                `json:"exenta,omitempty"`
	MotivoExencion         aeat.MotivoExencion `json:"motivoExencion,omitempty"`
	InversionSujetoPasivo  bool                `json:"inversionSujetoPasivo,omitempty"`
	RecargoEquivalencia    bool                `json:"recargoEquivalencia,omitempty"`
	RecargoEquivalenciaPct *decimal.Decimal    `json:"recargoEquivalenciaPct,omitempty"`

	BaseLinea  decimal.Decimal `json:"baseLinea"`
	CuotaIVA   decimal.Decimal `json:"cuotaIVA"`
	CuotaRE    decimal.Decimal `json:"cuotaRE"`
	TotalLinea decimal.Decimal `json:"totalLinea"`
}

// BasePorTipo acumulado de las líneas con el mismo tipo de IVA.
type BasePorTipo struct {
	TipoIVA             aeat.TipoIVA    `json:"tipoIVA"`
	Base                decimal.Decimal `json:"base"`
	CuotaIVA            decimal.Decimal `json:"cuotaIVA"`
	RecargoEquivalencia decimal.Decimal `json:"recargoEquivalencia"`
}

// Totales importes agregados de la factura.
// La retención IRPF no se calcula: se conserva tal como llega.
type Totales struct {
	BasesPorTipo         []BasePorTipo    `json:"basesPorTipo"`
	BaseImponibleTotal   decimal.Decimal  `json:"baseImponibleTotal"`
	CuotaIVATotal        decimal.Decimal  `json:"cuotaIVATotal"`
	CuotaRETotal         decimal.Decimal  `json:"cuotaRETotal"`
	RetencionIRPFPct     *decimal.Decimal `json:"retencionIRPFPct,omitempty"`
	ImporteRetencionIRPF *decimal.Decimal `json:"importeRetencionIRPF,omitempty"`
	TotalFactura         decimal.Decimal  `json:"totalFactura"`
}

// Factura cabecera, partes, líneas y totales de una factura AEAT.
type Factura struct {
	ID               string           `json:"id"`
	TipoFactura      aeat.TipoFactura `json:"tipoFactura"`
	Serie            string           `json:"serie,omitempty"`
	Numero           string           `json:"numero"`
	FechaExpedicion  Fecha            `json:"fechaExpedicion"`
	FechaOperacion   Fecha            `json:"fechaOperacion"`
	Moneda           string           `json:"moneda"`
	LugarEmision     string           `json:"lugarEmision,omitempty"`
	Emisor           *Emisor          `json:"emisor"`
	Cliente          *Cliente         `json:"cliente"`
	Lineas           []LineaFactura   `json:"lineas"`
	Totales          Totales          `json:"totales"`
	FormaPago        string           `json:"formaPago,omitempty"`
	MedioPago        string           `json:"medioPago,omitempty"`
	FechaVencimiento Fecha            `json:"fechaVencimiento"`
	Notas            string           `json:"notas,omitempty"`

	EsRectificativa                 bool                    `json:"esRectificativa,omitempty"`
	CausaRectificacion              aeat.CausaRectificacion `json:"causaRectificacion,omitempty"`
	ReferenciasFacturasRectificadas []string                `json:"referenciasFacturasRectificadas,omitempty"`

	Status    string    `json:"status"`
	CreadoPor string    `json:"creadoPor,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NumeroCompleto devuelve "serie-numero" (o solo el número si no hay serie).
func (f *Factura) NumeroCompleto() string {
	if f.Serie == "" {
		return f.Numero
	}
	return f.Serie + "-" + f.Numero
}

// Clone copia profunda: la copia no comparte punteros ni slices con el original.
func (f *Factura) Clone() *Factura {
	if f == nil {
		return nil
	}
	c := *f
	if f.Emisor != nil {
		e := *f.Emisor
		e.Domicilio = cloneDomicilio(f.Emisor.Domicilio)
		c.Emisor = &e
	}
	if f.Cliente != nil {
		cl := *f.Cliente
		cl.Domicilio = cloneDomicilio(f.Cliente.Domicilio)
		c.Cliente = &cl
	}
	if f.Lineas != nil {
		c.Lineas = make([]LineaFactura, len(f.Lineas))
		for i, l := range f.Lineas {
			c.Lineas[i] = l.Clone()
		}
	}
	if f.ReferenciasFacturasRectificadas != nil {
		c.ReferenciasFacturasRectificadas = append([]string(nil), f.ReferenciasFacturasRectificadas...)
	}
	if f.Totales.BasesPorTipo != nil {
		c.Totales.BasesPorTipo = append([]BasePorTipo(nil), f.Totales.BasesPorTipo...)
	}
	c.Totales.RetencionIRPFPct = cloneDecimal(f.Totales.RetencionIRPFPct)
	c.Totales.ImporteRetencionIRPF = cloneDecimal(f.Totales.ImporteRetencionIRPF)
	return &c
}

// Clone copia la línea sin compartir los campos opcionales.
func (l LineaFactura) Clone() LineaFactura {
	if l.TipoIVA != nil {
		t := *l.TipoIVA
		l.TipoIVA = &t
	}
	l.RecargoEquivalenciaPct = cloneDecimal(l.RecargoEquivalenciaPct)
	return l
}

func cloneDomicilio(d *Domicilio) *Domicilio {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
