package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/recepcion-activa/internal/domain/entity"
	"github.com/jhoicas/recepcion-activa/pkg/aeat"
)

// FacturaRequest body para POST /api/facturas, PUT /api/facturas/:id y POST /api/facturas/calcular.
// Los campos derivados de las líneas y los totales se recalculan siempre; si llegan, se ignoran.
type FacturaRequest struct {
	TipoFactura                     aeat.TipoFactura        `json:"tipoFactura"`
	Serie                           string                  `json:"serie,omitempty"`
	FechaExpedicion                 entity.Fecha            `json:"fechaExpedicion"`
	FechaOperacion                  entity.Fecha            `json:"fechaOperacion"`
	FechaVencimiento                entity.Fecha            `json:"fechaVencimiento"`
	Moneda                          string                  `json:"moneda,omitempty"`
	LugarEmision                    string                  `json:"lugarEmision,omitempty"`
	Emisor                          *entity.Emisor          `json:"emisor"`
	Cliente                         *entity.Cliente         `json:"cliente"`
	Lineas                          []entity.LineaFactura   `json:"lineas"`
	RetencionIRPFPct                *decimal.Decimal        `json:"retencionIRPFPct,omitempty"`
	ImporteRetencionIRPF            *decimal.Decimal        `json:"importeRetencionIRPF,omitempty"`
	FormaPago                       string                  `json:"formaPago,omitempty"`
	MedioPago                       string                  `json:"medioPago,omitempty"`
	Notas                           string                  `json:"notas,omitempty"`
	CausaRectificacion              aeat.CausaRectificacion `json:"causaRectificacion,omitempty"`
	ReferenciasFacturasRectificadas []string                `json:"referenciasFacturasRectificadas,omitempty"`
}

// ToEntity copia la petición en una factura sin identidad ni numeración.
func (r FacturaRequest) ToEntity() *entity.Factura {
	f := &entity.Factura{
		TipoFactura:                     r.TipoFactura,
		Serie:                           r.Serie,
		FechaExpedicion:                 r.FechaExpedicion,
		FechaOperacion:                  r.FechaOperacion,
		FechaVencimiento:                r.FechaVencimiento,
		Moneda:                          r.Moneda,
		LugarEmision:                    r.LugarEmision,
		Emisor:                          r.Emisor,
		Cliente:                         r.Cliente,
		Lineas:                          r.Lineas,
		FormaPago:                       r.FormaPago,
		MedioPago:                       r.MedioPago,
		Notas:                           r.Notas,
		CausaRectificacion:              r.CausaRectificacion,
		ReferenciasFacturasRectificadas: r.ReferenciasFacturasRectificadas,
	}
	f.Totales.RetencionIRPFPct = r.RetencionIRPFPct
	f.Totales.ImporteRetencionIRPF = r.ImporteRetencionIRPF
	return f.Clone()
}

// FacturaResponse factura completa con sus menciones legales.
type FacturaResponse struct {
	*entity.Factura
	NumeroCompleto string   `json:"numeroCompleto"`
	Menciones      []string `json:"menciones"`
}

// CalculoResponse resultado de POST /api/facturas/calcular: nada se persiste.
type CalculoResponse struct {
	Factura     *entity.Factura `json:"factura"`
	Menciones   []string        `json:"menciones"`
	Violaciones []string        `json:"violaciones"`
	Valida      bool            `json:"valida"`
}

// FacturaResumen fila del listado.
type FacturaResumen struct {
	ID              string           `json:"id"`
	NumeroCompleto  string           `json:"numeroCompleto"`
	TipoFactura     aeat.TipoFactura `json:"tipoFactura"`
	FechaExpedicion entity.Fecha     `json:"fechaExpedicion"`
	ClienteNombre   string           `json:"clienteNombre"`
	ClienteNIF      string           `json:"clienteNif,omitempty"`
	TotalFactura    decimal.Decimal  `json:"totalFactura"`
	Moneda          string           `json:"moneda"`
	Status          string           `json:"status"`
}

// NewFacturaResumen construye la fila a partir de la factura.
func NewFacturaResumen(f *entity.Factura) FacturaResumen {
	r := FacturaResumen{
		ID:              f.ID,
		NumeroCompleto:  f.NumeroCompleto(),
		TipoFactura:     f.TipoFactura,
		FechaExpedicion: f.FechaExpedicion,
		TotalFactura:    f.Totales.TotalFactura,
		Moneda:          f.Moneda,
		Status:          f.Status,
	}
	if f.Cliente != nil {
		r.ClienteNombre = f.Cliente.NombreORazonSocial
		r.ClienteNIF = f.Cliente.NIF
	}
	return r
}

// ListResponse respuesta de GET /api/facturas.
type ListResponse struct {
	Items []FacturaResumen `json:"items"`
	PageResponse
}

// StatusRequest body para PATCH /api/facturas/:id/status.
type StatusRequest struct {
	Status string `json:"status"`
}

// NIFResponse resultado de GET /api/nif/:nif.
type NIFResponse struct {
	NIF              string `json:"nif"`
	Valido           bool   `json:"valido"`
	Clase            string `json:"clase,omitempty"`
	Intracomunitario bool   `json:"intracomunitario"`
}

// Opcion par código/texto de un catálogo.
type Opcion struct {
	Codigo string `json:"codigo"`
	Texto  string `json:"texto"`
}

// TipoIVAInfo tipo de IVA con su recargo de equivalencia asociado.
type TipoIVAInfo struct {
	Tipo                int             `json:"tipo"`
	RecargoEquivalencia decimal.Decimal `json:"recargoEquivalencia"`
}

// CatalogosResponse catálogos para poblar el formulario de factura.
type CatalogosResponse struct {
	TiposFactura        []string      `json:"tiposFactura"`
	TiposCliente        []string      `json:"tiposCliente"`
	TiposIVA            []TipoIVAInfo `json:"tiposIVA"`
	MotivosExencion     []Opcion      `json:"motivosExencion"`
	CausasRectificacion []Opcion      `json:"causasRectificacion"`
	FormasPago          []string      `json:"formasPago"`
	Estados             []string      `json:"estados"`
}

// NewCatalogosResponse vuelca los catálogos de la AEAT y los estados de factura.
func NewCatalogosResponse() CatalogosResponse {
	out := CatalogosResponse{
		TiposFactura: []string{
			string(aeat.FacturaOrdinaria), string(aeat.FacturaSimplificada), string(aeat.FacturaRectificativa),
		},
		TiposCliente: []string{string(aeat.ClienteParticular), string(aeat.ClienteEmpresario)},
		FormasPago:   append([]string(nil), aeat.FormasPago...),
		Estados:      append([]string(nil), entity.FacturaStatuses...),
	}
	for _, t := range aeat.TiposIVA {
		out.TiposIVA = append(out.TiposIVA, TipoIVAInfo{Tipo: int(t), RecargoEquivalencia: t.RecargoEquivalencia()})
	}
	for _, m := range aeat.MotivosExencion {
		ref, _ := m.Referencia()
		out.MotivosExencion = append(out.MotivosExencion, Opcion{Codigo: string(m), Texto: ref})
	}
	for _, c := range aeat.CausasRectificacion {
		txt, _ := c.Descripcion()
		out.CausasRectificacion = append(out.CausasRectificacion, Opcion{Codigo: string(c), Texto: txt})
	}
	return out
}
