// Package aeat contiene catálogos y comprobaciones de formato alineados con la
// normativa de facturación de la Agencia Tributaria (Ley 37/1992 del IVA y
// Real Decreto 1619/2012, Reglamento de facturación).
package aeat

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// Tipos de factura (RD 1619/2012, arts. 6, 7 y 15)
// =============================================================================

// TipoFactura clase de factura expedida.
type TipoFactura string

const (
	FacturaOrdinaria     TipoFactura = "ordinaria"
	FacturaSimplificada  TipoFactura = "simplificada"
	FacturaRectificativa TipoFactura = "rectificativa"
)

// Valid indica si el tipo pertenece al catálogo.
func (t TipoFactura) Valid() bool {
	switch t {
	case FacturaOrdinaria, FacturaSimplificada, FacturaRectificativa:
		return true
	}
	return false
}

// =============================================================================
// Tipos de cliente
// =============================================================================

// TipoCliente distingue consumidor final de empresario o profesional.
type TipoCliente string

const (
	ClienteParticular TipoCliente = "particular"
	ClienteEmpresario TipoCliente = "empresario/profesional"
)

// Valid indica si el tipo pertenece al catálogo.
func (t TipoCliente) Valid() bool {
	return t == ClienteParticular || t == ClienteEmpresario
}

// =============================================================================
// Tipos impositivos de IVA (LIVA arts. 90 y 91)
// =============================================================================

// TipoIVA porcentaje de IVA aplicable a una línea. Solo admite los valores del catálogo.
type TipoIVA int

const (
	IVACero          TipoIVA = 0  // Tipo cero
	IVASuperreducido TipoIVA = 4  // Art. 91.Dos LIVA
	IVAReducido      TipoIVA = 10 // Art. 91.Uno LIVA
	IVAGeneral       TipoIVA = 21 // Art. 90 LIVA
)

// TiposIVA lista ordenada de tipos válidos.
var TiposIVA = []TipoIVA{IVACero, IVASuperreducido, IVAReducido, IVAGeneral}

// Valid indica si el tipo pertenece al catálogo.
func (t TipoIVA) Valid() bool {
	switch t {
	case IVACero, IVASuperreducido, IVAReducido, IVAGeneral:
		return true
	}
	return false
}

// Pct devuelve el porcentaje como decimal (21 -> 21).
func (t TipoIVA) Pct() decimal.Decimal {
	return decimal.NewFromInt(int64(t))
}

// RecargoEquivalencia devuelve el porcentaje de recargo de equivalencia asociado
// al tipo de IVA (LIVA art. 161). Tipos fuera de catálogo devuelven 0.
func (t TipoIVA) RecargoEquivalencia() decimal.Decimal {
	switch t {
	case IVACero:
		return decimal.Zero
	case IVASuperreducido:
		return decimal.RequireFromString("0.5")
	case IVAReducido:
		return decimal.RequireFromString("1.4")
	case IVAGeneral:
		return decimal.RequireFromString("5.2")
	}
	return decimal.Zero
}

// UnmarshalJSON rechaza tipos que no estén en el catálogo.
func (t *TipoIVA) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("aeat: tipo de IVA no numérico: %s", string(b))
	}
	v := TipoIVA(n)
	if !v.Valid() {
		return fmt.Errorf("aeat: tipo de IVA %d no permitido (0, 4, 10 o 21)", n)
	}
	*t = v
	return nil
}

// =============================================================================
// Motivos de exención (LIVA arts. 20, 21 y 25)
// =============================================================================

// MotivoExencion código del supuesto de exención aplicado a una línea.
type MotivoExencion string

const (
	ExencionEnsenanza        MotivoExencion = "art20.1.26"
	ExencionSanitaria        MotivoExencion = "art20.1.27"
	ExencionSocial           MotivoExencion = "art20.1.28"
	ExencionIntracomunitaria MotivoExencion = "art25"
	ExencionExportacion      MotivoExencion = "exportacion"
	ExencionOtro             MotivoExencion = "otro"
)

// MotivosExencion lista ordenada de códigos válidos.
var MotivosExencion = []MotivoExencion{
	ExencionEnsenanza, ExencionSanitaria, ExencionSocial,
	ExencionIntracomunitaria, ExencionExportacion, ExencionOtro,
}

// Referencia devuelve el texto legal del motivo y si el código es conocido.
func (m MotivoExencion) Referencia() (string, bool) {
	switch m {
	case ExencionEnsenanza:
		return "Art. 20.Uno.26º LIVA - Servicios de enseñanza", true
	case ExencionSanitaria:
		return "Art. 20.Uno.27º LIVA - Servicios sanitarios", true
	case ExencionSocial:
		return "Art. 20.Uno.28º LIVA - Servicios sociales", true
	case ExencionIntracomunitaria:
		return "Art. 25 LIVA - Entregas intracomunitarias", true
	case ExencionExportacion:
		return "Art. 20.Uno.1º LIVA - Exportaciones", true
	case ExencionOtro:
		return "Otro motivo de exención", true
	}
	return "", false
}

// Valid indica si el código pertenece al catálogo.
func (m MotivoExencion) Valid() bool {
	_, ok := m.Referencia()
	return ok
}

// =============================================================================
// Causas de rectificación (RD 1619/2012, art. 15)
// =============================================================================

// CausaRectificacion motivo por el que se expide una factura rectificativa.
type CausaRectificacion string

const (
	CausaError      CausaRectificacion = "error"
	CausaDevolucion CausaRectificacion = "devolucion"
	CausaDescuento  CausaRectificacion = "descuento"
	CausaOtra       CausaRectificacion = "otro"
)

// CausasRectificacion lista ordenada de causas válidas.
var CausasRectificacion = []CausaRectificacion{CausaError, CausaDevolucion, CausaDescuento, CausaOtra}

// Descripcion devuelve el texto legible de la causa y si es conocida.
func (c CausaRectificacion) Descripcion() (string, bool) {
	switch c {
	case CausaError:
		return "Error en la factura original", true
	case CausaDevolucion:
		return "Devolución de bienes o servicios", true
	case CausaDescuento:
		return "Descuento posterior", true
	case CausaOtra:
		return "Otra causa", true
	}
	return "", false
}

// Valid indica si la causa pertenece al catálogo.
func (c CausaRectificacion) Valid() bool {
	_, ok := c.Descripcion()
	return ok
}

// =============================================================================
// Formas de pago habituales
// =============================================================================

// FormasPago opciones ofrecidas en el formulario; el campo admite texto libre.
var FormasPago = []string{
	"Transferencia bancaria",
	"Efectivo",
	"Tarjeta de crédito/débito",
	"Bizum",
	"Cheque",
	"Domiciliación bancaria",
	"Letra de cambio",
	"Otro",
}

// =============================================================================
// Menciones obligatorias (RD 1619/2012, art. 6.1.j, k, m, n)
// =============================================================================

const (
	MencionRectificativa         = "FACTURA RECTIFICATIVA"
	MencionInversionSujetoPasivo = "Inversión del sujeto pasivo – art. 84.Uno.2º LIVA"
	MencionRecargoEquivalencia   = "Recargo de equivalencia aplicado"
)
