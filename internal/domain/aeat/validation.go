package aeat

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/recepcion-activa/internal/domain/entity"
	"github.com/jhoicas/recepcion-activa/pkg/aeat"
)

var cien = decimal.NewFromInt(100)

// ValidateInvoice devuelve la lista ordenada de incumplimientos de la factura;
// vacía si es válida. Primero las reglas comunes, después las del tipo de
// factura y por último las de cada línea. Nunca entra en pánico: una factura
// nula o con partes ausentes produce incumplimientos, no errores.
func ValidateInvoice(f *entity.Factura) []string {
	if f == nil {
		f = &entity.Factura{}
	}
	errs := make([]string, 0)

	errs = append(errs, validarComunes(f)...)
	switch f.TipoFactura {
	case aeat.FacturaOrdinaria:
		errs = append(errs, validarOrdinaria(f)...)
	case aeat.FacturaRectificativa:
		errs = append(errs, validarRectificativa(f)...)
	}
	for i, l := range f.Lineas {
		errs = append(errs, validarLinea(i+1, l, f.TipoFactura == aeat.FacturaRectificativa)...)
	}
	return errs
}

func validarComunes(f *entity.Factura) []string {
	var errs []string
	if f.TipoFactura != "" && !f.TipoFactura.Valid() {
		errs = append(errs, fmt.Sprintf("El tipo de factura %q no es válido", f.TipoFactura))
	}

	emisor := f.Emisor
	if emisor == nil {
		emisor = &entity.Emisor{}
	}
	if blank(emisor.NombreORazonSocial) {
		errs = append(errs, "El nombre o razón social del emisor es obligatorio")
	}
	switch {
	case blank(emisor.NIF):
		errs = append(errs, "El NIF del emisor es obligatorio")
	case !aeat.ValidateNIF(strings.TrimSpace(emisor.NIF)):
		errs = append(errs, "El NIF del emisor no es válido")
	}
	if emisor.Domicilio == nil {
		errs = append(errs, "El domicilio del emisor es obligatorio")
	}

	cliente := f.Cliente
	if cliente == nil {
		cliente = &entity.Cliente{}
	}
	if blank(cliente.NombreORazonSocial) {
		errs = append(errs, "El nombre o razón social del cliente es obligatorio")
	}
	if cliente.Tipo != "" && !cliente.Tipo.Valid() {
		errs = append(errs, fmt.Sprintf("El tipo de cliente %q no es válido", cliente.Tipo))
	}

	if f.FechaExpedicion.IsZero() {
		errs = append(errs, "La fecha de expedición es obligatoria")
	}
	if len(f.Lineas) == 0 {
		errs = append(errs, "Debe incluir al menos una línea de factura")
	}
	return errs
}

func validarOrdinaria(f *entity.Factura) []string {
	var errs []string
	cliente := f.Cliente
	if cliente == nil {
		cliente = &entity.Cliente{}
	}
	if cliente.Domicilio == nil {
		errs = append(errs, "El domicilio del cliente es obligatorio en facturas ordinarias")
	}
	if cliente.Tipo == aeat.ClienteEmpresario && blank(cliente.NIF) {
		errs = append(errs, "El NIF del cliente es obligatorio para empresarios/profesionales")
	}
	return errs
}

func validarRectificativa(f *entity.Factura) []string {
	var errs []string
	switch {
	case f.CausaRectificacion == "":
		errs = append(errs, "La causa de rectificación es obligatoria")
	case !f.CausaRectificacion.Valid():
		errs = append(errs, fmt.Sprintf("La causa de rectificación %q no es válida", f.CausaRectificacion))
	}
	if len(referencias(f.ReferenciasFacturasRectificadas)) == 0 {
		errs = append(errs, "Debe especificar las facturas rectificadas")
	}
	return errs
}

// validarLinea reglas de una línea; n es el número de línea empezando en 1.
// En facturas rectificativas se admite precio unitario negativo (abonos).
func validarLinea(n int, l entity.LineaFactura, rectificativa bool) []string {
	var errs []string
	if blank(l.Descripcion) {
		errs = append(errs, fmt.Sprintf("La descripción de la línea %d es obligatoria", n))
	}
	if !l.Cantidad.IsPositive() {
		errs = append(errs, fmt.Sprintf("La cantidad de la línea %d debe ser mayor que 0", n))
	}
	if l.PrecioUnitario.IsNegative() && !rectificativa {
		errs = append(errs, fmt.Sprintf("El precio unitario de la línea %d no puede ser negativo", n))
	}
	if l.DescuentoPct.IsNegative() || l.DescuentoPct.GreaterThan(cien) {
		errs = append(errs, fmt.Sprintf("El descuento de la línea %d debe estar entre 0 y 100", n))
	}

	if !l.Exenta && !l.InversionSujetoPasivo {
		switch {
		case l.TipoIVA == nil:
			errs = append(errs, fmt.Sprintf("Debe especificar el tipo de IVA para la línea %d", n))
		case !l.TipoIVA.Valid():
			errs = append(errs, fmt.Sprintf("El tipo de IVA de la línea %d no es válido (0, 4, 10 o 21)", n))
		}
	}
	if l.Exenta {
		switch {
		case l.MotivoExencion == "":
			errs = append(errs, fmt.Sprintf("Debe especificar el motivo de exención para la línea %d", n))
		case !l.MotivoExencion.Valid():
			errs = append(errs, fmt.Sprintf("El motivo de exención de la línea %d no es válido", n))
		}
	}
	return errs
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// referencias descarta referencias vacías.
func referencias(refs []string) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
