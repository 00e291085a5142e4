package aeat

import (
	"strings"

	"github.com/jhoicas/recepcion-activa/internal/domain/entity"
	"github.com/jhoicas/recepcion-activa/pkg/aeat"
)

// LegalMentions menciones obligatorias que deben figurar en la factura impresa
// (RD 1619/2012, art. 6). No falla nunca.
//
// Orden: marca de rectificativa con causa y facturas rectificadas; una frase por
// cada motivo de exención distinto, en el orden de las líneas; un único aviso de
// inversión del sujeto pasivo; un único aviso de recargo de equivalencia.
func LegalMentions(f *entity.Factura) []string {
	menciones := make([]string, 0)
	if f == nil {
		return menciones
	}

	if f.TipoFactura == aeat.FacturaRectificativa {
		menciones = append(menciones, aeat.MencionRectificativa)
		if f.CausaRectificacion != "" {
			texto, ok := f.CausaRectificacion.Descripcion()
			if !ok {
				texto = string(f.CausaRectificacion)
			}
			menciones = append(menciones, "Causa: "+texto)
		}
		if refs := referencias(f.ReferenciasFacturasRectificadas); len(refs) > 0 {
			menciones = append(menciones, "Facturas rectificadas: "+strings.Join(refs, ", "))
		}
	}

	vistos := make(map[aeat.MotivoExencion]bool)
	var isp, re bool
	for _, l := range f.Lineas {
		if l.Exenta && l.MotivoExencion != "" && !vistos[l.MotivoExencion] {
			vistos[l.MotivoExencion] = true
			ref, ok := l.MotivoExencion.Referencia()
			if !ok {
				ref = string(l.MotivoExencion)
			}
			menciones = append(menciones, "Operación exenta según "+ref)
		}
		if l.InversionSujetoPasivo {
			isp = true
		}
		if !EffectiveREPct(l).IsZero() {
			re = true
		}
	}
	if isp {
		menciones = append(menciones, aeat.MencionInversionSujetoPasivo)
	}
	if re {
		menciones = append(menciones, aeat.MencionRecargoEquivalencia)
	}
	return menciones
}
